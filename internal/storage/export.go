package storage

import (
	"encoding/json"
	"io"
)

// ExportData is the single-document form of a saved run.
type ExportData struct {
	RunMetadata
	Series Series `json:"series"`
}

// Export writes a saved run, metadata and series, as indented JSON.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Series: series})
}
