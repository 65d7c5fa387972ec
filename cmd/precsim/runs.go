package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/precsim/internal/config"
	"github.com/san-kum/precsim/internal/storage"
	"github.com/san-kum/precsim/internal/viz"
)

func runCommands() []*cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list machine presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tAXES\tTRAVEL\tTOOL\tTEETH\tTARGET")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\t%s Ø%.0f\t%d\t%.0f µm\n",
					name,
					cfg.Machine.AxisCount,
					cfg.Machine.Travel.Max,
					cfg.Tool.Material,
					cfg.Tool.Diameter,
					cfg.Chatter.Teeth,
					cfg.Budget.Target,
				)
			}
			return w.Flush()
		},
	}

	var out string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "write the selected preset as a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(out, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&out, "out", "o", "precsim.yaml", "output path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	var columns string
	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return plotRun(args[0], columns)
		},
	}
	plotCmd.Flags().StringVar(&columns, "columns", "", "columns to plot, comma separated (default all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).Export(args[0], os.Stdout)
		},
	}

	return []*cobra.Command{presetsCmd, initCmd, listCmd, plotCmd, exportCmd}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tANALYSIS\tPRESET\tTIME\tROWS\tADVISORIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Analysis,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows,
			len(run.Advisories),
		)
	}
	return w.Flush()
}

func plotRun(runID, columns string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("analysis: %s\n", meta.Analysis)
	for name, v := range meta.Metrics {
		fmt.Printf("  %s: %.6g\n", name, v)
	}
	if len(series.Rows) == 0 {
		fmt.Println("\nno series to plot")
		return nil
	}
	fmt.Printf("samples: %d\n\n", len(series.Rows))

	names := series.Columns
	if columns != "" {
		names = strings.Split(columns, ",")
	}
	for _, name := range names {
		data := series.Column(name)
		if data == nil {
			return fmt.Errorf("run %s has no column %q (have %v)", runID, name, series.Columns)
		}
		fmt.Println(viz.Line(data, name, 10, 80))
		fmt.Println()
	}
	return nil
}
