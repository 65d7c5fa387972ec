package budget

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/precsim/internal/precision"
)

// ErrDuplicateSource is returned when two sources share a name.
var ErrDuplicateSource = errors.New("budget: duplicate source name")

// Source is one named error contribution.
type Source struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// Law selects a combination rule.
type Law int

const (
	LawRSS Law = iota
	LawWorstCase
)

func (l Law) String() string {
	switch l {
	case LawRSS:
		return "rss"
	case LawWorstCase:
		return "worst-case"
	}
	return fmt.Sprintf("Law(%d)", int(l))
}

// Contribution is one source's share of a combined total.
type Contribution struct {
	Name    string
	Value   float64
	Percent float64
}

// Combination is the result of combining sources under one law.
type Combination struct {
	Law           Law
	Total         float64
	Contributions []Contribution
}

func checkNames(sources []Source) error {
	seen := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		if _, ok := seen[s.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateSource, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

// Combine dispatches on law.
func Combine(law Law, sources []Source) (Combination, error) {
	switch law {
	case LawRSS:
		return RSS(sources)
	case LawWorstCase:
		return WorstCase(sources)
	}
	return Combination{}, fmt.Errorf("budget: unknown law %d", int(law))
}

// RSS returns √Σv² and each source's percentage of Σv².
func RSS(sources []Source) (Combination, error) {
	return combine(LawRSS, sources, func(v float64) float64 { return v * v }, math.Sqrt)
}

// WorstCase returns Σ|v| and each source's percentage of it.
func WorstCase(sources []Source) (Combination, error) {
	return combine(LawWorstCase, sources, math.Abs, func(s float64) float64 { return s })
}

func combine(law Law, sources []Source, weight, total func(float64) float64) (Combination, error) {
	if err := checkNames(sources); err != nil {
		return Combination{}, err
	}

	sum := 0.0
	for _, s := range sources {
		sum += weight(s.Value)
	}

	c := Combination{Law: law, Total: total(sum), Contributions: make([]Contribution, len(sources))}
	for i, s := range sources {
		c.Contributions[i] = Contribution{Name: s.Name, Value: s.Value}
		if sum > 0 {
			c.Contributions[i].Percent = weight(s.Value) / sum * 100
		}
	}
	return c, nil
}

// Budget is an error budget evaluated against a target.
type Budget struct {
	Name            string
	Target          float64
	RSS             Combination
	WorstCase       Combination
	MeetsRSS        bool
	MeetsWorstCase  bool
	Recommendations []string
}

// TopN is the number of sources named in a recommendation.
const TopN = 3

// CreateBudget evaluates sources under both laws. When the RSS total
// exceeds target it recommends reducing the TopN largest sources by
// magnitude.
func CreateBudget(name string, target float64, sources []Source) (Budget, error) {
	if err := precision.Positive("target", target); err != nil {
		return Budget{}, err
	}
	rss, err := RSS(sources)
	if err != nil {
		return Budget{}, err
	}
	wc, err := WorstCase(sources)
	if err != nil {
		return Budget{}, err
	}

	b := Budget{
		Name:           name,
		Target:         target,
		RSS:            rss,
		WorstCase:      wc,
		MeetsRSS:       rss.Total <= target,
		MeetsWorstCase: wc.Total <= target,
	}
	if !b.MeetsRSS {
		for _, s := range Largest(sources, TopN) {
			b.Recommendations = append(b.Recommendations,
				fmt.Sprintf("reduce %s (%.3g, %.1f%% of variance)", s.Name, s.Value, percentOf(rss, s.Name)))
		}
	}
	return b, nil
}

func percentOf(c Combination, name string) float64 {
	for _, ct := range c.Contributions {
		if ct.Name == name {
			return ct.Percent
		}
	}
	return 0
}

// Largest returns up to n sources ordered by descending magnitude. Ties
// keep input order.
func Largest(sources []Source, n int) []Source {
	sorted := make([]Source, len(sources))
	copy(sorted, sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Value) > math.Abs(sorted[j].Value)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
