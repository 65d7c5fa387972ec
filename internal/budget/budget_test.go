package budget

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/precsim/internal/precision"
)

var _ = Describe("RSS", func() {
	It("should combine in quadrature with variance shares", func() {
		c, err := RSS([]Source{{"thermal", 3}, {"geometric", -4}})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Law).To(Equal(LawRSS))
		Expect(c.Total).To(BeNumerically("~", 5, 1e-12))
		Expect(c.Contributions[0].Percent).To(BeNumerically("~", 36, 1e-9))
		Expect(c.Contributions[1].Percent).To(BeNumerically("~", 64, 1e-9))
	})

	It("should return zero for an empty list", func() {
		c, err := RSS(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Total).To(BeZero())
		Expect(c.Contributions).To(BeEmpty())
	})

	It("should reject duplicate names", func() {
		_, err := RSS([]Source{{"spindle", 1}, {"spindle", 2}})
		Expect(err).To(MatchError(ErrDuplicateSource))
	})
})

var _ = Describe("WorstCase", func() {
	It("should sum magnitudes", func() {
		c, err := WorstCase([]Source{{"a", 3}, {"b", -4}, {"c", 1}})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Total).To(BeNumerically("~", 8, 1e-12))
		Expect(c.Contributions[1].Percent).To(BeNumerically("~", 50, 1e-9))
	})

	DescribeTable("should never be below RSS",
		func(values []float64) {
			sources := make([]Source, len(values))
			for i, v := range values {
				sources[i] = Source{Name: string(rune('a' + i)), Value: v}
			}
			rss, err := RSS(sources)
			Expect(err).NotTo(HaveOccurred())
			wc, err := WorstCase(sources)
			Expect(err).NotTo(HaveOccurred())
			Expect(rss.Total).To(BeNumerically("<", wc.Total))
		},
		Entry("two equal", []float64{1.0, 1.0}),
		Entry("mixed sign", []float64{2.5, -0.7, 1.1}),
		Entry("one dominant", []float64{10.0, 0.01}),
		Entry("many", []float64{0.3, 0.4, 0.5, 0.6, 0.7, 0.8}),
	)
})

var _ = Describe("Combine", func() {
	It("should dispatch on the law", func() {
		sources := []Source{{"a", 3}, {"b", 4}}
		rss, _ := Combine(LawRSS, sources)
		wc, _ := Combine(LawWorstCase, sources)
		Expect(rss.Total).To(BeNumerically("~", 5, 1e-12))
		Expect(wc.Total).To(BeNumerically("~", 7, 1e-12))

		_, err := Combine(Law(7), sources)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("CreateBudget", func() {
	sources := []Source{
		{"thermal", 4},
		{"geometric", 3},
		{"spindle", 0.5},
		{"deflection", -6},
		{"probe", 1},
	}

	It("should recommend the three largest sources when over target", func() {
		b, err := CreateBudget("finishing", 5, sources)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.MeetsRSS).To(BeFalse())
		Expect(b.MeetsWorstCase).To(BeFalse())
		Expect(b.Recommendations).To(HaveLen(3))
		Expect(b.Recommendations[0]).To(ContainSubstring("deflection"))
		Expect(b.Recommendations[1]).To(ContainSubstring("thermal"))
		Expect(b.Recommendations[2]).To(ContainSubstring("geometric"))
	})

	It("should not recommend anything when the RSS total meets target", func() {
		b, err := CreateBudget("roughing", 20, sources)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.MeetsRSS).To(BeTrue())
		Expect(b.MeetsWorstCase).To(BeTrue())
		Expect(b.Recommendations).To(BeEmpty())
	})

	It("should meet on RSS but not worst case in between", func() {
		b, err := CreateBudget("semi", 10, sources)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.MeetsRSS).To(BeTrue())
		Expect(b.MeetsWorstCase).To(BeFalse())
	})

	It("should reject a non-positive target", func() {
		_, err := CreateBudget("bad", 0, sources)
		Expect(err).To(MatchError(precision.ErrOutOfRange))
	})
})

var _ = Describe("MonteCarlo", func() {
	dists := []Distribution{
		{Name: "thermal", Kind: Normal, Mean: 1, StdDev: 2},
		{Name: "probe", Kind: Uniform, Min: -1, Max: 1},
	}

	It("should sort totals and index percentiles at floor(p·n)", func() {
		sim, err := MonteCarlo(dists, 2000, Options{Seed: 42})
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.Totals).To(HaveLen(2000))
		for i := 1; i < len(sim.Totals); i++ {
			Expect(sim.Totals[i]).To(BeNumerically(">=", sim.Totals[i-1]))
		}
		n := float64(len(sim.Totals))
		Expect(sim.P95).To(Equal(sim.Totals[int(math.Floor(0.95*n))]))
		Expect(sim.P99).To(Equal(sim.Totals[int(math.Floor(0.99*n))]))
		Expect(sim.P95).To(BeNumerically(">=", sim.Mean))
		Expect(sim.P99).To(BeNumerically(">=", sim.P95))
	})

	It("should approach the analytic moments", func() {
		sim, err := MonteCarlo(dists, 50000, Options{Seed: 7})
		Expect(err).NotTo(HaveOccurred())
		// σ² = 4 + 4/12
		Expect(sim.Mean).To(BeNumerically("~", 1, 0.05))
		Expect(sim.StdDev).To(BeNumerically("~", math.Sqrt(4+1.0/3), 0.05))
	})

	It("should be reproducible for a seed", func() {
		a, _ := MonteCarlo(dists, 100, Options{Seed: 3})
		b, _ := MonteCarlo(dists, 100, Options{Seed: 3})
		Expect(a.Totals).To(Equal(b.Totals))
	})

	It("should reject bad input", func() {
		_, err := MonteCarlo(dists, 0, Options{})
		Expect(err).To(MatchError(precision.ErrOutOfRange))

		_, err = MonteCarlo(nil, 10, Options{})
		Expect(err).To(MatchError(precision.ErrEmptyInput))

		_, err = MonteCarlo([]Distribution{{Name: "x", Kind: Normal, StdDev: -1}}, 10, Options{})
		Expect(err).To(MatchError(precision.ErrOutOfRange))
	})
})

var _ = Describe("Percentile", func() {
	It("should clamp to the last element", func() {
		Expect(Percentile([]float64{1, 2, 3}, 1.0)).To(Equal(3.0))
		Expect(Percentile([]float64{1, 2, 3, 4}, 0.5)).To(Equal(3.0))
		Expect(math.IsNaN(Percentile(nil, 0.5))).To(BeTrue())
	})
})

var _ = Describe("Largest", func() {
	It("should order by magnitude and keep input order on ties", func() {
		got := Largest([]Source{{"a", 1}, {"b", -2}, {"c", 2}, {"d", 0.5}}, 3)
		Expect(got).To(Equal([]Source{{"b", -2}, {"c", 2}, {"a", 1}}))
	})
})
