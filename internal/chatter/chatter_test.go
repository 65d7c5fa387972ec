package chatter

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/precsim/internal/precision"
)

var endMill = Params{Mass: 0.5, Stiffness: 2e7, Damping: 150, Kc: 2000, Teeth: 4}

func mustModel(p Params) *Model {
	m, err := NewModel(p)
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("NewModel", func() {
	It("should derive modal properties at construction", func() {
		m := mustModel(endMill)
		Expect(m.NaturalFrequency()).To(BeNumerically("~", 6324.5553, 1e-3))
		Expect(m.DampingRatio()).To(BeNumerically("~", 0.0237171, 1e-6))
		Expect(m.DampedFrequency()).To(BeNumerically("<", m.NaturalFrequency()))
		Expect(m.Params()).To(Equal(endMill))
	})

	DescribeTable("should reject invalid parameters",
		func(p Params) {
			_, err := NewModel(p)
			Expect(err).To(MatchError(precision.ErrOutOfRange))
		},
		Entry("zero mass", Params{Stiffness: 1e7, Damping: 100, Kc: 2000, Teeth: 2}),
		Entry("negative damping", Params{Mass: 1, Stiffness: 1e7, Damping: -1, Kc: 2000, Teeth: 2}),
		Entry("no teeth", Params{Mass: 1, Stiffness: 1e7, Damping: 100, Kc: 2000}),
	)
})

var _ = Describe("FRF", func() {
	var m *Model

	BeforeEach(func() {
		m = mustModel(endMill)
	})

	It("should equal the static compliance at zero frequency", func() {
		r := m.FRF(0)
		Expect(r.Real).To(BeNumerically("~", 1/endMill.Stiffness, 1e-15))
		Expect(r.Imag).To(BeZero())
		Expect(r.Phase).To(BeZero())
	})

	It("should lag by a quarter turn at resonance", func() {
		r := m.FRF(m.NaturalFrequency())
		Expect(r.Real).To(BeNumerically("~", 0, 1e-12))
		Expect(r.Phase).To(BeNumerically("~", -math.Pi/2, 1e-9))
		Expect(r.Magnitude).To(BeNumerically("~", 1/(endMill.Damping*m.NaturalFrequency()), 1e-12))
	})
})

var _ = Describe("CriticalDepth", func() {
	var m *Model

	BeforeEach(func() {
		m = mustModel(endMill)
	})

	It("should be unconditionally stable below resonance", func() {
		Expect(math.IsInf(m.CriticalDepth(0.5*m.NaturalFrequency()), 1)).To(BeTrue())
		Expect(math.IsInf(m.CriticalDepth(0.999*m.NaturalFrequency()), 1)).To(BeTrue())
	})

	It("should be finite and positive above resonance", func() {
		d := m.CriticalDepth(1.03 * m.NaturalFrequency())
		Expect(d).To(BeNumerically("~", 0.12512, 1e-4))
	})

	It("should never fall below the absolute limit", func() {
		limit := m.AbsoluteLimit()
		Expect(limit).To(BeNumerically("~", 0.121398, 1e-5))
		for i := 1; i <= 1000; i++ {
			w := m.NaturalFrequency() * (1 + float64(i)/1000)
			Expect(m.CriticalDepth(w)).To(BeNumerically(">=", limit*(1-1e-6)))
		}
	})
})

var _ = Describe("GenerateStabilityLobes", func() {
	var (
		m   *Model
		rng RPMRange
		set LobeSet
	)

	BeforeEach(func() {
		m = mustModel(endMill)
		rng = RPMRange{Min: 2000, Max: 20000}
		set = GenerateStabilityLobes(m, rng, 5)
	})

	It("should produce every lobe in order", func() {
		Expect(set.Lobes).To(HaveLen(5))
		for i, lobe := range set.Lobes {
			Expect(lobe.Index).To(Equal(i))
		}
	})

	It("should keep only bounded points inside the range", func() {
		for _, lobe := range set.Lobes {
			Expect(lobe.Points).NotTo(BeEmpty())
			for j, p := range lobe.Points {
				Expect(rng.Contains(p.RPM)).To(BeTrue())
				Expect(p.Depth).To(BeNumerically(">", 0))
				Expect(p.Depth).To(BeNumerically("<", MaxDepth))
				if j > 0 {
					Expect(p.RPM).To(BeNumerically(">=", lobe.Points[j-1].RPM))
				}
			}
		}
	})

	It("should start each lobe to the right of its lobe-top speed", func() {
		tops := OptimalSpeeds(m, 5)
		for _, lobe := range set.Lobes[1:] {
			Expect(lobe.Points[0].RPM).To(BeNumerically(">", tops[lobe.Index]))
		}
	})

	It("should bottom out at the absolute limit", func() {
		lowest := math.Inf(1)
		for _, lobe := range set.Lobes {
			for _, p := range lobe.Points {
				lowest = math.Min(lowest, p.Depth)
			}
		}
		Expect(lowest).To(BeNumerically("~", m.AbsoluteLimit(), 1e-4))
	})

	It("should omit lobes that fall outside the range", func() {
		narrow := GenerateStabilityLobes(m, RPMRange{Min: 13000, Max: 14000}, 5)
		for _, lobe := range narrow.Lobes {
			Expect(lobe.Index).To(BeNumerically(">=", 1))
		}
		Expect(GenerateStabilityLobes(m, RPMRange{Min: 100, Max: 200}, 3).Lobes).To(BeEmpty())
	})

	It("should pin lobes that cross a range end to that end", func() {
		first := set.Lobes[0].Points
		Expect(first[len(first)-1].RPM).To(Equal(rng.Max))
		Expect(set.LimitAt(rng.Max)).To(BeNumerically("<", MaxDepth))
	})

	It("should fall back to the absolute limit below the highest lobe", func() {
		Expect(set.FloorRPM).To(BeNumerically(">", rng.Min))
		Expect(set.FloorRPM).To(BeNumerically(">", OptimalSpeeds(m, 5)[4]))
		Expect(set.LimitAt(1000)).To(Equal(m.AbsoluteLimit()))
		Expect(set.LimitAt(rng.Min)).To(Equal(m.AbsoluteLimit()))
		Expect(set.LimitAt(10000)).To(BeNumerically("<", MaxDepth))
	})

	It("should treat every speed as uncovered without lobes", func() {
		empty := GenerateStabilityLobes(m, rng, 0)
		Expect(empty.Lobes).To(BeEmpty())
		Expect(empty.LimitAt(15000)).To(Equal(m.AbsoluteLimit()))
	})
})

var _ = Describe("LobesToCover", func() {
	It("should put the second-highest lobe top below the speed", func() {
		m := mustModel(endMill)
		Expect(LobesToCover(m, 2000)).To(Equal(10))
		tops := OptimalSpeeds(m, 10)
		Expect(tops[8]).To(BeNumerically("<", 2000))
		Expect(LobesToCover(m, 1e9)).To(Equal(3))
		Expect(LobesToCover(m, 1)).To(Equal(MaxLobes))
		Expect(LobesToCover(m, 0)).To(Equal(MaxLobes))
	})
})

var _ = Describe("CheckStability", func() {
	var m *Model

	BeforeEach(func() {
		m = mustModel(endMill)
	})

	It("should be fully stable when teeth pass below resonance", func() {
		c, err := CheckStability(m, 6000, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.ToothPassingHz).To(BeNumerically("~", 400, 1e-9))
		Expect(c.Stable).To(BeTrue())
		Expect(c.MarginPercent).To(Equal(100.0))
	})

	It("should compute a margin against the critical depth", func() {
		c, err := CheckStability(m, 15551.7265, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.CriticalDepth).To(BeNumerically("~", 0.12512, 1e-4))
		Expect(c.Stable).To(BeTrue())
		Expect(c.MarginPercent).To(BeNumerically("~", (c.CriticalDepth-0.1)/c.CriticalDepth*100, 1e-9))

		c, err = CheckStability(m, 15551.7265, 0.2)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Stable).To(BeFalse())
		Expect(c.MarginPercent).To(BeNumerically("<", 0))
	})

	It("should reject a non-positive speed", func() {
		_, err := CheckStability(m, 0, 1)
		Expect(err).To(MatchError(precision.ErrOutOfRange))
	})
})

var _ = Describe("BestSpeed", func() {
	It("should pick the deepest point on the envelope", func() {
		m := mustModel(endMill)
		rng := RPMRange{Min: 5100, Max: 20000}
		best, err := BestSpeed(m, rng, 5, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(rng.Contains(best.RPM)).To(BeTrue())
		Expect(best.Depth).To(BeNumerically(">", m.AbsoluteLimit()))

		set := GenerateStabilityLobes(m, rng, LobesToCover(m, rng.Min))
		for rpm := rng.Min; rpm <= rng.Max; rpm += 500 {
			Expect(set.LimitAt(rpm)).To(BeNumerically("<=", best.Depth+1e-6))
		}
	})

	It("should bound the low-speed end of a range that starts below the lobes", func() {
		m := mustModel(endMill)
		rng := RPMRange{Min: 2000, Max: 20000}
		best, err := BestSpeed(m, rng, 5, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(best.Depth).To(BeNumerically("<", MaxDepth))
		Expect(best.Depth).To(BeNumerically(">", m.AbsoluteLimit()))
		Expect(best.RPM).To(BeNumerically(">", rng.Min))

		set := GenerateStabilityLobes(m, rng, LobesToCover(m, rng.Min))
		Expect(set.FloorRPM).To(BeNumerically("<", rng.Min))
		pinned := 0
		for _, lobe := range set.Lobes {
			if lobe.Points[0].RPM == rng.Min {
				pinned++
			}
		}
		Expect(pinned).To(BeNumerically(">", 0))
		Expect(set.LimitAt(rng.Min)).To(BeNumerically("<", MaxDepth))
		for rpm := rng.Min; rpm <= rng.Max; rpm += 250 {
			Expect(set.LimitAt(rpm)).To(BeNumerically("<", MaxDepth))
			Expect(set.LimitAt(rpm)).To(BeNumerically("<=", best.Depth+1e-6))
		}
	})

	It("should validate its arguments", func() {
		m := mustModel(endMill)
		_, err := BestSpeed(m, RPMRange{Min: 5000, Max: 4000}, 3, 10)
		Expect(err).To(MatchError(precision.ErrOutOfRange))
		_, err = BestSpeed(m, RPMRange{Min: 4000, Max: 5000}, 3, 0)
		Expect(err).To(MatchError(precision.ErrOutOfRange))
	})
})
