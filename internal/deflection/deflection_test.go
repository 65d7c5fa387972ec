package deflection

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/precsim/internal/precision"
)

func TestEulerBernoulli_CarbideFixture(t *testing.T) {
	r, err := EulerBernoulli(100, 50, 10, "carbide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// I = π·0.01⁴/64 m⁴, E = 580 GPa
	i := math.Pi * math.Pow(0.01, 4) / 64
	expected := 100 * math.Pow(0.05, 3) / (3 * 580e9 * i) * 1e6

	if math.Abs(r.Deflection-expected) > 1e-9 {
		t.Errorf("expected %.6f µm, got %.6f", expected, r.Deflection)
	}
	if math.Abs(r.Deflection-14.634937) > 1e-5 {
		t.Errorf("regression: expected 14.634937 µm, got %.6f", r.Deflection)
	}
	if math.Abs(r.Stiffness-100/r.Deflection) > 1e-12 {
		t.Errorf("stiffness should be force/deflection, got %f", r.Stiffness)
	}
	if r.Valid {
		t.Error("L/D = 5 should not be valid for Euler-Bernoulli")
	}
	if len(r.Advisories) != 1 || r.Advisories[0].Code != precision.SlenderBeam {
		t.Errorf("expected slender-beam advisory, got %v", r.Advisories)
	}
}

func TestEulerBernoulli_Scaling(t *testing.T) {
	base, _ := EulerBernoulli(100, 50, 10, "carbide")
	long, _ := EulerBernoulli(100, 100, 10, "carbide")
	thick, _ := EulerBernoulli(100, 50, 20, "carbide")

	if ratio := long.Deflection / base.Deflection; math.Abs(ratio-8) > 1e-9 {
		t.Errorf("doubling length should give 8x deflection, got %f", ratio)
	}
	if ratio := base.Deflection / thick.Deflection; math.Abs(ratio-16) > 1e-9 {
		t.Errorf("doubling diameter should give 1/16 deflection, got 1/%f", ratio)
	}
}

func TestEulerBernoulli_Validity(t *testing.T) {
	r, _ := EulerBernoulli(50, 120, 10, "carbide")
	if !r.Valid {
		t.Error("L/D = 12 should be valid")
	}
	if len(r.Advisories) != 0 {
		t.Errorf("expected no advisories, got %v", r.Advisories)
	}
}

func TestTimoshenko(t *testing.T) {
	eb, _ := EulerBernoulli(100, 50, 10, "carbide")
	ti, err := Timoshenko(100, 50, 10, "carbide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(ti.Bending-eb.Deflection) > 1e-12 {
		t.Errorf("bending term should equal Euler-Bernoulli: %f vs %f", ti.Bending, eb.Deflection)
	}

	// FL/(κAG), A = π·0.01²/4, G = 250 GPa
	shear := 100 * 0.05 / (ShearCorrection * math.Pi * 0.01 * 0.01 / 4 * 250e9) * 1e6
	if math.Abs(ti.Shear-shear) > 1e-12 {
		t.Errorf("expected shear %f, got %f", shear, ti.Shear)
	}
	if math.Abs(ti.Deflection-(ti.Bending+ti.Shear)) > 1e-12 {
		t.Error("total should be bending + shear")
	}
	if ti.Deflection <= eb.Deflection {
		t.Error("Timoshenko should exceed Euler-Bernoulli")
	}
}

func TestTapered(t *testing.T) {
	r, err := Tapered(100, 50, 25, 10, "carbide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eb, _ := EulerBernoulli(100, 50, 10, "carbide")

	if r.Deflection <= eb.Deflection {
		t.Errorf("reduced flute section should deflect more: %f <= %f", r.Deflection, eb.Deflection)
	}
	if math.Abs(r.Deflection-(r.Shank+r.Flute)) > 1e-12 {
		t.Error("total should be shank + flute")
	}

	full, err := Tapered(100, 50, 50, 10, "carbide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fluteOnly, _ := EulerBernoulli(100, 50, 10*FluteDiameterRatio, "carbide")
	if full.Shank != 0 {
		t.Errorf("no shank when flute equals stickout, got %f", full.Shank)
	}
	if math.Abs(full.Deflection-fluteOnly.Deflection) > 1e-9 {
		t.Errorf("expected %f, got %f", fluteOnly.Deflection, full.Deflection)
	}
}

func TestTapered_FluteTooLong(t *testing.T) {
	_, err := Tapered(100, 50, 60, 10, "carbide")
	if !errors.Is(err, ErrFluteTooLong) {
		t.Fatalf("expected ErrFluteTooLong, got %v", err)
	}
	if !errors.Is(err, precision.ErrInvalidGeometry) {
		t.Error("expected ErrInvalidGeometry in chain")
	}
}

func TestInvalidInputs(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"zero diameter", func() error { _, err := EulerBernoulli(100, 50, 0, "carbide"); return err }},
		{"negative length", func() error { _, err := Timoshenko(100, -50, 10, "carbide"); return err }},
		{"zero force", func() error { _, err := EulerBernoulli(0, 50, 10, "carbide"); return err }},
		{"zero flute", func() error { _, err := Tapered(100, 50, 0, 10, "carbide"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, precision.ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
		})
	}
}

func TestCompute_Dispatch(t *testing.T) {
	in := Input{Force: 100, Length: 50, Diameter: 10, FluteLength: 20, Material: "hss"}
	for _, m := range []Model{EulerBernoulliModel, TimoshenkoModel, TaperedModel} {
		r, err := Compute(m, in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		if r.Model != m {
			t.Errorf("expected model %s, got %s", m, r.Model)
		}
	}

	if _, err := Compute(Model(99), in); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		name     string
		expected Model
	}{
		{"euler-bernoulli", EulerBernoulliModel},
		{"timoshenko", TimoshenkoModel},
		{"tapered", TaperedModel},
	}
	for _, tt := range tests {
		m, err := ParseModel(tt.name)
		if err != nil || m != tt.expected {
			t.Errorf("ParseModel(%q) = %v, %v", tt.name, m, err)
		}
		if m.String() != tt.name {
			t.Errorf("String() = %q, want %q", m.String(), tt.name)
		}
	}
	if _, err := ParseModel("rigid"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestSurfaceError_Additive(t *testing.T) {
	se, err := ComputeSurfaceError(10, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1² / (8·5) mm = 25 µm
	if math.Abs(se.Scallop-25) > 1e-9 {
		t.Errorf("expected scallop 25 µm, got %f", se.Scallop)
	}
	if math.Abs(se.Total-35) > 1e-9 {
		t.Errorf("expected total 35 µm, got %f", se.Total)
	}
}

func TestSurfaceFinish(t *testing.T) {
	f, err := SurfaceFinish(0.2, 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(f.PeakToValley-6.25) > 1e-9 {
		t.Errorf("expected Rt 6.25 µm, got %f", f.PeakToValley)
	}
	if math.Abs(f.Ra-f.PeakToValley/4) > 1e-12 {
		t.Errorf("expected Ra = Rt/4, got %f", f.Ra)
	}

	if _, err := SurfaceFinish(0.1, 0); !errors.Is(err, precision.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}
