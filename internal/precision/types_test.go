package precision

import (
	"errors"
	"math"
	"testing"
)

func TestVec3_Norm(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected float64
	}{
		{Vec3{3, 4, 0}, 5},
		{Vec3{0, 0, 0}, 0},
		{Vec3{1, 2, 2}, 3},
	}

	for _, tt := range tests {
		if got := tt.v.Norm(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Norm(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := (Vec3{1, 0, 0}).Cross(Vec3{0, 1, 0}); got != (Vec3{0, 0, 1}) {
		t.Errorf("Cross failed: got %v", got)
	}
}

func TestVec3_IsValid(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsValid() {
		t.Error("finite vector reported invalid")
	}
	if (Vec3{math.NaN(), 0, 0}).IsValid() {
		t.Error("NaN vector reported valid")
	}
	if (Vec3{0, math.Inf(1), 0}).IsValid() {
		t.Error("Inf vector reported valid")
	}
}

func TestPositive(t *testing.T) {
	if err := Positive("length", 10); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := Positive("length", -1)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	var inErr *InputError
	if !errors.As(err, &inErr) || inErr.Field != "length" {
		t.Errorf("expected InputError for length, got %v", err)
	}
	if err.Error() != "length=-1: precision: input out of valid range" {
		t.Errorf("unexpected message %q", err.Error())
	}

	if NonNegative("offset", 0) != nil {
		t.Error("zero should be non-negative")
	}
}

func TestAdvise(t *testing.T) {
	a := Advise(CourantExceeded, "r=%.2f", 0.75)
	if a.String() != "[courant-exceeded] r=0.75" {
		t.Errorf("unexpected advisory %q", a.String())
	}
}
