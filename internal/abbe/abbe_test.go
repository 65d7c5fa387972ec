package abbe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/precsim/internal/precision"
)

func TestCalculate(t *testing.T) {
	assert.Equal(t, 0.5, Calculate(50, 10))
	assert.Equal(t, 0.0, Calculate(0, 10))
	// linear in both arguments
	assert.InDelta(t, 2*Calculate(37, 11), Calculate(74, 11), 1e-12)
	assert.InDelta(t, -Calculate(37, 11), Calculate(37, -11), 1e-12)
}

func TestAnalyzeProbeOffset(t *testing.T) {
	a := AnalyzeProbeOffset(precision.Vec3{X: 10, Y: 20, Z: 30}, Tilts{Roll: 5, Pitch: 10, Yaw: 20})

	assert.InDelta(t, (20*20+30*10)/1000.0, a.Errors.X, 1e-12)
	assert.InDelta(t, (10*20+30*5)/1000.0, a.Errors.Y, 1e-12)
	assert.InDelta(t, (10*10+20*5)/1000.0, a.Errors.Z, 1e-12)
	assert.InDelta(t, a.Errors.Norm(), a.Total, 1e-12)
	assert.True(t, a.Acceptable)
}

func TestAnalyzeProbeOffset_NotAcceptable(t *testing.T) {
	a := AnalyzeProbeOffset(precision.Vec3{Y: 100}, Tilts{Yaw: 20})
	assert.InDelta(t, 2.0, a.Errors.X, 1e-12)
	assert.False(t, a.Acceptable)
	assert.Contains(t, a.Recommendation, "reduce")
}

func TestDesignMetrologyFrame(t *testing.T) {
	points := []precision.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 100, Y: 0, Z: 0},
		{X: 100, Y: 100, Z: 0},
		{X: 0, Y: 100, Z: 0},
	}
	f, err := DesignMetrologyFrame(points)
	require.NoError(t, err)

	assert.Equal(t, precision.Vec3{X: 50, Y: 50}, f.Origin)
	assert.InDelta(t, 50*math.Sqrt2, f.MaxOffset, 1e-9)
	require.Len(t, f.Advisories, 1)
	assert.Equal(t, precision.Approximate, f.Advisories[0].Code)
}

func TestDesignMetrologyFrame_CentroidNotMinimax(t *testing.T) {
	// three clustered points and one outlier: the centroid is pulled
	// toward the cluster, so its max offset exceeds the minimax value 50.
	points := []precision.Vec3{{X: 0}, {X: 0}, {X: 0}, {X: 100}}
	f, err := DesignMetrologyFrame(points)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, f.Origin.X, 1e-12)
	assert.InDelta(t, 75.0, f.MaxOffset, 1e-12)
}

func TestDesignMetrologyFrame_Empty(t *testing.T) {
	_, err := DesignMetrologyFrame(nil)
	assert.ErrorIs(t, err, precision.ErrEmptyInput)
}
