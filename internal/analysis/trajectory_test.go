package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinemetric/pommel/internal/models"
)

func TestMatchPattern_Circle(t *testing.T) {
	name, sim, ok := matchPattern(circlePositions(0.5, 0.3, 0.1, 10), DefaultSimilarityThreshold)
	require.True(t, ok)
	require.Equal(t, "circular", name)
	require.Greater(t, sim, 0.9)
}

func TestMatchPattern_CircleAnyPhaseAndDirection(t *testing.T) {
	pts := circlePositions(0.5, 0.3, 0.1, 10)

	// Start a quarter of the way around.
	rotated := append(append([]models.Position{}, pts[3:]...), pts[:3]...)
	name, _, ok := matchPattern(rotated, DefaultSimilarityThreshold)
	require.True(t, ok)
	require.Equal(t, "circular", name)

	// Traverse clockwise instead.
	name, _, ok = matchPattern(reversePath(pts), DefaultSimilarityThreshold)
	require.True(t, ok)
	require.Equal(t, "circular", name)
}

func TestMatchPattern_Linear(t *testing.T) {
	pts := []models.Position{{X: 0.1, Y: 0.3}, {X: 0.3, Y: 0.3}, {X: 0.5, Y: 0.3}, {X: 0.8, Y: 0.3}}
	name, sim, ok := matchPattern(pts, DefaultSimilarityThreshold)
	require.True(t, ok)
	require.Equal(t, "linear", name)
	require.Greater(t, sim, 0.95)
}

func TestMatchPattern_TooFewPoints(t *testing.T) {
	_, _, ok := matchPattern([]models.Position{{X: 0.1}, {X: 0.9}}, DefaultSimilarityThreshold)
	require.False(t, ok)
}

func TestMatchPattern_ThresholdGates(t *testing.T) {
	pts := circlePositions(0.5, 0.3, 0.1, 10)
	_, _, ok := matchPattern(pts, 1.01)
	require.False(t, ok, "nothing reaches an impossible threshold")
}

func TestNormalizePath_ScaleAndTranslationInvariant(t *testing.T) {
	small := normalizePath(circlePositions(0.2, 0.2, 0.05, 12))
	large := normalizePath(circlePositions(0.8, 0.6, 0.3, 12))

	require.Len(t, small, resamplePoints)
	require.Greater(t, pathSimilarity(small, large), 0.999)
}

func TestResample_DegeneratePath(t *testing.T) {
	out := resample([]models.Position{{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}}, resamplePoints)
	require.Len(t, out, resamplePoints)
	for _, p := range out {
		require.Equal(t, models.Position{X: 0.5, Y: 0.5}, p)
	}
}
