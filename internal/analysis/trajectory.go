package analysis

import (
	"math"

	"github.com/kinemetric/pommel/internal/models"
	"github.com/kinemetric/pommel/internal/stats"
)

// resamplePoints is the fixed point count paths are resampled to before
// comparison.
const resamplePoints = 16

// pathPattern is one named template shape in the fixed pattern library.
type pathPattern struct {
	name   string
	closed bool // closed shapes are compared over cyclic rotations
	points []models.Position
}

// patternLibrary is the small fixed library of named path shapes the spatial
// analyzer recognizes. Order matters: ties in similarity keep the earlier
// pattern.
var patternLibrary = []pathPattern{
	{name: "circular", closed: true, points: circleTemplate()},
	{name: "linear", closed: false, points: lineTemplate(0)},
	{name: "diagonal", closed: false, points: lineTemplate(0.5)},
	{name: "pendulum", closed: false, points: pendulumTemplate()},
}

func circleTemplate() []models.Position {
	pts := make([]models.Position, resamplePoints)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(resamplePoints)
		pts[i] = models.Position{X: math.Cos(a), Y: math.Sin(a)}
	}
	return pts
}

func lineTemplate(slope float64) []models.Position {
	pts := make([]models.Position, resamplePoints)
	for i := range pts {
		t := float64(i) / float64(resamplePoints-1)
		pts[i] = models.Position{X: t, Y: t * slope}
	}
	return pts
}

// pendulumTemplate is a swing arc: out along a half-circle and back.
func pendulumTemplate() []models.Position {
	pts := make([]models.Position, resamplePoints)
	for i := range pts {
		t := float64(i) / float64(resamplePoints-1)
		a := math.Pi * t
		pts[i] = models.Position{X: math.Cos(a), Y: math.Sin(a) * 0.5}
	}
	return pts
}

// matchPattern compares a path against the library and returns the best
// pattern name and its similarity. ok is false when the path has too few
// points or nothing reaches the threshold.
func matchPattern(points []models.Position, threshold float64) (string, float64, bool) {
	if len(points) < 3 {
		return "", 0, false
	}
	normalized := normalizePath(points)
	bestName, bestSim := "", -1.0
	for _, pat := range patternLibrary {
		sim := patternSimilarity(normalized, pat)
		if sim > bestSim {
			bestName, bestSim = pat.name, sim
		}
	}
	if bestSim < threshold {
		return "", 0, false
	}
	return bestName, bestSim, true
}

func patternSimilarity(normalized []models.Position, pat pathPattern) float64 {
	tmpl := normalizePath(pat.points)
	best := pathSimilarity(normalized, tmpl)
	if !pat.closed {
		// Open shapes may be traversed in either direction.
		if s := pathSimilarity(reversePath(normalized), tmpl); s > best {
			best = s
		}
		return best
	}
	// Closed shapes match at any starting phase and either direction.
	for _, candidate := range [][]models.Position{normalized, reversePath(normalized)} {
		for shift := 0; shift < len(candidate); shift++ {
			if s := pathSimilarity(rotatePath(candidate, shift), tmpl); s > best {
				best = s
			}
		}
	}
	return best
}

// pathSimilarity computes 1 - meanPointDistance/2 between two normalized
// equal-length paths. Normalized points lie inside the unit disc, so 2 bounds
// the point distance and the result lands in [0,1].
func pathSimilarity(a, b []models.Position) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	total := 0.0
	for i := range a {
		dx := a[i].X - b[i].X
		dy := a[i].Y - b[i].Y
		total += math.Hypot(dx, dy)
	}
	return stats.Clamp01(1 - (total/float64(len(a)))/2)
}

// normalizePath resamples a path to a fixed point count by arc length, then
// removes translation (centroid at origin) and scale (max radius 1).
func normalizePath(points []models.Position) []models.Position {
	pts := resample(points, resamplePoints)

	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))

	maxR := 0.0
	for i := range pts {
		pts[i].X -= cx
		pts[i].Y -= cy
		if r := math.Hypot(pts[i].X, pts[i].Y); r > maxR {
			maxR = r
		}
	}
	if maxR > 0 {
		for i := range pts {
			pts[i].X /= maxR
			pts[i].Y /= maxR
		}
	}
	return pts
}

// resample produces n points evenly spaced along the path's arc length.
func resample(points []models.Position, n int) []models.Position {
	if len(points) == 1 {
		out := make([]models.Position, n)
		for i := range out {
			out[i] = points[0]
		}
		return out
	}

	segLens := make([]float64, len(points)-1)
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		segLens[i] = math.Hypot(points[i+1].X-points[i].X, points[i+1].Y-points[i].Y)
		total += segLens[i]
	}
	if total == 0 {
		return resample(points[:1], n)
	}

	out := make([]models.Position, n)
	out[0] = models.Position{X: points[0].X, Y: points[0].Y}
	seg, walked := 0, 0.0
	for i := 1; i < n; i++ {
		target := total * float64(i) / float64(n-1)
		for seg < len(segLens)-1 && walked+segLens[seg] < target {
			walked += segLens[seg]
			seg++
		}
		t := 0.0
		if segLens[seg] > 0 {
			t = (target - walked) / segLens[seg]
			if t > 1 {
				t = 1
			}
		}
		out[i] = models.Position{
			X: points[seg].X + (points[seg+1].X-points[seg].X)*t,
			Y: points[seg].Y + (points[seg+1].Y-points[seg].Y)*t,
		}
	}
	return out
}

func reversePath(points []models.Position) []models.Position {
	out := make([]models.Position, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

func rotatePath(points []models.Position, shift int) []models.Position {
	out := make([]models.Position, len(points))
	for i := range points {
		out[i] = points[(i+shift)%len(points)]
	}
	return out
}
