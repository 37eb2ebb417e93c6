package trackcore

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/perceptioncore/trackcore/internal/assign"
	"github.com/perceptioncore/trackcore/internal/scipy"
)

// buildCostMatrix assembles the gated cost matrix for one class's
// assignment problem: rows are predicted track boxes, columns are this
// frame's detections. Cost is a weighted sum of normalized distance, center
// distance, log-area-ratio, and body-ratio terms; any pair exceeding a
// per-component threshold is gated to assign.Sentinel so the solver never
// matches it, modeled on a ScalarDistance label-filtering shape (see
// distances.go) generalized from a label predicate to three numeric gates
// (distance, center distance, log-area-ratio); the body-ratio term is a
// penalty only and never gates a pair.
//
// The center-distance term is computed for every pair at once via
// internal/scipy.Cdist (a scipy.spatial.distance.cdist port), rather than a
// nested per-pair Euclidean loop, the same vectorized shape it was built
// for.
func buildCostMatrix(predicted []BoundingBox2D, detections []BoundingBox2D, cfg TrackingConfig) [][]float64 {
	rows := len(predicted)
	cols := len(detections)
	cost := make([][]float64, rows)
	for i := range cost {
		cost[i] = make([]float64, cols)
	}
	if rows == 0 || cols == 0 {
		return cost
	}

	centers := cdistCenters(predicted, detections)

	for i, t := range predicted {
		for j, d := range detections {
			dist := float32(centers.At(i, j))
			c, gated := pairCost(t, d, dist, cfg)
			if gated {
				cost[i][j] = assign.Sentinel
			} else {
				cost[i][j] = c
			}
		}
	}
	return cost
}

// cdistCenters returns the pairwise Euclidean distance between every
// predicted box center and every detection box center, shape
// len(predicted) x len(detections).
func cdistCenters(predicted, detections []BoundingBox2D) *mat.Dense {
	XA := mat.NewDense(len(predicted), 2, nil)
	for i, b := range predicted {
		XA.SetRow(i, []float64{float64(b.X), float64(b.Y)})
	}
	XB := mat.NewDense(len(detections), 2, nil)
	for j, b := range detections {
		XB.SetRow(j, []float64{float64(b.X), float64(b.Y)})
	}
	return scipy.Cdist(XA, XB, "euclidean")
}

// pairCost computes the weighted cost between a predicted track box t and a
// detection box d given their precomputed center distance, and reports
// whether the pair is gated (forbidden) because any per-component distance
// exceeds its configured threshold.
//
// dist is reused for both the distance-threshold and center-threshold gates
// since this implementation does not carry additional observed
// non-positional components into the cost assembly itself — see DESIGN.md
// Open Questions.
func pairCost(t, d BoundingBox2D, dist float32, cfg TrackingConfig) (cost float64, gated bool) {
	logAreaRatio := float32(math.Abs(math.Log(float64(areaRatio(t, d)))))

	if cfg.DistThreshold > 0 && dist > cfg.DistThreshold {
		return 0, true
	}
	if cfg.CenterThreshold > 0 && dist > cfg.CenterThreshold {
		return 0, true
	}
	if cfg.AreaThreshold > 0 && logAreaRatio > cfg.AreaThreshold {
		return 0, true
	}

	var bodyPenalty float32
	if cfg.BodyRatio != 0 {
		bodyPenalty = float32(math.Abs(float64(d.aspectRatio() - cfg.BodyRatio)))
	}

	weighted := safeDiv(dist, cfg.DistThreshold) +
		safeDiv(dist, cfg.CenterThreshold) +
		safeDiv(logAreaRatio, cfg.AreaThreshold) +
		bodyPenalty

	return float64(weighted), false
}

// areaRatio returns d's area divided by t's area, guarding against a
// degenerate zero-area predicted box.
func areaRatio(t, d BoundingBox2D) float32 {
	ta := t.Area()
	if ta <= 0 {
		ta = 1e-6
	}
	return d.Area() / ta
}

// safeDiv normalizes v by threshold, returning 0 when threshold is
// non-positive (a non-positive threshold disables that gate term entirely,
// so it must not contribute to the weighted sum either).
func safeDiv(v, threshold float32) float32 {
	if threshold <= 0 {
		return 0
	}
	return v / threshold
}
