package trackcore

import (
	"testing"

	"github.com/perceptioncore/trackcore/internal/assign"
)

// unmatchedDetectionCount runs the gated cost assembly and Hungarian
// assignment for one frame and returns how many detections end up
// unmatched.
func unmatchedDetectionCount(t *testing.T, predicted, detections []BoundingBox2D, cfg TrackingConfig) int {
	t.Helper()
	cost := buildCostMatrix(predicted, detections, cfg)
	_, _, unmatchedCols := assign.Solve(cost)
	return len(unmatchedCols)
}

// TestBuildCostMatrix_RaisingThresholdsNeverIncreasesUnmatched covers the
// gating monotonicity property: raising any single gate threshold
// (DistThreshold, CenterThreshold, or AreaThreshold) while holding the rest
// of the configuration and the input fixed must never increase the number
// of unmatched detections, since loosening a gate can only admit pairs that
// were previously forbidden, never forbid ones that were previously
// admitted.
func TestBuildCostMatrix_RaisingThresholdsNeverIncreasesUnmatched(t *testing.T) {
	predicted := []BoundingBox2D{
		{X: 100, Y: 100, W: 40, H: 60, Valid: true},
		{X: 300, Y: 300, W: 40, H: 60, Valid: true},
		{X: 500, Y: 500, W: 40, H: 60, Valid: true},
	}
	detections := []BoundingBox2D{
		{X: 130, Y: 100, W: 40, H: 60, Valid: true}, // 30px from track 0
		{X: 360, Y: 300, W: 40, H: 60, Valid: true}, // 60px from track 1
		{X: 620, Y: 500, W: 10, H: 500, Valid: true}, // far + area mismatch from track 2
	}

	// A threshold of 0 disables that particular gate (see pairCost), so each
	// sweep below isolates the single threshold under test by leaving the
	// other two gates off rather than pinned to an unrelated fixed value.
	base := defaultTrackingConfig()
	base.DistThreshold = 0
	base.CenterThreshold = 0
	base.AreaThreshold = 0
	base.BodyRatio = 0

	thresholdSweeps := []struct {
		name  string
		apply func(cfg *TrackingConfig, scale float32)
	}{
		{"DistThreshold", func(cfg *TrackingConfig, scale float32) { cfg.DistThreshold = scale }},
		{"CenterThreshold", func(cfg *TrackingConfig, scale float32) { cfg.CenterThreshold = scale }},
		{"AreaThreshold", func(cfg *TrackingConfig, scale float32) { cfg.AreaThreshold = scale }},
	}

	// Spans both the center-distance crossings (30/60/120) and the log-area
	// crossing (~0.73 for the 10x500 detection against its 40x60 tracks) so
	// every sweep observes at least one gate opening partway through.
	scales := []float32{0.1, 0.5, 0.8, 5, 20, 50, 100, 500, 5000}

	for _, sweep := range thresholdSweeps {
		t.Run(sweep.name, func(t *testing.T) {
			prevUnmatched := -1
			for _, scale := range scales {
				cfg := base
				sweep.apply(&cfg, scale)

				unmatched := unmatchedDetectionCount(t, predicted, detections, cfg)
				if prevUnmatched >= 0 && unmatched > prevUnmatched {
					t.Errorf("raising %s to %v increased unmatched detections from %d to %d", sweep.name, scale, prevUnmatched, unmatched)
				}
				prevUnmatched = unmatched
			}
		})
	}
}

// TestBuildCostMatrix_GatedPairsExcludedFromAssignment checks that a pair
// whose center distance exceeds DistThreshold is never selected by the
// solver, regardless of how cheap every other candidate pairing is.
func TestBuildCostMatrix_GatedPairsExcludedFromAssignment(t *testing.T) {
	cfg := defaultTrackingConfig()
	cfg.DistThreshold = 10
	cfg.CenterThreshold = 10
	cfg.AreaThreshold = 1000

	predicted := []BoundingBox2D{{X: 0, Y: 0, W: 40, H: 40, Valid: true}}
	detections := []BoundingBox2D{{X: 1000, Y: 1000, W: 40, H: 40, Valid: true}}

	cost := buildCostMatrix(predicted, detections, cfg)
	assignments, unmatchedRows, unmatchedCols := assign.Solve(cost)

	if len(assignments) != 0 {
		t.Fatalf("expected the out-of-range pair to be gated, got assignments %+v", assignments)
	}
	if len(unmatchedRows) != 1 || len(unmatchedCols) != 1 {
		t.Errorf("expected both the track and detection to be left unmatched, got rows=%v cols=%v", unmatchedRows, unmatchedCols)
	}
}
