package trackcore

import "github.com/perceptioncore/trackcore/internal/kalman"

// TrackState is the per-track life-cycle state.
type TrackState int

const (
	StateNew TrackState = iota
	StateActive
	StateCoast
	StateDestroyed
)

func (s TrackState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateActive:
		return "ACTIVE"
	case StateCoast:
		return "COAST"
	case StateDestroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// Track is a single identified trajectory within one class, modeled on a
// TrackedObject abstraction but pared down to its essential fields: id,
// filter, class id, frames since last match, total hits, and the time of
// the last observation.
type Track struct {
	ID                  int
	ClassID             int
	Filter              kalman.Filter
	State               TrackState
	FramesSinceMatch    int
	TotalHits           int
	LastObservationTime float64

	dims []float32 // last known w/h, carried for box reconstruction
}

// newTrack births a track from an unmatched detection that has passed box
// rejection.
func newTrack(id, classID int, filter kalman.Filter, box BoundingBox2D, observedAt float64) *Track {
	return &Track{
		ID:                  id,
		ClassID:             classID,
		Filter:              filter,
		State:               StateNew,
		FramesSinceMatch:    0,
		TotalHits:           1,
		LastObservationTime: observedAt,
		dims:                []float32{box.W, box.H},
	}
}

// predict advances the track's filter by dt, the per-frame "coast" step run
// unconditionally before matching.
func (t *Track) predict(dt float32) {
	t.Filter.Predict(dt)
}

// hit records a successful match: correct the filter, reset
// FramesSinceMatch, and mature TotalHits/State.
//
// On filter instability (Correct returns false), the filter is reset from
// the fresh measurement instead and TotalHits resets to 1.
func (t *Track) hit(m kalman.Measurement, box BoundingBox2D, observedAt float64) {
	if !t.Filter.Correct(m) {
		t.Filter.Reset(m)
		t.TotalHits = 1
	} else {
		t.TotalHits++
	}
	t.FramesSinceMatch = 0
	t.LastObservationTime = observedAt
	t.dims = []float32{box.W, box.H}
	if t.State != StateActive {
		t.State = StateActive
	}
}

// miss records an unmatched frame: increment FramesSinceMatch and move to
// COAST.
func (t *Track) miss() {
	t.FramesSinceMatch++
	if t.State == StateActive || t.State == StateNew {
		t.State = StateCoast
	}
}

// dead reports whether t must be destroyed this frame: alive through
// exactly MaxFramesToSkip, destroyed at MaxFramesToSkip+1.
func (t *Track) dead(maxFramesToSkip int) bool {
	return t.FramesSinceMatch > maxFramesToSkip
}

// box reconstructs the track's current 2D box from filter state: center
// from the filter's position components, size from the filter's w/h when
// the state is long enough to be read here, otherwise from the last known
// w/h (dims here are the tracker's own bookkeeping, always available).
func (t *Track) box(classID int) BoundingBox2D {
	state := t.Filter.State()
	w, h := t.dims[0], t.dims[1]
	if len(state) >= 6 {
		// Linear2D/Linear3D/Extended2DH carry w,h as their last two
		// components (set at birth, corrected only when UseDim observes
		// them); prefer the filter's estimate whenever both are positive.
		// Fixed3D's 5-component state always uses the bookkeeping dims.
		if fw, fh := state[len(state)-2], state[len(state)-1]; fw > 0 && fh > 0 {
			w, h = fw, fh
		}
	}
	return BoundingBox2D{
		X: state[0], Y: state[1],
		W: w, H: h,
		ClassID: classID,
		Valid:   true,
	}
}
