package trackcore

import "github.com/perceptioncore/trackcore/internal/assign"

// TrackerPerClass runs the per-frame update for a single class: an ordered
// {track_id -> Track} mapping plus a monotonic id counter.
//
// Modeled on a Tracker.Update 8-stage pipeline, adapted to a 7-step
// per-class update (predict -> cost/gate -> Hungarian -> assignment -> hit
// -> miss/death -> birth).
type TrackerPerClass struct {
	ClassID int
	Config  TrackingConfig

	tracks []*Track
	ids    idFactory
}

// NewTrackerPerClass constructs an empty per-class tracker.
func NewTrackerPerClass(classID int, cfg TrackingConfig) *TrackerPerClass {
	return &TrackerPerClass{ClassID: classID, Config: cfg}
}

// Update runs one frame's worth of the 7-step per-class pipeline and
// returns the class's live tracks (NEW, ACTIVE or COAST, never DESTROYED) after
// this frame's update. detections and positions3D are index-aligned;
// positions3D may be nil when no depth information is available this frame.
func (t *TrackerPerClass) Update(detections []Detection, positions3D []*Position3D, dt float32, now float64) []*Track {
	// Step 1: predict every alive track.
	for _, tr := range t.tracks {
		tr.predict(dt)
	}

	predictedBoxes := make([]BoundingBox2D, len(t.tracks))
	for i, tr := range t.tracks {
		predictedBoxes[i] = tr.box(t.ClassID)
	}
	detectionBoxes := make([]BoundingBox2D, len(detections))
	for i, d := range detections {
		detectionBoxes[i] = d.Box
	}

	// Steps 2-3: gated, weighted cost matrix.
	cost := buildCostMatrix(predictedBoxes, detectionBoxes, t.Config)

	// Step 4: solve; assign.Solve already treats any pairing whose cost is
	// >= assign.Sentinel as unmatched by construction, since pairCost only
	// ever emits a finite cost or assign.Sentinel itself.
	assignments, _, unmatchedDetIdx := assign.Solve(cost)
	if len(t.tracks) == 0 {
		// A zero-row cost matrix carries no column count, so Solve cannot
		// report the detections as unmatched; every detection is unmatched.
		unmatchedDetIdx = make([]int, len(detections))
		for j := range unmatchedDetIdx {
			unmatchedDetIdx[j] = j
		}
	}

	matchedTracks := make(map[int]bool, len(assignments))
	matchedDets := make(map[int]bool, len(assignments))

	// Step 5: correct matched pairs.
	for _, a := range assignments {
		tr := t.tracks[a.Row]
		det := detections[a.Col]
		var pos3 *Position3D
		if positions3D != nil {
			pos3 = positions3D[a.Col]
		}
		m := buildMeasurement(t.Config.Variant, det.Box, pos3)
		tr.hit(m, det.Box, now)
		matchedTracks[a.Row] = true
		matchedDets[a.Col] = true
	}

	// Step 6: miss + death for unassigned tracks.
	var survivors []*Track
	for i, tr := range t.tracks {
		if !matchedTracks[i] {
			tr.miss()
		}
		if tr.dead(t.Config.MaxFramesToSkip) {
			tr.State = StateDestroyed
			continue
		}
		survivors = append(survivors, tr)
	}
	t.tracks = survivors

	// Step 7: birth new tracks from unassigned detections passing rejection.
	for _, j := range unmatchedDetIdx {
		det := detections[j]
		if !t.Config.Rejection.Accepts(det.Box.W, det.Box.H) {
			continue
		}
		var pos3 *Position3D
		if positions3D != nil {
			pos3 = positions3D[j]
		}
		filter := newFilter(t.Config.Variant, t.Config, det.Box, pos3)
		id := t.ids.nextID()
		t.tracks = append(t.tracks, newTrack(id, t.ClassID, filter, det.Box, now))
	}

	return t.tracks
}

// Tracks returns the current live tracks for this class.
func (t *TrackerPerClass) Tracks() []*Track { return t.tracks }

// MultiClassTracker fans the per-class update out across every configured
// class: tracks of class A never match detections of class B, so each
// class runs its own independent assignment problem.
type MultiClassTracker struct {
	perClass []*TrackerPerClass
}

// NewMultiClassTracker constructs one TrackerPerClass per entry in
// cfg.PerClass, indexed by class id.
func NewMultiClassTracker(cfg Config) *MultiClassTracker {
	perClass := make([]*TrackerPerClass, len(cfg.PerClass))
	for i, tc := range cfg.PerClass {
		perClass[i] = NewTrackerPerClass(i, tc)
	}
	return &MultiClassTracker{perClass: perClass}
}

// Update runs Update on every class's tracker with that class's slice of
// this frame's detections, and returns the resulting live tracks indexed by
// class id: a mapping per class from id to current state.
func (m *MultiClassTracker) Update(detectionsByClass [][]Detection, positionsByClass [][]*Position3D, dt float32, now float64) [][]*Track {
	out := make([][]*Track, len(m.perClass))
	for classID, tracker := range m.perClass {
		var dets []Detection
		if classID < len(detectionsByClass) {
			dets = detectionsByClass[classID]
		}
		var pos []*Position3D
		if classID < len(positionsByClass) {
			pos = positionsByClass[classID]
		}
		out[classID] = tracker.Update(dets, pos, dt, now)
	}
	return out
}

// Tracker returns the per-class tracker for classID, or nil if out of
// range. An out-of-range classID from the external interface indicates a
// programmer error; callers that index a result by class id directly
// should instead use Update's return slice.
func (m *MultiClassTracker) Tracker(classID int) *TrackerPerClass {
	if classID < 0 || classID >= len(m.perClass) {
		return nil
	}
	return m.perClass[classID]
}
