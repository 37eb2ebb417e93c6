package trackcore

import (
	"gocv.io/x/gocv"

	"github.com/perceptioncore/trackcore/pose"
)

// Pipeline wires the per-frame sequence end to end: detect -> invert
// letterbox -> (optional) depth projection -> gate & assign -> Kalman
// predict/correct -> life-cycle. It is the "host" shape the core's external
// interfaces are designed to be driven by.
type Pipeline struct {
	Detector  Detector
	Tracker   *MultiClassTracker
	Projector *pose.Projector
	Letterbox Letterbox
}

// NewPipeline wires a Detector, a MultiClassTracker built from cfg, and a
// depth Projector built from cfg.Localization.
func NewPipeline(detector Detector, cfg Config) *Pipeline {
	return &Pipeline{
		Detector: detector,
		Tracker:  NewMultiClassTracker(cfg),
		Projector: pose.NewProjector(pose.Config{
			RejectionThreshold: cfg.Localization.RejectionThreshold,
			MinRange:           cfg.Localization.MinRange,
			MaxRange:           cfg.Localization.MaxRange,
		}),
		Letterbox: Letterbox{Scale: 1},
	}
}

// FrameResult is one tick's output: the raw (letterbox-inverted) detections,
// their projected 3D positions where available, and the resulting tracks.
type FrameResult struct {
	RawDetections [][]BoundingBox2D
	Positions     [][]Position3D
	Tracks        [][]*Track
}

// Tick runs one frame through the full pipeline: detect, invert the
// letterbox mapping on every raw box, optionally project depth, then
// update the per-class trackers. image is the padded detector input;
// depth, if non-nil, is a single-channel float32 meters frame aligned to
// image.
func (p *Pipeline) Tick(image gocv.Mat, depth *gocv.Mat, dt float32, now float64) (FrameResult, error) {
	raw, err := p.Detector.Detect(image)
	if err != nil {
		return FrameResult{}, err
	}

	detectionsByClass := make([][]Detection, len(raw))
	rawByClass := make([][]BoundingBox2D, len(raw))
	positionsByClass := make([][]*Position3D, len(raw))

	for classID, dets := range raw {
		classDetections := make([]Detection, len(dets))
		classBoxes := make([]BoundingBox2D, len(dets))
		classPositions := make([]*Position3D, len(dets))

		for i, d := range dets {
			box := p.Letterbox.InvertLetterbox(d.Box)
			classBoxes[i] = box

			if depth != nil {
				pos := p.Projector.Project(pose.Box2D{X: box.X, Y: box.Y, W: box.W, H: box.H}, *depth)
				classPositions[i] = &Position3D{X: pos.X, Y: pos.Y, Z: pos.Z, Valid: pos.Valid}
			}

			crop := GetCutout(int(box.XMin()), int(box.YMin()), int(box.XMax()), int(box.YMax()), image)
			classDetections[i] = Detection{Box: box, DepthSamples: d.DepthSamples, Crop: crop}
		}

		detectionsByClass[classID] = classDetections
		rawByClass[classID] = classBoxes
		positionsByClass[classID] = classPositions
	}

	tracks := p.Tracker.Update(detectionsByClass, positionsByClass, dt, now)

	flatPositions := make([][]Position3D, len(positionsByClass))
	for i, ps := range positionsByClass {
		flat := make([]Position3D, len(ps))
		for j, p := range ps {
			if p != nil {
				flat[j] = *p
			}
		}
		flatPositions[i] = flat
	}

	return FrameResult{
		RawDetections: rawByClass,
		Positions:     flatPositions,
		Tracks:        tracks,
	}, nil
}
