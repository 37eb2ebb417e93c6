package trackcore

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// KalmanVariant selects which of the four Kalman filter flavors a class's
// tracker uses: a tagged variant enumerating {Linear2D, Linear3D,
// Extended2DH, Fixed3D} rather than an inheritance chain.
type KalmanVariant int

const (
	VariantLinear2D KalmanVariant = iota
	VariantLinear3D
	VariantExtended2DH
	VariantFixed3D
)

// BoxRejectionConfig gates new track births on detector box dimensions.
type BoxRejectionConfig struct {
	MinBBoxWidth  float32
	MaxBBoxWidth  float32
	MinBBoxHeight float32
	MaxBBoxHeight float32
}

// Accepts reports whether b's dimensions fall within the configured bounds.
// A zero-valued bound (MaxBBoxWidth/MaxBBoxHeight == 0) is treated as "no
// upper bound", a zero-means-default config idiom used throughout.
func (r BoxRejectionConfig) Accepts(w, h float32) bool {
	if w < r.MinBBoxWidth || h < r.MinBBoxHeight {
		return false
	}
	if r.MaxBBoxWidth > 0 && w > r.MaxBBoxWidth {
		return false
	}
	if r.MaxBBoxHeight > 0 && h > r.MaxBBoxHeight {
		return false
	}
	return true
}

// TrackingConfig holds the per-class tracking parameters (thresholds and
// noise may legitimately differ by class, e.g. pedestrians vs vehicles).
type TrackingConfig struct {
	Variant KalmanVariant

	MaxFramesToSkip int
	DistThreshold   float32
	CenterThreshold float32
	AreaThreshold   float32
	BodyRatio       float32 // 0 disables the body-aspect-ratio gate term.
	DT              float32

	UseDim bool
	UseVel bool

	// ProcessNoise / MeasureNoise feed the Kalman family's Q/R diagonals;
	// the per-component mapping (position/dims/vel/heading) is resolved
	// inside internal/kalman given the selected Variant.
	ProcessNoise NoiseConfig
	MeasureNoise NoiseConfig

	InitialUncertainty float32

	Rejection BoxRejectionConfig
}

// NoiseConfig mirrors internal/kalman.Noise at the public config boundary,
// so callers never need to import the internal package directly.
type NoiseConfig struct {
	Position   float32
	Dims       float32
	Vel        float32
	Heading    float32
	HeadingVel float32
}

// LocalizationConfig holds the camera/depth parameters the pose projector
// needs.
type LocalizationConfig struct {
	RejectionThreshold float32 // inset margin, pixels
	MinRange           float32 // meters
	MaxRange           float32 // meters
	FX, FY, CX, CY     float32
	Distortion         []float32
}

// DetectionConfig describes the detector boundary. The core only consumes
// ImageRows/ImageCols/NumClasses/ClassMap; NMS/confidence thresholding and
// inference itself are out-of-scope collaborators.
type DetectionConfig struct {
	ImageRows          int
	ImageCols          int
	NumClasses         int
	ClassMap           map[int]string
	NMSThresh          float32
	ConfThresh         float32
	MaxOutputBBoxCount int
}

// Config is the root configuration struct, one TrackingConfig per class.
type Config struct {
	Detection    DetectionConfig
	PerClass     []TrackingConfig
	Localization LocalizationConfig
}

// defaultTrackingConfig mirrors the NewTracker defaulting pattern: zero-valued
// fields are filled with sane defaults rather than left to propagate as
// degenerate behavior.
func defaultTrackingConfig() TrackingConfig {
	return TrackingConfig{
		Variant:         VariantLinear2D,
		MaxFramesToSkip: 5,
		DistThreshold:   50,
		CenterThreshold: 50,
		AreaThreshold:   1.0,
		BodyRatio:       0,
		DT:              0.1,
		UseDim:          true,
		UseVel:          false,
		ProcessNoise: NoiseConfig{
			Position: 1, Dims: 1, Vel: 1, Heading: 0.1, HeadingVel: 0.1,
		},
		MeasureNoise: NoiseConfig{
			Position: 5, Dims: 5, Vel: 5,
		},
		InitialUncertainty: 1e4,
		Rejection: BoxRejectionConfig{
			MinBBoxWidth:  1,
			MinBBoxHeight: 1,
		},
	}
}

// NewConfig returns a Config defaulted the way NewTracker defaults a
// TrackerConfig: every class gets defaultTrackingConfig unless the caller
// overrides PerClass themselves after construction.
func NewConfig(numClasses int) Config {
	perClass := make([]TrackingConfig, numClasses)
	for i := range perClass {
		perClass[i] = defaultTrackingConfig()
	}
	return Config{
		Detection: DetectionConfig{NumClasses: numClasses},
		PerClass:  perClass,
		Localization: LocalizationConfig{
			MinRange: 0.1,
			MaxRange: 20.0,
		},
	}
}

// LoadConfig reads a Config from an INI file via gopkg.in/ini.v1. Only the
// flat, global-to-all-classes fields are read from file; per-class
// TrackingConfig overrides are expected to be applied programmatically
// after loading, since INI has no natural notion of "one section per
// detector class count" known only at runtime.
func LoadConfig(path string) (Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("trackcore: loading config %q: %w", path, err)
	}

	cfg := NewConfig(0)

	det := f.Section("detection")
	cfg.Detection.ImageRows = det.Key("image_rows").MustInt(0)
	cfg.Detection.ImageCols = det.Key("image_cols").MustInt(0)
	cfg.Detection.NumClasses = det.Key("num_classes").MustInt(0)
	cfg.Detection.NMSThresh = float32(det.Key("nms_thresh").MustFloat64(0.45))
	cfg.Detection.ConfThresh = float32(det.Key("conf_thresh").MustFloat64(0.25))
	cfg.Detection.MaxOutputBBoxCount = det.Key("max_output_bbox_count").MustInt(100)

	loc := f.Section("localization")
	cfg.Localization.RejectionThreshold = float32(loc.Key("rejection_threshold").MustFloat64(0))
	cfg.Localization.MinRange = float32(loc.Key("min_range").MustFloat64(0.1))
	cfg.Localization.MaxRange = float32(loc.Key("max_range").MustFloat64(20.0))
	cfg.Localization.FX = float32(loc.Key("fx").MustFloat64(0))
	cfg.Localization.FY = float32(loc.Key("fy").MustFloat64(0))
	cfg.Localization.CX = float32(loc.Key("cx").MustFloat64(0))
	cfg.Localization.CY = float32(loc.Key("cy").MustFloat64(0))

	trk := defaultTrackingConfig()
	tsec := f.Section("tracking")
	trk.MaxFramesToSkip = tsec.Key("max_frames_to_skip").MustInt(trk.MaxFramesToSkip)
	trk.DistThreshold = float32(tsec.Key("dist_threshold").MustFloat64(float64(trk.DistThreshold)))
	trk.CenterThreshold = float32(tsec.Key("center_threshold").MustFloat64(float64(trk.CenterThreshold)))
	trk.AreaThreshold = float32(tsec.Key("area_threshold").MustFloat64(float64(trk.AreaThreshold)))
	trk.BodyRatio = float32(tsec.Key("body_ratio").MustFloat64(float64(trk.BodyRatio)))
	trk.DT = float32(tsec.Key("dt").MustFloat64(float64(trk.DT)))
	trk.UseDim = tsec.Key("use_dim").MustBool(trk.UseDim)
	trk.UseVel = tsec.Key("use_vel").MustBool(trk.UseVel)

	rej := f.Section("box_rejection")
	trk.Rejection.MinBBoxWidth = float32(rej.Key("min_bbox_width").MustFloat64(float64(trk.Rejection.MinBBoxWidth)))
	trk.Rejection.MaxBBoxWidth = float32(rej.Key("max_bbox_width").MustFloat64(float64(trk.Rejection.MaxBBoxWidth)))
	trk.Rejection.MinBBoxHeight = float32(rej.Key("min_bbox_height").MustFloat64(float64(trk.Rejection.MinBBoxHeight)))
	trk.Rejection.MaxBBoxHeight = float32(rej.Key("max_bbox_height").MustFloat64(float64(trk.Rejection.MaxBBoxHeight)))

	perClass := make([]TrackingConfig, cfg.Detection.NumClasses)
	for i := range perClass {
		perClass[i] = trk
	}
	cfg.PerClass = perClass

	return cfg, nil
}
