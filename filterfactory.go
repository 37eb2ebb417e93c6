package trackcore

import "github.com/perceptioncore/trackcore/internal/kalman"

// kalmanParams converts the public NoiseConfig/TrackingConfig boundary
// types into internal/kalman's Params, keeping the internal package's
// vocabulary (Noise, Params) out of the public API.
func kalmanParams(cfg TrackingConfig) kalman.Params {
	return kalman.Params{
		UseDim: cfg.UseDim,
		UseVel: cfg.UseVel,
		Process: kalman.Noise{
			Position: cfg.ProcessNoise.Position, Dims: cfg.ProcessNoise.Dims,
			Vel: cfg.ProcessNoise.Vel, Heading: cfg.ProcessNoise.Heading,
			HeadingVel: cfg.ProcessNoise.HeadingVel,
		},
		Measure: kalman.Noise{
			Position: cfg.MeasureNoise.Position, Dims: cfg.MeasureNoise.Dims,
			Vel: cfg.MeasureNoise.Vel, Heading: cfg.MeasureNoise.Heading,
			HeadingVel: cfg.MeasureNoise.HeadingVel,
		},
		InitialUncertainty: cfg.InitialUncertainty,
	}
}

// buildMeasurement assembles a kalman.Measurement for one (box, optional 3D
// position) observation, shaped to the state layout the selected variant
// expects: Linear2D/Extended2DH observe a 2D position, Linear3D/Fixed3D
// observe a 3D position (falling back to Z=0 when no depth is available,
// which the pose projector marks Valid=false for downstream consumers).
func buildMeasurement(variant KalmanVariant, box BoundingBox2D, pos3 *Position3D) kalman.Measurement {
	switch variant {
	case VariantLinear3D, VariantFixed3D:
		z := float32(0)
		if pos3 != nil && pos3.Valid {
			z = pos3.Z
		}
		x, y := box.X, box.Y
		if pos3 != nil && pos3.Valid {
			x, y = pos3.X, pos3.Y
		}
		return kalman.Measurement{
			Position: []float32{x, y, z},
			Dims:     []float32{box.W, box.H},
		}
	default: // VariantLinear2D, VariantExtended2DH
		return kalman.Measurement{
			Position: []float32{box.X, box.Y},
			Dims:     []float32{box.W, box.H},
		}
	}
}

// newFilter constructs the Kalman variant cfg.Variant selects, initialized
// from the birth observation.
func newFilter(variant KalmanVariant, cfg TrackingConfig, box BoundingBox2D, pos3 *Position3D) kalman.Filter {
	params := kalmanParams(cfg)
	m := buildMeasurement(variant, box, pos3)
	switch variant {
	case VariantLinear3D:
		return kalman.NewLinear3D(m, params)
	case VariantFixed3D:
		return kalman.NewFixed3D(m, params)
	case VariantExtended2DH:
		return kalman.NewExtended2DH(m, params)
	default:
		return kalman.NewLinear2D(m, params)
	}
}
