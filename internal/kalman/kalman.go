// Package kalman implements the four Kalman filter variants used by the
// tracker: Linear2D, Linear3D, Extended2DH (heading-aware, nonlinear) and
// Fixed3D (no velocity states).
//
// Each variant owns its state layout and builds its own F/H/Q/R matrices;
// the predict/correct linear algebra itself is shared in linalg.go rather
// than expressed as an inheritance chain, per the "deep inheritance of
// Kalman variants" design note: a single Filter interface, shared matrix
// helpers, four independent implementations.
package kalman

// Filter is the contract every Kalman variant satisfies.
type Filter interface {
	// Predict propagates the state by dt seconds. dt <= 0 is clamped to a
	// small positive epsilon by the caller before reaching here is not
	// required; implementations clamp internally too, defensively.
	Predict(dt float32)

	// Correct incorporates a measurement. Returns false if the measurement
	// was rejected (NaN, or a non-positive-definite innovation covariance)
	// in which case the state is left untouched.
	Correct(m Measurement) bool

	// Reset re-initializes the filter from a fresh measurement, as used on
	// re-birth. Unlike Correct, this discards the prior state entirely.
	Reset(m Measurement)

	// State returns a copy of the current state vector.
	State() []float32

	// Uncertainty returns the diagonal of the covariance matrix P.
	Uncertainty() []float32
}

// Measurement is a single observation fed to Correct/Reset/the constructor.
// Position is always present; Dims and Vel are only honored when the
// filter's Params enables use_dim / use_vel respectively.
type Measurement struct {
	Position []float32 // len == PosDim of the filter
	Dims     []float32 // len == 2 (w, h); nil if not observed this call
	Vel      []float32 // len == PosDim (+1 for Extended2DH's heading rate); nil if not observed
}

// Noise holds the diagonal variances used to build Q (process noise) or R
// (measurement noise), per component family. Unused fields for a given
// variant (e.g. Heading on Linear2D) are ignored.
type Noise struct {
	Position   float32
	Dims       float32
	Vel        float32
	Heading    float32
	HeadingVel float32
}

// Params configures a filter at construction time. UseDim/UseVel gate
// whether a Measurement's Dims/Vel fields are ever incorporated into H;
// Process/Measure are the diagonals used to build Q and R.
type Params struct {
	UseDim             bool
	UseVel             bool
	Process            Noise
	Measure            Noise
	InitialUncertainty float32
}

// MinDT is the epsilon dt is clamped to when a non-positive elapsed time is
// presented to Predict, to avoid a singular/degenerate F, Q pair.
const MinDT = float32(1e-3)

func clampDT(dt float32) float32 {
	if dt <= 0 {
		return MinDT
	}
	return dt
}
