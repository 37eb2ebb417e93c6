package kalman

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// dim2DH is the state dimension for Extended2DH:
// [x, y, theta, vx, vy, vtheta, w, h]. vx/vy are body-frame velocities
// (forward/lateral), rotated into the world frame by theta each predict.
const dim2DH = 8

var (
	pos2DHIdx  = []int{0, 1}
	vel2DHIdx  = []int{3, 4, 5} // vx, vy, vtheta
	dims2DHIdx = []int{6, 7}
)

const (
	idxTheta2DH = 2
	idxVx2DH    = 3
	idxVy2DH    = 4
	idxVth2DH   = 5
)

// Extended2DH is the heading-aware extended Kalman filter. Predict is
// nonlinear (position advances along the body-frame heading); Correct
// reuses the shared linear update since position/dims/velocity are
// observed linearly in the state.
type Extended2DH struct {
	params Params
	x, P   *mat.Dense
}

func NewExtended2DH(m Measurement, p Params) *Extended2DH {
	f := &Extended2DH{params: p}
	f.Reset(m)
	return f
}

func (f *Extended2DH) Reset(m Measurement) {
	f.x = mat.NewDense(dim2DH, 1, nil)
	f.x.Set(0, 0, float64(m.Position[0]))
	f.x.Set(1, 0, float64(m.Position[1]))
	if m.Dims != nil {
		f.x.Set(6, 0, float64(m.Dims[0]))
		f.x.Set(7, 0, float64(m.Dims[1]))
	}
	f.P = diagFrom(dim2DH, f.params.InitialUncertainty)
}

// step applies the nonlinear transition to x in place and returns the
// Jacobian of that transition evaluated at the pre-step state.
func (f *Extended2DH) step(dt float32) *mat.Dense {
	theta := f.x.At(idxTheta2DH, 0)
	vx := f.x.At(idxVx2DH, 0)
	vy := f.x.At(idxVy2DH, 0)
	vth := f.x.At(idxVth2DH, 0)
	dtf := float64(dt)

	sinT, cosT := math.Sin(theta), math.Cos(theta)
	dx := (vx*cosT - vy*sinT) * dtf
	dy := (vx*sinT + vy*cosT) * dtf

	J := identity(dim2DH)
	J.Set(0, idxTheta2DH, (-vx*sinT-vy*cosT)*dtf)
	J.Set(0, idxVx2DH, cosT*dtf)
	J.Set(0, idxVy2DH, -sinT*dtf)
	J.Set(1, idxTheta2DH, (vx*cosT-vy*sinT)*dtf)
	J.Set(1, idxVx2DH, sinT*dtf)
	J.Set(1, idxVy2DH, cosT*dtf)
	J.Set(idxTheta2DH, idxVth2DH, dtf)

	f.x.Set(0, 0, f.x.At(0, 0)+dx)
	f.x.Set(1, 0, f.x.At(1, 0)+dy)
	f.x.Set(idxTheta2DH, 0, wrapAngle(theta+vth*dtf))

	return J
}

func (f *Extended2DH) Predict(dt float32) {
	dt = clampDT(dt)
	J := f.step(dt)

	Q := diagQ(dim2DH, map[int]float32{
		0: f.params.Process.Position, 1: f.params.Process.Position,
		idxTheta2DH: f.params.Process.Heading,
		idxVx2DH:    f.params.Process.Vel, idxVy2DH: f.params.Process.Vel,
		idxVth2DH: f.params.Process.HeadingVel,
		6:         f.params.Process.Dims, 7: f.params.Process.Dims,
	})

	// P = J*P*J^T + Q, the extended-variant covariance propagation; the
	// state itself was already advanced nonlinearly by step() above.
	var JP, JPJt mat.Dense
	JP.Mul(J, f.P)
	JPJt.Mul(&JP, J.T())
	f.P.Add(&JPJt, Q)
}

func (f *Extended2DH) Correct(m Measurement) bool {
	z, H, R, ok := buildMeasurement(dim2DH, pos2DHIdx, dims2DHIdx, vel2DHIdx, f.params, m)
	if !ok {
		return false
	}
	if !correctLinear(f.x, f.P, z, H, R) {
		return false
	}
	f.x.Set(idxTheta2DH, 0, wrapAngle(f.x.At(idxTheta2DH, 0)))
	return true
}

func (f *Extended2DH) State() []float32       { return stateToFloat32(f.x) }
func (f *Extended2DH) Uncertainty() []float32 { return diagToFloat32(f.P) }

// wrapAngle wraps theta to (-pi, pi].
func wrapAngle(theta float64) float64 {
	for theta > math.Pi {
		theta -= 2 * math.Pi
	}
	for theta <= -math.Pi {
		theta += 2 * math.Pi
	}
	return theta
}
