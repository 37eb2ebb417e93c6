package kalman

import "gonum.org/v1/gonum/mat"

// dim2D is the state dimension for Linear2D: [x, y, vx, vy, w, h].
const dim2D = 6

var (
	pos2DIdx  = []int{0, 1}
	vel2DIdx  = []int{2, 3}
	dims2DIdx = []int{4, 5}
)

// Linear2D tracks a 2D bounding box center plus velocity and size.
// State: (x, y, vx, vy, w, h).
type Linear2D struct {
	params Params
	x, P   *mat.Dense
}

// NewLinear2D constructs a Linear2D filter initialized from m.
func NewLinear2D(m Measurement, p Params) *Linear2D {
	f := &Linear2D{params: p}
	f.Reset(m)
	return f
}

func (f *Linear2D) Reset(m Measurement) {
	f.x = mat.NewDense(dim2D, 1, nil)
	f.x.Set(0, 0, float64(m.Position[0]))
	f.x.Set(1, 0, float64(m.Position[1]))
	if m.Dims != nil {
		f.x.Set(4, 0, float64(m.Dims[0]))
		f.x.Set(5, 0, float64(m.Dims[1]))
	}
	f.P = diagFrom(dim2D, f.params.InitialUncertainty)
}

func (f *Linear2D) transition(dt float32) *mat.Dense {
	F := identity(dim2D)
	F.Set(0, 2, float64(dt))
	F.Set(1, 3, float64(dt))
	return F
}

func (f *Linear2D) Predict(dt float32) {
	dt = clampDT(dt)
	F := f.transition(dt)
	Q := diagQ(dim2D, map[int]float32{
		0: f.params.Process.Position, 1: f.params.Process.Position,
		2: f.params.Process.Vel, 3: f.params.Process.Vel,
		4: f.params.Process.Dims, 5: f.params.Process.Dims,
	})
	predictLinear(f.x, f.P, F, Q)
}

func (f *Linear2D) Correct(m Measurement) bool {
	z, H, R, ok := buildMeasurement(dim2D, pos2DIdx, dims2DIdx, vel2DIdx, f.params, m)
	if !ok {
		return false
	}
	return correctLinear(f.x, f.P, z, H, R)
}

func (f *Linear2D) State() []float32       { return stateToFloat32(f.x) }
func (f *Linear2D) Uncertainty() []float32 { return diagToFloat32(f.P) }
