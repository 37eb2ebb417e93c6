package kalman

import "gonum.org/v1/gonum/mat"

// dim3DF is the state dimension for Fixed3D: [x, y, z, w, h]. There is no
// velocity block; the filter assumes position is (near) stationary between
// frames and relies purely on measurement correction to track motion.
const dim3DF = 5

var (
	pos3DFIdx  = []int{0, 1, 2}
	dims3DFIdx = []int{3, 4}
)

// Fixed3D tracks a 3D center and 2D size with no velocity state, for
// objects whose motion the caller doesn't want to extrapolate.
type Fixed3D struct {
	params Params
	x, P   *mat.Dense
}

func NewFixed3D(m Measurement, p Params) *Fixed3D {
	f := &Fixed3D{params: p}
	f.Reset(m)
	return f
}

func (f *Fixed3D) Reset(m Measurement) {
	f.x = mat.NewDense(dim3DF, 1, nil)
	f.x.Set(0, 0, float64(m.Position[0]))
	f.x.Set(1, 0, float64(m.Position[1]))
	f.x.Set(2, 0, float64(m.Position[2]))
	if m.Dims != nil {
		f.x.Set(3, 0, float64(m.Dims[0]))
		f.x.Set(4, 0, float64(m.Dims[1]))
	}
	f.P = diagFrom(dim3DF, f.params.InitialUncertainty)
}

// Predict is a no-op on the state (F = I) but still inflates P by Q so
// that repeated coasting widens the gate, matching the linear variants'
// behavior without pretending to know a velocity it doesn't track.
func (f *Fixed3D) Predict(dt float32) {
	dt = clampDT(dt)
	F := identity(dim3DF)
	Q := diagQ(dim3DF, map[int]float32{
		0: f.params.Process.Position * dt, 1: f.params.Process.Position * dt, 2: f.params.Process.Position * dt,
		3: f.params.Process.Dims * dt, 4: f.params.Process.Dims * dt,
	})
	predictLinear(f.x, f.P, F, Q)
}

func (f *Fixed3D) Correct(m Measurement) bool {
	z, H, R, ok := buildMeasurement(dim3DF, pos3DFIdx, dims3DFIdx, nil, f.params, m)
	if !ok {
		return false
	}
	return correctLinear(f.x, f.P, z, H, R)
}

func (f *Fixed3D) State() []float32       { return stateToFloat32(f.x) }
func (f *Fixed3D) Uncertainty() []float32 { return diagToFloat32(f.P) }
