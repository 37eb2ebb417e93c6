package kalman

import "gonum.org/v1/gonum/mat"

// dim3D is the state dimension for Linear3D: [x, y, z, vx, vy, vz, w, h].
//
// Only w and h are carried as size state (not a depth extent d); the 3D
// box's depth extent is reconstructed downstream from z by the pose
// projector's isotropic assumption, not tracked here. State vectors are
// always sized exactly to their documented dimension, so a vector cannot
// silently carry more or fewer components than this filter declares.
const dim3D = 8

var (
	pos3DIdx  = []int{0, 1, 2}
	vel3DIdx  = []int{3, 4, 5}
	dims3DIdx = []int{6, 7}
)

// Linear3D tracks a 3D center plus velocity and 2D size (w, h).
type Linear3D struct {
	params Params
	x, P   *mat.Dense
}

func NewLinear3D(m Measurement, p Params) *Linear3D {
	f := &Linear3D{params: p}
	f.Reset(m)
	return f
}

func (f *Linear3D) Reset(m Measurement) {
	f.x = mat.NewDense(dim3D, 1, nil)
	f.x.Set(0, 0, float64(m.Position[0]))
	f.x.Set(1, 0, float64(m.Position[1]))
	f.x.Set(2, 0, float64(m.Position[2]))
	if m.Dims != nil {
		f.x.Set(6, 0, float64(m.Dims[0]))
		f.x.Set(7, 0, float64(m.Dims[1]))
	}
	f.P = diagFrom(dim3D, f.params.InitialUncertainty)
}

func (f *Linear3D) transition(dt float32) *mat.Dense {
	F := identity(dim3D)
	F.Set(0, 3, float64(dt))
	F.Set(1, 4, float64(dt))
	F.Set(2, 5, float64(dt))
	return F
}

func (f *Linear3D) Predict(dt float32) {
	dt = clampDT(dt)
	F := f.transition(dt)
	Q := diagQ(dim3D, map[int]float32{
		0: f.params.Process.Position, 1: f.params.Process.Position, 2: f.params.Process.Position,
		3: f.params.Process.Vel, 4: f.params.Process.Vel, 5: f.params.Process.Vel,
		6: f.params.Process.Dims, 7: f.params.Process.Dims,
	})
	predictLinear(f.x, f.P, F, Q)
}

func (f *Linear3D) Correct(m Measurement) bool {
	z, H, R, ok := buildMeasurement(dim3D, pos3DIdx, dims3DIdx, vel3DIdx, f.params, m)
	if !ok {
		return false
	}
	return correctLinear(f.x, f.P, z, H, R)
}

func (f *Linear3D) State() []float32       { return stateToFloat32(f.x) }
func (f *Linear3D) Uncertainty() []float32 { return diagToFloat32(f.P) }
