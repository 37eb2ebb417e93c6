package kalman

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// predictLinear advances x <- F*x and P <- F*P*F^T + Q in place.
//
// This is the predict half of a filterpy.KalmanFilter-style update, shared
// across variants as common algebra rather than copied per variant.
func predictLinear(x, P, F, Q *mat.Dense) {
	var xNew mat.Dense
	xNew.Mul(F, x)
	x.Copy(&xNew)

	var FP, FPFt mat.Dense
	FP.Mul(F, P)
	FPFt.Mul(&FP, F.T())
	P.Add(&FPFt, Q)
}

// correctLinear performs the standard Kalman innovation/gain/update cycle:
// y = z - H*x, S = H*P*H^T + R, K = P*H^T*S^-1, x += K*y,
// P = (I - K*H)*P. Returns false (state untouched) if S is not
// positive-definite or the updated state contains NaN.
func correctLinear(x, P, z, H, R *mat.Dense) bool {
	var Hx, y mat.Dense
	Hx.Mul(H, x)
	y.Sub(z, &Hx)

	var HP, HPHt, S mat.Dense
	HP.Mul(H, P)
	HPHt.Mul(&HP, H.T())
	S.Add(&HPHt, R)

	sInv, ok := invertPositiveDefinite(&S)
	if !ok {
		return false
	}

	var PHt, K, Ky, xNew mat.Dense
	PHt.Mul(P, H.T())
	K.Mul(&PHt, sInv)
	Ky.Mul(&K, &y)
	xNew.Add(x, &Ky)
	if hasNaN(&xNew) {
		return false
	}

	dim, _ := P.Dims()
	I := identity(dim)
	var KH, IKH, Pnew mat.Dense
	KH.Mul(&K, H)
	IKH.Sub(I, &KH)
	Pnew.Mul(&IKH, P)

	x.Copy(&xNew)
	P.Copy(&Pnew)
	return true
}

// invertPositiveDefinite inverts S via its Cholesky factorization, which
// both gives the inverse and doubles as the non-positive-definite rejection
// test: Cholesky only succeeds for symmetric positive definite matrices.
func invertPositiveDefinite(s *mat.Dense) (*mat.Dense, bool) {
	n, _ := s.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			// average to force exact symmetry against float round-off
			v := (s.At(i, j) + s.At(j, i)) / 2
			sym.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, false
	}

	var inv mat.Dense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, false
	}
	return &inv, true
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1.0)
	}
	return m
}

func hasNaN(m *mat.Dense) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(m.At(i, j)) {
				return true
			}
		}
	}
	return false
}

func hasNaN32(v []float32) bool {
	for _, f := range v {
		if math.IsNaN(float64(f)) {
			return true
		}
	}
	return false
}

func toColumn(v []float32) *mat.Dense {
	col := mat.NewDense(len(v), 1, nil)
	for i, f := range v {
		col.Set(i, 0, float64(f))
	}
	return col
}

func diagFrom(dim int, value float32) *mat.Dense {
	m := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		m.Set(i, i, float64(value))
	}
	return m
}

func stateToFloat32(x *mat.Dense) []float32 {
	r, _ := x.Dims()
	out := make([]float32, r)
	for i := 0; i < r; i++ {
		out[i] = float32(x.At(i, 0))
	}
	return out
}

func diagToFloat32(P *mat.Dense) []float32 {
	r, _ := P.Dims()
	out := make([]float32, r)
	for i := 0; i < r; i++ {
		out[i] = float32(P.At(i, i))
	}
	return out
}
