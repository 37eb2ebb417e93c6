package kalman

import "gonum.org/v1/gonum/mat"

// buildMeasurement assembles z, H and R for one Correct() call given the
// state's component index layout (posIdx/dimsIdx/velIdx are the state
// indices that position/dims/velocity occupy) and which optional
// components this measurement and this filter's Params agree to observe.
//
// Position is always required: every filter variant measures position.
// Dims/Vel are included only when both Params.UseDim/UseVel is set and the
// caller supplied them on this particular measurement.
func buildMeasurement(dim int, posIdx, dimsIdx, velIdx []int, p Params, m Measurement) (z, H, R *mat.Dense, ok bool) {
	if len(m.Position) != len(posIdx) || hasNaN32(m.Position) {
		return nil, nil, nil, false
	}

	useDims := p.UseDim && m.Dims != nil
	useVel := p.UseVel && m.Vel != nil

	if useDims && (len(m.Dims) != len(dimsIdx) || hasNaN32(m.Dims)) {
		return nil, nil, nil, false
	}
	if useVel && (len(m.Vel) != len(velIdx) || hasNaN32(m.Vel)) {
		return nil, nil, nil, false
	}

	rows := len(posIdx)
	if useDims {
		rows += len(dimsIdx)
	}
	if useVel {
		rows += len(velIdx)
	}

	z = mat.NewDense(rows, 1, nil)
	H = mat.NewDense(rows, dim, nil)
	R = mat.NewDense(rows, rows, nil)

	row := 0
	for i, idx := range posIdx {
		z.Set(row, 0, float64(m.Position[i]))
		H.Set(row, idx, 1.0)
		R.Set(row, row, float64(p.Measure.Position))
		row++
	}
	if useDims {
		for i, idx := range dimsIdx {
			z.Set(row, 0, float64(m.Dims[i]))
			H.Set(row, idx, 1.0)
			R.Set(row, row, float64(p.Measure.Dims))
			row++
		}
	}
	if useVel {
		for i, idx := range velIdx {
			z.Set(row, 0, float64(m.Vel[i]))
			H.Set(row, idx, 1.0)
			R.Set(row, row, float64(p.Measure.Vel))
			row++
		}
	}
	return z, H, R, true
}

// diagQ builds a process noise matrix with per-index variances, leaving
// every other diagonal entry at zero.
func diagQ(dim int, entries map[int]float32) *mat.Dense {
	Q := mat.NewDense(dim, dim, nil)
	for idx, v := range entries {
		Q.Set(idx, idx, float64(v))
	}
	return Q
}
