// Package assign wraps github.com/arthurkushman/go-hungarian's maximum
// weight perfect matching solver to provide the optimal minimum-cost
// rectangular assignment the tracker's association step needs.
//
// An earlier version of this cost-to-profit conversion used a fixed
// maxProfit := 10.0, which silently breaks (profit goes negative, picking
// the wrong optimum) whenever a real cost exceeds 10. Solve below derives
// the profit offset from the matrix's own maximum entry instead.
package assign

import (
	"math"
	"sort"

	hungarian "github.com/arthurkushman/go-hungarian"
)

// Sentinel is the cost value Solve treats as "no valid pairing" for a given
// (row, col) pair. A cell at or above Sentinel can never be selected.
const Sentinel = math.MaxFloat32 / 2

// Assignment is one matched (row, col) pair with its original cost.
type Assignment struct {
	Row, Col int
	Cost     float64
}

// Solve finds the assignment of rows to columns minimizing total cost over
// a (possibly rectangular) cost matrix: rows/cols without a valid
// counterpart are padded with Sentinel, any pairing whose cost is at or
// above Sentinel is never selected, and ties are broken deterministically
// by lowest column index.
//
// Returns the chosen assignments plus the row and column indices left
// unmatched.
func Solve(cost [][]float64) (assignments []Assignment, unmatchedRows, unmatchedCols []int) {
	numRows := len(cost)
	if numRows == 0 {
		return nil, nil, nil
	}
	numCols := len(cost[0])
	if numCols == 0 {
		unmatchedRows = make([]int, numRows)
		for i := range unmatchedRows {
			unmatchedRows[i] = i
		}
		return nil, unmatchedRows, nil
	}

	size := numRows
	if numCols > size {
		size = numCols
	}

	maxFinite := 0.0
	for i := 0; i < numRows; i++ {
		for j := 0; j < numCols; j++ {
			c := cost[i][j]
			if c < Sentinel && c > maxFinite {
				maxFinite = c
			}
		}
	}
	// offset large enough that every real cost maps to a strictly positive
	// profit, and every Sentinel (or padding) cell maps to zero or less.
	offset := maxFinite + 1

	profit := make([][]float64, size)
	for i := range profit {
		profit[i] = make([]float64, size)
		for j := range profit[i] {
			if i < numRows && j < numCols && cost[i][j] < Sentinel {
				profit[i][j] = offset - cost[i][j]
			} else {
				profit[i][j] = 0.0
			}
		}
	}

	result := hungarian.SolveMax(profit)

	matchedRows := make(map[int]bool, numRows)
	matchedCols := make(map[int]bool, numCols)

	// result maps row -> {col: profit}; go-hungarian's solution assigns at
	// most one column per row, but we still extract deterministically by
	// sorting row keys and, within a row, by column index, rather than
	// relying on Go's randomized map iteration order.
	rowToCol := make(map[int]int, len(result))
	rows := make([]int, 0, len(result))
	for r := range result {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	for _, r := range rows {
		cols := make([]int, 0, len(result[r]))
		for c := range result[r] {
			cols = append(cols, c)
		}
		sort.Ints(cols)
		if len(cols) > 0 {
			rowToCol[r] = cols[0]
		}
	}

	// go-hungarian's SolveMax picks one optimal assignment among possibly
	// several tied ones, with no documented tie-break policy. Canonicalize
	// by repeatedly swapping a pair of rows' columns whenever doing so
	// leaves the total cost unchanged and gives the lower-indexed row the
	// lower column index, so Solve's result is deterministic independent of
	// whichever tied solution the solver happened to return.
	canonicalizeTies(cost, rowToCol, numRows, numCols)

	for _, r := range rows {
		c, ok := rowToCol[r]
		if !ok || r >= numRows || c >= numCols {
			continue
		}
		realCost := cost[r][c]
		if realCost >= Sentinel {
			continue
		}
		assignments = append(assignments, Assignment{Row: r, Col: c, Cost: realCost})
		matchedRows[r] = true
		matchedCols[c] = true
	}

	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].Row != assignments[j].Row {
			return assignments[i].Row < assignments[j].Row
		}
		return assignments[i].Col < assignments[j].Col
	})

	for i := 0; i < numRows; i++ {
		if !matchedRows[i] {
			unmatchedRows = append(unmatchedRows, i)
		}
	}
	for j := 0; j < numCols; j++ {
		if !matchedCols[j] {
			unmatchedCols = append(unmatchedCols, j)
		}
	}
	return assignments, unmatchedRows, unmatchedCols
}

// canonicalizeTies mutates rowToCol in place, swapping a pair of rows'
// assigned columns whenever the swap leaves their combined cost unchanged
// and moves the lower-indexed row to the lower column index. Repeating this
// to a fixed point deterministically picks, among all equal-cost optimal
// assignments, the one that sorts assigned columns by row index wherever a
// tie permits it — independent of which tied optimum the solver returned.
func canonicalizeTies(cost [][]float64, rowToCol map[int]int, numRows, numCols int) {
	rows := make([]int, 0, len(rowToCol))
	for r, c := range rowToCol {
		if r < numRows && c < numCols {
			rows = append(rows, r)
		}
	}
	sort.Ints(rows)

	for pass := 0; pass < len(rows); pass++ {
		changed := false
		for ii := 0; ii < len(rows); ii++ {
			for jj := ii + 1; jj < len(rows); jj++ {
				i, j := rows[ii], rows[jj]
				ci, cj := rowToCol[i], rowToCol[j]
				if ci <= cj {
					continue
				}
				if cost[i][ci]+cost[j][cj] == cost[i][cj]+cost[j][ci] {
					rowToCol[i], rowToCol[j] = cj, ci
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
}

// Pad expands a rectangular cost matrix to a square of size
// max(rows, cols), filling the new cells with Sentinel so they are never
// selected by Solve. Useful when a caller wants to inspect the padded
// matrix directly rather than relying on Solve's internal padding.
func Pad(cost [][]float64) [][]float64 {
	numRows := len(cost)
	if numRows == 0 {
		return nil
	}
	numCols := len(cost[0])
	size := numRows
	if numCols > size {
		size = numCols
	}
	out := make([][]float64, size)
	for i := range out {
		out[i] = make([]float64, size)
		for j := range out[i] {
			if i < numRows && j < numCols {
				out[i][j] = cost[i][j]
			} else {
				out[i][j] = Sentinel
			}
		}
	}
	return out
}
