package projgeom

import (
	"fmt"
	"math"
)

// Pivoting selects the pivot search of Gaussian elimination.
type Pivoting int

const (
	PartialPivot Pivoting = iota // largest |entry| in the current column
	TotalPivot                   // largest |entry| in the remaining submatrix
)

func (p Pivoting) String() string {
	if p == TotalPivot {
		return "total"
	}
	return "partial"
}

// SolveStatus is the outcome of an elimination.
type SolveStatus int

const (
	// Solved: every pivot was well above EpsPivot; the result is usable.
	Solved SolveStatus = iota
	// SolvedDegenerate: the matrix looks singular (some pivot below EpsPivot
	// relative to the largest entry) but elimination finished; the result is
	// returned for inspection and must not be trusted.
	SolvedDegenerate
	// Failed: a pivot was exactly zero and no swap could fix it.
	Failed
)

func (s SolveStatus) String() string {
	switch s {
	case Solved:
		return "solved"
	case SolvedDegenerate:
		return "degenerate"
	}
	return "failed"
}

// Inversion is the result of Invert. Inverse is nil iff Status == Failed.
type Inversion struct {
	Inverse *Matrix
	Status  SolveStatus
}

// Usable reports whether the inverse can be trusted.
func (inv Inversion) Usable() bool { return inv.Status == Solved }

// Invert computes a⁻¹ by Gauss-Jordan elimination with the given pivoting.
// The error is non-nil exactly when Status == Failed; it wraps ErrShape for a
// non-square input and ErrMath otherwise.
func Invert(a *Matrix, piv Pivoting) (Inversion, error) {
	fail := Inversion{Status: Failed}
	if !a.IsSquare() {
		return fail, shapeErrorf("Invert", "%dx%d is not square", a.rows, a.cols)
	}
	if !allFinite(a.data) {
		return fail, mathErrorf("Invert", "non-finite entry")
	}
	n := a.rows
	m := a.Clone()
	inv := Identity(n)
	scale := m.MaxAbs()
	status := Solved

	type colSwap struct{ a, b int }
	swaps := make([]colSwap, 0, n)

	for k := 0; k < n; k++ {
		pr, pc := k, k
		best := -1.0
		cEnd := k + 1
		if piv == TotalPivot {
			cEnd = n
		}
		for r := k; r < n; r++ {
			for c := k; c < cEnd; c++ {
				if v := math.Abs(m.At(r, c)); v > best {
					best, pr, pc = v, r, c
				}
			}
		}
		if best == 0 {
			return fail, mathErrorf("Invert", "singular matrix: zero pivot at step %d (%s pivoting)", k, piv)
		}
		if best <= EpsPivot*scale {
			status = SolvedDegenerate
		}
		if pr != k {
			m.swapRows(pr, k)
			inv.swapRows(pr, k)
		}
		if pc != k {
			m.swapCols(pc, k)
			swaps = append(swaps, colSwap{k, pc})
		}

		p := 1 / m.At(k, k)
		m.scaleRow(k, p)
		inv.scaleRow(k, p)
		for r := 0; r < n; r++ {
			if r == k {
				continue
			}
			if f := m.At(r, k); f != 0 {
				m.addRow(r, k, -f)
				inv.addRow(r, k, -f)
			}
		}
	}
	// L·A·P = I  ⇒  A⁻¹ = P·L: undo column swaps as row swaps, last first.
	for i := len(swaps) - 1; i >= 0; i-- {
		inv.swapRows(swaps[i].a, swaps[i].b)
	}
	return Inversion{Inverse: inv, Status: status}, nil
}

// SolveLinear solves a·x = b by Gaussian elimination with partial pivoting.
func SolveLinear(a *Matrix, b Vector) (Vector, error) {
	if !a.IsSquare() || len(b) != a.rows {
		return nil, shapeErrorf("SolveLinear", "%dx%d with rhs of length %d", a.rows, a.cols, len(b))
	}
	n := a.rows
	m := a.Clone()
	x := b.Clone()
	for k := 0; k < n; k++ {
		pr := k
		for r := k + 1; r < n; r++ {
			if math.Abs(m.At(r, k)) > math.Abs(m.At(pr, k)) {
				pr = r
			}
		}
		if m.At(pr, k) == 0 {
			return nil, mathErrorf("SolveLinear", "singular matrix: zero pivot at step %d", k)
		}
		if pr != k {
			m.swapRows(pr, k)
			x[pr], x[k] = x[k], x[pr]
		}
		for r := k + 1; r < n; r++ {
			f := m.At(r, k) / m.At(k, k)
			if f == 0 {
				continue
			}
			m.addRow(r, k, -f)
			x[r] -= f * x[k]
		}
	}
	for r := n - 1; r >= 0; r-- {
		s := x[r]
		for c := r + 1; c < n; c++ {
			s -= m.At(r, c) * x[c]
		}
		x[r] = s / m.At(r, r)
	}
	return x, nil
}

// Det returns the determinant of a square grid via partial-pivot elimination.
// A non-square grid yields an error matching both ErrShape and ErrMath.
func Det(g Grid) (Real, error) {
	if g.Rows() != g.Cols() {
		return 0, fmt.Errorf("Det: %dx%d is not square: %w: %w", g.Rows(), g.Cols(), ErrShape, ErrMath)
	}
	m := ToMatrix(g)
	n := m.rows
	det := 1.0
	for k := 0; k < n; k++ {
		pr := k
		for r := k + 1; r < n; r++ {
			if math.Abs(m.At(r, k)) > math.Abs(m.At(pr, k)) {
				pr = r
			}
		}
		if m.At(pr, k) == 0 {
			return 0, nil
		}
		if pr != k {
			m.swapRows(pr, k)
			det = -det
		}
		det *= m.At(k, k)
		for r := k + 1; r < n; r++ {
			if f := m.At(r, k) / m.At(k, k); f != 0 {
				m.addRow(r, k, -f)
			}
		}
	}
	return det, nil
}

// Det3 returns the cofactor determinant of a 3×3 grid.
func Det3(g Grid) (Real, error) {
	if g.Rows() != 3 || g.Cols() != 3 {
		return 0, fmt.Errorf("Det3: %dx%d is not 3x3: %w: %w", g.Rows(), g.Cols(), ErrShape, ErrMath)
	}
	m, _ := Mat3From(g)
	return m.Det(), nil
}

func (m *Matrix) swapRows(a, b int) {
	ra := m.data[a*m.cols : (a+1)*m.cols]
	rb := m.data[b*m.cols : (b+1)*m.cols]
	for i := range ra {
		ra[i], rb[i] = rb[i], ra[i]
	}
}

func (m *Matrix) swapCols(a, b int) {
	for r := 0; r < m.rows; r++ {
		i := r * m.cols
		m.data[i+a], m.data[i+b] = m.data[i+b], m.data[i+a]
	}
}

func (m *Matrix) scaleRow(r int, s Real) {
	row := m.data[r*m.cols : (r+1)*m.cols]
	for i := range row {
		row[i] *= s
	}
}

// addRow does row[dst] += f·row[src].
func (m *Matrix) addRow(dst, src int, f Real) {
	d := m.data[dst*m.cols : (dst+1)*m.cols]
	s := m.data[src*m.cols : (src+1)*m.cols]
	for i := range d {
		d[i] += f * s[i]
	}
}
