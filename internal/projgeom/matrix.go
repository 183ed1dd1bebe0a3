package projgeom

import (
	"fmt"
	"math"
	"strings"
)

// Grid is the arithmetic surface shared by Matrix, Mat3 and Mat4.
type Grid interface {
	Rows() int
	Cols() int
	At(r, c int) Real
	Set(r, c int, v Real)
}

// Matrix is a dense row-major matrix whose dimensions are fixed at construction.
type Matrix struct {
	rows, cols int
	data       []Real
}

// NewMatrix returns a rows×cols matrix. data is either empty (zero matrix) or
// exactly rows*cols values in row-major order.
func NewMatrix(rows, cols int, data ...Real) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, shapeErrorf("NewMatrix", "invalid dimensions %dx%d", rows, cols)
	}
	m := &Matrix{rows: rows, cols: cols, data: make([]Real, rows*cols)}
	switch len(data) {
	case 0:
	case rows * cols:
		copy(m.data, data)
	default:
		return nil, shapeErrorf("NewMatrix", "%d values for a %dx%d matrix", len(data), rows, cols)
	}
	return m, nil
}

// Zeros returns a rows×cols zero matrix; it panics on non-positive dimensions.
func Zeros(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("Zeros: invalid dimensions %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]Real, rows*cols)}
}

// Identity returns the n×n identity; like Zeros it panics when n <= 0.
func Identity(n int) *Matrix {
	m := Zeros(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// Diag returns the square matrix with v on its diagonal. It panics on an
// empty v; use NewMatrix when the size comes from input.
func Diag(v Vector) *Matrix {
	m := Zeros(len(v), len(v))
	for i, x := range v {
		m.data[i*m.cols+i] = x
	}
	return m
}

func (m *Matrix) Rows() int            { return m.rows }
func (m *Matrix) Cols() int            { return m.cols }
func (m *Matrix) At(r, c int) Real     { return m.data[r*m.cols+c] }
func (m *Matrix) Set(r, c int, v Real) { m.data[r*m.cols+c] = v }

// Data exposes the row-major backing slice.
func (m *Matrix) Data() []Real { return m.data }

func (m *Matrix) IsSquare() bool { return m.rows == m.cols }

func (m *Matrix) Clone() *Matrix {
	return &Matrix{rows: m.rows, cols: m.cols, data: append([]Real(nil), m.data...)}
}

// Row returns a copy of row r.
func (m *Matrix) Row(r int) Vector {
	return append(Vector(nil), m.data[r*m.cols:(r+1)*m.cols]...)
}

// Col returns a copy of column c.
func (m *Matrix) Col(c int) Vector {
	v := make(Vector, m.rows)
	for r := 0; r < m.rows; r++ {
		v[r] = m.data[r*m.cols+c]
	}
	return v
}

func (m *Matrix) SetRow(r int, v Vector) error {
	if len(v) != m.cols || r < 0 || r >= m.rows {
		return shapeErrorf("SetRow", "row %d of length %d into %dx%d", r, len(v), m.rows, m.cols)
	}
	copy(m.data[r*m.cols:], v)
	return nil
}

func (m *Matrix) SetCol(c int, v Vector) error {
	if len(v) != m.rows || c < 0 || c >= m.cols {
		return shapeErrorf("SetCol", "column %d of length %d into %dx%d", c, len(v), m.rows, m.cols)
	}
	for r := 0; r < m.rows; r++ {
		m.data[r*m.cols+c] = v[r]
	}
	return nil
}

// SetDiagonal zeroes m and writes v on the diagonal.
func (m *Matrix) SetDiagonal(v Vector) error {
	if !m.IsSquare() || len(v) != m.rows {
		return shapeErrorf("SetDiagonal", "diagonal of length %d into %dx%d", len(v), m.rows, m.cols)
	}
	clear(m.data)
	for i, x := range v {
		m.data[i*m.cols+i] = x
	}
	return nil
}

func (m *Matrix) SetIdentity() error {
	if !m.IsSquare() {
		return shapeErrorf("SetIdentity", "%dx%d is not square", m.rows, m.cols)
	}
	clear(m.data)
	for i := 0; i < m.rows; i++ {
		m.data[i*m.cols+i] = 1
	}
	return nil
}

// RoundZero replaces every entry with |x| < eps by exactly 0.
func (m *Matrix) RoundZero(eps Real) *Matrix {
	RoundZeroGrid(m, eps)
	return m
}

func (m *Matrix) Transpose() *Matrix {
	t := Zeros(m.cols, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			t.data[c*t.cols+r] = m.data[r*m.cols+c]
		}
	}
	return t
}

// Approx reports whether o has the same shape and every entry within eps.
func (m *Matrix) Approx(o *Matrix, eps Real) bool { return ApproxGrid(m, o, eps) }

// Mul returns a·b.
func Mul(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, shapeErrorf("Mul", "%dx%d · %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	out := Zeros(a.rows, b.cols)
	for r := 0; r < a.rows; r++ {
		for k := 0; k < a.cols; k++ {
			x := a.data[r*a.cols+k]
			if x == 0 {
				continue
			}
			for c := 0; c < b.cols; c++ {
				out.data[r*out.cols+c] += x * b.data[k*b.cols+c]
			}
		}
	}
	return out, nil
}

// MulVec returns m·v.
func (m *Matrix) MulVec(v Vector) (Vector, error) {
	if len(v) != m.cols {
		return nil, shapeErrorf("MulVec", "%dx%d · vector of length %d", m.rows, m.cols, len(v))
	}
	out := make(Vector, m.rows)
	for r := 0; r < m.rows; r++ {
		out[r] = Vector(m.data[r*m.cols : (r+1)*m.cols]).Dot(v)
	}
	return out, nil
}

// Sub returns a-b.
func Sub(a, b *Matrix) (*Matrix, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, shapeErrorf("Sub", "%dx%d - %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	out := a.Clone()
	for i := range out.data {
		out.data[i] -= b.data[i]
	}
	return out, nil
}

func (m *Matrix) Scale(s Real) *Matrix {
	out := m.Clone()
	for i := range out.data {
		out.data[i] *= s
	}
	return out
}

// Submatrix copies rows [r0,r0+rows) and columns [c0,c0+cols).
func (m *Matrix) Submatrix(r0, c0, rows, cols int) (*Matrix, error) {
	if r0 < 0 || c0 < 0 || rows <= 0 || cols <= 0 || r0+rows > m.rows || c0+cols > m.cols {
		return nil, shapeErrorf("Submatrix", "[%d:%d,%d:%d] of %dx%d", r0, r0+rows, c0, c0+cols, m.rows, m.cols)
	}
	out := Zeros(rows, cols)
	for r := 0; r < rows; r++ {
		copy(out.data[r*cols:(r+1)*cols], m.data[(r0+r)*m.cols+c0:])
	}
	return out, nil
}

// MaxAbs returns the largest absolute entry.
func (m *Matrix) MaxAbs() Real {
	var mx Real
	for _, x := range m.data {
		mx = math.Max(mx, math.Abs(x))
	}
	return mx
}

func (m *Matrix) String() string {
	var sb strings.Builder
	for r := 0; r < m.rows; r++ {
		sb.WriteByte('[')
		for c := 0; c < m.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.6g", m.data[r*m.cols+c])
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// MulGrid multiplies any two grids into a new Matrix.
func MulGrid(a, b Grid) (*Matrix, error) {
	if a.Cols() != b.Rows() {
		return nil, shapeErrorf("MulGrid", "%dx%d · %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	out := Zeros(a.Rows(), b.Cols())
	for r := 0; r < a.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			var s Real
			for k := 0; k < a.Cols(); k++ {
				s += a.At(r, k) * b.At(k, c)
			}
			out.data[r*out.cols+c] = s
		}
	}
	return out, nil
}

// ToMatrix copies any grid into a Matrix.
func ToMatrix(g Grid) *Matrix {
	out := Zeros(g.Rows(), g.Cols())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			out.data[r*out.cols+c] = g.At(r, c)
		}
	}
	return out
}

// TransposeGrid returns the transpose of any grid as a Matrix.
func TransposeGrid(g Grid) *Matrix {
	out := Zeros(g.Cols(), g.Rows())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			out.data[c*out.cols+r] = g.At(r, c)
		}
	}
	return out
}

// RoundZeroGrid sets entries with |x| < eps to exactly 0, in place.
func RoundZeroGrid(g Grid, eps Real) {
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if math.Abs(g.At(r, c)) < eps {
				g.Set(r, c, 0)
			}
		}
	}
}

// ApproxGrid reports whether a and b have the same shape and every entry
// differs by at most eps.
func ApproxGrid(a, b Grid, eps Real) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for r := 0; r < a.Rows(); r++ {
		for c := 0; c < a.Cols(); c++ {
			if math.Abs(a.At(r, c)-b.At(r, c)) > eps {
				return false
			}
		}
	}
	return true
}
