package projgeom

import "math"

// 3×3 matrix (row-major)
type Mat3 struct {
	M [3][3]Real
}

// 4×4 matrix (row-major)
type Mat4 struct {
	M [4][4]Real
}

func I3() Mat3 {
	return Mat3{M: [3][3]Real{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}}
}

func I4() Mat4 {
	return Mat4{M: [4][4]Real{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

func (A Mat3) Rows() int             { return 3 }
func (A Mat3) Cols() int             { return 3 }
func (A Mat3) At(r, c int) Real      { return A.M[r][c] }
func (A *Mat3) Set(r, c int, v Real) { A.M[r][c] = v }

func (A Mat4) Rows() int             { return 4 }
func (A Mat4) Cols() int             { return 4 }
func (A Mat4) At(r, c int) Real      { return A.M[r][c] }
func (A *Mat4) Set(r, c int, v Real) { A.M[r][c] = v }

func (A Mat3) Mul(B Mat3) Mat3 {
	var R Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			R.M[r][c] = A.M[r][0]*B.M[0][c] + A.M[r][1]*B.M[1][c] + A.M[r][2]*B.M[2][c]
		}
	}
	return R
}

func (A Mat3) MulVec(v Vector3) Vector3 {
	return Vector3{
		A.M[0][0]*v.X + A.M[0][1]*v.Y + A.M[0][2]*v.Z,
		A.M[1][0]*v.X + A.M[1][1]*v.Y + A.M[1][2]*v.Z,
		A.M[2][0]*v.X + A.M[2][1]*v.Y + A.M[2][2]*v.Z,
	}
}

func (A Mat3) Transpose() Mat3 {
	var R Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			R.M[r][c] = A.M[c][r]
		}
	}
	return R
}

func (A Mat3) Scale(s Real) Mat3 {
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			A.M[r][c] *= s
		}
	}
	return A
}

// Col returns column c as a vector.
func (A Mat3) Col(c int) Vector3 { return Vector3{A.M[0][c], A.M[1][c], A.M[2][c]} }

// Row returns row r as a vector.
func (A Mat3) Row(r int) Vector3 { return Vector3{A.M[r][0], A.M[r][1], A.M[r][2]} }

// Mat3FromCols stacks three column vectors.
func Mat3FromCols(c0, c1, c2 Vector3) Mat3 {
	return Mat3{M: [3][3]Real{
		{c0.X, c1.X, c2.X},
		{c0.Y, c1.Y, c2.Y},
		{c0.Z, c1.Z, c2.Z},
	}}
}

// Det returns the determinant by cofactor expansion along the first row.
func (A Mat3) Det() Real {
	m := &A.M
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the adjugate-based inverse, or ErrMath when |det| is
// negligible relative to the entries.
func (A Mat3) Inverse() (Mat3, error) {
	m := &A.M
	det := A.Det()
	if math.Abs(det) <= EpsPivot*math.Pow(A.maxAbs(), 3) || det == 0 {
		return Mat3{}, mathErrorf("Mat3.Inverse", "singular matrix (det=%g)", det)
	}
	inv := 1 / det
	var R Mat3
	R.M[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * inv
	R.M[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * inv
	R.M[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * inv
	R.M[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * inv
	R.M[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * inv
	R.M[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * inv
	R.M[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * inv
	R.M[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * inv
	R.M[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * inv
	return R, nil
}

func (A Mat3) maxAbs() Real {
	var mx Real
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			mx = math.Max(mx, math.Abs(A.M[r][c]))
		}
	}
	return mx
}

// Normalized divides by the [2][2] entry.
func (A Mat3) Normalized() (Mat3, error) {
	if math.Abs(A.M[2][2]) < EpsZero {
		return A, mathErrorf("Mat3.Normalized", "[2][2] entry is zero")
	}
	d := A.M[2][2]
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			A.M[r][c] /= d
		}
	}
	return A, nil
}

// Skew returns the cross-product matrix [v]× so that Skew(v)·w == v×w.
func Skew(v Vector3) Mat3 {
	return Mat3{M: [3][3]Real{
		{0, -v.Z, v.Y},
		{v.Z, 0, -v.X},
		{-v.Y, v.X, 0},
	}}
}

func (A Mat3) Matrix() *Matrix { return ToMatrix(&A) }

// Mat3From copies a 3×3 grid.
func Mat3From(g Grid) (Mat3, error) {
	if g.Rows() != 3 || g.Cols() != 3 {
		return Mat3{}, shapeErrorf("Mat3From", "%dx%d is not 3x3", g.Rows(), g.Cols())
	}
	var R Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			R.M[r][c] = g.At(r, c)
		}
	}
	return R, nil
}

func (A Mat4) Mul(B Mat4) Mat4 {
	var R Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += A.M[r][k] * B.M[k][c]
			}
			R.M[r][c] = sum
		}
	}
	return R
}

func (A Mat4) MulVec(v Vector4) Vector4 {
	return Vector4{
		A.M[0][0]*v.X + A.M[0][1]*v.Y + A.M[0][2]*v.Z + A.M[0][3]*v.W,
		A.M[1][0]*v.X + A.M[1][1]*v.Y + A.M[1][2]*v.Z + A.M[1][3]*v.W,
		A.M[2][0]*v.X + A.M[2][1]*v.Y + A.M[2][2]*v.Z + A.M[2][3]*v.W,
		A.M[3][0]*v.X + A.M[3][1]*v.Y + A.M[3][2]*v.Z + A.M[3][3]*v.W,
	}
}

func (A Mat4) Transpose() Mat4 {
	var R Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			R.M[r][c] = A.M[c][r]
		}
	}
	return R
}

func (A Mat4) Scale(s Real) Mat4 {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			A.M[r][c] *= s
		}
	}
	return A
}

// Normalized divides by the [3][3] entry.
func (A Mat4) Normalized() (Mat4, error) {
	if math.Abs(A.M[3][3]) < EpsZero {
		return A, mathErrorf("Mat4.Normalized", "[3][3] entry is zero")
	}
	d := A.M[3][3]
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			A.M[r][c] /= d
		}
	}
	return A, nil
}

func (A Mat4) Matrix() *Matrix { return ToMatrix(&A) }

// Mat4From copies a 4×4 grid.
func Mat4From(g Grid) (Mat4, error) {
	if g.Rows() != 4 || g.Cols() != 4 {
		return Mat4{}, shapeErrorf("Mat4From", "%dx%d is not 4x4", g.Rows(), g.Cols())
	}
	var R Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			R.M[r][c] = g.At(r, c)
		}
	}
	return R, nil
}
