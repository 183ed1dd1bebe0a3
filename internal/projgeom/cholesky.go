package projgeom

import "math"

// Cholesky returns the lower-triangular L with a = L·Lᵀ.
//
// a must be square, symmetric (relative tolerance EpsSymmetric) and positive
// semidefinite. Pivots up to z = EpsPivot·max(1, max|a|) count as zero; such a
// pivot is accepted only when the rest of its column is below √z too, and the
// corresponding column of L is then zero. On near-singular input the
// reconstruction L·Lᵀ therefore matches a only to √z (1e-6 for unit-scale a),
// not to machine precision. Every failure wraps ErrMath. Entries above the
// diagonal of L are exactly zero.
func Cholesky(a *Matrix) (*Matrix, error) {
	if !a.IsSquare() {
		return nil, mathErrorf("Cholesky", "%dx%d is not square", a.rows, a.cols)
	}
	if !allFinite(a.data) {
		return nil, mathErrorf("Cholesky", "non-finite entry")
	}
	n := a.rows
	scale := a.MaxAbs()
	symTol := EpsSymmetric * math.Max(scale, 1)
	for r := 0; r < n; r++ {
		for c := r + 1; c < n; c++ {
			if math.Abs(a.At(r, c)-a.At(c, r)) > symTol {
				return nil, mathErrorf("Cholesky", "not symmetric at (%d,%d): %g vs %g", r, c, a.At(r, c), a.At(c, r))
			}
		}
	}

	// Pivots below this are treated as zero (semidefinite direction).
	zeroTol := EpsPivot * math.Max(scale, 1)
	L := Zeros(n, n)
	for j := 0; j < n; j++ {
		d := a.At(j, j)
		for k := 0; k < j; k++ {
			d -= L.At(j, k) * L.At(j, k)
		}
		if d < -zeroTol {
			return nil, mathErrorf("Cholesky", "not positive semidefinite: pivot %d is %g", j, d)
		}
		if d <= zeroTol {
			for i := j + 1; i < n; i++ {
				s := a.At(i, j)
				for k := 0; k < j; k++ {
					s -= L.At(i, k) * L.At(j, k)
				}
				if math.Abs(s) > math.Sqrt(zeroTol) {
					return nil, mathErrorf("Cholesky", "not positive semidefinite: zero pivot %d with non-zero column", j)
				}
			}
			continue
		}
		ljj := math.Sqrt(d)
		L.Set(j, j, ljj)
		for i := j + 1; i < n; i++ {
			s := a.At(i, j)
			for k := 0; k < j; k++ {
				s -= L.At(i, k) * L.At(j, k)
			}
			L.Set(i, j, s/ljj)
		}
	}
	return L, nil
}
