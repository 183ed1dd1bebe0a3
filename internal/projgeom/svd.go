package projgeom

import "gonum.org/v1/gonum/mat"

// SVD factorizes the M×N matrix a in place: on return a holds U (M×N), and
// the singular values w (length N, descending) and V (N×N) satisfy
// A = U·diag(w)·Vᵀ. When M < N the trailing N-M singular values are zero and
// the matching columns of U are zero; V is then a full orthonormal basis, so
// its trailing columns span the null space of A.
func SVD(a *Matrix) (Vector, *Matrix, error) {
	if a == nil || a.rows <= 0 || a.cols <= 0 {
		return nil, nil, shapeErrorf("SVD", "empty matrix")
	}
	if !allFinite(a.data) {
		return nil, nil, mathErrorf("SVD", "non-finite entry")
	}
	m, n := a.rows, a.cols
	src := mat.NewDense(m, n, append([]float64(nil), a.data...))
	kind := mat.SVDThin
	if m < n {
		kind = mat.SVDFull
	}
	var svd mat.SVD
	if ok := svd.Factorize(src, kind); !ok {
		return nil, nil, mathErrorf("SVD", "factorization of %dx%d did not converge", m, n)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	w := make(Vector, n)
	copy(w, svd.Values(nil))

	clear(a.data)
	ur, uc := u.Dims()
	for r := 0; r < ur; r++ {
		for c := 0; c < uc && c < n; c++ {
			a.data[r*n+c] = u.At(r, c)
		}
	}
	V := Zeros(n, n)
	vr, vc := v.Dims()
	for r := 0; r < vr; r++ {
		for c := 0; c < vc; c++ {
			V.data[r*n+c] = v.At(r, c)
		}
	}
	return w, V, nil
}

// SolveNullSystem returns the unit x minimizing ‖a·x‖: the right singular
// vector of the smallest singular value. a is not modified.
func SolveNullSystem(a *Matrix) (Vector, error) {
	if a == nil {
		return nil, shapeErrorf("SolveNullSystem", "nil matrix")
	}
	_, V, err := SVD(a.Clone())
	if err != nil {
		return nil, err
	}
	return V.Col(V.cols - 1), nil
}

// Rank counts singular values above eps·w₀.
func Rank(a *Matrix, eps Real) (int, error) {
	if a == nil {
		return 0, shapeErrorf("Rank", "nil matrix")
	}
	w, _, err := SVD(a.Clone())
	if err != nil {
		return 0, err
	}
	if w[0] == 0 {
		return 0, nil
	}
	rank := 0
	for _, s := range w {
		if s > eps*w[0] {
			rank++
		}
	}
	return rank, nil
}
