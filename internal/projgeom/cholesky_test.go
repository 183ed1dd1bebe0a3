package projgeom

import (
	"errors"
	"math"
	"testing"
)

func TestCholeskyRecoversFactor(t *testing.T) {
	B := mustMatrix(t, 4, 4,
		2, 0, 0, 0,
		-1, 3, 0, 0,
		0.5, 0.25, 1.5, 0,
		4, -2, 1, 0.75,
	)
	A, _ := Mul(B, B.Transpose())
	L, err := Cholesky(A)
	if err != nil {
		t.Fatal(err)
	}
	if !L.Approx(B, 1e-10) {
		t.Fatalf("L:\n%vwant\n%v", L, B)
	}
	for r := 0; r < 4; r++ {
		for c := r + 1; c < 4; c++ {
			if L.At(r, c) != 0 {
				t.Fatalf("L[%d][%d]=%v, upper triangle must be exactly zero", r, c, L.At(r, c))
			}
		}
	}
}

func TestCholeskySemidefinite(t *testing.T) {
	L, err := Cholesky(mustMatrix(t, 3, 3, 4, 0, 0, 0, 0, 0, 0, 0, 9))
	if err != nil {
		t.Fatal(err)
	}
	if !L.Approx(Diag(Vector{2, 0, 3}), 0) {
		t.Fatalf("diagonal PSD:\n%v", L)
	}

	L, err = Cholesky(mustMatrix(t, 2, 2, 1, 1, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !L.Approx(mustMatrix(t, 2, 2, 1, 0, 1, 0), 0) {
		t.Fatalf("rank-1 PSD:\n%v", L)
	}
}

func TestCholeskyNearSingularResidual(t *testing.T) {
	A := mustMatrix(t, 2, 2, 0, 9e-7, 9e-7, 1)
	L, err := Cholesky(A)
	if err != nil {
		t.Fatal(err)
	}
	back, _ := Mul(L, L.Transpose())
	bound := math.Sqrt(EpsPivot)
	if !back.Approx(A, bound) {
		t.Fatalf("residual above %g:\n%v", bound, back)
	}
	if L.At(0, 0) != 0 || L.At(1, 0) != 0 {
		t.Fatalf("dropped column must be zero:\n%v", L)
	}

	A.Set(0, 1, 2e-6)
	A.Set(1, 0, 2e-6)
	if _, err := Cholesky(A); !errors.Is(err, ErrMath) {
		t.Fatalf("column above the residual bound: want ErrMath, got %v", err)
	}
}

func TestCholeskyRejects(t *testing.T) {
	cases := []struct {
		name string
		a    *Matrix
	}{
		{"non-square", Zeros(2, 3)},
		{"asymmetric", mustMatrix(t, 2, 2, 4, 1, 2, 3)},
		{"negative definite", mustMatrix(t, 2, 2, -1, 0, 0, -1)},
		{"indefinite", mustMatrix(t, 2, 2, 1, 2, 2, 1)},
		{"zero pivot with column", mustMatrix(t, 2, 2, 0, 1, 1, 1)},
	}
	for _, tc := range cases {
		if _, err := Cholesky(tc.a); !errors.Is(err, ErrMath) {
			t.Fatalf("%s: want ErrMath, got %v", tc.name, err)
		}
	}
}
