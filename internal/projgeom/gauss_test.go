package projgeom

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func toDense(m *Matrix) *mat.Dense {
	return mat.NewDense(m.Rows(), m.Cols(), append([]float64(nil), m.Data()...))
}

func TestInvertAgainstGonum(t *testing.T) {
	a := mustMatrix(t, 4, 4,
		4, -2, 1, 0.5,
		3, 6, -4, 2,
		2, 1, 8, -1,
		0.3, -0.7, 1.1, 5,
	)
	var want mat.Dense
	if err := want.Inverse(toDense(a)); err != nil {
		t.Fatal(err)
	}
	for _, piv := range []Pivoting{PartialPivot, TotalPivot} {
		inv, err := Invert(a, piv)
		if err != nil {
			t.Fatalf("%s: %v", piv, err)
		}
		if inv.Status != Solved || !inv.Usable() {
			t.Fatalf("%s: status %s", piv, inv.Status)
		}
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				if d := math.Abs(inv.Inverse.At(r, c) - want.At(r, c)); d > 1e-12 {
					t.Fatalf("%s: inverse[%d][%d]=%v want %v", piv, r, c, inv.Inverse.At(r, c), want.At(r, c))
				}
			}
		}
	}
}

// A zero leading diagonal forces both row and column swaps under total pivoting.
func TestInvertTotalPivotSwaps(t *testing.T) {
	a := mustMatrix(t, 3, 3,
		0, 1, 2,
		3, 0, 1,
		1, 5, 0,
	)
	inv, err := Invert(a, TotalPivot)
	if err != nil {
		t.Fatal(err)
	}
	prod, _ := Mul(a, inv.Inverse)
	if !prod.Approx(Identity(3), 1e-12) {
		t.Fatalf("A·A⁻¹ != I:\n%v", prod)
	}
	prod, _ = Mul(inv.Inverse, a)
	if !prod.Approx(Identity(3), 1e-12) {
		t.Fatalf("A⁻¹·A != I:\n%v", prod)
	}
}

func TestInvertSingular(t *testing.T) {
	a := mustMatrix(t, 2, 2, 1, 2, 2, 4)
	for _, piv := range []Pivoting{PartialPivot, TotalPivot} {
		inv, err := Invert(a, piv)
		if !errors.Is(err, ErrMath) {
			t.Fatalf("%s: want ErrMath, got %v", piv, err)
		}
		if inv.Status != Failed || inv.Inverse != nil {
			t.Fatalf("%s: want Failed with nil inverse, got %s", piv, inv.Status)
		}
	}

	// Rounding may leave a tiny non-zero pivot here; either outcome is a
	// rejection, never a trusted inverse.
	b := mustMatrix(t, 3, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	inv, err := Invert(b, TotalPivot)
	if err == nil && inv.Usable() {
		t.Fatalf("rank-2 matrix inverted as %s", inv.Status)
	}
	if err != nil && !errors.Is(err, ErrMath) {
		t.Fatalf("rank-2 matrix: want ErrMath, got %v", err)
	}
}

func TestInvertDegenerate(t *testing.T) {
	a := mustMatrix(t, 2, 2, 1, 0, 0, 1e-14)
	inv, err := Invert(a, PartialPivot)
	if err != nil {
		t.Fatal(err)
	}
	if inv.Status != SolvedDegenerate || inv.Usable() {
		t.Fatalf("want degenerate, got %s", inv.Status)
	}
	if inv.Inverse == nil || !almostEq(inv.Inverse.At(1, 1)*1e-14, 1) {
		t.Fatalf("degenerate inverse must still be returned: %v", inv.Inverse)
	}
}

func TestInvertBadInput(t *testing.T) {
	if inv, err := Invert(Zeros(2, 3), PartialPivot); !errors.Is(err, ErrShape) || inv.Status != Failed {
		t.Fatalf("non-square: want ErrShape/Failed, got %v %s", err, inv.Status)
	}
	a := Identity(2)
	a.Set(0, 1, math.NaN())
	if _, err := Invert(a, TotalPivot); !errors.Is(err, ErrMath) {
		t.Fatalf("NaN: want ErrMath, got %v", err)
	}
}

func TestSolveLinear(t *testing.T) {
	a := mustMatrix(t, 3, 3,
		0, 2, 1,
		1, -1, 3,
		4, 1, 1,
	)
	want := Vector{1, -2, 0.5}
	b, _ := a.MulVec(want)
	x, err := SolveLinear(a, b)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if !almostEq(x[i], want[i]) {
			t.Fatalf("x=%v want %v", x, want)
		}
	}
	if _, err := SolveLinear(mustMatrix(t, 2, 2, 1, 2, 2, 4), Vector{1, 2}); !errors.Is(err, ErrMath) {
		t.Fatalf("singular: want ErrMath, got %v", err)
	}
	if _, err := SolveLinear(a, Vector{1}); !errors.Is(err, ErrShape) {
		t.Fatalf("rhs length: want ErrShape, got %v", err)
	}
}

func TestDet(t *testing.T) {
	a := mustMatrix(t, 4, 4,
		2, -1, 0, 3,
		1, 4, -2, 0,
		0, 1, 5, -1,
		3, 0, 1, 2,
	)
	got, err := Det(a)
	if err != nil {
		t.Fatal(err)
	}
	if want := mat.Det(toDense(a)); math.Abs(got-want) > 1e-10*math.Abs(want) {
		t.Fatalf("Det=%v gonum=%v", got, want)
	}
	if d, err := Det(mustMatrix(t, 2, 2, 1, 2, 2, 4)); err != nil || d != 0 {
		t.Fatalf("singular Det=%v err=%v", d, err)
	}

	A := Mat3{M: [3][3]Real{{1, 2, 3}, {0, 1, 4}, {5, 6, 0}}}
	d3, err := Det3(&A)
	if err != nil || d3 != 1 {
		t.Fatalf("Det3=%v err=%v", d3, err)
	}
	dg, _ := Det(&A)
	if !almostEq(dg, d3) {
		t.Fatalf("Det(Mat3)=%v Det3=%v", dg, d3)
	}

	_, err = Det(Zeros(2, 3))
	if !errors.Is(err, ErrShape) || !errors.Is(err, ErrMath) {
		t.Fatalf("non-square Det must match ErrShape and ErrMath, got %v", err)
	}
	_, err = Det3(Identity(4))
	if !errors.Is(err, ErrShape) || !errors.Is(err, ErrMath) {
		t.Fatalf("4x4 Det3 must match ErrShape and ErrMath, got %v", err)
	}
}

func TestPivotingString(t *testing.T) {
	if PartialPivot.String() != "partial" || TotalPivot.String() != "total" {
		t.Fatalf("Pivoting.String")
	}
	for s, want := range map[SolveStatus]string{Solved: "solved", SolvedDegenerate: "degenerate", Failed: "failed"} {
		if s.String() != want {
			t.Fatalf("%d.String()=%q want %q", s, s.String(), want)
		}
	}
}
