package projgeom

import (
	"errors"
	"testing"
)

func planePoints() []Vector2 {
	return []Vector2{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.5, 0.3}, {2, 1.5}, {-1, 0.7}}
}

func mapPairs2D(H Mat3, pts []Vector2) []PointPair2D {
	pairs := make([]PointPair2D, len(pts))
	for i, p := range pts {
		x := p.Homogeneous(1)
		pairs[i] = PointPair2D{From: x, To: H.MulVec(x)}
	}
	return pairs
}

func TestHomography2DScaleTranslate(t *testing.T) {
	want := Mat3{M: [3][3]Real{{2, 0, 10}, {0, 3, 0}, {0, 0, 1}}}
	pairs := mapPairs2D(want, planePoints()[:4])
	for _, normalize := range []bool{false, true} {
		H, err := Homography2D(pairs, normalize)
		if err != nil {
			t.Fatalf("normalize=%v: %v", normalize, err)
		}
		if !mat3Approx(H, want, 1e-9) {
			t.Fatalf("normalize=%v: H=%v want %v", normalize, H.M, want.M)
		}
		if H.M[2][2] != 1 {
			t.Fatalf("normalize=%v: H[2][2]=%v", normalize, H.M[2][2])
		}
	}
}

func TestHomography2DProjective(t *testing.T) {
	want := Mat3{M: [3][3]Real{{1.2, 0.1, 5}, {-0.2, 0.9, 3}, {1e-3, 2e-3, 1}}}
	pairs := mapPairs2D(want, planePoints())
	// homogeneous scale of the inputs must not matter
	pairs[2].From = pairs[2].From.Mul(-4)
	pairs[5].To = pairs[5].To.Mul(0.25)
	H, err := Homography2D(pairs, true)
	if err != nil {
		t.Fatal(err)
	}
	if !mat3Approx(H, want, 1e-9) {
		t.Fatalf("H=%v want %v", H.M, want.M)
	}
}

func TestHomography2DErrors(t *testing.T) {
	pairs := mapPairs2D(I3(), planePoints())
	if _, err := Homography2D(nil, true); !errors.Is(err, ErrVision) {
		t.Fatalf("empty: want ErrVision, got %v", err)
	}
	if _, err := Homography2D(pairs[:3], true); !errors.Is(err, ErrVision) {
		t.Fatalf("3 pairs: want ErrVision, got %v", err)
	}
	same := []PointPair2D{}
	for i := 0; i < 4; i++ {
		same = append(same, PointPair2D{From: Vector3{1, 1, 1}, To: Vector3{2, 2, 1}})
	}
	if _, err := Homography2D(same, true); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("coincident points: want ErrDegenerate, got %v", err)
	}
	pairs[0].From = Vector3{1, 0, 0}
	if _, err := Homography2D(pairs, true); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("point at infinity: want ErrDegenerate, got %v", err)
	}
}

func TestHomography3D(t *testing.T) {
	R := RotFromAngles(Rot3{X: 0.2, Y: -0.1, Z: 0.4})
	want := I4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want.M[r][c] = 1.5 * R.M[r][c]
		}
	}
	want.M[0][3], want.M[1][3], want.M[2][3] = 1, -2, 0.5
	want.M[3][0], want.M[3][2] = 0.01, 0.02

	var pairs []PointPair3D
	for _, p := range cubePoints() {
		X := p.Homogeneous(1)
		pairs = append(pairs, PointPair3D{From: X, To: want.MulVec(X)})
	}
	for _, normalize := range []bool{false, true} {
		H, err := Homography3D(pairs, normalize)
		if err != nil {
			t.Fatalf("normalize=%v: %v", normalize, err)
		}
		if !ApproxGrid(&H, &want, 1e-9) {
			t.Fatalf("normalize=%v: H=%v want %v", normalize, H.M, want.M)
		}
	}
	if _, err := Homography3D(pairs[:4], true); !errors.Is(err, ErrVision) {
		t.Fatalf("4 pairs: want ErrVision, got %v", err)
	}
}
