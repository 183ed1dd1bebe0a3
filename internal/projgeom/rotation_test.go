package projgeom

import (
	"errors"
	"math"
	"testing"
)

func TestRotationsAreOrthonormal(t *testing.T) {
	for _, R := range []Mat3{
		RotX(0.7), RotY(-1.1), RotZ(2.3),
		RotFromAngles(Rot3{X: 0.1, Y: 0.2, Z: 0.3}),
		RotFromAngles(Rot3Deg{X: 90, Y: 45, Z: -30}.Radians()),
	} {
		RRt := R.Mul(R.Transpose())
		if !mat3Approx(RRt, I3(), 1e-12) || !almostEq(R.Det(), 1) {
			t.Fatalf("not a rotation: %v", R.M)
		}
	}
}

func TestRotZQuarterTurn(t *testing.T) {
	got := RotZ(math.Pi / 2).MulVec(Vector3{1, 0, 0})
	if !got.Approx(Vector3{0, 1, 0}, 1e-15) {
		t.Fatalf("RotZ(90°)·x = %+v", got)
	}
	r := Rot3Deg{Z: 90}.Radians()
	if !almostEq(r.Z, math.Pi/2) {
		t.Fatalf("Radians: %+v", r)
	}
}

func TestRotAxisAngle(t *testing.T) {
	R, err := RotAxisAngle(Vector3{0, 0, 5}, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	if !mat3Approx(R, RotZ(0.4), 1e-15) {
		t.Fatalf("about Z: %v", R.M)
	}
	axis := Vector3{1, -2, 0.5}
	R, _ = RotAxisAngle(axis, 1.3)
	if !R.MulVec(axis).Approx(axis, 1e-12) {
		t.Fatalf("axis must be fixed: %+v", R.MulVec(axis))
	}
	if _, err := RotAxisAngle(Vector3{}, 1); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("zero axis: want ErrDegenerate, got %v", err)
	}
}
