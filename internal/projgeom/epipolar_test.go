package projgeom

import (
	"errors"
	"math"
	"testing"
)

type stereoRig struct {
	K          Mat3
	cam1, cam2 *Camera
	R2         Mat3
	C2         Vector3
	pts        []Vector3
}

// newStereoRig puts the first camera at the origin looking down +Z and the
// second one a unit baseline to the right, slightly rotated.
func newStereoRig(t *testing.T) stereoRig {
	t.Helper()
	K := testK()
	R2 := RotY(-0.1).Mul(RotX(0.05))
	C2 := Vector3{1, 0, 0}
	cam1, err := NewCamera(K, I3(), Vector4{0, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	cam2, err := NewCamera(K, R2, C2.Homogeneous(1))
	if err != nil {
		t.Fatal(err)
	}
	var pts []Vector3
	for _, p := range cubePoints() {
		pts = append(pts, p.Add(Vector3{0, 0, 5}))
	}
	return stereoRig{K: K, cam1: cam1, cam2: cam2, R2: R2, C2: C2, pts: pts}
}

func (s stereoRig) pairs() []PointPair2D {
	out := make([]PointPair2D, len(s.pts))
	for i, X := range s.pts {
		Xh := X.Homogeneous(1)
		out[i] = PointPair2D{From: s.cam1.Project(Xh), To: s.cam2.Project(Xh)}
	}
	return out
}

func TestTriangulate(t *testing.T) {
	rig := newStereoRig(t)
	for _, X := range rig.pts {
		Xh := X.Homogeneous(1)
		x1 := rig.cam1.Project(Xh)
		x2 := rig.cam2.Project(Xh).Mul(-3)
		got, err := Triangulate([]*Camera{rig.cam1, rig.cam2}, []Vector3{x1, x2})
		if err != nil {
			t.Fatal(err)
		}
		if got.W != 1 || got.Vec3().Sub(X).Len() > 1e-9 {
			t.Fatalf("triangulated %+v want %+v", got, X)
		}
	}

	if _, err := Triangulate([]*Camera{rig.cam1, rig.cam2}, []Vector3{{1, 2, 1}}); !errors.Is(err, ErrShape) {
		t.Fatalf("length mismatch: want ErrShape, got %v", err)
	}
	if _, err := Triangulate([]*Camera{rig.cam1}, []Vector3{{1, 2, 1}}); !errors.Is(err, ErrVision) {
		t.Fatalf("one view: want ErrVision, got %v", err)
	}
}

func TestTriangulateThreeViews(t *testing.T) {
	rig := newStereoRig(t)
	cam3, err := NewCamera(rig.K, RotX(-0.2), Vector4{0, 1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	X := Vector4{0.4, -0.3, 5.5, 1}
	cams := []*Camera{rig.cam1, rig.cam2, cam3}
	var xs []Vector3
	for _, c := range cams {
		xs = append(xs, c.Project(X))
	}
	got, err := Triangulate(cams, xs)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sub(X).Len() > 1e-9 {
		t.Fatalf("triangulated %+v want %+v", got, X)
	}
}

func TestFundamentalFromPoints(t *testing.T) {
	rig := newStereoRig(t)
	pairs := rig.pairs()
	F, err := FundamentalFromPoints(pairs)
	if err != nil {
		t.Fatal(err)
	}
	Fm := F.Matrix()
	if n := Vector(Fm.Data()).Len(); !almostEq(n, 1) {
		t.Fatalf("‖F‖=%v", n)
	}
	if r, _ := Rank(Fm, 1e-9); r != 2 {
		t.Fatalf("rank(F)=%d", r)
	}
	for i, p := range pairs {
		Fx := F.MulVec(p.From)
		res := math.Abs(p.To.Dot(Fx)) / (p.To.Len() * Fx.Len())
		if res > 1e-9 {
			t.Fatalf("pair %d: epipolar residual %v", i, res)
		}
	}
	// the epipole in image 2 is the projection of the first center
	e2 := rig.cam2.Project(Vector4{0, 0, 0, 1})
	if l := F.Transpose().MulVec(e2); l.Len()/e2.Len() > 1e-9 {
		t.Fatalf("Fᵀ·e2=%+v", l)
	}

	if _, err := FundamentalFromPoints(pairs[:7]); !errors.Is(err, ErrVision) {
		t.Fatalf("7 pairs: want ErrVision, got %v", err)
	}
}

func TestPoseFromFundamental(t *testing.T) {
	rig := newStereoRig(t)
	pairs := rig.pairs()
	F, err := FundamentalFromPoints(pairs)
	if err != nil {
		t.Fatal(err)
	}
	cam, err := PoseFromFundamental(F, rig.K, rig.K, pairs[0].From, pairs[0].To)
	if err != nil {
		t.Fatal(err)
	}
	if !mat3Approx(cam.R(), rig.R2, 1e-7) {
		t.Fatalf("R=%v want %v", cam.R().M, rig.R2.M)
	}
	if d := cam.Center().Vec3().Sub(rig.C2).Len(); d > 1e-7 {
		t.Fatalf("C=%+v want %+v", cam.Center(), rig.C2)
	}
	// every correspondence lands in front of both cameras
	cam1, _ := NewCamera(rig.K, I3(), Vector4{0, 0, 0, 1})
	for i, p := range pairs {
		X, err := Triangulate([]*Camera{cam1, cam}, []Vector3{p.From, p.To})
		if err != nil {
			t.Fatal(err)
		}
		if cam1.Depth(X) <= 0 || cam.Depth(X) <= 0 {
			t.Fatalf("pair %d triangulates behind a camera: %+v", i, X)
		}
	}
}
