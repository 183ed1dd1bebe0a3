package projgeom

import (
	"fmt"
	"math"
)

// Triangulate returns the homogeneous world point seen at pts[i] by cams[i],
// from at least two views. Each view contributes two rows of the linear
// system; the point is scaled to W == 1 unless it lies at infinity.
func Triangulate(cams []*Camera, pts []Vector3) (Vector4, error) {
	if len(cams) != len(pts) {
		return Vector4{}, shapeErrorf("Triangulate", "%d cameras for %d points", len(cams), len(pts))
	}
	if len(cams) < 2 {
		return Vector4{}, visionErrorf("Triangulate", len(cams), 2)
	}
	A := Zeros(2*len(cams), 4)
	for i, cam := range cams {
		x := pts[i]
		P := cam.p
		for k := 0; k < 4; k++ {
			A.Set(2*i, k, x.X*P.At(2, k)-x.Z*P.At(0, k))
			A.Set(2*i+1, k, x.Y*P.At(2, k)-x.Z*P.At(1, k))
		}
	}
	// Unit rows: equal weight per equation whatever the pixel magnitudes.
	for r := 0; r < A.rows; r++ {
		if n := A.Row(r).Len(); n > 0 {
			A.scaleRow(r, 1/n)
		}
	}
	h, err := SolveNullSystem(A)
	if err != nil {
		return Vector4{}, fmt.Errorf("Triangulate: %w", err)
	}
	X := Vector4{h[0], h[1], h[2], h[3]}
	if Xu, err := X.UnitScale(); err == nil {
		return Xu, nil
	}
	return X, nil
}

// FundamentalFromPoints estimates F with x'ᵀ·F·x = 0 (x = From, x' = To) by the
// normalized eight-point algorithm, enforcing rank 2. F has unit Frobenius norm.
func FundamentalFromPoints(pairs []PointPair2D) (Mat3, error) {
	if len(pairs) < 8 {
		return Mat3{}, visionErrorf("FundamentalFromPoints", len(pairs), 8)
	}
	from := make([]Vector3, len(pairs))
	to := make([]Vector3, len(pairs))
	for i, p := range pairs {
		from[i], to[i] = p.From, p.To
	}
	tf, xs, err := normalize2D(from, true)
	if err != nil {
		return Mat3{}, fmt.Errorf("FundamentalFromPoints: %w", err)
	}
	tt, ys, err := normalize2D(to, true)
	if err != nil {
		return Mat3{}, fmt.Errorf("FundamentalFromPoints: %w", err)
	}
	A := Zeros(len(pairs), 9)
	for i := range xs {
		x, y := xs[i], ys[i]
		_ = A.SetRow(i, Vector{
			y.X * x.X, y.X * x.Y, y.X * x.Z,
			y.Y * x.X, y.Y * x.Y, y.Y * x.Z,
			y.Z * x.X, y.Z * x.Y, y.Z * x.Z,
		})
	}
	Fn, err := nullMatrix(A, 3, 3)
	if err != nil {
		return Mat3{}, fmt.Errorf("FundamentalFromPoints: %w", err)
	}
	Fn, err = enforceRank2(Fn)
	if err != nil {
		return Mat3{}, fmt.Errorf("FundamentalFromPoints: %w", err)
	}
	// F = T'ᵀ·F̃·T
	left, err := Mul(tt.forward().Transpose(), Fn)
	if err != nil {
		return Mat3{}, err
	}
	F, err := Mul(left, tf.forward())
	if err != nil {
		return Mat3{}, err
	}
	f, _ := Mat3From(F)
	norm := Vector(F.data).Len()
	if norm < EpsZero {
		return Mat3{}, mathErrorf("FundamentalFromPoints", "zero fundamental matrix")
	}
	return f.Scale(1 / norm), nil
}

func enforceRank2(F *Matrix) (*Matrix, error) {
	U := F.Clone()
	w, V, err := SVD(U)
	if err != nil {
		return nil, err
	}
	w[2] = 0
	UD, err := Mul(U, Diag(w))
	if err != nil {
		return nil, err
	}
	return Mul(UD, V.Transpose())
}

// PoseFromFundamental recovers the second camera of a calibrated pair. The
// first camera is K1·[I | 0]; the returned one is K2·R·[I | −C] with ‖C‖ = 1
// (the baseline scale is unobservable). Of the four (R, ±t) solutions of
// E = K2ᵀ·F·K1 the one placing the triangulated sample x1↔x2 in front of both
// cameras is returned; if none does, the error wraps ErrVision.
func PoseFromFundamental(F, K1, K2 Mat3, x1, x2 Vector3) (*Camera, error) {
	E := K2.Transpose().Mul(F).Mul(K1)
	U := E.Matrix()
	_, Vm, err := SVD(U)
	if err != nil {
		return nil, fmt.Errorf("PoseFromFundamental: %w", err)
	}
	u, _ := Mat3From(U)
	v, _ := Mat3From(Vm)
	if u.Det() < 0 {
		u = u.Scale(-1)
	}
	if v.Det() < 0 {
		v = v.Scale(-1)
	}
	W := Mat3{M: [3][3]Real{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}}
	R1 := u.Mul(W).Mul(v.Transpose())
	R2 := u.Mul(W.Transpose()).Mul(v.Transpose())
	t := u.Col(2)

	cam1, err := NewCamera(K1, I3(), Vector4{0, 0, 0, 1})
	if err != nil {
		return nil, err
	}
	type pose struct {
		R Mat3
		t Vector3
	}
	for _, c := range []pose{{R1, t}, {R1, t.Neg()}, {R2, t}, {R2, t.Neg()}} {
		C := c.R.Transpose().MulVec(c.t).Neg()
		cam2, err := NewCamera(K2, c.R, C.Homogeneous(1))
		if err != nil {
			return nil, err
		}
		X, err := Triangulate([]*Camera{cam1, cam2}, []Vector3{x1, x2})
		if err != nil {
			return nil, fmt.Errorf("PoseFromFundamental: %w", err)
		}
		if math.Abs(X.W) < EpsZero {
			continue
		}
		if cam1.Depth(X) > 0 && cam2.Depth(X) > 0 {
			return cam2, nil
		}
	}
	return nil, fmt.Errorf("PoseFromFundamental: no pose puts the sample in front of both cameras: %w", ErrVision)
}
