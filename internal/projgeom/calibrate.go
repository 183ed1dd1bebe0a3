package projgeom

import (
	"fmt"
	"math"
)

// WorldImagePair is a homogeneous world point and its homogeneous image.
type WorldImagePair struct {
	World Vector4 `json:"world"`
	Image Vector3 `json:"image"`
}

// VanishingPair holds the homogeneous vanishing points of two orthogonal
// scene directions.
type VanishingPair struct {
	U Vector3 `json:"u"`
	V Vector3 `json:"v"`
}

// CalibrateDLT estimates the camera from at least six world↔image pairs
// (points must not be coplanar). Both point sets are conditioned before the
// 2n×12 system is solved for its null vector.
func CalibrateDLT(pairs []WorldImagePair) (*Camera, error) {
	if len(pairs) < 6 {
		return nil, visionErrorf("CalibrateDLT", len(pairs), 6)
	}
	world := make([]Vector4, len(pairs))
	image := make([]Vector3, len(pairs))
	for i, p := range pairs {
		world[i], image[i] = p.World, p.Image
	}
	tw, Xs, err := normalize3D(world, true)
	if err != nil {
		return nil, fmt.Errorf("CalibrateDLT: %w", err)
	}
	ti, xs, err := normalize2D(image, true)
	if err != nil {
		return nil, fmt.Errorf("CalibrateDLT: %w", err)
	}

	A := Zeros(2*len(pairs), 12)
	for i := range Xs {
		X, x := Xs[i], xs[i]
		for k := 0; k < 4; k++ {
			A.Set(2*i, 4+k, -x.Z*X.At(k))
			A.Set(2*i, 8+k, x.Y*X.At(k))
			A.Set(2*i+1, k, x.Z*X.At(k))
			A.Set(2*i+1, 8+k, -x.X*X.At(k))
		}
	}
	Pn, err := nullMatrix(A, 3, 4)
	if err != nil {
		return nil, fmt.Errorf("CalibrateDLT: %w", err)
	}
	P, err := denormalize(Pn, tw, ti)
	if err != nil {
		return nil, err
	}
	return NewCameraFromP(P)
}

// CalibrateIAC recovers K from at least three pairs of orthogonal vanishing
// points, assuming square pixels and zero skew. The image of the absolute
// conic ω = K⁻ᵀK⁻¹ then has four unknowns.
func CalibrateIAC(pairs []VanishingPair) (Mat3, error) {
	if len(pairs) < 3 {
		return Mat3{}, visionErrorf("CalibrateIAC", len(pairs), 3)
	}
	pts := make([]Vector3, 0, 2*len(pairs))
	for _, p := range pairs {
		pts = append(pts, p.U, p.V)
	}
	s := pixelScale(pts)
	S := Mat3{M: [3][3]Real{{1 / s, 0, 0}, {0, 1 / s, 0}, {0, 0, 1}}}

	A := Zeros(len(pairs), 4)
	for i, p := range pairs {
		u, v := S.MulVec(p.U), S.MulVec(p.V)
		_ = A.SetRow(i, Vector{
			u.X*v.X + u.Y*v.Y,
			u.X*v.Z + u.Z*v.X,
			u.Y*v.Z + u.Z*v.Y,
			u.Z * v.Z,
		})
	}
	w, err := SolveNullSystem(A)
	if err != nil {
		return Mat3{}, fmt.Errorf("CalibrateIAC: %w", err)
	}
	omega := Mat3{M: [3][3]Real{
		{w[0], 0, w[1]},
		{0, w[0], w[2]},
		{w[1], w[2], w[3]},
	}}
	Kn, err := kFromIAC(omega)
	if err != nil {
		return Mat3{}, fmt.Errorf("CalibrateIAC: %w", err)
	}
	return unscaleK(Kn, s)
}

// CalibrateZhang recovers K (skew included) from at least three homographies
// mapping a model plane (Z = 0) to the image.
func CalibrateZhang(hs []Mat3) (Mat3, error) {
	if len(hs) < 3 {
		return Mat3{}, visionErrorf("CalibrateZhang", len(hs), 3)
	}
	pts := make([]Vector3, 0, len(hs))
	for _, H := range hs {
		pts = append(pts, H.Col(2))
	}
	s := pixelScale(pts)
	S := Mat3{M: [3][3]Real{{1 / s, 0, 0}, {0, 1 / s, 0}, {0, 0, 1}}}

	vij := func(H Mat3, i, j int) Vector {
		hi, hj := H.Col(i), H.Col(j)
		return Vector{
			hi.X * hj.X,
			hi.X*hj.Y + hi.Y*hj.X,
			hi.Y * hj.Y,
			hi.Z*hj.X + hi.X*hj.Z,
			hi.Z*hj.Y + hi.Y*hj.Z,
			hi.Z * hj.Z,
		}
	}
	A := Zeros(2*len(hs), 6)
	for i, H := range hs {
		Hs := S.Mul(H)
		v11, v12, v22 := vij(Hs, 0, 0), vij(Hs, 0, 1), vij(Hs, 1, 1)
		d := make(Vector, 6)
		for k := range d {
			d[k] = v11[k] - v22[k]
		}
		_ = A.SetRow(2*i, v12)
		_ = A.SetRow(2*i+1, d)
	}
	b, err := SolveNullSystem(A)
	if err != nil {
		return Mat3{}, fmt.Errorf("CalibrateZhang: %w", err)
	}
	B := Mat3{M: [3][3]Real{
		{b[0], b[1], b[3]},
		{b[1], b[2], b[4]},
		{b[3], b[4], b[5]},
	}}
	Kn, err := kFromIAC(B)
	if err != nil {
		return Mat3{}, fmt.Errorf("CalibrateZhang: %w", err)
	}
	return unscaleK(Kn, s)
}

// kFromIAC turns ω = K⁻ᵀK⁻¹ (known up to scale and sign) into K:
// Cholesky gives L = K⁻ᵀ, L⁻¹ = Kᵀ, normalized so K[2][2] == 1.
func kFromIAC(omega Mat3) (Mat3, error) {
	if omega.M[0][0] < 0 {
		omega = omega.Scale(-1)
	}
	if omega.M[0][0] == 0 {
		return Mat3{}, mathErrorf("kFromIAC", "absolute conic is degenerate")
	}
	L, err := Cholesky(omega.Matrix())
	if err != nil {
		return Mat3{}, err
	}
	inv, err := Invert(L, TotalPivot)
	if err != nil {
		return Mat3{}, err
	}
	if !inv.Usable() {
		return Mat3{}, mathErrorf("kFromIAC", "Cholesky factor is %s", inv.Status)
	}
	K, err := Mat3From(inv.Inverse.Transpose())
	if err != nil {
		return Mat3{}, err
	}
	K.M[1][0], K.M[2][0], K.M[2][1] = 0, 0, 0
	return K.Normalized()
}

// pixelScale is a conditioning scale for homogeneous image points: the mean
// |x|,|y| of the finite ones, or 1.
func pixelScale(pts []Vector3) Real {
	sum, n := 0.0, 0
	for _, p := range pts {
		if math.Abs(p.Z) < EpsZero*math.Max(1, p.Len()) {
			continue
		}
		sum += (math.Abs(p.X/p.Z) + math.Abs(p.Y/p.Z)) / 2
		n++
	}
	if n == 0 || sum < EpsZero {
		return 1
	}
	return sum / Real(n)
}

// unscaleK undoes the pixel conditioning: K = diag(s,s,1)·Kn.
func unscaleK(Kn Mat3, s Real) (Mat3, error) {
	for c := 0; c < 3; c++ {
		Kn.M[0][c] *= s
		Kn.M[1][c] *= s
	}
	return Kn.Normalized()
}
