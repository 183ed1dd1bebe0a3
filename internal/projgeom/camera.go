package projgeom

import (
	"fmt"
	"math"
)

// Camera is a finite projective camera P = K·R·[I | −C].
//
// K is upper triangular with a positive diagonal and K[2][2] == 1, R is a
// rotation (det +1) and C is the homogeneous camera center with W == 1.
// P keeps the scale it was given (or K·R·[I|−C] when composed).
type Camera struct {
	p *Matrix
	k Mat3
	r Mat3
	c Vector4
}

// NewCameraFromP decomposes a 3×4 projection matrix.
func NewCameraFromP(P *Matrix) (*Camera, error) {
	cam := &Camera{}
	if err := cam.SetP(P); err != nil {
		return nil, err
	}
	return cam, nil
}

// NewCamera composes P from intrinsics, rotation and center.
func NewCamera(K, R Mat3, C Vector4) (*Camera, error) {
	cam := &Camera{}
	if err := cam.SetKRC(K, R, C); err != nil {
		return nil, err
	}
	return cam, nil
}

// P returns a copy of the projection matrix.
func (cam *Camera) P() *Matrix { return cam.p.Clone() }

func (cam *Camera) K() Mat3 { return cam.k }
func (cam *Camera) R() Mat3 { return cam.r }

// Center returns the homogeneous camera center (W == 1).
func (cam *Camera) Center() Vector4 { return cam.c }

// SetP replaces P and re-derives K, R and C.
func (cam *Camera) SetP(P *Matrix) error {
	if P == nil || P.rows != 3 || P.cols != 4 {
		return shapeErrorf("Camera.SetP", "projection matrix must be 3x4")
	}
	if !allFinite(P.data) {
		return mathErrorf("Camera.SetP", "non-finite entry")
	}
	var M Mat3
	var p4 Vector3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			M.M[r][c] = P.At(r, c)
		}
	}
	p4 = Vector3{P.At(0, 3), P.At(1, 3), P.At(2, 3)}

	Minv, err := M.Inverse()
	if err != nil {
		return fmt.Errorf("Camera.SetP: left 3x3 block is singular (camera at infinity): %w", err)
	}
	// P and -P are the same camera; pick the sign giving det(R) = +1.
	if M.Det() < 0 {
		M = M.Scale(-1)
	}
	K, R := rq3(M)
	K, err = K.Normalized()
	if err != nil {
		return err
	}

	cam.p = P.Clone()
	cam.k = K
	cam.r = R
	C := Minv.MulVec(p4).Neg()
	cam.c = C.Homogeneous(1)
	return nil
}

// SetKRC replaces K, R and C and recomposes P.
func (cam *Camera) SetKRC(K, R Mat3, C Vector4) error {
	c, err := C.Unhomogeneous()
	if err != nil {
		return fmt.Errorf("Camera.SetKRC: center at infinity: %w", err)
	}
	KR := K.Mul(R)
	t := KR.MulVec(c).Neg()
	P := Zeros(3, 4)
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			P.Set(r, col, KR.M[r][col])
		}
	}
	P.Set(0, 3, t.X)
	P.Set(1, 3, t.Y)
	P.Set(2, 3, t.Z)
	cam.p = P
	cam.k = K
	cam.r = R
	cam.c = c.Homogeneous(1)
	return nil
}

// Project maps a homogeneous world point to a homogeneous image point.
func (cam *Camera) Project(X Vector4) Vector3 {
	P := cam.p
	row := func(r int) Real {
		return P.At(r, 0)*X.X + P.At(r, 1)*X.Y + P.At(r, 2)*X.Z + P.At(r, 3)*X.W
	}
	return Vector3{row(0), row(1), row(2)}
}

// ProjectPoint maps a Euclidean world point to pixel coordinates.
func (cam *Camera) ProjectPoint(X Vector3) (Vector2, error) {
	return cam.Project(X.Homogeneous(1)).Unhomogeneous()
}

// Depth is the signed depth of X in front of the camera (positive when the
// point is in front), scaled by ‖m3‖ as in Hartley & Zisserman 6.2.3.
func (cam *Camera) Depth(X Vector4) Real {
	x := cam.Project(X)
	var M Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			M.M[r][c] = cam.p.At(r, c)
		}
	}
	m3 := M.Row(2)
	return sign(M.Det()) * x.Z / (X.W * m3.Len())
}

// rq3 factors M = K·R with K upper triangular (positive diagonal) and R
// orthonormal, using three Givens rotations.
func rq3(M Mat3) (K, R Mat3) {
	givens := func(a, b Real) (c, s Real, ok bool) {
		n := math.Hypot(a, b)
		if n == 0 {
			return 1, 0, false
		}
		return a / n, b / n, true
	}

	Qx, Qy, Qz := I3(), I3(), I3()
	if c, s, ok := givens(-M.M[2][2], M.M[2][1]); ok {
		Qx.M[1][1], Qx.M[1][2] = c, -s
		Qx.M[2][1], Qx.M[2][2] = s, c
		M = M.Mul(Qx)
	}
	if c, s, ok := givens(M.M[2][2], M.M[2][0]); ok {
		Qy.M[0][0], Qy.M[0][2] = c, s
		Qy.M[2][0], Qy.M[2][2] = -s, c
		M = M.Mul(Qy)
	}
	if c, s, ok := givens(-M.M[1][1], M.M[1][0]); ok {
		Qz.M[0][0], Qz.M[0][1] = c, -s
		Qz.M[1][0], Qz.M[1][1] = s, c
		M = M.Mul(Qz)
	}
	K = M
	R = Qz.Transpose().Mul(Qy.Transpose()).Mul(Qx.Transpose())

	// Sign fix: K·D, D·R with D = diag(sign(K_ii)) keeps the product.
	for i := 0; i < 3; i++ {
		if K.M[i][i] < 0 {
			for r := 0; r < 3; r++ {
				K.M[r][i] = -K.M[r][i]
			}
			for c := 0; c < 3; c++ {
				R.M[i][c] = -R.M[i][c]
			}
		}
	}
	K.M[1][0], K.M[2][0], K.M[2][1] = 0, 0, 0
	return K, R
}
