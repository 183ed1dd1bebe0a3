package projgeom

import "math"

// Rot3 holds rotation angles in radians about the X, Y and Z axes.
type Rot3 struct {
	X, Y, Z Real
}

// Rot3Deg is Rot3 in degrees, friendlier for JSON configs.
type Rot3Deg struct {
	X Real `json:"x"`
	Y Real `json:"y"`
	Z Real `json:"z"`
}

func (r Rot3Deg) Radians() Rot3 {
	const k = math.Pi / 180
	return Rot3{X: r.X * k, Y: r.Y * k, Z: r.Z * k}
}

func RotX(a Real) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	M := I3()
	M.M[1][1], M.M[1][2] = c, -s
	M.M[2][1], M.M[2][2] = s, c
	return M
}

func RotY(a Real) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	M := I3()
	M.M[0][0], M.M[0][2] = c, s
	M.M[2][0], M.M[2][2] = -s, c
	return M
}

func RotZ(a Real) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	M := I3()
	M.M[0][0], M.M[0][1] = c, -s
	M.M[1][0], M.M[1][1] = s, c
	return M
}

// RotFromAngles composes Rz·Ry·Rx.
func RotFromAngles(r Rot3) Mat3 {
	R := RotX(r.X)
	R = RotY(r.Y).Mul(R)
	R = RotZ(r.Z).Mul(R)
	return R
}

// RotAxisAngle returns the rotation by angle radians about axis (Rodrigues).
func RotAxisAngle(axis Vector3, angle Real) (Mat3, error) {
	k, err := axis.Norm()
	if err != nil {
		return Mat3{}, err
	}
	K := Skew(k)
	K2 := K.Mul(K)
	s, c := math.Sin(angle), 1-math.Cos(angle)
	R := I3()
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			R.M[r][col] += s*K.M[r][col] + c*K2.M[r][col]
		}
	}
	return R, nil
}
