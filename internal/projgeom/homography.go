package projgeom

import (
	"fmt"
	"math"
)

// PointPair2D maps a homogeneous image point From to To.
type PointPair2D struct {
	From Vector3 `json:"from"`
	To   Vector3 `json:"to"`
}

// PointPair3D maps a homogeneous world point From to To.
type PointPair3D struct {
	From Vector4 `json:"from"`
	To   Vector4 `json:"to"`
}

// similarity is the isotropic normalizing transform x ↦ s·(x − c).
type similarity struct {
	s Real
	c []Real
}

// fitSimilarity moves the centroid to the origin and scales the mean distance
// from it to target. pts are Euclidean coordinates.
func fitSimilarity(pts [][]Real, target Real) (similarity, error) {
	dim := len(pts[0])
	c := make([]Real, dim)
	for _, p := range pts {
		for i := range c {
			c[i] += p[i]
		}
	}
	for i := range c {
		c[i] /= Real(len(pts))
	}
	mean := 0.0
	for _, p := range pts {
		d := 0.0
		for i := range c {
			d += (p[i] - c[i]) * (p[i] - c[i])
		}
		mean += math.Sqrt(d)
	}
	mean /= Real(len(pts))
	if mean < EpsZero {
		return similarity{}, fmt.Errorf("all %d points coincide: %w", len(pts), ErrDegenerate)
	}
	return similarity{s: target / mean, c: c}, nil
}

func identitySimilarity(dim int) similarity { return similarity{s: 1, c: make([]Real, dim)} }

// forward returns the (dim+1)×(dim+1) homogeneous matrix of the transform.
func (t similarity) forward() *Matrix {
	n := len(t.c) + 1
	m := Identity(n)
	for i, ci := range t.c {
		m.Set(i, i, t.s)
		m.Set(i, n-1, -t.s*ci)
	}
	return m
}

// inverse returns the homogeneous matrix of x ↦ x/s + c.
func (t similarity) inverse() *Matrix {
	n := len(t.c) + 1
	m := Identity(n)
	for i, ci := range t.c {
		m.Set(i, i, 1/t.s)
		m.Set(i, n-1, ci)
	}
	return m
}

func euclid2(v Vector3) ([]Real, error) {
	p, err := v.Unhomogeneous()
	if err != nil {
		return nil, err
	}
	return []Real{p.X, p.Y}, nil
}

func euclid3(v Vector4) ([]Real, error) {
	p, err := v.Unhomogeneous()
	if err != nil {
		return nil, err
	}
	return []Real{p.X, p.Y, p.Z}, nil
}

// normalize2D returns the conditioning transform and the transformed points
// (Z == 1). With normalize == false the transform is the identity.
func normalize2D(pts []Vector3, normalize bool) (similarity, []Vector3, error) {
	e := make([][]Real, len(pts))
	for i, p := range pts {
		q, err := euclid2(p)
		if err != nil {
			return similarity{}, nil, fmt.Errorf("point %d: %w", i, err)
		}
		e[i] = q
	}
	t := identitySimilarity(2)
	if normalize {
		var err error
		if t, err = fitSimilarity(e, math.Sqrt2); err != nil {
			return similarity{}, nil, err
		}
	}
	out := make([]Vector3, len(pts))
	for i, q := range e {
		out[i] = Vector3{t.s * (q[0] - t.c[0]), t.s * (q[1] - t.c[1]), 1}
	}
	return t, out, nil
}

func normalize3D(pts []Vector4, normalize bool) (similarity, []Vector4, error) {
	e := make([][]Real, len(pts))
	for i, p := range pts {
		q, err := euclid3(p)
		if err != nil {
			return similarity{}, nil, fmt.Errorf("point %d: %w", i, err)
		}
		e[i] = q
	}
	t := identitySimilarity(3)
	if normalize {
		var err error
		if t, err = fitSimilarity(e, math.Sqrt(3)); err != nil {
			return similarity{}, nil, err
		}
	}
	out := make([]Vector4, len(pts))
	for i, q := range e {
		out[i] = Vector4{t.s * (q[0] - t.c[0]), t.s * (q[1] - t.c[1]), t.s * (q[2] - t.c[2]), 1}
	}
	return t, out, nil
}

// denormalize returns Tto⁻¹·H·Tfrom.
func denormalize(H *Matrix, from, to similarity) (*Matrix, error) {
	left, err := Mul(to.inverse(), H)
	if err != nil {
		return nil, err
	}
	return Mul(left, from.forward())
}

// nullMatrix solves A·h = 0 and reshapes h row-major into rows×cols.
func nullMatrix(A *Matrix, rows, cols int) (*Matrix, error) {
	h, err := SolveNullSystem(A)
	if err != nil {
		return nil, err
	}
	return NewMatrix(rows, cols, h...)
}

// Homography2D estimates H with To ~ H·From by DLT over at least four pairs.
// normalize enables Hartley conditioning (centroid to origin, mean distance √2).
// The result is divided by its [2][2] entry.
func Homography2D(pairs []PointPair2D, normalize bool) (Mat3, error) {
	if len(pairs) < 4 {
		return Mat3{}, visionErrorf("Homography2D", len(pairs), 4)
	}
	from := make([]Vector3, len(pairs))
	to := make([]Vector3, len(pairs))
	for i, p := range pairs {
		from[i], to[i] = p.From, p.To
	}
	tf, xs, err := normalize2D(from, normalize)
	if err != nil {
		return Mat3{}, fmt.Errorf("Homography2D: %w", err)
	}
	tt, ys, err := normalize2D(to, normalize)
	if err != nil {
		return Mat3{}, fmt.Errorf("Homography2D: %w", err)
	}

	A := Zeros(2*len(pairs), 9)
	for i := range xs {
		x, y := xs[i], ys[i]
		xa := [3]Real{x.X, x.Y, x.Z}
		for k := 0; k < 3; k++ {
			A.Set(2*i, 3+k, -y.Z*xa[k])
			A.Set(2*i, 6+k, y.Y*xa[k])
			A.Set(2*i+1, k, y.Z*xa[k])
			A.Set(2*i+1, 6+k, -y.X*xa[k])
		}
	}
	Hn, err := nullMatrix(A, 3, 3)
	if err != nil {
		return Mat3{}, fmt.Errorf("Homography2D: %w", err)
	}
	H, err := denormalize(Hn, tf, tt)
	if err != nil {
		return Mat3{}, err
	}
	h, _ := Mat3From(H)
	return h.Normalized()
}

// Homography3D estimates the 4×4 H with To ~ H·From over at least five pairs.
// The result is divided by its [3][3] entry.
func Homography3D(pairs []PointPair3D, normalize bool) (Mat4, error) {
	if len(pairs) < 5 {
		return Mat4{}, visionErrorf("Homography3D", len(pairs), 5)
	}
	from := make([]Vector4, len(pairs))
	to := make([]Vector4, len(pairs))
	for i, p := range pairs {
		from[i], to[i] = p.From, p.To
	}
	tf, xs, err := normalize3D(from, normalize)
	if err != nil {
		return Mat4{}, fmt.Errorf("Homography3D: %w", err)
	}
	tt, ys, err := normalize3D(to, normalize)
	if err != nil {
		return Mat4{}, fmt.Errorf("Homography3D: %w", err)
	}

	A := Zeros(3*len(pairs), 16)
	for i := range xs {
		x, y := xs[i], ys[i]
		for j := 0; j < 3; j++ {
			row := 3*i + j
			for k := 0; k < 4; k++ {
				A.Set(row, 4*j+k, y.W*x.At(k))
				A.Set(row, 12+k, -y.At(j)*x.At(k))
			}
		}
	}
	Hn, err := nullMatrix(A, 4, 4)
	if err != nil {
		return Mat4{}, fmt.Errorf("Homography3D: %w", err)
	}
	H, err := denormalize(Hn, tf, tt)
	if err != nil {
		return Mat4{}, err
	}
	h, _ := Mat4From(H)
	return h.Normalized()
}
