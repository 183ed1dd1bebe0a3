package projgeom

import (
	"fmt"
	"math"
)

// Ray is Origin + t·Dir. Dir need not be unit length, but t is only a
// Euclidean distance when it is; IntersectSphere requires a unit Dir.
type Ray struct {
	Origin Vector3
	Dir    Vector3
}

// At returns the point at parameter t.
func (r Ray) At(t Real) Vector3 { return r.Origin.Add(r.Dir.Mul(t)) }

// Triangle vertices; their order fixes the normal (B-A)×(C-A).
type Triangle struct {
	A, B, C Vector3
}

func (tr Triangle) Normal() Vector3 { return tr.B.Sub(tr.A).Cross(tr.C.Sub(tr.A)) }

// OBB: box with orthonormal Axes, centered at Center, extending ±Half[i]
// along Axes[i].
type OBB struct {
	Center Vector3
	Axes   [3]Vector3
	Half   [3]Real
}

// NewOBB takes the box axes from the columns of an orthonormal rotation.
func NewOBB(center Vector3, half [3]Real, rot Mat3) (OBB, error) {
	if !(half[0] > 0 && half[1] > 0 && half[2] > 0) {
		return OBB{}, fmt.Errorf("obb half-lengths must be > 0, got %v: %w", half, ErrDegenerate)
	}
	return OBB{
		Center: center,
		Axes:   [3]Vector3{rot.Col(0), rot.Col(1), rot.Col(2)},
		Half:   half,
	}, nil
}

// Local returns p in box coordinates (projections onto the axes).
func (b OBB) Local(p Vector3) Vector3 {
	d := p.Sub(b.Center)
	return Vector3{d.Dot(b.Axes[0]), d.Dot(b.Axes[1]), d.Dot(b.Axes[2])}
}

// Sphere with Radius ≥ 0.
type Sphere struct {
	Center Vector3
	Radius Real
}

// IntersectTriangle is the Möller–Trumbore test. It returns the barycentric
// (u, v) of the hit and its distance t; t == NoHit when the ray is parallel to
// the triangle plane or misses the triangle. A negative t other than NoHit
// means the plane hit lies behind the origin.
func IntersectTriangle(r Ray, tri Triangle) (u, v, t Real) {
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < EpsTriangle {
		return 0, 0, NoHit
	}
	inv := 1 / det
	s := r.Origin.Sub(tri.A)
	u = s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, 0, NoHit
	}
	q := s.Cross(e1)
	v = r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, NoHit
	}
	return u, v, e2.Dot(q) * inv
}

// IntersectOBB is the slab test against the box's three axis pairs. The hit
// uses the entry distance when it is positive and the exit distance otherwise
// (origin inside the box). Misses and a zero direction return t == NoHit.
func IntersectOBB(r Ray, b OBB) (p Vector3, t Real) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	d := b.Center.Sub(r.Origin)
	for i := 0; i < 3; i++ {
		e := b.Axes[i].Dot(d)
		f := b.Axes[i].Dot(r.Dir)
		h := b.Half[i]
		if math.Abs(f) > EpsSlab {
			t1 := (e + h) / f
			t2 := (e - h) / f
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
			if tmin > tmax || tmax < 0 {
				return Vector3{}, NoHit
			}
		} else if -e-h > 0 || -e+h < 0 {
			// parallel to this slab and outside it
			return Vector3{}, NoHit
		}
	}
	// zero direction: every axis took the parallel branch
	if math.IsInf(tmax, 1) {
		return Vector3{}, NoHit
	}
	t = tmax
	if tmin > 0 {
		t = tmin
	}
	return r.At(t), t
}

// IntersectSphere solves the ray/sphere quadratic through the closest
// approach. r.Dir must be unit length. An origin inside the sphere takes the
// far root (the exit). Misses return t == NoHit.
func IntersectSphere(r Ray, sp Sphere) (p Vector3, t Real) {
	l := sp.Center.Sub(r.Origin)
	s := l.Dot(r.Dir)
	l2 := l.Dot(l)
	r2 := sp.Radius * sp.Radius
	if s < 0 && l2 > r2 {
		return Vector3{}, NoHit
	}
	m2 := l2 - s*s
	if m2 > r2 {
		return Vector3{}, NoHit
	}
	q := math.Sqrt(r2 - m2)
	if l2 > r2 {
		t = s - q
	} else {
		t = s + q
	}
	return r.At(t), t
}
