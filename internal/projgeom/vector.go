package projgeom

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"golang.org/x/exp/constraints"
)

// Vec2 is a 2D vector, or a homogeneous 1D point.
type Vec2[T constraints.Float] struct {
	X, Y T
}

// Vec3 is a 3D vector, or a homogeneous 2D point (Z is the scale).
type Vec3[T constraints.Float] struct {
	X, Y, Z T
}

// Vec4 is a 4D vector, or a homogeneous 3D point (W is the scale).
type Vec4[T constraints.Float] struct {
	X, Y, Z, W T
}

type (
	Vector2 = Vec2[Real]
	Vector3 = Vec3[Real]
	Vector4 = Vec4[Real]
)

func (a Vec2[T]) Add(b Vec2[T]) Vec2[T] { return Vec2[T]{a.X + b.X, a.Y + b.Y} }
func (a Vec2[T]) Sub(b Vec2[T]) Vec2[T] { return Vec2[T]{a.X - b.X, a.Y - b.Y} }
func (v Vec2[T]) Mul(s T) Vec2[T]       { return Vec2[T]{v.X * s, v.Y * s} }
func (v Vec2[T]) Div(s T) Vec2[T]       { return Vec2[T]{v.X / s, v.Y / s} }
func (a Vec2[T]) Dot(b Vec2[T]) T       { return a.X*b.X + a.Y*b.Y }
func (v Vec2[T]) Len() T                { return T(math.Sqrt(float64(v.Dot(v)))) }
func (v Vec2[T]) LenSq() T              { return v.Dot(v) }

// Norm returns the unit vector, or ErrDegenerate for a (near) zero vector.
func (v Vec2[T]) Norm() (Vec2[T], error) {
	l := v.Len()
	if float64(l) < EpsZero {
		return v, fmt.Errorf("normalize %+v: %w", v, ErrDegenerate)
	}
	return v.Div(l), nil
}

// Homogeneous appends w as the scale coordinate.
func (v Vec2[T]) Homogeneous(w T) Vec3[T] { return Vec3[T]{v.X * w, v.Y * w, w} }

func (a Vec3[T]) Add(b Vec3[T]) Vec3[T] { return Vec3[T]{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3[T]) Sub(b Vec3[T]) Vec3[T] { return Vec3[T]{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (v Vec3[T]) Mul(s T) Vec3[T]       { return Vec3[T]{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3[T]) Div(s T) Vec3[T]       { return Vec3[T]{v.X / s, v.Y / s, v.Z / s} }
func (v Vec3[T]) Neg() Vec3[T]          { return Vec3[T]{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product between two 3D vectors.
func (a Vec3[T]) Dot(b Vec3[T]) T { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns a × b.
func (a Vec3[T]) Cross(b Vec3[T]) Vec3[T] {
	return Vec3[T]{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the Euclidean length of the vector.
func (v Vec3[T]) Len() T { return T(math.Sqrt(float64(v.Dot(v)))) }

func (v Vec3[T]) LenSq() T { return v.Dot(v) }

// Norm returns the unit vector, or ErrDegenerate for a (near) zero vector.
func (v Vec3[T]) Norm() (Vec3[T], error) {
	l := v.Len()
	if float64(l) < EpsZero {
		return v, fmt.Errorf("normalize %+v: %w", v, ErrDegenerate)
	}
	return v.Div(l), nil
}

// Approx reports whether every component differs from o by at most eps.
func (v Vec3[T]) Approx(o Vec3[T], eps T) bool {
	d := v.Sub(o)
	return abs(d.X) <= eps && abs(d.Y) <= eps && abs(d.Z) <= eps
}

// Homogeneous appends w as the scale coordinate.
func (v Vec3[T]) Homogeneous(w T) Vec4[T] { return Vec4[T]{v.X * w, v.Y * w, v.Z * w, w} }

// Unhomogeneous divides by Z and drops it.
func (v Vec3[T]) Unhomogeneous() (Vec2[T], error) {
	if float64(abs(v.Z)) < EpsZero {
		return Vec2[T]{}, fmt.Errorf("unhomogeneous %+v: %w", v, ErrDegenerate)
	}
	return Vec2[T]{v.X / v.Z, v.Y / v.Z}, nil
}

// UnitScale rescales a homogeneous 2D point so that Z == 1. Idempotent.
func (v Vec3[T]) UnitScale() (Vec3[T], error) {
	p, err := v.Unhomogeneous()
	if err != nil {
		return v, err
	}
	return p.Homogeneous(1), nil
}

// At returns component i (0..2).
func (v Vec3[T]) At(i int) T {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

// R3 converts to a golang/geo vector.
func (v Vec3[T]) R3() r3.Vector { return r3.Vector{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)} }

// Vec3FromR3 converts a golang/geo vector.
func Vec3FromR3(v r3.Vector) Vector3 { return Vector3{v.X, v.Y, v.Z} }

func (a Vec4[T]) Add(b Vec4[T]) Vec4[T] { return Vec4[T]{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W} }
func (a Vec4[T]) Sub(b Vec4[T]) Vec4[T] { return Vec4[T]{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W} }
func (v Vec4[T]) Mul(s T) Vec4[T]       { return Vec4[T]{v.X * s, v.Y * s, v.Z * s, v.W * s} }
func (v Vec4[T]) Div(s T) Vec4[T]       { return Vec4[T]{v.X / s, v.Y / s, v.Z / s, v.W / s} }

// Dot returns the dot product between two 4D vectors.
func (a Vec4[T]) Dot(b Vec4[T]) T { return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W }

// Len returns the Euclidean length of the vector.
func (v Vec4[T]) Len() T { return T(math.Sqrt(float64(v.Dot(v)))) }

func (v Vec4[T]) LenSq() T { return v.Dot(v) }

// Norm returns the unit vector, or ErrDegenerate for a (near) zero vector.
func (v Vec4[T]) Norm() (Vec4[T], error) {
	l := v.Len()
	if float64(l) < EpsZero {
		return v, fmt.Errorf("normalize %+v: %w", v, ErrDegenerate)
	}
	return v.Div(l), nil
}

// Unhomogeneous divides by W and drops it.
func (v Vec4[T]) Unhomogeneous() (Vec3[T], error) {
	if float64(abs(v.W)) < EpsZero {
		return Vec3[T]{}, fmt.Errorf("unhomogeneous %+v: %w", v, ErrDegenerate)
	}
	return Vec3[T]{v.X / v.W, v.Y / v.W, v.Z / v.W}, nil
}

// UnitScale rescales a homogeneous 3D point so that W == 1. Idempotent.
func (v Vec4[T]) UnitScale() (Vec4[T], error) {
	p, err := v.Unhomogeneous()
	if err != nil {
		return v, err
	}
	return p.Homogeneous(1), nil
}

// Vec3 drops W without dividing.
func (v Vec4[T]) Vec3() Vec3[T] { return Vec3[T]{v.X, v.Y, v.Z} }

// At returns component i (0..3).
func (v Vec4[T]) At(i int) T {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	return v.W
}

func abs[T constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Vector is a dynamically sized vector, used for solver outputs.
type Vector []Real

// Dot returns the dot product; the shorter length wins.
func (a Vector) Dot(b Vector) Real {
	n := min(len(a), len(b))
	var s Real
	for i := 0; i < n; i++ {
		s += a[i] * b[i]
	}
	return s
}

func (v Vector) Len() Real { return math.Sqrt(v.Dot(v)) }

func (v Vector) Clone() Vector { return append(Vector(nil), v...) }

// Norm returns a unit-length copy, or ErrDegenerate for a (near) zero vector.
func (v Vector) Norm() (Vector, error) {
	l := v.Len()
	if l < EpsZero {
		return v, fmt.Errorf("normalize vector of length %d: %w", len(v), ErrDegenerate)
	}
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x / l
	}
	return out, nil
}
