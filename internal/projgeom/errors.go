package projgeom

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the kernel wraps exactly one of these
// (Det/Det3 shape failures wrap both ErrShape and ErrMath), so callers can use errors.Is.
var (
	// ErrShape: operand dimensions are incompatible.
	ErrShape = errors.New("projgeom: shape mismatch")
	// ErrMath: a decomposition or solve cannot proceed.
	ErrMath = errors.New("projgeom: math error")
	// ErrDegenerate: zero-length normalization or zero homogeneous scale.
	ErrDegenerate = errors.New("projgeom: degenerate input")
	// ErrVision: not enough correspondences (or views) for the requested estimate.
	ErrVision = errors.New("projgeom: insufficient correspondences")
)

func shapeErrorf(op string, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", op, fmt.Sprintf(format, args...), ErrShape)
}

func mathErrorf(op string, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", op, fmt.Sprintf(format, args...), ErrMath)
}

func visionErrorf(op string, have, need int) error {
	return fmt.Errorf("%s: got %d correspondences, need at least %d: %w", op, have, need, ErrVision)
}

// ErrorKind names the kind of err ("shape", "math", "degenerate", "vision") or
// returns "" when err is nil or not a kernel error.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrShape):
		return "shape"
	case errors.Is(err, ErrMath):
		return "math"
	case errors.Is(err, ErrDegenerate):
		return "degenerate"
	case errors.Is(err, ErrVision):
		return "vision"
	}
	return ""
}
