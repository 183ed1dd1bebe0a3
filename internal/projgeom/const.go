package projgeom

// Real is the scalar type used throughout the kernel.
type Real = float64

// Sentinel distance returned by the intersection routines when there is no hit.
const NoHit Real = -1

const (
	EpsZero      = 1e-12 // norms and homogeneous scales below this are treated as zero
	EpsTriangle  = 1e-6  // |det| below this means the ray is parallel to the triangle plane
	EpsSlab      = 1e-20 // |axis·dir| below this means the ray is parallel to an OBB slab
	EpsPivot     = 1e-12 // relative pivot magnitude flagging a degenerate elimination
	EpsSymmetric = 1e-10 // relative symmetry tolerance for Cholesky input
	EpsRank      = 1e-10 // relative singular value threshold for Rank
	EpsRound     = 1e-14 // default RoundZero threshold
)
