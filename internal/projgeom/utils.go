package projgeom

import "math"

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func allFinite(xs []Real) bool {
	for _, x := range xs {
		if !isFinite(x) {
			return false
		}
	}
	return true
}

func sign(x Real) Real {
	if x < 0 {
		return -1
	}
	return 1
}
