package jobs

// Job kinds accepted in Config.Jobs.
const (
	KindHomography2D = "homography2d"
	KindHomography3D = "homography3d"
	KindDLT          = "dlt"
	KindIAC          = "iac"
	KindZhang        = "zhang"
	KindTriangulate  = "triangulate"
	KindFundamental  = "fundamental"
	KindPose         = "pose"
	KindDecompose    = "decompose"
	KindIntersect    = "intersect"
)

const (
	StdoutPath = "-"
	// MaxWorkers caps the intersect worker pool regardless of NumCPU.
	MaxWorkers = 256
)

// BVH tuning for the intersect job.
const (
	BVHMaxLeafSize = 4
	BVHMinObjects  = 16 // smaller scenes are tested brute force
	BVHPad         = 1e-9
)
