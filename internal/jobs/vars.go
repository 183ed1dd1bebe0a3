package jobs

// Set from the environment by cmd/projgeom.
var (
	OutPath = ""    // overrides Config.Out when non-empty ("-" is stdout)
	Workers = 0     // overrides Config.Workers when > 0
	Pretty  = false // indent the JSON output

	AlwaysBVH = false // BVH even for scenes below BVHMinObjects
	NeverBVH  = false // brute force only
)
