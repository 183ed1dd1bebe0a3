package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/lukaszgryglicki/projgeom/internal/projgeom"
)

type Real = projgeom.Real

type Config struct {
	Out     string   `json:"out,omitempty"`
	Workers int      `json:"workers,omitempty"`
	Jobs    []JobCfg `json:"jobs"`
}

// JobCfg is one estimation or intersection request. Which fields are read
// depends on Kind.
type JobCfg struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	// Hartley conditioning for the homography kinds; defaults to true.
	Normalize *bool `json:"normalize,omitempty"`

	Pairs2D      []projgeom.PointPair2D    `json:"pairs2d,omitempty"`
	Pairs3D      []projgeom.PointPair3D    `json:"pairs3d,omitempty"`
	WorldImage   []projgeom.WorldImagePair `json:"worldImage,omitempty"`
	Vanishing    []projgeom.VanishingPair  `json:"vanishing,omitempty"`
	Homographies [][3][3]Real              `json:"homographies,omitempty"`

	// triangulate: one image point per camera
	Cameras []CameraCfg        `json:"cameras,omitempty"`
	Points  []projgeom.Vector3 `json:"points,omitempty"`

	// pose
	F  [3][3]Real       `json:"f,omitzero"`
	K1 [3][3]Real       `json:"k1,omitzero"`
	K2 [3][3]Real       `json:"k2,omitzero"`
	X1 projgeom.Vector3 `json:"x1,omitzero"`
	X2 projgeom.Vector3 `json:"x2,omitzero"`

	// decompose
	P [][]Real `json:"p,omitempty"`

	// intersect
	Rays      []RayCfg      `json:"rays,omitempty"`
	Triangles []TriangleCfg `json:"triangles,omitempty"`
	Boxes     []OBBCfg      `json:"boxes,omitempty"`
	Spheres   []SphereCfg   `json:"spheres,omitempty"`
}

// CameraCfg is either a full P (3 rows of 4) or K, a rotation and a center.
type CameraCfg struct {
	P      [][]Real         `json:"p,omitempty"`
	K      [3][3]Real       `json:"k"`
	RotDeg projgeom.Rot3Deg `json:"rotDeg"`
	Center projgeom.Vector3 `json:"center"`
}

type RayCfg struct {
	Origin projgeom.Vector3 `json:"origin"`
	Dir    projgeom.Vector3 `json:"dir"`
}

type TriangleCfg struct {
	A projgeom.Vector3 `json:"a"`
	B projgeom.Vector3 `json:"b"`
	C projgeom.Vector3 `json:"c"`
}

type OBBCfg struct {
	Center projgeom.Vector3 `json:"center"`
	Half   projgeom.Vector3 `json:"half"`
	RotDeg projgeom.Rot3Deg `json:"rotDeg"`
}

type SphereCfg struct {
	Center projgeom.Vector3 `json:"center"`
	Radius Real             `json:"radius"`
}

func (j JobCfg) normalize() bool { return j.Normalize == nil || *j.Normalize }

func matrixFromRows(rows [][]Real) (*projgeom.Matrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	data := make([]Real, 0, len(rows)*len(rows[0]))
	for i, r := range rows {
		if len(r) != len(rows[0]) {
			return nil, fmt.Errorf("row %d has %d values, row 0 has %d", i, len(r), len(rows[0]))
		}
		data = append(data, r...)
	}
	return projgeom.NewMatrix(len(rows), len(rows[0]), data...)
}

// Build validates and constructs the camera. An all-zero K defaults to the
// identity.
func (c CameraCfg) Build() (*projgeom.Camera, error) {
	if len(c.P) > 0 {
		P, err := matrixFromRows(c.P)
		if err != nil {
			return nil, fmt.Errorf("camera p: %w", err)
		}
		return projgeom.NewCameraFromP(P)
	}
	K := projgeom.Mat3{M: c.K}
	if K == (projgeom.Mat3{}) {
		K = projgeom.I3()
	}
	R := projgeom.RotFromAngles(c.RotDeg.Radians())
	return projgeom.NewCamera(K, R, c.Center.Homogeneous(1))
}

// Build normalizes the direction; sphere hits need a unit direction.
func (r RayCfg) Build() (projgeom.Ray, error) {
	d, err := r.Dir.Norm()
	if err != nil {
		return projgeom.Ray{}, fmt.Errorf("ray direction: %w", err)
	}
	return projgeom.Ray{Origin: r.Origin, Dir: d}, nil
}

func (t TriangleCfg) Build() projgeom.Triangle {
	return projgeom.Triangle{A: t.A, B: t.B, C: t.C}
}

func (b OBBCfg) Build() (projgeom.OBB, error) {
	R := projgeom.RotFromAngles(b.RotDeg.Radians())
	return projgeom.NewOBB(b.Center, [3]Real{b.Half.X, b.Half.Y, b.Half.Z}, R)
}

func (s SphereCfg) Build() (projgeom.Sphere, error) {
	if !(s.Radius > 0) {
		return projgeom.Sphere{}, fmt.Errorf("sphere radius must be > 0, got %v: %w", s.Radius, projgeom.ErrDegenerate)
	}
	return projgeom.Sphere{Center: s.Center, Radius: s.Radius}, nil
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// Defaults / validation
	if OutPath != "" {
		cfg.Out = OutPath
	}
	if cfg.Out == "" {
		cfg.Out = StdoutPath
	}
	if Workers > 0 {
		cfg.Workers = Workers
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Workers > MaxWorkers {
		cfg.Workers = MaxWorkers
	}
	if len(cfg.Jobs) == 0 {
		return nil, fmt.Errorf("config has no jobs")
	}
	for i := range cfg.Jobs {
		if cfg.Jobs[i].Name == "" {
			cfg.Jobs[i].Name = fmt.Sprintf("%s#%d", cfg.Jobs[i].Kind, i)
		}
	}
	Logger().Debug("config loaded", "path", path, "jobs", len(cfg.Jobs), "workers", cfg.Workers, "out", cfg.Out)
	return &cfg, nil
}
