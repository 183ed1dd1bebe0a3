package jobs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lukaszgryglicki/projgeom/internal/projgeom"
)

// Result is the outcome of one job. On failure only Name, Kind, Error and
// ErrorKind are set.
type Result struct {
	Name      string      `json:"name"`
	Kind      string      `json:"kind"`
	Error     string      `json:"error,omitempty"`
	ErrorKind string      `json:"errorKind,omitempty"`
	Matrix    [][]Real    `json:"matrix,omitempty"`
	K         [][]Real    `json:"k,omitempty"`
	R         [][]Real    `json:"r,omitempty"`
	Center    []Real      `json:"center,omitempty"`
	Point     []Real      `json:"point,omitempty"`
	Hits      []HitResult `json:"hits,omitempty"`
}

// Run loads the config, runs every job and writes the results as JSON. A
// failing job is reported in its Result; only config and output errors are
// returned.
func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	start := time.Now()
	results := RunJobs(cfg)
	Logger().Info("jobs finished", "count", len(results), "elapsed", time.Since(start))

	if cfg.Out == StdoutPath {
		return writeResults(os.Stdout, results)
	}
	f, err := os.Create(cfg.Out)
	if err != nil {
		return err
	}
	if err := writeResults(f, results); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	Logger().Debug("results written", "path", cfg.Out)
	return nil
}

// RunJobs runs the jobs in order and returns one Result per job.
func RunJobs(cfg *Config) []Result {
	results := make([]Result, 0, len(cfg.Jobs))
	for _, job := range cfg.Jobs {
		start := time.Now()
		res, err := runJob(job, cfg.Workers)
		if err != nil {
			res = Result{Name: job.Name, Kind: job.Kind, Error: err.Error(), ErrorKind: projgeom.ErrorKind(err)}
			Logger().Warn("job failed", "name", job.Name, "kind", job.Kind, "err", err)
		} else {
			Logger().Debug("job done", "name", job.Name, "kind", job.Kind, "elapsed", time.Since(start))
		}
		results = append(results, res)
	}
	return results
}

func runJob(job JobCfg, workers int) (Result, error) {
	res := Result{Name: job.Name, Kind: job.Kind}
	switch job.Kind {
	case KindHomography2D:
		H, err := projgeom.Homography2D(job.Pairs2D, job.normalize())
		if err != nil {
			return res, err
		}
		res.Matrix = rows(&H)

	case KindHomography3D:
		H, err := projgeom.Homography3D(job.Pairs3D, job.normalize())
		if err != nil {
			return res, err
		}
		res.Matrix = rows(&H)

	case KindDLT:
		cam, err := projgeom.CalibrateDLT(job.WorldImage)
		if err != nil {
			return res, err
		}
		setCamera(&res, cam)

	case KindIAC:
		K, err := projgeom.CalibrateIAC(job.Vanishing)
		if err != nil {
			return res, err
		}
		res.K = rows(&K)

	case KindZhang:
		hs := make([]projgeom.Mat3, len(job.Homographies))
		for i, h := range job.Homographies {
			hs[i] = projgeom.Mat3{M: h}
		}
		K, err := projgeom.CalibrateZhang(hs)
		if err != nil {
			return res, err
		}
		res.K = rows(&K)

	case KindTriangulate:
		cams := make([]*projgeom.Camera, len(job.Cameras))
		for i, cc := range job.Cameras {
			cam, err := cc.Build()
			if err != nil {
				return res, fmt.Errorf("camera %d: %w", i, err)
			}
			cams[i] = cam
		}
		X, err := projgeom.Triangulate(cams, job.Points)
		if err != nil {
			return res, err
		}
		res.Point = []Real{X.X, X.Y, X.Z, X.W}

	case KindFundamental:
		F, err := projgeom.FundamentalFromPoints(job.Pairs2D)
		if err != nil {
			return res, err
		}
		res.Matrix = rows(&F)

	case KindPose:
		cam, err := projgeom.PoseFromFundamental(projgeom.Mat3{M: job.F}, orIdentity(job.K1), orIdentity(job.K2), job.X1, job.X2)
		if err != nil {
			return res, err
		}
		setCamera(&res, cam)

	case KindDecompose:
		P, err := matrixFromRows(job.P)
		if err != nil {
			return res, fmt.Errorf("p: %w", err)
		}
		cam, err := projgeom.NewCameraFromP(P)
		if err != nil {
			return res, err
		}
		setCamera(&res, cam)

	case KindIntersect:
		s, rays, err := buildScene(job)
		if err != nil {
			return res, err
		}
		res.Hits = castRays(s, rays, workers)

	default:
		return res, fmt.Errorf("unknown job kind %q", job.Kind)
	}
	return res, nil
}

func setCamera(res *Result, cam *projgeom.Camera) {
	K, R, C := cam.K(), cam.R(), cam.Center()
	res.Matrix = rows(cam.P())
	res.K = rows(&K)
	res.R = rows(&R)
	res.Center = []Real{C.X, C.Y, C.Z, C.W}
}

func orIdentity(m [3][3]Real) projgeom.Mat3 {
	if m == ([3][3]Real{}) {
		return projgeom.I3()
	}
	return projgeom.Mat3{M: m}
}

func rows(g projgeom.Grid) [][]Real {
	out := make([][]Real, g.Rows())
	for r := range out {
		out[r] = make([]Real, g.Cols())
		for c := range out[r] {
			out[r][c] = g.At(r, c)
		}
	}
	return out
}

func writeResults(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	if Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(results)
}
