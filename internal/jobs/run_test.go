package jobs

import (
	"bytes"
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/lukaszgryglicki/projgeom/internal/projgeom"
)

func almostEq(a, b Real) bool { return math.Abs(a-b) < 1e-9 }

func rowsApprox(got, want [][]Real, eps Real) bool {
	if len(got) != len(want) {
		return false
	}
	for r := range want {
		if len(got[r]) != len(want[r]) {
			return false
		}
		for c := range want[r] {
			if math.Abs(got[r][c]-want[r][c]) > eps {
				return false
			}
		}
	}
	return true
}

func TestSampleConfig(t *testing.T) {
	cfg, err := loadConfig(filepath.Join("..", "..", "jobs", "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	results := RunJobs(cfg)
	if len(results) != len(cfg.Jobs) {
		t.Fatalf("%d results for %d jobs", len(results), len(cfg.Jobs))
	}
	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}

	h := byName["scale-translate"]
	if h.Error != "" || !rowsApprox(h.Matrix, [][]Real{{2, 0, 10}, {0, 3, 0}, {0, 0, 1}}, 1e-9) {
		t.Fatalf("homography: %+v", h)
	}

	d := byName["pinhole"]
	if d.Error != "" || !rowsApprox(d.K, [][]Real{{800, 0, 320}, {0, 800, 240}, {0, 0, 1}}, 1e-9) {
		t.Fatalf("decompose K: %+v", d)
	}
	if !rowsApprox(d.R, [][]Real{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 1e-12) {
		t.Fatalf("decompose R: %v", d.R)
	}
	if len(d.Center) != 4 || !almostEq(d.Center[3], 1) || math.Abs(d.Center[0])+math.Abs(d.Center[1])+math.Abs(d.Center[2]) > 1e-12 {
		t.Fatalf("decompose C: %v", d.Center)
	}

	p := byName["stereo-point"]
	if p.Error != "" || len(p.Point) != 4 {
		t.Fatalf("triangulate: %+v", p)
	}
	for i, want := range []Real{0.5, 0.2, 4, 1} {
		if !almostEq(p.Point[i], want) {
			t.Fatalf("triangulate: %v", p.Point)
		}
	}

	f := byName["too-few"]
	if f.ErrorKind != "vision" || f.Matrix != nil {
		t.Fatalf("failed job must carry only its error: %+v", f)
	}

	s := byName["scene"]
	if s.Error != "" || len(s.Hits) != 4 {
		t.Fatalf("intersect: %+v", s)
	}
	if hit := s.Hits[0]; hit.Object != ObjTriangle || !almostEq(hit.T, 5) || !almostEq(hit.U, 0.2) || !almostEq(hit.V, 0.3) {
		t.Fatalf("ray 0: %+v", hit)
	}
	if hit := s.Hits[1]; hit.Object != ObjOBB || hit.T < 8 || hit.T > 10 {
		t.Fatalf("ray 1: %+v", hit)
	}
	if hit := s.Hits[2]; hit.Object != ObjSphere || !almostEq(hit.T, 4) || !hit.Point.Approx(projgeom.Vector3{X: 0, Y: -6, Z: 0}, 1e-12) {
		t.Fatalf("ray 2: %+v", hit)
	}
	if hit := s.Hits[3]; hit.Object != "" || hit.T != projgeom.NoHit || hit.Index != -1 {
		t.Fatalf("ray 3 must miss: %+v", hit)
	}
}

func TestRunWritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	OutPath = out
	t.Cleanup(func() { OutPath = "" })

	path := writeConfig(t, `{"jobs": [
		{"name": "bad", "kind": "nope"},
		{"name": "few", "kind": "fundamental", "pairs2d": []}
	]}`)
	if err := Run(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var results []Result
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results: %+v", results)
	}
	if results[0].Error == "" || results[0].ErrorKind != "" {
		t.Fatalf("unknown kind: %+v", results[0])
	}
	if results[1].ErrorKind != "vision" {
		t.Fatalf("too few pairs: %+v", results[1])
	}

	if err := Run(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("missing config must fail")
	}
}

func TestWriteResultsPretty(t *testing.T) {
	Pretty = true
	t.Cleanup(func() { Pretty = false })
	var buf bytes.Buffer
	if err := writeResults(&buf, []Result{{Name: "a", Kind: KindDLT}}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  {\n    \"name\": \"a\"")) {
		t.Fatalf("not indented:\n%s", buf.String())
	}
}

func TestCastRaysParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	rnd := func(s Real) projgeom.Vector3 {
		return projgeom.Vector3{X: (rng.Float64()*2 - 1) * s, Y: (rng.Float64()*2 - 1) * s, Z: (rng.Float64()*2 - 1) * s}
	}
	job := JobCfg{Kind: KindIntersect}
	for i := 0; i < 8; i++ {
		job.Triangles = append(job.Triangles, TriangleCfg{A: rnd(5), B: rnd(5), C: rnd(5)})
		job.Boxes = append(job.Boxes, OBBCfg{
			Center: rnd(5),
			Half:   projgeom.Vector3{X: 0.5, Y: 1, Z: 0.25},
			RotDeg: projgeom.Rot3Deg{X: rng.Float64() * 90, Y: rng.Float64() * 90, Z: rng.Float64() * 90},
		})
		job.Spheres = append(job.Spheres, SphereCfg{Center: rnd(5), Radius: 0.5 + rng.Float64()})
	}
	for i := 0; i < 1000; i++ {
		dir := rnd(1)
		if dir.Len() < 1e-3 {
			dir = projgeom.Vector3{X: 1}
		}
		job.Rays = append(job.Rays, RayCfg{Origin: rnd(8), Dir: dir})
	}
	s, rays, err := buildScene(job)
	if err != nil {
		t.Fatal(err)
	}
	serial := castRays(s, rays, 1)
	parallel := castRays(s, rays, 7)
	hits := 0
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("ray %d: serial %+v parallel %+v", i, serial[i], parallel[i])
		}
		if serial[i].Ray != i {
			t.Fatalf("ray index %d stored at %d", serial[i].Ray, i)
		}
		if serial[i].Object != "" {
			hits++
			if serial[i].T <= 0 {
				t.Fatalf("ray %d: hit behind the origin %+v", i, serial[i])
			}
		}
	}
	if hits == 0 {
		t.Fatalf("no ray hit anything")
	}
	if got := castRays(s, nil, 4); len(got) != 0 {
		t.Fatalf("empty batch: %v", got)
	}
}
