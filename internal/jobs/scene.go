package jobs

import (
	"fmt"
	"sync"

	"github.com/lukaszgryglicki/projgeom/internal/projgeom"
)

// Object kinds reported in HitResult.Object.
const (
	ObjTriangle = "triangle"
	ObjOBB      = "obb"
	ObjSphere   = "sphere"
)

// HitResult is the nearest hit of one ray. A miss has T == NoHit and an
// empty Object.
type HitResult struct {
	Ray    int              `json:"ray"`
	Object string           `json:"object,omitempty"`
	Index  int              `json:"index"`
	T      Real             `json:"t"`
	Point  projgeom.Vector3 `json:"point"`
	U      Real             `json:"u,omitempty"`
	V      Real             `json:"v,omitempty"`
}

type scene struct {
	tris    []projgeom.Triangle
	boxes   []projgeom.OBB
	spheres []projgeom.Sphere
	root    *bvhNode // nil: brute force
}

func (s *scene) objects() int { return len(s.tris) + len(s.boxes) + len(s.spheres) }

func buildScene(job JobCfg) (*scene, []projgeom.Ray, error) {
	s := &scene{}
	for _, tc := range job.Triangles {
		s.tris = append(s.tris, tc.Build())
	}
	for i, bc := range job.Boxes {
		b, err := bc.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("box %d: %w", i, err)
		}
		s.boxes = append(s.boxes, b)
	}
	for i, sc := range job.Spheres {
		sp, err := sc.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.spheres = append(s.spheres, sp)
	}
	rays := make([]projgeom.Ray, 0, len(job.Rays))
	for i, rc := range job.Rays {
		r, err := rc.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("ray %d: %w", i, err)
		}
		rays = append(rays, r)
	}
	if !NeverBVH && s.objects() > 0 && (AlwaysBVH || s.objects() >= BVHMinObjects) {
		s.root = buildBVH(s.collectLeaves())
		Logger().Debug("intersect: BVH built", "objects", s.objects())
	}
	return s, rays, nil
}

// nearestHit returns the closest hit strictly ahead of the ray origin.
func (s *scene) nearestHit(idx int, r projgeom.Ray) HitResult {
	if s.root != nil {
		if h, ok := traverseNearest(s.root, idx, r); ok {
			return h
		}
		return HitResult{Ray: idx, Index: -1, T: projgeom.NoHit}
	}
	return s.bruteNearest(idx, r)
}

func (s *scene) bruteNearest(idx int, r projgeom.Ray) HitResult {
	best := HitResult{Ray: idx, Index: -1, T: projgeom.NoHit}
	closer := func(t Real) bool { return t > 0 && (best.T == projgeom.NoHit || t < best.T) }

	for i, tri := range s.tris {
		u, v, t := projgeom.IntersectTriangle(r, tri)
		if t != projgeom.NoHit && closer(t) {
			best = HitResult{Ray: idx, Object: ObjTriangle, Index: i, T: t, Point: r.At(t), U: u, V: v}
		}
	}
	for i, b := range s.boxes {
		if p, t := projgeom.IntersectOBB(r, b); t != projgeom.NoHit && closer(t) {
			best = HitResult{Ray: idx, Object: ObjOBB, Index: i, T: t, Point: p}
		}
	}
	for i, sp := range s.spheres {
		if p, t := projgeom.IntersectSphere(r, sp); t != projgeom.NoHit && closer(t) {
			best = HitResult{Ray: idx, Object: ObjSphere, Index: i, T: t, Point: p}
		}
	}
	return best
}

// castRays finds the nearest hit of every ray using up to workers goroutines.
// Each worker owns a contiguous range of the output.
func castRays(s *scene, rays []projgeom.Ray, workers int) []HitResult {
	out := make([]HitResult, len(rays))
	if len(rays) == 0 {
		return out
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(rays) {
		workers = len(rays)
	}
	Logger().Debug("intersect: casting rays", "rays", len(rays), "workers", workers)

	per, rem := len(rays)/workers, len(rays)%workers
	var wg sync.WaitGroup
	start := 0
	for w := 0; w < workers; w++ {
		n := per
		if w < rem {
			n++
		}
		if n == 0 {
			continue
		}
		wg.Add(1)
		go func(from, n int) {
			defer wg.Done()
			for i := from; i < from+n; i++ {
				out[i] = s.nearestHit(i, rays[i])
			}
		}(start, n)
		start += n
	}
	wg.Wait()
	return out
}
