package jobs

import (
	"math"
	"sort"

	"github.com/lukaszgryglicki/projgeom/internal/projgeom"
)

type vec3 = projgeom.Vector3

type bvhLeaf struct {
	min, max  vec3
	intersect func(idx int, r projgeom.Ray) (HitResult, bool)
}

type bvhNode struct {
	min, max vec3
	left     *bvhNode
	right    *bvhNode
	leafObjs []bvhLeaf // non-nil ⇒ leaf
}

// collectLeaves wraps every scene object with its world-space bounds.
func (s *scene) collectLeaves() []bvhLeaf {
	out := make([]bvhLeaf, 0, len(s.tris)+len(s.boxes)+len(s.spheres))
	for i, tri := range s.tris {
		i, tri := i, tri // per-iteration copies captured by the closure (pre-Go 1.22 loop semantics)
		lo, hi := pointsBounds(tri.A, tri.B, tri.C)
		out = append(out, bvhLeaf{min: lo, max: hi, intersect: func(idx int, r projgeom.Ray) (HitResult, bool) {
			u, v, t := projgeom.IntersectTriangle(r, tri)
			if t == projgeom.NoHit || t <= 0 {
				return HitResult{}, false
			}
			return HitResult{Ray: idx, Object: ObjTriangle, Index: i, T: t, Point: r.At(t), U: u, V: v}, true
		}})
	}
	for i, b := range s.boxes {
		i, b := i, b // per-iteration copies captured by the closure (pre-Go 1.22 loop semantics)
		var ext vec3
		for k := 0; k < 3; k++ {
			a := b.Axes[k]
			ext = ext.Add(vec3{X: math.Abs(a.X), Y: math.Abs(a.Y), Z: math.Abs(a.Z)}.Mul(b.Half[k]))
		}
		out = append(out, bvhLeaf{min: b.Center.Sub(ext), max: b.Center.Add(ext), intersect: func(idx int, r projgeom.Ray) (HitResult, bool) {
			p, t := projgeom.IntersectOBB(r, b)
			if t == projgeom.NoHit || t <= 0 {
				return HitResult{}, false
			}
			return HitResult{Ray: idx, Object: ObjOBB, Index: i, T: t, Point: p}, true
		}})
	}
	for i, sp := range s.spheres {
		i, sp := i, sp // per-iteration copies captured by the closure (pre-Go 1.22 loop semantics)
		ext := vec3{X: sp.Radius, Y: sp.Radius, Z: sp.Radius}
		out = append(out, bvhLeaf{min: sp.Center.Sub(ext), max: sp.Center.Add(ext), intersect: func(idx int, r projgeom.Ray) (HitResult, bool) {
			p, t := projgeom.IntersectSphere(r, sp)
			if t == projgeom.NoHit || t <= 0 {
				return HitResult{}, false
			}
			return HitResult{Ray: idx, Object: ObjSphere, Index: i, T: t, Point: p}, true
		}})
	}
	for i := range out {
		out[i].min, out[i].max = pad(out[i].min, out[i].max)
	}
	return out
}

func pointsBounds(ps ...vec3) (lo, hi vec3) {
	lo, hi = ps[0], ps[0]
	for _, p := range ps[1:] {
		lo, hi = aabbUnion(lo, hi, p, p)
	}
	return lo, hi
}

// pad grows a box slightly so surface hits computed by the exact tests are
// never culled by rounding in the box test.
func pad(lo, hi vec3) (vec3, vec3) {
	e := BVHPad * (1 + hi.Sub(lo).Len())
	d := vec3{X: e, Y: e, Z: e}
	return lo.Sub(d), hi.Add(d)
}

func buildBVH(objs []bvhLeaf) *bvhNode {
	n := len(objs)
	if n == 0 {
		return nil
	}
	minP, maxP := objs[0].min, objs[0].max
	for i := 1; i < n; i++ {
		minP, maxP = aabbUnion(minP, maxP, objs[i].min, objs[i].max)
	}
	if n <= BVHMaxLeafSize {
		return &bvhNode{min: minP, max: maxP, leafObjs: objs}
	}

	// split on the axis with the widest centroid spread
	cmin, cmax := centroid(objs[0]), centroid(objs[0])
	for i := 1; i < n; i++ {
		c := centroid(objs[i])
		cmin, cmax = aabbUnion(cmin, cmax, c, c)
	}
	spread := cmax.Sub(cmin)
	axis := 0
	if spread.Y > spread.At(axis) {
		axis = 1
	}
	if spread.Z > spread.At(axis) {
		axis = 2
	}
	// all centroids coincide: longest box extent instead
	if spread.At(axis) <= 1e-18 {
		ext := maxP.Sub(minP)
		axis = 0
		if ext.Y > ext.At(axis) {
			axis = 1
		}
		if ext.Z > ext.At(axis) {
			axis = 2
		}
	}

	sort.SliceStable(objs, func(i, j int) bool {
		return centroid(objs[i]).At(axis) < centroid(objs[j]).At(axis)
	})
	mid := n / 2
	return &bvhNode{
		min:   minP,
		max:   maxP,
		left:  buildBVH(objs[:mid]),
		right: buildBVH(objs[mid:]),
	}
}

func aabbUnion(aMin, aMax, bMin, bMax vec3) (vec3, vec3) {
	return vec3{X: math.Min(aMin.X, bMin.X), Y: math.Min(aMin.Y, bMin.Y), Z: math.Min(aMin.Z, bMin.Z)},
		vec3{X: math.Max(aMax.X, bMax.X), Y: math.Max(aMax.Y, bMax.Y), Z: math.Max(aMax.Z, bMax.Z)}
}

func centroid(o bvhLeaf) vec3 { return o.min.Add(o.max).Mul(0.5) }

type rayRecips struct {
	inv [3]Real
	par [3]bool // parallel flags (|D| < eps)
}

func computeRayRecips(d vec3) rayRecips {
	const eps = 1e-18
	var rr rayRecips
	for i := 0; i < 3; i++ {
		if x := d.At(i); x > eps || x < -eps {
			rr.inv[i] = 1 / x
		} else {
			rr.par[i] = true
		}
	}
	return rr
}

// rayAABB returns the entry distance of the ray into the box, clamped to 0
// when the origin is inside.
func rayAABB(O, minP, maxP vec3, rr rayRecips) (bool, Real) {
	tmin, tmax := -1e300, 1e300
	for i := 0; i < 3; i++ {
		o, lo, hi := O.At(i), minP.At(i), maxP.At(i)
		if rr.par[i] {
			if o < lo || o > hi {
				return false, 0
			}
			continue
		}
		t1 := (lo - o) * rr.inv[i]
		t2 := (hi - o) * rr.inv[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}
	if tmax < 0 || tmin > tmax {
		return false, 0
	}
	return true, math.Max(tmin, 0)
}

// traverseNearest is an iterative nearest-hit walk that prunes by the best t.
func traverseNearest(root *bvhNode, idx int, r projgeom.Ray) (HitResult, bool) {
	if root == nil {
		return HitResult{}, false
	}
	bestT := math.Inf(1)
	var best HitResult
	rr := computeRayRecips(r.Dir)

	type entry struct {
		n    *bvhNode
		tmin Real
	}
	ok, t0 := rayAABB(r.Origin, root.min, root.max, rr)
	if !ok {
		return HitResult{}, false
	}
	stack := []entry{{n: root, tmin: t0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.tmin > bestT {
			continue
		}

		if e.n.leafObjs != nil {
			for i := range e.n.leafObjs {
				if h, ok := e.n.leafObjs[i].intersect(idx, r); ok && h.T < bestT {
					bestT = h.T
					best = h
				}
			}
			continue
		}

		// near child is pushed last so it is popped first
		var lOK, rOK bool
		var lT, rT Real
		if e.n.left != nil {
			lOK, lT = rayAABB(r.Origin, e.n.left.min, e.n.left.max, rr)
			lOK = lOK && lT <= bestT
		}
		if e.n.right != nil {
			rOK, rT = rayAABB(r.Origin, e.n.right.min, e.n.right.max, rr)
			rOK = rOK && rT <= bestT
		}
		switch {
		case lOK && rOK:
			if lT < rT {
				stack = append(stack, entry{e.n.right, rT}, entry{e.n.left, lT})
			} else {
				stack = append(stack, entry{e.n.left, lT}, entry{e.n.right, rT})
			}
		case lOK:
			stack = append(stack, entry{e.n.left, lT})
		case rOK:
			stack = append(stack, entry{e.n.right, rT})
		}
	}
	if math.IsInf(bestT, 1) {
		return HitResult{}, false
	}
	return best, true
}
