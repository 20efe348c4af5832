package fathom

import (
	"fmt"
	"math"
)

// childMatchUnits is the proximity radius, measured in the child frame's own
// units, within which a requested child origin matches an existing child.
// 256 child units is about a quarter viewport at working zoom, so repeated
// dives near the same spot land in the same child frame.
const childMatchUnits = 256.0

// FrameGraph owns the tree of frames. Frames live in an arena addressed by
// FrameID; retired slots are free-listed and reused. The graph is a tree by
// construction: children are only created through GetOrCreateChild and a
// parent only through GetOrCreateParent, both idempotent.
type FrameGraph struct {
	scaleToParent float64
	frames        []Frame
	free          []FrameID
	root          FrameID
	aliveCount    int
}

// NewFrameGraph creates a graph containing a single frame, which is both the
// root and the initial active frame.
func NewFrameGraph(scaleToParent float64) *FrameGraph {
	if scaleToParent <= 1 {
		panic("fathom: scaleToParent must be greater than 1")
	}
	g := &FrameGraph{scaleToParent: scaleToParent, root: NoFrame}
	g.root = g.alloc()
	return g
}

// ScaleToParent returns the global frame scale ratio.
func (g *FrameGraph) ScaleToParent() float64 {
	return g.scaleToParent
}

// Root returns the topmost frame of the retained tree.
func (g *FrameGraph) Root() FrameID {
	return g.root
}

// Len returns the number of live frames.
func (g *FrameGraph) Len() int {
	return g.aliveCount
}

// Frame resolves an ID to its frame. Panics on a dead or out-of-range ID:
// holding a stale FrameID is a programming error, not a recoverable state.
func (g *FrameGraph) Frame(id FrameID) *Frame {
	if id < 0 || int(id) >= len(g.frames) || !g.frames[id].alive {
		panic(fmt.Sprintf("fathom: frame %d is not alive", id))
	}
	return &g.frames[id]
}

// alloc returns a fresh frame slot, reusing a free-listed one if available.
func (g *FrameGraph) alloc() FrameID {
	g.aliveCount++
	if n := len(g.free); n > 0 {
		id := g.free[n-1]
		g.free = g.free[:n-1]
		g.frames[id] = Frame{id: id, parent: NoFrame, alive: true}
		return id
	}
	id := FrameID(len(g.frames))
	g.frames = append(g.frames, Frame{id: id, parent: NoFrame, alive: true})
	return id
}

// GetOrCreateChild returns the child of frame id whose origin lies within the
// proximity radius of originInParent, creating one there if none matches.
// Calling twice with the same origin returns the same frame.
func (g *FrameGraph) GetOrCreateChild(id FrameID, originInParent Vec2) FrameID {
	if math.IsNaN(originInParent.X) || math.IsInf(originInParent.X, 0) ||
		math.IsNaN(originInParent.Y) || math.IsInf(originInParent.Y, 0) {
		panic("fathom: child origin must be finite")
	}
	f := g.Frame(id)

	radius := childMatchUnits / g.scaleToParent
	for _, cid := range f.children {
		c := g.Frame(cid)
		dx := c.originInParent.X - originInParent.X
		dy := c.originInParent.Y - originInParent.Y
		if dx*dx+dy*dy <= radius*radius {
			return cid
		}
	}

	cid := g.alloc()
	child := &g.frames[cid]
	child.parent = id
	child.originInParent = originInParent
	// Reacquire f: alloc may have grown the arena.
	f = g.Frame(id)
	f.children = append(f.children, cid)
	return cid
}

// GetOrCreateParent returns frame id's parent, lazily constructing a level
// above the current root on the first zoom-out. The new parent adopts the
// frame at its own origin. Idempotent: a frame is never given two parents.
func (g *FrameGraph) GetOrCreateParent(id FrameID) FrameID {
	f := g.Frame(id)
	if f.parent != NoFrame {
		return f.parent
	}
	if id != g.root {
		// A parentless non-root frame means the tree invariant is already
		// broken; fail fast rather than silently grow a second root.
		panic(fmt.Sprintf("fathom: frame %d has no parent but is not the root", id))
	}

	pid := g.alloc()
	parent := &g.frames[pid]
	parent.children = append(parent.children, id)
	f = g.Frame(id)
	f.parent = pid
	f.originInParent = Vec2{}
	g.root = pid
	return pid
}

// DepthOf returns how many parent links separate id from the root.
func (g *FrameGraph) DepthOf(id FrameID) int {
	depth := 0
	for f := g.Frame(id); f.parent != NoFrame; f = g.Frame(f.parent) {
		depth++
	}
	return depth
}

// IsAncestor reports whether anc is a strict ancestor of id.
func (g *FrameGraph) IsAncestor(anc, id FrameID) bool {
	for f := g.Frame(id); f.parent != NoFrame; f = g.Frame(f.parent) {
		if f.parent == anc {
			return true
		}
	}
	return false
}

// AncestorsOf returns up to maxDepth ancestors of id, ordered outermost
// first, so the compositor can render them back-to-front.
func (g *FrameGraph) AncestorsOf(id FrameID, maxDepth int) []FrameID {
	var out []FrameID
	for f := g.Frame(id); f.parent != NoFrame && len(out) < maxDepth; f = g.Frame(f.parent) {
		out = append(out, f.parent)
	}
	// Reverse: collected innermost-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// treeDistance returns the number of edges on the path between a and b.
func (g *FrameGraph) treeDistance(a, b FrameID) int {
	da := g.DepthOf(a)
	db := g.DepthOf(b)
	dist := 0
	for da > db {
		a = g.Frame(a).parent
		da--
		dist++
	}
	for db > da {
		b = g.Frame(b).parent
		db--
		dist++
	}
	for a != b {
		a = g.Frame(a).parent
		b = g.Frame(b).parent
		dist += 2
	}
	return dist
}

// frameToFrame computes the affine transform mapping points in frame from's
// local space to frame to's local space. Frame relations are pure uniform
// scale plus translation, so the result is always of that form.
//
// Moving outward to a parent: p' = origin + p/S. Moving inward to a child:
// p' = (p - origin) * S.
func (g *FrameGraph) frameToFrame(from, to FrameID) [6]float64 {
	if from == to {
		return identityTransform
	}

	// Walk both up to the common ancestor, accumulating the transform from
	// `from` upward and recording the downward path into `to`.
	df := g.DepthOf(from)
	dt := g.DepthOf(to)

	m := identityTransform
	a, b := from, to
	var down []FrameID

	for df > dt {
		f := g.Frame(a)
		m = multiplyAffine(scaleOffsetAffine(1/g.scaleToParent, f.originInParent.X, f.originInParent.Y), m)
		a = f.parent
		df--
	}
	for dt > df {
		down = append(down, b)
		b = g.Frame(b).parent
		dt--
	}
	for a != b {
		f := g.Frame(a)
		m = multiplyAffine(scaleOffsetAffine(1/g.scaleToParent, f.originInParent.X, f.originInParent.Y), m)
		a = f.parent
		down = append(down, b)
		b = g.Frame(b).parent
	}

	// Descend from the common ancestor into `to`, innermost last.
	for i := len(down) - 1; i >= 0; i-- {
		o := g.Frame(down[i]).originInParent
		m = multiplyAffine(scaleOffsetAffine(g.scaleToParent, -o.X*g.scaleToParent, -o.Y*g.scaleToParent), m)
	}
	return m
}

// ConvertPoint converts a point from one frame's local space to another's.
func (g *FrameGraph) ConvertPoint(from, to FrameID, p Vec2) Vec2 {
	x, y := transformPoint(g.frameToFrame(from, to), p.X, p.Y)
	return Vec2{x, y}
}

// EvictBeyond releases frames whose tree distance from active exceeds
// horizon. Ancestors of the active frame are always retained: they anchor the
// coordinate chain back to the root and cannot be reconstructed. Eviction is
// a resource-management policy, not a correctness requirement; evicted
// strokes are gone unless persisted externally. Returns the eviction count.
func (g *FrameGraph) EvictBeyond(active FrameID, horizon int) int {
	g.Frame(active) // validate

	// Decide first, free second: distance computations walk parent chains,
	// which must not cross frames freed earlier in the same pass.
	var doomed []FrameID
	for i := range g.frames {
		f := &g.frames[i]
		if !f.alive || f.id == active {
			continue
		}
		if f.id == g.root || g.IsAncestor(f.id, active) {
			continue
		}
		if g.treeDistance(f.id, active) <= horizon {
			continue
		}
		doomed = append(doomed, f.id)
	}

	for _, id := range doomed {
		f := &g.frames[id]
		// Parent is either doomed in this same pass (greater distance) or
		// survives and must forget this child.
		if p := f.parent; p != NoFrame && g.frames[p].alive {
			g.frames[p].removeChild(id)
		}
		f.alive = false
		f.strokes = nil
		f.children = nil
		g.free = append(g.free, id)
		g.aliveCount--
	}
	return len(doomed)
}

// removeChild drops cid from f's child list.
func (f *Frame) removeChild(cid FrameID) {
	for i, c := range f.children {
		if c == cid {
			copy(f.children[i:], f.children[i+1:])
			f.children = f.children[:len(f.children)-1]
			return
		}
	}
}

// checkInvariants walks every live frame and panics on a broken tree: a
// parent link that does not terminate at the root, a child whose parent
// back-reference disagrees, or a cycle. Used by tests and debug mode.
func (g *FrameGraph) checkInvariants() {
	for i := range g.frames {
		f := &g.frames[i]
		if !f.alive {
			continue
		}
		seen := map[FrameID]bool{f.id: true}
		cur := f
		for cur.parent != NoFrame {
			if seen[cur.parent] {
				panic(fmt.Sprintf("fathom: cycle through frame %d", cur.parent))
			}
			seen[cur.parent] = true
			cur = g.Frame(cur.parent)
		}
		if cur.id != g.root {
			panic(fmt.Sprintf("fathom: frame %d does not reach the root", f.id))
		}
		for _, cid := range f.children {
			if g.Frame(cid).parent != f.id {
				panic(fmt.Sprintf("fathom: child %d of frame %d has parent %d", cid, f.id, g.Frame(cid).parent))
			}
		}
	}
}
