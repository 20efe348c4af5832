package fathom

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderCommand is one draw call produced by the compositor: a stroke's
// cached geometry plus the combined stroke-local→screen transform and the
// compositor layer it belongs to. Depth is the frame level relative to the
// active frame: negative for ancestors, zero for the active frame, positive
// for descendant previews. Commands are emitted back-to-front.
type RenderCommand struct {
	Transform [6]float32
	Verts     []ebiten.Vertex
	Inds      []uint16
	Depth     int
	Frame     FrameID
}

// Compositor walks the frame graph each render tick and emits draw commands
// for the active frame plus a bounded number of ancestor and descendant
// levels, each at its correct relative scale. The walk is iterative with an
// explicit queue, so worst-case cost is capped deterministically.
type Compositor struct {
	maxDepth int
	commands []RenderCommand
	queue    []frameVisit
	scratch  []ebiten.Vertex
}

type frameVisit struct {
	id    FrameID
	depth int
}

// NewCompositor creates a compositor rendering maxDepth levels in each
// direction around the active frame.
func NewCompositor(maxDepth int) *Compositor {
	return &Compositor{maxDepth: maxDepth}
}

// Compose emits the tick's render commands. live, if non-nil, is the
// in-progress stroke owned by liveFrame; it renders on top of that frame's
// finalized strokes. The returned slice is valid until the next Compose.
func (c *Compositor) Compose(g *FrameGraph, cam *Camera, live *Stroke, liveFrame FrameID) []RenderCommand {
	c.commands = c.commands[:0]

	active := cam.ActiveFrame
	view := cam.computeViewMatrix()
	visible := cam.VisibleBounds()

	// Ancestors, outermost retained level first: they render behind, larger
	// in world terms but visually compressed by the cumulative scale ratio.
	ancestors := g.AncestorsOf(active, c.maxDepth)
	for i, id := range ancestors {
		depth := i - len(ancestors)
		c.emitFrame(g, view, visible, id, active, depth, nil)
	}

	// The active frame, with the live stroke when it belongs here.
	activeLive := live
	if liveFrame != active {
		activeLive = nil
	}
	c.emitFrame(g, view, visible, active, active, 0, activeLive)

	// A live stroke stranded in a non-active frame by a mid-stroke
	// transition still renders, in its owning frame's space.
	if live != nil && liveFrame != active {
		c.emitStroke(g, view, visible, live, liveFrame, active, g.treeDistance(liveFrame, active))
	}

	// Descendant previews: bounded-depth walk of children intersecting the
	// visible window.
	c.queue = c.queue[:0]
	for _, cid := range g.Frame(active).Children() {
		c.queue = append(c.queue, frameVisit{id: cid, depth: 1})
	}
	for len(c.queue) > 0 {
		v := c.queue[0]
		c.queue = c.queue[1:]
		if v.depth > c.maxDepth {
			continue
		}
		if !c.frameVisible(g, visible, v.id, active) {
			continue
		}
		c.emitFrame(g, view, visible, v.id, active, v.depth, nil)
		for _, cid := range g.Frame(v.id).Children() {
			c.queue = append(c.queue, frameVisit{id: cid, depth: v.depth + 1})
		}
	}

	return c.commands
}

// frameVisible reports whether a frame's content footprint, mapped into the
// active frame's space, intersects the camera's visible window.
func (c *Compositor) frameVisible(g *FrameGraph, visible Rect, id, active FrameID) bool {
	b, ok := g.Frame(id).ContentBounds()
	if !ok {
		// No strokes yet; keep walking in case descendants have content.
		return true
	}
	return scaleOffsetRect(g.frameToFrame(id, active), b).Intersects(visible)
}

// emitFrame emits commands for every visible stroke of one frame.
func (c *Compositor) emitFrame(g *FrameGraph, view [6]float64, visible Rect, id, active FrameID, depth int, live *Stroke) {
	frameM := g.frameToFrame(id, active)
	combined := multiplyAffine(view, frameM)

	for _, s := range g.Frame(id).Strokes() {
		c.emitStrokeWith(combined, frameM, visible, s, id, depth)
	}
	if live != nil {
		c.emitStrokeWith(combined, frameM, visible, live, id, depth)
	}
}

// emitStroke is emitFrame for a single stroke, recomputing the frame
// transform (used for the stranded live stroke).
func (c *Compositor) emitStroke(g *FrameGraph, view [6]float64, visible Rect, s *Stroke, id, active FrameID, depth int) {
	frameM := g.frameToFrame(id, active)
	c.emitStrokeWith(multiplyAffine(view, frameM), frameM, visible, s, id, depth)
}

func (c *Compositor) emitStrokeWith(combined, frameM [6]float64, visible Rect, s *Stroke, id FrameID, depth int) {
	verts, inds := s.Geometry()
	if len(verts) == 0 || len(inds) == 0 {
		return
	}
	if !scaleOffsetRect(frameM, s.Bounds()).Intersects(visible) {
		return
	}
	o := s.Origin()
	m := multiplyAffine(combined, [6]float64{1, 0, 0, 1, o.X, o.Y})
	c.commands = append(c.commands, RenderCommand{
		Transform: affine32(m),
		Verts:     verts,
		Inds:      inds,
		Depth:     depth,
		Frame:     id,
	})
}

// scaleOffsetRect maps a rect through a scale+offset affine matrix (no
// rotation component, positive scale), which is the only form frame-to-frame
// transforms take.
func scaleOffsetRect(m [6]float64, r Rect) Rect {
	return Rect{
		X:      m[0]*r.X + m[4],
		Y:      m[3]*r.Y + m[5],
		Width:  r.Width * m[0],
		Height: r.Height * m[3],
	}
}

// --- Submission ---

// whitePixelImage backs untextured stroke geometry. No sync.Once: the render
// tick is single-threaded.
var whitePixelImage *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// Submit draws the commands to target in emission order (ancestors first,
// descendants last). Vertices are transformed on the CPU into a reused
// scratch buffer; the cached stroke geometry is never mutated.
func (c *Compositor) Submit(target *ebiten.Image, cmds []RenderCommand) {
	white := ensureWhitePixel()
	op := &ebiten.DrawTrianglesOptions{}
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true

	for i := range cmds {
		cmd := &cmds[i]
		need := len(cmd.Verts)
		if cap(c.scratch) < need {
			c.scratch = make([]ebiten.Vertex, need)
		}
		c.scratch = c.scratch[:need]
		transformCommandVerts(cmd.Verts, c.scratch, cmd.Transform)
		target.DrawTriangles(c.scratch, cmd.Inds, white, op)
	}
}

// transformCommandVerts applies an affine transform to src vertex positions,
// writing into dst. Colors and UVs pass through: color is baked at
// tessellation time.
//
//	newX = a*x + c*y + tx, newY = b*x + d*y + ty
func transformCommandVerts(src, dst []ebiten.Vertex, m [6]float32) {
	a, b, cc, d, tx, ty := m[0], m[1], m[2], m[3], m[4], m[5]
	for i := range src {
		s := &src[i]
		dst[i] = ebiten.Vertex{
			DstX:   a*s.DstX + cc*s.DstY + tx,
			DstY:   b*s.DstX + d*s.DstY + ty,
			SrcX:   s.SrcX,
			SrcY:   s.SrcY,
			ColorR: s.ColorR,
			ColorG: s.ColorG,
			ColorB: s.ColorB,
			ColorA: s.ColorA,
		}
	}
}
