package fathom

import "github.com/hajimehoshi/ebiten/v2"

// LineCap is the shape of stroke endpoints.
type LineCap uint8

const (
	CapRound  LineCap = iota // semicircular cap (default; seamless at any width)
	CapButt                  // flat cap flush with the endpoint
	CapSquare                // flat cap extended by half the stroke width
)

// LineJoin is the shape of interior stroke joints.
type LineJoin uint8

const (
	JoinRound LineJoin = iota // arc fan joint (default; seamless at any width)
	JoinBevel                 // single flattening triangle
)

// StrokeStyle bundles the rendering properties of a stroke.
type StrokeStyle struct {
	// Width is the stroke width in local units.
	Width float64
	Cap   LineCap
	Join  LineJoin
	Color Color
}

// DefaultStrokeStyle returns a 4-unit round-capped, round-joined white stroke.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{
		Width: 4.0,
		Cap:   CapRound,
		Join:  JoinRound,
		Color: ColorWhite,
	}
}

// WithWidth returns a copy of the style with the given width.
func (s StrokeStyle) WithWidth(w float64) StrokeStyle {
	s.Width = w
	return s
}

// WithColor returns a copy of the style with the given color.
func (s StrokeStyle) WithColor(c Color) StrokeStyle {
	s.Color = c
	return s
}

// Stroke is one drawn mark, owned by exactly one frame for its entire
// lifetime. Control points are in the owning frame's local space; tessellated
// vertices are relative to the stroke's own origin (its first point) so
// per-vertex magnitudes stay small and the geometry buffer survives camera
// changes unmodified.
type Stroke struct {
	points []Vec2
	origin Vec2
	style  StrokeStyle

	finalized bool
	geomDirty bool

	verts  []ebiten.Vertex
	inds   []uint16
	bounds Rect // local-space AABB including stroke width
}

// newStroke creates an empty in-progress stroke.
func newStroke(style StrokeStyle) *Stroke {
	return &Stroke{style: style, geomDirty: true}
}

// appendPoint adds a local-space control point to an in-progress stroke.
// Panics if the stroke is finalized: points are immutable after pointer-up.
func (s *Stroke) appendPoint(p Vec2) {
	if s.finalized {
		panic("fathom: appendPoint on finalized stroke")
	}
	if len(s.points) == 0 {
		s.origin = p
	}
	s.points = append(s.points, p)
	s.geomDirty = true
}

// finalize freezes the stroke's point list. Returns false for a degenerate
// stroke (fewer than 2 points), which the caller discards as a no-op.
func (s *Stroke) finalize() bool {
	if len(s.points) < 2 {
		return false
	}
	s.finalized = true
	return true
}

// Points returns the stroke's control points. The returned slice MUST NOT be
// mutated.
func (s *Stroke) Points() []Vec2 {
	return s.points
}

// Origin returns the local-space point the vertex buffer is relative to.
func (s *Stroke) Origin() Vec2 {
	return s.origin
}

// Style returns the stroke's rendering style.
func (s *Stroke) Style() StrokeStyle {
	return s.style
}

// Bounds returns the stroke's local-space AABB, valid after tessellation.
func (s *Stroke) Bounds() Rect {
	return s.bounds
}

// Geometry returns the cached vertex and index buffers. The buffers are
// reused unmodified across camera changes; only the compositor's transform
// differs. Returns nil slices if the stroke has not been tessellated.
func (s *Stroke) Geometry() ([]ebiten.Vertex, []uint16) {
	return s.verts, s.inds
}

// tessellate rebuilds the cached geometry if the point list changed since the
// last build. A finalized stroke therefore tessellates exactly once; the
// in-progress stroke is rebuilt once per render tick as points accumulate.
func (s *Stroke) tessellate(splineSegments int) {
	if !s.geomDirty {
		return
	}
	s.geomDirty = false
	s.verts, s.inds, s.bounds = buildStrokeGeometry(s.points, s.origin, s.style, splineSegments, s.verts[:0], s.inds[:0])
}
