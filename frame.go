package fathom

// FrameID is an index into the FrameGraph arena. Parent references are held
// as IDs rather than pointers so that evicting a subtree can never dangle a
// live ancestor reference.
type FrameID int32

// NoFrame is the nil FrameID. The topmost frame's parent is NoFrame until a
// zoom-out transition lazily creates a level above it.
const NoFrame FrameID = -1

// Frame is one node of the telescoping coordinate tree: a self-contained
// local coordinate system holding the strokes drawn at its depth. Every frame
// relates to its parent by the single global ScaleToParent ratio, so local
// coordinate magnitudes stay bounded no matter how deep the tree grows.
type Frame struct {
	id     FrameID
	parent FrameID

	// originInParent is where this frame's local origin sits, expressed in
	// the parent's local coordinates. Undefined while parent == NoFrame.
	originInParent Vec2

	children []FrameID
	strokes  []*Stroke

	// Cached union of stroke bounds in local space, used by the compositor
	// for frame-level culling.
	bounds      Rect
	boundsDirty bool

	alive bool // false for free-listed arena slots
}

// ID returns the frame's arena index.
func (f *Frame) ID() FrameID {
	return f.id
}

// Parent returns the owning frame's ID, or NoFrame for the topmost frame.
func (f *Frame) Parent() FrameID {
	return f.parent
}

// OriginInParent returns this frame's origin in parent-local coordinates.
func (f *Frame) OriginInParent() Vec2 {
	return f.originInParent
}

// Children returns the child ID list. The returned slice MUST NOT be mutated.
func (f *Frame) Children() []FrameID {
	return f.children
}

// Strokes returns the frame's strokes in draw order. The returned slice MUST
// NOT be mutated.
func (f *Frame) Strokes() []*Stroke {
	return f.strokes
}

// AddStroke appends a finalized stroke to the frame. A stroke is owned by
// exactly one frame for its entire lifetime.
func (f *Frame) AddStroke(s *Stroke) {
	f.strokes = append(f.strokes, s)
	f.boundsDirty = true
}

// ContentBounds returns the local-space AABB covering all stroke geometry in
// this frame, recomputing the cached union if a stroke was added. Returns a
// zero Rect and false when the frame holds no geometry.
func (f *Frame) ContentBounds() (Rect, bool) {
	if f.boundsDirty {
		f.recomputeBounds()
	}
	if len(f.strokes) == 0 {
		return Rect{}, false
	}
	return f.bounds, true
}

func (f *Frame) recomputeBounds() {
	f.boundsDirty = false
	if len(f.strokes) == 0 {
		f.bounds = Rect{}
		return
	}
	b := f.strokes[0].Bounds()
	for _, s := range f.strokes[1:] {
		b = unionRect(b, s.Bounds())
	}
	f.bounds = b
}

// unionRect returns the smallest rect containing both a and b.
func unionRect(a, b Rect) Rect {
	minX := a.X
	if b.X < minX {
		minX = b.X
	}
	minY := a.Y
	if b.Y < minY {
		minY = b.Y
	}
	maxX := a.X + a.Width
	if b.X+b.Width > maxX {
		maxX = b.X + b.Width
	}
	maxY := a.Y + a.Height
	if b.Y+b.Height > maxY {
		maxY = b.Y + b.Height
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
