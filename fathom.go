package fathom

import "time"

// Vec2 is a 2D vector used for positions, offsets, and directions throughout
// the API. Frame-local coordinates are Y-up; screen coordinates are Y-down.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Rect is an axis-aligned rectangle with origin at the top-left corner
// when interpreted in screen space.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default stroke color.
var ColorWhite = Color{1, 1, 1, 1}

// PointerPhase identifies where a pointer sample sits in a stroke gesture.
type PointerPhase uint8

const (
	PhaseBegin  PointerPhase = iota // pointer made contact; starts a stroke
	PhaseMove                       // pointer moved while down
	PhaseEnd                        // pointer lifted; finalizes the stroke
	PhaseCancel                     // tracking interrupted; abandons the stroke
)

// PointerSample is one debounced input sample from the capture layer.
// Positions are screen pixels, Y-down.
type PointerSample struct {
	X, Y  float64
	Time  time.Time
	Phase PointerPhase
}

// EventKind identifies the type of a queued input event.
type EventKind uint8

const (
	EventSample EventKind = iota // a PointerSample for stroke drawing
	EventPan                     // a screen-space pan delta
	EventZoom                    // a multiplicative zoom about an anchor
)

// InputEvent is one entry in the canvas input queue. Stroke samples and
// camera gestures share a single queue so they are applied in arrival order:
// a zoom that trips a frame transition must complete before any later sample
// in the same batch is interpreted.
type InputEvent struct {
	Kind   EventKind
	Sample PointerSample // EventSample

	// EventPan: screen-space delta.
	DX, DY float64

	// EventZoom: multiplicative zoom factor, rotation delta (radians), and
	// the screen anchor that must stay stationary (pinch centroid or cursor).
	Factor           float64
	Rotate           float64
	AnchorX, AnchorY float64
}

// Config holds the build-time constants of the telescoping frame system.
type Config struct {
	// ScaleToParent is the fixed ratio between a child frame's local unit
	// and its parent's: one parent unit spans ScaleToParent child units.
	// Identical for every frame in the tree.
	ScaleToParent float64

	// ZoomLow and ZoomHigh bound the camera's working zoom interval
	// [ZoomLow, ZoomHigh). A proposed zoom outside the interval triggers a
	// frame transition instead of being applied directly.
	ZoomLow  float64
	ZoomHigh float64

	// MaxRenderDepth is how many ancestor and descendant frame levels the
	// compositor renders around the active frame.
	MaxRenderDepth int

	// RetentionHorizon is the tree distance (in levels) from the active
	// frame beyond which strokeless render state may be evicted.
	RetentionHorizon int

	// SplineSegments is the number of sampled segments per Catmull-Rom
	// span when tessellating a stroke.
	SplineSegments int

	// QueueSize is the capacity of the pointer-sample queue. Samples
	// arriving while the queue is full are dropped.
	QueueSize int

	// Stroke is the default style applied to new strokes.
	Stroke StrokeStyle
}

// DefaultConfig returns the standard configuration: frame scale 1000, zoom
// interval [0.5, 1000), two composited levels each direction.
func DefaultConfig() Config {
	return Config{
		ScaleToParent:    1000,
		ZoomLow:          0.5,
		ZoomHigh:         1000,
		MaxRenderDepth:   2,
		RetentionHorizon: 3,
		SplineSegments:   8,
		QueueSize:        512,
		Stroke:           DefaultStrokeStyle(),
	}
}

// validate panics on configurations that break the telescoping arithmetic.
// A single downward transition divides the zoom by ScaleToParent; if that
// lands below ZoomLow the transition loop cannot terminate.
func (c Config) validate() {
	if c.ScaleToParent <= 1 {
		panic("fathom: ScaleToParent must be greater than 1")
	}
	if c.ZoomLow <= 0 || c.ZoomHigh <= c.ZoomLow {
		panic("fathom: zoom interval must satisfy 0 < ZoomLow < ZoomHigh")
	}
	if c.ZoomHigh/c.ScaleToParent < c.ZoomLow {
		panic("fathom: ZoomHigh/ScaleToParent must not fall below ZoomLow")
	}
	if c.MaxRenderDepth < 0 || c.RetentionHorizon < 0 {
		panic("fathom: render depth and retention horizon must be non-negative")
	}
}
