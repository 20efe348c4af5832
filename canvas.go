package fathom

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// zoomAnim is an active animated zoom: a tween over the log of the cumulative
// zoom factor, applied as per-tick multiplicative steps so a long dive
// telescopes through frame transitions naturally.
type zoomAnim struct {
	tween            *gween.Tween
	prev             float32
	anchorX, anchorY float64
}

// Canvas owns the frame graph, the camera, the input queue, and the
// in-progress stroke. All mutation happens on the render/update goroutine:
// Update drains queued input events in arrival order, applies them, and
// retessellates the live stroke once; Draw composites and submits.
type Canvas struct {
	cfg        Config
	graph      *FrameGraph
	camera     *Camera
	compositor *Compositor
	monitor    thresholdMonitor

	// events is the single-producer/single-consumer crossing from the
	// input-delivery context. Enqueue never blocks; overflow drops.
	events  chan InputEvent
	dropped int

	live      *Stroke
	liveFrame FrameID
	style     StrokeStyle

	// transitions performed during the most recent Update, for diagnostics.
	transitions []AnchorTransition

	zoom *zoomAnim

	debug bool
	stats debugStats
}

// NewCanvas creates a canvas with a single root frame and a camera at zoom 1
// centered on its origin.
func NewCanvas(viewport Rect, cfg Config) *Canvas {
	cfg.validate()
	g := NewFrameGraph(cfg.ScaleToParent)
	return &Canvas{
		cfg:        cfg,
		graph:      g,
		camera:     newCamera(viewport, g.Root()),
		compositor: NewCompositor(cfg.MaxRenderDepth),
		monitor:    newThresholdMonitor(cfg),
		events:     make(chan InputEvent, cfg.QueueSize),
		liveFrame:  NoFrame,
		style:      cfg.Stroke,
	}
}

// Graph returns the canvas's frame graph.
func (cv *Canvas) Graph() *FrameGraph {
	return cv.graph
}

// Camera returns the canvas's camera.
func (cv *Canvas) Camera() *Camera {
	return cv.camera
}

// SetStrokeStyle sets the style applied to strokes begun after this call.
func (cv *Canvas) SetStrokeStyle(s StrokeStyle) {
	cv.style = s
}

// LiveStroke returns the in-progress stroke, or nil.
func (cv *Canvas) LiveStroke() *Stroke {
	return cv.live
}

// Transitions returns the frame transitions performed during the most recent
// Update. The returned slice is valid until the next Update.
func (cv *Canvas) Transitions() []AnchorTransition {
	return cv.transitions
}

// SetDebugMode enables per-tick stats logging to stderr.
func (cv *Canvas) SetDebugMode(enabled bool) {
	cv.debug = enabled
}

// --- Input queue (producer side) ---

// Enqueue adds an input event to the queue from the input-delivery context.
// Never blocks: when the queue is full the event is dropped, which under a
// stalled consumer loses input rather than stalling the producer.
func (cv *Canvas) Enqueue(ev InputEvent) {
	select {
	case cv.events <- ev:
	default:
		cv.dropped++
	}
}

// EnqueueSample queues a pointer sample.
func (cv *Canvas) EnqueueSample(s PointerSample) {
	cv.Enqueue(InputEvent{Kind: EventSample, Sample: s})
}

// --- Update tick ---

// Update drains and applies queued input, advances camera animations, and
// retessellates the in-progress stroke. dt is the tick duration in seconds.
// Must be called from the render/update goroutine only.
func (cv *Canvas) Update(dt float64) {
	var t0 time.Time
	if cv.debug {
		cv.stats = debugStats{}
		t0 = time.Now()
	}

	cv.transitions = cv.transitions[:0]
	cv.camera.update(float32(dt))
	cv.advanceZoomAnim(float32(dt))

	// Drain in arrival order. A transition triggered by one event completes
	// before the next event is interpreted: later samples are expressed
	// against whichever frame is active at that moment.
	drained := 0
drain:
	for {
		select {
		case ev := <-cv.events:
			cv.apply(ev)
			drained++
		default:
			break drain
		}
	}

	if cv.debug {
		cv.stats.drainTime = time.Since(t0)
		cv.stats.eventCount = drained
		t0 = time.Now()
	}

	// The live stroke regenerates at most once per tick regardless of how
	// many samples arrived.
	if cv.live != nil {
		cv.live.tessellate(cv.cfg.SplineSegments)
	}

	// Evict render state far from the active frame. Deferred while a stroke
	// is in progress so the owning frame cannot disappear mid-gesture.
	if len(cv.transitions) > 0 && cv.live == nil {
		cv.stats.evicted = cv.graph.EvictBeyond(cv.camera.ActiveFrame, cv.cfg.RetentionHorizon)
	}

	if cv.debug {
		cv.stats.tessellateTime = time.Since(t0)
		cv.stats.transitionCount = len(cv.transitions)
		cv.stats.frameCount = cv.graph.Len()
		cv.stats.droppedTotal = cv.dropped
	}
}

// apply dispatches one input event.
func (cv *Canvas) apply(ev InputEvent) {
	switch ev.Kind {
	case EventSample:
		cv.applySample(ev.Sample)
	case EventPan:
		cv.Pan(ev.DX, ev.DY)
	case EventZoom:
		if ev.Rotate != 0 {
			cv.RotateBy(ev.Rotate, ev.AnchorX, ev.AnchorY)
		}
		if ev.Factor != 0 && ev.Factor != 1 {
			cv.ZoomBy(ev.Factor, ev.AnchorX, ev.AnchorY)
		}
	}
}

// applySample runs the stroke state machine for one pointer sample.
func (cv *Canvas) applySample(s PointerSample) {
	switch s.Phase {
	case PhaseBegin:
		// Single active stroke: a new contact abandons any stroke already
		// in flight (its pointer tracking was necessarily interrupted).
		cv.live = newStroke(cv.style)
		cv.liveFrame = cv.camera.ActiveFrame
		cv.appendToLive(s.X, s.Y)
	case PhaseMove:
		if cv.live != nil {
			cv.appendToLive(s.X, s.Y)
		}
	case PhaseEnd:
		if cv.live == nil {
			return
		}
		// Degenerate strokes (fewer than 2 points) are dropped as a no-op.
		if cv.live.finalize() {
			cv.live.tessellate(cv.cfg.SplineSegments)
			cv.graph.Frame(cv.liveFrame).AddStroke(cv.live)
		}
		cv.live = nil
		cv.liveFrame = NoFrame
	case PhaseCancel:
		// Abandoned, not finalized: no partial-stroke geometry persists.
		cv.live = nil
		cv.liveFrame = NoFrame
	}
}

// appendToLive converts a screen point into the live stroke's owning frame
// and appends it. The owning frame can differ from the active frame if a
// camera gesture transitioned mid-stroke; the stroke stays where it started.
func (cv *Canvas) appendToLive(sx, sy float64) {
	lx, ly := cv.camera.ScreenToLocal(sx, sy)
	p := Vec2{lx, ly}
	if cv.liveFrame != cv.camera.ActiveFrame {
		p = cv.graph.ConvertPoint(cv.camera.ActiveFrame, cv.liveFrame, p)
	}
	cv.live.appendPoint(p)
}

// --- Camera gestures ---

// Pan moves the view by a screen-space delta (the finger drag vector):
// content follows the finger.
func (cv *Canvas) Pan(dx, dy float64) {
	cam := cv.camera
	ux := dx
	uy := -dy // unflip
	sin, cos := math.Sincos(-cam.Rotation)
	rx := cos*ux - sin*uy
	ry := sin*ux + cos*uy
	cam.PanX -= rx / cam.Zoom
	cam.PanY -= ry / cam.Zoom
}

// RotateBy rotates the view by angle radians about the given screen anchor.
// Rotation is orthogonal to the telescoping mechanism and never triggers a
// transition.
func (cv *Canvas) RotateBy(angle, sx, sy float64) {
	cam := cv.camera
	ax, ay := cam.ScreenToLocal(sx, sy)
	cam.Rotation += angle
	cam.PanX, cam.PanY = solveAnchorPan(cam, Vec2{ax, ay}, sx, sy)
}

// ZoomBy multiplies the camera zoom by factor, keeping the screen anchor
// (sx, sy) visually stationary. When the proposed zoom leaves the working
// interval, single-level frame transitions repeat until it lands back inside.
// The anchor math is only valid across one level at a time, so an overshoot
// is never taken as a single extrapolated jump.
func (cv *Canvas) ZoomBy(factor, sx, sy float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	cam := cv.camera
	proposed := cam.Zoom * factor

	for {
		switch cv.monitor.classify(proposed) {
		case transitionDescend:
			tr := descendStep(cv.graph, cam, proposed, sx, sy)
			cv.transitions = append(cv.transitions, tr)
		case transitionAscend:
			tr := ascendStep(cv.graph, cam, proposed, sx, sy)
			cv.transitions = append(cv.transitions, tr)
		default:
			ax, ay := cam.ScreenToLocal(sx, sy)
			cam.Zoom = proposed
			cam.PanX, cam.PanY = solveAnchorPan(cam, Vec2{ax, ay}, sx, sy)
			return
		}
		proposed = cam.Zoom
	}
}

// ZoomToward animates the camera zoom by the given cumulative factor over
// duration seconds, anchored at (sx, sy). The animation applies
// multiplicative per-tick steps, so crossing a threshold mid-flight
// telescopes into the next frame exactly as a live pinch would.
func (cv *Canvas) ZoomToward(factor float64, sx, sy float64, duration float32, easeFn ease.TweenFunc) {
	if factor <= 0 {
		return
	}
	cv.zoom = &zoomAnim{
		tween:   gween.New(0, float32(math.Log(factor)), duration, easeFn),
		anchorX: sx,
		anchorY: sy,
	}
}

// advanceZoomAnim applies one tick of the active zoom animation.
func (cv *Canvas) advanceZoomAnim(dt float32) {
	if cv.zoom == nil {
		return
	}
	val, done := cv.zoom.tween.Update(dt)
	step := math.Exp(float64(val - cv.zoom.prev))
	cv.zoom.prev = val
	cv.ZoomBy(step, cv.zoom.anchorX, cv.zoom.anchorY)
	if done {
		cv.zoom = nil
	}
}

// --- Render tick ---

// Compose emits the tick's render commands without drawing them, for callers
// that feed an external render pipeline.
func (cv *Canvas) Compose() []RenderCommand {
	return cv.compositor.Compose(cv.graph, cv.camera, cv.live, cv.liveFrame)
}

// Draw composites the visible frames and submits them to target.
func (cv *Canvas) Draw(target *ebiten.Image) {
	var t0 time.Time
	if cv.debug {
		t0 = time.Now()
	}

	cmds := cv.Compose()

	if cv.debug {
		cv.stats.composeTime = time.Since(t0)
		cv.stats.commandCount = len(cmds)
		t0 = time.Now()
	}

	cv.compositor.Submit(target, cmds)

	if cv.debug {
		cv.stats.submitTime = time.Since(t0)
		cv.debugLog()
	}
}
