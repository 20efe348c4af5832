package fathom

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// wheelZoomBase is the zoom factor applied per mouse wheel notch.
const wheelZoomBase = 1.1

// pinchState tracks an in-flight two-finger gesture.
type pinchState struct {
	active    bool
	prevDist  float64
	prevAngle float64
	prevCX    float64
	prevCY    float64
}

// Pointer adapts ebiten mouse and touch state into canvas input events: the
// left button or a single touch draws, the right button drags the view, the
// wheel zooms about the cursor, and a two-finger pinch pans, zooms, and
// rotates about its centroid. A second finger landing mid-stroke cancels the
// stroke, mirroring a system gesture takeover.
//
// Pointer runs on the same goroutine as Canvas.Update in an ebiten game, but
// it still feeds the canvas through the queue so event ordering is identical
// to an external high-frequency input source.
type Pointer struct {
	canvas *Canvas

	drawing   bool
	panning   bool
	lastPanX  float64
	lastPanY  float64
	touchDraw ebiten.TouchID
	touchIDs  []ebiten.TouchID
	pinch     pinchState
}

// NewPointer creates an input adapter feeding the given canvas.
func NewPointer(cv *Canvas) *Pointer {
	return &Pointer{canvas: cv, touchDraw: -1}
}

// Update reads the current input state and enqueues events. Call once per
// tick, before Canvas.Update.
func (p *Pointer) Update() {
	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])

	if len(p.touchIDs) >= 2 {
		p.updatePinch()
		return
	}
	p.pinch.active = false

	if len(p.touchIDs) == 1 {
		p.updateTouchDraw(p.touchIDs[0])
		return
	}
	p.endTouchDraw()

	p.updateMouse()
}

func (p *Pointer) sample(x, y float64, phase PointerPhase) {
	p.canvas.EnqueueSample(PointerSample{X: x, Y: y, Time: time.Now(), Phase: phase})
}

// --- Mouse ---

func (p *Pointer) updateMouse() {
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)

	// Left button draws.
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case left && !p.drawing:
		p.drawing = true
		p.sample(sx, sy, PhaseBegin)
	case left && p.drawing:
		p.sample(sx, sy, PhaseMove)
	case !left && p.drawing:
		p.drawing = false
		p.sample(sx, sy, PhaseEnd)
	}

	// Right button drags the view.
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	switch {
	case right && !p.panning:
		p.panning = true
		p.lastPanX, p.lastPanY = sx, sy
	case right && p.panning:
		if sx != p.lastPanX || sy != p.lastPanY {
			p.canvas.Enqueue(InputEvent{Kind: EventPan, DX: sx - p.lastPanX, DY: sy - p.lastPanY})
			p.lastPanX, p.lastPanY = sx, sy
		}
	case !right:
		p.panning = false
	}

	// Wheel zooms about the cursor.
	if _, wy := ebiten.Wheel(); wy != 0 {
		p.canvas.Enqueue(InputEvent{
			Kind:    EventZoom,
			Factor:  math.Pow(wheelZoomBase, wy),
			AnchorX: sx,
			AnchorY: sy,
		})
	}
}

// --- Single-finger drawing ---

func (p *Pointer) updateTouchDraw(id ebiten.TouchID) {
	tx, ty := ebiten.TouchPosition(id)
	sx, sy := float64(tx), float64(ty)
	if p.touchDraw != id {
		p.endTouchDraw()
		p.touchDraw = id
		p.sample(sx, sy, PhaseBegin)
		return
	}
	p.sample(sx, sy, PhaseMove)
}

func (p *Pointer) endTouchDraw() {
	if p.touchDraw < 0 {
		return
	}
	// The position of a lifted touch is gone; the canvas finalizes from the
	// points it already has, so the sample coordinates are irrelevant.
	p.sample(0, 0, PhaseEnd)
	p.touchDraw = -1
}

// --- Pinch ---

func (p *Pointer) updatePinch() {
	// A pinch takes over from any single-finger stroke in progress.
	if p.touchDraw >= 0 {
		p.sample(0, 0, PhaseCancel)
		p.touchDraw = -1
	}
	if p.drawing {
		p.drawing = false
		p.sample(0, 0, PhaseCancel)
	}

	x0, y0 := ebiten.TouchPosition(p.touchIDs[0])
	x1, y1 := ebiten.TouchPosition(p.touchIDs[1])
	cx := float64(x0+x1) / 2
	cy := float64(y0+y1) / 2
	dx := float64(x1 - x0)
	dy := float64(y1 - y0)
	dist := math.Sqrt(dx*dx + dy*dy)
	angle := math.Atan2(dy, dx)

	if !p.pinch.active {
		p.pinch = pinchState{active: true, prevDist: dist, prevAngle: angle, prevCX: cx, prevCY: cy}
		return
	}

	if cx != p.pinch.prevCX || cy != p.pinch.prevCY {
		p.canvas.Enqueue(InputEvent{Kind: EventPan, DX: cx - p.pinch.prevCX, DY: cy - p.pinch.prevCY})
	}

	factor := 1.0
	if p.pinch.prevDist > 0 {
		factor = dist / p.pinch.prevDist
	}
	rot := angle - p.pinch.prevAngle
	if factor != 1.0 || rot != 0 {
		p.canvas.Enqueue(InputEvent{
			Kind:    EventZoom,
			Factor:  factor,
			Rotate:  rot,
			AnchorX: cx,
			AnchorY: cy,
		})
	}

	p.pinch.prevDist = dist
	p.pinch.prevAngle = angle
	p.pinch.prevCX = cx
	p.pinch.prevCY = cy
}
