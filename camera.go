package fathom

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// glideAnim holds active glide-to tweens for camera pan X and Y.
type glideAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is the view into one frame's local space. Zoom is constrained to
// [ZoomLow, ZoomHigh) by the transition machinery: values proposed outside
// that interval swap the active frame instead of being applied here.
type Camera struct {
	// ActiveFrame is the frame whose local space the camera views and edits.
	ActiveFrame FrameID
	// PanX and PanY are the local-space point the camera centers on.
	PanX, PanY float64
	// Zoom is the scale factor in pixels per local unit.
	Zoom float64
	// Rotation is the view rotation in radians. Rotation is orthogonal to
	// the telescoping mechanism and survives frame transitions unchanged.
	Rotation float64
	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64

	// Cached parameters the matrices were computed from.
	cachedPanX, cachedPanY     float64
	cachedZoom, cachedRotation float64
	cachedViewport             Rect
	cacheValid                 bool

	glide *glideAnim
}

// newCamera creates a camera at zoom 1 centered on the frame origin.
func newCamera(viewport Rect, active FrameID) *Camera {
	return &Camera{
		ActiveFrame: active,
		Zoom:        1.0,
		Viewport:    viewport,
	}
}

// GlideTo animates the camera pan to the given local position over duration
// seconds.
func (c *Camera) GlideTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.glide = &glideAnim{
		tweenX: gween.New(float32(c.PanX), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.PanY), float32(y), duration, easeFn),
	}
}

// update advances glide tweens. Called from Canvas.Update.
func (c *Camera) update(dt float32) {
	if c.glide == nil {
		return
	}
	if !c.glide.doneX {
		val, done := c.glide.tweenX.Update(dt)
		c.PanX = float64(val)
		c.glide.doneX = done
	}
	if !c.glide.doneY {
		val, done := c.glide.tweenY.Update(dt)
		c.PanY = float64(val)
		c.glide.doneY = done
	}
	if c.glide.doneX && c.glide.doneY {
		c.glide = nil
	}
}

// sanitize clamps invalid camera state before it can reach frame math:
// non-finite pan components reset to the frame origin and non-positive or
// non-finite zoom resets to 1.
func (c *Camera) sanitize() {
	if math.IsNaN(c.PanX) || math.IsInf(c.PanX, 0) {
		c.PanX = 0
	}
	if math.IsNaN(c.PanY) || math.IsInf(c.PanY, 0) {
		c.PanY = 0
	}
	if c.Zoom <= 0 || math.IsNaN(c.Zoom) || math.IsInf(c.Zoom, 0) {
		c.Zoom = 1
	}
	if math.IsNaN(c.Rotation) || math.IsInf(c.Rotation, 0) {
		c.Rotation = 0
	}
}

// computeViewMatrix recomputes the cached local→screen matrix if any camera
// parameter changed since the last computation.
//
// Forward order: translate by -pan, rotate, scale by zoom, flip the vertical
// axis (local space is Y-up, the device is Y-down), translate to the viewport
// center:
//
//	viewMatrix = T(cx, cy) * FlipY * S(zoom) * R(rotation) * T(-PanX, -PanY)
func (c *Camera) computeViewMatrix() [6]float64 {
	if c.cacheValid &&
		c.PanX == c.cachedPanX && c.PanY == c.cachedPanY &&
		c.Zoom == c.cachedZoom && c.Rotation == c.cachedRotation &&
		c.Viewport == c.cachedViewport {
		return c.viewMatrix
	}
	c.sanitize()

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2

	sin, cos := math.Sincos(c.Rotation)
	z := c.Zoom

	// FlipY * S(z) * R(rot) collapses to:
	// [a c]   [ z*cos  -z*sin]
	// [b d] = [-z*sin  -z*cos]
	a := z * cos
	b := -z * sin
	cc := -z * sin
	d := -z * cos
	tx := cx - (a*c.PanX + cc*c.PanY)
	ty := cy - (b*c.PanX + d*c.PanY)

	c.viewMatrix = [6]float64{a, b, cc, d, tx, ty}
	c.invViewMatrix = invertAffine(c.viewMatrix)

	c.cachedPanX, c.cachedPanY = c.PanX, c.PanY
	c.cachedZoom, c.cachedRotation = c.Zoom, c.Rotation
	c.cachedViewport = c.Viewport
	c.cacheValid = true
	return c.viewMatrix
}

// LocalToScreen converts a point in the active frame's local space to screen
// coordinates.
func (c *Camera) LocalToScreen(lx, ly float64) (sx, sy float64) {
	c.computeViewMatrix()
	return transformPoint(c.viewMatrix, lx, ly)
}

// ScreenToLocal converts screen coordinates to the active frame's local
// space. This is the exact algebraic inverse of LocalToScreen: the two
// round-trip within floating-point epsilon, which keeps input-side math
// aligned with the GPU-side transform.
func (c *Camera) ScreenToLocal(sx, sy float64) (lx, ly float64) {
	c.computeViewMatrix()
	return transformPoint(c.invViewMatrix, sx, sy)
}

// VisibleBounds returns the axis-aligned bounding rect, in the active frame's
// local space, of the area the camera can see.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	inv := c.invViewMatrix

	vx := c.Viewport.X
	vy := c.Viewport.Y
	vr := vx + c.Viewport.Width
	vb := vy + c.Viewport.Height

	// Transform the four viewport corners to local space.
	x0, y0 := transformPoint(inv, vx, vy)
	x1, y1 := transformPoint(inv, vr, vy)
	x2, y2 := transformPoint(inv, vr, vb)
	x3, y3 := transformPoint(inv, vx, vb)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
