package fathom

import "math"

// AnchorTransition records one frame switch: the screen point that must not
// move, the frames involved, and the anchor's coordinates in both local
// spaces. Ephemeral; produced for diagnostics and tests.
type AnchorTransition struct {
	ScreenX, ScreenY float64
	Source, Target   FrameID
	SourceLocal      Vec2
	TargetLocal      Vec2
}

// solveAnchorPan returns the camera pan that places anchorLocal exactly at
// the screen point (sx, sy), holding the camera's zoom and rotation fixed.
// This is the closed-form inverse of the view transform solved for pan:
//
//	pan = anchor - (1/zoom) * R⁻¹ * F⁻¹ * (screen - center)
func solveAnchorPan(cam *Camera, anchorLocal Vec2, sx, sy float64) (panX, panY float64) {
	cx := cam.Viewport.X + cam.Viewport.Width/2
	cy := cam.Viewport.Y + cam.Viewport.Height/2

	ux := sx - cx
	uy := -(sy - cy) // unflip

	sin, cos := math.Sincos(-cam.Rotation) // un-rotate
	rx := cos*ux - sin*uy
	ry := sin*ux + cos*uy

	return anchorLocal.X - rx/cam.Zoom, anchorLocal.Y - ry/cam.Zoom // un-zoom
}

// descendStep performs one zoom-in transition: the active frame becomes the
// child under the anchor, the zoom scalar divides by ScaleToParent, and the
// pan is solved so the anchor's screen position does not change. proposedZoom
// is the zoom that tripped the threshold, expressed in source-frame units.
func descendStep(g *FrameGraph, cam *Camera, proposedZoom, sx, sy float64) AnchorTransition {
	src := cam.ActiveFrame
	ax, ay := cam.ScreenToLocal(sx, sy)
	srcLocal := Vec2{ax, ay}

	child := g.GetOrCreateChild(src, srcLocal)
	o := g.Frame(child).OriginInParent()
	s := g.ScaleToParent()
	dstLocal := Vec2{(ax - o.X) * s, (ay - o.Y) * s}

	cam.ActiveFrame = child
	cam.Zoom = proposedZoom / s
	cam.PanX, cam.PanY = solveAnchorPan(cam, dstLocal, sx, sy)

	return AnchorTransition{
		ScreenX: sx, ScreenY: sy,
		Source: src, Target: child,
		SourceLocal: srcLocal, TargetLocal: dstLocal,
	}
}

// ascendStep performs one zoom-out transition into the parent frame,
// multiplying the zoom scalar by ScaleToParent and solving the pan for the
// same screen anchor. The parent is created lazily above the current root.
func ascendStep(g *FrameGraph, cam *Camera, proposedZoom, sx, sy float64) AnchorTransition {
	src := cam.ActiveFrame
	ax, ay := cam.ScreenToLocal(sx, sy)
	srcLocal := Vec2{ax, ay}

	parent := g.GetOrCreateParent(src)
	o := g.Frame(src).OriginInParent()
	s := g.ScaleToParent()
	dstLocal := Vec2{o.X + ax/s, o.Y + ay/s}

	cam.ActiveFrame = parent
	cam.Zoom = proposedZoom * s
	cam.PanX, cam.PanY = solveAnchorPan(cam, dstLocal, sx, sy)

	return AnchorTransition{
		ScreenX: sx, ScreenY: sy,
		Source: src, Target: parent,
		SourceLocal: srcLocal, TargetLocal: dstLocal,
	}
}
