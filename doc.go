// Package fathom is an infinite-canvas drawing surface for [Ebitengine],
// built on telescoping reference frames.
//
// Instead of one global coordinate space that loses float precision at deep
// zoom, fathom keeps a graph of nested frames. Each frame is a self-contained
// drawing space; a child frame sits at a fixed origin inside its parent and is
// a fixed scale factor smaller. The camera always operates inside exactly one
// frame, with its zoom confined to a working interval. Zooming past either
// bound hands the camera off to a child or parent frame, keeping the point
// under the cursor visually fixed, so the user can dive (or pull back)
// indefinitely while every coordinate the system touches stays moderate.
//
// # Quick start
//
// Implement [ebiten.Game] yourself and drive a [Canvas] with a [Pointer]:
//
//	type Game struct {
//		canvas  *fathom.Canvas
//		pointer *fathom.Pointer
//	}
//
//	func (g *Game) Update() error {
//		g.pointer.Update()
//		g.canvas.Update(1.0 / float64(ebiten.TPS()))
//		return nil
//	}
//	func (g *Game) Draw(s *ebiten.Image)       { g.canvas.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
//	canvas := fathom.NewCanvas(fathom.Rect{Width: 800, Height: 600}, fathom.DefaultConfig())
//	pointer := fathom.NewPointer(canvas)
//
// # Input
//
// Input arrives through a buffered single-producer queue ([Canvas.Enqueue],
// [Canvas.EnqueueSample]) and is drained in arrival order by [Canvas.Update],
// so samples delivered at pointer rate interleave correctly with pan and zoom
// gestures even when a gesture changes the active frame mid-batch. [Pointer]
// is a ready-made adapter from ebiten mouse and touch state.
//
// Strokes are captured as pointer samples, smoothed with a Catmull-Rom spline,
// and tessellated once into triangle geometry in their owning frame's
// coordinates. The cached geometry is transformed per tick, never rebuilt, so
// zooming is cheap and deterministic.
//
// # Rendering
//
// [Canvas.Draw] composites the active frame plus a bounded number of ancestor
// and descendant levels, each at its correct relative scale, and submits the
// triangles to an [ebiten.Image]. [Canvas.Compose] exposes the raw
// [RenderCommand] list for callers with their own pipeline.
//
// Camera animation (glide and animated zoom) uses [gween] tweens;
// [Canvas.ZoomToward] telescopes through frame transitions mid-flight exactly
// as a live pinch would.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package fathom
