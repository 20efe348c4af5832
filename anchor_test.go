package fathom

import "testing"

// anchorError returns how far the given local-space point has drifted, in
// screen pixels, from the screen position it was captured at.
func anchorError(cam *Camera, local Vec2, sx, sy float64) float64 {
	gx, gy := cam.LocalToScreen(local.X, local.Y)
	dx, dy := gx-sx, gy-sy
	return dx*dx + dy*dy
}

func TestSolveAnchorPanExact(t *testing.T) {
	cam := newCamera(testViewport(), 0)
	cam.Zoom = 3.2
	cam.Rotation = 0.7

	anchor := Vec2{12.5, -80}
	sx, sy := 650.0, 120.0
	cam.PanX, cam.PanY = solveAnchorPan(cam, anchor, sx, sy)

	gx, gy := cam.LocalToScreen(anchor.X, anchor.Y)
	assertNear(t, "anchor.x", gx, sx)
	assertNear(t, "anchor.y", gy, sy)
}

func TestDescendStep(t *testing.T) {
	g := newTestGraph()
	cam := newCamera(testViewport(), g.Root())

	// Zoom proposed past the upper bound of [0.5, 1000) with scale 1000.
	tr := descendStep(g, cam, 1000.5, 400, 300)

	if cam.ActiveFrame == g.Root() {
		t.Fatal("active frame did not change")
	}
	if g.Frame(cam.ActiveFrame).Parent() != tr.Source {
		t.Error("new active frame is not a child of the source")
	}
	assertNear(t, "zoom", cam.Zoom, 1.0005)
	if g.Len() != 2 {
		t.Errorf("Len = %d, want 2 (exactly one child created)", g.Len())
	}

	// The anchor's screen position is unchanged.
	if e := anchorError(cam, tr.TargetLocal, 400, 300); e > 1 {
		t.Errorf("anchor drifted %v px^2 after descend", e)
	}
}

func TestDescendStepOffCenterAnchor(t *testing.T) {
	g := newTestGraph()
	cam := newCamera(testViewport(), g.Root())
	cam.PanX = 7
	cam.PanY = -3
	cam.Rotation = 0.4

	sx, sy := 600.0, 200.0
	tr := descendStep(g, cam, 1200, sx, sy)

	// The target-local anchor is the source-local anchor re-expressed in the
	// child frame.
	conv := g.ConvertPoint(tr.Source, tr.Target, tr.SourceLocal)
	assertNear(t, "target.x", tr.TargetLocal.X, conv.X)
	assertNear(t, "target.y", tr.TargetLocal.Y, conv.Y)

	if e := anchorError(cam, tr.TargetLocal, sx, sy); e > 1 {
		t.Errorf("anchor drifted %v px^2 after off-center descend", e)
	}
}

func TestAscendStepCreatesParent(t *testing.T) {
	g := newTestGraph()
	cam := newCamera(testViewport(), g.Root())
	old := g.Root()

	tr := ascendStep(g, cam, 0.4, 250, 450)

	if cam.ActiveFrame != g.Root() || g.Root() == old {
		t.Fatal("ascend did not move into a freshly created root")
	}
	if g.Frame(old).Parent() != cam.ActiveFrame {
		t.Error("old root not adopted by the new parent")
	}
	assertNear(t, "zoom", cam.Zoom, 400)
	if e := anchorError(cam, tr.TargetLocal, 250, 450); e > 1 {
		t.Errorf("anchor drifted %v px^2 after ascend", e)
	}
}

func TestDescendThenAscendReturnsToSameFrame(t *testing.T) {
	g := newTestGraph()
	cam := newCamera(testViewport(), g.Root())

	down := descendStep(g, cam, 2000, 400, 300)
	up := ascendStep(g, cam, cam.Zoom/4000, 400, 300)

	if up.Target != down.Source {
		t.Errorf("ascend landed in %d, want the original frame %d", up.Target, down.Source)
	}
	if g.Len() != 2 {
		t.Errorf("Len = %d, want 2 (no extra frames created)", g.Len())
	}
}

func TestThresholdClassify(t *testing.T) {
	m := newThresholdMonitor(DefaultConfig())

	cases := []struct {
		zoom float64
		want transitionKind
	}{
		{1, transitionNone},
		{999.999, transitionNone},
		{1000, transitionDescend}, // interval is half-open at the top
		{5000, transitionDescend},
		{0.5, transitionNone}, // closed at the bottom
		{0.499, transitionAscend},
		{0.01, transitionAscend},
	}
	for _, c := range cases {
		if got := m.classify(c.zoom); got != c.want {
			t.Errorf("classify(%v) = %d, want %d", c.zoom, got, c.want)
		}
	}
	if !m.inRange(1) || m.inRange(1000) {
		t.Error("inRange disagrees with classify")
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		func() Config { c := DefaultConfig(); c.ScaleToParent = 1; return c }(),
		func() Config { c := DefaultConfig(); c.ZoomLow = 0; return c }(),
		func() Config { c := DefaultConfig(); c.ZoomHigh = 0.4; return c }(),
		// ZoomHigh/ScaleToParent below ZoomLow: a descend would land outside
		// the interval and loop forever.
		func() Config { c := DefaultConfig(); c.ZoomHigh = 400; return c }(),
		func() Config { c := DefaultConfig(); c.MaxRenderDepth = -1; return c }(),
	}
	for i, cfg := range bad {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("config %d did not panic", i)
				}
			}()
			cfg.validate()
		}()
	}
	DefaultConfig().validate()
}
