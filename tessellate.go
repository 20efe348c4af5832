package fathom

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxJointStep is the largest angular step of a round cap or joint arc.
const maxJointStep = math.Pi / 8

// maxStrokeVerts caps geometry growth: the index buffer is uint16, so one
// stroke cannot exceed 65535 vertices. Long strokes stop gaining geometry at
// the cap rather than wrapping indices.
const maxStrokeVerts = 65000

// catmullRom resamples the control points into a smoothed polyline with segs
// subdivisions per span, using a uniform Catmull-Rom spline with clamped
// endpoints. The curve passes through every control point. For fewer than 3
// points the input is returned unchanged.
func catmullRom(points []Vec2, segs int, buf []Vec2) []Vec2 {
	n := len(points)
	if n < 3 || segs < 2 {
		return append(buf, points...)
	}

	buf = append(buf, points[0])
	for i := 0; i < n-1; i++ {
		p0 := points[maxInt(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[minInt(i+2, n-1)]

		for j := 1; j <= segs; j++ {
			t := float64(j) / float64(segs)
			t2 := t * t
			t3 := t2 * t
			buf = append(buf, Vec2{
				X: 0.5 * (2*p1.X + (p2.X-p0.X)*t +
					(2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 +
					(3*p1.X-p0.X-3*p2.X+p3.X)*t3),
				Y: 0.5 * (2*p1.Y + (p2.Y-p0.Y)*t +
					(2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 +
					(3*p1.Y-p0.Y-3*p2.Y+p3.Y)*t3),
			})
		}
	}
	return buf
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// perpendicular returns the unit left-perpendicular of the segment from a to b,
// and false for a zero-length segment.
func perpendicular(a, b Vec2) (Vec2, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-12 {
		return Vec2{}, false
	}
	return Vec2{-dy / ln, dx / ln}, true
}

// geometryBuilder accumulates stroke triangles. Positions are emitted
// relative to the stroke origin; bounds track absolute local coordinates.
type geometryBuilder struct {
	verts  []ebiten.Vertex
	inds   []uint16
	origin Vec2
	r      float32
	g      float32
	b      float32
	a      float32

	minX, minY float64
	maxX, maxY float64
	any        bool
}

func newGeometryBuilder(origin Vec2, c Color, verts []ebiten.Vertex, inds []uint16) *geometryBuilder {
	// Premultiplied, matching what the render backend blends with.
	a := c.A
	return &geometryBuilder{
		verts: verts, inds: inds, origin: origin,
		r: float32(c.R * a), g: float32(c.G * a), b: float32(c.B * a), a: float32(a),
	}
}

// vert appends a vertex at the absolute local point p and returns its index.
// UVs address the center of the shared 1x1 white pixel.
func (gb *geometryBuilder) vert(p Vec2) uint16 {
	if !gb.any {
		gb.minX, gb.maxX = p.X, p.X
		gb.minY, gb.maxY = p.Y, p.Y
		gb.any = true
	} else {
		gb.minX = math.Min(gb.minX, p.X)
		gb.maxX = math.Max(gb.maxX, p.X)
		gb.minY = math.Min(gb.minY, p.Y)
		gb.maxY = math.Max(gb.maxY, p.Y)
	}
	gb.verts = append(gb.verts, ebiten.Vertex{
		DstX: float32(p.X - gb.origin.X),
		DstY: float32(p.Y - gb.origin.Y),
		SrcX: 0.5, SrcY: 0.5,
		ColorR: gb.r, ColorG: gb.g, ColorB: gb.b, ColorA: gb.a,
	})
	return uint16(len(gb.verts) - 1)
}

func (gb *geometryBuilder) tri(i, j, k uint16) {
	gb.inds = append(gb.inds, i, j, k)
}

func (gb *geometryBuilder) full() bool {
	return len(gb.verts) > maxStrokeVerts
}

// arcFan emits a triangle fan centered at p from angle a0 sweeping by sweep
// radians at the given radius.
func (gb *geometryBuilder) arcFan(p Vec2, radius, a0, sweep float64) {
	steps := int(math.Ceil(math.Abs(sweep) / maxJointStep))
	if steps < 1 {
		steps = 1
	}
	center := gb.vert(p)
	prev := gb.vert(Vec2{p.X + radius*math.Cos(a0), p.Y + radius*math.Sin(a0)})
	for i := 1; i <= steps; i++ {
		ang := a0 + sweep*float64(i)/float64(steps)
		cur := gb.vert(Vec2{p.X + radius*math.Cos(ang), p.Y + radius*math.Sin(ang)})
		gb.tri(center, prev, cur)
		prev = cur
	}
}

// bounds returns the accumulated absolute-coordinate AABB.
func (gb *geometryBuilder) boundsRect() Rect {
	if !gb.any {
		return Rect{X: gb.origin.X, Y: gb.origin.Y}
	}
	return Rect{X: gb.minX, Y: gb.minY, Width: gb.maxX - gb.minX, Height: gb.maxY - gb.minY}
}

// buildStrokeGeometry tessellates a stroke's control points into triangles:
// a Catmull-Rom smoothed path rendered as flat quad segments with round (or
// bevel) joints at interior vertices and round (or butt/square) end caps.
// Degenerate input (fewer than 2 distinct points) yields empty geometry.
func buildStrokeGeometry(points []Vec2, origin Vec2, style StrokeStyle, splineSegments int, verts []ebiten.Vertex, inds []uint16) ([]ebiten.Vertex, []uint16, Rect) {
	gb := newGeometryBuilder(origin, style.Color, verts, inds)
	if len(points) < 2 {
		return gb.verts, gb.inds, gb.boundsRect()
	}

	smooth := catmullRom(points, splineSegments, make([]Vec2, 0, len(points)*splineSegments))

	// Drop zero-length steps so every remaining segment has a normal.
	path := smooth[:1]
	for _, p := range smooth[1:] {
		last := path[len(path)-1]
		dx, dy := p.X-last.X, p.Y-last.Y
		if dx*dx+dy*dy > 1e-24 {
			path = append(path, p)
		}
	}
	if len(path) < 2 {
		return gb.verts, gb.inds, gb.boundsRect()
	}

	halfW := style.Width / 2

	// Flat quad per segment, each with its own perpendicular.
	var firstNormal, lastNormal Vec2
	var prevNormal Vec2
	for i := 0; i < len(path)-1 && !gb.full(); i++ {
		a, b := path[i], path[i+1]
		n, ok := perpendicular(a, b)
		if !ok {
			continue
		}
		if i == 0 {
			firstNormal = n
		}

		// Round or bevel the joint between this segment and the previous one.
		if i > 0 {
			gb.joint(a, prevNormal, n, halfW, style.Join)
		}

		al := gb.vert(Vec2{a.X + n.X*halfW, a.Y + n.Y*halfW})
		ar := gb.vert(Vec2{a.X - n.X*halfW, a.Y - n.Y*halfW})
		bl := gb.vert(Vec2{b.X + n.X*halfW, b.Y + n.Y*halfW})
		br := gb.vert(Vec2{b.X - n.X*halfW, b.Y - n.Y*halfW})
		gb.tri(al, ar, bl)
		gb.tri(ar, br, bl)

		prevNormal = n
		lastNormal = n
	}

	gb.caps(path, firstNormal, lastNormal, halfW, style.Cap)
	return gb.verts, gb.inds, gb.boundsRect()
}

// joint fills the outer wedge between two segment quads meeting at p.
// n0 and n1 are the unit normals of the incoming and outgoing segments.
func (gb *geometryBuilder) joint(p, n0, n1 Vec2, halfW float64, join LineJoin) {
	// Segment directions are the normals rotated -90°; their cross product
	// gives the turn direction. Left turn: gap on the right (-n) side.
	cross := n0.X*n1.Y - n0.Y*n1.X
	if math.Abs(cross) < 1e-12 {
		return // collinear, quads already meet
	}
	s := 1.0
	if cross > 0 {
		s = -1.0
	}
	v0 := Vec2{n0.X * s, n0.Y * s}
	v1 := Vec2{n1.X * s, n1.Y * s}

	if join == JoinBevel {
		a := gb.vert(p)
		b := gb.vert(Vec2{p.X + v0.X*halfW, p.Y + v0.Y*halfW})
		c := gb.vert(Vec2{p.X + v1.X*halfW, p.Y + v1.Y*halfW})
		gb.tri(a, b, c)
		return
	}

	a0 := math.Atan2(v0.Y, v0.X)
	a1 := math.Atan2(v1.Y, v1.X)
	sweep := normalizeAngle(a1 - a0)
	gb.arcFan(p, halfW, a0, sweep)
}

// caps closes both stroke ends according to the cap style.
func (gb *geometryBuilder) caps(path []Vec2, firstNormal, lastNormal Vec2, halfW float64, capStyle LineCap) {
	if capStyle == CapButt {
		return
	}
	start := path[0]
	end := path[len(path)-1]

	if capStyle == CapRound {
		// Semicircles sweeping through the back of each endpoint. The left
		// normal rotated +90° points against the travel direction, so a +π
		// sweep from the normal covers the outside of the start point, and
		// symmetrically for the end.
		gb.arcFan(start, halfW, math.Atan2(firstNormal.Y, firstNormal.X), math.Pi)
		gb.arcFan(end, halfW, math.Atan2(-lastNormal.Y, -lastNormal.X), math.Pi)
		return
	}

	// CapSquare: extend a half-width quad beyond each endpoint.
	gb.squareCap(start, path[1], firstNormal, halfW)
	gb.squareCap(end, path[len(path)-2], lastNormal, halfW)
}

// squareCap extends the stroke past p, away from toward, by halfW.
func (gb *geometryBuilder) squareCap(p, toward Vec2, n Vec2, halfW float64) {
	dx, dy := p.X-toward.X, p.Y-toward.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-12 {
		return
	}
	ex, ey := dx/ln*halfW, dy/ln*halfW
	a := gb.vert(Vec2{p.X + n.X*halfW, p.Y + n.Y*halfW})
	b := gb.vert(Vec2{p.X - n.X*halfW, p.Y - n.Y*halfW})
	c := gb.vert(Vec2{p.X + n.X*halfW + ex, p.Y + n.Y*halfW + ey})
	d := gb.vert(Vec2{p.X - n.X*halfW + ex, p.Y - n.Y*halfW + ey})
	gb.tri(a, b, c)
	gb.tri(b, d, c)
}

// normalizeAngle wraps an angle to (-π, π].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
