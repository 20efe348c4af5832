package fathom

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// --- multiplyAffine ---

func TestMultiplyAffineIdentity(t *testing.T) {
	id := identityTransform
	m := [6]float64{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", multiplyAffine(id, m), m)
	assertMatrix(t, "m*id", multiplyAffine(m, id), m)
}

func TestMultiplyAffineTranslations(t *testing.T) {
	a := [6]float64{1, 0, 0, 1, 10, 20}
	b := [6]float64{1, 0, 0, 1, 5, 3}
	got := multiplyAffine(a, b)
	assertMatrix(t, "translations", got, [6]float64{1, 0, 0, 1, 15, 23})
}

func TestMultiplyAffineScaleThenTranslate(t *testing.T) {
	// parent scales by 2, child translates by (5,3): a point translates first,
	// then scales → net offset (10,6).
	scale := [6]float64{2, 0, 0, 2, 0, 0}
	trans := [6]float64{1, 0, 0, 1, 5, 3}
	got := multiplyAffine(scale, trans)
	assertMatrix(t, "scale*trans", got, [6]float64{2, 0, 0, 2, 10, 6})
}

// --- invertAffine ---

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0, 0, 3, 10, 20}
	inv := invertAffine(m)
	assertMatrix(t, "m*inv=id", multiplyAffine(m, inv), identityTransform)
}

func TestInvertAffineRotation(t *testing.T) {
	sin, cos := math.Sincos(math.Pi / 3)
	m := [6]float64{2 * cos, 2 * sin, -2 * sin, 2 * cos, 7, -4}
	inv := invertAffine(m)
	assertMatrix(t, "m*inv=id", multiplyAffine(m, inv), identityTransform)
}

func TestInvertAffineSingularReturnsIdentity(t *testing.T) {
	m := [6]float64{0, 0, 0, 1, 10, 20}
	assertMatrix(t, "singular→identity", invertAffine(m), identityTransform)
}

// --- transformPoint ---

func TestTransformPoint(t *testing.T) {
	m := [6]float64{2, 0, 0, 3, 10, 20}
	x, y := transformPoint(m, 1, 1)
	assertNear(t, "x", x, 12)
	assertNear(t, "y", y, 23)
}

func TestTransformPointRoundtrip(t *testing.T) {
	m := [6]float64{1.5, 0.2, -0.2, 1.5, 42, -17}
	inv := invertAffine(m)
	x, y := transformPoint(m, 123, -456)
	bx, by := transformPoint(inv, x, y)
	assertNear(t, "roundtrip.x", bx, 123)
	assertNear(t, "roundtrip.y", by, -456)
}

// --- scaleOffsetAffine ---

func TestScaleOffsetAffine(t *testing.T) {
	m := scaleOffsetAffine(1000, 3, -7)
	x, y := transformPoint(m, 0.001, 0.002)
	assertNear(t, "x", x, 4)
	assertNear(t, "y", y, -5)
}

func TestScaleOffsetUpDownInverse(t *testing.T) {
	// One level up then one level down is the identity: the same origin and
	// scale drive both directions of a frame relation.
	const s = 1000.0
	o := Vec2{12.5, -3.25}
	up := scaleOffsetAffine(1/s, o.X, o.Y)
	down := scaleOffsetAffine(s, -o.X*s, -o.Y*s)
	assertMatrix(t, "down*up", multiplyAffine(down, up), identityTransform)
	assertMatrix(t, "up*down", multiplyAffine(up, down), identityTransform)
}

// --- Benchmarks ---

func BenchmarkMultiplyAffine(b *testing.B) {
	a := [6]float64{2, 0.1, 0.3, 3, 100, 200}
	c := [6]float64{1.5, 0.2, 0.1, 2.5, 50, 30}
	b.ReportAllocs()
	for b.Loop() {
		_ = multiplyAffine(a, c)
	}
}

func BenchmarkInvertAffine(b *testing.B) {
	m := [6]float64{1.8, 0.4, -0.4, 1.8, 320, 240}
	b.ReportAllocs()
	for b.Loop() {
		_ = invertAffine(m)
	}
}
