package umbra

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind selects the signed distance function used for an Occluder.
// The numeric values are part of the kernel parameter layout.
type ShapeKind int32

const (
	ShapeCircle    ShapeKind = iota // disk of Radius
	ShapeRectangle                  // filled box, half-extents (Width, Height)
	ShapeCapsule                    // segment (0,0)-(0,Height), end radii Radius and Width
	ShapeEllipse                    // semi-axes (Width, Height)
	ShapeSpotLight                  // three-sided Width x Height box, open on the -Y side
	ShapeSegment                    // segment (0,0)-(Width, Height)
	ShapeTrapezoid                  // half-widths Width (-Y) and Radius (+Y), half-height Height
	ShapeEmptyBox                   // hollow Width x Height outline
)

var shapeNames = [...]string{
	ShapeCircle:    "circle",
	ShapeRectangle: "rectangle",
	ShapeCapsule:   "capsule",
	ShapeEllipse:   "ellipse",
	ShapeSpotLight: "spotlight",
	ShapeSegment:   "segment",
	ShapeTrapezoid: "trapezoid",
	ShapeEmptyBox:  "emptybox",
}

func (k ShapeKind) String() string {
	if k >= 0 && int(k) < len(shapeNames) {
		return shapeNames[k]
	}
	return fmt.Sprintf("ShapeKind(%d)", int32(k))
}

// Valid reports whether k names a supported shape.
func (k ShapeKind) Valid() bool {
	return k >= ShapeCircle && k <= ShapeEmptyBox
}

// ellipseCircularEps is the relative |a²-b²| below which an ellipse is
// evaluated as a circle; the closed-form solve divides by a²-b².
const ellipseCircularEps = 1e-3

// SignedDistance returns the signed distance from local to the surface of the
// given shape. local is the query point in the occluder's frame (translation
// and rotation already removed). Negative values are inside filled shapes.
// Unknown kinds report +Inf so they never occlude.
func SignedDistance(kind ShapeKind, local, size mgl64.Vec2, radius float64) float64 {
	switch kind {
	case ShapeCircle:
		return sdCircle(local, radius)
	case ShapeRectangle:
		return sdBox(local, size)
	case ShapeCapsule:
		r2 := size.X()
		if r2 == 0 {
			r2 = radius
		}
		return sdCapsule(local, radius, r2, size.Y())
	case ShapeEllipse:
		return sdEllipse(local, size)
	case ShapeSpotLight:
		return sdSpotLight(local, size)
	case ShapeSegment:
		return sdSegment(local, mgl64.Vec2{}, size)
	case ShapeTrapezoid:
		return sdTrapezoid(local, size.X(), radius, size.Y())
	case ShapeEmptyBox:
		return sdEmptyBox(local, size)
	}
	return math.Inf(1)
}

func sdCircle(p mgl64.Vec2, r float64) float64 {
	return p.Len() - r
}

func sdBox(p, b mgl64.Vec2) float64 {
	dx := math.Abs(p.X()) - math.Abs(b.X())
	dy := math.Abs(p.Y()) - math.Abs(b.Y())
	outside := math.Hypot(math.Max(dx, 0), math.Max(dy, 0))
	return outside + math.Min(math.Max(dx, dy), 0)
}

// sdCapsule is a segment from the origin to (0, h) with radius r1 at the
// origin and r2 at the far end.
func sdCapsule(p mgl64.Vec2, r1, r2, h float64) float64 {
	if h <= 0 {
		return p.Len() - math.Max(r1, r2)
	}
	b := (r1 - r2) / h
	if math.Abs(b) >= 1 {
		// One end disk swallows the other.
		return math.Min(p.Len()-r1, p.Sub(mgl64.Vec2{0, h}).Len()-r2)
	}
	a := math.Sqrt(1 - b*b)
	q := mgl64.Vec2{math.Abs(p.X()), p.Y()}
	k := q.Dot(mgl64.Vec2{-b, a})
	if k < 0 {
		return q.Len() - r1
	}
	if k > a*h {
		return q.Sub(mgl64.Vec2{0, h}).Len() - r2
	}
	return q.Dot(mgl64.Vec2{a, b}) - r1
}

func sdSegment(p, a, b mgl64.Vec2) float64 {
	pa := p.Sub(a)
	ba := b.Sub(a)
	l2 := ba.Dot(ba)
	if l2 == 0 {
		return pa.Len()
	}
	h := mgl64.Clamp(pa.Dot(ba)/l2, 0, 1)
	return pa.Sub(ba.Mul(h)).Len()
}

// sdSpotLight is the union of the left, right and +Y edges of a size.X by
// size.Y box centred on the origin.
func sdSpotLight(p, size mgl64.Vec2) float64 {
	hx, hy := size.X()*0.5, size.Y()*0.5
	bl := mgl64.Vec2{-hx, -hy}
	br := mgl64.Vec2{hx, -hy}
	tl := mgl64.Vec2{-hx, hy}
	tr := mgl64.Vec2{hx, hy}
	d := math.Min(sdSegment(p, bl, tl), sdSegment(p, br, tr))
	return math.Min(d, sdSegment(p, tl, tr))
}

func sdEmptyBox(p, size mgl64.Vec2) float64 {
	hx, hy := size.X()*0.5, size.Y()*0.5
	bl := mgl64.Vec2{-hx, -hy}
	br := mgl64.Vec2{hx, -hy}
	tl := mgl64.Vec2{-hx, hy}
	tr := mgl64.Vec2{hx, hy}
	d := math.Min(sdSegment(p, bl, tl), sdSegment(p, br, tr))
	d = math.Min(d, sdSegment(p, bl, br))
	return math.Min(d, sdSegment(p, tl, tr))
}

// sdTrapezoid is an isosceles trapezoid with half-width r1 on the -Y edge,
// r2 on the +Y edge and half-height he.
func sdTrapezoid(p mgl64.Vec2, r1, r2, he float64) float64 {
	k1 := mgl64.Vec2{r2, he}
	k2 := mgl64.Vec2{r2 - r1, 2 * he}
	q := mgl64.Vec2{math.Abs(p.X()), p.Y()}
	w := r2
	if q.Y() < 0 {
		w = r1
	}
	ca := mgl64.Vec2{q.X() - math.Min(q.X(), w), math.Abs(q.Y()) - he}
	t := 0.0
	if l2 := k2.Dot(k2); l2 > 0 {
		t = mgl64.Clamp(k1.Sub(q).Dot(k2)/l2, 0, 1)
	}
	cb := q.Sub(k1).Add(k2.Mul(t))
	s := 1.0
	if cb.X() < 0 && ca.Y() < 0 {
		s = -1
	}
	return s * math.Sqrt(math.Min(ca.Dot(ca), cb.Dot(cb)))
}

// sdEllipse solves the closest-point cubic in closed form. Axis-degenerate
// and near-circular ellipses take exact or conservative shortcuts instead of
// dividing by a²-b².
func sdEllipse(p, ab mgl64.Vec2) float64 {
	a, b := math.Abs(ab.X()), math.Abs(ab.Y())
	switch {
	case a == 0 && b == 0:
		return p.Len()
	case a == 0:
		return sdSegment(p, mgl64.Vec2{0, -b}, mgl64.Vec2{0, b})
	case b == 0:
		return sdSegment(p, mgl64.Vec2{-a, 0}, mgl64.Vec2{a, 0})
	}
	big := math.Max(a, b)
	if math.Abs(a*a-b*b) < ellipseCircularEps*big*big {
		return p.Len() - big
	}

	px, py := math.Abs(p.X()), math.Abs(p.Y())
	if px > py {
		px, py = py, px
		a, b = b, a
	}
	l := b*b - a*a
	m := a * px / l
	m2 := m * m
	n := b * py / l
	n2 := n * n
	c := (m2 + n2 - 1) / 3
	c3 := c * c * c
	q := c3 + m2*n2*2
	d := c3 + m2*n2
	g := m + m*n2

	var co float64
	if d < 0 {
		h := math.Acos(mgl64.Clamp(q/c3, -1, 1)) / 3
		s := math.Cos(h)
		t := math.Sin(h) * math.Sqrt(3)
		rx := math.Sqrt(math.Max(-c*(s+t+2)+m2, 0))
		ry := math.Sqrt(math.Max(-c*(s-t+2)+m2, 0))
		co = ry + math.Copysign(rx, l) - m
		if rr := rx * ry; rr > 0 {
			co += math.Abs(g) / rr
		}
		co /= 2
	} else {
		h := 2 * m * n * math.Sqrt(d)
		s := math.Cbrt(q + h)
		u := math.Cbrt(q - h)
		rx := -s - u - c*4 + 2*m2
		ry := (s - u) * math.Sqrt(3)
		rm := math.Hypot(rx, ry)
		if den := math.Sqrt(rm - rx); den > 0 && rm > 0 {
			co = (ry/den + 2*g/rm - m) / 2
		}
	}
	co = mgl64.Clamp(co, 0, 1)

	cx := a * co
	cy := b * math.Sqrt(1-co*co)
	dist := math.Hypot(cx-px, cy-py)
	if math.IsNaN(dist) {
		return p.Len() - big
	}
	if py < cy {
		return -dist
	}
	return dist
}

// MaxExtent returns the largest distance from the occluder's origin to any
// point of its shape. Used for fast-reject bounds.
func (o Occluder) MaxExtent() float64 {
	w, h, r := math.Abs(o.Width), math.Abs(o.Height), math.Abs(o.Radius)
	switch o.Shape {
	case ShapeCircle:
		return r
	case ShapeRectangle, ShapeSegment:
		return math.Hypot(w, h)
	case ShapeCapsule:
		r2 := w
		if r2 == 0 {
			r2 = r
		}
		return math.Max(r, h+r2)
	case ShapeEllipse:
		return math.Max(w, h)
	case ShapeSpotLight, ShapeEmptyBox:
		return math.Hypot(w, h) / 2
	case ShapeTrapezoid:
		return math.Hypot(math.Max(w, r), h)
	}
	return 0
}
