package geom

import "math"

// antiderivative of sqrt(r^2 - x^2), with x clamped to [-r, r].
func halfDiskPrimitive(x, r float64) float64 {
	if x <= -r {
		x = -r
	} else if x >= r {
		x = r
	}
	return 0.5 * (x*math.Sqrt(r*r-x*x) + r*r*math.Asin(x/r))
}

// quadrantArea returns the area of the disk of radius r centered at the
// origin intersected with [0,a] x [0,b], for a, b >= 0.
func quadrantArea(r, a, b float64) float64 {
	if a <= 0 || b <= 0 || r <= 0 {
		return 0
	}
	if a > r {
		a = r
	}
	if b >= r {
		return halfDiskPrimitive(a, r) - halfDiskPrimitive(0, r)
	}
	// x-coordinate where the circle drops below height b.
	xb := math.Sqrt(r*r - b*b)
	if a <= xb {
		return a * b
	}
	return xb*b + halfDiskPrimitive(a, r) - halfDiskPrimitive(xb, r)
}

// signedQuadrantArea extends quadrantArea to signed corners, so that
// rectangle areas can be assembled by inclusion-exclusion.
func signedQuadrantArea(r, x, y float64) float64 {
	s := 1.0
	if x < 0 {
		x, s = -x, -s
	}
	if y < 0 {
		y, s = -y, -s
	}
	return s * quadrantArea(r, x, y)
}

// CircleRectArea returns the exact area of the intersection of the disk of
// radius r centered at the origin with the rectangle [x0,x1] x [y0,y1].
// Closed form via circular-segment decomposition; no sampling.
func CircleRectArea(r, x0, x1, y0, y1 float64) float64 {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return signedQuadrantArea(r, x1, y1) -
		signedQuadrantArea(r, x0, y1) -
		signedQuadrantArea(r, x1, y0) +
		signedQuadrantArea(r, x0, y0)
}
