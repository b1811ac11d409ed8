package geo

// Cohen-Sutherland outcodes.
const (
	inside = 0
	left   = 1 << 0
	right  = 1 << 1
	bottom = 1 << 2
	top    = 1 << 3
)

func outcode(p TilePoint) int {
	code := inside
	switch {
	case p.X < ClipMin:
		code |= left
	case p.X > ClipMax:
		code |= right
	}
	switch {
	case p.Y < ClipMin:
		code |= bottom
	case p.Y > ClipMax:
		code |= top
	}
	return code
}

// ClipLine clips the segment a-b against the buffered tile box using
// Cohen-Sutherland. Rounding to int32 grid coordinates must happen
// before this call so that output is bit-identical across calls.
// Returns an empty TileLine if the segment lies fully outside, or if
// the clipped result collapses to a single point.
func ClipLine(a, b TilePoint) TileLine {
	x0, y0 := float64(a.X), float64(a.Y)
	x1, y1 := float64(b.X), float64(b.Y)
	oc0 := outcode(TilePoint{X: int32(x0), Y: int32(y0)})
	oc1 := outcode(TilePoint{X: int32(x1), Y: int32(y1)})

	for {
		if oc0|oc1 == 0 {
			// Both endpoints inside.
			break
		}
		if oc0&oc1 != 0 {
			// Share an outside region: trivially rejected.
			return nil
		}

		out := oc0
		if out == 0 {
			out = oc1
		}

		var x, y float64
		switch {
		case out&top != 0:
			x = x0 + (x1-x0)*(ClipMax-y0)/(y1-y0)
			y = ClipMax
		case out&bottom != 0:
			x = x0 + (x1-x0)*(ClipMin-y0)/(y1-y0)
			y = ClipMin
		case out&right != 0:
			y = y0 + (y1-y0)*(ClipMax-x0)/(x1-x0)
			x = ClipMax
		case out&left != 0:
			y = y0 + (y1-y0)*(ClipMin-x0)/(x1-x0)
			x = ClipMin
		}

		if out == oc0 {
			x0, y0 = x, y
			oc0 = outcode(TilePoint{X: int32(x0), Y: int32(y0)})
		} else {
			x1, y1 = x, y
			oc1 = outcode(TilePoint{X: int32(x1), Y: int32(y1)})
		}
	}

	p0 := TilePoint{X: int32(round(x0)), Y: int32(round(y0))}
	p1 := TilePoint{X: int32(round(x1)), Y: int32(round(y1))}
	if p0 == p1 {
		return nil
	}
	return TileLine{p0, p1}
}

// PointInClipBox is an inclusive bounds test against the buffered tile
// box; collinear/boundary points count as inside.
func PointInClipBox(p TilePoint) bool {
	return p.X >= ClipMin && p.X <= ClipMax && p.Y >= ClipMin && p.Y <= ClipMax
}
