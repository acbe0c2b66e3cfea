package render

import "math"

// toWorld maps a point in the command's local frame (origin at the anchor,
// unscaled and unrotated) to world coordinates.
func (c DrawCmd) toWorld(lx, ly float32) (float32, float32) {
	lx *= c.ScaleX
	ly *= c.ScaleY
	sin, cos := math.Sincos(float64(c.Rotation))
	s, co := float32(sin), float32(cos)
	return c.X + lx*co - ly*s, c.Y + lx*s + ly*co
}

// toLocal is the inverse of toWorld. A zero scale maps everything to the anchor.
func (c DrawCmd) toLocal(wx, wy float32) (float32, float32, bool) {
	if c.ScaleX == 0 || c.ScaleY == 0 {
		return 0, 0, false
	}
	dx, dy := wx-c.X, wy-c.Y
	sin, cos := math.Sincos(float64(-c.Rotation))
	s, co := float32(sin), float32(cos)
	lx := dx*co - dy*s
	ly := dx*s + dy*co
	return lx / c.ScaleX, ly / c.ScaleY, true
}

// local returns the unscaled box of the shape relative to the anchor.
func (c DrawCmd) local() (minX, minY, maxX, maxY float32) {
	minX = -c.Width * c.PivotX
	minY = -c.Height * c.PivotY
	return minX, minY, minX + c.Width, minY + c.Height
}

// radius clamps the corner radius to what fits the box.
func (c DrawCmd) radius() float32 {
	if c.Shape != ShapeRoundedRect {
		return 0
	}
	return max(0, min(c.CornerRadius, c.Width/2, c.Height/2))
}

// Corners returns the four world-space corners of the shape's box, clockwise
// from the top-left, with rotation and scale applied.
func (c DrawCmd) Corners() [4][2]float32 {
	minX, minY, maxX, maxY := c.local()
	var out [4][2]float32
	for i, p := range [4][2]float32{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}} {
		out[i][0], out[i][1] = c.toWorld(p[0], p[1])
	}
	return out
}

// WorldBounds returns the axis-aligned box enclosing the rotated shape.
func (c DrawCmd) WorldBounds() (minX, minY, maxX, maxY float32) {
	corners := c.Corners()
	minX, minY = corners[0][0], corners[0][1]
	maxX, maxY = minX, minY
	for _, p := range corners[1:] {
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}
	return minX, minY, maxX, maxY
}

// Outline returns the world-space polygon of the shape. Rounded corners are
// approximated with segments line pieces each; sprites yield their four corners.
func (c DrawCmd) Outline(segments int) [][2]float32 {
	r := c.radius()
	if r == 0 || segments < 1 {
		corners := c.Corners()
		return corners[:]
	}

	minX, minY, maxX, maxY := c.local()
	// Corner arc centers, clockwise from the top-right, with their start angles
	arcs := [4]struct {
		cx, cy, start float32
	}{
		{maxX - r, minY + r, -math.Pi / 2},
		{maxX - r, maxY - r, 0},
		{minX + r, maxY - r, math.Pi / 2},
		{minX + r, minY + r, math.Pi},
	}

	points := make([][2]float32, 0, 4*(segments+1))
	for _, a := range arcs {
		for i := 0; i <= segments; i++ {
			angle := float64(a.start) + float64(i)/float64(segments)*math.Pi/2
			sin, cos := math.Sincos(angle)
			x, y := c.toWorld(a.cx+r*float32(cos), a.cy+r*float32(sin))
			points = append(points, [2]float32{x, y})
		}
	}
	return points
}

// Contains reports whether the world point (x, y) lies inside the shape.
func (c DrawCmd) Contains(x, y float32) bool {
	lx, ly, ok := c.toLocal(x, y)
	if !ok {
		return false
	}
	minX, minY, maxX, maxY := c.local()
	if lx < minX || lx > maxX || ly < minY || ly > maxY {
		return false
	}

	r := c.radius()
	if r == 0 {
		return true
	}

	// Outside the inner cross, the point must be within r of the nearest arc center
	cx := min(max(lx, minX+r), maxX-r)
	cy := min(max(ly, minY+r), maxY-r)
	dx, dy := lx-cx, ly-cy
	return dx*dx+dy*dy <= r*r
}
