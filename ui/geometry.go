package ui

// Rect is an axis-aligned rectangle in terminal cells, half-open on both
// axes: a point (px, py) is inside when X <= px < X+W and Y <= py < Y+H.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside the rectangle.
// Rectangles with zero or negative extent contain nothing.
func (r Rect) Contains(px, py int) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

// IntersectsWith reports whether the two rectangles overlap.
// Degenerate rectangles (zero or negative extent) never intersect.
func (r Rect) IntersectsWith(o Rect) bool {
	if r.W <= 0 || r.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.X+r.W, o.X+o.W)
	y1 := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
