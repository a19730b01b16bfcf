package ui

import "sort"

const (
	quadMaxItems = 4
	quadMaxDepth = 5
)

// QuadTree partitions the terminal area so mouse hit-testing answers "which
// widgets overlap this cell" without scanning the whole widget list.
//
// A widget whose bounds span a subdivision boundary is stored in every leaf
// it intersects; that duplication is required for correctness, and queries
// de-duplicate. Nodes never merge back after subdivision: under heavy
// add/remove churn the partitioning goes stale, and the intended maintenance
// operation is a periodic Rebuild (the Application does one on every resize).
type QuadTree struct {
	root     *quadNode
	maxItems int
	maxDepth int

	// Insertion sequence per widget, so query results keep a stable z-order
	// (list order; later = topmost).
	seq     map[Widget]int
	nextSeq int
}

type quadNode struct {
	bounds   Rect
	depth    int
	items    []Widget
	children []*quadNode // nil while leaf; exactly 4 once subdivided
}

// NewQuadTree builds an empty index spanning the given bounds, typically the
// full terminal rectangle.
func NewQuadTree(bounds Rect) *QuadTree {
	return &QuadTree{
		root:     &quadNode{bounds: bounds},
		maxItems: quadMaxItems,
		maxDepth: quadMaxDepth,
		seq:      make(map[Widget]int),
	}
}

// Insert adds a widget to every region its bounds intersect. Zero-area
// widgets are accepted but can never satisfy a point query.
func (q *QuadTree) Insert(w Widget) {
	if w == nil {
		return
	}
	if _, ok := q.seq[w]; !ok {
		q.seq[w] = q.nextSeq
		q.nextSeq++
	}
	q.root.insert(w, q.maxItems, q.maxDepth)
}

// Remove deletes the widget from every leaf holding it. Removing a widget
// that was never inserted is a no-op.
func (q *QuadTree) Remove(w Widget) {
	if w == nil {
		return
	}
	delete(q.seq, w)
	q.root.remove(w)
}

// QueryPoint returns the widgets whose own bounds contain (x, y), ordered by
// insertion (last element is topmost).
func (q *QuadTree) QueryPoint(x, y int) []Widget {
	var out []Widget
	seen := make(map[Widget]struct{})
	q.root.queryPoint(x, y, seen, &out)
	q.sortByZ(out)
	return out
}

// QueryRect returns the widgets whose bounds intersect r, in z-order.
func (q *QuadTree) QueryRect(r Rect) []Widget {
	var out []Widget
	seen := make(map[Widget]struct{})
	q.root.queryRect(r, seen, &out)
	q.sortByZ(out)
	return out
}

// Rebuild discards all partitioning and re-inserts the given widgets over new
// bounds. Required after a terminal resize (the old root bounds no longer
// describe the screen) and useful periodically in long add/remove-heavy
// sessions.
func (q *QuadTree) Rebuild(bounds Rect, widgets []Widget) {
	q.root = &quadNode{bounds: bounds}
	q.seq = make(map[Widget]int, len(widgets))
	q.nextSeq = 0
	for _, w := range widgets {
		q.Insert(w)
	}
}

func (q *QuadTree) sortByZ(ws []Widget) {
	sort.SliceStable(ws, func(i, j int) bool {
		return q.seq[ws[i]] < q.seq[ws[j]]
	})
}

func (n *quadNode) insert(w Widget, maxItems, maxDepth int) {
	if n.children != nil {
		wb := w.Bounds()
		for _, c := range n.children {
			if c.bounds.IntersectsWith(wb) {
				c.insert(w, maxItems, maxDepth)
			}
		}
		return
	}

	n.items = append(n.items, w)
	if len(n.items) > maxItems && n.depth < maxDepth {
		n.subdivide(maxItems, maxDepth)
	}
}

// subdivide splits a leaf into four quadrants and migrates its items, each
// tested independently against every child (an item can land in several).
func (n *quadNode) subdivide(maxItems, maxDepth int) {
	halfW := n.bounds.W / 2
	halfH := n.bounds.H / 2
	if halfW < 1 || halfH < 1 {
		return // too small to split further
	}
	x, y := n.bounds.X, n.bounds.Y
	rects := [4]Rect{
		{X: x, Y: y, W: halfW, H: halfH},
		{X: x + halfW, Y: y, W: n.bounds.W - halfW, H: halfH},
		{X: x, Y: y + halfH, W: halfW, H: n.bounds.H - halfH},
		{X: x + halfW, Y: y + halfH, W: n.bounds.W - halfW, H: n.bounds.H - halfH},
	}

	children := make([]*quadNode, 4)
	for i, r := range rects {
		children[i] = &quadNode{bounds: r, depth: n.depth + 1}
	}
	items := n.items
	n.items = nil
	n.children = children

	for _, it := range items {
		ib := it.Bounds()
		for _, c := range children {
			if c.bounds.IntersectsWith(ib) {
				c.insert(it, maxItems, maxDepth)
			}
		}
	}
}

func (n *quadNode) remove(w Widget) {
	if n.children != nil {
		for _, c := range n.children {
			c.remove(w)
		}
		return
	}
	for i, it := range n.items {
		if it == w {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return
		}
	}
}

func (n *quadNode) queryPoint(x, y int, seen map[Widget]struct{}, out *[]Widget) {
	if n.children != nil {
		for _, c := range n.children {
			if c.bounds.Contains(x, y) {
				c.queryPoint(x, y, seen, out)
			}
		}
		return
	}
	for _, it := range n.items {
		if !it.Bounds().Contains(x, y) {
			continue
		}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		*out = append(*out, it)
	}
}

func (n *quadNode) queryRect(r Rect, seen map[Widget]struct{}, out *[]Widget) {
	if n.children != nil {
		for _, c := range n.children {
			if c.bounds.IntersectsWith(r) {
				c.queryRect(r, seen, out)
			}
		}
		return
	}
	for _, it := range n.items {
		if !it.Bounds().IntersectsWith(r) {
			continue
		}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		*out = append(*out, it)
	}
}
