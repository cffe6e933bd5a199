package buffer

// Segment is one node in a Composite's doubly linked chain: a window
// [start, start+capacity) over a Region, plus links to its neighbors. The
// window is carried as a *Cursor so absolute/relative get reuse the same
// code as a plain single-region buffer; the cursor's own position field is
// the segment's local read cursor, the cursor's base is the inclusive start
// of the segment's live window inside its region, and base+limit is its
// exclusive end.
type Segment struct {
	cursor *Cursor
	prev   *Segment
	next   *Segment
}

// newSegment wraps a cursor as a freestanding segment with no neighbors.
func newSegment(c *Cursor) *Segment {
	return &Segment{cursor: c}
}

// capacity returns the segment's current logical size: the cursor's
// capacity field, which splitAt/shrinkLeft/shrinkRight keep equal to the
// window's length.
func (s *Segment) capacity() int { return s.cursor.capacity }

// isEmpty reports whether the segment currently contributes zero bytes.
func (s *Segment) isEmpty() bool { return s.capacity() == 0 }

// splitAt divides the segment in two at local offset k (0 < k < capacity),
// both sharing the same region. The receiver shrinks to [0, k); the
// returned segment covers [k, capacity) as a new, unlinked segment.
func (s *Segment) splitAt(k int) *Segment {
	tailCursor := &Cursor{
		region:   s.cursor.region,
		base:     s.cursor.base + k,
		position: 0,
		limit:    s.cursor.capacity - k,
		capacity: s.cursor.capacity - k,
		mark:     unsetMark,
		readOnly: true,
	}
	_ = s.cursor.region.Retain(1)

	s.cursor.limit = k
	s.cursor.capacity = k
	if s.cursor.position > k {
		s.cursor.position = k
	}

	return newSegment(tailCursor)
}

// shrinkLeft advances the window's start by k, dropping the first k bytes.
// The segment's local position collapses to 0 (position snaps to the new
// start).
func (s *Segment) shrinkLeft(k int) {
	s.cursor.base += k
	s.cursor.limit -= k
	s.cursor.capacity -= k
	s.cursor.position = 0
}

// shrinkRight reduces the window's end by k, dropping the last k bytes.
func (s *Segment) shrinkRight(k int) {
	s.cursor.limit -= k
	s.cursor.capacity -= k
	if s.cursor.position > s.cursor.capacity {
		s.cursor.position = s.cursor.capacity
	}
}

// unlink detaches this segment from its chain, returning the (possibly nil)
// neighbors it had.
func (s *Segment) unlink() (prev, next *Segment) {
	prev, next = s.prev, s.next
	if prev != nil {
		prev.next = next
	}
	if next != nil {
		next.prev = prev
	}
	s.prev, s.next = nil, nil
	return
}
