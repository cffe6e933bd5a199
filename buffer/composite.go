package buffer

// Composite presents a chain of Segments as one logical buffer with the
// same position/limit/mark surface as Cursor. It supports O(1) (no byte
// copy) Put (split-insert) and Delete over absolute byte ranges.
//
// Invariants (kept true by every exported method):
//
//	capacity == sum of every segment's capacity
//	0 <= position <= limit <= capacity
//	current is the segment containing the byte at `position`, or the next
//	non-empty segment if position lands exactly on a segment boundary.
type Composite struct {
	head, tail, current *Segment
	position             int
	limit                int
	capacity             int
	mark                 int
	readOnly             bool
	pool                 *Pool
}

// SetPool configures the recycler used to back every Region this
// composite creates via Append from here on: once a segment wrapping
// such a region is fully consumed and removed by Delete, its bytes are
// returned to pool instead of left for the garbage collector.
func (c *Composite) SetPool(pool *Pool) {
	c.pool = pool
}

// NewComposite returns an empty, writable composite buffer.
func NewComposite() *Composite {
	return &Composite{mark: unsetMark}
}

func (c *Composite) Position() int     { return c.position }
func (c *Composite) Limit() int        { return c.limit }
func (c *Composite) Capacity() int     { return c.capacity }
func (c *Composite) Remaining() int    { return c.limit - c.position }
func (c *Composite) IsReadOnly() bool  { return c.readOnly }

// SetLimit moves the limit; i must satisfy 0 <= i <= capacity.
func (c *Composite) SetLimit(i int) error {
	if i < 0 || i > c.capacity {
		return ErrInvalidRange
	}
	c.limit = i
	if c.position > c.limit {
		c.position = c.limit
	}
	if c.mark > c.limit {
		c.mark = unsetMark
	}
	c.resyncCurrent()
	return nil
}

// Mark records the current position as the mark.
func (c *Composite) Mark() { c.mark = c.position }

// Reset moves the position back to the mark.
func (c *Composite) Reset() error {
	if c.mark == unsetMark {
		return ErrInvalidMark
	}
	return c.SetPosition(c.mark)
}

// Clear resets position to 0, limit to capacity, and discards the mark.
func (c *Composite) Clear() {
	c.position = 0
	c.limit = c.capacity
	c.mark = unsetMark
	c.resyncCurrent()
}

// Append adds data as a new tail segment wrapping a fresh Region, without
// copying byte ownership from the caller beyond the initial slice handoff.
// This is the entry point mime.Parser.Offer uses to grow the input window.
func (c *Composite) Append(data []byte) error {
	if c.readOnly {
		return ErrReadOnlyViolation
	}
	if len(data) == 0 {
		return nil
	}
	var onFree ReleaseFunc
	if c.pool != nil {
		onFree = c.pool.Release
	}
	region := NewRegion(data, onFree)
	seg := newSegment(NewCursor(region))
	c.linkTail(seg)
	c.capacity += len(data)
	c.limit += len(data)
	c.resyncCurrent()
	return nil
}

func (c *Composite) linkTail(seg *Segment) {
	if c.tail == nil {
		c.head, c.tail = seg, seg
	} else {
		c.tail.next = seg
		seg.prev = c.tail
		c.tail = seg
	}
}

func (c *Composite) linkHead(seg *Segment) {
	if c.head == nil {
		c.head, c.tail = seg, seg
	} else {
		seg.next = c.head
		c.head.prev = seg
		c.head = seg
	}
}

func (c *Composite) insertAfter(anchor, seg *Segment) {
	nxt := anchor.next
	anchor.next = seg
	seg.prev = anchor
	seg.next = nxt
	if nxt != nil {
		nxt.prev = seg
	} else {
		c.tail = seg
	}
}

func (c *Composite) insertBefore(anchor, seg *Segment) {
	prv := anchor.prev
	seg.next = anchor
	anchor.prev = seg
	seg.prev = prv
	if prv != nil {
		prv.next = seg
	} else {
		c.head = seg
	}
}

// locate walks from head, returning the segment containing absolute offset
// pos, the offset local to that segment, and the segment's absolute start.
// If pos == capacity, returns (nil, 0, capacity).
func (c *Composite) locate(pos int) (seg *Segment, localOffset, segStart int) {
	off := 0
	for s := c.head; s != nil; s = s.next {
		cap := s.capacity()
		if off+cap > pos {
			return s, pos - off, off
		}
		off += cap
	}
	return nil, 0, off
}

// resyncCurrent recomputes `current` (and its local cursor position) from
// `position`. locate never returns an empty segment as a match (an empty
// segment's capacity can't satisfy off+cap>pos), so the only case needing a
// fallback is position==capacity, where no segment contains the point and
// we land on the tail instead.
func (c *Composite) resyncCurrent() {
	seg, local, _ := c.locate(c.position)
	if seg == nil {
		seg = c.tail
		if seg != nil {
			local = seg.capacity()
		}
	}
	c.current = seg
	if c.current != nil {
		_ = c.current.cursor.SetPosition(local)
	}
}

// Get returns the byte at absolute logical index i without touching
// position. Fails when i < 0 or i >= limit.
func (c *Composite) Get(i int) (byte, error) {
	if i < 0 || i >= c.limit {
		return 0, ErrInvalidRange
	}
	seg, local, _ := c.locate(i)
	if seg == nil {
		return 0, ErrInvalidRange
	}
	return seg.cursor.Get(local)
}

// GetRelative returns the byte at position and advances position by one.
func (c *Composite) GetRelative() (byte, error) {
	if c.position >= c.limit {
		return 0, ErrBufferUnderflow
	}
	for c.current != nil && c.current.cursor.position >= c.current.capacity() && c.current.next != nil {
		c.current = c.current.next
	}
	if c.current == nil {
		return 0, ErrBufferUnderflow
	}
	b, err := c.current.cursor.GetRelative()
	if err != nil {
		return 0, err
	}
	c.position++
	return b, nil
}

// GetBulk copies len(dst) bytes starting at position into dst, advancing
// position across as many segments as needed. Fails if the requested
// length exceeds Remaining().
func (c *Composite) GetBulk(dst []byte) (int, error) {
	if len(dst) > c.Remaining() {
		return 0, ErrBufferUnderflow
	}
	n := 0
	for n < len(dst) {
		for c.current != nil && c.current.cursor.position >= c.current.capacity() && c.current.next != nil {
			c.current = c.current.next
		}
		if c.current == nil {
			return n, ErrBufferUnderflow
		}
		avail := c.current.capacity() - c.current.cursor.position
		want := len(dst) - n
		if want > avail {
			want = avail
		}
		if want == 0 {
			break
		}
		m, err := c.current.cursor.GetBulk(dst[n : n+want])
		if err != nil {
			return n, err
		}
		n += m
		c.position += m
	}
	return n, nil
}

// SetPosition moves the logical position, recomputing `current` from head.
// newPos must satisfy 0 <= newPos <= limit.
func (c *Composite) SetPosition(newPos int) error {
	if newPos < 0 || newPos > c.limit {
		return ErrInvalidRange
	}
	c.position = newPos
	if c.mark > c.position {
		c.mark = unsetMark
	}
	c.resyncCurrent()
	return nil
}

// Put inserts region's bytes at absolute position pos without copying,
// splitting the segment covering pos if pos falls inside it. pos must
// satisfy 0 <= pos <= limit on a writable composite.
func (c *Composite) Put(region *Region, pos int) error {
	if c.readOnly {
		return ErrReadOnlyViolation
	}
	if pos < 0 || pos > c.limit {
		return ErrInvalidRange
	}

	newSeg := newSegment(NewCursor(region))
	n := region.Len()

	switch {
	case pos == 0:
		c.linkHead(newSeg)
	case pos == c.limit && pos == c.capacity:
		c.linkTail(newSeg)
	default:
		seg, local, _ := c.locate(pos)
		switch {
		case seg == nil:
			// pos == capacity (but < limit can't happen since limit <= capacity);
			// treat as append.
			c.linkTail(newSeg)
		case local == 0:
			c.insertBefore(seg, newSeg)
		case local == seg.capacity():
			c.insertAfter(seg, newSeg)
		default:
			tailSeg := seg.splitAt(local)
			c.insertAfter(seg, newSeg)
			c.insertAfter(newSeg, tailSeg)
		}
	}

	c.capacity += n
	c.limit += n
	if c.position > pos {
		c.position += n
	}
	c.resyncCurrent()
	return nil
}

// Delete removes len bytes starting at absolute position pos, without
// copying the surviving bytes. pos+len must not exceed
// capacity on a writable composite.
func (c *Composite) Delete(pos, length int) error {
	if c.readOnly {
		return ErrReadOnlyViolation
	}
	if pos < 0 || length < 0 || pos+length > c.capacity {
		return ErrInvalidRange
	}
	if length == 0 {
		return nil
	}

	remaining := length
	seg, local, _ := c.locate(pos)
	for remaining > 0 && seg != nil {
		segCap := seg.capacity()
		avail := segCap - local
		k := remaining
		if k > avail {
			k = avail
		}

		switch {
		case local == 0 && k == segCap:
			next := seg.next
			prev := seg.prev
			seg.unlink()
			if seg == c.head {
				c.head = next
			}
			if seg == c.tail {
				c.tail = prev
			}
			_ = seg.cursor.Release(1)
			remaining -= k
			seg = next
			local = 0
		case local == 0:
			seg.shrinkLeft(k)
			remaining -= k
			seg = nil // k < avail only possible when k == remaining, so we are done
		case local+k == segCap:
			seg.shrinkRight(k)
			remaining -= k
			seg = seg.next
			local = 0
		default:
			rightPiece := seg.splitAt(local + k)
			seg.shrinkRight(k)
			c.insertAfter(seg, rightPiece)
			remaining -= k
			seg = nil // interior hole implies k == remaining
		}
	}

	c.capacity -= length
	c.limit -= length
	switch {
	case c.position <= pos:
		// unchanged
	case c.position >= pos+length:
		c.position -= length
	default:
		c.position = pos
	}
	if c.mark != unsetMark {
		if c.mark <= pos {
			// unchanged
		} else if c.mark >= pos+length {
			c.mark -= length
		} else {
			c.mark = unsetMark
		}
	}
	c.resyncCurrent()
	return nil
}

// AsReadOnly returns a read-only projection sharing the underlying regions.
// Idempotent: calling it on an already read-only composite returns the
// receiver unchanged.
func (c *Composite) AsReadOnly() *Composite {
	if c.readOnly {
		return c
	}
	dup := c.Duplicate()
	dup.readOnly = true
	for s := dup.head; s != nil; s = s.next {
		s.cursor.readOnly = true
	}
	return dup
}

// Duplicate deep-copies the segment chain (retaining every underlying
// region) and mirrors position/limit/mark/current.
func (c *Composite) Duplicate() *Composite {
	nc := &Composite{position: c.position, limit: c.limit, capacity: c.capacity, mark: c.mark, readOnly: c.readOnly}
	var prevSeg *Segment
	for s := c.head; s != nil; s = s.next {
		ns := newSegment(s.cursor.Duplicate())
		if prevSeg == nil {
			nc.head = ns
		} else {
			prevSeg.next = ns
			ns.prev = prevSeg
		}
		prevSeg = ns
		if s == c.current {
			nc.current = ns
		}
	}
	nc.tail = prevSeg
	if nc.current == nil {
		nc.current = nc.head
	}
	return nc
}

// Retain fans the retain out to every segment's region.
func (c *Composite) Retain(k int) error {
	for s := c.head; s != nil; s = s.next {
		if err := s.cursor.Retain(k); err != nil {
			return err
		}
	}
	return nil
}

// Release fans the release out to every segment's region.
func (c *Composite) Release(k int) error {
	for s := c.head; s != nil; s = s.next {
		if err := s.cursor.Release(k); err != nil {
			return err
		}
	}
	return nil
}

// forEachSlice is the shared segment-walking core behind ForEachSlice,
// Flatten, and FlattenRange. to is the caller's already-validated upper
// edge: at most c.limit for range-checked public callers, c.capacity for
// Flatten, which intentionally reads past the limit.
func (c *Composite) forEachSlice(from, to int, fn func([]byte) bool) error {
	off := 0
	for s := c.head; s != nil && off < to; s = s.next {
		segStart, segEnd := off, off+s.capacity()
		off = segEnd
		lo, hi := segStart, segEnd
		if lo < from {
			lo = from
		}
		if hi > to {
			hi = to
		}
		if lo >= hi {
			continue
		}
		slice, err := s.cursor.SliceRange(lo-segStart, hi-segStart)
		if err != nil {
			return err
		}
		if !fn(slice) {
			return nil
		}
	}
	return nil
}

// ForEachSlice walks the absolute logical range [from, to), calling fn
// once per segment it overlaps with the contiguous native slice backing
// that segment's portion of the range — the composite's realization of
// the single contiguous slice a plain Cursor exposes via Slice(), without
// copying any bytes. Iteration stops early, returning nil, the first time
// fn returns false.
func (c *Composite) ForEachSlice(from, to int, fn func([]byte) bool) error {
	if from < 0 || to > c.limit || from > to {
		return ErrInvalidRange
	}
	return c.forEachSlice(from, to, fn)
}

// Flatten copies the whole composite into a single contiguous slice. It is
// provided for tests; the parser's Boyer-Moore boundary search copies its
// contiguous search window with FlattenRange instead. It is not a zero-copy
// operation (see ForEachSlice for that).
func (c *Composite) Flatten() []byte {
	out := make([]byte, 0, c.capacity)
	_ = c.forEachSlice(0, c.capacity, func(s []byte) bool {
		out = append(out, s...)
		return true
	})
	return out
}

// FlattenRange copies the absolute logical range [from, to) into a single
// contiguous slice.
func (c *Composite) FlattenRange(from, to int) ([]byte, error) {
	if from < 0 || to > c.limit || from > to {
		return nil, ErrInvalidRange
	}
	out := make([]byte, 0, to-from)
	if err := c.forEachSlice(from, to, func(s []byte) bool {
		out = append(out, s...)
		return true
	}); err != nil {
		return nil, err
	}
	return out, nil
}
