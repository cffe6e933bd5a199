package buffer

import (
	"errors"
)

// Sentinel errors shared by Cursor and Composite.
var (
	// ErrBufferUnderflow is returned by a relative get past the limit.
	ErrBufferUnderflow = errors.New("buffer: underflow past limit")

	// ErrInvalidMark is returned by Reset when no mark has been set.
	ErrInvalidMark = errors.New("buffer: mark not set")

	// ErrReadOnlyViolation is returned by any mutating call on a read-only
	// projection.
	ErrReadOnlyViolation = errors.New("buffer: read-only violation")

	// ErrInvalidRange is returned when an absolute index or a put/delete
	// range falls outside the buffer's current bounds.
	ErrInvalidRange = errors.New("buffer: index out of range")
)

const unsetMark = -1

// Cursor is a position/limit/mark view onto a single Region, modeled after
// java.nio.ByteBuffer. Invariant: 0 <= mark <= position <= limit <= capacity
// (mark == -1 when unset).
type Cursor struct {
	region   *Region
	base     int // offset of logical position 0 within region.Bytes()
	position int
	limit    int
	mark     int
	capacity int
	readOnly bool
}

// NewCursor wraps region in a Cursor covering [0, region.Len()), position 0,
// limit == capacity == region.Len().
func NewCursor(region *Region) *Cursor {
	n := region.Len()
	return &Cursor{region: region, base: 0, position: 0, limit: n, capacity: n, mark: unsetMark}
}

// Region returns the underlying region.
func (c *Cursor) Region() *Region { return c.region }

// Position returns the current position.
func (c *Cursor) Position() int { return c.position }

// Limit returns the current limit.
func (c *Cursor) Limit() int { return c.limit }

// Capacity returns the cursor's capacity.
func (c *Cursor) Capacity() int { return c.capacity }

// Remaining returns limit - position.
func (c *Cursor) Remaining() int { return c.limit - c.position }

// IsReadOnly reports whether this cursor forbids mutation.
func (c *Cursor) IsReadOnly() bool { return c.readOnly }

// SetPosition moves the position. i must satisfy 0 <= i <= limit. The mark
// is cleared if it no longer satisfies mark <= position.
func (c *Cursor) SetPosition(i int) error {
	if i < 0 || i > c.limit {
		return ErrInvalidRange
	}
	c.position = i
	if c.mark > c.position {
		c.mark = unsetMark
	}
	return nil
}

// SetLimit moves the limit. i must satisfy 0 <= i <= capacity. Position and
// mark are clamped down if they now exceed the new limit.
func (c *Cursor) SetLimit(i int) error {
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
	return nil
}

// Mark records the current position as the mark.
func (c *Cursor) Mark() { c.mark = c.position }

// Reset moves the position back to the mark. Fails with ErrInvalidMark if
// no mark has been set.
func (c *Cursor) Reset() error {
	if c.mark == unsetMark {
		return ErrInvalidMark
	}
	c.position = c.mark
	return nil
}

// Clear resets position to 0, limit to capacity, and discards the mark.
// Bytes are not erased.
func (c *Cursor) Clear() {
	c.position = 0
	c.limit = c.capacity
	c.mark = unsetMark
}

// regionIndex translates a logical index (relative to this cursor's base)
// into an index into the underlying region's byte slice.
func (c *Cursor) regionIndex(logical int) int {
	return c.base + logical
}

// Get returns the byte at absolute logical index i without touching
// position. Fails when i < 0 or i >= limit.
func (c *Cursor) Get(i int) (byte, error) {
	if i < 0 || i >= c.limit {
		return 0, ErrInvalidRange
	}
	return c.region.Bytes()[c.regionIndex(i)], nil
}

// GetRelative returns the byte at the current position and advances it by
// one. Fails when position >= limit.
func (c *Cursor) GetRelative() (byte, error) {
	if c.position >= c.limit {
		return 0, ErrBufferUnderflow
	}
	b := c.region.Bytes()[c.regionIndex(c.position)]
	c.position++
	return b, nil
}

// GetBulk copies len(dst) bytes from the current position into dst,
// advancing position. Fails if the requested length exceeds Remaining().
func (c *Cursor) GetBulk(dst []byte) (int, error) {
	n := len(dst)
	if n > c.Remaining() {
		return 0, ErrBufferUnderflow
	}
	start := c.regionIndex(c.position)
	copy(dst, c.region.Bytes()[start:start+n])
	c.position += n
	return n, nil
}

// Slice returns the contiguous native slice backing [position, limit) — the
// cursor's single contiguous window. It does not advance position.
func (c *Cursor) Slice() []byte {
	start := c.regionIndex(c.position)
	end := c.regionIndex(c.limit)
	return c.region.Bytes()[start:end]
}

// SliceRange returns the contiguous native slice backing the absolute
// logical range [from, to).
func (c *Cursor) SliceRange(from, to int) ([]byte, error) {
	if from < 0 || to > c.limit || from > to {
		return nil, ErrInvalidRange
	}
	start := c.regionIndex(from)
	end := c.regionIndex(to)
	return c.region.Bytes()[start:end], nil
}

// Put writes p at the current position and advances it. Fails on a
// read-only cursor or when p does not fit before limit. Callers that share
// a Region across cursors must not use Put concurrently with a reader of
// the same bytes.
func (c *Cursor) Put(p []byte) error {
	if c.readOnly {
		return ErrReadOnlyViolation
	}
	if len(p) > c.Remaining() {
		return ErrBufferUnderflow
	}
	start := c.regionIndex(c.position)
	copy(c.region.Bytes()[start:start+len(p)], p)
	c.position += len(p)
	return nil
}

// Duplicate returns a new Cursor over the same Region (retaining it),
// copying position/limit/mark.
func (c *Cursor) Duplicate() *Cursor {
	_ = c.region.Retain(1)
	dup := *c
	return &dup
}

// AsReadOnly returns a projection of this cursor that forbids Put. It shares
// the same region (retaining it) and position/limit/mark.
func (c *Cursor) AsReadOnly() *Cursor {
	dup := c.Duplicate()
	dup.readOnly = true
	return dup
}

// Retain fans the retain out to the underlying region.
func (c *Cursor) Retain(k int) error { return c.region.Retain(k) }

// Release fans the release out to the underlying region.
func (c *Cursor) Release(k int) error { return c.region.Release(k) }
