package buffer

import (
	"errors"
	"sync/atomic"
)

// ErrNegativeCount is returned by Retain/Release when called with a negative
// argument.
var ErrNegativeCount = errors.New("buffer: retain/release count must be >= 0")

// ReleaseFunc is called exactly once, the moment a Region's reference count
// drops to zero. It is the hook a pool uses to recycle the backing array.
type ReleaseFunc func(data []byte)

// Region is a single contiguous byte array with an external, atomic
// reference count. It is created with a count of one. Retain and Release
// adjust that count; a Release that drives the count to zero invokes the
// region's ReleaseFunc exactly once and the bytes must not be read
// afterward. The count never goes negative: it is clamped at zero.
type Region struct {
	data    []byte
	count   int32
	onFree  ReleaseFunc
	released int32
}

// NewRegion wraps data in a Region with a reference count of one. onFree, if
// non-nil, is invoked once when the count reaches zero.
func NewRegion(data []byte, onFree ReleaseFunc) *Region {
	return &Region{data: data, count: 1, onFree: onFree}
}

// Bytes returns the region's backing slice. The caller must not retain a
// reference to it beyond the region's lifetime (i.e. past the matching
// Release that drops the count to zero).
func (r *Region) Bytes() []byte {
	return r.data
}

// Len returns the length of the backing slice.
func (r *Region) Len() int {
	return len(r.data)
}

// Refcount returns the current reference count.
func (r *Region) Refcount() int {
	return int(atomic.LoadInt32(&r.count))
}

// Retain increments the reference count by k. k must be >= 0.
func (r *Region) Retain(k int) error {
	if k < 0 {
		return ErrNegativeCount
	}
	if k == 0 {
		return nil
	}
	atomic.AddInt32(&r.count, int32(k))
	return nil
}

// Release decrements the reference count by k, clamped at zero. k must be >=
// 0. The first call that drives the count to (or below) zero triggers the
// region's ReleaseFunc exactly once; subsequent Release calls are no-ops
// with respect to the hook.
func (r *Region) Release(k int) error {
	if k < 0 {
		return ErrNegativeCount
	}
	if k == 0 {
		return nil
	}
	for {
		cur := atomic.LoadInt32(&r.count)
		next := cur - int32(k)
		if next < 0 {
			next = 0
		}
		if atomic.CompareAndSwapInt32(&r.count, cur, next) {
			if next == 0 && atomic.CompareAndSwapInt32(&r.released, 0, 1) {
				if r.onFree != nil {
					r.onFree(r.data)
				}
			}
			return nil
		}
	}
}
