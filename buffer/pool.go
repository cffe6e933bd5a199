package buffer

import "sync"

// Pool recycles byte buffers on behalf of Region's ReleaseFunc contract.
// It is the "recycler" spec.md §4.1 requires release-to-zero to hand
// memory back to: Get hands out a buffer of at least n bytes, reusing one
// a prior Release returned when its capacity is sufficient; Release
// itself satisfies the ReleaseFunc signature, so it can be passed
// directly to NewRegion (or wired onto a Composite via SetPool).
type Pool struct {
	sp sync.Pool
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns a buffer of length n, reusing a previously released one
// when its capacity is large enough; otherwise it allocates fresh.
func (p *Pool) Get(n int) []byte {
	if v := p.sp.Get(); v != nil {
		b := v.([]byte)
		if cap(b) >= n {
			return b[:n]
		}
	}
	return make([]byte, n)
}

// Release returns data to the pool for reuse by a future Get. It is a
// ReleaseFunc: pass it to NewRegion, or configure it on a Composite via
// SetPool, to recycle a Region's backing array once its refcount reaches
// zero instead of abandoning it to the garbage collector.
func (p *Pool) Release(data []byte) {
	p.sp.Put(data[:0:cap(data)])
}
