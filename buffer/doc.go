// Package buffer provides a reference-counted byte region and a composite,
// zero-copy buffer built from a chain of such regions.
//
// A Region is a single contiguous byte slice with an external,
// atomic reference count: Retain/Release fan out to every region a
// CursorBuffer or Composite touches, and a release that drives a region's
// count to zero returns it to its recycler.
//
// A Cursor is a position/limit/mark view onto a single Region, modeled after
// the familiar java.nio.ByteBuffer family of operations. A Composite chains
// Cursors together as Segments and presents the same get/put/position
// surface over the whole chain, supporting O(1) Put (split-insert) and
// Delete over absolute byte ranges without copying the underlying bytes.
package buffer
