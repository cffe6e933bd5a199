package stream

// Queue is a demand-driven Publisher fed by a producer via Push/Complete/
// Fail. It buffers items that arrive before they are demanded and delivers
// them the moment demand allows, synchronously, on whichever goroutine
// calls Push or Request — matching the codec's single-threaded cooperative
// scheduling model. It has exactly one Subscriber for its lifetime.
type Queue[T any] struct {
	sub       Subscriber[T]
	buffered  []T
	demand    int64
	completed bool
	notified  bool
	cancelled bool
	err       error
}

// NewQueue returns an empty, unsubscribed Queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Subscribe attaches sub as this queue's sole subscriber and immediately
// calls its OnSubscribe.
func (q *Queue[T]) Subscribe(sub Subscriber[T]) {
	q.sub = sub
	sub.OnSubscribe(q)
}

// Request adds n to the cumulative demand and drains any buffered items
// that demand now covers.
func (q *Queue[T]) Request(n int64) {
	if n <= 0 || q.cancelled {
		return
	}
	q.demand += n
	q.drain()
}

// Cancel stops delivery and discards any buffered, undelivered items.
func (q *Queue[T]) Cancel() {
	q.cancelled = true
	q.buffered = nil
}

// IsCancelled reports whether the subscriber has cancelled.
func (q *Queue[T]) IsCancelled() bool { return q.cancelled }

// Demand returns the outstanding (unfulfilled) demand.
func (q *Queue[T]) Demand() int64 { return q.demand }

// Push enqueues item for delivery, delivering it immediately if demand
// allows. Push after Complete/Fail or after Cancel is a no-op.
func (q *Queue[T]) Push(item T) {
	if q.cancelled || q.completed {
		return
	}
	q.buffered = append(q.buffered, item)
	q.drain()
}

// Complete marks the stream as finished once all buffered items have been
// delivered. Idempotent.
func (q *Queue[T]) Complete() {
	if q.cancelled || q.completed {
		return
	}
	q.completed = true
	q.drain()
}

// Fail terminates the stream immediately with err, discarding any buffered,
// undelivered items. Idempotent.
func (q *Queue[T]) Fail(err error) {
	if q.cancelled || q.notified {
		return
	}
	q.completed = true
	q.notified = true
	q.err = err
	q.buffered = nil
	q.sub.OnError(err)
}

func (q *Queue[T]) drain() {
	for q.demand > 0 && len(q.buffered) > 0 {
		item := q.buffered[0]
		q.buffered = q.buffered[1:]
		q.demand--
		q.sub.OnNext(item)
		if q.cancelled {
			return
		}
	}
	if q.completed && len(q.buffered) == 0 && !q.notified {
		q.notified = true
		q.sub.OnComplete()
	}
}
