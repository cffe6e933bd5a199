package multipart

import (
	"io"

	"github.com/zostay/mimeflow/mime"
	"github.com/zostay/mimeflow/stream"
)

// Encoder turns a Publisher of BodyParts into a Publisher of chunks: the
// mirror of Decoder. It subscribes to exactly one upstream parts source
// and serializes each part through a mime.Encoder — the same wire
// grammar mime.Parser consumes on the decode side — requesting the next
// part only once the current part's content has been fully written.
//
// An Encoder is single-use.
type Encoder struct {
	enc *mime.Encoder

	chunkQueue *stream.Queue[[]byte]
	upstream   stream.Subscription
}

// NewEncoder returns an Encoder for the given boundary value (without the
// leading "--").
func NewEncoder(boundary string) (*Encoder, error) {
	if boundary == "" {
		return nil, ErrMissingMultipartContext
	}
	q := stream.NewQueue[[]byte]()
	return &Encoder{
		enc:        mime.NewEncoder(&chunkWriter{q: q}, boundary),
		chunkQueue: q,
	}, nil
}

// Subscribe attaches sub as the sole consumer of this Encoder's chunk
// stream.
func (e *Encoder) Subscribe(sub stream.Subscriber[[]byte]) {
	e.chunkQueue.Subscribe(sub)
}

// OnSubscribe implements stream.Subscriber[*BodyPart] for the upstream
// parts source.
func (e *Encoder) OnSubscribe(sub stream.Subscription) {
	e.upstream = sub
	sub.Request(1)
}

// OnNext implements stream.Subscriber[*BodyPart]: it serializes the part
// through the underlying mime.Encoder, draining the part's content
// publisher synchronously, then requests the next part.
func (e *Encoder) OnNext(part *BodyPart) {
	content := mime.ContentWriterFunc(func(w io.Writer) error {
		return drainInto(w, part.ContentPublisher())
	})
	if err := e.enc.EncodePart(part.Headers(), content); err != nil {
		e.chunkQueue.Fail(err)
		return
	}
	if e.upstream != nil {
		e.upstream.Request(1)
	}
}

// OnComplete implements stream.Subscriber[*BodyPart]: upstream has no
// more parts, so the closing boundary is emitted and the chunk stream
// completes.
func (e *Encoder) OnComplete() {
	if err := e.enc.Close(); err != nil {
		e.chunkQueue.Fail(err)
		return
	}
	e.chunkQueue.Complete()
}

// OnError implements stream.Subscriber[*BodyPart].
func (e *Encoder) OnError(err error) {
	e.chunkQueue.Fail(err)
}

// chunkWriter adapts the synchronous io.Writer contract mime.Encoder
// writes through onto the Encoder's reactive chunk stream: each Write
// call is copied and pushed downstream as one chunk.
type chunkWriter struct {
	q *stream.Queue[[]byte]
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	w.q.Push(cp)
	return len(p), nil
}

// drainInto subscribes to pub and synchronously writes every chunk it
// produces to w. Every content Publisher this package produces (static,
// error, file-backed) delivers its chunks synchronously once demand is
// requested, so one large request fully drains it within this call.
func drainInto(w io.Writer, pub stream.Publisher[[]byte]) error {
	d := &drainSubscriber{w: w}
	pub.Subscribe(d)
	return d.err
}

type drainSubscriber struct {
	w   io.Writer
	err error
}

func (d *drainSubscriber) OnSubscribe(sub stream.Subscription) { sub.Request(1 << 62) }

func (d *drainSubscriber) OnNext(chunk []byte) {
	if d.err != nil {
		return
	}
	_, d.err = d.w.Write(chunk)
}

func (d *drainSubscriber) OnComplete() {}

func (d *drainSubscriber) OnError(err error) {
	if d.err == nil {
		d.err = err
	}
}
