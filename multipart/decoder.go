package multipart

import (
	"github.com/zostay/mimeflow/header"
	"github.com/zostay/mimeflow/mime"
	"github.com/zostay/mimeflow/stream"
)

// Decoder turns a chunk Publisher into a Publisher of BodyParts. It
// subscribes to exactly one upstream chunk source and drives it with the
// "request 1" policy: at most one chunk is requested per demand step,
// gated on whichever of the part-stream or the in-flight part's content
// publisher actually needs it.
//
// A Decoder is single-use: once its part stream completes, fails, or is
// cancelled it cannot be reused.
type Decoder struct {
	parser     *mime.Parser
	partsQueue *stream.Queue[*BodyPart]
	upstream   stream.Subscription

	bufferParts bool

	headers     *header.Fields
	content     *stream.Queue[[]byte]
	pending     []byte
	building    bool
	headersDone bool
}

// DecoderOption configures a Decoder at construction time.
type DecoderOption func(*Decoder)

// WithBufferParts makes the Decoder accumulate each part's content fully
// before handing the part downstream, producing a buffered BodyPart
// (BodyPart.IsBuffered true) instead of one backed by a content
// publisher. This trades streaming delivery for the simplicity of
// Buffered() access, and is appropriate when parts are known to be small.
func WithBufferParts() DecoderOption {
	return func(d *Decoder) {
		d.bufferParts = true
	}
}

// NewDecoder returns a Decoder for the given boundary value (without the
// leading "--").
func NewDecoder(boundary string, opts ...DecoderOption) (*Decoder, error) {
	if boundary == "" {
		return nil, ErrMissingMultipartContext
	}
	d := &Decoder{partsQueue: stream.NewQueue[*BodyPart]()}
	for _, opt := range opts {
		opt(d)
	}
	d.parser = mime.NewParser(boundary, d)
	return d, nil
}

// Subscribe attaches sub as the sole consumer of this Decoder's part
// stream.
func (d *Decoder) Subscribe(sub stream.Subscriber[*BodyPart]) {
	d.partsQueue.Subscribe(sub)
}

// OnSubscribe implements stream.Subscriber[[]byte] for the upstream chunk
// source: the decoder immediately asks for its first chunk.
func (d *Decoder) OnSubscribe(sub stream.Subscription) {
	d.upstream = sub
	sub.Request(1)
}

// OnNext implements stream.Subscriber[[]byte]: it offers the chunk to the
// parser and requests the next chunk the parser or current part needs.
func (d *Decoder) OnNext(chunk []byte) {
	if err := d.parser.Offer(chunk); err != nil {
		d.fail(err)
		return
	}
	d.requestMore()
}

// OnComplete implements stream.Subscriber[[]byte]: upstream has no more
// chunks, so the parser is closed and any resulting error surfaces as the
// part stream's error.
func (d *Decoder) OnComplete() {
	if err := d.parser.Close(); err != nil {
		d.fail(err)
	}
}

// OnError implements stream.Subscriber[[]byte].
func (d *Decoder) OnError(err error) {
	d.fail(err)
}

func (d *Decoder) fail(err error) {
	d.partsQueue.Fail(err)
	if d.content != nil {
		d.content.Fail(err)
	}
}

func (d *Decoder) requestMore() {
	if d.partsQueue.IsCancelled() {
		if d.upstream != nil {
			d.upstream.Cancel()
		}
		return
	}
	if d.building && d.headersDone && !d.bufferParts {
		if d.content.IsCancelled() || d.content.Demand() > 0 {
			d.upstream.Request(1)
		}
		return
	}
	if d.partsQueue.Demand() > 0 {
		d.upstream.Request(1)
	}
}

// OnStartMessage implements mime.EventSink.
func (d *Decoder) OnStartMessage() {}

// OnStartPart implements mime.EventSink: allocates a fresh header set and
// content publisher for the part about to be parsed.
func (d *Decoder) OnStartPart() {
	d.headers = header.New()
	d.pending = nil
	d.building = true
	d.headersDone = false
	if d.bufferParts {
		d.content = nil
	} else {
		d.content = stream.NewQueue[[]byte]()
	}
}

// OnHeader implements mime.EventSink.
func (d *Decoder) OnHeader(name, value string) {
	d.headers.Add(name, value)
}

// OnEndHeaders implements mime.EventSink: the BodyPart is complete enough
// to hand downstream, even though its content publisher may still be
// receiving chunks. In buffered mode the part is withheld until its
// content has fully arrived, so nothing is pushed here.
func (d *Decoder) OnEndHeaders() {
	d.headersDone = true
	if d.bufferParts {
		return
	}
	part := &BodyPart{
		headers:   d.headers,
		kind:      kindPublisher,
		publisher: d.content,
	}
	d.partsQueue.Push(part)
}

// OnContent implements mime.EventSink. The slice is copied because the
// parser's backing buffer is reused across offer calls.
func (d *Decoder) OnContent(data []byte) {
	if d.bufferParts {
		d.pending = append(d.pending, data...)
		return
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	d.content.Push(cp)
}

// OnEndPart implements mime.EventSink.
func (d *Decoder) OnEndPart() {
	if d.bufferParts {
		part := &BodyPart{
			headers:  d.headers,
			kind:     kindBuffered,
			buffered: d.pending,
		}
		d.partsQueue.Push(part)
	} else {
		d.content.Complete()
	}
	d.building = false
}

// OnEndMessage implements mime.EventSink.
func (d *Decoder) OnEndMessage() {
	d.partsQueue.Complete()
}
