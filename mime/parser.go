package mime

import (
	"bytes"

	"github.com/zostay/mimeflow/buffer"
)

type phase int

const (
	phaseSkipPreamble phase = iota
	phaseStartPart
	phaseHeaders
	phaseBody
	phaseEndPart
	phaseEndMessage
)

// ParserOption configures a Parser at construction time.
type ParserOption func(*Parser)

// WithMaxBoundaryWindow bounds how large an unterminated preamble or header
// line run the parser will buffer before giving up with
// ErrBoundaryWindowExceeded. Zero (the default) means unbounded.
func WithMaxBoundaryWindow(n int) ParserOption {
	return func(p *Parser) {
		p.maxWindow = n
	}
}

// WithRegionPool configures a recycler for the Regions backing the
// parser's input buffer: once an offered chunk has been fully consumed
// and pruned, its backing array is returned to pool instead of left for
// the garbage collector.
func WithRegionPool(pool *buffer.Pool) ParserOption {
	return func(p *Parser) {
		p.buf.SetPool(pool)
	}
}

// Parser is an incremental, suspendable MIME multipart parser. Feed it
// bytes with Offer as they arrive; it emits events to the configured
// EventSink as soon as enough input is available to decide them, and
// returns from Offer as soon as it needs more input or the message is
// fully parsed. Call Close once the underlying transport has no more
// bytes to report whether the message ended in a valid state.
type Parser struct {
	bnd []byte
	bm  *boyerMoore

	buf  *buffer.Composite
	sink EventSink

	started  bool
	closed   bool
	finished bool
	state    phase

	bodyAtStart  bool
	lastBodyByte byte
	trailerSeen  bool

	maxWindow int
}

// NewParser builds a Parser for the given boundary value (without the
// leading "--"), delivering events to sink.
func NewParser(boundary string, sink EventSink, opts ...ParserOption) *Parser {
	bnd := append([]byte("--"), boundary...)
	p := &Parser{
		bnd:   bnd,
		bm:    newBoyerMoore(bnd),
		buf:   buffer.NewComposite(),
		sink:  sink,
		state: phaseSkipPreamble,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Offer appends data to the parser's input and drains as many events as
// it can before returning. It is an error to call Offer after Close, or
// after the message has been fully parsed (see Close's doc for the
// latter's precise meaning).
func (p *Parser) Offer(data []byte) error {
	if p.closed {
		return ErrParserProtocolError
	}
	if p.finished {
		return ErrParserProtocolError
	}
	if !p.started {
		p.started = true
		p.sink.OnStartMessage()
	} else {
		switch p.state {
		case phaseSkipPreamble, phaseHeaders, phaseBody:
			// legal resumption points
		default:
			return ErrParserProtocolError
		}
	}
	if err := p.buf.Append(data); err != nil {
		return err
	}
	if err := p.drain(); err != nil {
		return err
	}
	return p.compact()
}

// compact prunes every byte already consumed (everything before the
// current position) from the input buffer, so a long-running parse does
// not hold the whole message history in memory and so fully-consumed
// chunks become eligible for release back to a configured region pool.
func (p *Parser) compact() error {
	pos := p.buf.Position()
	if pos == 0 {
		return nil
	}
	return p.buf.Delete(0, pos)
}

// Close reports whether the message ended in a state that would let the
// parser finish cleanly with no further input. It is legal to call at any
// time; calling it after the message has already finished (or before any
// data was ever offered) always succeeds.
func (p *Parser) Close() error {
	if !p.started || p.finished {
		return nil
	}
	if p.closed {
		return ErrParserProtocolError
	}
	p.closed = true
	switch p.state {
	case phaseSkipPreamble:
		return ErrMissingStartBoundary
	case phaseBody:
		return ErrNoClosingBoundary
	case phaseHeaders:
		return ErrNoBlankLineAfterHeaders
	default:
		return ErrParserProtocolError
	}
}

func (p *Parser) drain() error {
	for {
		switch p.state {
		case phaseSkipPreamble:
			progressed, err := p.stepSkipPreamble()
			if err != nil {
				return err
			}
			if !progressed {
				return nil
			}
		case phaseStartPart:
			p.sink.OnStartPart()
			p.bodyAtStart = true
			p.lastBodyByte = 0
			p.state = phaseHeaders
		case phaseHeaders:
			progressed, err := p.stepHeaders()
			if err != nil {
				return err
			}
			if !progressed {
				return nil
			}
		case phaseBody:
			progressed, err := p.stepBody()
			if err != nil {
				return err
			}
			if !progressed {
				return nil
			}
		case phaseEndPart:
			p.sink.OnEndPart()
			if p.trailerSeen {
				p.state = phaseEndMessage
			} else {
				p.state = phaseStartPart
			}
		case phaseEndMessage:
			p.sink.OnEndMessage()
			p.finished = true
			return nil
		}
	}
}

// window returns the unconsumed portion of the buffer, from position to
// limit, as a flat byte slice.
func (p *Parser) window() ([]byte, error) {
	return p.buf.FlattenRange(p.buf.Position(), p.buf.Limit())
}

func (p *Parser) advance(n int) error {
	return p.buf.SetPosition(p.buf.Position() + n)
}

func (p *Parser) windowTooLarge(n int) bool {
	return p.maxWindow > 0 && n > p.maxWindow
}

func (p *Parser) stepSkipPreamble() (bool, error) {
	window, err := p.window()
	if err != nil {
		return false, err
	}
	idx := p.bm.search(window, 0)
	if idx < 0 {
		safe := len(window) - (len(p.bnd) - 1)
		if safe <= 0 {
			if p.windowTooLarge(len(window)) {
				return false, ErrBoundaryWindowExceeded
			}
			return false, nil
		}
		if err := p.advance(safe); err != nil {
			return false, err
		}
		return true, nil
	}

	after := idx + len(p.bnd)
	rest := window[after:]
	consumed, ok := matchLineEnd(rest)
	if !ok {
		if p.windowTooLarge(len(window)) {
			return false, ErrBoundaryWindowExceeded
		}
		return false, nil
	}
	if consumed < 0 {
		if err := p.advance(idx + 1); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := p.advance(after + consumed); err != nil {
		return false, err
	}
	p.state = phaseStartPart
	return true, nil
}

// matchLineEnd scans rest for optional linear whitespace followed by a
// line terminator (LF or CRLF). It returns the number of bytes consumed
// by the whitespace+terminator, (-1, true) if rest definitively does not
// start a valid line ending, or (_, false) if rest is a prefix that could
// still extend into a valid terminator given more data.
func matchLineEnd(rest []byte) (int, bool) {
	i := 0
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	if i >= len(rest) {
		return 0, false
	}
	if rest[i] == '\n' {
		return i + 1, true
	}
	if rest[i] == '\r' {
		if i+1 >= len(rest) {
			return 0, false
		}
		if rest[i+1] == '\n' {
			return i + 2, true
		}
		return -1, true
	}
	return -1, true
}

func (p *Parser) readLine() (line []byte, consumed int, ok bool) {
	window, err := p.window()
	if err != nil {
		return nil, 0, false
	}
	idx := bytes.IndexByte(window, '\n')
	if idx < 0 {
		return nil, 0, false
	}
	end := idx
	if end > 0 && window[end-1] == '\r' {
		end--
	}
	return window[:end], idx + 1, true
}

func (p *Parser) stepHeaders() (bool, error) {
	for {
		line, consumed, ok := p.readLine()
		if !ok {
			if p.windowTooLarge(p.buf.Remaining()) {
				return false, ErrBoundaryWindowExceeded
			}
			return false, nil
		}
		if len(line) == 0 {
			if err := p.advance(consumed); err != nil {
				return false, err
			}
			p.sink.OnEndHeaders()
			p.state = phaseBody
			p.bodyAtStart = true
			p.lastBodyByte = 0
			return true, nil
		}

		colon := bytes.IndexByte(line, ':')
		var name, value string
		if colon < 0 {
			name = string(bytes.TrimSpace(line))
		} else {
			name = string(bytes.TrimSpace(line[:colon]))
			v := line[colon+1:]
			j := 0
			for j < len(v) && (v[j] == ' ' || v[j] == '\t') {
				j++
			}
			value = string(v[j:])
		}
		if err := p.advance(consumed); err != nil {
			return false, err
		}
		p.sink.OnHeader(name, value)
	}
}

func (p *Parser) stepBody() (bool, error) {
	window, err := p.window()
	if err != nil {
		return false, err
	}
	idx := p.bm.search(window, 0)
	if idx < 0 {
		safe := len(window) - (len(p.bnd) + 1)
		if safe <= 0 {
			return false, nil
		}
		p.emitContent(window[:safe])
		if err := p.advance(safe); err != nil {
			return false, err
		}
		return true, nil
	}

	atLineStart := false
	if idx == 0 {
		atLineStart = p.bodyAtStart || p.lastBodyByte == '\n'
	} else {
		atLineStart = window[idx-1] == '\n'
	}

	if !atLineStart {
		p.emitContent(window[:idx+1])
		if err := p.advance(idx + 1); err != nil {
			return false, err
		}
		return true, nil
	}

	contentEnd := idx
	if contentEnd > 0 && window[contentEnd-1] == '\n' {
		contentEnd--
		if contentEnd > 0 && window[contentEnd-1] == '\r' {
			contentEnd--
		}
	}

	after := idx + len(p.bnd)
	rest := window[after:]

	if len(rest) >= 2 && rest[0] == '-' && rest[1] == '-' {
		p.emitContent(window[:contentEnd])
		if err := p.advance(after + 2); err != nil {
			return false, err
		}
		p.trailerSeen = true
		p.state = phaseEndPart
		return true, nil
	}
	if len(rest) == 1 && rest[0] == '-' {
		// Not enough data yet to know whether this is a "--" trailer: wait
		// for more input without consuming past the safe content prefix, so
		// the whole candidate match is re-examined once more data arrives.
		p.emitContent(window[:contentEnd])
		if err := p.advance(contentEnd); err != nil {
			return false, err
		}
		return false, nil
	}

	consumed, ok := matchLineEnd(rest)
	if !ok {
		// rest is a whitespace-only prefix that could still extend into a
		// valid line terminator: wait for more data, same reasoning as above.
		p.emitContent(window[:contentEnd])
		if err := p.advance(contentEnd); err != nil {
			return false, err
		}
		return false, nil
	}
	if consumed < 0 {
		p.emitContent(window[:idx+1])
		if err := p.advance(idx + 1); err != nil {
			return false, err
		}
		return true, nil
	}

	p.emitContent(window[:contentEnd])
	if err := p.advance(after + consumed); err != nil {
		return false, err
	}
	p.state = phaseEndPart
	return true, nil
}

func (p *Parser) emitContent(data []byte) {
	if len(data) == 0 {
		return
	}
	p.sink.OnContent(data)
	p.lastBodyByte = data[len(data)-1]
	p.bodyAtStart = false
}
