package mime

import (
	"fmt"
	"io"

	"github.com/zostay/mimeflow/header"
)

// ContentWriter serializes a single part's body to w. Implementations act
// as the encoder's "writer context" collaborator: the encoder never
// inspects or transcodes content itself, it only frames it
// between a part's headers and the next boundary.
type ContentWriter interface {
	WriteContent(w io.Writer) error
}

// ContentWriterFunc adapts a plain function to a ContentWriter.
type ContentWriterFunc func(w io.Writer) error

func (f ContentWriterFunc) WriteContent(w io.Writer) error { return f(w) }

// Encoder serializes a sequence of parts as a MIME multipart body. It is
// single-use: call EncodePart once per part in order, then Close exactly
// once to emit the closing boundary. No preamble or epilogue is ever
// written.
type Encoder struct {
	bnd    []byte
	w      io.Writer
	closed bool
}

// NewEncoder builds an Encoder writing to w, using the given boundary
// value (without the leading "--").
func NewEncoder(w io.Writer, boundary string) *Encoder {
	return &Encoder{
		bnd: append([]byte("--"), boundary...),
		w:   w,
	}
}

// EncodePart writes one part: the boundary delimiter line, the headers in
// insertion order, the blank line, the part's content (delegated to
// content), and the trailing CRLF before the next delimiter.
func (e *Encoder) EncodePart(headers *header.Fields, content ContentWriter) error {
	if e.closed {
		return fmt.Errorf("mime: EncodePart called after Close")
	}
	if err := e.writeLine(e.bnd); err != nil {
		return err
	}
	for _, f := range headers.All() {
		if err := e.writeLine([]byte(f.Name + ":" + f.Value)); err != nil {
			return err
		}
	}
	if _, err := e.w.Write(crlf); err != nil {
		return err
	}
	if content != nil {
		if err := content.WriteContent(e.w); err != nil {
			return err
		}
	}
	_, err := e.w.Write(crlf)
	return err
}

// Close writes the closing boundary. No further calls to EncodePart are
// permitted afterward.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	_, err := e.w.Write(append(append([]byte{}, e.bnd...), '-', '-'))
	return err
}

var crlf = []byte{'\r', '\n'}

func (e *Encoder) writeLine(b []byte) error {
	if _, err := e.w.Write(b); err != nil {
		return err
	}
	_, err := e.w.Write(crlf)
	return err
}
