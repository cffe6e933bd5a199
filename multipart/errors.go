package multipart

import "errors"

var (
	// ErrMissingMultipartContext is returned when a Decoder or Encoder is
	// constructed without a boundary.
	ErrMissingMultipartContext = errors.New("multipart: missing boundary")

	// ErrNotBuffered is returned by As when called on a part that was not
	// built with buffered content.
	ErrNotBuffered = errors.New("multipart: part is not buffered")

	// ErrNoContentCodec is returned by As when no codec is registered for
	// the requested type.
	ErrNoContentCodec = errors.New("multipart: no content codec registered for type")
)
