package mime

import "errors"

var (
	// ErrParserProtocolError is returned by Offer or Close when called in a
	// state that does not permit the call.
	ErrParserProtocolError = errors.New("mime: parser protocol error")

	// ErrMissingStartBoundary is returned by Close when the stream ended
	// while still searching the preamble for the first boundary.
	ErrMissingStartBoundary = errors.New("mime: missing start boundary")

	// ErrNoClosingBoundary is returned by Close when the stream ended
	// mid-body, before a closing boundary was found.
	ErrNoClosingBoundary = errors.New("mime: no closing boundary")

	// ErrNoBlankLineAfterHeaders is returned by Close when the stream ended
	// mid-headers, before the blank line terminating them was found.
	ErrNoBlankLineAfterHeaders = errors.New("mime: no blank line found after headers")

	// ErrBoundaryWindowExceeded is returned when a single unterminated
	// header line or preamble run exceeds the configured maximum boundary
	// window, guarding against unbounded buffering on malformed input.
	ErrBoundaryWindowExceeded = errors.New("mime: boundary search window exceeded configured maximum")
)
