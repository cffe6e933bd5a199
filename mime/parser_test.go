package mime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimeflow/buffer"
)

type event struct {
	kind  string
	name  string
	value string
	data  string
}

type recordingSink struct {
	events []event
}

func (s *recordingSink) OnStartMessage() { s.events = append(s.events, event{kind: "StartMessage"}) }
func (s *recordingSink) OnStartPart()    { s.events = append(s.events, event{kind: "StartPart"}) }
func (s *recordingSink) OnHeader(name, value string) {
	s.events = append(s.events, event{kind: "Header", name: name, value: value})
}
func (s *recordingSink) OnEndHeaders() { s.events = append(s.events, event{kind: "EndHeaders"}) }
func (s *recordingSink) OnContent(data []byte) {
	s.events = append(s.events, event{kind: "Content", data: string(data)})
}
func (s *recordingSink) OnEndPart()    { s.events = append(s.events, event{kind: "EndPart"}) }
func (s *recordingSink) OnEndMessage() { s.events = append(s.events, event{kind: "EndMessage"}) }

func (s *recordingSink) kinds() []string {
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.kind
	}
	return out
}

func (s *recordingSink) content() string {
	var out string
	for _, e := range s.events {
		if e.kind == "Content" {
			out += e.data
		}
	}
	return out
}

func TestParserSingleEmptyPart(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	require.NoError(t, p.Offer([]byte("--XYZ\r\n\r\n\r\n--XYZ--")))
	require.NoError(t, p.Close())

	assert.Equal(t, []string{"StartMessage", "StartPart", "EndHeaders", "EndPart", "EndMessage"}, sink.kinds())
	assert.Equal(t, "", sink.content())
}

func TestParserSingleHeaderASCIIBody(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	require.NoError(t, p.Offer([]byte("--XYZ\r\nContent-Type: text/plain\r\n\r\nhello\r\n--XYZ--")))
	require.NoError(t, p.Close())

	assert.Equal(t, []string{
		"StartMessage", "StartPart", "Header", "EndHeaders", "Content", "EndPart", "EndMessage",
	}, sink.kinds())
	assert.Equal(t, "Content-Type", sink.events[2].name)
	assert.Equal(t, "text/plain", sink.events[2].value)
	assert.Equal(t, "hello", sink.content())
}

func TestParserChunkedArrivalMatchesWholeInput(t *testing.T) {
	input := "--XYZ\r\nContent-Type: text/plain\r\n\r\nhello\r\n--XYZ--"

	whole := &recordingSink{}
	pw := NewParser("XYZ", whole)
	require.NoError(t, pw.Offer([]byte(input)))
	require.NoError(t, pw.Close())

	chunked := &recordingSink{}
	pc := NewParser("XYZ", chunked)
	for i := 0; i < len(input); i++ {
		require.NoError(t, pc.Offer([]byte{input[i]}))
	}
	require.NoError(t, pc.Close())

	assert.Equal(t, whole.kinds(), chunked.kinds())
	assert.Equal(t, whole.content(), chunked.content())
}

func TestParserBoundaryLikePayload(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	input := "--XYZ\r\nContent-Disposition: form-data; name=\"f\"\r\n\r\n--XY (not the boundary)\r\n--XYZ--"
	require.NoError(t, p.Offer([]byte(input)))
	require.NoError(t, p.Close())

	assert.Equal(t, "--XY (not the boundary)", sink.content())
	assert.NotContains(t, sink.kinds(), "EndPart-premature")
	assert.Equal(t, []string{
		"StartMessage", "StartPart", "Header", "EndHeaders", "Content", "EndPart", "EndMessage",
	}, sink.kinds())
}

func TestParserTwoPartsFormData(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	input := "--XYZ\r\n" +
		"Content-Disposition: form-data; name=\"a\"\r\n\r\n" +
		"alpha\r\n" +
		"--XYZ\r\n" +
		"Content-Disposition: form-data; name=\"b\"; filename=\"f.bin\"\r\n" +
		"Content-Type: application/octet-stream\r\n\r\n" +
		"\x00\x01\x02\r\n" +
		"--XYZ--"
	require.NoError(t, p.Offer([]byte(input)))
	require.NoError(t, p.Close())

	var parts []string
	var cur string
	inContent := false
	for _, e := range sink.events {
		switch e.kind {
		case "StartPart":
			cur = ""
			inContent = true
		case "Content":
			cur += e.data
		case "EndPart":
			if inContent {
				parts = append(parts, cur)
			}
			inContent = false
		}
	}
	require.Len(t, parts, 2)
	assert.Equal(t, "alpha", parts[0])
	assert.Equal(t, "\x00\x01\x02", parts[1])
}

func TestParserCloseNoClosingBoundary(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	require.NoError(t, p.Offer([]byte("--XYZ\r\nX: 1\r\n\r\nbody without close")))
	assert.ErrorIs(t, p.Close(), ErrNoClosingBoundary)
}

func TestParserCloseMissingStartBoundary(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	require.NoError(t, p.Offer([]byte("garbage preamble without boundary")))
	assert.ErrorIs(t, p.Close(), ErrMissingStartBoundary)
}

func TestParserCloseNoBlankLineAfterHeaders(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	require.NoError(t, p.Offer([]byte("--XYZ\r\nX: 1\r\n")))
	assert.ErrorIs(t, p.Close(), ErrNoBlankLineAfterHeaders)
}

func TestParserOfferAfterFinishedIsProtocolError(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	require.NoError(t, p.Offer([]byte("--XYZ\r\n\r\n\r\n--XYZ--")))
	assert.ErrorIs(t, p.Offer([]byte("more")), ErrParserProtocolError)
}

func TestParserCloseAfterFinishedSucceeds(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	require.NoError(t, p.Offer([]byte("--XYZ\r\n\r\n\r\n--XYZ--")))
	require.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}

func TestParserBoundaryStraddlesOfferCallsNoPartialBoundaryInContent(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	full := "--XYZ\r\nX: 1\r\n\r\nhello\r\n--XYZ--"
	for i := range full {
		require.NoError(t, p.Offer([]byte{full[i]}))
	}
	require.NoError(t, p.Close())
	assert.Equal(t, "hello", sink.content())
	for _, e := range sink.events {
		if e.kind == "Content" {
			assert.NotContains(t, e.data, "--XYZ")
		}
	}
}

func TestParserCompactsConsumedPrefixBetweenOffers(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser("XYZ", sink)

	require.NoError(t, p.Offer([]byte("--XYZ\r\nContent-Type: text/plain\r\n\r\n")))
	// Headers and the preamble are fully consumed by this point, so the
	// buffer should hold only what has not yet been parsed: nothing.
	assert.Equal(t, 0, p.buf.Position())
	assert.Equal(t, 0, p.buf.Capacity())

	require.NoError(t, p.Offer([]byte("hello\r\n--XYZ--")))
	require.NoError(t, p.Close())
	assert.Equal(t, "hello", sink.content())
}

func TestParserWithRegionPoolRecyclesFullyConsumedChunks(t *testing.T) {
	pool := buffer.NewPool()
	sink := &recordingSink{}
	p := NewParser("XYZ", sink, WithRegionPool(pool))

	preamble := []byte("--XYZ\r\nContent-Type: text/plain\r\n\r\n")
	orig := &preamble[0]
	require.NoError(t, p.Offer(preamble))

	got := pool.Get(len(preamble))
	assert.Same(t, orig, &got[0], "the fully consumed first chunk should have been returned to the pool")

	require.NoError(t, p.Offer([]byte("hello\r\n--XYZ--")))
	require.NoError(t, p.Close())
	assert.Equal(t, "hello", sink.content())
}
