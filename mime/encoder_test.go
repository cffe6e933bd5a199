package mime

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimeflow/header"
)

func TestEncoderSinglePart(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, "XYZ")

	h := header.New()
	h.Add("Content-Type", "text/plain")

	content := ContentWriterFunc(func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	})

	require.NoError(t, enc.EncodePart(h, content))
	require.NoError(t, enc.Close())

	assert.Equal(t,
		"--XYZ\r\nContent-Type:text/plain\r\n\r\nhello\r\n--XYZ--",
		buf.String(),
	)
}

func TestEncoderRoundTripsThroughParser(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, "XYZ")

	h1 := header.New()
	h1.Add("Content-Disposition", `form-data; name="a"`)
	h2 := header.New()
	h2.Add("Content-Disposition", `form-data; name="b"; filename="f.bin"`)

	require.NoError(t, enc.EncodePart(h1, ContentWriterFunc(func(w io.Writer) error {
		_, err := w.Write([]byte("alpha"))
		return err
	})))
	require.NoError(t, enc.EncodePart(h2, ContentWriterFunc(func(w io.Writer) error {
		_, err := w.Write([]byte{0, 1, 2})
		return err
	})))
	require.NoError(t, enc.Close())

	sink := &recordingSink{}
	p := NewParser("XYZ", sink)
	require.NoError(t, p.Offer(buf.Bytes()))
	require.NoError(t, p.Close())

	assert.Equal(t, "alpha\x00\x01\x02", sink.content())
}

func TestEncodePartAfterCloseFails(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, "XYZ")
	require.NoError(t, enc.Close())

	h := header.New()
	err := enc.EncodePart(h, nil)
	assert.Error(t, err)
}
