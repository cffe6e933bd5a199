package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsInsertionOrder(t *testing.T) {
	h := New()
	h.Add("Content-Type", "text/plain")
	h.Add("X-Custom", "1")
	h.Add("X-Custom", "2")

	all := h.All()
	assert.Equal(t, []Field{
		{"Content-Type", "text/plain"},
		{"X-Custom", "1"},
		{"X-Custom", "2"},
	}, all)
}

func TestFieldsCaseInsensitiveLookup(t *testing.T) {
	h := New()
	h.Add("Content-Type", "text/plain")

	v, ok := h.Get("content-type")
	assert.True(t, ok)
	assert.Equal(t, "text/plain", v)
}

func TestFieldsGetMissing(t *testing.T) {
	h := New()
	_, ok := h.Get("X-Nope")
	assert.False(t, ok)
}

func TestFieldsValuesReturnsAllOccurrences(t *testing.T) {
	h := New()
	h.Add("X-Trace", "a")
	h.Add("X-Trace", "b")
	assert.Equal(t, []string{"a", "b"}, h.Values("x-trace"))
}

func TestFieldsSetReplacesAllOccurrences(t *testing.T) {
	h := New()
	h.Add("X-Trace", "a")
	h.Add("Content-Type", "text/plain")
	h.Add("X-Trace", "b")

	h.Set("x-trace", "only")

	assert.Equal(t, []string{"only"}, h.Values("X-Trace"))
	all := h.All()
	assert.Equal(t, "only", all[0].Value)
	assert.Equal(t, "Content-Type", all[1].Name)
}

func TestFieldsDel(t *testing.T) {
	h := New()
	h.Add("X-Trace", "a")
	h.Add("Content-Type", "text/plain")
	h.Del("x-trace")

	assert.Equal(t, 1, h.Len())
	_, ok := h.Get("X-Trace")
	assert.False(t, ok)
}

func TestFieldsCloneIsIndependent(t *testing.T) {
	h := New()
	h.Add("X-Trace", "a")
	cp := h.Clone()
	cp.Add("X-Trace", "b")

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 2, cp.Len())
}

func TestInferContentType(t *testing.T) {
	assert.Equal(t, DefaultOctetStream, InferContentType(true))
	assert.Equal(t, DefaultTextPlain, InferContentType(false))
}

func TestFieldsContentTypeExplicit(t *testing.T) {
	h := New()
	h.Add("Content-Type", "text/html; charset=utf-8")

	ct, err := h.ContentType()
	assert.NoError(t, err)
	assert.Equal(t, "text/html", ct.Value())
	assert.Equal(t, "utf-8", ct.Charset())
}

func TestFieldsContentTypeDefaultsWithoutFilename(t *testing.T) {
	h := New()
	h.Add("Content-Disposition", `form-data; name="a"`)

	ct, err := h.ContentType()
	assert.NoError(t, err)
	assert.Equal(t, DefaultTextPlain, ct.Value())
}

func TestFieldsContentTypeDefaultsWithFilename(t *testing.T) {
	h := New()
	h.Add("Content-Disposition", `form-data; name="b"; filename="f.bin"`)

	ct, err := h.ContentType()
	assert.NoError(t, err)
	assert.Equal(t, DefaultOctetStream, ct.Value())
}

func TestFieldsContentTypeIsMemoized(t *testing.T) {
	h := New()
	h.Add("Content-Type", "text/plain")

	first, err := h.ContentType()
	assert.NoError(t, err)
	second, err := h.ContentType()
	assert.NoError(t, err)
	assert.Same(t, first, second)
}

func TestFieldsContentTypeInvalidatedOnSet(t *testing.T) {
	h := New()
	h.Add("Content-Type", "text/plain")
	_, _ = h.ContentType()

	h.Set("Content-Type", "application/json")
	ct, err := h.ContentType()
	assert.NoError(t, err)
	assert.Equal(t, "application/json", ct.Value())
}

func TestFieldsContentDispositionMissing(t *testing.T) {
	h := New()
	cd, err := h.ContentDisposition()
	assert.NoError(t, err)
	assert.Nil(t, cd)
}

func TestFieldsContentDispositionParsed(t *testing.T) {
	h := New()
	h.Add("Content-Disposition", `form-data; name="f"; filename="a.txt"`)

	cd, err := h.ContentDisposition()
	assert.NoError(t, err)
	assert.Equal(t, "form-data", cd.Value())
	assert.Equal(t, "f", cd.FormName())
	assert.Equal(t, "a.txt", cd.Filename())
}
