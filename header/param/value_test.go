package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormData(t *testing.T) {
	v, err := Parse(`form-data; name="f"; filename="a report.txt"`)
	require.NoError(t, err)
	assert.Equal(t, "form-data", v.Value())
	assert.Equal(t, "f", v.FormName())
	assert.Equal(t, "a report.txt", v.Filename())
	assert.True(t, v.HasFilename())
}

func TestParseContentTypeWithBoundary(t *testing.T) {
	v, err := Parse(`multipart/form-data; boundary=XYZ`)
	require.NoError(t, err)
	assert.Equal(t, "multipart", v.Type())
	assert.Equal(t, "form-data", v.Subtype())
	assert.Equal(t, "XYZ", v.Boundary())
}

func TestParseCharset(t *testing.T) {
	v, err := Parse(`text/plain; charset=iso-8859-7`)
	require.NoError(t, err)
	assert.Equal(t, "iso-8859-7", v.Charset())
}

func TestNoFilenameParameter(t *testing.T) {
	v, err := Parse(`form-data; name="f"`)
	require.NoError(t, err)
	assert.False(t, v.HasFilename())
	assert.Equal(t, "", v.Filename())
}

func TestSetDeleteAreImmutable(t *testing.T) {
	v := New("text/plain")
	v2 := v.Set(Charset, "utf-8")
	assert.Equal(t, "", v.Charset())
	assert.Equal(t, "utf-8", v2.Charset())

	v3 := v2.Delete(Charset)
	assert.Equal(t, "", v3.Charset())
	assert.Equal(t, "utf-8", v2.Charset())
}

func TestStringRoundTrips(t *testing.T) {
	v := NewWithParams("form-data", map[string]string{"name": "f"})
	parsed, err := Parse(v.String())
	require.NoError(t, err)
	assert.Equal(t, "form-data", parsed.Value())
	assert.Equal(t, "f", parsed.FormName())
}

func TestClone(t *testing.T) {
	v := NewWithParams("text/plain", map[string]string{"charset": "utf-8"})
	cp := v.Clone()
	cp.ps["charset"] = "latin1"
	assert.Equal(t, "utf-8", v.Charset())
	assert.Equal(t, "latin1", cp.Charset())
}
