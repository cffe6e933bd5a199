package header

import (
	"strings"

	"github.com/zostay/mimeflow/header/param"
)

// Field is a single name/value header pair in the order it was added.
type Field struct {
	Name  string
	Value string
}

// Fields is an insertion-ordered multi-map of header fields with
// case-insensitive name lookup, modeled after a field-slice storage
// scheme but stripped of folding and raw-line concerns that do not apply
// to already-unfolded MIME part headers. It also memoizes the parsed
// Content-Type and Content-Disposition values, since both are typically
// read repeatedly (once per accessor call) but change rarely.
type Fields struct {
	items []Field

	ctCached bool
	ctMemo   *param.Value
	ctErr    error

	cdCached bool
	cdMemo   *param.Value
	cdErr    error
}

// New returns an empty Fields.
func New() *Fields {
	return &Fields{}
}

// Add appends a new field, keeping any existing fields of the same name.
func (h *Fields) Add(name, value string) {
	h.items = append(h.items, Field{Name: name, Value: value})
	h.invalidate(name)
}

// invalidate drops the memoized Content-Type/Content-Disposition value
// when a field of that name changes, so the next accessor call re-parses
// the current headers instead of returning a stale memo.
func (h *Fields) invalidate(name string) {
	switch {
	case strings.EqualFold(name, "Content-Type"):
		h.ctCached, h.ctMemo, h.ctErr = false, nil, nil
	case strings.EqualFold(name, "Content-Disposition"):
		h.cdCached, h.cdMemo, h.cdErr = false, nil, nil
	}
}

// Set replaces every existing field named name with a single field holding
// value, at the position of the first occurrence (or appended if name was
// not present).
func (h *Fields) Set(name, value string) {
	for i := range h.items {
		if strings.EqualFold(h.items[i].Name, name) {
			h.items[i].Value = value
			h.removeAllNamedAfter(name, i)
			h.invalidate(name)
			return
		}
	}
	h.Add(name, value)
}

func (h *Fields) removeAllNamedAfter(name string, afterIdx int) {
	kept := h.items[:afterIdx+1]
	for _, f := range h.items[afterIdx+1:] {
		if !strings.EqualFold(f.Name, name) {
			kept = append(kept, f)
		}
	}
	h.items = kept
}

// Get returns the first value stored under name (first(name) in spec
// terms) and whether any field with that name exists.
func (h *Fields) Get(name string) (string, bool) {
	for _, f := range h.items {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every value stored under name, in insertion order.
func (h *Fields) Values(name string) []string {
	var out []string
	for _, f := range h.items {
		if strings.EqualFold(f.Name, name) {
			out = append(out, f.Value)
		}
	}
	return out
}

// Del removes every field named name.
func (h *Fields) Del(name string) {
	kept := h.items[:0:0]
	for _, f := range h.items {
		if !strings.EqualFold(f.Name, name) {
			kept = append(kept, f)
		}
	}
	h.items = kept
	h.invalidate(name)
}

// All returns every field, in insertion order. The returned slice is a
// copy; mutating it does not affect h.
func (h *Fields) All() []Field {
	out := make([]Field, len(h.items))
	copy(out, h.items)
	return out
}

// Len returns the number of fields stored, counting duplicates.
func (h *Fields) Len() int { return len(h.items) }

// Clone returns a deep copy.
func (h *Fields) Clone() *Fields {
	nh := &Fields{items: make([]Field, len(h.items))}
	copy(nh.items, h.items)
	return nh
}

// ContentType returns this field set's parsed Content-Type value,
// memoized after the first call. When no Content-Type field is present,
// one is synthesized via InferContentType, using the presence of a
// filename parameter on Content-Disposition to pick the default, per RFC
// 7578 section 4.4.
func (h *Fields) ContentType() (*param.Value, error) {
	if h.ctCached {
		return h.ctMemo, h.ctErr
	}
	h.ctCached = true
	if v, ok := h.Get("Content-Type"); ok {
		h.ctMemo, h.ctErr = param.Parse(v)
		return h.ctMemo, h.ctErr
	}
	cd, err := h.ContentDisposition()
	if err != nil {
		h.ctErr = err
		return nil, err
	}
	h.ctMemo = param.New(InferContentType(cd != nil && cd.HasFilename()))
	return h.ctMemo, nil
}

// ContentDisposition returns this field set's parsed Content-Disposition
// value, memoized after the first call. It returns (nil, nil) when no
// Content-Disposition field is present.
func (h *Fields) ContentDisposition() (*param.Value, error) {
	if h.cdCached {
		return h.cdMemo, h.cdErr
	}
	h.cdCached = true
	v, ok := h.Get("Content-Disposition")
	if !ok {
		return nil, nil
	}
	h.cdMemo, h.cdErr = param.Parse(v)
	return h.cdMemo, h.cdErr
}
