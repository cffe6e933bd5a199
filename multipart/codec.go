package multipart

import "reflect"

// ContentCodec serializes and deserializes one Go type to and from raw
// part bytes. The registry lets BodyPart.As resolve a buffered part's
// bytes into a caller's declared type, and lets an entity-backed part's
// object be serialized by the encoder without the encoder needing to know
// about the type itself.
type ContentCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

var codecRegistry = map[reflect.Type]ContentCodec{}

// RegisterCodec associates a ContentCodec with the concrete type of
// sample. Intended to be called from package init in callers that need
// entity-backed parts or typed decoding of buffered parts.
func RegisterCodec(sample any, codec ContentCodec) {
	codecRegistry[reflect.TypeOf(sample)] = codec
}

func codecFor(t reflect.Type) (ContentCodec, bool) {
	c, ok := codecRegistry[t]
	return c, ok
}

// As decodes a buffered BodyPart's content into a value of type T using
// the registered ContentCodec for T. It fails with ErrNotBuffered if p
// carries no in-memory bytes, and ErrNoContentCodec if no codec is
// registered for T.
func As[T any](p *BodyPart) (T, error) {
	var zero T
	if !p.IsBuffered() {
		return zero, ErrNotBuffered
	}
	t := reflect.TypeOf(zero)
	codec, ok := codecFor(t)
	if !ok {
		return zero, ErrNoContentCodec
	}
	var out T
	if err := codec.Decode(p.Buffered(), &out); err != nil {
		return zero, err
	}
	return out, nil
}
