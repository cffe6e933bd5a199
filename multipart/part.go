package multipart

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"reflect"

	"github.com/prantlf/go-sizeio"

	"github.com/zostay/mimeflow/header"
	"github.com/zostay/mimeflow/header/param"
	"github.com/zostay/mimeflow/stream"
)

type partKind int

const (
	kindBuffered partKind = iota
	kindPublisher
	kindEntity
)

// BodyPart is one part of a multipart message: a header set plus content
// that is either already buffered in memory, backed by a chunk publisher,
// or an entity object whose bytes are produced on demand by a registered
// ContentCodec.
type BodyPart struct {
	headers   *header.Fields
	kind      partKind
	buffered  []byte
	publisher stream.Publisher[[]byte]
	entity    any
}

// Headers returns this part's header set.
func (p *BodyPart) Headers() *header.Fields { return p.headers }

// ContentType returns this part's parsed Content-Type, defaulted per RFC
// 7578 section 4.4 when no Content-Type header was present.
func (p *BodyPart) ContentType() (*param.Value, error) {
	return p.headers.ContentType()
}

// ContentDisposition returns this part's parsed Content-Disposition, or
// (nil, nil) if the part carries none.
func (p *BodyPart) ContentDisposition() (*param.Value, error) {
	return p.headers.ContentDisposition()
}

// IsBuffered reports whether this part's bytes have already been
// accumulated into memory.
func (p *BodyPart) IsBuffered() bool { return p.kind == kindBuffered }

// Buffered returns the captured bytes of a buffered part. It returns nil
// for a publisher- or entity-backed part.
func (p *BodyPart) Buffered() []byte {
	if p.kind != kindBuffered {
		return nil
	}
	return p.buffered
}

// ContentPublisher returns a fresh chunk Publisher for this part's
// content, subscribable exactly once.
func (p *BodyPart) ContentPublisher() stream.Publisher[[]byte] {
	switch p.kind {
	case kindPublisher:
		return p.publisher
	case kindEntity:
		if p.entity == nil {
			return errorPublisher{err: fmt.Errorf("multipart: nil entity")}
		}
		codec, ok := codecFor(reflect.TypeOf(p.entity))
		if !ok {
			return errorPublisher{err: ErrNoContentCodec}
		}
		data, err := codec.Encode(p.entity)
		if err != nil {
			return errorPublisher{err: err}
		}
		return staticPublisher{chunks: [][]byte{data}}
	default:
		return staticPublisher{chunks: [][]byte{p.buffered}}
	}
}

// PartBuilder builds a BodyPart one field at a time.
type PartBuilder struct {
	headers *header.Fields
	kind    partKind
	data    []byte
	pub     stream.Publisher[[]byte]
	entity  any
}

// NewPartBuilder returns an empty builder with no headers set.
func NewPartBuilder() *PartBuilder {
	return &PartBuilder{headers: header.New(), kind: kindBuffered}
}

// Header appends a header field.
func (b *PartBuilder) Header(name, value string) *PartBuilder {
	b.headers.Add(name, value)
	return b
}

// ContentDisposition sets this part's Content-Disposition value, built
// from a type and a set of parameters. Parameters are written sorted by
// name, not in any caller-given order.
func (b *PartBuilder) ContentDisposition(kind string, params map[string]string) *PartBuilder {
	v := param.NewWithParams(kind, params)
	b.headers.Set("Content-Disposition", v.String())
	return b
}

// Buffered makes this an in-memory buffered part.
func (b *PartBuilder) Buffered(data []byte) *PartBuilder {
	b.kind = kindBuffered
	b.data = data
	return b
}

// Publisher makes this a publisher-backed part whose content is produced
// by pub when subscribed.
func (b *PartBuilder) Publisher(pub stream.Publisher[[]byte]) *PartBuilder {
	b.kind = kindPublisher
	b.pub = pub
	return b
}

// Entity makes this an entity-backed part: v is serialized at encode time
// by the ContentCodec registered for its concrete type.
func (b *PartBuilder) Entity(v any) *PartBuilder {
	b.kind = kindEntity
	b.entity = v
	return b
}

// Build assembles the configured BodyPart.
func (b *PartBuilder) Build() (*BodyPart, error) {
	if b.kind == kindEntity && b.entity == nil {
		return nil, fmt.Errorf("multipart: nil entity")
	}
	return &BodyPart{
		headers:   b.headers,
		kind:      b.kind,
		buffered:  b.data,
		publisher: b.pub,
		entity:    b.entity,
	}, nil
}

// FromFile builds a publisher-backed BodyPart from the file at path,
// streaming its content in fixed-size chunks instead of reading it into
// memory. Content-Type is inferred from the file extension, falling back
// to the filename-present default when unknown.
func FromFile(fieldName, path string) (*BodyPart, error) {
	rc, err := sizeio.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return fromFileReader(fieldName, filepath.Base(path), rc)
}

// FromFileObject builds a publisher-backed BodyPart from an already
// opened file, taking ownership of it: the file is closed once its
// content has been fully read or the subscription is cancelled.
func FromFileObject(fieldName string, file *os.File) (*BodyPart, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	rc := sizeio.SizeReadCloser(file, stat.Size())
	return fromFileReader(fieldName, stat.Name(), rc)
}

func fromFileReader(fieldName, fileName string, rc io.ReadCloser) (*BodyPart, error) {
	h := header.New()
	v := param.NewWithParams("form-data", map[string]string{
		param.Name:     fieldName,
		param.Filename: fileName,
	})
	h.Set("Content-Disposition", v.String())

	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = header.DefaultOctetStream
	}
	h.Set("Content-Type", contentType)

	return &BodyPart{
		headers:   h,
		kind:      kindPublisher,
		publisher: &filePublisher{r: rc, chunkSize: 32 * 1024},
	}, nil
}
