package header

const (
	// DefaultOctetStream is the Content-Type assumed for a part whose
	// Content-Disposition carries a filename but no explicit Content-Type.
	DefaultOctetStream = "application/octet-stream"

	// DefaultTextPlain is the Content-Type assumed for a part with neither
	// an explicit Content-Type nor a filename.
	DefaultTextPlain = "text/plain"
)

// InferContentType applies RFC 7578 section 4.4: a part with a filename parameter
// on its Content-Disposition defaults to application/octet-stream when no
// Content-Type was given; otherwise it defaults to text/plain.
func InferContentType(hasFilename bool) string {
	if hasFilename {
		return DefaultOctetStream
	}
	return DefaultTextPlain
}
