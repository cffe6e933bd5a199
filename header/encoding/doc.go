// Package encoding transcodes MIME header and part-content text between a
// named charset and UTF-8. A small set of charsets (US-ASCII, ISO-8859-1,
// UTF-8) is handled directly, without a lookup; every other name is
// resolved through golang.org/x/text/encoding/ianaindex plus the charmap
// encoding tables.
package encoding
