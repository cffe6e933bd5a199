// Package header provides an insertion-ordered, case-insensitive-lookup
// multi-map for MIME part headers, plus Content-Type inference rules for
// multipart/form-data parts (RFC 7578 section 4.4).
//
// Unlike a full RFC 5322 message header, a MIME part header as produced by
// the parser in this module is already unfolded: one name/value pair per
// line. The parser copies the line's bytes into the Go string unchanged; it
// does not decode them as ISO-8859-1 or any other charset, so a non-ASCII
// byte stays a raw byte in the string. Fields carries no folding or raw-line
// preservation machinery as a result; header/param and header/encoding
// handle the structured parsing and charset transcoding of individual
// values.
package header
