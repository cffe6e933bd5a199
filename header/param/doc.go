// Package param parses and serializes MIME parameterized header values —
// Content-Type and Content-Disposition — of the form
// `token; key=value; key="quoted value"`, built directly on the standard
// library's mime.ParseMediaType/FormatMediaType rather than a hand-rolled
// tokenizer.
package param
