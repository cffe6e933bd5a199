package encoding

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	_ "golang.org/x/text/encoding/charmap" // registers ISO-8859-* and friends with ianaindex
)

// ErrUnsupportedCharset is returned when neither the direct table nor
// ianaindex recognizes the named charset.
var ErrUnsupportedCharset = errors.New("encoding: unsupported charset")

// Decode transcodes data, encoded in the named charset, into a UTF-8
// string. An empty charset is treated as US-ASCII.
func Decode(charset string, data []byte) (string, error) {
	if charset == "" {
		charset = "us-ascii"
	}
	if enc, ok := directEncoding(charset); ok {
		return decodeDirect(enc, data)
	}
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil || enc == nil {
		return "", ErrUnsupportedCharset
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Encode transcodes s (UTF-8) into the named charset. An empty charset is
// treated as US-ASCII.
func Encode(charset string, s string) ([]byte, error) {
	if charset == "" {
		charset = "us-ascii"
	}
	if enc, ok := directEncoding(charset); ok {
		return encodeDirect(enc, s)
	}
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil || enc == nil {
		return nil, ErrUnsupportedCharset
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// directEncoding is the table, consulted before ianaindex, for the three
// charsets that need no transcoding library at all.
type directKind int

const (
	directNone directKind = iota
	directASCII
	directLatin1
	directUTF8
)

func directEncoding(charset string) (directKind, bool) {
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii":
		return directASCII, true
	case "iso-8859-1", "latin1", "l1":
		return directLatin1, true
	case "utf-8", "utf8":
		return directUTF8, true
	}
	return directNone, false
}

func decodeDirect(kind directKind, data []byte) (string, error) {
	switch kind {
	case directUTF8:
		return string(data), nil
	case directLatin1:
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		return string(runes), nil
	case directASCII:
		for _, b := range data {
			if b > 0x7f {
				return "", ErrUnsupportedCharset
			}
		}
		return string(data), nil
	}
	return "", ErrUnsupportedCharset
}

func encodeDirect(kind directKind, s string) ([]byte, error) {
	switch kind {
	case directUTF8:
		return []byte(s), nil
	case directLatin1:
		out := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 0xff {
				return nil, ErrUnsupportedCharset
			}
			out = append(out, byte(r))
		}
		return out, nil
	case directASCII:
		out := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 0x7f {
				return nil, ErrUnsupportedCharset
			}
			out = append(out, byte(r))
		}
		return out, nil
	}
	return nil, ErrUnsupportedCharset
}
