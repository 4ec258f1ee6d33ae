// Package pointer implements the RFC 6901 JSON Pointer string syntax:
// escaping of reference tokens, parsing a pointer into its tokens, and
// building a pointer back from them. It deliberately stops short of
// resolution against a document; that is the flattener's job.
package pointer

import "strings"

// Escape encodes a single reference token for embedding in a pointer.
// "~" must be escaped before "/" so that the two replacements cannot
// interfere with each other.
func Escape(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}

// Unescape decodes a single reference token. The replacement order is
// the inverse of Escape: "~1" first, then "~0". Running them the other
// way round would turn "~01" into "/".
func Unescape(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}

// Parse splits a pointer into its unescaped reference tokens.
//
// The root pointer "/" parses to an empty token list. A pointer that
// does not start with "/" is malformed; it also parses to an empty
// list rather than an error, so downstream it collides with the root
// case. Callers wanting strict rejection must validate before calling.
func Parse(ptr string) []string {
	if ptr == "" || ptr[0] != '/' {
		return nil
	}

	path := ptr[1:]
	if path == "" {
		return nil
	}

	raw := strings.Split(path, "/")
	segments := make([]string, len(raw))
	for i, seg := range raw {
		segments[i] = Unescape(seg)
	}
	return segments
}

// Build assembles a pointer from unescaped reference tokens. Build()
// with no tokens returns the root pointer "/".
func Build(segments ...string) string {
	if len(segments) == 0 {
		return "/"
	}

	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(Escape(seg))
	}
	return b.String()
}

// IsIndex reports whether a reference token is a plain decimal array
// index: one or more ASCII digits and nothing else. This is the test
// container-type inference rests on, so it must match exactly the set
// of tokens the flattener emits for array positions.
func IsIndex(segment string) bool {
	if segment == "" {
		return false
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
