package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	cases := map[string]string{
		"plain": "plain",
		"a/b":   "a~1b",
		"a~b":   "a~0b",
		"~1":    "~01",
		"~/":    "~0~1",
		"":      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Escape(in), "Escape(%q)", in)
	}
}

func TestUnescape(t *testing.T) {
	cases := map[string]string{
		"plain": "plain",
		"a~1b":  "a/b",
		"a~0b":  "a~b",
		// "~01" must decode to the literal "~1", not "/": the two
		// replacements run in the inverse order of Escape.
		"~01":  "~1",
		"~0~1": "~/",
	}
	for in, want := range cases {
		assert.Equal(t, want, Unescape(in), "Unescape(%q)", in)
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	keys := []string{"simple", "a/b", "a~b", "~1", "~0", "a/~/b", "//", "~~"}
	for _, k := range keys {
		assert.Equal(t, k, Unescape(Escape(k)), "round trip of %q", k)
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Parse("/a/b"))
	assert.Equal(t, []string{"details", "hobbies", "0"}, Parse("/details/hobbies/0"))
	assert.Equal(t, []string{"a/b", "c~d"}, Parse("/a~1b/c~0d"))
	assert.Equal(t, []string{"a", "", "b"}, Parse("/a//b"))
	assert.Equal(t, []string{"a", ""}, Parse("/a/"))
}

// The root pointer and malformed pointers both parse to an empty token
// list; that collision is the documented behavior, not an accident.
func TestParse_RootAndMalformed(t *testing.T) {
	assert.Empty(t, Parse("/"))
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("no-leading-slash"))
	assert.Empty(t, Parse("a/b"))
}

func TestBuild(t *testing.T) {
	assert.Equal(t, "/", Build())
	assert.Equal(t, "/a/b", Build("a", "b"))
	assert.Equal(t, "/a~1b/c~0d", Build("a/b", "c~d"))
	assert.Equal(t, "/users/0/name", Build("users", "0", "name"))
}

func TestBuildParseRoundTrip(t *testing.T) {
	segments := []string{"odd/key", "~tilde", "0", "plain"}
	assert.Equal(t, segments, Parse(Build(segments...)))
}

func TestIsIndex(t *testing.T) {
	assert.True(t, IsIndex("0"))
	assert.True(t, IsIndex("42"))
	assert.True(t, IsIndex("007"))

	assert.False(t, IsIndex(""))
	assert.False(t, IsIndex("-1"))
	assert.False(t, IsIndex("1.5"))
	assert.False(t, IsIndex("1a"))
	assert.False(t, IsIndex("name"))
	assert.False(t, IsIndex("١٢٣")) // non-ASCII digits are keys, not indices
}
