package models

// Value is a generic type to represent any JSON-compatible value.
// This can be a string, number, boolean, null, Object, or Array.
type Value interface{}

// Object represents a JSON object, which is a map of strings to Values.
type Object map[string]Value

// Array represents a JSON array, which is a slice of Values.
type Array []Value

// FlatMap is a single-level mapping from RFC 6901 pointer path to leaf
// value. It holds exactly one entry per leaf position of the nested
// structure it was produced from; containers never appear as values,
// except under the root pointer "/" when the whole structure is a
// single leaf.
type FlatMap map[string]Value

// IsContainer reports whether v is an Object or an Array, as opposed to
// a primitive leaf.
func IsContainer(v Value) bool {
	switch v.(type) {
	case Object, Array:
		return true
	default:
		return false
	}
}
