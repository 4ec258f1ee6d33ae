package flattener

import (
	"strconv"

	"github.com/mcncl/flatptr/internal/models"
	"github.com/mcncl/flatptr/internal/pointer"
)

// entry is one flat-map pair with its pointer already parsed into
// reference tokens. Unflatten works on these so that each container is
// typed from the full set of its child tokens at once, independent of
// map iteration order.
type entry struct {
	segments []string
	value    models.Value
}

// Unflatten reconstructs a nested value from a flat pointer mapping.
//
// Container types are inferred per position, purely from the sibling
// tokens at that position: if every sibling token is a decimal digit
// string the container is an Array sized max index + 1 with nil
// placeholders at unreferenced indices, otherwise it is an Object.
// The inference never looks at values, so a mapping whose keys were
// all digit strings comes back as an Array; that conflation is
// accepted, not an error. A digit token too large for an int cannot
// address an array slot, so a container holding one is built as an
// Object — every input entry lands somewhere, none are dropped.
//
// An empty input returns an empty Object. If the input's only entry is
// the root pointer "/", its value is returned as a bare leaf. Pointers
// that do not start with "/" parse to an empty token list and are
// folded into that root-leaf case rather than rejected; when they
// coexist with well-formed pointers the well-formed ones win.
func Unflatten(fm models.FlatMap) models.Value {
	if len(fm) == 0 {
		return models.Object{}
	}

	entries := make([]entry, 0, len(fm))
	var root *entry
	for ptr, val := range fm {
		e := entry{segments: pointer.Parse(ptr), value: val}
		if len(e.segments) == 0 {
			root = &e
			continue
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return root.value
	}
	return buildContainer(entries)
}

// buildContainer assembles one container from entries that all carry at
// least one remaining token, recursing for every child that is itself a
// container. This is the bottom-up tagged construction: each call
// returns a finished Object, Array, or leaf, and the caller slots it
// into its own container without inspecting it further.
func buildContainer(entries []entry) models.Value {
	groups := make(map[string][]entry)
	allIndices := true

	for _, e := range entries {
		head := e.segments[0]
		groups[head] = append(groups[head], entry{segments: e.segments[1:], value: e.value})
		if !pointer.IsIndex(head) {
			allIndices = false
		} else if _, err := strconv.Atoi(head); err != nil {
			// A digit run too large for int cannot be an array index;
			// fall back to an Object so the entry survives.
			allIndices = false
		}
	}

	if allIndices {
		maxIndex := 0
		for head := range groups {
			if i, _ := strconv.Atoi(head); i > maxIndex {
				maxIndex = i
			}
		}
		arr := make(models.Array, maxIndex+1)
		for head, children := range groups {
			i, _ := strconv.Atoi(head)
			arr[i] = buildChild(children)
		}
		return arr
	}

	obj := make(models.Object, len(groups))
	for head, children := range groups {
		obj[head] = buildChild(children)
	}
	return obj
}

// buildChild resolves the entries sharing one token prefix into the
// value stored at that position: a direct leaf when the path ends
// here, or a nested container built from the deeper entries. When a
// leaf and deeper paths collide at the same position the deeper paths
// win; colliding pointers are a caller precondition violation and only
// determinism is promised.
func buildChild(children []entry) models.Value {
	deeper := children[:0:0]
	var leaf models.Value
	hasLeaf := false
	for _, c := range children {
		if len(c.segments) == 0 {
			leaf = c.value
			hasLeaf = true
		} else {
			deeper = append(deeper, c)
		}
	}

	if len(deeper) == 0 {
		if !hasLeaf {
			return nil
		}
		return leaf
	}
	return buildContainer(deeper)
}
