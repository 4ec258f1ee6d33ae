// Package flattener converts between a nested value tree and its flat
// RFC 6901 pointer representation. Flatten and Unflatten are a matched
// pair: for any acyclic tree with no empty containers,
// Unflatten(Flatten(v)) reproduces v.
//
// Both functions are pure. They read only their arguments, allocate
// their own results, and are safe to call concurrently.
package flattener

import (
	"strconv"

	"github.com/mcncl/flatptr/internal/models"
	"github.com/mcncl/flatptr/internal/pointer"
)

// Flatten walks a nested value and returns a flat mapping with one
// entry per leaf, keyed by the leaf's pointer path.
//
// Empty containers contribute no entries, so an empty Object and an
// empty Array flatten identically to nothing; that information is lost
// and Unflatten cannot recover it. A bare leaf at the root likewise
// produces no entries: flattening in this system always starts from a
// container, and there is no single-entry form for a root leaf in this
// direction (Unflatten's "/" case is the only bridge).
//
// Behavior on cyclic structures is undefined.
func Flatten(v models.Value) models.FlatMap {
	out := make(models.FlatMap)
	FlattenInto(v, "/", out)
	return out
}

// FlattenInto is Flatten with an explicit root prefix and caller-owned
// output map, for flattening a subtree under a known pointer location.
// The prefix must end in "/".
func FlattenInto(v models.Value, prefix string, out models.FlatMap) {
	switch node := v.(type) {
	case models.Object:
		for key, val := range node {
			current := prefix + pointer.Escape(key)
			if models.IsContainer(val) {
				FlattenInto(val, current+"/", out)
			} else {
				out[current] = val
			}
		}
	case models.Array:
		for i, item := range node {
			current := prefix + strconv.Itoa(i)
			if models.IsContainer(item) {
				FlattenInto(item, current+"/", out)
			} else {
				out[current] = item
			}
		}
	}
}
