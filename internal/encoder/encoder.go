// Package encoder renders codec results back to text. It is the last
// stage of the pipeline: whatever the flattener produced is serialized
// here, deterministically, so repeated runs over the same input are
// byte-identical.
package encoder

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	yaml "github.com/goccy/go-yaml"

	"github.com/mcncl/flatptr/internal/errors"
	"github.com/mcncl/flatptr/internal/models"
	"github.com/mcncl/flatptr/internal/parser"
)

// Encoder renders values and flat maps as JSON or YAML text
type Encoder struct {
	// Indent is the number of spaces per nesting level. Zero means
	// compact output for JSON; YAML always indents and treats zero as
	// the default of two.
	Indent int
}

// NewEncoder creates an Encoder with the default two-space indent
func NewEncoder() *Encoder {
	return &Encoder{Indent: 2}
}

// EncodeValue renders a nested value in the requested format.
func (e *Encoder) EncodeValue(v models.Value, format parser.Format) (string, error) {
	if format == parser.FormatYAML {
		return e.encodeYAML(denumber(v))
	}
	return e.encodeJSON(v)
}

// EncodeFlat renders a flat pointer mapping with its keys in sorted
// pointer order. encoding/json sorts map keys on its own; the YAML
// path goes through an ordered MapSlice to get the same guarantee.
func (e *Encoder) EncodeFlat(fm models.FlatMap, format parser.Format) (string, error) {
	if format == parser.FormatYAML {
		keys := make([]string, 0, len(fm))
		for k := range fm {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		ordered := make(yaml.MapSlice, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, yaml.MapItem{Key: k, Value: denumber(fm[k])})
		}
		return e.encodeYAML(ordered)
	}
	return e.encodeJSON(map[string]models.Value(fm))
}

func (e *Encoder) encodeJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if e.Indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", e.Indent))
	}
	if err := enc.Encode(v); err != nil {
		return "", errors.NewEncodeError("failed to encode JSON output", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (e *Encoder) encodeYAML(v interface{}) (string, error) {
	opts := []yaml.EncodeOption{}
	if e.Indent > 0 {
		opts = append(opts, yaml.Indent(e.Indent))
	}
	out, err := yaml.MarshalWithOptions(v, opts...)
	if err != nil {
		return "", errors.NewEncodeError("failed to encode YAML output", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// denumber rewrites json.Number leaves as native ints or floats so the
// YAML encoder emits them as number scalars instead of quoted strings.
func denumber(v models.Value) models.Value {
	switch node := v.(type) {
	case json.Number:
		if i, err := node.Int64(); err == nil {
			return i
		}
		if f, err := node.Float64(); err == nil {
			return f
		}
		return node.String()
	case models.Object:
		out := make(models.Object, len(node))
		for k, val := range node {
			out[k] = denumber(val)
		}
		return out
	case models.Array:
		out := make(models.Array, len(node))
		for i, val := range node {
			out[i] = denumber(val)
		}
		return out
	default:
		return v
	}
}
