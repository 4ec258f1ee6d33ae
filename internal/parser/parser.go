package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	yaml "github.com/goccy/go-yaml"

	"github.com/mcncl/flatptr/internal/errors"
	"github.com/mcncl/flatptr/internal/models"
)

// Format identifies a supported input or output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromString validates a format name from the CLI or config file.
func FormatFromString(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.NewInputError(fmt.Sprintf("unsupported format %q (want json or yaml)", name), errors.ErrUnknownFormat)
	}
}

// Parse decodes a single document from reader into a normalized value
// tree: containers become models.Object / models.Array at every depth
// and JSON numbers stay json.Number so they re-encode without float
// drift.
func Parse(reader io.Reader, format Format) (models.Value, error) {
	switch format {
	case FormatYAML:
		return parseYAML(reader)
	default:
		return parseJSON(reader)
	}
}

func parseJSON(reader io.Reader) (models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	var root models.Value
	if err := decoder.Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidInput,
			)
		}
		return nil, errors.NewParsingError("failed to decode JSON", err)
	}

	// A flat map is a single document; trailing values are a caller
	// mistake we surface rather than silently drop.
	if decoder.More() {
		var trailing interface{}
		if err := decoder.Decode(&trailing); err != nil {
			if !stderrors.Is(err, io.EOF) {
				return nil, errors.NewParsingError("invalid trailing data after first JSON value", err)
			}
		} else {
			return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleDocuments)
		}
	}

	return Normalize(root), nil
}

func parseYAML(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read YAML input", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	var root interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.NewParsingError("failed to decode YAML", err)
	}
	return Normalize(root), nil
}

// Normalize converts raw decoder output into the model types. YAML
// decoders can produce map[interface{}]interface{} for mapping nodes;
// non-string keys are stringified so the tree is always pointer
// addressable.
func Normalize(val models.Value) models.Value {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.Object, len(v))
		for key, value := range v {
			obj[key] = Normalize(value)
		}
		return obj
	case models.Object:
		obj := make(models.Object, len(v))
		for key, value := range v {
			obj[key] = Normalize(value)
		}
		return obj
	case map[interface{}]interface{}:
		obj := make(models.Object, len(v))
		for key, value := range v {
			obj[fmt.Sprintf("%v", key)] = Normalize(value)
		}
		return obj
	case []interface{}:
		arr := make(models.Array, len(v))
		for i, value := range v {
			arr[i] = Normalize(value)
		}
		return arr
	case models.Array:
		arr := make(models.Array, len(v))
		for i, value := range v {
			arr[i] = Normalize(value)
		}
		return arr
	default:
		return v
	}
}

// ParseString parses a single document held in a string.
func ParseString(input string, format Format) (models.Value, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(input), format)
}

// ParseFile parses a single document from a file path.
func ParseFile(filePath string, format Format) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file, format)
}

// ParseFlatMap decodes a document that must be a flat pointer mapping:
// a single-level object whose values are all leaves. Used on the
// unflatten path, where a nested value would indicate the caller mixed
// up the direction.
func ParseFlatMap(reader io.Reader, format Format) (models.FlatMap, error) {
	root, err := Parse(reader, format)
	if err != nil {
		return nil, err
	}
	return FlatMapFromValue(root)
}

// FlatMapFromValue checks an already-parsed value for flat-map shape.
func FlatMapFromValue(root models.Value) (models.FlatMap, error) {
	obj, ok := root.(models.Object)
	if !ok {
		return nil, errors.NewPointerError("flat input must be a single-level object keyed by pointer paths", errors.ErrNotFlat)
	}
	fm := make(models.FlatMap, len(obj))
	for ptr, val := range obj {
		if models.IsContainer(val) {
			return nil, errors.NewPointerError(
				fmt.Sprintf("flat entry %q holds a nested container; flat maps may only hold leaf values", ptr),
				errors.ErrNotFlat,
			)
		}
		fm[ptr] = val
	}
	return fm, nil
}
