package parser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/flatptr/internal/errors"
	"github.com/mcncl/flatptr/internal/models"
)

func TestFormatFromString(t *testing.T) {
	for name, want := range map[string]Format{
		"json": FormatJSON,
		"JSON": FormatJSON,
		"yaml": FormatYAML,
		"yml":  FormatYAML,
		"YAML": FormatYAML,
	} {
		got, err := FormatFromString(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := FormatFromString("toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownFormat)
}

func TestParseString_JSONObject(t *testing.T) {
	v, err := ParseString(`{"name": "John", "age": 30, "tags": ["a", "b"], "photo": null}`, FormatJSON)
	require.NoError(t, err)

	obj, ok := v.(models.Object)
	require.True(t, ok, "root should normalize to models.Object, got %T", v)

	assert.Equal(t, "John", obj["name"])
	assert.Equal(t, json.Number("30"), obj["age"], "numbers must stay json.Number")
	assert.Equal(t, models.Array{"a", "b"}, obj["tags"])
	assert.Nil(t, obj["photo"])
}

func TestParseString_JSONArrayRoot(t *testing.T) {
	v, err := ParseString(`[1, "two", {"three": 3}]`, FormatJSON)
	require.NoError(t, err)

	arr, ok := v.(models.Array)
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.Equal(t, models.Object{"three": json.Number("3")}, arr[2])
}

func TestParseString_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := ParseString(input, FormatJSON)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrEmptyInput)
	}
}

func TestParseString_InvalidJSON(t *testing.T) {
	_, err := ParseString(`{"name": `, FormatJSON)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeParsing, appErr.Type)
}

func TestParseString_TrailingData(t *testing.T) {
	_, err := ParseString(`{"a": 1} {"b": 2}`, FormatJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMultipleDocuments)
}

func TestParseString_YAML(t *testing.T) {
	input := `
name: John
details:
  age: 25
  hobbies:
    - reading
    - coding
`
	v, err := ParseString(input, FormatYAML)
	require.NoError(t, err)

	obj, ok := v.(models.Object)
	require.True(t, ok, "YAML root should normalize to models.Object, got %T", v)
	assert.Equal(t, "John", obj["name"])

	details, ok := obj["details"].(models.Object)
	require.True(t, ok, "nested YAML mapping should normalize, got %T", obj["details"])
	assert.EqualValues(t, 25, details["age"])
	assert.Equal(t, models.Array{"reading", "coding"}, details["hobbies"])
}

func TestParseFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "input.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok": true}`), 0644))

	v, err := ParseFile(path, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, models.Object{"ok": true}, v)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.json"), FormatJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

func TestParseFile_Empty(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := ParseFile(path, FormatJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileEmpty)
}

func TestParseFlatMap(t *testing.T) {
	fm, err := ParseFlatMap(strings.NewReader(`{"/name": "John", "/age": 30}`), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, models.FlatMap{
		"/name": "John",
		"/age":  json.Number("30"),
	}, fm)
}

func TestParseFlatMap_RejectsNestedValues(t *testing.T) {
	_, err := ParseFlatMap(strings.NewReader(`{"/user": {"name": "John"}}`), FormatJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFlat)
}

func TestParseFlatMap_RejectsNonObjectRoot(t *testing.T) {
	_, err := ParseFlatMap(strings.NewReader(`[1, 2, 3]`), FormatJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFlat)
}

func TestNormalize_StringifiesNonStringMapKeys(t *testing.T) {
	raw := map[interface{}]interface{}{
		1:      "one",
		"name": "John",
	}

	v := Normalize(raw)

	assert.Equal(t, models.Object{"1": "one", "name": "John"}, v)
}
