// Package transform normalizes mapping keys before flattening, so a
// snake_case state tree can feed a widget store that expects camelCase
// identifiers (or the reverse on the way back). It runs as its own
// pipeline step; the codec itself never rewrites keys.
package transform

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/flatptr/internal/models"
)

// KeyCase names a supported key naming convention.
type KeyCase string

const (
	CaseNone   KeyCase = "none"
	CaseCamel  KeyCase = "camel"
	CasePascal KeyCase = "pascal"
	CaseSnake  KeyCase = "snake"
	CaseKebab  KeyCase = "kebab"
)

// KeyCaseFromString validates a case name from the CLI or config file.
func KeyCaseFromString(name string) (KeyCase, error) {
	switch KeyCase(strings.ToLower(name)) {
	case CaseNone, "":
		return CaseNone, nil
	case CaseCamel:
		return CaseCamel, nil
	case CasePascal:
		return CasePascal, nil
	case CaseSnake:
		return CaseSnake, nil
	case CaseKebab:
		return CaseKebab, nil
	default:
		return "", fmt.Errorf("unknown key case %q (want none, camel, pascal, snake or kebab)", name)
	}
}

// Caser returns the key rewriting function for a case, or nil for
// CaseNone.
func Caser(kc KeyCase) func(string) string {
	switch kc {
	case CaseCamel:
		return strcase.ToLowerCamel
	case CasePascal:
		return strcase.ToCamel
	case CaseSnake:
		return strcase.ToSnake
	case CaseKebab:
		return strcase.ToKebab
	default:
		return nil
	}
}

// Keys returns a copy of v with every mapping key rewritten by caser.
// Array indices and leaf values pass through untouched. A nil caser
// returns v unchanged.
func Keys(v models.Value, caser func(string) string) models.Value {
	if caser == nil {
		return v
	}
	switch node := v.(type) {
	case models.Object:
		out := make(models.Object, len(node))
		for key, val := range node {
			out[caser(key)] = Keys(val, caser)
		}
		return out
	case models.Array:
		out := make(models.Array, len(node))
		for i, val := range node {
			out[i] = Keys(val, caser)
		}
		return out
	default:
		return v
	}
}
