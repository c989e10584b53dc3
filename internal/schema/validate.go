package schema

import (
	"fmt"
	"sort"
	"strings"
)

// RootPath is the synthetic path for top-level validation failures.
const RootPath = "root"

// FieldError is a single path-qualified validation failure.
type FieldError struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Result holds the outcome of validating a value against a shape.
// All violations are accumulated; validation never short-circuits.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// Validate walks value against the shape and accumulates every violation.
// It never panics, regardless of input; depth is bounded by the shape
// description, which is static.
func Validate(value interface{}, shape *Shape) *Result {
	result := &Result{Valid: true, Errors: []FieldError{}}
	if shape == nil {
		return result
	}
	validateAt(value, shape, RootPath, result)
	result.Valid = len(result.Errors) == 0
	return result
}

func validateAt(value interface{}, shape *Shape, path string, result *Result) {
	switch shape.Kind {
	case KindConst:
		if !literalEqual(value, shape.Literal) {
			result.Errors = append(result.Errors, FieldError{
				Path:     path,
				Message:  "Expected constant value",
				Expected: fmt.Sprintf("%v", shape.Literal),
				Received: fmt.Sprintf("%v", value),
			})
		}

	case KindEnum:
		for _, candidate := range shape.Values {
			if literalEqual(value, candidate) {
				return
			}
		}
		rendered := make([]string, len(shape.Values))
		for i, candidate := range shape.Values {
			rendered[i] = fmt.Sprintf("%v", candidate)
		}
		result.Errors = append(result.Errors, FieldError{
			Path:     path,
			Message:  "Value must be one of: " + strings.Join(rendered, ", "),
			Received: fmt.Sprintf("%v", value),
		})

	case KindObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			result.Errors = append(result.Errors, FieldError{
				Path:     path,
				Message:  "Expected object",
				Expected: "object",
				Received: typeName(value),
			})
			return
		}
		for _, name := range shape.Required {
			if _, present := obj[name]; !present {
				result.Errors = append(result.Errors, FieldError{
					Path:    path + "." + name,
					Message: "Missing required property: " + name,
				})
			}
		}
		// Deterministic error order for map iteration.
		keys := make([]string, 0, len(obj))
		for key := range obj {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if sub, declared := shape.Properties[key]; declared {
				validateAt(obj[key], sub, path+"."+key, result)
			}
		}
		if shape.Closed {
			for _, key := range keys {
				if _, declared := shape.Properties[key]; !declared {
					result.Errors = append(result.Errors, FieldError{
						Path:    path + "." + key,
						Message: "Unexpected property: " + key,
					})
				}
			}
		}

	case KindArray:
		items, ok := value.([]interface{})
		if !ok {
			result.Errors = append(result.Errors, FieldError{
				Path:     path,
				Message:  "Expected array",
				Expected: "array",
				Received: typeName(value),
			})
			return
		}
		if shape.Items == nil {
			return
		}
		for i, item := range items {
			validateAt(item, shape.Items, fmt.Sprintf("%s[%d]", path, i), result)
		}

	case KindString:
		if _, ok := value.(string); !ok {
			result.Errors = append(result.Errors, FieldError{
				Path:     path,
				Message:  "Expected string",
				Expected: "string",
				Received: typeName(value),
			})
		}

	case KindNumber:
		if !isNumber(value) {
			result.Errors = append(result.Errors, FieldError{
				Path:     path,
				Message:  "Expected number",
				Expected: "number",
				Received: typeName(value),
			})
		}

	case KindBoolean:
		if _, ok := value.(bool); !ok {
			result.Errors = append(result.Errors, FieldError{
				Path:     path,
				Message:  "Expected boolean",
				Expected: "boolean",
				Received: typeName(value),
			})
		}
	}
}

// literalEqual compares a decoded value against a shape literal, treating
// all numeric representations as equal when their values match.
func literalEqual(value, literal interface{}) bool {
	if a, aok := asFloat(value); aok {
		if b, bok := asFloat(literal); bok {
			return a == b
		}
		return false
	}
	return value == literal
}

func isNumber(value interface{}) bool {
	_, ok := asFloat(value)
	return ok
}

func asFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// typeName reports the JSON-level type of a decoded value.
func typeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		if isNumber(value) {
			return "number"
		}
		return fmt.Sprintf("%T", value)
	}
}
