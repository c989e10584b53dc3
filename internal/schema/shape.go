// Package schema provides declarative shape descriptions and structural
// validation for wire messages and tool parameters.
package schema

import "fmt"

// Kind identifies a shape variant.
type Kind string

const (
	KindObject  Kind = "object"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindEnum    Kind = "enum"
	KindConst   Kind = "const"
)

// Shape is a recursive description of what a valid value looks like.
// Exactly one variant applies, selected by Kind; the other fields are
// meaningful only for the variants that use them.
type Shape struct {
	Kind Kind

	// Object variant.
	Properties map[string]*Shape
	Required   []string
	// When true, keys outside Properties are rejected.
	Closed bool

	// Array variant.
	Items *Shape

	// Enum variant.
	Values []interface{}

	// Const variant.
	Literal interface{}
}

// Object returns an open object shape with the given properties.
func Object(props map[string]*Shape, required ...string) *Shape {
	return &Shape{Kind: KindObject, Properties: props, Required: required}
}

// ClosedObject returns an object shape that rejects unknown keys.
func ClosedObject(props map[string]*Shape, required ...string) *Shape {
	s := Object(props, required...)
	s.Closed = true
	return s
}

func String() *Shape  { return &Shape{Kind: KindString} }
func Number() *Shape  { return &Shape{Kind: KindNumber} }
func Boolean() *Shape { return &Shape{Kind: KindBoolean} }

// Array returns an array shape whose elements match items.
func Array(items *Shape) *Shape { return &Shape{Kind: KindArray, Items: items} }

// Enum returns a shape matching any of the listed values.
func Enum(values ...interface{}) *Shape { return &Shape{Kind: KindEnum, Values: values} }

// Const returns a shape matching exactly the given literal.
func Const(literal interface{}) *Shape { return &Shape{Kind: KindConst, Literal: literal} }

// ErrUnsupportedKind is returned when a shape cannot be rendered as
// JSON Schema. Registration should fail fast rather than expose a lossy
// descriptor to clients.
type ErrUnsupportedKind struct {
	Kind Kind
}

func (e *ErrUnsupportedKind) Error() string {
	return fmt.Sprintf("unsupported shape kind: %s", e.Kind)
}

// JSONSchema renders the shape as a plain JSON-Schema-style map for
// exposure through tools/list.
func (s *Shape) JSONSchema() (map[string]interface{}, error) {
	if s == nil {
		return map[string]interface{}{"type": "object"}, nil
	}
	switch s.Kind {
	case KindObject:
		out := map[string]interface{}{"type": "object"}
		if len(s.Properties) > 0 {
			props := make(map[string]interface{}, len(s.Properties))
			for name, sub := range s.Properties {
				rendered, err := sub.JSONSchema()
				if err != nil {
					return nil, err
				}
				props[name] = rendered
			}
			out["properties"] = props
		}
		if len(s.Required) > 0 {
			out["required"] = s.Required
		}
		if s.Closed {
			out["additionalProperties"] = false
		}
		return out, nil
	case KindString:
		return map[string]interface{}{"type": "string"}, nil
	case KindNumber:
		return map[string]interface{}{"type": "number"}, nil
	case KindBoolean:
		return map[string]interface{}{"type": "boolean"}, nil
	case KindArray:
		items, err := s.Items.JSONSchema()
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"type": "array", "items": items}, nil
	case KindEnum:
		return map[string]interface{}{"enum": s.Values}, nil
	case KindConst:
		return map[string]interface{}{"const": s.Literal}, nil
	default:
		return nil, &ErrUnsupportedKind{Kind: s.Kind}
	}
}
