// Package schema describes the JSON shapes requested from a language model,
// renders them into prompt text and validates what comes back.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the JSON type of a field.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Field describes one property. An object without Fields is a free-form map.
type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	Description string
	Min         *float64
	Max         *float64
	Enum        []string
	Items       *Field
	Fields      []Field
}

// Schema is a named top-level object.
type Schema struct {
	Name        string
	Description string
	Fields      []Field
}

// New returns a schema with the given top-level fields.
func New(name string, fields ...Field) Schema {
	return Schema{Name: name, Fields: fields}
}

func String(name string) Field { return Field{Name: name, Kind: KindString} }

func Integer(name string) Field { return Field{Name: name, Kind: KindInteger} }

func Number(name string) Field { return Field{Name: name, Kind: KindNumber} }

func Boolean(name string) Field { return Field{Name: name, Kind: KindBoolean} }

// Array is a list of item. The item name is only used in violation paths.
func Array(name string, item Field) Field {
	item.Required = true
	return Field{Name: name, Kind: KindArray, Items: &item}
}

// Strings is shorthand for a list of strings.
func Strings(name string) Field {
	return Array(name, String("item"))
}

func Object(name string, fields ...Field) Field {
	return Field{Name: name, Kind: KindObject, Fields: fields}
}

// Map is a free-form object.
func Map(name string) Field {
	return Field{Name: name, Kind: KindObject}
}

func (f Field) Req() Field {
	f.Required = true
	return f
}

func (f Field) Desc(description string) Field {
	f.Description = description
	return f
}

func (f Field) Range(min, max float64) Field {
	f.Min = &min
	f.Max = &max
	return f
}

func (f Field) OneOf(values ...string) Field {
	f.Enum = values
	return f
}

// WithDescription returns a copy of s with a description.
func (s Schema) WithDescription(description string) Schema {
	s.Description = description
	return s
}

// JSON renders the schema as an indented JSON-Schema document.
func (s Schema) JSON() string {
	doc := objectSchema(s.Fields)
	if s.Name != "" {
		doc["title"] = s.Name
	}
	if s.Description != "" {
		doc["description"] = s.Description
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Only maps, slices, strings and float64s are marshalled.
		panic(fmt.Sprintf("marshal schema %s: %v", s.Name, err))
	}
	return string(data)
}

// Prompt wraps a user request with the schema and strict output instructions.
func Prompt(s Schema, request string) string {
	var b strings.Builder
	b.WriteString("You must respond with valid JSON that matches this exact schema:\n")
	b.WriteString(s.JSON())
	b.WriteString("\n\nUser request: ")
	b.WriteString(strings.TrimSpace(request))
	b.WriteString("\n\nRespond only with valid JSON, no other text or formatting.")
	return b.String()
}

func objectSchema(fields []Field) map[string]any {
	doc := map[string]any{"type": string(KindObject)}
	if len(fields) == 0 {
		return doc
	}

	props := make(map[string]any, len(fields))
	var required []string
	for _, f := range fields {
		props[f.Name] = fieldSchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc["properties"] = props
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func fieldSchema(f Field) map[string]any {
	var doc map[string]any
	switch f.Kind {
	case KindObject:
		doc = objectSchema(f.Fields)
	case KindArray:
		doc = map[string]any{"type": string(KindArray)}
		if f.Items != nil {
			doc["items"] = fieldSchema(*f.Items)
		}
	default:
		doc = map[string]any{"type": string(f.Kind)}
	}

	if !f.Required && f.Kind != KindArray {
		doc["type"] = []string{string(f.Kind), "null"}
	}
	if f.Description != "" {
		doc["description"] = f.Description
	}
	if len(f.Enum) > 0 {
		doc["enum"] = f.Enum
	}
	if f.Min != nil {
		doc["minimum"] = *f.Min
	}
	if f.Max != nil {
		doc["maximum"] = *f.Max
	}
	return doc
}
