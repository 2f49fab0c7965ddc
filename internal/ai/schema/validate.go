package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema     string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s does not match schema: %s", e.Schema, strings.Join(e.Violations, "; "))
}

// Validate checks v against the schema and returns a normalised copy.
//
// Missing or null optional lists become empty lists, optional nulls are dropped,
// unknown keys are ignored, and scalar values are coerced where the JSON
// representation is unambiguous ("4" for an integer, true for "yes").
func (s Schema) Validate(v any) (map[string]any, error) {
	root, ok := v.(map[string]any)
	if !ok {
		return nil, &ValidationError{Schema: s.Name, Violations: []string{fmt.Sprintf("root: expected object, got %s", typeName(v))}}
	}

	vd := &validator{}
	out := vd.object("", s.Fields, root)
	if len(vd.violations) > 0 {
		return nil, &ValidationError{Schema: s.Name, Violations: vd.violations}
	}
	return out, nil
}

type validator struct {
	violations []string
}

func (vd *validator) fail(path, format string, args ...any) {
	if path == "" {
		path = "root"
	}
	vd.violations = append(vd.violations, path+": "+fmt.Sprintf(format, args...))
}

func (vd *validator) object(path string, fields []Field, in map[string]any) map[string]any {
	if len(fields) == 0 {
		out := make(map[string]any, len(in))
		for k, v := range in {
			if v != nil {
				out[k] = v
			}
		}
		return out
	}

	out := make(map[string]any, len(fields))
	for _, f := range fields {
		fieldPath := join(path, f.Name)
		raw, present := in[f.Name]
		if !present || raw == nil {
			switch {
			case f.Required:
				vd.fail(fieldPath, "required")
			case f.Kind == KindArray:
				out[f.Name] = []any{}
			}
			continue
		}

		if value, ok := vd.value(fieldPath, f, raw); ok {
			out[f.Name] = value
		}
	}
	return out
}

func (vd *validator) value(path string, f Field, raw any) (any, bool) {
	switch f.Kind {
	case KindString:
		s, ok := coerceString(raw)
		if !ok {
			vd.fail(path, "expected string, got %s", typeName(raw))
			return nil, false
		}
		if len(f.Enum) > 0 {
			canonical, ok := matchEnum(f.Enum, s)
			if !ok {
				vd.fail(path, "value %q is not one of [%s]", s, strings.Join(f.Enum, ", "))
				return nil, false
			}
			s = canonical
		}
		return s, true

	case KindInteger, KindNumber:
		n, ok := coerceFloat(raw)
		if !ok {
			vd.fail(path, "expected %s, got %s", f.Kind, typeName(raw))
			return nil, false
		}
		if f.Kind == KindInteger && n != math.Trunc(n) {
			vd.fail(path, "expected integer, got %v", n)
			return nil, false
		}
		if f.Min != nil && n < *f.Min {
			vd.fail(path, "value %v is below minimum %v", n, *f.Min)
			return nil, false
		}
		if f.Max != nil && n > *f.Max {
			vd.fail(path, "value %v is above maximum %v", n, *f.Max)
			return nil, false
		}
		if f.Kind == KindInteger {
			return int(n), true
		}
		return n, true

	case KindBoolean:
		b, ok := coerceBool(raw)
		if !ok {
			vd.fail(path, "expected boolean, got %s", typeName(raw))
			return nil, false
		}
		return b, true

	case KindArray:
		items, ok := raw.([]any)
		if !ok {
			vd.fail(path, "expected array, got %s", typeName(raw))
			return nil, false
		}
		out := make([]any, 0, len(items))
		if f.Items == nil {
			return append(out, items...), true
		}
		valid := true
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			if item == nil {
				vd.fail(itemPath, "required")
				valid = false
				continue
			}
			value, ok := vd.value(itemPath, *f.Items, item)
			if !ok {
				valid = false
				continue
			}
			out = append(out, value)
		}
		return out, valid

	case KindObject:
		m, ok := raw.(map[string]any)
		if !ok {
			vd.fail(path, "expected object, got %s", typeName(raw))
			return nil, false
		}
		before := len(vd.violations)
		out := vd.object(path, f.Fields, m)
		return out, len(vd.violations) == before

	default:
		vd.fail(path, "unsupported kind %q", f.Kind)
		return nil, false
	}
}

func matchEnum(values []string, s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(v, trimmed) {
			return v, true
		}
	}
	return "", false
}

func coerceString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes":
			return true, true
		case "false", "no":
			return false, true
		}
	}
	return false, false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, int:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
