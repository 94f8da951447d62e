// Package schema validates record documents against a JSON Schema subset.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"
)

// Validate checks a document against a JSON Schema (draft-07 subset).
// Returns nil if validation passes or the schema is nil.
//
// Supported JSON Schema keywords:
//   - type (a name or a list of names: string, number, integer, boolean,
//     object, array, null)
//   - properties, required, additionalProperties
//   - minimum, maximum
//   - minLength, maxLength
//   - enum
func Validate(schema map[string]any, doc map[string]any) error {
	if schema == nil {
		return nil
	}
	return validateValue(schema, doc, "$", true)
}

// ValidatePatch checks a partial document: fields that are present must
// satisfy their property schemas, unknown fields are rejected when
// additionalProperties is false, and required fields may be absent.
func ValidatePatch(schema map[string]any, patch map[string]any) error {
	if schema == nil {
		return nil
	}
	return validateValue(schema, patch, "$", false)
}

func validateValue(schema map[string]any, value any, path string, requireAll bool) error {
	if t, ok := schema["type"]; ok {
		if err := checkType(typeNames(t), value, path); err != nil {
			return err
		}
	}

	if enumRaw, ok := schema["enum"]; ok {
		if enumList, ok := enumRaw.([]any); ok {
			if err := checkEnum(enumList, value, path); err != nil {
				return err
			}
		}
	}

	switch v := value.(type) {
	case map[string]any:
		return validateObject(schema, v, path, requireAll)
	case string:
		return validateString(schema, v, path)
	case float64, int, int64, json.Number:
		n, _ := toFloat(v)
		return validateNumber(schema, n, path)
	}
	return nil
}

func typeNames(t any) []string {
	switch v := t.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		names := make([]string, 0, len(v))
		for _, n := range v {
			if s, ok := n.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}

func checkType(expected []string, value any, path string) error {
	if len(expected) == 0 {
		return nil
	}
	actual := jsonType(value)
	for _, e := range expected {
		switch {
		case e == actual:
			return nil
		case e == "number" && actual == "integer":
			return nil
		}
	}
	if len(expected) == 1 {
		return fmt.Errorf("%s: expected type %q, got %q", path, expected[0], actual)
	}
	return fmt.Errorf("%s: expected one of types %v, got %q", path, expected, actual)
}

// jsonType reports the JSON type of a decoded value. Whole numbers report
// "integer".
func jsonType(v any) string {
	if v == nil {
		return "null"
	}
	switch n := v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64:
		return "integer"
	case float64:
		if n == float64(int64(n)) {
			return "integer"
		}
		return "number"
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return "integer"
		}
		return "number"
	default:
		return reflect.TypeOf(v).String()
	}
}

func checkEnum(allowed []any, value any, path string) error {
	for _, a := range allowed {
		if reflect.DeepEqual(a, value) {
			return nil
		}
	}
	return fmt.Errorf("%s: value not in enum %v", path, allowed)
}

func validateObject(schema map[string]any, obj map[string]any, path string, requireAll bool) error {
	if req, ok := schema["required"]; ok && requireAll {
		if reqList, ok := req.([]any); ok {
			for _, r := range reqList {
				if field, ok := r.(string); ok {
					if _, exists := obj[field]; !exists {
						return fmt.Errorf("%s: missing required field %q", path, field)
					}
				}
			}
		}
	}

	propsMap, _ := schema["properties"].(map[string]any)

	// Sorted so the first reported error is stable.
	fields := make([]string, 0, len(obj))
	for field := range obj {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var extra []string
	for _, field := range fields {
		propSchema, defined := propsMap[field]
		if !defined {
			extra = append(extra, field)
			continue
		}
		ps, ok := propSchema.(map[string]any)
		if !ok {
			continue
		}
		if err := validateValue(ps, obj[field], path+"."+field, requireAll); err != nil {
			return err
		}
	}

	if ap, ok := schema["additionalProperties"].(bool); ok && !ap && len(extra) > 0 {
		return fmt.Errorf("%s: additional properties not allowed: %s", path, strings.Join(extra, ", "))
	}
	return nil
}

func validateString(schema map[string]any, s string, path string) error {
	n := utf8.RuneCountInString(s)
	if v, ok := toFloat(schema["minLength"]); ok {
		if float64(n) < v {
			return fmt.Errorf("%s: string length %d is less than minLength %v", path, n, v)
		}
	}
	if v, ok := toFloat(schema["maxLength"]); ok {
		if float64(n) > v {
			return fmt.Errorf("%s: string length %d is greater than maxLength %v", path, n, v)
		}
	}
	return nil
}

func validateNumber(schema map[string]any, n float64, path string) error {
	if v, ok := toFloat(schema["minimum"]); ok {
		if n < v {
			return fmt.Errorf("%s: %v is less than minimum %v", path, n, v)
		}
	}
	if v, ok := toFloat(schema["maximum"]); ok {
		if n > v {
			return fmt.Errorf("%s: %v is greater than maximum %v", path, n, v)
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
