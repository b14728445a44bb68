package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ArgumentError reports a tool argument that is missing or has the wrong type.
type ArgumentError struct {
	Name    string
	Message string
}

func (e *ArgumentError) Error() string { return e.Message }

func missingArg(name string) error {
	return &ArgumentError{Name: name, Message: fmt.Sprintf("Missing required argument: %s", name)}
}

func badArg(name, want string) error {
	return &ArgumentError{Name: name, Message: fmt.Sprintf("Argument %s must be %s", name, want)}
}

// args wraps the arguments of one tool call. Numbers decoded from JSON arrive as
// float64; accessors convert and reject non-integral values where an integer is
// expected.
type args map[string]any

// lookup returns the first of names that is present and not null.
func (a args) lookup(names ...string) (string, any, bool) {
	for _, name := range names {
		if v, ok := a[name]; ok && v != nil {
			return name, v, true
		}
	}
	return names[0], nil, false
}

// Int returns a required integer. Extra names are accepted as aliases.
func (a args) Int(names ...string) (int, error) {
	name, v, ok := a.lookup(names...)
	if !ok {
		return 0, missingArg(name)
	}
	return toInt(name, v)
}

// OptInt returns nil when the argument is absent or null.
func (a args) OptInt(name string) (*int, error) {
	_, v, ok := a.lookup(name)
	if !ok {
		return nil, nil
	}
	n, err := toInt(name, v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Float returns a required number.
func (a args) Float(name string) (float64, error) {
	_, v, ok := a.lookup(name)
	if !ok {
		return 0, missingArg(name)
	}
	return toFloat(name, v)
}

// String returns a required string. The empty string is a valid value.
func (a args) String(name string) (string, error) {
	_, v, ok := a.lookup(name)
	if !ok {
		return "", missingArg(name)
	}
	s, isString := v.(string)
	if !isString {
		return "", badArg(name, "a string")
	}
	return s, nil
}

// OptString returns nil when the argument is absent or null.
func (a args) OptString(name string) (*string, error) {
	if _, _, ok := a.lookup(name); !ok {
		return nil, nil
	}
	s, err := a.String(name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Object returns a required JSON object argument.
func (a args) Object(name string) (map[string]any, error) {
	_, v, ok := a.lookup(name)
	if !ok {
		return nil, missingArg(name)
	}
	obj, isObject := v.(map[string]any)
	if !isObject {
		return nil, badArg(name, "an object")
	}
	return obj, nil
}

// Ints returns a required array of integers.
func (a args) Ints(name string) ([]int, error) {
	_, v, ok := a.lookup(name)
	if !ok {
		return nil, missingArg(name)
	}
	list, isList := v.([]any)
	if !isList {
		return nil, badArg(name, "an array of integers")
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		n, err := toInt(name, item)
		if err != nil {
			return nil, badArg(name, "an array of integers")
		}
		out = append(out, n)
	}
	return out, nil
}

// Require checks that every name is present without decoding it.
func (a args) Require(names ...string) error {
	for _, name := range names {
		if _, _, ok := a.lookup(name); !ok {
			return missingArg(name)
		}
	}
	return nil
}

// Without returns a copy of a minus the given keys.
func (a args) Without(keys ...string) map[string]any {
	out := make(map[string]any, len(a))
	for k, v := range a {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Decode converts the arguments into dst through their JSON form.
func (a args) Decode(dst any) error {
	data, err := json.Marshal(map[string]any(a))
	if err != nil {
		return &ArgumentError{Message: fmt.Sprintf("Invalid arguments: %v", err)}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return badArg(typeErr.Field, "of type "+typeErr.Type.String())
		}
		return &ArgumentError{Message: fmt.Sprintf("Invalid arguments: %v", err)}
	}
	return nil
}

func toInt(name string, v any) (int, error) {
	f, err := toFloat(name, v)
	if err != nil {
		return 0, badArg(name, "an integer")
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, badArg(name, "an integer")
	}
	return int(f), nil
}

func toFloat(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, badArg(name, "a number")
		}
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, badArg(name, "a number")
		}
		return f, nil
	default:
		return 0, badArg(name, "a number")
	}
}
