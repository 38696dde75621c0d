// Package params defines the typed request models of the tools. Every model
// validates itself before any provider call is made.
package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"nathanbeddoewebdev/hcloud-mcp/internal/domain"
)

// Model is implemented by every request model.
type Model interface {
	Validate() error
}

// None is the request model of tools that take no arguments.
type None struct{}

func (None) Validate() error { return nil }

// Decode fills dst from the raw tool arguments and validates it.
//
// Arguments may be given flat or wrapped in a single "params" object:
//
//	{"server_id": 42}
//	{"params": {"server_id": 42}}
//
// Unknown keys are ignored. Every failure is a *domain.ValidationError.
func Decode(args map[string]any, dst Model) error {
	if wrapped, ok := args["params"]; ok && len(args) == 1 {
		inner, ok := wrapped.(map[string]any)
		if !ok {
			return domain.Invalidf("params must be an object")
		}
		args = inner
	}
	if args == nil {
		args = map[string]any{}
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return domain.Invalidf("arguments are not valid JSON: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}

	return dst.Validate()
}

func decodeError(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "arguments"
		}
		return domain.Invalidf("invalid value for %s: expected %s, got %s", field, kindName(typeErr.Type), typeErr.Value)
	}

	return domain.Invalidf("invalid arguments: %v", err)
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return t.String()
	}
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return domain.Invalidf("%s is required and must be a positive integer", field)
	}
	return nil
}

func requireString(field, value string) error {
	if value == "" {
		return domain.Invalidf("%s is required", field)
	}
	return nil
}

// SSHKeyRef references an SSH key either by numeric ID or by name.
// A JSON number decodes to an ID reference, a JSON string to a name
// reference.
type SSHKeyRef struct {
	ID   int64
	Name string
}

// ByID reports whether the reference is numeric.
func (r SSHKeyRef) ByID() bool { return r.Name == "" }

func (r SSHKeyRef) String() string {
	if r.ByID() {
		return fmt.Sprintf("%d", r.ID)
	}
	return r.Name
}

func (r *SSHKeyRef) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return domain.Invalidf("invalid SSH key reference: %v", err)
	}

	switch t := v.(type) {
	case json.Number:
		id, err := t.Int64()
		if err != nil || id <= 0 {
			return domain.Invalidf("invalid SSH key ID %s: must be a positive integer", t)
		}
		*r = SSHKeyRef{ID: id}
	case string:
		if t == "" {
			return domain.Invalidf("SSH key name must not be empty")
		}
		*r = SSHKeyRef{Name: t}
	default:
		return domain.Invalidf("SSH key reference must be an ID or a name, got %s", b)
	}
	return nil
}

func (r SSHKeyRef) MarshalJSON() ([]byte, error) {
	if r.ByID() {
		return json.Marshal(r.ID)
	}
	return json.Marshal(r.Name)
}
