package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s.]+(\.[^@\s.]+)+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report failures under the wire names clients send.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("email_address", isEmailAddress); err != nil {
		panic(err)
	}

	return v
}

func isEmailAddress(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

// IsEmailAddress reports whether s looks like local@domain.tld.
func IsEmailAddress(s string) bool {
	return emailPattern.MatchString(s)
}

// FieldError is a single violated constraint.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field of a payload that failed its schema.
type ValidationError struct {
	Kind   Kind         `json:"kind"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(parts, "; "))
}

// Has reports whether field is among the failures.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(fields ...FieldError) {
	e.Fields = append(e.Fields, fields...)
}

func (e *ValidationError) sort() {
	sort.SliceStable(e.Fields, func(i, j int) bool {
		return e.Fields[i].Field < e.Fields[j].Field
	})
}

// decodeFields copies raw into dst one key at a time so a badly typed
// value only spoils its own field. Null values leave the default in place.
// Keys must match a wire name exactly; encoding/json alone would also accept
// "Price" for "price".
func decodeFields(raw map[string]any, dst Document) []FieldError {
	fields := wireFields(reflect.TypeOf(dst))

	keys := make([]string, 0, len(raw))
	for k, v := range raw {
		if _, ok := fields[k]; !ok || v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []FieldError
	for _, k := range keys {
		data, err := json.Marshal(map[string]any{k: conform(raw[k], fields[k])})
		if err != nil {
			errs = append(errs, FieldError{Field: k, Reason: "has an unsupported value"})
			continue
		}
		if err := json.Unmarshal(data, dst); err != nil {
			errs = append(errs, decodeError(k, err))
		}
	}

	return errs
}

var timeType = reflect.TypeOf(time.Time{})

// wireFields maps the json names of struct t to their field types.
func wireFields(t reflect.Type) map[string]reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" || !f.IsExported() {
			continue
		}
		out[name] = f.Type
	}
	return out
}

// dateLayouts are accepted for timestamps besides RFC 3339. Values without
// a zone are read as UTC.
var dateLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.999999999", "2006-01-02"}

// conform shapes v for decoding into t: nested objects lose keys that are
// not exact wire names, and date-only or zoneless timestamps become RFC 3339.
func conform(v any, t reflect.Type) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch {
	case t == timeType:
		if s, ok := v.(string); ok {
			for _, layout := range dateLayouts {
				if ts, err := time.Parse(layout, s); err == nil {
					return ts.UTC().Format(time.RFC3339Nano)
				}
			}
		}
	case t.Kind() == reflect.Struct:
		if m, ok := v.(map[string]any); ok {
			fields := wireFields(t)
			out := make(map[string]any, len(m))
			for k, e := range m {
				if ft, ok := fields[k]; ok {
					out[k] = conform(e, ft)
				}
			}
			return out
		}
	case t.Kind() == reflect.Slice:
		if list, ok := v.([]any); ok {
			out := make([]any, len(list))
			for i, e := range list {
				out[i] = conform(e, t.Elem())
			}
			return out
		}
	}
	return v
}

func decodeError(key string, err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = key
		}
		return FieldError{Field: field, Reason: "must be " + describeType(typeErr.Type)}
	}

	var timeErr *time.ParseError
	if errors.As(err, &timeErr) {
		return FieldError{Field: key, Reason: "must be an RFC 3339 timestamp"}
	}

	return FieldError{Field: key, Reason: "has an invalid value"}
}

func describeType(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return "an RFC 3339 timestamp"
	}

	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "a list"
	case reflect.Struct, reflect.Map:
		return "an object"
	default:
		return "a valid value"
	}
}

// checkStruct runs the validate tags of doc. Fields that already failed
// to decode are not reported twice.
func checkStruct(doc Document, decoded []FieldError) []FieldError {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: string(doc.Kind()), Reason: err.Error()}}
	}

	skip := make(map[string]bool, len(decoded))
	for _, d := range decoded {
		skip[topLevel(d.Field)] = true
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if skip[topLevel(path)] {
			continue
		}
		out = append(out, FieldError{Field: path, Reason: reasonFor(fe)})
	}

	return out
}

// fieldPath drops the struct name validator puts in front of a namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func topLevel(path string) string {
	if i := strings.IndexAny(path, ".["); i >= 0 {
		return path[:i]
	}
	return path
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "email_address":
		return "must be a valid email address"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
