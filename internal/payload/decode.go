package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Presence records which fields a decoded record carried. Records built in
// code rather than decoded report every field as present.
type Presence struct {
	present map[string]struct{}
}

// Has reports whether field was present in the source document.
func (p Presence) Has(field string) bool {
	if p.present == nil {
		return true
	}
	_, ok := p.present[field]
	return ok
}

func (p *Presence) setPresence(fields map[string]struct{}) {
	p.present = fields
}

type record interface {
	decode(o *object)
	setPresence(map[string]struct{})
}

// object walks one JSON object, resolving aliases and collecting errors.
type object struct {
	path    string
	fields  map[string]json.RawMessage
	present map[string]struct{}
	errs    *ValidationError
}

func newObject(path string, raw json.RawMessage, errs *ValidationError) (*object, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		errs.add(displayPath(path), string(raw), "invalid type: expected object")
		return nil, false
	}
	return &object{path: path, fields: fields, present: map[string]struct{}{}, errs: errs}, true
}

func displayPath(path string) string {
	if path == "" {
		return "$"
	}
	return path
}

func (o *object) fieldPath(name string) string {
	if o.path == "" {
		return name
	}
	return o.path + "." + name
}

// lookup returns the first alias present, falling back to the canonical name.
func (o *object) lookup(name string, aliases []string) (json.RawMessage, bool) {
	for _, key := range aliases {
		if raw, ok := o.fields[key]; ok {
			return raw, true
		}
	}
	raw, ok := o.fields[name]
	return raw, ok
}

func (o *object) fail(name string, raw json.RawMessage, reason string) {
	o.errs.add(o.fieldPath(name), string(raw), reason)
}

// value resolves name and reports whether a non-null value is available.
// A missing or null required field is recorded as an error.
func (o *object) value(name string, required bool, aliases []string) (json.RawMessage, bool) {
	raw, ok := o.lookup(name, aliases)
	if ok {
		o.present[name] = struct{}{}
	}
	if !ok || isNull(raw) {
		if required {
			o.fail(name, nil, reasonRequired)
		}
		return nil, false
	}
	return raw, true
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func unmarshalInto[T any](o *object, name string, raw json.RawMessage, dst *T) bool {
	if err := json.Unmarshal(raw, dst); err != nil {
		o.fail(name, raw, fmt.Sprintf("invalid type: expected %s", typeName[T]()))
		return false
	}
	return true
}

func typeName[T any]() string {
	var zero T
	switch any(zero).(type) {
	case int, int64, *int, *int64:
		return "integer"
	case string:
		return "string"
	case bool:
		return "boolean"
	case decimal.Decimal:
		return "number"
	default:
		return fmt.Sprintf("%T", zero)
	}
}

func requireValue[T any](o *object, dst *T, name string, aliases ...string) {
	raw, ok := o.value(name, true, aliases)
	if !ok {
		return
	}
	unmarshalInto(o, name, raw, dst)
}

func optionalValue[T any](o *object, dst **T, name string, aliases ...string) {
	raw, ok := o.value(name, false, aliases)
	if !ok {
		*dst = nil
		return
	}
	var v T
	if unmarshalInto(o, name, raw, &v) {
		*dst = &v
	}
}

// requireURL decodes a mandatory string and validates it as an http(s) URL.
func requireURL(o *object, dst *string, name string, aliases ...string) {
	raw, ok := o.value(name, true, aliases)
	if !ok {
		return
	}
	if unmarshalInto(o, name, raw, dst) {
		checkURL(o, name, *dst)
	}
}

func optionalURL(o *object, dst **string, name string, aliases ...string) {
	optionalValue(o, dst, name, aliases...)
	if *dst != nil {
		checkURL(o, name, **dst)
	}
}

func checkURL(o *object, name, value string) {
	if err := validate.Var(value, "required,http_url"); err != nil {
		o.errs.add(o.fieldPath(name), value, reasonURL)
	}
}

func parseTimestamp(o *object, name string, raw json.RawMessage) (time.Time, bool) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		o.fail(name, raw, "invalid type: expected datetime string")
		return time.Time{}, false
	}
	ts, err := time.Parse(http.TimeFormat, text)
	if err != nil {
		o.errs.add(o.fieldPath(name), text, reasonDate)
		return time.Time{}, false
	}
	return ts.UTC(), true
}

func requireTime(o *object, dst *time.Time, name string, aliases ...string) {
	raw, ok := o.value(name, true, aliases)
	if !ok {
		return
	}
	if ts, ok := parseTimestamp(o, name, raw); ok {
		*dst = ts
	}
}

func optionalTime(o *object, dst **time.Time, name string, aliases ...string) {
	*dst = nil
	raw, ok := o.value(name, false, aliases)
	if !ok {
		return
	}
	if ts, ok := parseTimestamp(o, name, raw); ok {
		*dst = &ts
	}
}

// list decodes an array field into records of type T. dst stays nil when the
// field is absent or null.
func list[T any, PT interface {
	*T
	record
}](o *object, dst *[]T, required bool, name string, aliases ...string) {
	*dst = nil
	raw, ok := o.value(name, required, aliases)
	if !ok {
		return
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		o.fail(name, raw, "invalid type: expected list")
		return
	}
	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		child, ok := newObject(fmt.Sprintf("%s[%d]", o.fieldPath(name), i), elem, o.errs)
		if !ok {
			continue
		}
		var item T
		PT(&item).decode(child)
		PT(&item).setPresence(child.present)
		out = append(out, item)
	}
	*dst = out
}

func requireList[T any, PT interface {
	*T
	record
}](o *object, dst *[]T, name string, aliases ...string) {
	list[T, PT](o, dst, true, name, aliases...)
}

func optionalList[T any, PT interface {
	*T
	record
}](o *object, dst *[]T, name string, aliases ...string) {
	list[T, PT](o, dst, false, name, aliases...)
}
