package runnable

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"unicode/utf8"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBool
	KindList
	KindRecord
)

var kindNames = [...]string{
	KindNull:   "null",
	KindText:   "text",
	KindNumber: "number",
	KindBool:   "bool",
	KindList:   "list",
	KindRecord: "record",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the payload that flows between stages. It is immutable: the
// constructors copy their arguments and the accessors return copies, so one
// Value can be handed to any number of concurrent stages.
//
// The zero Value is Null.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	list []Value
	rec  map[string]Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List returns a list Value holding a copy of items.
func List(items ...Value) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// Record returns a record Value holding a copy of fields. A nil map yields
// an empty record.
func Record(fields map[string]Value) Value {
	rec := make(map[string]Value, len(fields))
	maps.Copy(rec, fields)
	return Value{kind: KindRecord, rec: rec}
}

// TextRecord is shorthand for a record whose fields are all text.
func TextRecord(fields map[string]string) Value {
	rec := make(map[string]Value, len(fields))
	for k, v := range fields {
		rec[k] = Text(v)
	}
	return Value{kind: KindRecord, rec: rec}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsText returns the text held by v.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsRecord returns a copy of the fields held by v.
func (v Value) AsRecord() (map[string]Value, bool) {
	if v.kind != KindRecord {
		return nil, false
	}
	return maps.Clone(v.rec), true
}

// Field returns the named field of a record. It reports false for missing
// fields and for non-record values.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindRecord {
		return Value{}, false
	}
	f, ok := v.rec[key]
	return f, ok
}

// Keys returns the sorted field names of a record, or nil for other kinds.
func (v Value) Keys() []string {
	if v.kind != KindRecord {
		return nil
	}
	var keys []string
	for k := range v.rec {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Items returns a copy of the elements of a list, or nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return slices.Clone(v.list)
}

// Len is the number of list items, record fields or text runes. It is zero
// for the scalar kinds.
func (v Value) Len() int {
	switch v.kind {
	case KindText:
		return utf8.RuneCountInString(v.text)
	case KindList:
		return len(v.list)
	case KindRecord:
		return len(v.rec)
	default:
		return 0
	}
}

// String renders text verbatim and every other kind as JSON.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNull:
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.kind, err)
	}
	return string(data)
}

// Equal reports deep equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindList:
		return slices.EqualFunc(v.list, other.list, Value.Equal)
	case KindRecord:
		return maps.EqualFunc(v.rec, other.rec, Value.Equal)
	}
	return false
}

// Any converts v to plain Go data: nil, string, float64, bool, []any or
// map[string]any.
func (v Value) Any() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Any()
		}
		return out
	case KindRecord:
		out := make(map[string]any, len(v.rec))
		for k, f := range v.rec {
			out[k] = f.Any()
		}
		return out
	default:
		return nil
	}
}

// FromAny converts decoded JSON or plain Go data into a Value.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return Text(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("runnable: invalid number %q: %w", t, err)
		}
		return Number(f), nil
	case []Value:
		return List(t...), nil
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = Text(s)
		}
		return Value{kind: KindList, list: items}, nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = v
		}
		return Value{kind: KindList, list: items}, nil
	case map[string]Value:
		return Record(t), nil
	case map[string]string:
		return TextRecord(t), nil
	case map[string]any:
		rec := make(map[string]Value, len(t))
		for k, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			rec[k] = v
		}
		return Value{kind: KindRecord, rec: rec}, nil
	default:
		return Value{}, fmt.Errorf("runnable: unsupported value type %T", x)
	}
}

// MustFromAny is FromAny for literals known to be valid.
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}
	return v
}

// MarshalJSON encodes v as plain JSON. Record keys are emitted in sorted
// order, so equal values always encode to the same bytes.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON decodes any JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// ExpectText returns the text held by v or a *ShapeMismatchError.
func ExpectText(v Value) (string, error) {
	if s, ok := v.AsText(); ok {
		return s, nil
	}
	return "", &ShapeMismatchError{Want: KindText, Got: v.kind}
}

// ExpectRecord returns v if it is a record, or a *ShapeMismatchError.
func ExpectRecord(v Value) (Value, error) {
	if v.kind == KindRecord {
		return v, nil
	}
	return Value{}, &ShapeMismatchError{Want: KindRecord, Got: v.kind}
}
