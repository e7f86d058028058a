package runnable

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructorsCopy(t *testing.T) {
	fields := map[string]Value{"a": Text("x")}
	rec := Record(fields)
	fields["a"] = Text("mutated")
	fields["b"] = Text("added")

	got, ok := rec.Field("a")
	require.True(t, ok)
	assert.Equal(t, "x", got.String())
	assert.Equal(t, []string{"a"}, rec.Keys())

	copied, ok := rec.AsRecord()
	require.True(t, ok)
	copied["a"] = Text("changed")
	got, _ = rec.Field("a")
	assert.Equal(t, "x", got.String(), "AsRecord must return a copy")

	items := []Value{Number(1), Number(2)}
	list := List(items...)
	items[0] = Number(99)
	assert.True(t, list.Items()[0].Equal(Number(1)))
}

func TestValueKindsAndAccessors(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
		str  string
		len  int
	}{
		{"zero is null", Value{}, KindNull, "null", 0},
		{"text", Text("héllo"), KindText, "héllo", 5},
		{"integer number", Number(100), KindNumber, "100", 0},
		{"fraction", Number(1.5), KindNumber, "1.5", 0},
		{"bool", Bool(true), KindBool, "true", 0},
		{"list", List(Text("a"), Number(2)), KindList, `["a",2]`, 2},
		{"record", TextRecord(map[string]string{"b": "2", "a": "1"}), KindRecord, `{"a":"1","b":"2"}`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.v.Kind())
			assert.Equal(t, tt.str, tt.v.String())
			assert.Equal(t, tt.len, tt.v.Len())
		})
	}

	_, ok := Number(1).AsText()
	assert.False(t, ok)
	_, ok = Text("x").Field("a")
	assert.False(t, ok)
	assert.Nil(t, Text("x").Keys())
	assert.Equal(t, "record", KindRecord.String())
}

func TestValueEqual(t *testing.T) {
	a := MustFromAny(map[string]any{"x": []any{"a", 1.0, true, nil}})
	b := MustFromAny(map[string]any{"x": []any{"a", 1, true, nil}})
	c := MustFromAny(map[string]any{"x": []any{"a", 2}})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, Text("1").Equal(Number(1)))
	assert.True(t, Null().Equal(Value{}))
}

func TestValueJSON(t *testing.T) {
	v := MustFromAny(map[string]any{"z": 1, "a": map[string]any{"n": nil, "t": "x"}})

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"n":null,"t":"x"},"z":1}`, string(data))

	var back Value
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, v.Equal(back))

	var bad Value
	assert.Error(t, json.Unmarshal([]byte(`{"a":`), &bad))
}

func TestFromAnyUnsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	assert.Error(t, err)

	_, err = FromAny(map[string]any{"nested": []any{make(chan int)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "nested"`)
}

func TestExpectHelpers(t *testing.T) {
	s, err := ExpectText(Text("ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", s)

	_, err = ExpectText(Number(3))
	var shape *ShapeMismatchError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, KindText, shape.Want)
	assert.Equal(t, KindNumber, shape.Got)

	_, err = ExpectRecord(Text("x"))
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, KindRecord, shape.Want)
}
