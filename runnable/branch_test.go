package runnable

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchShortCircuit(t *testing.T) {
	first := counting("first", func(Value) (Value, error) { return Text("first"), nil })
	second := counting("second", func(Value) (Value, error) { return Text("second"), nil })

	var secondPredicateCalls int
	p2 := func(context.Context, Value) (bool, error) {
		secondPredicateCalls++
		return true, nil
	}

	br, err := NewBranch("router", []Arm{When(always(true), first), When(p2, second)})
	require.NoError(t, err)

	out, err := br.Invoke(context.Background(), Text("in"))
	require.NoError(t, err)
	assert.Equal(t, "first", out.String())
	assert.Equal(t, 1, first.Calls())
	assert.Equal(t, 0, second.Calls())
	assert.Equal(t, 0, secondPredicateCalls)
}

func TestBranchPicksFirstTruePredicateInOrder(t *testing.T) {
	isLong := func(_ context.Context, v Value) (bool, error) { return v.Len() > 3, nil }
	br, err := NewBranch("order", []Arm{
		When(always(false), failing("never", errBoom)),
		When(isLong, appendText(" (long)")),
		When(always(true), appendText(" (short)")),
	})
	require.NoError(t, err)

	ctx := context.Background()
	out, err := br.Invoke(ctx, Text("lengthy"))
	require.NoError(t, err)
	assert.Equal(t, "lengthy (long)", out.String())

	out, err = br.Invoke(ctx, Text("ab"))
	require.NoError(t, err)
	assert.Equal(t, "ab (short)", out.String())
}

func TestBranchExhaustion(t *testing.T) {
	arms := []Arm{When(always(false), upper())}

	br, err := NewBranch("strict", arms)
	require.NoError(t, err)
	assert.False(t, br.HasDefault())

	_, err = br.Invoke(context.Background(), Text("x"))
	var noMatch *NoBranchMatchedError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, "strict", noMatch.Stage)

	lenient, err := NewBranch("lenient", arms, WithDefault(Passthrough()))
	require.NoError(t, err)
	in := TextRecord(map[string]string{"text": "unchanged"})
	out, err := lenient.Invoke(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestBranchPredicateErrorAborts(t *testing.T) {
	errPredicate := errors.New("cannot decide")
	fallback := counting("fallback", func(v Value) (Value, error) { return v, nil })
	later := counting("later", func(v Value) (Value, error) { return v, nil })

	br, err := NewBranch("guarded", []Arm{
		When(always(false), upper()),
		When(func(context.Context, Value) (bool, error) { return false, errPredicate }, upper()),
		When(always(true), later),
	}, WithDefault(fallback))
	require.NoError(t, err)

	_, err = br.Invoke(context.Background(), Text("x"))
	require.ErrorIs(t, err, errPredicate)
	assert.Equal(t, 0, later.Calls(), "a predicate error is not treated as false")
	assert.Equal(t, 0, fallback.Calls())

	var ie *InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 1, ie.Position)
	assert.Empty(t, ie.Child)
	assert.Equal(t, "guarded[1] predicate: cannot decide", err.Error())
}

func TestBranchPredicatePanic(t *testing.T) {
	br, err := NewBranch("panicky", []Arm{
		When(func(context.Context, Value) (bool, error) { panic("bad predicate") }, upper()),
	}, WithDefault(Passthrough()))
	require.NoError(t, err)

	_, err = br.Invoke(context.Background(), Text("x"))
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	var ie *InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 0, ie.Position)
}

func TestBranchArmAndDefaultErrors(t *testing.T) {
	ctx := context.Background()

	arm, err := NewBranch("arms", []Arm{When(always(true), failing("armstage", errBoom))})
	require.NoError(t, err)
	_, err = arm.Invoke(ctx, Text("x"))
	var ie *InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 0, ie.Position)
	assert.Equal(t, "armstage", ie.Child)
	assert.ErrorIs(t, err, errBoom)

	def, err := NewBranch("defaults", []Arm{When(always(false), upper())}, WithDefault(failing("def", errBoom)))
	require.NoError(t, err)
	_, err = def.Invoke(ctx, Text("x"))
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, -1, ie.Position)
	assert.Equal(t, "def", ie.Child)
	assert.Equal(t, "defaults(def): def: boom", err.Error())
}

func TestBranchConstruction(t *testing.T) {
	_, err := NewBranch("empty", nil)
	var empty *EmptyCompositionError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "branch", empty.Kind)

	var invalid *InvalidStageError
	_, err = NewBranch("nilpred", []Arm{When(nil, upper())})
	require.ErrorAs(t, err, &invalid)

	_, err = NewBranch("nilstage", []Arm{When(always(true), nil)})
	require.ErrorAs(t, err, &invalid)

	_, err = NewBranch("nildefault", []Arm{When(always(false), upper())}, WithDefault(nil))
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "default")
}
