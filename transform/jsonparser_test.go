package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/gorunnable/runnable"
)

func TestJSONParser(t *testing.T) {
	p := NewJSONParser()
	ctx := context.Background()

	out, err := p.Invoke(ctx, Response(`{"points": ["a", "b"]}`))
	require.NoError(t, err)
	points, ok := out.Field("points")
	require.True(t, ok)
	assert.Equal(t, 2, points.Len())

	out, err = p.Invoke(ctx, runnable.Text("```json\n[1, 2, 3]\n```"))
	require.NoError(t, err)
	assert.Equal(t, runnable.KindList, out.Kind())
	assert.Equal(t, 3, out.Len())
}

func TestJSONParserFailures(t *testing.T) {
	p := NewJSONParser()
	ctx := context.Background()

	_, err := p.Invoke(ctx, Response("not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json_parser: response is not valid JSON")

	_, err = p.Invoke(ctx, runnable.TextRecord(map[string]string{"other": "x"}))
	var notFound *runnable.KeyNotFoundError
	require.ErrorAs(t, err, &notFound)

	var inv *runnable.InvocationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "json_parser", inv.Stage)
	assert.Len(t, inv.Path(), 1)
}
