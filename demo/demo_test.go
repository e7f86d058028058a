package demo

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/gorunnable/runnable"
	"github.com/kbukum/gorunnable/transform"
)

func invoke(t *testing.T, s runnable.Stage, in runnable.Value) runnable.Value {
	t.Helper()
	out, err := runnable.Invoke(context.Background(), s, in)
	require.NoError(t, err)
	return out
}

func TestRivalry(t *testing.T) {
	s, err := Rivalry(DefaultModel())
	require.NoError(t, err)

	out := invoke(t, s, runnable.TextRecord(map[string]string{
		"teams":      "East Bengal and Mohun Bagan",
		"tournament": "IFA Shield",
	}))
	assert.Equal(t, KolkataResponse, out.String())
}

func TestRivalryMissingVariable(t *testing.T) {
	s, err := Rivalry(DefaultModel())
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), s, runnable.TextRecord(map[string]string{"teams": "A"}))
	var missing *runnable.MissingVariableError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "tournament", missing.Variable)
	assert.Equal(t, `rivalry[0]: rivalry_chain[0]: rivalry_prompt: missing template variable "tournament"`, err.Error())
}

func TestRivalryWithoutBengal(t *testing.T) {
	s, err := Rivalry(DefaultModel())
	require.NoError(t, err)

	out := invoke(t, s, runnable.TextRecord(map[string]string{"teams": "A and B", "tournament": "C"}))
	assert.Equal(t, FallbackResponse, out.String())
}

func TestTopicPoints(t *testing.T) {
	s, err := TopicPoints(DefaultModel())
	require.NoError(t, err)

	out := invoke(t, s, runnable.TextRecord(map[string]string{"topic": "Russia Ukraine Conflict"}))
	points, ok := out.Field("points")
	require.True(t, ok, "output: %s", out)
	assert.Equal(t, 5, points.Len())
}

func TestArticleAndTweet(t *testing.T) {
	s, err := ArticleAndTweet(DefaultModel(), runnable.WithMaxConcurrency(2))
	require.NoError(t, err)

	out := invoke(t, s, runnable.Text("Russia Ukraine Conflict"))
	assert.Equal(t, []string{"article", "tweet"}, out.Keys())

	article, _ := out.Field("article")
	tweet, _ := out.Field("tweet")
	assert.Equal(t, ArticleResponse, article.String())
	assert.Equal(t, TweetResponse, tweet.String())
}

func TestTopicSummary(t *testing.T) {
	s, err := TopicSummary(DefaultModel(), DefaultSummaryThreshold)
	require.NoError(t, err)

	long := invoke(t, s, runnable.TextRecord(map[string]string{"topic": "Russia Ukraine Conflict"}))
	assert.Equal(t, SummaryResponse, long.String())

	short := invoke(t, s, runnable.TextRecord(map[string]string{"topic": "East Bengal"}))
	assert.Equal(t, KolkataResponse, short.String())
}

func TestTopicSummaryThreshold(t *testing.T) {
	s, err := TopicSummary(DefaultModel(), 1000)
	require.NoError(t, err)

	out := invoke(t, s, runnable.TextRecord(map[string]string{"topic": "anything"}))
	assert.Equal(t, ParagraphResponse, out.String())

	_, err = TopicSummary(DefaultModel(), -1)
	assert.Error(t, err)
}

func TestParagraphIsLong(t *testing.T) {
	assert.Greater(t, transform.WordCount(runnable.Text(ParagraphResponse)), DefaultSummaryThreshold)
	assert.LessOrEqual(t, transform.WordCount(runnable.Text(KolkataResponse)), DefaultSummaryThreshold)
}

func TestCatalog(t *testing.T) {
	var calls atomic.Int32
	count := func(inner runnable.Stage) runnable.Stage {
		return runnable.Func(inner.Name(), func(ctx context.Context, in runnable.Value) (runnable.Value, error) {
			calls.Add(1)
			return runnable.Invoke(ctx, inner, in)
		})
	}

	catalog, err := Catalog(DefaultModel(), WithSummaryThreshold(50), WithMiddleware(count))
	require.NoError(t, err)
	assert.Equal(t, []string{"article_and_tweet", "rivalry", "topic_points", "topic_summary"}, catalog.Names())

	s, ok := catalog.Get("topic_summary")
	require.True(t, ok)
	out := invoke(t, s, runnable.Text("Russia Ukraine Conflict"))
	assert.Equal(t, SummaryResponse, out.String())
	assert.Equal(t, int32(1), calls.Load())
}

func TestModelFromConfig(t *testing.T) {
	model, err := ModelFromConfig(transform.RulesConfig{})
	require.NoError(t, err)
	assert.Equal(t, "llm", model.Name())

	model, err = ModelFromConfig(transform.RulesConfig{
		Rules:    []transform.RuleConfig{{Contains: []string{"ping"}, Response: "pong"}},
		Fallback: "?",
	})
	require.NoError(t, err)
	out := invoke(t, model, runnable.Text("ping"))
	resp, _ := out.Field(transform.ResponseKey)
	assert.Equal(t, "pong", resp.String())

	_, err = ModelFromConfig(transform.RulesConfig{Rules: []transform.RuleConfig{{Response: "x"}}})
	assert.Error(t, err)
}
