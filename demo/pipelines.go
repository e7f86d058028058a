package demo

import (
	"fmt"

	"github.com/kbukum/gorunnable/runnable"
	"github.com/kbukum/gorunnable/transform"
)

// DefaultSummaryThreshold is the word count above which TopicSummary
// summarizes the generated paragraph.
const DefaultSummaryThreshold = 100

// Rivalry chains two chains: the first asks about a rivalry given "teams"
// and "tournament", the second asks where the answer's subjects are based
// and extracts the response text.
func Rivalry(llm runnable.Stage) (runnable.Stage, error) {
	ask, err := transform.NewTemplate("rivalry_prompt", "Tell me about the rivalry between {teams} in {tournament}")
	if err != nil {
		return nil, err
	}
	where, err := transform.NewTemplate("location_prompt", "Where are these {response} based out of ?")
	if err != nil {
		return nil, err
	}

	first, err := runnable.NewSequence("rivalry_chain", ask, llm)
	if err != nil {
		return nil, err
	}
	second, err := runnable.NewSequence("location_chain", where, llm, transform.StringParser())
	if err != nil {
		return nil, err
	}
	return sequence("rivalry", first, second)
}

// TopicPoints describes "topic" and then asks for a five point summary in
// JSON, using a partial variable for the format instructions.
func TopicPoints(llm runnable.Stage) (runnable.Stage, error) {
	describe, err := transform.NewTemplate("topic_prompt", "Tell me about the {topic}")
	if err != nil {
		return nil, err
	}
	points, err := transform.NewTemplate("points_prompt",
		"Give me a 5 pointer summary about the {response} in the following format {format_specifications}",
		transform.WithPartials(map[string]string{"format_specifications": transform.JSONFormatInstructions}),
	)
	if err != nil {
		return nil, err
	}
	return sequence("topic_points",
		describe, llm, transform.StringParser(),
		points, llm, transform.NewJSONParser(),
	)
}

// ArticleAndTweet writes a news article and a tweet about "topic"
// concurrently, returning {"article": ..., "tweet": ...}.
func ArticleAndTweet(llm runnable.Stage, opts ...runnable.ParallelOption) (runnable.Stage, error) {
	article, err := promptChain("article", "Generate a news paper report  article about the following : {topic}.", llm)
	if err != nil {
		return nil, err
	}
	tweet, err := promptChain("tweet", "Generate an official tweet like a any global media house on the following : {topic}.", llm)
	if err != nil {
		return nil, err
	}
	fanOut, err := runnable.NewParallel("article_and_tweet", []runnable.NamedStage{
		runnable.Named("article", article),
		runnable.Named("tweet", tweet),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return fanOut, nil
}

// TopicSummary writes a paragraph about "topic" and summarizes it when it
// runs longer than threshold words; shorter text passes through unchanged.
func TopicSummary(llm runnable.Stage, threshold int) (runnable.Stage, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("summary threshold must be non-negative (got: %d)", threshold)
	}
	topic, err := promptChain("paragraph", "Generate an ellaborate paragraph about the {topic}", llm)
	if err != nil {
		return nil, err
	}
	summary, err := promptChain("summary", "Give me a 5 pointer summary about the {response}.", llm)
	if err != nil {
		return nil, err
	}
	route, err := runnable.NewBranch("summarize_if_long",
		[]runnable.Arm{runnable.When(transform.MoreWordsThan(threshold), summary)},
		runnable.WithDefault(runnable.Passthrough()),
	)
	if err != nil {
		return nil, err
	}
	return sequence("topic_summary", topic, route)
}

func sequence(name string, stages ...runnable.Stage) (runnable.Stage, error) {
	seq, err := runnable.NewSequence(name, stages...)
	if err != nil {
		return nil, err
	}
	return seq, nil
}

// promptChain is template, model and string parser in sequence.
func promptChain(name, template string, llm runnable.Stage) (runnable.Stage, error) {
	prompt, err := transform.NewTemplate(name+"_prompt", template)
	if err != nil {
		return nil, err
	}
	return sequence(name, prompt, llm, transform.StringParser())
}
