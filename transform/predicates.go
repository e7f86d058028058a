package transform

import (
	"context"
	"strings"

	"github.com/kbukum/gorunnable/runnable"
)

// WordCount counts whitespace-separated words in the text form of v.
func WordCount(v runnable.Value) int {
	return len(strings.Fields(v.String()))
}

// MoreWordsThan holds when the input has more than n words.
func MoreWordsThan(n int) runnable.Predicate {
	return func(_ context.Context, input runnable.Value) (bool, error) {
		return WordCount(input) > n, nil
	}
}

// HasField holds when the input is a record with the named field.
func HasField(key string) runnable.Predicate {
	return func(_ context.Context, input runnable.Value) (bool, error) {
		_, ok := input.Field(key)
		return ok, nil
	}
}

// TextContains holds when the text form of the input contains substr.
func TextContains(substr string) runnable.Predicate {
	return func(_ context.Context, input runnable.Value) (bool, error) {
		return strings.Contains(input.String(), substr), nil
	}
}
