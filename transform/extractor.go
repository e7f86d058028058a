package transform

import (
	"context"

	"github.com/kbukum/gorunnable/runnable"
)

// Extractor projects one field out of a record.
type Extractor struct {
	name        string
	key         string
	requireText bool
}

// NewExtractor returns a stage that outputs input[key].
func NewExtractor(name, key string) *Extractor {
	if name == "" {
		name = "extract_" + key
	}
	return &Extractor{name: name, key: key}
}

// StringParser extracts the "response" text from a model stand-in's
// envelope. Text input is already a bare response and is returned as is.
func StringParser() *Extractor {
	return &Extractor{name: "string_parser", key: ResponseKey, requireText: true}
}

// Name returns the stage name.
func (e *Extractor) Name() string { return e.name }

// Key returns the extracted field name.
func (e *Extractor) Key() string { return e.key }

// Invoke returns the field, failing with *runnable.KeyNotFoundError when it
// is absent and *runnable.ShapeMismatchError for non-record input.
func (e *Extractor) Invoke(_ context.Context, input runnable.Value) (runnable.Value, error) {
	if e.requireText && input.Kind() == runnable.KindText {
		return input, nil
	}
	rec, err := runnable.ExpectRecord(input)
	if err != nil {
		return runnable.Value{}, runnable.Fail(e.name, err)
	}
	field, ok := rec.Field(e.key)
	if !ok {
		return runnable.Value{}, runnable.Fail(e.name, &runnable.KeyNotFoundError{Key: e.key})
	}
	if e.requireText {
		if _, err := runnable.ExpectText(field); err != nil {
			return runnable.Value{}, runnable.Fail(e.name, err)
		}
	}
	return field, nil
}
