package transform

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kbukum/gorunnable/runnable"
)

// TemplateOption configures a Template.
type TemplateOption func(*Template)

// WithVariables declares variables the input must supply even if the
// template text does not use them.
func WithVariables(names ...string) TemplateOption {
	return func(t *Template) {
		for _, n := range names {
			t.declared[n] = true
		}
	}
}

// WithPartials pre-binds variables. Input fields with the same name take
// precedence.
func WithPartials(values map[string]string) TemplateOption {
	return func(t *Template) {
		maps.Copy(t.partials, values)
	}
}

// segment is either literal text or a variable reference.
type segment struct {
	text     string
	variable string
}

// Template renders a prompt by substituting {name} placeholders.
// "{{" and "}}" stand for literal braces.
type Template struct {
	name     string
	source   string
	segments []segment
	declared map[string]bool
	partials map[string]string
	required []string
}

// NewTemplate parses source. An unterminated or empty placeholder, or a
// lone closing brace, is an error.
func NewTemplate(name, source string, opts ...TemplateOption) (*Template, error) {
	segments, err := parseTemplate(source)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	if name == "" {
		name = "template"
	}

	t := &Template{
		name:     name,
		source:   source,
		segments: segments,
		declared: make(map[string]bool),
		partials: make(map[string]string),
	}
	for _, opt := range opts {
		opt(t)
	}

	required := maps.Clone(t.declared)
	for _, s := range segments {
		if s.variable != "" {
			required[s.variable] = true
		}
	}
	for name := range t.partials {
		delete(required, name)
	}
	var names []string
	for name := range required {
		names = append(names, name)
	}
	slices.Sort(names)
	t.required = names
	return t, nil
}

// MustTemplate is NewTemplate for literal templates.
func MustTemplate(name, source string, opts ...TemplateOption) *Template {
	t, err := NewTemplate(name, source, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the stage name.
func (t *Template) Name() string { return t.name }

// Source returns the unparsed template text.
func (t *Template) Source() string { return t.source }

// Variables returns the sorted names the input must supply.
func (t *Template) Variables() []string { return slices.Clone(t.required) }

// Invoke renders the template to text. A record input must carry every
// required variable. A text input is accepted when exactly one variable is
// required and is bound to it.
func (t *Template) Invoke(_ context.Context, input runnable.Value) (runnable.Value, error) {
	vars, err := t.bind(input)
	if err != nil {
		return runnable.Value{}, runnable.Fail(t.name, err)
	}

	var b strings.Builder
	b.Grow(len(t.source))
	for _, s := range t.segments {
		if s.variable == "" {
			b.WriteString(s.text)
			continue
		}
		b.WriteString(vars[s.variable])
	}
	return runnable.Text(b.String()), nil
}

func (t *Template) bind(input runnable.Value) (map[string]string, error) {
	vars := maps.Clone(t.partials)

	switch input.Kind() {
	case runnable.KindRecord:
		for _, key := range input.Keys() {
			f, _ := input.Field(key)
			vars[key] = f.String()
		}
	case runnable.KindText:
		if len(t.required) != 1 {
			return nil, &runnable.ShapeMismatchError{Want: runnable.KindRecord, Got: runnable.KindText}
		}
		s, _ := input.AsText()
		vars[t.required[0]] = s
	default:
		return nil, &runnable.ShapeMismatchError{Want: runnable.KindRecord, Got: input.Kind()}
	}

	for _, name := range t.required {
		if _, ok := vars[name]; !ok {
			return nil, &runnable.MissingVariableError{Variable: name}
		}
	}
	return vars, nil
}

func parseTemplate(src string) ([]segment, error) {
	var (
		segments []segment
		lit      strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '{':
			if i+1 < len(src) && src[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexAny(src[i+1:], "{}")
			if end < 0 || src[i+1+end] != '}' {
				return nil, fmt.Errorf("unterminated placeholder at offset %d", i)
			}
			name := src[i+1 : i+1+end]
			if strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("empty placeholder at offset %d", i)
			}
			flush()
			segments = append(segments, segment{variable: name})
			i += end + 1
		case '}':
			if i+1 < len(src) && src[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("single '}' at offset %d", i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return segments, nil
}
