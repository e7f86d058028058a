package runnable

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Entry is a pipeline registered in a Catalog.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Stage       Stage  `json:"-"`
}

// Catalog is a named lookup of pipelines, safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Register adds a pipeline under name. Names must be unique.
func (c *Catalog) Register(name, description string, s Stage) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("catalog: pipeline name is empty")
	}
	if s == nil {
		return fmt.Errorf("catalog: pipeline %q has a nil stage", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[name]; exists {
		return fmt.Errorf("catalog: pipeline %q already registered", name)
	}
	c.entries[name] = Entry{Name: name, Description: description, Stage: s}
	return nil
}

// Get returns the pipeline registered under name.
func (c *Catalog) Get(name string) (Stage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e.Stage, ok
}

// List returns the entries sorted by name.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	entries := c.List()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Decorate replaces every registered pipeline with Apply(stage, mws...).
func (c *Catalog) Decorate(mws ...Middleware) {
	if len(mws) == 0 {
		return
	}
	mw := Chain(mws...)
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, e := range c.entries {
		e.Stage = mw(e.Stage)
		c.entries[name] = e
	}
}
