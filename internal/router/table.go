package router

import (
	"fmt"
	"sort"

	"github.com/af-corp/llm-router/internal/config"
)

// ModelEntry is where a model name routes to.
type ModelEntry struct {
	// CanonicalName is the configured model name; aliases share it.
	CanonicalName   string
	ProviderID      string
	ProviderModelID string
	Aliases         []string
}

// DuplicateModelNameError is returned when a model name or alias is claimed
// more than once across enabled providers. It is fatal at startup.
type DuplicateModelNameError struct {
	Name   string
	First  string
	Second string
}

func (e *DuplicateModelNameError) Error() string {
	return fmt.Sprintf("duplicate model name %q in providers %q and %q", e.Name, e.First, e.Second)
}

// Table maps every model name and alias of the enabled providers to its
// entry. It is built once and never mutated, so concurrent lookups need no
// locking.
type Table struct {
	entries map[string]ModelEntry
	names   []string
}

// BuildTable indexes the models of every enabled provider in declaration
// order. Disabled providers contribute nothing.
func BuildTable(providers *config.ProvidersConfig) (*Table, error) {
	t := &Table{entries: make(map[string]ModelEntry)}
	for _, providerID := range providers.Names() {
		p, _ := providers.Get(providerID)
		if !p.Enabled {
			continue
		}
		for _, m := range p.Models {
			entry := ModelEntry{
				CanonicalName:   m.Name,
				ProviderID:      providerID,
				ProviderModelID: m.ProviderModelID,
				Aliases:         append([]string(nil), m.Aliases...),
			}
			for _, name := range m.Names() {
				if existing, ok := t.entries[name]; ok {
					return nil, &DuplicateModelNameError{Name: name, First: existing.ProviderID, Second: providerID}
				}
				t.entries[name] = entry
			}
		}
	}

	t.names = make([]string, 0, len(t.entries))
	for name := range t.entries {
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	return t, nil
}

// Lookup is an exact, case-sensitive match on a model name or alias.
func (t *Table) Lookup(name string) (ModelEntry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Names returns every routable name, sorted.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *Table) Len() int { return len(t.entries) }
