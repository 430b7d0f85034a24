// Package catalog holds the speaker identifiers known to the multi-speaker
// model. The catalog is populated once at startup and read-only afterwards,
// so it is safe for unsynchronized concurrent reads from request handlers.
package catalog

import "github.com/samber/lo"

// Catalog is an ordered, de-duplicated set of speaker identifiers.
type Catalog struct {
	speakers []string
}

// New builds a catalog from the identifiers reported by the model, preserving
// their order and dropping duplicates. A nil or empty slice produces an empty
// catalog, which is the degraded state used when the model failed to load.
func New(speakers []string) *Catalog {
	return &Catalog{speakers: lo.Uniq(speakers)}
}

// List returns a copy of the catalog so callers cannot mutate shared state.
func (c *Catalog) List() []string {
	out := make([]string, len(c.speakers))
	copy(out, c.speakers)

	return out
}

// Contains reports whether the identifier names a known speaker.
func (c *Catalog) Contains(speakerID string) bool {
	return lo.Contains(c.speakers, speakerID)
}

// Empty reports whether no speakers are known, which happens when the
// multi-speaker model failed to initialize.
func (c *Catalog) Empty() bool {
	return len(c.speakers) == 0
}

// Len returns the number of known speakers.
func (c *Catalog) Len() int {
	return len(c.speakers)
}
