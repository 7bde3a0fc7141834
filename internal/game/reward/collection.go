// Package reward selects collectible drops after a battle victory.
package reward

import "sort"

// Collection is the set of collectible ids a player already owns.
// The zero value is not usable; create with NewCollection.
type Collection struct {
	ids map[string]struct{}
}

// NewCollection returns a collection pre-populated with ids.
func NewCollection(ids ...string) *Collection {
	c := &Collection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		c.ids[id] = struct{}{}
	}
	return c
}

// Has reports whether id has been collected.
func (c *Collection) Has(id string) bool {
	_, ok := c.ids[id]
	return ok
}

// Mark records id as collected.
//
// Postcondition: Has(id) is true. Returns false if id was already collected.
func (c *Collection) Mark(id string) bool {
	if c.Has(id) {
		return false
	}
	c.ids[id] = struct{}{}
	return true
}

// Len returns the number of collected ids.
func (c *Collection) Len() int { return len(c.ids) }

// IDs returns the collected ids in sorted order.
func (c *Collection) IDs() []string {
	out := make([]string, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Covers reports whether every id in all has been collected.
func (c *Collection) Covers(all []string) bool {
	for _, id := range all {
		if !c.Has(id) {
			return false
		}
	}
	return true
}
