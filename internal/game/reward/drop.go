package reward

import "github.com/cory-johannsen/solace/internal/game/dice"

// Drop is the outcome of one drop selection.
type Drop struct {
	// ID is the newly collected id; empty when Found is false.
	ID    string
	Found bool
	// AllCollected is true when the collection covers the catalog after this selection.
	AllCollected bool
}

// Uncollected returns the ids of all not yet in collected, in catalog order,
// with duplicates removed.
func Uncollected(collected *Collection, all []string) []string {
	seen := make(map[string]bool, len(all))
	var out []string
	for _, id := range all {
		if seen[id] || collected.Has(id) {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// SelectDrop draws one uncollected id uniformly from all and marks it collected.
//
// Precondition: collected and src must not be nil.
// Postcondition: when Found is true, ID was not in collected before the call
// and is in it afterwards. AllCollected reports whether collected covers all
// after the draw; it is also true when nothing remained to draw.
func SelectDrop(collected *Collection, all []string, src dice.Source) Drop {
	pool := Uncollected(collected, all)
	if len(pool) == 0 {
		return Drop{AllCollected: true}
	}
	id := pool[dice.Pick(src, len(pool))]
	collected.Mark(id)
	return Drop{ID: id, Found: true, AllCollected: len(pool) == 1}
}
