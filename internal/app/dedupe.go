package app

import "sync"

// Deduplicator holds the identity sets for a run: every slug and every
// non-null place id already in the store, plus whatever this run inserts.
// Guarded by a mutex so parallel crawl workers share one view; two
// candidates in the same batch that normalize to the same slug can never
// both be inserted.
type Deduplicator struct {
	mu       sync.Mutex
	slugs    map[string]struct{}
	placeIDs map[string]struct{}
}

func NewDeduplicator(slugs, placeIDs []string) *Deduplicator {
	d := &Deduplicator{
		slugs:    make(map[string]struct{}, len(slugs)),
		placeIDs: make(map[string]struct{}, len(placeIDs)),
	}
	for _, s := range slugs {
		d.slugs[s] = struct{}{}
	}
	for _, p := range placeIDs {
		if p != "" {
			d.placeIDs[p] = struct{}{}
		}
	}
	return d
}

// Seen reports whether slug or placeID (when non-empty) is already known.
func (d *Deduplicator) Seen(slug, placeID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.slugs[slug]; ok {
		return true
	}
	if placeID != "" {
		if _, ok := d.placeIDs[placeID]; ok {
			return true
		}
	}
	return false
}

// Remember records an inserted identity immediately so later candidates in
// the same run dedupe against it.
func (d *Deduplicator) Remember(slug, placeID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slugs[slug] = struct{}{}
	if placeID != "" {
		d.placeIDs[placeID] = struct{}{}
	}
}
