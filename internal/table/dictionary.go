package table

// Dictionary is the flat key-indexed row store shared by both views. It is
// the single reconciliation point between the two row trees: every built
// child row is written here, and cross-view lookups go through it.
//
// Upsert overwrites an existing entry silently and reports the replacement;
// the overwrite-on-write policy is how the views stay referentially
// reconcilable without a second synchronization pass.
type Dictionary struct {
	rows map[Key]*Row
}

// NewDictionary creates an empty Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		rows: make(map[Key]*Row),
	}
}

// Upsert stores row under key, returning true when it replaced an existing entry.
func (d *Dictionary) Upsert(key Key, row *Row) bool {
	_, replaced := d.rows[key]
	d.rows[key] = row
	return replaced
}

// Get returns the row stored under key.
func (d *Dictionary) Get(key Key) (*Row, bool) {
	row, ok := d.rows[key]
	return row, ok
}

// Remove deletes the entry under key, reporting whether it existed.
func (d *Dictionary) Remove(key Key) bool {
	if _, ok := d.rows[key]; !ok {
		return false
	}
	delete(d.rows, key)
	return true
}

// RemoveIdentifier deletes every entry for identifier across both views,
// returning the number of removed entries. Used on row removal so stale
// cross-view references cannot survive.
func (d *Dictionary) RemoveIdentifier(identifier string) int {
	removed := 0
	for key := range d.rows {
		if key.Identifier == identifier {
			delete(d.rows, key)
			removed++
		}
	}
	return removed
}

// Clear drops all entries; called before every full rebuild.
func (d *Dictionary) Clear() {
	clear(d.rows)
}

// Len returns the number of stored rows.
func (d *Dictionary) Len() int {
	return len(d.rows)
}
