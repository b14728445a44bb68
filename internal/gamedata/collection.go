package gamedata

import "strings"

// Collection is a sparse sequence of records as stored in Actors.json, Skills.json and
// the events array of a map. A nil element is a tombstone: the slot exists, its
// record does not. Slots are never removed, so positions stay stable.
type Collection []*Record

// FindByID scans for the first live record whose "id" equals id.
// It returns the slot index, or -1 when no record matches.
func (c Collection) FindByID(id int) (int, *Record) {
	for i, rec := range c {
		if rec == nil {
			continue
		}
		if recID, ok := rec.Int("id"); ok && recID == id {
			return i, rec
		}
	}
	return -1, nil
}

// At returns the record in slot index, or nil when the slot is a tombstone or out of range.
func (c Collection) At(index int) *Record {
	if index < 0 || index >= len(c) {
		return nil
	}
	return c[index]
}

// Live returns the non-nil records in slot order.
func (c Collection) Live() []*Record {
	live := make([]*Record, 0, len(c))
	for _, rec := range c {
		if rec != nil {
			live = append(live, rec)
		}
	}
	return live
}

// NextID returns the id for a record appended to an id-addressed collection.
// Tombstoned slots still count, so a deleted id is never handed out again.
func (c Collection) NextID() int {
	maxID := len(c) - 1
	for _, rec := range c {
		if rec == nil {
			continue
		}
		if id, ok := rec.Int("id"); ok && id > maxID {
			maxID = id
		}
	}
	if maxID < 0 {
		maxID = 0
	}
	return maxID + 1
}

// NextIndex returns the slot for a record in a position-addressed collection such as
// map events. Trailing tombstones are kept, so the new slot is always past the end
// and an emptied slot is never reused. Index 0 is never used.
func (c Collection) NextIndex() int {
	if len(c) < 1 {
		return 1
	}
	return len(c)
}

// Search returns live records where any of fields contains term, ignoring case.
// An empty term matches every live record. The result is never nil.
func (c Collection) Search(term string, fields ...string) []*Record {
	needle := strings.ToLower(term)
	matches := make([]*Record, 0)
	for _, rec := range c {
		if rec == nil {
			continue
		}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(rec.String(field)), needle) {
				matches = append(matches, rec)
				break
			}
		}
	}
	return matches
}
