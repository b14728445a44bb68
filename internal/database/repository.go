package database

import (
	"errors"
	"slices"

	"rmmz-mcp/internal/gamedata"
)

// errNothingToDelete aborts an UpdateCollection without writing.
var errNothingToDelete = errors.New("nothing to delete")

// Family describes one id-addressed collection file.
type Family struct {
	File         string   // data file name, e.g. Actors.json
	Kind         string   // entity name used in messages, e.g. "Actor"
	SearchFields []string // text fields matched by Search
	FieldOrder   []string // engine key order used when creating records

	// Protected ids cannot be deleted; ProtectedMessage is returned instead.
	Protected        []int
	ProtectedMessage string
}

// Repository implements get/search/update/create/delete over one Family.
// Records are located by scanning their "id" field, never by trusting position.
type Repository struct {
	store  *gamedata.Store
	family Family
}

// NewRepository binds a family to a project store.
func NewRepository(store *gamedata.Store, family Family) *Repository {
	return &Repository{store: store, family: family}
}

// Family returns the collection description.
func (r *Repository) Family() Family {
	return r.family
}

// All returns the whole collection including the placeholder and tombstones.
func (r *Repository) All() (gamedata.Collection, error) {
	return r.store.LoadCollection(r.family.File)
}

// Get returns the record with id, or nil when there is none.
func (r *Repository) Get(id int) (*gamedata.Record, error) {
	coll, err := r.All()
	if err != nil {
		return nil, err
	}
	_, rec := coll.FindByID(id)
	return rec, nil
}

// Search returns live records whose search fields contain term, ignoring case.
func (r *Repository) Search(term string) ([]*gamedata.Record, error) {
	coll, err := r.All()
	if err != nil {
		return nil, err
	}
	return coll.Search(term, r.family.SearchFields...), nil
}

// Update overwrites every key present in updates on the record with id and saves
// the collection. A nil value in updates is stored as null.
func (r *Repository) Update(id int, updates map[string]any) (*gamedata.Record, error) {
	var updated *gamedata.Record
	err := r.store.UpdateCollection(r.family.File, func(coll gamedata.Collection) (gamedata.Collection, error) {
		_, rec := coll.FindByID(id)
		if rec == nil {
			return nil, gamedata.NotFound("%s with ID %d not found", r.family.Kind, id)
		}
		if err := rec.Merge(updates); err != nil {
			return nil, err
		}
		updated = rec
		return coll, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Create appends a record built from fields under the next free id. The id is
// always assigned here; an "id" key in fields is ignored.
func (r *Repository) Create(fields map[string]any) (*gamedata.Record, error) {
	return r.Insert(func(id int) (*gamedata.Record, error) {
		values := make(map[string]any, len(fields)+1)
		for k, v := range fields {
			values[k] = v
		}
		values["id"] = id
		return gamedata.RecordFromMap(values, append([]string{"id"}, r.family.FieldOrder...))
	})
}

// Insert appends the record produced by build for the next free id.
func (r *Repository) Insert(build func(id int) (*gamedata.Record, error)) (*gamedata.Record, error) {
	var created *gamedata.Record
	err := r.store.UpdateCollection(r.family.File, func(coll gamedata.Collection) (gamedata.Collection, error) {
		if len(coll) == 0 {
			// Slot 0 is reserved.
			coll = append(coll, nil)
		}
		rec, err := build(coll.NextID())
		if err != nil {
			return nil, err
		}
		created = rec
		return append(coll, rec), nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Delete tombstones the record with id. It reports false when no record has that
// id and fails with a ProtectedEntityError for protected ids.
func (r *Repository) Delete(id int) (bool, error) {
	deleted := false
	err := r.store.UpdateCollection(r.family.File, func(coll gamedata.Collection) (gamedata.Collection, error) {
		idx, _ := coll.FindByID(id)
		if idx < 0 {
			return nil, errNothingToDelete
		}
		if slices.Contains(r.family.Protected, id) {
			return nil, gamedata.Protected("%s", r.family.ProtectedMessage)
		}
		coll[idx] = nil
		deleted = true
		return coll, nil
	})
	if errors.Is(err, errNothingToDelete) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return deleted, nil
}
