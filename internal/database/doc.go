// Package database implements CRUD over the id-addressed collections of a
// project: actors, items, weapons, armors and skills.
//
// Every family shares Repository. Records are found by scanning their "id" field,
// deleted by tombstoning their slot, and created under an id one past the highest id
// the collection has ever held:
//
//	repo := database.Actors(store)
//	actor, err := repo.Update(1, map[string]any{"nickname": "Knight"})
//
// Skills add CreateSkill, which fills the editor defaults, and the preset
// constructors CreateDamageSkill, CreateHealingSkill, CreateBuffSkill,
// CreateDebuffSkill and CreateStateSkill. Skills 1 and 2 (Attack and Guard) cannot
// be deleted.
package database
