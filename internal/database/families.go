package database

import "rmmz-mcp/internal/gamedata"

// Collection families of the project database. FieldOrder follows the key order the
// editor writes, so created records look like ones the editor made.
var (
	ActorFamily = Family{
		File:         gamedata.ActorsFile,
		Kind:         "Actor",
		SearchFields: []string{"name", "nickname"},
		FieldOrder: []string{
			"battlerName", "characterIndex", "characterName", "classId", "equips",
			"faceIndex", "faceName", "traits", "initialLevel", "maxLevel",
			"name", "nickname", "note", "profile",
		},
	}

	ItemFamily = Family{
		File:         gamedata.ItemsFile,
		Kind:         "Item",
		SearchFields: []string{"name", "description"},
		FieldOrder: []string{
			"animationId", "consumable", "damage", "description", "effects",
			"hitType", "iconIndex", "itypeId", "name", "note", "occasion",
			"price", "repeats", "scope", "speed", "successRate", "tpGain",
		},
	}

	WeaponFamily = Family{
		File:         gamedata.WeaponsFile,
		Kind:         "Weapon",
		SearchFields: []string{"name", "description"},
		FieldOrder: []string{
			"animationId", "description", "etypeId", "traits", "iconIndex",
			"name", "note", "params", "price", "wtypeId",
		},
	}

	ArmorFamily = Family{
		File:         gamedata.ArmorsFile,
		Kind:         "Armor",
		SearchFields: []string{"name", "description"},
		FieldOrder: []string{
			"atypeId", "description", "etypeId", "traits", "iconIndex",
			"name", "note", "params", "price",
		},
	}

	SkillFamily = Family{
		File:         gamedata.SkillsFile,
		Kind:         "Skill",
		SearchFields: []string{"name", "description"},
		FieldOrder: []string{
			"name", "description", "iconIndex", "mpCost", "tpCost", "tpGain",
			"scope", "occasion", "speed", "successRate", "repeats", "hitType",
			"animationId", "damage", "effects", "message1", "message2", "note",
			"stypeId", "requiredWtypeId1", "requiredWtypeId2", "messageType", "traits",
		},
		Protected:        []int{1, 2},
		ProtectedMessage: "Cannot delete core skills (Attack/Guard)",
	}
)

// Actors returns the repository for Actors.json.
func Actors(store *gamedata.Store) *Repository { return NewRepository(store, ActorFamily) }

// Items returns the repository for Items.json.
func Items(store *gamedata.Store) *Repository { return NewRepository(store, ItemFamily) }

// Weapons returns the repository for Weapons.json.
func Weapons(store *gamedata.Store) *Repository { return NewRepository(store, WeaponFamily) }

// Armors returns the repository for Armors.json.
func Armors(store *gamedata.Store) *Repository { return NewRepository(store, ArmorFamily) }
