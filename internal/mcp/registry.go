package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"rmmz-mcp/internal/database"
	"rmmz-mcp/internal/gamedata"
	"rmmz-mcp/internal/maps"
	"rmmz-mcp/internal/system"
)

// handlerFunc runs one tool against already validated services. The result is
// rendered as pretty JSON.
type handlerFunc func(ctx context.Context, a args) (any, error)

type toolDef struct {
	tool mcp.Tool
	run  handlerFunc
}

// success is returned by mutating tools that have no record to report.
var success = map[string]bool{"success": true}

// services are the domain operations the catalog routes to, all bound to one store.
type services struct {
	actors  *database.Repository
	items   *database.Repository
	weapons *database.Repository
	armors  *database.Repository
	skills  *database.Skills
	maps    *maps.Service
	system  *system.Service
}

func newServices(store *gamedata.Store) *services {
	return &services{
		actors:  database.Actors(store),
		items:   database.Items(store),
		weapons: database.Weapons(store),
		armors:  database.Armors(store),
		skills:  database.NewSkills(store),
		maps:    maps.New(store),
		system:  system.New(store),
	}
}

// catalog lists every tool in the order tools/list reports them.
func catalog(svc *services) []toolDef {
	var defs []toolDef
	defs = append(defs, collectionTools(svc.actors, "actorId", actorCreateOptions(), nil)...)
	defs = append(defs, collectionTools(svc.items, "itemId", itemCreateOptions(), nil)...)
	defs = append(defs, collectionTools(svc.weapons, "weaponId", equipCreateOptions("wtypeId", "Weapon type ID"), nil)...)
	defs = append(defs, collectionTools(svc.armors, "armorId", equipCreateOptions("atypeId", "Armor type ID"), nil)...)
	defs = append(defs, collectionTools(svc.skills.Repository, "skillId", skillCreateOptions(), createSkill(svc.skills))...)
	defs = append(defs, skillPresetTools(svc.skills)...)
	defs = append(defs, mapTools(svc.maps)...)
	defs = append(defs, systemTools(svc.system)...)
	return defs
}

// collectionTools builds the get/search/update/create/delete tools of one family.
// create runs createFn when given, else a plain field pass-through.
func collectionTools(repo *database.Repository, idArg string, createOpts []mcp.ToolOption, createFn handlerFunc) []toolDef {
	family := repo.Family()
	singular := strings.ToLower(family.Kind)
	plural := singular + "s"
	searchIn := strings.Join(family.SearchFields, " or ")

	idOpts := func(verb string) []mcp.ToolOption {
		return []mcp.ToolOption{
			mcp.WithNumber(idArg, mcp.Required(), mcp.Description(fmt.Sprintf("The ID of the %s to %s", singular, verb))),
			mcp.WithNumber("id", mcp.Description("Alias for "+idArg)),
		}
	}

	if createFn == nil {
		createFn = func(_ context.Context, a args) (any, error) {
			if _, err := a.String("name"); err != nil {
				return nil, err
			}
			return repo.Create(a)
		}
	}

	return []toolDef{
		{
			tool: mcp.NewTool("get_"+plural,
				mcp.WithDescription(fmt.Sprintf("Get all %s from the RPG Maker MZ project", plural)),
			),
			run: func(context.Context, args) (any, error) {
				return repo.All()
			},
		},
		{
			tool: mcp.NewTool("get_"+singular, append([]mcp.ToolOption{
				mcp.WithDescription(fmt.Sprintf("Get a specific %s by ID", singular)),
			}, idOpts("retrieve")...)...),
			run: func(_ context.Context, a args) (any, error) {
				id, err := a.Int(idArg, "id")
				if err != nil {
					return nil, err
				}
				return repo.Get(id)
			},
		},
		{
			tool: mcp.NewTool("search_"+plural,
				mcp.WithDescription(fmt.Sprintf("Search %s by %s", plural, searchIn)),
				mcp.WithString("searchTerm", mcp.Required(), mcp.Description(fmt.Sprintf("The search term to find %s", plural))),
			),
			run: func(_ context.Context, a args) (any, error) {
				term, err := a.String("searchTerm")
				if err != nil {
					return nil, err
				}
				return repo.Search(term)
			},
		},
		{
			tool: mcp.NewTool("update_"+singular, append(append([]mcp.ToolOption{
				mcp.WithDescription(fmt.Sprintf("Update the properties of an existing %s", singular)),
			}, idOpts("update")...),
				mcp.WithObject("updates", mcp.Required(), mcp.Description("Object containing properties to update")),
			)...),
			run: func(_ context.Context, a args) (any, error) {
				id, err := a.Int(idArg, "id")
				if err != nil {
					return nil, err
				}
				updates, err := a.Object("updates")
				if err != nil {
					return nil, err
				}
				return repo.Update(id, updates)
			},
		},
		{
			tool: mcp.NewTool("create_"+singular, append([]mcp.ToolOption{
				mcp.WithDescription(fmt.Sprintf("Create a new %s with the next free ID", singular)),
				mcp.WithString("name", mcp.Required(), mcp.Description(fmt.Sprintf("Name of the %s", singular))),
			}, createOpts...)...),
			run: createFn,
		},
		{
			tool: mcp.NewTool("delete_"+singular, append([]mcp.ToolOption{
				mcp.WithDescription(fmt.Sprintf("Delete the %s with the given ID, leaving its slot empty so other IDs stay stable", singular)),
			}, idOpts("delete")...)...),
			run: func(_ context.Context, a args) (any, error) {
				id, err := a.Int(idArg, "id")
				if err != nil {
					return nil, err
				}
				return repo.Delete(id)
			},
		},
	}
}

func actorCreateOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("nickname", mcp.Description("Nickname shown in the status screen")),
		mcp.WithString("profile", mcp.Description("Profile text")),
		mcp.WithNumber("classId", mcp.Description("Class ID")),
		mcp.WithNumber("initialLevel", mcp.Description("Starting level")),
		mcp.WithNumber("maxLevel", mcp.Description("Level cap")),
	}
}

func itemCreateOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("description", mcp.Description("Help text")),
		mcp.WithNumber("iconIndex", mcp.Description("Icon index")),
		mcp.WithNumber("price", mcp.Description("Shop price")),
		mcp.WithNumber("itypeId", mcp.Description("Item type: 1 regular, 2 key item")),
		mcp.WithBoolean("consumable", mcp.Description("Whether the item is used up")),
	}
}

func equipCreateOptions(typeArg, typeDesc string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("description", mcp.Description("Help text")),
		mcp.WithNumber("iconIndex", mcp.Description("Icon index")),
		mcp.WithNumber("price", mcp.Description("Shop price")),
		mcp.WithNumber(typeArg, mcp.Description(typeDesc)),
		mcp.WithNumber("etypeId", mcp.Description("Equipment slot type ID")),
		mcp.WithArray("params", mcp.Items(map[string]any{"type": "number"}), mcp.Description("Eight parameter bonuses")),
	}
}

func skillCreateOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("description", mcp.Description("Help text")),
		mcp.WithNumber("iconIndex", mcp.Description("Icon index (default 64)")),
		mcp.WithNumber("mpCost", mcp.Description("MP cost (default 0)")),
		mcp.WithNumber("tpCost", mcp.Description("TP cost (default 0)")),
		mcp.WithNumber("tpGain", mcp.Description("TP gained on use (default 0)")),
		mcp.WithNumber("scope", mcp.Description("Target scope (default 1, one enemy)")),
		mcp.WithNumber("occasion", mcp.Description("When usable (default 1, battle)")),
		mcp.WithNumber("speed", mcp.Description("Speed modifier (default 0)")),
		mcp.WithNumber("successRate", mcp.Description("Success rate percent (default 100)")),
		mcp.WithNumber("repeats", mcp.Description("Repeat count (default 1)")),
		mcp.WithNumber("hitType", mcp.Description("0 certain, 1 physical, 2 magical")),
		mcp.WithNumber("animationId", mcp.Description("Animation ID (default 0)")),
		mcp.WithObject("damage", mcp.Description("Damage block: type, elementId, formula, variance, critical")),
		mcp.WithArray("effects", mcp.Description("Effects: objects with code, dataId, value1, value2")),
		mcp.WithString("message1", mcp.Description("Battle message, %1 is the user")),
		mcp.WithString("message2", mcp.Description("Second battle message line")),
		mcp.WithString("note", mcp.Description("Note field")),
		mcp.WithNumber("stypeId", mcp.Description("Skill type ID (default 1)")),
	}
}

func createSkill(skills *database.Skills) handlerFunc {
	return func(_ context.Context, a args) (any, error) {
		if _, err := a.String("name"); err != nil {
			return nil, err
		}
		var p database.SkillParams
		if err := a.Decode(&p); err != nil {
			return nil, err
		}
		return skills.CreateSkill(p)
	}
}

// skillCostOptions are the arguments every skill preset shares.
func skillCostOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the skill")),
		mcp.WithNumber("mpCost", mcp.Required(), mcp.Description("MP cost")),
		mcp.WithNumber("scope", mcp.Required(), mcp.Description("Target scope, e.g. 1 one enemy, 2 all enemies, 7 one ally")),
		mcp.WithString("description", mcp.Description("Help text; a default is generated when omitted")),
	}
}

// presetArgs decodes the shared preset arguments.
func presetArgs(a args) (name string, mpCost, scope int, description *string, err error) {
	if name, err = a.String("name"); err != nil {
		return
	}
	if mpCost, err = a.Int("mpCost"); err != nil {
		return
	}
	if scope, err = a.Int("scope"); err != nil {
		return
	}
	description, err = a.OptString("description")
	return
}

func skillPresetTools(skills *database.Skills) []toolDef {
	buffTool := func(name, desc, typeArg string, create func(string, int, int, int, int, *string) (*gamedata.Record, error)) toolDef {
		return toolDef{
			tool: mcp.NewTool(name, append([]mcp.ToolOption{
				mcp.WithDescription(desc),
				mcp.WithNumber(typeArg, mcp.Required(), mcp.Description("Parameter index: 0 MHP, 1 MMP, 2 ATK, 3 DEF, 4 MAT, 5 MDF, 6 AGI, 7 LUK")),
				mcp.WithNumber("turns", mcp.Required(), mcp.Description("Duration in turns")),
			}, skillCostOptions()...)...),
			run: func(_ context.Context, a args) (any, error) {
				skillName, mpCost, scope, description, err := presetArgs(a)
				if err != nil {
					return nil, err
				}
				paramType, err := a.Int(typeArg)
				if err != nil {
					return nil, err
				}
				turns, err := a.Int("turns")
				if err != nil {
					return nil, err
				}
				return create(skillName, paramType, turns, mpCost, scope, description)
			},
		}
	}

	return []toolDef{
		{
			tool: mcp.NewTool("create_damage_skill", append([]mcp.ToolOption{
				mcp.WithDescription("Create an HP damage skill"),
				mcp.WithString("damageFormula", mcp.Required(), mcp.Description("Damage formula, e.g. a.mat * 4 - b.mdf * 2")),
				mcp.WithNumber("elementId", mcp.Description("Element ID (default 0)")),
			}, skillCostOptions()...)...),
			run: func(_ context.Context, a args) (any, error) {
				name, mpCost, scope, description, err := presetArgs(a)
				if err != nil {
					return nil, err
				}
				formula, err := a.String("damageFormula")
				if err != nil {
					return nil, err
				}
				elementID, err := a.OptInt("elementId")
				if err != nil {
					return nil, err
				}
				return skills.CreateDamageSkill(name, formula, mpCost, scope, elementID, description)
			},
		},
		{
			tool: mcp.NewTool("create_healing_skill", append([]mcp.ToolOption{
				mcp.WithDescription("Create an HP recovery skill"),
				mcp.WithString("healFormula", mcp.Required(), mcp.Description("Recovery formula, e.g. a.mat * 2 + 50")),
			}, skillCostOptions()...)...),
			run: func(_ context.Context, a args) (any, error) {
				name, mpCost, scope, description, err := presetArgs(a)
				if err != nil {
					return nil, err
				}
				formula, err := a.String("healFormula")
				if err != nil {
					return nil, err
				}
				return skills.CreateHealingSkill(name, formula, mpCost, scope, description)
			},
		},
		buffTool("create_buff_skill", "Create a skill that raises a parameter for some turns", "buffType", skills.CreateBuffSkill),
		buffTool("create_debuff_skill", "Create a skill that lowers a parameter for some turns", "debuffType", skills.CreateDebuffSkill),
		{
			tool: mcp.NewTool("create_state_skill", append([]mcp.ToolOption{
				mcp.WithDescription("Create a skill that inflicts a state"),
				mcp.WithNumber("stateId", mcp.Required(), mcp.Description("State ID to add")),
				mcp.WithNumber("chance", mcp.Required(), mcp.Description("Chance to inflict, 0 to 1")),
			}, skillCostOptions()...)...),
			run: func(_ context.Context, a args) (any, error) {
				name, mpCost, scope, description, err := presetArgs(a)
				if err != nil {
					return nil, err
				}
				stateID, err := a.Int("stateId")
				if err != nil {
					return nil, err
				}
				chance, err := a.Float("chance")
				if err != nil {
					return nil, err
				}
				return skills.CreateStateSkill(name, stateID, chance, mpCost, scope, description)
			},
		},
	}
}

func mapTools(svc *maps.Service) []toolDef {
	mapID := mcp.WithNumber("mapId", mcp.Required(), mcp.Description("The ID of the map"))
	eventID := mcp.WithNumber("eventId", mcp.Required(), mcp.Description("The ID of the event"))

	return []toolDef{
		{
			tool: mcp.NewTool("get_map",
				mcp.WithDescription("Get map data by ID"),
				mapID,
			),
			run: func(_ context.Context, a args) (any, error) {
				id, err := a.Int("mapId")
				if err != nil {
					return nil, err
				}
				return svc.Get(id)
			},
		},
		{
			tool: mcp.NewTool("update_map",
				mcp.WithDescription("Update top-level properties of a map"),
				mapID,
				mcp.WithObject("updates", mcp.Required(), mcp.Description("Object containing properties to update")),
			),
			run: func(_ context.Context, a args) (any, error) {
				id, err := a.Int("mapId")
				if err != nil {
					return nil, err
				}
				updates, err := a.Object("updates")
				if err != nil {
					return nil, err
				}
				return svc.Update(id, updates)
			},
		},
		{
			tool: mcp.NewTool("get_map_infos",
				mcp.WithDescription("Get information about all maps"),
			),
			run: func(context.Context, args) (any, error) {
				return svc.Infos()
			},
		},
		{
			tool: mcp.NewTool("get_map_dimensions",
				mcp.WithDescription("Get the width and height of a map in tiles"),
				mapID,
			),
			run: func(_ context.Context, a args) (any, error) {
				id, err := a.Int("mapId")
				if err != nil {
					return nil, err
				}
				return svc.Dimensions(id)
			},
		},
		{
			tool: mcp.NewTool("set_map_tile",
				mcp.WithDescription("Set the tile ID at a position and layer of a map"),
				mapID,
				mcp.WithNumber("x", mcp.Required(), mcp.Description("Column")),
				mcp.WithNumber("y", mcp.Required(), mcp.Description("Row")),
				mcp.WithNumber("layer", mcp.Required(), mcp.Description("Layer 0-5")),
				mcp.WithNumber("tileId", mcp.Required(), mcp.Description("Tile ID")),
			),
			run: func(_ context.Context, a args) (any, error) {
				var v [5]int
				for i, name := range []string{"mapId", "x", "y", "layer", "tileId"} {
					n, err := a.Int(name)
					if err != nil {
						return nil, err
					}
					v[i] = n
				}
				if err := svc.SetTile(v[0], v[1], v[2], v[3], v[4]); err != nil {
					return nil, err
				}
				return success, nil
			},
		},
		{
			tool: mcp.NewTool("get_map_events",
				mcp.WithDescription("Get all events from a specific map"),
				mapID,
			),
			run: func(_ context.Context, a args) (any, error) {
				id, err := a.Int("mapId")
				if err != nil {
					return nil, err
				}
				return svc.Events(id)
			},
		},
		{
			tool: mcp.NewTool("get_map_event",
				mcp.WithDescription("Get a specific event from a map"),
				mapID,
				eventID,
			),
			run: func(_ context.Context, a args) (any, error) {
				m, e, err := mapAndEvent(a)
				if err != nil {
					return nil, err
				}
				return svc.Event(m, e)
			},
		},
		{
			tool: mcp.NewTool("search_map_events",
				mcp.WithDescription("Search events on a map by name"),
				mapID,
				mcp.WithString("searchTerm", mcp.Required(), mcp.Description("The search term to find events")),
			),
			run: func(_ context.Context, a args) (any, error) {
				id, err := a.Int("mapId")
				if err != nil {
					return nil, err
				}
				term, err := a.String("searchTerm")
				if err != nil {
					return nil, err
				}
				return svc.SearchEvents(id, term)
			},
		},
		{
			tool: mcp.NewTool("update_map_event",
				mcp.WithDescription("Update a map event's properties"),
				mapID,
				eventID,
				mcp.WithObject("updates", mcp.Required(), mcp.Description("Object containing properties to update")),
			),
			run: func(_ context.Context, a args) (any, error) {
				m, e, err := mapAndEvent(a)
				if err != nil {
					return nil, err
				}
				updates, err := a.Object("updates")
				if err != nil {
					return nil, err
				}
				return svc.UpdateEvent(m, e, updates)
			},
		},
		{
			tool: mcp.NewTool("create_map_event",
				mcp.WithDescription("Create a new event on a map"),
				mapID,
				mcp.WithString("name", mcp.Required(), mcp.Description("Event name")),
				mcp.WithNumber("x", mcp.Required(), mcp.Description("Column")),
				mcp.WithNumber("y", mcp.Required(), mcp.Description("Row")),
				mcp.WithArray("pages", mcp.Required(), mcp.Description("Event pages")),
				mcp.WithString("note", mcp.Description("Note field")),
			),
			run: func(_ context.Context, a args) (any, error) {
				id, err := a.Int("mapId")
				if err != nil {
					return nil, err
				}
				if err := a.Require("name", "x", "y", "pages"); err != nil {
					return nil, err
				}
				return svc.CreateEvent(id, a.Without("mapId", "id"))
			},
		},
		{
			tool: mcp.NewTool("delete_map_event",
				mcp.WithDescription("Delete an event, leaving its slot empty"),
				mapID,
				eventID,
			),
			run: func(_ context.Context, a args) (any, error) {
				m, e, err := mapAndEvent(a)
				if err != nil {
					return nil, err
				}
				return svc.DeleteEvent(m, e)
			},
		},
		{
			tool: mcp.NewTool("add_event_command",
				mcp.WithDescription("Add a command to an event page, before the end-of-list command"),
				mapID,
				eventID,
				mcp.WithNumber("pageIndex", mcp.Required(), mcp.Description("Index of the event page")),
				mcp.WithObject("command", mcp.Required(), mcp.Description("Command with code, indent and parameters")),
				mcp.WithNumber("position", mcp.Description("Index to insert at; appended when omitted or out of range")),
			),
			run: func(_ context.Context, a args) (any, error) {
				m, e, err := mapAndEvent(a)
				if err != nil {
					return nil, err
				}
				page, err := a.Int("pageIndex")
				if err != nil {
					return nil, err
				}
				command, err := a.Object("command")
				if err != nil {
					return nil, err
				}
				position, err := a.OptInt("position")
				if err != nil {
					return nil, err
				}
				return svc.AddEventCommand(m, e, page, command, position)
			},
		},
	}
}

func mapAndEvent(a args) (int, int, error) {
	m, err := a.Int("mapId")
	if err != nil {
		return 0, 0, err
	}
	e, err := a.Int("eventId")
	if err != nil {
		return 0, 0, err
	}
	return m, e, nil
}

func systemTools(svc *system.Service) []toolDef {
	nameSetter := func(tool, idArg, what string, set func(int, string) error) toolDef {
		return toolDef{
			tool: mcp.NewTool(tool,
				mcp.WithDescription("Set a "+what+" name"),
				mcp.WithNumber(idArg, mcp.Required(), mcp.Description("The ID of the "+what)),
				mcp.WithNumber("id", mcp.Description("Alias for "+idArg)),
				mcp.WithString("name", mcp.Required(), mcp.Description("The new name")),
			),
			run: func(_ context.Context, a args) (any, error) {
				id, err := a.Int(idArg, "id")
				if err != nil {
					return nil, err
				}
				name, err := a.String("name")
				if err != nil {
					return nil, err
				}
				if err := set(id, name); err != nil {
					return nil, err
				}
				return success, nil
			},
		}
	}

	termSetter := func(tool, what string, set func(int, string) error) toolDef {
		return toolDef{
			tool: mcp.NewTool(tool,
				mcp.WithDescription("Set one of the "+what+" terms"),
				mcp.WithNumber("index", mcp.Required(), mcp.Description("Index in the "+what+" terms list")),
				mcp.WithString("value", mcp.Required(), mcp.Description("The new term")),
			),
			run: func(_ context.Context, a args) (any, error) {
				index, err := a.Int("index")
				if err != nil {
					return nil, err
				}
				value, err := a.String("value")
				if err != nil {
					return nil, err
				}
				if err := set(index, value); err != nil {
					return nil, err
				}
				return success, nil
			},
		}
	}

	return []toolDef{
		{
			tool: mcp.NewTool("get_system", mcp.WithDescription("Get system data")),
			run: func(context.Context, args) (any, error) {
				return svc.Get()
			},
		},
		{
			tool: mcp.NewTool("update_system",
				mcp.WithDescription("Update top-level properties of the system data"),
				mcp.WithObject("updates", mcp.Required(), mcp.Description("Object containing properties to update")),
			),
			run: func(_ context.Context, a args) (any, error) {
				updates, err := a.Object("updates")
				if err != nil {
					return nil, err
				}
				return svc.Update(updates)
			},
		},
		{
			tool: mcp.NewTool("get_variables", mcp.WithDescription("Get all game variable names")),
			run: func(context.Context, args) (any, error) {
				return svc.Variables()
			},
		},
		nameSetter("set_variable_name", "variableId", "variable", svc.SetVariableName),
		{
			tool: mcp.NewTool("get_switches", mcp.WithDescription("Get all game switch names")),
			run: func(context.Context, args) (any, error) {
				return svc.Switches()
			},
		},
		nameSetter("set_switch_name", "switchId", "switch", svc.SetSwitchName),
		{
			tool: mcp.NewTool("get_game_title", mcp.WithDescription("Get the game title")),
			run: func(context.Context, args) (any, error) {
				return svc.GameTitle()
			},
		},
		{
			tool: mcp.NewTool("update_game_title",
				mcp.WithDescription("Update the game title"),
				mcp.WithString("title", mcp.Required(), mcp.Description("The new title")),
			),
			run: func(_ context.Context, a args) (any, error) {
				title, err := a.String("title")
				if err != nil {
					return nil, err
				}
				if err := svc.SetGameTitle(title); err != nil {
					return nil, err
				}
				return success, nil
			},
		},
		{
			tool: mcp.NewTool("get_starting_position", mcp.WithDescription("Get the map and tile where a new game starts")),
			run: func(context.Context, args) (any, error) {
				return svc.StartingPosition()
			},
		},
		{
			tool: mcp.NewTool("update_starting_position",
				mcp.WithDescription("Update the game starting position"),
				mcp.WithNumber("mapId", mcp.Required(), mcp.Description("The ID of the map")),
				mcp.WithNumber("x", mcp.Required(), mcp.Description("Column")),
				mcp.WithNumber("y", mcp.Required(), mcp.Description("Row")),
			),
			run: func(_ context.Context, a args) (any, error) {
				mapID, err := a.Int("mapId")
				if err != nil {
					return nil, err
				}
				x, err := a.Int("x")
				if err != nil {
					return nil, err
				}
				y, err := a.Int("y")
				if err != nil {
					return nil, err
				}
				if err := svc.SetStartingPosition(mapID, x, y); err != nil {
					return nil, err
				}
				return success, nil
			},
		},
		{
			tool: mcp.NewTool("get_party_members", mcp.WithDescription("Get the actor IDs of the starting party")),
			run: func(context.Context, args) (any, error) {
				return svc.PartyMembers()
			},
		},
		{
			tool: mcp.NewTool("update_party_members",
				mcp.WithDescription("Replace the starting party"),
				mcp.WithArray("partyMembers", mcp.Required(), mcp.Items(map[string]any{"type": "number"}), mcp.Description("Actor IDs in party order")),
			),
			run: func(_ context.Context, a args) (any, error) {
				members, err := a.Ints("partyMembers")
				if err != nil {
					return nil, err
				}
				if err := svc.SetPartyMembers(members); err != nil {
					return nil, err
				}
				return success, nil
			},
		},
		{
			tool: mcp.NewTool("get_terms", mcp.WithDescription("Get the basic, command, parameter and message terms")),
			run: func(context.Context, args) (any, error) {
				return svc.Terms()
			},
		},
		termSetter("update_basic_term", "basic", svc.SetBasicTerm),
		termSetter("update_command_term", "command", svc.SetCommandTerm),
	}
}
