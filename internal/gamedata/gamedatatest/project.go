// Package gamedatatest builds throwaway RPG Maker MZ projects for tests.
package gamedatatest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MarkerFile mirrors project.MarkerFile; duplicated to avoid an import cycle in tests.
const MarkerFile = "game.rmmzproject"

// Map001 dimensions in the fixture project.
const (
	MapWidth  = 4
	MapHeight = 3
	MapLayers = 6
)

const systemJSON = `{
  "gameTitle": "Test Quest",
  "currencyUnit": "G",
  "locale": "en_US",
  "partyMembers": [1, 2],
  "startMapId": 1,
  "startX": 0,
  "startY": 0,
  "switches": ["", "Door Open"],
  "variables": ["", "Gold Count"],
  "terms": {
    "basic": ["Level", "Lv", "HP"],
    "commands": ["Fight", "Escape", "Attack"],
    "params": ["Max HP", "Max MP"],
    "messages": {"actionFailure": "There was no effect on %1!"}
  },
  "versionId": 12345
}`

const actorsJSON = `[
  null,
  {"id": 1, "battlerName": "Actor1_1", "characterIndex": 0, "characterName": "Actor1", "classId": 1, "equips": [1, 1, 2, 3, 0], "faceIndex": 0, "faceName": "Actor1", "traits": [], "initialLevel": 1, "maxLevel": 99, "name": "Reid", "nickname": "Swordsman", "note": "<hero>", "profile": ""},
  {"id": 2, "battlerName": "Actor1_2", "characterIndex": 1, "characterName": "Actor1", "classId": 2, "equips": [2, 0, 0, 0, 0], "faceIndex": 1, "faceName": "Actor1", "traits": [], "initialLevel": 1, "maxLevel": 99, "name": "Priscilla", "nickname": "Healer", "note": "", "profile": ""}
]`

const itemsJSON = `[
  null,
  {"id": 1, "animationId": 41, "consumable": true, "damage": {"critical": false, "elementId": 0, "formula": "0", "type": 0, "variance": 20}, "description": "Restores 500 HP.", "effects": [{"code": 11, "dataId": 0, "value1": 0, "value2": 500}], "hitType": 0, "iconIndex": 176, "itypeId": 1, "name": "Potion", "note": "", "occasion": 0, "price": 50, "repeats": 1, "scope": 7, "speed": 0, "successRate": 100, "tpGain": 0},
  {"id": 2, "animationId": 45, "consumable": true, "damage": {"critical": false, "elementId": 0, "formula": "0", "type": 0, "variance": 20}, "description": "Restores 200 MP.", "effects": [{"code": 12, "dataId": 0, "value1": 0, "value2": 200}], "hitType": 0, "iconIndex": 176, "itypeId": 1, "name": "Magic Water", "note": "", "occasion": 0, "price": 100, "repeats": 1, "scope": 7, "speed": 0, "successRate": 100, "tpGain": 0}
]`

const weaponsJSON = `[
  null,
  {"id": 1, "animationId": 6, "description": "A plain iron sword.", "etypeId": 1, "traits": [], "iconIndex": 97, "name": "Sword", "note": "", "params": [0, 0, 10, 0, 0, 0, 0, 0], "price": 500, "wtypeId": 2},
  {"id": 2, "animationId": 11, "description": "A wooden staff.", "etypeId": 1, "traits": [], "iconIndex": 101, "name": "Staff", "note": "", "params": [0, 0, 5, 0, 5, 0, 0, 0], "price": 300, "wtypeId": 6}
]`

const armorsJSON = `[
  null,
  {"id": 1, "atypeId": 5, "description": "A small wooden shield.", "etypeId": 2, "traits": [], "iconIndex": 128, "name": "Shield", "note": "", "params": [0, 0, 0, 10, 0, 0, 0, 0], "price": 300},
  {"id": 2, "atypeId": 1, "description": "A simple hat.", "etypeId": 3, "traits": [], "iconIndex": 130, "name": "Hat", "note": "", "params": [0, 0, 0, 5, 0, 0, 0, 0], "price": 100}
]`

const skillsJSON = `[
  null,
  {"id": 1, "animationId": -1, "damage": {"critical": true, "elementId": -1, "formula": "a.atk * 4 - b.def * 2", "type": 1, "variance": 20}, "description": "", "effects": [{"code": 21, "dataId": 0, "value1": 1, "value2": 0}], "hitType": 1, "iconIndex": 76, "message1": " attacks!", "message2": "", "mpCost": 0, "name": "Attack", "note": "Skill #1 will be used when you select\nthe Attack command.", "occasion": 1, "repeats": 1, "requiredWtypeId1": 0, "requiredWtypeId2": 0, "scope": 1, "speed": 0, "stypeId": 0, "successRate": 100, "tpCost": 0, "tpGain": 10, "messageType": 1},
  {"id": 2, "animationId": 0, "damage": {"critical": false, "elementId": 0, "formula": "0", "type": 0, "variance": 20}, "description": "", "effects": [{"code": 21, "dataId": 2, "value1": 1, "value2": 0}], "hitType": 0, "iconIndex": 81, "message1": " guards.", "message2": "", "mpCost": 0, "name": "Guard", "note": "Skill #2 will be used when you select\nthe Guard command.", "occasion": 1, "repeats": 1, "requiredWtypeId1": 0, "requiredWtypeId2": 0, "scope": 11, "speed": 2000, "stypeId": 0, "successRate": 100, "tpCost": 0, "tpGain": 10, "messageType": 1}
]`

const mapInfosJSON = `[
  null,
  {"id": 1, "expanded": false, "name": "MAP001", "order": 1, "parentId": 0, "scrollX": 0, "scrollY": 0}
]`

const mapTemplate = `{
  "autoplayBgm": false,
  "autoplayBgs": false,
  "displayName": "Village",
  "encounterList": [],
  "encounterStep": 30,
  "height": %d,
  "note": "",
  "scrollType": 0,
  "tilesetId": 1,
  "width": %d,
  "data": [%s],
  "events": [
    null,
    {"id": 1, "name": "Door", "note": "", "pages": [{"conditions": {"switch1Id": 1, "switch1Valid": false}, "list": [{"code": 101, "indent": 0, "parameters": ["", 0, 0, 2, ""]}, {"code": 401, "indent": 0, "parameters": ["It is locked."]}, {"code": 0, "indent": 0, "parameters": []}], "trigger": 0}], "x": 1, "y": 1},
    {"id": 2, "name": "Treasure Chest", "note": "<chest>", "pages": [{"conditions": {"switch1Id": 1, "switch1Valid": false}, "list": [{"code": 0, "indent": 0, "parameters": []}], "trigger": 0}], "x": 2, "y": 2}
  ]
}`

// MapJSON returns the fixture Map001.json content.
func MapJSON() string {
	cells := make([]string, MapWidth*MapHeight*MapLayers)
	for i := range cells {
		cells[i] = "0"
	}
	return fmt.Sprintf(mapTemplate, MapHeight, MapWidth, strings.Join(cells, ", "))
}

// NewProject creates a complete fixture project in a temporary directory and returns its root.
//
// Contents:
//   - Actors: 1 Reid (Swordsman), 2 Priscilla (Healer)
//   - Items: 1 Potion, 2 Magic Water
//   - Weapons: 1 Sword, 2 Staff; Armors: 1 Shield, 2 Hat
//   - Skills: 1 Attack, 2 Guard
//   - Map001: 4x3, 6 layers, events 1 Door (two commands + terminator), 2 Treasure Chest
func NewProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	if err := os.Mkdir(filepath.Join(root, "data"), 0755); err != nil {
		t.Fatalf("Failed to create data directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, MarkerFile), []byte("RPGMZ 1.9.0"), 0644); err != nil {
		t.Fatalf("Failed to create project marker: %v", err)
	}

	files := map[string]string{
		"System.json":   systemJSON,
		"Actors.json":   actorsJSON,
		"Items.json":    itemsJSON,
		"Weapons.json":  weaponsJSON,
		"Armors.json":   armorsJSON,
		"Skills.json":   skillsJSON,
		"MapInfos.json": mapInfosJSON,
		"Map001.json":   MapJSON(),
	}
	for name, content := range files {
		WriteDataFile(t, root, name, content)
	}

	return root
}

// WriteDataFile writes content to <root>/data/<name>.
func WriteDataFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, "data", name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write data file %s: %v", name, err)
	}
}

// ReadDataFile returns the raw bytes of <root>/data/<name>.
func ReadDataFile(t *testing.T, root, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "data", name))
	if err != nil {
		t.Fatalf("Failed to read data file %s: %v", name, err)
	}
	return data
}

// DecodeDataFile unmarshals <root>/data/<name> into v.
func DecodeDataFile(t *testing.T, root, name string, v any) {
	t.Helper()
	if err := json.Unmarshal(ReadDataFile(t, root, name), v); err != nil {
		t.Fatalf("Failed to decode data file %s: %v", name, err)
	}
}

// DecodeCollection decodes a collection file into generic maps; tombstones are nil.
func DecodeCollection(t *testing.T, root, name string) []map[string]any {
	t.Helper()
	var coll []map[string]any
	DecodeDataFile(t, root, name, &coll)
	return coll
}
