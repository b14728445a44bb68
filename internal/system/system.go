// Package system reads and edits System.json: game title, starting position,
// party, and the id-addressed name tables (variables, switches, terms).
//
// The name tables are fixed-slot arrays indexed by id. Setting an id past the end
// grows the array and fills the new slots with "".
package system

import (
	"encoding/json"

	"rmmz-mcp/internal/gamedata"
)

// StartPosition is where a new game places the party.
type StartPosition struct {
	MapID int `json:"mapId"`
	X     int `json:"x"`
	Y     int `json:"y"`
}

// Service operates on the System document of one project.
type Service struct {
	store *gamedata.Store
}

// New returns a Service for store.
func New(store *gamedata.Store) *Service {
	return &Service{store: store}
}

func (s *Service) path() string {
	return s.store.DataPath(gamedata.SystemFile)
}

func (s *Service) edit(fn func(doc *gamedata.Record) error) error {
	return s.store.UpdateDocument(s.path(), fn)
}

// Get returns the whole System document.
func (s *Service) Get() (*gamedata.Record, error) {
	return s.store.LoadSystem()
}

// Update overwrites the top-level keys present in updates.
func (s *Service) Update(updates map[string]any) (*gamedata.Record, error) {
	var updated *gamedata.Record
	err := s.edit(func(doc *gamedata.Record) error {
		if err := doc.Merge(updates); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GameTitle returns the game title.
func (s *Service) GameTitle() (string, error) {
	doc, err := s.Get()
	if err != nil {
		return "", err
	}
	return doc.String("gameTitle"), nil
}

// SetGameTitle replaces the game title.
func (s *Service) SetGameTitle(title string) error {
	return s.edit(func(doc *gamedata.Record) error {
		return doc.Set("gameTitle", title)
	})
}

// StartingPosition returns the party's starting map and tile.
func (s *Service) StartingPosition() (StartPosition, error) {
	doc, err := s.Get()
	if err != nil {
		return StartPosition{}, err
	}
	mapID, _ := doc.Int("startMapId")
	x, _ := doc.Int("startX")
	y, _ := doc.Int("startY")
	return StartPosition{MapID: mapID, X: x, Y: y}, nil
}

// SetStartingPosition moves the party's starting point.
func (s *Service) SetStartingPosition(mapID, x, y int) error {
	return s.edit(func(doc *gamedata.Record) error {
		if err := doc.Set("startMapId", mapID); err != nil {
			return err
		}
		if err := doc.Set("startX", x); err != nil {
			return err
		}
		return doc.Set("startY", y)
	})
}

// PartyMembers returns the actor ids of the starting party.
func (s *Service) PartyMembers() ([]int, error) {
	doc, err := s.Get()
	if err != nil {
		return nil, err
	}
	members := []int{}
	if _, err := doc.Decode("partyMembers", &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []int{}
	}
	return members, nil
}

// SetPartyMembers replaces the starting party.
func (s *Service) SetPartyMembers(actorIDs []int) error {
	if actorIDs == nil {
		actorIDs = []int{}
	}
	return s.edit(func(doc *gamedata.Record) error {
		return doc.Set("partyMembers", actorIDs)
	})
}

// Variables returns the variable name table. Index 0 is unused.
func (s *Service) Variables() ([]string, error) {
	return s.names("variables")
}

// SetVariableName names variable id.
func (s *Service) SetVariableName(id int, name string) error {
	return s.setName("variables", "Variable", id, name)
}

// Switches returns the switch name table. Index 0 is unused.
func (s *Service) Switches() ([]string, error) {
	return s.names("switches")
}

// SetSwitchName names switch id.
func (s *Service) SetSwitchName(id int, name string) error {
	return s.setName("switches", "Switch", id, name)
}

func (s *Service) names(key string) ([]string, error) {
	doc, err := s.Get()
	if err != nil {
		return nil, err
	}
	names := []string{}
	if _, err := doc.Decode(key, &names); err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *Service) setName(key, kind string, id int, name string) error {
	return s.edit(func(doc *gamedata.Record) error {
		return setSlot(doc, key, kind, id, name)
	})
}

// setSlot writes value at index of the string array stored under key, growing it
// with "" as needed.
func setSlot(doc *gamedata.Record, key, kind string, index int, value string) error {
	if index < 0 {
		return gamedata.OutOfBounds("%s ID %d is out of range", kind, index)
	}

	var slots []json.RawMessage
	if _, err := doc.Decode(key, &slots); err != nil {
		return err
	}
	for len(slots) <= index {
		slots = append(slots, json.RawMessage(`""`))
	}

	encoded, err := gamedata.Encode(value)
	if err != nil {
		return err
	}
	slots[index] = encoded
	return doc.Set(key, slots)
}
