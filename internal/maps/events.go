package maps

import (
	"encoding/json"
	"errors"

	"rmmz-mcp/internal/gamedata"
)

// errNoChange aborts an edit without writing the map.
var errNoChange = errors.New("no change")

// Key order of a new event record.
var eventFieldOrder = []string{"id", "name", "note", "pages", "x", "y"}

// Key order of a new event command.
var commandFieldOrder = []string{"code", "indent", "parameters"}

// Events returns the events array of a map. Index 0 is unused.
func (s *Service) Events(mapID int) (gamedata.Collection, error) {
	doc, err := s.Get(mapID)
	if err != nil {
		return nil, err
	}
	return eventsOf(doc)
}

// Event returns the event at index eventID, or nil when the slot is empty or out of range.
func (s *Service) Event(mapID, eventID int) (*gamedata.Record, error) {
	events, err := s.Events(mapID)
	if err != nil {
		return nil, err
	}
	return events.At(eventID), nil
}

// SearchEvents returns the events whose name contains term, ignoring case.
func (s *Service) SearchEvents(mapID int, term string) ([]*gamedata.Record, error) {
	events, err := s.Events(mapID)
	if err != nil {
		return nil, err
	}
	return events.Search(term, "name"), nil
}

// CreateEvent stores a new event in the slot after the last one. Its id is that
// slot index. A missing note defaults to "".
func (s *Service) CreateEvent(mapID int, fields map[string]any) (*gamedata.Record, error) {
	var created *gamedata.Record
	err := s.editEvents(mapID, func(events gamedata.Collection) (gamedata.Collection, error) {
		if len(events) == 0 {
			events = append(events, nil)
		}
		id := events.NextIndex()

		values := make(map[string]any, len(fields)+2)
		for k, v := range fields {
			values[k] = v
		}
		values["id"] = id
		if _, ok := values["note"]; !ok {
			values["note"] = ""
		}

		rec, err := gamedata.RecordFromMap(values, eventFieldOrder)
		if err != nil {
			return nil, err
		}
		created = rec
		return append(events, rec), nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateEvent overwrites the keys present in updates on the event at eventID.
func (s *Service) UpdateEvent(mapID, eventID int, updates map[string]any) (*gamedata.Record, error) {
	var updated *gamedata.Record
	err := s.editEvents(mapID, func(events gamedata.Collection) (gamedata.Collection, error) {
		event := events.At(eventID)
		if event == nil {
			return nil, eventNotFound(mapID, eventID)
		}
		if err := event.Merge(updates); err != nil {
			return nil, err
		}
		updated = event
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteEvent empties the slot at eventID. It reports false when the slot is
// already empty or out of range.
func (s *Service) DeleteEvent(mapID, eventID int) (bool, error) {
	deleted := false
	err := s.editEvents(mapID, func(events gamedata.Collection) (gamedata.Collection, error) {
		if events.At(eventID) == nil {
			return nil, errNoChange
		}
		events[eventID] = nil
		deleted = true
		return events, nil
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// AddEventCommand inserts command into the list of page pageIndex. With a position
// in [0, len(list)-1) it lands there; otherwise it lands just before the closing
// code 0 command. A list that does not end with code 0 gets one appended after the
// command.
func (s *Service) AddEventCommand(mapID, eventID, pageIndex int, command map[string]any, position *int) (*gamedata.Record, error) {
	cmd, err := gamedata.RecordFromMap(command, commandFieldOrder)
	if err != nil {
		return nil, err
	}
	cmdRaw, err := gamedata.Encode(cmd)
	if err != nil {
		return nil, err
	}

	var updated *gamedata.Record
	err = s.editEvents(mapID, func(events gamedata.Collection) (gamedata.Collection, error) {
		event := events.At(eventID)
		if event == nil {
			return nil, eventNotFound(mapID, eventID)
		}

		var pages []*gamedata.Record
		if _, err := event.Decode("pages", &pages); err != nil {
			return nil, err
		}
		if pageIndex < 0 || pageIndex >= len(pages) || pages[pageIndex] == nil {
			return nil, gamedata.NotFound("Page %d not found on event %d", pageIndex, eventID)
		}
		page := pages[pageIndex]

		var list []json.RawMessage
		if _, err := page.Decode("list", &list); err != nil {
			return nil, err
		}

		if err := page.Set("list", insertCommand(list, cmdRaw, position)); err != nil {
			return nil, err
		}
		if err := event.Set("pages", pages); err != nil {
			return nil, err
		}
		updated = event
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func insertCommand(list []json.RawMessage, cmd json.RawMessage, position *int) []json.RawMessage {
	if len(list) == 0 || !isTerminator(list[len(list)-1]) {
		return append(list, cmd, terminator())
	}

	at := len(list) - 1
	if position != nil && *position >= 0 && *position < len(list)-1 {
		at = *position
	}

	out := make([]json.RawMessage, 0, len(list)+1)
	out = append(out, list[:at]...)
	out = append(out, cmd)
	return append(out, list[at:]...)
}

func isTerminator(raw json.RawMessage) bool {
	var c struct {
		Code *float64 `json:"code"`
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return false
	}
	return c.Code != nil && *c.Code == 0
}

func terminator() json.RawMessage {
	return json.RawMessage(`{"code":0,"indent":0,"parameters":[]}`)
}

// editEvents runs fn on the events array of a map under the map's file lock and
// saves the result.
func (s *Service) editEvents(mapID int, fn func(gamedata.Collection) (gamedata.Collection, error)) error {
	return s.store.UpdateDocument(s.store.MapFilePath(mapID), func(doc *gamedata.Record) error {
		events, err := eventsOf(doc)
		if err != nil {
			return err
		}
		events, err = fn(events)
		if err != nil {
			return err
		}
		return doc.Set("events", events)
	})
}

func eventsOf(doc *gamedata.Record) (gamedata.Collection, error) {
	events := gamedata.Collection{}
	if _, err := doc.Decode("events", &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = gamedata.Collection{}
	}
	return events, nil
}

func eventNotFound(mapID, eventID int) error {
	return gamedata.NotFound("Event %d not found on map %d", eventID, mapID)
}
