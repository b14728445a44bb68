// Package maps reads and edits map documents (MapNNN.json), the map tree
// (MapInfos.json) and the events embedded in each map.
//
// Events are addressed by their position in the map's events array, not by an id
// scan: the engine looks events up by index, so index and id must stay aligned.
package maps

import (
	"encoding/json"
	"strconv"

	"rmmz-mcp/internal/gamedata"
)

// Number of tile layers in a map's data array.
const Layers = 6

// Dimensions is the size of a map in tiles.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Service operates on the maps of one project.
type Service struct {
	store *gamedata.Store
}

// New returns a Service for store.
func New(store *gamedata.Store) *Service {
	return &Service{store: store}
}

// Get returns the whole map document.
func (s *Service) Get(mapID int) (*gamedata.Record, error) {
	return s.store.LoadMap(mapID)
}

// Update overwrites the top-level map properties present in updates.
func (s *Service) Update(mapID int, updates map[string]any) (*gamedata.Record, error) {
	var updated *gamedata.Record
	err := s.store.UpdateDocument(s.store.MapFilePath(mapID), func(doc *gamedata.Record) error {
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

// Infos returns MapInfos.json.
func (s *Service) Infos() (gamedata.Collection, error) {
	return s.store.LoadCollection(gamedata.MapInfosFile)
}

// Dimensions returns the width and height of a map.
func (s *Service) Dimensions(mapID int) (Dimensions, error) {
	doc, err := s.Get(mapID)
	if err != nil {
		return Dimensions{}, err
	}
	return dimensionsOf(doc), nil
}

// SetTile writes tileID at (x, y) on layer. The data array is laid out
// layer-major: index = (layer*height + y)*width + x.
func (s *Service) SetTile(mapID, x, y, layer, tileID int) error {
	return s.store.UpdateDocument(s.store.MapFilePath(mapID), func(doc *gamedata.Record) error {
		dim := dimensionsOf(doc)
		if x < 0 || x >= dim.Width || y < 0 || y >= dim.Height {
			return gamedata.OutOfBounds("Position (%d, %d) is out of map bounds", x, y)
		}

		var data []json.RawMessage
		if _, err := doc.Decode("data", &data); err != nil {
			return err
		}

		index := (layer*dim.Height+y)*dim.Width + x
		if index < 0 || index >= len(data) {
			return gamedata.OutOfBounds("Layer %d is out of map bounds", layer)
		}
		data[index] = json.RawMessage(strconv.Itoa(tileID))

		return doc.Set("data", data)
	})
}

func dimensionsOf(doc *gamedata.Record) Dimensions {
	width, _ := doc.Int("width")
	height, _ := doc.Int("height")
	return Dimensions{Width: width, Height: height}
}
