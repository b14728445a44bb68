package system

import "rmmz-mcp/internal/gamedata"

// Terms returns the vocabulary object (basic, commands, params, messages).
func (s *Service) Terms() (*gamedata.Record, error) {
	doc, err := s.Get()
	if err != nil {
		return nil, err
	}
	terms := gamedata.NewRecord()
	if _, err := doc.Decode("terms", terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// SetBasicTerm replaces terms.basic[index].
func (s *Service) SetBasicTerm(index int, value string) error {
	return s.setTerm("basic", "Basic term", index, value)
}

// SetCommandTerm replaces terms.commands[index].
func (s *Service) SetCommandTerm(index int, value string) error {
	return s.setTerm("commands", "Command term", index, value)
}

func (s *Service) setTerm(key, kind string, index int, value string) error {
	return s.edit(func(doc *gamedata.Record) error {
		terms := gamedata.NewRecord()
		if _, err := doc.Decode("terms", terms); err != nil {
			return err
		}
		if err := setSlot(terms, key, kind, index, value); err != nil {
			return err
		}
		return doc.Set("terms", terms)
	})
}
