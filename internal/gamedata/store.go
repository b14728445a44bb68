package gamedata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rmmz-mcp/internal/logging"
	"rmmz-mcp/pkg/fileops"
)

// Data file names under <project>/data.
const (
	DataDir      = "data"
	ActorsFile   = "Actors.json"
	ItemsFile    = "Items.json"
	WeaponsFile  = "Weapons.json"
	ArmorsFile   = "Armors.json"
	SkillsFile   = "Skills.json"
	SystemFile   = "System.json"
	MapInfosFile = "MapInfos.json"
)

// MaxFileSize bounds how much a single data file may hold before it is refused.
const MaxFileSize int64 = 256 * 1024 * 1024

// fileLocks serialises read-modify-write cycles per absolute path across every
// Store in the process.
var fileLocks sync.Map

// Store reads and writes the JSON data files of one project. It keeps no cache:
// every load goes to disk, every save rewrites the whole file.
type Store struct {
	root   string
	logger *logging.AppLogger
}

// NewStore creates a Store rooted at the project directory. A relative root is
// made absolute against the working directory.
func NewStore(root string, logger *logging.AppLogger) *Store {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Store{
		root:   absPath(root),
		logger: logger,
	}
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Root returns the project directory.
func (s *Store) Root() string {
	return s.root
}

// DataPath returns the path of a file in the project's data directory.
func (s *Store) DataPath(name string) string {
	return filepath.Join(s.root, DataDir, name)
}

// MapFileName returns the data file name for a map id, e.g. Map001.json.
func MapFileName(mapID int) string {
	return fmt.Sprintf("Map%03d.json", mapID)
}

// MapFilePath returns the path of a map document.
func (s *Store) MapFilePath(mapID int) string {
	return s.DataPath(MapFileName(mapID))
}

// LoadCollection reads a data file holding a JSON array of records or nulls.
func (s *Store) LoadCollection(name string) (Collection, error) {
	path := s.DataPath(name)
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	return s.decodeCollection(path, data)
}

// LoadDocument reads a data file holding a single JSON object.
func (s *Store) LoadDocument(path string) (*Record, error) {
	data, err := s.read(path)
	if err != nil {
		return nil, err
	}
	return s.decodeDocument(path, data)
}

// LoadFile reads a data file without knowing its shape up front. A top-level
// array is returned as a Collection, anything else as a document; exactly one
// of the two results is non-nil when err is nil.
func (s *Store) LoadFile(name string) (Collection, *Record, error) {
	path := s.DataPath(name)
	data, err := s.read(path)
	if err != nil {
		return nil, nil, err
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		coll, err := s.decodeCollection(path, data)
		if err != nil {
			return nil, nil, err
		}
		return coll, nil, nil
	}

	doc, err := s.decodeDocument(path, data)
	if err != nil {
		return nil, nil, err
	}
	return nil, doc, nil
}

func (s *Store) decodeCollection(path string, data []byte) (Collection, error) {
	var coll Collection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	s.logger.Debug("Loaded collection", "path", path, "slots", len(coll))
	return coll, nil
}

func (s *Store) decodeDocument(path string, data []byte) (*Record, error) {
	doc := NewRecord()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	s.logger.Debug("Loaded document", "path", path, "keys", doc.Len())
	return doc, nil
}

// LoadMap reads MapNNN.json for mapID.
func (s *Store) LoadMap(mapID int) (*Record, error) {
	return s.LoadDocument(s.MapFilePath(mapID))
}

// LoadSystem reads System.json.
func (s *Store) LoadSystem() (*Record, error) {
	return s.LoadDocument(s.DataPath(SystemFile))
}

// Save serialises value as 2-space indented JSON and atomically replaces the file at path.
func (s *Store) Save(path string, value any) error {
	data, err := Encode(value)
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	if err := fileops.AtomicWriteFile(path, data, 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	s.logger.Debug("Saved data file", "path", path, "bytes", len(data))
	return nil
}

// Locked runs fn while holding the lock for path. Load and Save do not lock on
// their own; read-modify-write sequences go through Locked so concurrent calls in
// this process cannot lose each other's updates.
func (s *Store) Locked(path string, fn func() error) error {
	v, _ := fileLocks.LoadOrStore(absPath(path), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// UpdateCollection loads a collection, passes it to fn and saves what fn returns.
// Nothing is written when fn fails.
func (s *Store) UpdateCollection(name string, fn func(Collection) (Collection, error)) error {
	path := s.DataPath(name)
	return s.Locked(path, func() error {
		coll, err := s.LoadCollection(name)
		if err != nil {
			return err
		}
		coll, err = fn(coll)
		if err != nil {
			return err
		}
		return s.Save(path, coll)
	})
}

// UpdateDocument loads the document at path, lets fn mutate it and saves it.
// Nothing is written when fn fails.
func (s *Store) UpdateDocument(path string, fn func(*Record) error) error {
	return s.Locked(path, func() error {
		doc, err := s.LoadDocument(path)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return s.Save(path, doc)
	})
}

func (s *Store) read(path string) ([]byte, error) {
	if err := fileops.ValidateFileSizeLimit(path, MaxFileSize); err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// Encode renders value the way data files are written: 2-space indentation, no HTML
// escaping, no trailing newline.
func Encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
