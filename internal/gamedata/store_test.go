package gamedata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmmz-mcp/internal/gamedata/gamedatatest"
	"rmmz-mcp/internal/logging"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := gamedatatest.NewProject(t)
	logger, _ := logging.NewTestLogger()
	return NewStore(root, logger), root
}

func TestMapFileName(t *testing.T) {
	assert.Equal(t, "Map001.json", MapFileName(1))
	assert.Equal(t, "Map042.json", MapFileName(42))
	assert.Equal(t, "Map123.json", MapFileName(123))
	assert.Equal(t, "Map1000.json", MapFileName(1000))
}

func TestStore_Paths(t *testing.T) {
	s := NewStore("/games/quest/", nil)

	assert.Equal(t, "/games/quest", s.Root())
	assert.Equal(t, filepath.Join("/games/quest", "data", "Actors.json"), s.DataPath(ActorsFile))
	assert.Equal(t, filepath.Join("/games/quest", "data", "Map007.json"), s.MapFilePath(7))
}

func TestStore_LoadCollection(t *testing.T) {
	s, _ := newTestStore(t)

	coll, err := s.LoadCollection(ActorsFile)
	require.NoError(t, err)
	require.Len(t, coll, 3)
	assert.Nil(t, coll[0])
	assert.Equal(t, "Reid", coll[1].String("name"))
	assert.Equal(t, "Priscilla", coll[2].String("name"))
}

func TestStore_LoadErrors(t *testing.T) {
	t.Run("missing file is an IOError", func(t *testing.T) {
		s, _ := newTestStore(t)

		_, err := s.LoadCollection("Enemies.json")
		require.Error(t, err)

		var ioErr *IOError
		require.True(t, errors.As(err, &ioErr))
		assert.Equal(t, "read", ioErr.Op)
		assert.True(t, strings.HasPrefix(err.Error(), "Failed to read JSON file "))
	})

	t.Run("missing map is an IOError", func(t *testing.T) {
		s, _ := newTestStore(t)

		_, err := s.LoadMap(99)
		var ioErr *IOError
		require.True(t, errors.As(err, &ioErr))
		assert.Contains(t, err.Error(), "Map099.json")
	})

	t.Run("malformed JSON is a ParseError", func(t *testing.T) {
		s, root := newTestStore(t)
		gamedatatest.WriteDataFile(t, root, ItemsFile, `[null, {"id": 1,`)

		_, err := s.LoadCollection(ItemsFile)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.True(t, strings.HasPrefix(err.Error(), "Failed to parse JSON file "))
	})

	t.Run("object where array expected is a ParseError", func(t *testing.T) {
		s, root := newTestStore(t)
		gamedatatest.WriteDataFile(t, root, ItemsFile, `{"id": 1}`)

		_, err := s.LoadCollection(ItemsFile)
		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("array where object expected is a ParseError", func(t *testing.T) {
		s, root := newTestStore(t)
		gamedatatest.WriteDataFile(t, root, SystemFile, `[]`)

		_, err := s.LoadSystem()
		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
	})
}

func TestStore_SaveFormat(t *testing.T) {
	s, root := newTestStore(t)

	coll, err := s.LoadCollection(ActorsFile)
	require.NoError(t, err)
	require.NoError(t, s.Save(s.DataPath(ActorsFile), coll))

	data := gamedatatest.ReadDataFile(t, root, ActorsFile)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "[\n  null,\n  {\n    \"id\": 1,"), "got %q", text[:40])
	assert.False(t, strings.HasSuffix(text, "\n"), "no trailing newline")
	assert.Contains(t, text, `"note": "<hero>"`)

	// Key order of the fixture survives: id, battlerName, characterIndex, ...
	idPos := strings.Index(text, `"battlerName"`)
	classPos := strings.Index(text, `"classId"`)
	namePos := strings.Index(text, `"name": "Reid"`)
	assert.True(t, idPos < classPos && classPos < namePos)
}

func TestStore_RoundTripKeepsUntouchedFields(t *testing.T) {
	s, root := newTestStore(t)

	require.NoError(t, s.UpdateDocument(s.DataPath(SystemFile), func(doc *Record) error {
		return doc.Set("gameTitle", "Renamed")
	}))

	var system map[string]any
	gamedatatest.DecodeDataFile(t, root, SystemFile, &system)
	assert.Equal(t, "Renamed", system["gameTitle"])
	assert.Equal(t, "G", system["currencyUnit"])
	assert.Equal(t, float64(12345), system["versionId"])

	terms := system["terms"].(map[string]any)
	messages := terms["messages"].(map[string]any)
	assert.Equal(t, "There was no effect on %1!", messages["actionFailure"])
}

func TestStore_UpdateCollectionDoesNotWriteOnError(t *testing.T) {
	s, root := newTestStore(t)
	before := gamedatatest.ReadDataFile(t, root, WeaponsFile)

	boom := errors.New("boom")
	err := s.UpdateCollection(WeaponsFile, func(coll Collection) (Collection, error) {
		coll[1] = nil
		return coll, boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, before, gamedatatest.ReadDataFile(t, root, WeaponsFile))
}

func TestStore_ConcurrentUpdatesAreSerialised(t *testing.T) {
	s, root := newTestStore(t)

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			err := s.UpdateCollection(ArmorsFile, func(coll Collection) (Collection, error) {
				rec := NewRecord()
				if err := rec.Set("id", coll.NextID()); err != nil {
					return nil, err
				}
				return append(coll, rec), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	coll := gamedatatest.DecodeCollection(t, root, ArmorsFile)
	require.Len(t, coll, 3+writers)

	seen := make(map[float64]bool)
	for _, rec := range coll[1:] {
		id := rec["id"].(float64)
		assert.False(t, seen[id], "duplicate id %v", id)
		seen[id] = true
	}
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	s, root := newTestStore(t)

	coll, err := s.LoadCollection(SkillsFile)
	require.NoError(t, err)
	require.NoError(t, s.Save(s.DataPath(SkillsFile), coll))

	entries, err := os.ReadDir(filepath.Join(root, DataDir))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestStore_SaveToMissingDirectory(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	s := NewStore(filepath.Join(t.TempDir(), "nowhere"), logger)

	err := s.Save(s.DataPath(ActorsFile), Collection{nil})
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
}

func TestStore_RelativeRootIsMadeAbsolute(t *testing.T) {
	root := gamedatatest.NewProject(t)
	t.Chdir(filepath.Dir(root))

	s := NewStore(filepath.Base(root), nil)
	assert.True(t, filepath.IsAbs(s.Root()))
	assert.Equal(t, root, s.Root())
}

func TestStore_LockSharedAcrossEquivalentRoots(t *testing.T) {
	root := gamedatatest.NewProject(t)
	t.Chdir(filepath.Dir(root))

	absolute := NewStore(root, nil)
	relative := NewStore(filepath.Base(root), nil)

	held := make(chan struct{})
	release := make(chan struct{})
	acquired := make(chan struct{})

	go func() {
		_ = absolute.Locked(absolute.DataPath(ActorsFile), func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	go func() {
		_ = relative.Locked(filepath.Join(filepath.Base(root), DataDir, ActorsFile), func() error {
			close(acquired)
			return nil
		})
	}()

	select {
	case <-acquired:
		t.Fatal("second store entered the lock while the first held it")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second store never acquired the lock")
	}
}

func TestStore_LoadFile(t *testing.T) {
	s, root := newTestStore(t)

	coll, doc, err := s.LoadFile(WeaponsFile)
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Len(t, coll, 3)

	coll, doc, err = s.LoadFile(SystemFile)
	require.NoError(t, err)
	assert.Nil(t, coll)
	assert.Equal(t, "Test Quest", doc.String("gameTitle"))

	gamedatatest.WriteDataFile(t, root, "Troops.json", "  \n[null, {]")
	_, _, err = s.LoadFile("Troops.json")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	_, _, err = s.LoadFile("Enemies.json")
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
}
