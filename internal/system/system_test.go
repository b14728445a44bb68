package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmmz-mcp/internal/gamedata"
	"rmmz-mcp/internal/gamedata/gamedatatest"
	"rmmz-mcp/internal/logging"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	root := gamedatatest.NewProject(t)
	logger, _ := logging.NewTestLogger()
	return New(gamedata.NewStore(root, logger)), root
}

type systemFile struct {
	GameTitle    string   `json:"gameTitle"`
	CurrencyUnit string   `json:"currencyUnit"`
	PartyMembers []int    `json:"partyMembers"`
	StartMapID   int      `json:"startMapId"`
	StartX       int      `json:"startX"`
	StartY       int      `json:"startY"`
	Switches     []string `json:"switches"`
	Variables    []string `json:"variables"`
	Terms        struct {
		Basic    []string          `json:"basic"`
		Commands []string          `json:"commands"`
		Params   []string          `json:"params"`
		Messages map[string]string `json:"messages"`
	} `json:"terms"`
	VersionID int `json:"versionId"`
}

func readSystem(t *testing.T, root string) systemFile {
	t.Helper()
	var sys systemFile
	gamedatatest.DecodeDataFile(t, root, gamedata.SystemFile, &sys)
	return sys
}

func TestService_GameTitle(t *testing.T) {
	svc, root := newTestService(t)

	title, err := svc.GameTitle()
	require.NoError(t, err)
	assert.Equal(t, "Test Quest", title)

	require.NoError(t, svc.SetGameTitle("Dragon <Saga>"))

	sys := readSystem(t, root)
	assert.Equal(t, "Dragon <Saga>", sys.GameTitle)
	assert.Equal(t, "G", sys.CurrencyUnit)
	assert.Equal(t, 12345, sys.VersionID)
}

func TestService_StartingPosition(t *testing.T) {
	svc, root := newTestService(t)

	require.NoError(t, svc.SetStartingPosition(1, 3, 2))

	pos, err := svc.StartingPosition()
	require.NoError(t, err)
	assert.Equal(t, StartPosition{MapID: 1, X: 3, Y: 2}, pos)

	sys := readSystem(t, root)
	assert.Equal(t, 3, sys.StartX)
	assert.Equal(t, 2, sys.StartY)
}

func TestService_PartyMembers(t *testing.T) {
	svc, _ := newTestService(t)

	members, err := svc.PartyMembers()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, members)

	require.NoError(t, svc.SetPartyMembers([]int{2}))
	members, err = svc.PartyMembers()
	require.NoError(t, err)
	assert.Equal(t, []int{2}, members)

	require.NoError(t, svc.SetPartyMembers(nil))
	members, err = svc.PartyMembers()
	require.NoError(t, err)
	assert.Equal(t, []int{}, members)
}

func TestService_VariableNames(t *testing.T) {
	t.Run("rename existing", func(t *testing.T) {
		svc, _ := newTestService(t)

		require.NoError(t, svc.SetVariableName(1, "Coins"))

		vars, err := svc.Variables()
		require.NoError(t, err)
		assert.Equal(t, []string{"", "Coins"}, vars)
	})

	t.Run("past the end grows with empty names", func(t *testing.T) {
		svc, root := newTestService(t)

		require.NoError(t, svc.SetVariableName(4, "Steps"))

		sys := readSystem(t, root)
		assert.Equal(t, []string{"", "Gold Count", "", "", "Steps"}, sys.Variables)
	})

	t.Run("negative id", func(t *testing.T) {
		svc, root := newTestService(t)
		before := gamedatatest.ReadDataFile(t, root, gamedata.SystemFile)

		err := svc.SetVariableName(-1, "x")
		assert.True(t, errors.Is(err, gamedata.ErrOutOfBounds))

		assert.Equal(t, before, gamedatatest.ReadDataFile(t, root, gamedata.SystemFile))
	})
}

func TestService_SwitchNames(t *testing.T) {
	svc, root := newTestService(t)

	switches, err := svc.Switches()
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Door Open"}, switches)

	require.NoError(t, svc.SetSwitchName(3, "Boss Beaten"))

	sys := readSystem(t, root)
	assert.Equal(t, []string{"", "Door Open", "", "Boss Beaten"}, sys.Switches)
	assert.Equal(t, []string{"", "Gold Count"}, sys.Variables, "other tables untouched")
}

func TestService_Terms(t *testing.T) {
	svc, root := newTestService(t)

	terms, err := svc.Terms()
	require.NoError(t, err)
	assert.Equal(t, []string{"basic", "commands", "params", "messages"}, terms.Keys())

	require.NoError(t, svc.SetBasicTerm(0, "Lvl"))
	require.NoError(t, svc.SetCommandTerm(4, "Guard"))

	sys := readSystem(t, root)
	assert.Equal(t, []string{"Lvl", "Lv", "HP"}, sys.Terms.Basic)
	assert.Equal(t, []string{"Fight", "Escape", "Attack", "", "Guard"}, sys.Terms.Commands)
	assert.Equal(t, []string{"Max HP", "Max MP"}, sys.Terms.Params)
	assert.Equal(t, "There was no effect on %1!", sys.Terms.Messages["actionFailure"])

	assert.ErrorIs(t, svc.SetCommandTerm(-2, "x"), gamedata.ErrOutOfBounds)
}

func TestService_Update(t *testing.T) {
	svc, root := newTestService(t)

	doc, err := svc.Update(map[string]any{"currencyUnit": "Gold", "optDisplayTp": true})
	require.NoError(t, err)
	assert.Equal(t, "Gold", doc.String("currencyUnit"))
	assert.Equal(t, "optDisplayTp", doc.Keys()[len(doc.Keys())-1])

	sys := readSystem(t, root)
	assert.Equal(t, "Test Quest", sys.GameTitle)
	assert.Equal(t, "Gold", sys.CurrencyUnit)
}

func TestService_MissingSystemFile(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	svc := New(gamedata.NewStore(t.TempDir(), logger))

	_, err := svc.GameTitle()
	var ioErr *gamedata.IOError
	assert.True(t, errors.As(err, &ioErr))

	err = svc.SetGameTitle("x")
	assert.True(t, errors.As(err, &ioErr))
}
