package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmmz-mcp/internal/config"
	"rmmz-mcp/internal/gamedata"
	"rmmz-mcp/internal/gamedata/gamedatatest"
	"rmmz-mcp/internal/logging"
	"rmmz-mcp/internal/project"
)

// run executes the CLI with args and returns stdout and the error.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runLogged(t, stdin, args...)
	return out, err
}

// runLogged is run that also returns the log output.
func runLogged(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	logger, logs := logging.NewTestLogger()
	cmd := newRootCmd(logger)

	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), logs.String(), err
}

// isolate clears the project env var and returns a config path inside a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv(project.EnvVar, "")
	return filepath.Join(t.TempDir(), "config.yaml")
}

func TestCall(t *testing.T) {
	cfg := isolate(t)
	root := gamedatatest.NewProject(t)

	out, err := run(t, "", "--config", cfg, "--project", root, "call", "get_actor", `{"actorId": 2}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Priscilla"`)

	out, err = run(t, `{"title": "Piped Quest"}`, "--config", cfg, "--project", root, "call", "update_game_title", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)

	out, err = run(t, "", "--config", cfg, "--project", root, "call", "get_game_title")
	require.NoError(t, err)
	assert.Equal(t, "\"Piped Quest\"\n", out)
}

func TestCall_Failures(t *testing.T) {
	cfg := isolate(t)
	root := gamedatatest.NewProject(t)

	t.Run("tool error", func(t *testing.T) {
		out, err := run(t, "", "--config", cfg, "--project", root, "call", "delete_skill", `{"skillId": 2}`)
		require.Error(t, err)
		assert.Equal(t, "Error: Cannot delete core skills (Attack/Guard)\n", out)
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := run(t, "", "--config", cfg, "--project", root, "call", "get_actor", `{"actorId":`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse tool arguments")
	})

	t.Run("no project configured", func(t *testing.T) {
		out, err := run(t, "", "--config", cfg, "call", "get_actors")
		require.Error(t, err)
		assert.Contains(t, out, "Error: RPGMAKER_PROJECT_PATH environment variable not set")
	})

	t.Run("structured errors flag", func(t *testing.T) {
		out, err := run(t, "", "--config", cfg, "--project", root, "--structured-errors", "call", "nope")
		require.Error(t, err)
		assert.Contains(t, out, "Error: Unknown tool: nope")
	})
}

func TestProjectPathPrecedence(t *testing.T) {
	cfg := isolate(t)
	fromConfig := gamedatatest.NewProject(t)
	fromEnv := gamedatatest.NewProject(t)
	fromFlag := gamedatatest.NewProject(t)

	gamedatatest.WriteDataFile(t, fromConfig, gamedata.SystemFile, `{"gameTitle": "Config"}`)
	gamedatatest.WriteDataFile(t, fromEnv, gamedata.SystemFile, `{"gameTitle": "Env"}`)
	gamedatatest.WriteDataFile(t, fromFlag, gamedata.SystemFile, `{"gameTitle": "Flag"}`)

	_, err := config.CreateNewConfig(cfg, fromConfig, false)
	require.NoError(t, err)

	out, err := run(t, "", "--config", cfg, "call", "get_game_title")
	require.NoError(t, err)
	assert.Equal(t, "\"Config\"\n", out)

	t.Setenv(project.EnvVar, fromEnv)
	out, err = run(t, "", "--config", cfg, "call", "get_game_title")
	require.NoError(t, err)
	assert.Equal(t, "\"Env\"\n", out)

	out, err = run(t, "", "--config", cfg, "--project", fromFlag, "call", "get_game_title")
	require.NoError(t, err)
	assert.Equal(t, "\"Flag\"\n", out)
}

func TestValidate(t *testing.T) {
	cfg := isolate(t)
	root := gamedatatest.NewProject(t)

	out, err := run(t, "", "--config", cfg, "--project", root, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Actors.json")
	assert.Contains(t, out, "8 files checked, 0 failed")

	gamedatatest.WriteDataFile(t, root, "Troops.json", `[null, {]`)
	out, err = run(t, "", "--config", cfg, "--project", root, "validate", "--concurrency", "2")
	require.Error(t, err)
	assert.Contains(t, out, "Troops.json")
	assert.Contains(t, err.Error(), "1 data files failed to parse")

	_, err = run(t, "", "--config", cfg, "--project", t.TempDir(), "validate")
	assert.ErrorIs(t, err, project.ErrConfig)
}

func TestTools(t *testing.T) {
	cfg := isolate(t)

	out, err := run(t, "", "--config", cfg, "tools", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "# rmmz-mcp tools")
	assert.Contains(t, out, "## create_damage_skill")
	assert.Contains(t, out, "| `damageFormula` | string | yes |")

	t.Setenv("GLAMOUR_STYLE", "notty")
	out, err = run(t, "", "--config", cfg, "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "add_event_command")
}

func TestConfigInitAndShow(t *testing.T) {
	cfg := isolate(t)
	root := gamedatatest.NewProject(t)

	_, err := run(t, "", "--config", cfg, "config", "init")
	assert.Error(t, err, "init needs a project")

	_, err = run(t, "", "--config", cfg, "--project", t.TempDir(), "config", "init")
	assert.ErrorIs(t, err, project.ErrConfig)
	_, statErr := os.Stat(cfg)
	assert.True(t, os.IsNotExist(statErr), "nothing written for an invalid project")

	out, err := run(t, "", "--config", cfg, "--project", root, "--structured-errors", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, cfg)

	loaded, err := config.LoadFrom(cfg)
	require.NoError(t, err)
	assert.Equal(t, root, loaded.ProjectPath)
	assert.True(t, loaded.StructuredErrors)

	out, err = run(t, "", "--config", cfg, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "project_path: "+root)
	assert.Contains(t, out, "# effective project: "+root)
	assert.Contains(t, out, "# effective structured_errors: true")

	out, err = run(t, "", "--config", cfg, "--structured-errors=false", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# effective structured_errors: false", "flag overrides the file")
}

func TestServeStdio(t *testing.T) {
	cfg := isolate(t)
	root := gamedatatest.NewProject(t)

	initialize := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"cli-test","version":"1"}}}` + "\n"

	out, err := run(t, initialize, "--config", cfg, "--project", root)
	require.NoError(t, err)
	assert.Contains(t, out, `"serverInfo"`)
	assert.Contains(t, out, `"rmmz-mcp"`)
}

func TestServe_FirstRunHint(t *testing.T) {
	isolate(t)
	t.Setenv(config.CONFIG_PATH_ENV, filepath.Join(t.TempDir(), "missing.yaml"))

	_, logs, err := runLogged(t, "")
	require.NoError(t, err, "stdio serve ends at EOF")
	assert.Contains(t, logs, "Project is not usable")
	assert.Contains(t, logs, "rmmz-mcp config init")
	assert.Contains(t, logs, "name=settings")

	// An explicit config path means the user already chose a file.
	_, logs, err = runLogged(t, "", "--config", filepath.Join(t.TempDir(), "other.yaml"))
	require.NoError(t, err)
	assert.Contains(t, logs, "Project is not usable")
	assert.NotContains(t, logs, "config init")
}

func TestParseArguments(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	cmd := newRootCmd(logger)

	got, err := parseArguments(cmd, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = parseArguments(cmd, []string{"null"})
	require.NoError(t, err)
	assert.NotNil(t, got)

	_, err = parseArguments(cmd, []string{"[1, 2]"})
	assert.Error(t, err)
}
