// Package project recognises RPG Maker MZ project directories and audits their
// data files.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rmmz-mcp/internal/gamedata"
	"rmmz-mcp/pkg/fileops"
)

const (
	// MarkerFile sits in the root of every project the editor creates.
	MarkerFile = "game.rmmzproject"

	// EnvVar names the environment variable holding the project root.
	EnvVar = "RPGMAKER_PROJECT_PATH"
)

// Messages reported for a missing or unusable project root.
const (
	MsgNotConfigured = EnvVar + " environment variable not set"
	MsgInvalidPath   = "Invalid RPG Maker MZ project path"
)

// ErrConfig matches every ConfigError with errors.Is.
var ErrConfig = errors.New("project configuration error")

// ConfigError reports a project root that is unset or not a project.
type ConfigError struct {
	Message string
	Path    string
	Err     error
}

func (e *ConfigError) Error() string { return e.Message }

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// Validate checks that root names a project: the marker file and data/System.json
// must both be readable regular files.
func Validate(root string) error {
	if root == "" {
		return &ConfigError{Message: MsgNotConfigured}
	}

	root = fileops.ExpandPath(root)
	if err := fileops.ValidateDirectory(root); err != nil {
		return &ConfigError{Message: MsgInvalidPath, Path: root, Err: err}
	}

	required := []string{
		filepath.Join(root, MarkerFile),
		filepath.Join(root, gamedata.DataDir, gamedata.SystemFile),
	}
	for _, path := range required {
		if err := checkReadable(path, root); err != nil {
			return &ConfigError{Message: MsgInvalidPath, Path: root, Err: err}
		}
	}

	return nil
}

// Resolve returns the cleaned, expanded form of root after validating it.
func Resolve(root string) (string, error) {
	if err := Validate(root); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(fileops.ExpandPath(root))
	if err != nil {
		return "", &ConfigError{Message: MsgInvalidPath, Path: root, Err: err}
	}
	return abs, nil
}

func checkReadable(path, root string) error {
	if err := fileops.ValidateFileInDirectory(path, root); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
