// Package main is the entry point for the rmmz-mcp CLI.
//
// Without a subcommand the binary runs the MCP server on stdin/stdout, which is
// how MCP clients launch it. The other subcommands inspect the project, list
// the tool catalog, run a single tool and manage the config file.
package main

import (
	"os"

	"rmmz-mcp/internal/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	appLogger := logging.NewAppLogger()

	if err := newRootCmd(appLogger).Execute(); err != nil {
		appLogger.Debug("Command failed", "error", err)
		os.Exit(1)
	}
}
