// Package mcp provides the Model Context Protocol (MCP) server for rmmz-mcp using mcp-go.
//
// The server exposes a fixed catalog of tools over the JSON data files of one
// RPG Maker MZ project: actors, items, weapons, armors, skills, maps with their
// events, and the system document. Clients list the tools, then call one by name
// with a JSON object of arguments and get back a single text content block
// holding the pretty-printed result.
//
// # Implementation
//
// The package uses the mcp-go library (github.com/mark3labs/mcp-go) for protocol
// handling. The Dispatcher owns the catalog and does the per-call work:
//
//  1. the project root is validated (marker file and data/System.json);
//  2. the tool is looked up by name;
//  3. arguments are decoded, with integral checks on ids and coordinates;
//  4. the domain operation runs and its result is encoded as indented JSON.
//
// # Errors
//
// Every failure is reported inside a normal tool result whose text is
// "Error: <message>", so a client sees the same shape for success and failure.
// With Options.StructuredErrors the result is also flagged with isError.
// Protocol-level errors are never returned for tool failures.
//
// # Transports
//
// The server is typically started as a subprocess by an MCP client and talks
// JSON-RPC 2.0 over stdin/stdout:
//
//	rmmz-mcp serve --project ~/Games/MyGame
//
// It can also serve the streamable HTTP transport with --http addr.
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
