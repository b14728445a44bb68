package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rmmz-mcp/internal/gamedata"
	"rmmz-mcp/internal/logging"
	"rmmz-mcp/internal/project"
	"rmmz-mcp/pkg/fileops"
)

// UnknownToolError reports a call to a tool that is not in the catalog.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

// Options configure a Dispatcher.
type Options struct {
	// ProjectPath is the project root every call operates on. It is validated on
	// each call, so an unset or broken path fails calls instead of construction.
	ProjectPath string

	// StructuredErrors sets isError on failed results. By default failures are
	// reported only through the "Error: " text prefix.
	StructuredErrors bool

	Logger *logging.AppLogger
}

// Dispatcher routes tool calls by name to the domain services and wraps their
// results in MCP tool results.
type Dispatcher struct {
	opts   Options
	logger *logging.AppLogger
	tools  []toolDef
	byName map[string]toolDef
}

// NewDispatcher builds the tool catalog for opts.ProjectPath.
func NewDispatcher(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetDefault()
	}

	store := gamedata.NewStore(fileops.ExpandPath(opts.ProjectPath), logger)
	tools := catalog(newServices(store))

	byName := make(map[string]toolDef, len(tools))
	for _, def := range tools {
		if _, dup := byName[def.tool.Name]; dup {
			panic(fmt.Sprintf("duplicate tool %q", def.tool.Name))
		}
		byName[def.tool.Name] = def
	}

	return &Dispatcher{
		opts:   opts,
		logger: logger,
		tools:  tools,
		byName: byName,
	}
}

// Tools returns the catalog in listing order.
func (d *Dispatcher) Tools() []mcp.Tool {
	out := make([]mcp.Tool, len(d.tools))
	for i, def := range d.tools {
		out[i] = def.tool
	}
	return out
}

// ServerTools returns the catalog bound to this dispatcher, ready for
// server.MCPServer.AddTools.
func (d *Dispatcher) ServerTools() []server.ServerTool {
	out := make([]server.ServerTool, len(d.tools))
	for i, def := range d.tools {
		out[i] = server.ServerTool{Tool: def.tool, Handler: d.handle}
	}
	return out
}

func (d *Dispatcher) handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return d.Call(ctx, req.Params.Name, req.GetArguments()), nil
}

// Call runs one tool. It never returns a protocol error: every failure, including
// an unconfigured project or an unknown tool name, comes back as a result whose
// text is "Error: <message>".
func (d *Dispatcher) Call(ctx context.Context, name string, arguments map[string]any) *mcp.CallToolResult {
	start := time.Now()
	logger := d.logger.With("tool", name)

	value, err := d.run(ctx, name, args(arguments))
	logger.LogToolCall(start, err)
	if err != nil {
		return d.errorResult(err)
	}

	text, err := gamedata.Encode(value)
	if err != nil {
		logger.Error("Failed to encode tool result", "error", err)
		return d.errorResult(err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(text))},
	}
}

func (d *Dispatcher) run(ctx context.Context, name string, a args) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := project.Validate(d.opts.ProjectPath); err != nil {
		return nil, err
	}

	def, ok := d.byName[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	if a == nil {
		a = args{}
	}
	return def.run(ctx, a)
}

func (d *Dispatcher) errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent("Error: " + err.Error())},
		IsError: d.opts.StructuredErrors,
	}
}

// ResultText joins the text content of a tool result.
func ResultText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	var parts []string
	for _, c := range res.Content {
		if text, ok := c.(mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}
