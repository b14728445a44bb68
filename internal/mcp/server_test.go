package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmmz-mcp/internal/gamedata/gamedatatest"
	"rmmz-mcp/internal/logging"
)

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := gamedatatest.NewProject(t)
	logger, _ := logging.NewTestLogger()
	d := NewDispatcher(Options{ProjectPath: root, Logger: logger})
	return NewServer(d, "test", logger)
}

func send(t *testing.T, s *Server, id int, method string, params any) rpcResponse {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	reply := s.MCPServer().HandleMessage(context.Background(), msg)
	require.NotNil(t, reply)

	data, err := json.Marshal(reply)
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(data, &resp), string(data))
	assert.Equal(t, id, resp.ID)
	return resp
}

func initialize(t *testing.T, s *Server) {
	t.Helper()
	resp := send(t, s, 1, "initialize", map[string]any{
		"protocolVersion": "2025-03-26",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test-client", "version": "1.0.0"},
	})
	require.Nil(t, resp.Error)

	var result struct {
		ServerInfo struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
		Capabilities struct {
			Tools *struct{} `json:"tools"`
		} `json:"capabilities"`
		Instructions string `json:"instructions"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, ServerName, result.ServerInfo.Name)
	assert.Equal(t, "test", result.ServerInfo.Version)
	assert.NotNil(t, result.Capabilities.Tools)
	assert.Equal(t, Instructions, result.Instructions)
}

func TestServer_ListTools(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	resp := send(t, s, 2, "tools/list", map[string]any{})
	require.Nil(t, resp.Error)

	var result struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Type     string         `json:"type"`
				Required []string       `json:"required"`
				Props    map[string]any `json:"properties"`
			} `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Len(t, result.Tools, len(s.dispatcher.Tools()))

	var found bool
	for _, tool := range result.Tools {
		if tool.Name == "create_map_event" {
			found = true
			assert.ElementsMatch(t, []string{"mapId", "name", "x", "y", "pages"}, tool.InputSchema.Required)
			assert.Contains(t, tool.InputSchema.Props, "note")
		}
	}
	assert.True(t, found)
}

func TestServer_CallTool(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	resp := send(t, s, 3, "tools/call", map[string]any{
		"name":      "get_game_title",
		"arguments": map[string]any{},
	})
	require.Nil(t, resp.Error)

	var result toolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Equal(t, `"Test Quest"`, result.Content[0].Text)
	assert.False(t, result.IsError)
}

func TestServer_ToolFailureIsNotAProtocolError(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	resp := send(t, s, 4, "tools/call", map[string]any{
		"name":      "delete_skill",
		"arguments": map[string]any{"skillId": 2},
	})
	require.Nil(t, resp.Error)

	var result toolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "Error: Cannot delete core skills (Attack/Guard)", result.Content[0].Text)
	assert.False(t, result.IsError)
}

func TestServer_UnknownToolRejectedByProtocol(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	resp := send(t, s, 5, "tools/call", map[string]any{
		"name":      "no_such_tool",
		"arguments": map[string]any{},
	})
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "no_such_tool")

	// The dispatcher itself still answers with the error envelope.
	res := s.dispatcher.Call(context.Background(), "no_such_tool", nil)
	assert.Equal(t, "Error: Unknown tool: no_such_tool", ResultText(res))
	assert.Contains(t, Instructions, "invalid params error")
}

func TestServer_ServeStdio(t *testing.T) {
	s := newTestServer(t)

	requests := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"c","version":"1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_variables","arguments":{}}}`,
	}, "\n") + "\n"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	in, writer := io.Pipe()
	go func() { _, _ = io.WriteString(writer, requests) }()
	var out syncBuffer

	done := make(chan error, 1)
	go func() { done <- s.ServeStdio(ctx, in, &out) }()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "\n") >= 2
	}, 3*time.Second, 10*time.Millisecond)

	writer.Close()
	cancel()
	require.NoError(t, <-done)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp))
	assert.Equal(t, 2, resp.ID)

	var result toolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Content, 1)
	assert.JSONEq(t, `["", "Gold Count"]`, result.Content[0].Text)
}

func TestServer_ServeHTTP(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"c","version":"1"}}}`
	req, err := http.NewRequest(http.MethodPost, "http://"+ln.Addr().String()+HTTPEndpoint, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	reply, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(reply), ServerName)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServer_ServeHTTPCancelledBeforeStart(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.ServeHTTP(ctx, "127.0.0.1:0") }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("ServeHTTP kept running with a cancelled context")
	}
}

func TestServer_ServeHTTPBadAddress(t *testing.T) {
	s := newTestServer(t)
	err := s.ServeHTTP(context.Background(), "127.0.0.1:-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestNewServer_NilLogger(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	d := NewDispatcher(Options{Logger: logger})
	s := NewServer(d, "1.0.0", nil)
	require.NotNil(t, s)
	assert.NotNil(t, s.MCPServer())
}

// syncBuffer is a bytes.Buffer safe for one writer and one polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
