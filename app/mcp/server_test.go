package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// echoTool is a minimal tool for protocol-level tests.
type echoTool struct {
	name string
}

func (t *echoTool) Name() string        { return t.name }
func (t *echoTool) Description() string { return "Echo the input arguments." }
func (t *echoTool) InputSchema() map[string]any {
	return map[string]any{"type": "object"}
}
func (t *echoTool) Call(ctx context.Context, args map[string]any) *ToolCallResult {
	return SuccessResult(args)
}

func request(t *testing.T, method string, params any) *JSONRPCRequest {
	t.Helper()
	req := &JSONRPCRequest{JSONRPC: "2.0", ID: 1, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			t.Fatalf("Failed to marshal params: %v", err)
		}
		req.Params = raw
	}
	return req
}

func TestHandleRequest_Initialize(t *testing.T) {
	server := NewServer("frettavakt", "1.2.3")

	resp := server.HandleRequest(context.Background(), request(t, "initialize", nil))

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	result, ok := resp.Result.(InitializeResult)
	if !ok {
		t.Fatalf("Expected InitializeResult, got %T", resp.Result)
	}
	if result.ProtocolVersion != protocolVersion {
		t.Errorf("Expected protocol version %s, got %s", protocolVersion, result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "frettavakt" || result.ServerInfo.Version != "1.2.3" {
		t.Errorf("Unexpected server info: %+v", result.ServerInfo)
	}
}

func TestHandleRequest_InitializedNotificationGetsNoResponse(t *testing.T) {
	server := NewServer("frettavakt", "test")

	resp := server.HandleRequest(context.Background(), request(t, "notifications/initialized", nil))

	if resp != nil {
		t.Errorf("Expected nil response for a notification, got %+v", resp)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	server := NewServer("frettavakt", "test")

	resp := server.HandleRequest(context.Background(), request(t, "ping", nil))

	if resp.Error != nil {
		t.Errorf("Unexpected error: %v", resp.Error)
	}
}

func TestHandleRequest_ToolsListPreservesRegistrationOrder(t *testing.T) {
	server := NewServer("frettavakt", "test")
	server.Register(&echoTool{name: "zeta"}, &echoTool{name: "alpha"}, &echoTool{name: "mid"})

	resp := server.HandleRequest(context.Background(), request(t, "tools/list", nil))

	result, ok := resp.Result.(ToolsListResult)
	if !ok {
		t.Fatalf("Expected ToolsListResult, got %T", resp.Result)
	}
	want := []string{"zeta", "alpha", "mid"}
	if len(result.Tools) != len(want) {
		t.Fatalf("Expected %d tools, got %d", len(want), len(result.Tools))
	}
	for i, name := range want {
		if result.Tools[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, result.Tools[i].Name)
		}
	}
}

func TestHandleRequest_UnknownMethod(t *testing.T) {
	server := NewServer("frettavakt", "test")

	resp := server.HandleRequest(context.Background(), request(t, "resources/list", nil))

	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Errorf("Expected method-not-found error, got %+v", resp.Error)
	}
}

func TestHandleRequest_UnknownTool(t *testing.T) {
	server := NewServer("frettavakt", "test")
	server.Register(&echoTool{name: "echo"})

	resp := server.HandleRequest(context.Background(), request(t, "tools/call", toolCallParams{Name: "nosuchtool"}))

	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("Expected invalid-params error, got %+v", resp.Error)
	}
}

func TestHandleRequest_ToolCall(t *testing.T) {
	server := NewServer("frettavakt", "test")
	server.Register(&echoTool{name: "echo"})

	resp := server.HandleRequest(context.Background(), request(t, "tools/call", toolCallParams{
		Name:      "echo",
		Arguments: map[string]any{"greeting": "halló"},
	}))

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	result, ok := resp.Result.(*ToolCallResult)
	if !ok {
		t.Fatalf("Expected ToolCallResult, got %T", resp.Result)
	}
	if result.IsError {
		t.Fatal("Expected success result")
	}
	if !strings.Contains(result.Content[0].Text, "halló") {
		t.Errorf("Expected echoed arguments, got %s", result.Content[0].Text)
	}
}

func TestServe_StdioFraming(t *testing.T) {
	server := NewServer("frettavakt", "test")
	server.Register(&echoTool{name: "echo"})

	var in bytes.Buffer
	in.WriteString(`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n")
	in.WriteString(`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n")
	in.WriteString(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")

	var out bytes.Buffer
	if err := server.serve(context.Background(), &in, &out); err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	decoder := json.NewDecoder(&out)
	var responses []JSONRPCResponse
	for decoder.More() {
		var resp JSONRPCResponse
		if err := decoder.Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		responses = append(responses, resp)
	}

	// The notification must not produce a frame.
	if len(responses) != 2 {
		t.Fatalf("Expected 2 response frames, got %d", len(responses))
	}
	if responses[0].Error != nil || responses[1].Error != nil {
		t.Errorf("Unexpected errors: %+v", responses)
	}
}

func TestErrorResult(t *testing.T) {
	result := ErrorResult(context.DeadlineExceeded)

	if !result.IsError {
		t.Error("Expected IsError set")
	}
	if result.Content[0].Text != context.DeadlineExceeded.Error() {
		t.Errorf("Expected error text, got '%s'", result.Content[0].Text)
	}
}
