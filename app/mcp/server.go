// Package mcp binds the aggregation core to a tool-calling protocol:
// JSON-RPC 2.0 with the MCP initialize / tools/list / tools/call methods,
// served over stdio or mounted on the HTTP server.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const protocolVersion = "2024-11-05"

// Tool is one callable operation over the aggregation core.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]any
	Call(ctx context.Context, args map[string]any) *ToolCallResult
}

type Server struct {
	name    string
	version string
	tools   map[string]Tool
	order   []string
}

func NewServer(name, version string) *Server {
	return &Server{
		name:    name,
		version: version,
		tools:   make(map[string]Tool),
	}
}

func (s *Server) Register(tools ...Tool) {
	for _, tool := range tools {
		if _, dup := s.tools[tool.Name()]; !dup {
			s.order = append(s.order, tool.Name())
		}
		s.tools[tool.Name()] = tool
		slog.Debug("Registered tool", "name", tool.Name())
	}
}

// RunStdio serves requests on stdin/stdout until EOF or context
// cancellation. All logging goes to stderr in this mode; stdout carries
// protocol frames only.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.serve(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	decoder := json.NewDecoder(in)
	encoder := json.NewEncoder(out)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var req JSONRPCRequest
		if err := decoder.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to decode request: %w", err)
		}

		resp := s.HandleRequest(ctx, &req)
		if resp == nil {
			continue // notification
		}

		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
	}
}

// GinHandler mounts the server as a POST endpoint on the HTTP surface.
func (s *Server) GinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JSONRPCRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, &JSONRPCResponse{
				JSONRPC: "2.0",
				Error:   &RPCError{Code: codeParseError, Message: "parse error: " + err.Error()},
			})
			return
		}

		resp := s.HandleRequest(c.Request.Context(), &req)
		if resp == nil {
			c.Status(http.StatusAccepted)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleRequest processes one JSON-RPC request. A nil return means the
// request was a notification and gets no response.
func (s *Server) HandleRequest(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	resp := &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		resp.Result = InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    ServerCapabilities{Tools: ToolsCapability{ListChanged: false}},
			ServerInfo:      ServerInfo{Name: s.name, Version: s.version},
		}
	case "notifications/initialized":
		slog.Debug("Client initialized")
		return nil
	case "ping":
		resp.Result = map[string]any{}
	case "tools/list":
		resp.Result = s.listTools()
	case "tools/call":
		s.callTool(ctx, req, resp)
	default:
		resp.Error = &RPCError{
			Code:    codeMethodNotFound,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		}
	}

	return resp
}

func (s *Server) listTools() ToolsListResult {
	defs := make([]ToolDef, 0, len(s.order))
	for _, name := range s.order {
		tool := s.tools[name]
		defs = append(defs, ToolDef{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.InputSchema(),
		})
	}
	return ToolsListResult{Tools: defs}
}

func (s *Server) callTool(ctx context.Context, req *JSONRPCRequest, resp *JSONRPCResponse) {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		resp.Error = &RPCError{Code: codeInvalidParams, Message: "invalid tool call params: " + err.Error()}
		return
	}

	tool, ok := s.tools[params.Name]
	if !ok {
		resp.Error = &RPCError{Code: codeInvalidParams, Message: fmt.Sprintf("unknown tool: %s", params.Name)}
		return
	}

	result := tool.Call(ctx, params.Arguments)
	if result.IsError {
		slog.Warn("Tool call failed", "tool", params.Name, "error", firstText(result))
	} else {
		slog.Debug("Tool call completed", "tool", params.Name)
	}
	resp.Result = result
}

func firstText(r *ToolCallResult) string {
	if len(r.Content) > 0 {
		return r.Content[0].Text
	}
	return ""
}
