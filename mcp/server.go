package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"profilemcp/profile"
)

const maxLineSize = 4 << 20

// Server speaks MCP over newline-delimited JSON-RPC 2.0 on a reader and
// writer pair, normally stdin/stdout. Requests are handled one at a
// time; tool handlers never crash the loop.
type Server struct {
	svc    *profile.Service
	logger *zap.Logger
	in     io.Reader
	out    io.Writer
}

func NewServer(svc *profile.Service, logger *zap.Logger) *Server {
	return NewServerIO(svc, logger, os.Stdin, os.Stdout)
}

func NewServerIO(svc *profile.Service, logger *zap.Logger, in io.Reader, out io.Writer) *Server {
	return &Server{svc: svc, logger: logger, in: in, out: out}
}

// Run reads requests until EOF or context cancellation.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(response{
				JSONRPC: "2.0",
				ID:      json.RawMessage("null"),
				Error:   &rpcError{Code: codeParseError, Message: "parse error: " + err.Error()},
			})
			continue
		}

		s.handle(ctx, req)
	}
	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, req request) {
	// Notifications carry no id and get no response.
	if len(req.ID) == 0 {
		s.logger.Debug("notification", zap.String("method", req.Method))
		return
	}

	result, rpcErr := s.dispatch(ctx, req)

	resp := response{JSONRPC: "2.0", ID: req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}
	s.writeResponse(resp)
}

func (s *Server) dispatch(ctx context.Context, req request) (result any, rpcErr *rpcError) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panic",
				zap.String("method", req.Method),
				zap.Any("panic", r))
			result = nil
			rpcErr = &rpcError{Code: codeInternalError, Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	switch req.Method {
	case "initialize":
		return map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]any{
				"tools":   map[string]any{},
				"prompts": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    "profilemcp",
				"version": "1.0.0",
			},
		}, nil

	case "ping":
		return map[string]any{}, nil

	case "tools/list":
		return map[string]any{"tools": toolDefinitions()}, nil

	case "tools/call":
		var params struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, &rpcError{Code: codeInvalidParams, Message: "invalid params: " + err.Error()}
		}
		callResult, err := s.callTool(ctx, params.Name, params.Arguments)
		if err != nil {
			return nil, &rpcError{Code: codeInvalidParams, Message: err.Error()}
		}
		return callResult, nil

	case "prompts/list":
		return map[string]any{"prompts": promptDefinitions()}, nil

	case "prompts/get":
		var params struct {
			Name      string            `json:"name"`
			Arguments map[string]string `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, &rpcError{Code: codeInvalidParams, Message: "invalid params: " + err.Error()}
		}
		if params.Name != assistantPromptName {
			return nil, &rpcError{Code: codeInvalidParams, Message: "unknown prompt: " + params.Name}
		}
		return map[string]any{
			"description": "Profile information assistant",
			"messages": []PromptMessage{
				{
					Role:    "user",
					Content: TextContent{Type: "text", Text: assistantPrompt(params.Arguments["query_type"])},
				},
			},
		}, nil

	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}
}

func (s *Server) writeResponse(resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		return
	}
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
	}
}
