package fileservice

import (
	"context"
	"encoding/json"

	"github.com/aerissecure/compose"
)

// Service wraps a Caller with the tool surface of the file service.
type Service struct {
	rpc Caller
}

// NewService returns a Service issuing requests through rpc.
func NewService(rpc Caller) *Service {
	return &Service{rpc: rpc}
}

// CallTool invokes a named tool with the given destination path and
// content blocks.
func (s *Service) CallTool(ctx context.Context, name, path string, blocks []compose.Block) (*ToolResult, error) {
	params := CallParams{
		Name: name,
		Arguments: CallArguments{
			FilePath: path,
			Content:  blocks,
		},
	}
	raw, err := s.rpc.Call(ctx, "tools/call", params)
	if err != nil {
		return nil, err
	}

	var result ToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &TransportError{Op: "decode tool result", Err: err}
	}
	return &result, nil
}

// CreateWord asks the service to render the blocks to a Word document at
// the given path.
func (s *Service) CreateWord(ctx context.Context, path string, blocks []compose.Block) (*ToolResult, error) {
	return s.CallTool(ctx, ToolCreateWord, path, blocks)
}

// CreateExcel asks the service to render the blocks to an Excel workbook
// at the given path.
func (s *Service) CreateExcel(ctx context.Context, path string, blocks []compose.Block) (*ToolResult, error) {
	return s.CallTool(ctx, ToolCreateExcel, path, blocks)
}
