// Package fileservice talks to an out-of-process document generation tool
// over line-delimited JSON-RPC 2.0. The tool exposes document creation as
// callable tools: a tools/call request names the tool and carries the
// destination path and the content blocks to render.
package fileservice

import (
	"encoding/json"
	"fmt"

	"github.com/aerissecure/compose"
)

// Version is the JSON-RPC protocol version sent with every request.
const Version = "2.0"

// Tool names understood by the file service.
const (
	ToolCreateWord  = "create_word"
	ToolCreateExcel = "create_excel"
)

// Request is a JSON-RPC request envelope.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Response is a JSON-RPC response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is an error object returned by the remote service.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// TransportError wraps a failure to reach the service or to read a valid
// response from it. Errors reported by the service itself are RPCError.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// CallParams is the parameter object for a tools/call request.
type CallParams struct {
	Name      string        `json:"name"`
	Arguments CallArguments `json:"arguments"`
}

// CallArguments carries the destination path and the content to render.
type CallArguments struct {
	FilePath string          `json:"file_path"`
	Content  []compose.Block `json:"content"`
}

// TextContent is one text item in a tool result.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the decoded result of a tools/call request.
type ToolResult struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// Text concatenates the text items of the result.
func (r *ToolResult) Text() string {
	var out string
	for _, c := range r.Content {
		out += c.Text
	}
	return out
}
