package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/scribe/pkg/tools"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "list_tools" | "call_tool" | "close"
	Payload json.RawMessage `json:"payload"`
}

// CallToolPayload is the payload for "call_tool" requests
type CallToolPayload struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success   bool            `json:"success"`
	Type      string          `json:"type"` // "ready" | "list_tools" | "call_tool" | "decode"
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"`
}

// Error kinds let clients tell bad input apart from failed execution.
const (
	ErrorKindValidation     = "validation"
	ErrorKindExecution      = "execution"
	ErrorKindUnknownTool    = "unknown_tool"
	ErrorKindDisabled       = "disabled"
	ErrorKindUnknownRequest = "unknown_request"
	ErrorKindDecode         = "decode"
)

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
	Root    string `json:"root,omitempty"`
}

// ListToolsData is the data field for "list_tools" responses
type ListToolsData struct {
	Tools []tools.Definition `json:"tools"`
}

// CallToolData is the data field for successful "call_tool" responses
type CallToolData struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}
