package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/praetorian-inc/scribe/pkg/tools"
)

// Version is the server protocol version
const Version = "1.0.0"

// Toolbox is the tool surface the server exposes.
type Toolbox interface {
	Definitions() []tools.Definition
	Call(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// Server answers NDJSON tool requests, one per line.
type Server struct {
	toolbox Toolbox
	root    string
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(toolbox Toolbox, root string, in io.Reader, out io.Writer) *Server {
	return &Server{
		toolbox: toolbox,
		root:    root,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(ctx, req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", ErrorKindDecode, err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(ctx, req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(ctx context.Context, req Request) bool {
	switch req.Type {
	case "list_tools":
		s.handleListTools()
	case "call_tool":
		s.handleCallTool(ctx, req.Payload)
	case "close":
		return true
	default:
		s.sendError(req.Type, ErrorKindUnknownRequest, "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send("ready", ReadyData{Version: Version, Root: s.root})
}

func (s *Server) handleListTools() {
	s.send("list_tools", ListToolsData{Tools: s.toolbox.Definitions()})
}

func (s *Server) handleCallTool(ctx context.Context, payload json.RawMessage) {
	var p CallToolPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("call_tool", ErrorKindDecode, err.Error())
		return
	}
	if p.Name == "" {
		s.sendError("call_tool", ErrorKindValidation, "tool name is required")
		return
	}

	log := logrus.WithField("tool", p.Name)
	content, err := s.toolbox.Call(ctx, p.Name, p.Arguments)
	if err != nil {
		kind := errorKind(err)
		log.WithError(err).WithField("kind", kind).Warn("tool call failed")
		s.sendError("call_tool", kind, err.Error())
		return
	}
	log.Debug("tool call succeeded")
	s.send("call_tool", CallToolData{Name: p.Name, Content: content})
}

// errorKind classifies a tool error for the error_kind field.
func errorKind(err error) string {
	var ve *tools.ValidationError
	switch {
	case errors.As(err, &ve):
		return ErrorKindValidation
	case errors.Is(err, tools.ErrUnknownTool):
		return ErrorKindUnknownTool
	case errors.Is(err, tools.ErrEditModeDisabled), errors.Is(err, tools.ErrExecDisabled):
		return ErrorKindDisabled
	default:
		return ErrorKindExecution
	}
}

func (s *Server) send(respType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(respType, ErrorKindExecution, err.Error())
		return
	}
	s.encoder.Encode(Response{
		Success: true,
		Type:    respType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, kind, msg string) {
	s.encoder.Encode(Response{
		Success:   false,
		Type:      reqType,
		Error:     msg,
		ErrorKind: kind,
	})
}
