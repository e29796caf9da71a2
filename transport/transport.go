// Package transport implements the line-delimited JSON-RPC 2.0 loop over
// stdin/stdout, using a bufio.Scanner-over-stdin idiom and serialized
// with github.com/json-iterator/go rather than the standard
// encoding/json package.
package transport

import (
	"bufio"
	"io"
	"log"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/IrisMu01/midi-gen-mcp/errs"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler dispatches one decoded tool call, matching dispatch.Dispatcher's
// signature. Kept as an interface here so transport never imports
// dispatch's store wiring directly.
type Handler interface {
	Dispatch(method string, params map[string]any) (any, error)
}

// request is one line of stdin, a JSON-RPC 2.0 request object.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// response is one line of stdout: either Result or Error is populated.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Kind    string         `json:"kind,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// errorCode maps a typed error kind onto a JSON-RPC-ish error code. There
// is no standard mapping for domain errors, so predictable failures all
// use one application-defined code and carry their kind in the envelope;
// schema-shaped failures and unknown tool names use the JSON-RPC
// invalid-params code.
func errorCode(kind errs.Kind) int {
	switch kind {
	case errs.SchemaViolation, errs.UnknownTool:
		return -32602
	default:
		return -32000
	}
}

// Serve runs the request/response loop until EOF or a framing error. It
// returns nil on clean EOF shutdown and a non-nil error on a fatal framing
// fault, which is the caller's cue to exit non-zero.
func Serve(r io.Reader, w io.Writer, h Handler) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			log.Printf("[transport] fatal framing error: %v", err)
			return err
		}

		resp := handleRequest(h, req)
		encoded, err := json.Marshal(resp)
		if err != nil {
			log.Printf("[transport] fatal encoding error: %v", err)
			return err
		}
		if _, err := w.Write(append(encoded, '\n')); err != nil {
			log.Printf("[transport] fatal write error: %v", err)
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("[transport] fatal read error: %v", err)
		return err
	}
	return nil
}

func handleRequest(h Handler, req request) response {
	resp := response{JSONRPC: "2.0", ID: req.ID}

	if req.Method == "" {
		resp.Error = &rpcError{Code: -32600, Message: "missing method"}
		return resp
	}

	var params map[string]any
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcError{Code: -32602, Message: "params must be an object"}
			return resp
		}
	}

	result, err := h.Dispatch(req.Method, params)
	if err != nil {
		resp.Error = toRPCError(err)
		return resp
	}
	resp.Result = result
	return resp
}

func toRPCError(err error) *rpcError {
	if e, ok := err.(*errs.Error); ok {
		return &rpcError{Code: errorCode(e.Kind), Message: e.Message, Kind: string(e.Kind), Data: e.Data}
	}
	return &rpcError{Code: -32603, Message: err.Error()}
}
