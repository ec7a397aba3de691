package pipeline

import (
	"encoding/json"
	"fmt"

	"chartbridge/convert"
	"chartbridge/jsrt"
)

// Request is the JSON body of a worker request frame.
type Request struct {
	Op     string             `json:"op"`
	DSL    convert.Document   `json:"dsl,omitempty"`
	VL     convert.Document   `json:"vl,omitempty"`
	Fields []convert.Document `json:"fields,omitempty"`
	VisID  string             `json:"visId,omitempty"`
	Name   string             `json:"name,omitempty"`
}

// Reply is the JSON body of a worker reply frame. Exactly one of Result
// and Error is set.
type Reply struct {
	Op     string           `json:"op"`
	Result convert.Document `json:"result,omitempty"`
	Error  *ReplyError      `json:"error,omitempty"`
}

type ReplyError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// KindRequest marks replies to frames that were not valid requests.
const KindRequest = "request"

func DecodeRequest(b []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(b, &req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	switch req.Op {
	case convert.OpDSLToWorkflow, convert.OpVegaToDSL:
		return req, nil
	case "":
		return req, fmt.Errorf("decode request: missing op")
	default:
		return req, fmt.Errorf("decode request: unknown op %q", req.Op)
	}
}

func errorReply(op string, err error) Reply {
	kind := jsrt.Kind(err)
	return Reply{Op: op, Error: &ReplyError{Kind: kind, Message: err.Error()}}
}
