package convert

import (
	"context"
	"encoding/json"
	"fmt"

	"chartbridge/jsrt"
)

// Engine performs the two conversions. Implementations can be swapped
// behind a Converter (embedded JS, a remote chartbridge over gRPC, ...).
type Engine interface {
	DSLToWorkflow(ctx context.Context, dsl Document) (Document, error)
	VegaToDSL(ctx context.Context, req VegaRequest) (Document, error)
	Close() error
}

// ScriptEngine runs the bundled programs in an embedded JS runtime. Each
// program receives its request as a single JSON string argument.
type ScriptEngine struct {
	h *jsrt.Handle
}

func NewScriptEngine(h *jsrt.Handle) *ScriptEngine { return &ScriptEngine{h: h} }

func (e *ScriptEngine) DSLToWorkflow(ctx context.Context, dsl Document) (Document, error) {
	if dsl == nil {
		dsl = Document{}
	}
	return e.call(ctx, jsrt.DSLToWorkflow, dsl)
}

func (e *ScriptEngine) VegaToDSL(ctx context.Context, req VegaRequest) (Document, error) {
	if req.AllFields == nil {
		req.AllFields = []Document{}
	}
	return e.call(ctx, jsrt.VegaToDSL, req)
}

func (e *ScriptEngine) Close() error { return e.h.Close() }

func (e *ScriptEngine) call(ctx context.Context, p jsrt.Program, payload any) (Document, error) {
	if err := e.h.Initialize(ctx); err != nil {
		return nil, err
	}
	text, err := json.Marshal(payload)
	if err != nil {
		return nil, &jsrt.MarshalError{Op: "encode", Err: err}
	}
	out, err := e.h.Invoke(ctx, p, string(text))
	if err != nil {
		return nil, err
	}
	return AsDocument(out)
}

// AsDocument asserts that a decoded result is a JSON object.
func AsDocument(v any) (Document, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &jsrt.MarshalError{Op: "decode", Err: fmt.Errorf("result is %T, want a JSON object", v)}
	}
	return Document(m), nil
}
