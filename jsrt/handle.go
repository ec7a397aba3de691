package jsrt

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"chartbridge/internal/logging"
)

// Program names one bundled transformation program.
type Program string

const (
	DSLToWorkflow Program = "dsl-to-workflow"
	VegaToDSL     Program = "vega-to-dsl"
)

// EntryPoint is the global function every bundled program exposes.
const EntryPoint = "main"

// DefaultBackend is the backend used when none is configured.
const DefaultBackend = "goja"

// Programs lists the programs a Handle loads, in load order.
var Programs = []Program{DSLToWorkflow, VegaToDSL}

// Path returns the program location relative to the resource root.
func (p Program) Path() string {
	return path.Join("templates", "dist", string(p)+".umd.js")
}

type loaded struct {
	mu   sync.Mutex // serializes calls into vm
	vm   VM
	main Func
}

// Handle owns the engine instances for both programs. Initialize is
// idempotent and safe for concurrent first use; Close resets it.
type Handle struct {
	fsys    fs.FS
	backend string
	onLoad  func(Program)

	mu    sync.Mutex
	ready bool
	progs map[Program]*loaded
	loads int
}

type Option func(*Handle)

// WithFS reads programs from fsys instead of the working directory.
func WithFS(fsys fs.FS) Option { return func(h *Handle) { h.fsys = fsys } }

// WithRoot reads programs from dir.
func WithRoot(dir string) Option { return func(h *Handle) { h.fsys = os.DirFS(dir) } }

// WithBackend selects a registered VM backend by name.
func WithBackend(name string) Option { return func(h *Handle) { h.backend = name } }

// WithLoadHook is called after each program has been loaded.
func WithLoadHook(fn func(Program)) Option { return func(h *Handle) { h.onLoad = fn } }

func New(opts ...Option) *Handle {
	h := &Handle{backend: DefaultBackend}
	for _, o := range opts {
		o(h)
	}
	if h.fsys == nil {
		h.fsys = os.DirFS(".")
	}
	return h
}

// Ready reports whether Initialize has completed successfully.
func (h *Handle) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

// Loads reports how many program loads the handle has performed.
func (h *Handle) Loads() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loads
}

// Initialize creates one VM per program and resolves each entry point.
// A failed attempt leaves the handle uninitialized; the next call retries.
func (h *Handle) Initialize(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready {
		return nil
	}

	progs := make(map[Program]*loaded, len(Programs))
	for _, p := range Programs {
		if err := ctx.Err(); err != nil {
			closeAll(progs)
			return err
		}
		l, err := h.load(p)
		if err != nil {
			closeAll(progs)
			return err
		}
		progs[p] = l
		h.loads++
		if h.onLoad != nil {
			h.onLoad(p)
		}
	}
	h.progs, h.ready = progs, true
	logging.L().Info("jsrt: runtime ready", "backend", h.backend, "programs", len(progs))
	return nil
}

func (h *Handle) load(p Program) (*loaded, error) {
	vm, err := newVM(h.backend)
	if err != nil {
		return nil, err
	}
	src, err := fs.ReadFile(h.fsys, p.Path())
	if err != nil {
		_ = vm.Close()
		return nil, &FileError{Path: p.Path(), Err: err}
	}
	if err := vm.Load(p.Path(), string(src)); err != nil {
		_ = vm.Close()
		return nil, &TransformationError{Program: p, Err: err}
	}
	main, err := vm.Entry(EntryPoint)
	if err != nil {
		_ = vm.Close()
		return nil, &TransformationError{Program: p, Err: err}
	}
	logging.L().Debug("jsrt: program loaded", "program", string(p), "bytes", len(src))
	return &loaded{vm: vm, main: main}, nil
}

// Invoke calls the entry point of p with args and returns its decoded
// result. Args are normalized through JSON first so the VM only sees
// plain JSON values.
func (h *Handle) Invoke(ctx context.Context, p Program, args ...any) (any, error) {
	h.mu.Lock()
	l, ok := h.progs[p]
	ready := h.ready
	h.mu.Unlock()
	if !ready {
		return nil, fmt.Errorf("jsrt: invoke %s before Initialize", p)
	}
	if !ok {
		return nil, fmt.Errorf("jsrt: unknown program %q", p)
	}

	callArgs, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	raw, err := l.main(ctx, callArgs...)
	l.mu.Unlock()
	if err != nil {
		return nil, &TransformationError{Program: p, Err: err}
	}
	return decodeResult(raw)
}

// Close releases every VM. A closed handle can be initialized again.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	err := closeAll(h.progs)
	h.progs, h.ready = nil, false
	return err
}

func closeAll(progs map[Program]*loaded) error {
	var first error
	for _, l := range progs {
		if err := l.vm.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func encodeArgs(args []any) ([]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	buf, err := json.Marshal(args)
	if err != nil {
		return nil, &MarshalError{Op: "encode", Err: err}
	}
	var out []any
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, &MarshalError{Op: "encode", Err: err}
	}
	return out, nil
}

func decodeResult(raw any) (any, error) {
	var buf []byte
	switch v := raw.(type) {
	case string:
		buf = []byte(v)
	case []byte:
		buf = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, &MarshalError{Op: "decode", Err: err}
		}
		buf = b
	}
	var out any
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, &MarshalError{Op: "decode", Err: err}
	}
	return out, nil
}
