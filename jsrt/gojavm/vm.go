// Package gojavm is the pure-Go JavaScript backend for jsrt, built on goja.
// Importing it registers the "goja" backend.
package gojavm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"chartbridge/jsrt"
)

const Name = "goja"

func init() { jsrt.Register(Name, New) }

// VM is a single goja runtime. It is not safe for concurrent use; jsrt
// serializes calls per program.
type VM struct {
	rt      *goja.Runtime
	program string
}

func New() (jsrt.VM, error) {
	vm := &VM{rt: goja.New()}
	if err := vm.rt.Set("console", newConsole(vm)); err != nil {
		return nil, err
	}
	return vm, nil
}

func (m *VM) Load(name, src string) error {
	m.program = name
	_, err := m.rt.RunScript(name, src)
	return err
}

func (m *VM) Entry(name string) (jsrt.Func, error) {
	fn, ok := goja.AssertFunction(m.rt.Get(name))
	if !ok {
		return nil, fmt.Errorf("gojavm: global %q is not a function", name)
	}
	return func(ctx context.Context, args ...any) (any, error) {
		vals := make([]goja.Value, len(args))
		for i, a := range args {
			v, err := m.toValue(a)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}

		stop := m.watch(ctx)
		res, err := fn(goja.Undefined(), vals...)
		stop()
		if err != nil {
			var ie *goja.InterruptedError
			if errors.As(err, &ie) && ctx.Err() != nil {
				return nil, fmt.Errorf("gojavm: interrupted: %w", ctx.Err())
			}
			return nil, err
		}
		if res == nil || goja.IsUndefined(res) || goja.IsNull(res) {
			return nil, nil
		}
		return res.Export(), nil
	}, nil
}

func (m *VM) Close() error {
	m.rt.ClearInterrupt()
	return nil
}

// watch interrupts the runtime when ctx is cancelled mid-call. The
// returned func must be called once the call has returned.
func (m *VM) watch(ctx context.Context) func() {
	if ctx.Done() == nil {
		return func() {}
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			m.rt.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	return func() {
		close(done)
		wg.Wait()
		m.rt.ClearInterrupt()
	}
}

// toValue hands scalars over directly and rebuilds containers with
// JSON.parse so programs see ordinary JS objects and arrays.
func (m *VM) toValue(a any) (goja.Value, error) {
	switch a.(type) {
	case nil, string, bool, float64:
		return m.rt.ToValue(a), nil
	}
	buf, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	parse, ok := goja.AssertFunction(m.rt.Get("JSON").ToObject(m.rt).Get("parse"))
	if !ok {
		return nil, errors.New("gojavm: JSON.parse unavailable")
	}
	return parse(goja.Undefined(), m.rt.ToValue(string(buf)))
}
