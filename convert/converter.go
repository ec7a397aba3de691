package convert

import (
	"context"
	"math/rand"
	"time"
)

// Operation names reported to observers.
const (
	OpDSLToWorkflow = "dsl_to_workflow"
	OpVegaToDSL     = "vega_to_dsl"
)

// IDLength is the length of the synthetic visId/name identifiers.
const IDLength = 6

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Observer is told about every conversion once it returns.
type Observer func(op string, elapsed time.Duration, err error)

// Converter is the public conversion API. It is safe for concurrent use
// when its Engine is.
type Converter struct {
	engine   Engine
	newID    func() string
	observer Observer
	timeout  time.Duration
}

type Option func(*Converter)

func WithObserver(o Observer) Option { return func(c *Converter) { c.observer = o } }

// WithTimeout bounds every conversion; zero means no bound.
func WithTimeout(d time.Duration) Option { return func(c *Converter) { c.timeout = d } }

// WithIDGenerator replaces the random identifier source.
func WithIDGenerator(fn func() string) Option { return func(c *Converter) { c.newID = fn } }

func New(engine Engine, opts ...Option) *Converter {
	c := &Converter{engine: engine, newID: RandomID}
	for _, o := range opts {
		o(c)
	}
	return c
}

// DSLToWorkflow turns a chart DSL document into a workflow document. On
// success the result holds a "workflow" list.
func (c *Converter) DSLToWorkflow(ctx context.Context, dsl Document) (Document, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()
	start := time.Now()
	out, err := c.engine.DSLToWorkflow(ctx, dsl)
	c.observe(OpDSLToWorkflow, start, err)
	return out, err
}

// VegaToDSL turns a Vega-Lite style config plus its field catalog into a
// chart DSL document holding "config" and "encodings".
func (c *Converter) VegaToDSL(ctx context.Context, vl Document, fields []Document) (Document, error) {
	return c.Convert(ctx, VegaRequest{VL: vl, AllFields: fields})
}

// Convert runs a prepared vega-to-dsl envelope, generating any missing
// identifiers.
func (c *Converter) Convert(ctx context.Context, req VegaRequest) (Document, error) {
	if req.VisID == "" {
		req.VisID = c.newID()
	}
	if req.Name == "" {
		req.Name = c.newID()
	}
	ctx, cancel := c.bound(ctx)
	defer cancel()
	start := time.Now()
	out, err := c.engine.VegaToDSL(ctx, req)
	c.observe(OpVegaToDSL, start, err)
	return out, err
}

func (c *Converter) Close() error { return c.engine.Close() }

func (c *Converter) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Converter) observe(op string, start time.Time, err error) {
	if c.observer != nil {
		c.observer(op, time.Since(start), err)
	}
}

// RandomID returns a fresh IDLength-character alphanumeric string.
func RandomID() string {
	b := make([]byte, IDLength)
	for i := range b {
		b[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(b)
}
