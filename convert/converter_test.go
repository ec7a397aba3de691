package convert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartbridge/jsrt"
	_ "chartbridge/jsrt/gojavm"
)

func newConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	h := jsrt.New(jsrt.WithRoot("testdata"))
	c := New(NewScriptEngine(h), opts...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func barChart() (Document, []Document) {
	vl := Document{
		"mark": "bar",
		"encoding": map[string]any{
			"x": map[string]any{"field": "a", "type": "nominal"},
			"y": map[string]any{"field": "b", "type": "quantitative"},
		},
	}
	fields := []Document{
		NewField("a", "a", AnalyticDimension, SemanticNominal),
		NewField("b", "b", AnalyticMeasure, SemanticQuantitative),
	}
	return vl, fields
}

func TestDSLToWorkflow_Empty(t *testing.T) {
	c := newConverter(t)

	out, err := c.DSLToWorkflow(context.Background(), Document{})
	require.NoError(t, err)
	steps, ok := out.Workflow()
	require.True(t, ok)
	require.Empty(t, steps)

	out, err = c.DSLToWorkflow(context.Background(), nil)
	require.NoError(t, err)
	_, ok = out.Workflow()
	require.True(t, ok)
}

func TestDSLToWorkflow_WithFields(t *testing.T) {
	c := newConverter(t)
	dsl := Document{
		"encodings": map[string]any{
			"dimensions": []Document{NewField("a", "a", AnalyticDimension, SemanticNominal)},
			"measures":   []Document{NewField("b", "b", AnalyticMeasure, SemanticQuantitative)},
		},
	}

	out, err := c.DSLToWorkflow(context.Background(), dsl)
	require.NoError(t, err)
	steps, ok := out.Workflow()
	require.True(t, ok)
	require.Len(t, steps, 1)

	view := steps[0].(map[string]any)
	assert.Equal(t, "view", view["type"])
	query := view["query"].([]any)[0].(map[string]any)
	assert.Equal(t, "aggregate", query["op"])
	assert.Equal(t, []any{"a"}, query["groupBy"])
}

func TestDSLToWorkflow_ProgramErrorPropagates(t *testing.T) {
	c := newConverter(t)
	_, err := c.DSLToWorkflow(context.Background(), Document{"encodings": "bad"})

	var te *jsrt.TransformationError
	require.ErrorAs(t, err, &te)
	require.Equal(t, jsrt.DSLToWorkflow, te.Program)
	require.Contains(t, err.Error(), "encodings must be an object")
}

func TestDSLToWorkflow_UnencodableInput(t *testing.T) {
	c := newConverter(t)
	_, err := c.DSLToWorkflow(context.Background(), Document{"ch": make(chan int)})
	require.ErrorIs(t, err, jsrt.ErrMarshal)
}

func TestVegaToDSL_BarChart(t *testing.T) {
	c := newConverter(t)
	vl, fields := barChart()

	out, err := c.VegaToDSL(context.Background(), vl, fields)
	require.NoError(t, err)
	require.Contains(t, out, "config")
	require.Contains(t, out, "encodings")

	enc := out["encodings"].(map[string]any)
	require.Len(t, enc["columns"], 1)
	require.Len(t, enc["rows"], 1)
	require.Len(t, out["visId"], IDLength)
	require.Len(t, out["name"], IDLength)
}

func TestVegaToDSL_FreshIdentifiersPerCall(t *testing.T) {
	c := newConverter(t)
	vl, fields := barChart()

	first, err := c.VegaToDSL(context.Background(), vl, fields)
	require.NoError(t, err)
	second, err := c.VegaToDSL(context.Background(), vl, fields)
	require.NoError(t, err)

	// 62^6 possibilities per id; a collision on both is not a realistic flake.
	require.False(t, first["visId"] == second["visId"] && first["name"] == second["name"])
	require.Equal(t, first["encodings"], second["encodings"])
}

func TestVegaToDSL_UnknownField(t *testing.T) {
	c := newConverter(t)
	vl, _ := barChart()
	_, err := c.VegaToDSL(context.Background(), vl, nil)
	require.ErrorIs(t, err, jsrt.ErrTransformation)
	require.Contains(t, err.Error(), `unknown field "a"`)
}

func TestConvert_KeepsSuppliedIdentifiers(t *testing.T) {
	c := newConverter(t)
	vl, fields := barChart()

	out, err := c.Convert(context.Background(), VegaRequest{VL: vl, AllFields: fields, VisID: "vis001", Name: "chart1"})
	require.NoError(t, err)
	require.Equal(t, "vis001", out["visId"])
	require.Equal(t, "chart1", out["name"])
}

func TestRuntimeInitializedOnce(t *testing.T) {
	h := jsrt.New(jsrt.WithRoot("testdata"))
	c := New(NewScriptEngine(h))
	t.Cleanup(func() { _ = c.Close() })

	_, err := c.DSLToWorkflow(context.Background(), Document{})
	require.NoError(t, err)
	_, err = c.DSLToWorkflow(context.Background(), Document{})
	require.NoError(t, err)
	require.Equal(t, 2, h.Loads())
}

func TestRuntimeUnavailable(t *testing.T) {
	h := jsrt.New(jsrt.WithRoot("testdata"), jsrt.WithBackend("mini-racer"))
	c := New(NewScriptEngine(h))

	_, err := c.DSLToWorkflow(context.Background(), Document{})
	require.ErrorIs(t, err, jsrt.ErrRuntimeUnavailable)
	require.Contains(t, err.Error(), "export")
	require.Contains(t, err.Error(), jsrt.InstallMessage)
}

func TestMissingProgramFiles(t *testing.T) {
	h := jsrt.New(jsrt.WithRoot(t.TempDir()))
	c := New(NewScriptEngine(h))

	_, err := c.DSLToWorkflow(context.Background(), Document{})
	require.ErrorIs(t, err, jsrt.ErrFileAccess)
	require.NotErrorIs(t, err, jsrt.ErrRuntimeUnavailable)
}

func TestConcurrentCalls(t *testing.T) {
	c := newConverter(t)
	vl, fields := barChart()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := c.DSLToWorkflow(context.Background(), Document{})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := c.VegaToDSL(context.Background(), vl, fields)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

type stubEngine struct {
	req  VegaRequest
	err  error
	out  Document
	done bool
}

func (s *stubEngine) DSLToWorkflow(context.Context, Document) (Document, error) { return s.out, s.err }
func (s *stubEngine) VegaToDSL(_ context.Context, req VegaRequest) (Document, error) {
	s.req = req
	return s.out, s.err
}
func (s *stubEngine) Close() error { s.done = true; return nil }

func TestObserverAndIDGenerator(t *testing.T) {
	eng := &stubEngine{err: errors.New("boom")}
	var ops []string
	var errs []error
	n := 0
	c := New(eng,
		WithObserver(func(op string, d time.Duration, err error) {
			ops = append(ops, op)
			errs = append(errs, err)
			require.GreaterOrEqual(t, d, time.Duration(0))
		}),
		WithIDGenerator(func() string { n++; return []string{"aaaaaa", "bbbbbb"}[n-1] }),
	)

	_, _ = c.DSLToWorkflow(context.Background(), Document{})
	_, _ = c.VegaToDSL(context.Background(), Document{}, nil)

	require.Equal(t, []string{OpDSLToWorkflow, OpVegaToDSL}, ops)
	require.Equal(t, eng.err, errs[1])
	require.Equal(t, "aaaaaa", eng.req.VisID)
	require.Equal(t, "bbbbbb", eng.req.Name)

	require.NoError(t, c.Close())
	require.True(t, eng.done)
}

func TestAsDocument(t *testing.T) {
	doc, err := AsDocument(map[string]any{"workflow": []any{}})
	require.NoError(t, err)
	_, ok := doc.Workflow()
	require.True(t, ok)

	_, err = AsDocument([]any{})
	require.ErrorIs(t, err, jsrt.ErrMarshal)

	_, ok = Document{"workflow": "nope"}.Workflow()
	require.False(t, ok)
}

func TestRandomID(t *testing.T) {
	id := RandomID()
	require.Len(t, id, IDLength)
	for _, r := range id {
		require.Contains(t, idAlphabet, string(r))
	}
}

type slowEngine struct{ stubEngine }

func (s *slowEngine) DSLToWorkflow(ctx context.Context, _ Document) (Document, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	c := New(&slowEngine{}, WithTimeout(10*time.Millisecond))
	_, err := c.DSLToWorkflow(context.Background(), Document{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithTimeout_InterruptsProgram(t *testing.T) {
	h := jsrt.New(jsrt.WithFS(fstest.MapFS{
		jsrt.DSLToWorkflow.Path(): {Data: []byte(`function main() { for (;;) {} }`)},
		jsrt.VegaToDSL.Path():     {Data: []byte(`function main() { return "{}"; }`)},
	}))
	c := New(NewScriptEngine(h), WithTimeout(50*time.Millisecond))
	t.Cleanup(func() { _ = c.Close() })

	_, err := c.DSLToWorkflow(context.Background(), Document{})
	require.ErrorIs(t, err, jsrt.ErrTransformation)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	out, err := c.VegaToDSL(context.Background(), Document{}, nil)
	require.NoError(t, err)
	require.Empty(t, out)
}
