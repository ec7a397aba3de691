package stdout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"chartbridge/frame"
	"chartbridge/sink"
)

/* ────────── public YAML config ────────── */
type Config struct {
	Pretty        bool `yaml:"pretty"`          // indent JSON replies
	ValueMaxBytes int  `yaml:"value_max_bytes"` // 0 = no truncation
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config

	mu  sync.Mutex // guards out
	out io.Writer
}

// New returns a stdout sink writing to w instead of os.Stdout.
func New(w io.Writer) sink.Adapter { return &driver{out: w} }

/* ────────── sink.Adapter ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.ValueMaxBytes < 0 {
		return fmt.Errorf("stdout-sink: value_max_bytes must not be negative")
	}
	d.cfg = c
	return nil
}

func (d *driver) Push(f *frame.Frame) error {
	val := f.Value
	if d.cfg.Pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, val, "", "  "); err == nil {
			val = buf.Bytes()
		}
	}
	if n := d.cfg.ValueMaxBytes; n > 0 && len(val) > n {
		val = append(val[:n:n], "..."...)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprintf(d.out, "[sink] key=%s %s\n", f.Key, val)
	return err
}

func (d *driver) Close() error { return nil }

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{out: os.Stdout} })
}
