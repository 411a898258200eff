package main

// Notes:
// - Fakes for the converter and pool used across command tests. They record
//   inputs so tests can assert what the CLI passed to the library.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mathdoc "github.com/alnah/go-mathdoc"
	"github.com/alnah/go-mathdoc/internal/config"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// fakeConverter returns the input content prefixed by the format name.
type fakeConverter struct {
	mu     sync.Mutex
	inputs []mathdoc.Input
	err    error
	block  chan struct{} // if set, conversions wait on it or on ctx
	closed bool
}

func (c *fakeConverter) convert(ctx context.Context, format string, in mathdoc.Input) (*mathdoc.Result, error) {
	c.mu.Lock()
	c.inputs = append(c.inputs, in)
	block, err := c.block, c.err
	c.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	res := &mathdoc.Result{Data: []byte(format + ":" + in.Content)}
	if format != "docx" {
		res.HTML = []byte("<html>" + in.Content + "</html>")
	}
	return res, nil
}

func (c *fakeConverter) ToDocx(ctx context.Context, in mathdoc.Input) (*mathdoc.Result, error) {
	return c.convert(ctx, "docx", in)
}

func (c *fakeConverter) ToHTML(ctx context.Context, in mathdoc.Input) (*mathdoc.Result, error) {
	return c.convert(ctx, "html", in)
}

func (c *fakeConverter) ToPDF(ctx context.Context, in mathdoc.Input) (*mathdoc.Result, error) {
	return c.convert(ctx, "pdf", in)
}

func (c *fakeConverter) Elements(_ context.Context, in mathdoc.Input) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []byte(`[{"kind":"paragraph","type":"` + string(in.Type) + `"}]`), nil
}

func (c *fakeConverter) Preview(_ context.Context, in mathdoc.Input) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return "<p>" + in.Content + "</p>", nil
}

func (c *fakeConverter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConverter) recorded() []mathdoc.Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]mathdoc.Input(nil), c.inputs...)
}

// fakePool hands out one shared fakeConverter.
type fakePool struct {
	conv       *fakeConverter
	size       int
	acquireErr error
	opts       []mathdoc.Option
	closed     bool
}

func (p *fakePool) Acquire() (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *fakePool) Release(CLIConverter) {}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// syncBuffer is a bytes.Buffer safe for a writing goroutine and a reading
// test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// testEnv is an Environment writing to buffers, with fakes installed.
type testEnv struct {
	*Environment
	stdout *syncBuffer
	stderr *syncBuffer
	conv   *fakeConverter
	pool   *fakePool
	vars   map[string]string
}

// newTestEnv returns an isolated environment: no real environment
// variables, a fixed clock and fake converters.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		conv:   &fakeConverter{},
		vars:   map[string]string{},
	}
	te.pool = &fakePool{conv: te.conv, size: 2}
	te.Environment = &Environment{
		Now:     func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) },
		Stdout:  te.stdout,
		Stderr:  te.stderr,
		Getenv:  func(k string) string { return te.vars[k] },
		Environ: func() []string { return nil },
		NewConverter: func(...mathdoc.Option) (CLIConverter, error) {
			return te.conv, nil
		},
		NewPool: func(size int, opts ...mathdoc.Option) Pool {
			te.pool.opts = opts
			return te.pool
		},
		Config: config.DefaultConfig(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return te
}

// run executes the CLI against te.
func (te *testEnv) run(args ...string) int {
	return run(context.Background(), args, te.Environment)
}

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// readFile returns a file's content or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// errFake is a generic failure from fakes.
var errFake = errors.New("fake failure")
