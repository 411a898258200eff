package main

// Notes:
// - Watch tests use a zero debounce and wait on observable effects
//   (output files, recorded conversions) with a deadline.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mathdoc "github.com/alnah/go-mathdoc"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// fileIs reports whether path currently holds want.
func fileIs(path, want string) func() bool {
	return func() bool {
		data, err := os.ReadFile(path)
		return err == nil && string(data) == want
	}
}

// startWatcher runs a watcher on src in the background. The returned
// function stops it and waits for it to return.
func startWatcher(t *testing.T, te *testEnv, src string) (out string, stop func()) {
	t.Helper()
	out = strings.TrimSuffix(src, filepath.Ext(src)) + ".docx"
	w := &watcher{
		env:      te.Environment,
		conv:     te.conv,
		file:     FileToConvert{InputPath: src, OutputPath: out, Type: mathdoc.InputMarkdown},
		params:   &conversionParams{format: formatDocx},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx) }()

	return out, func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("watcher returned %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	}
}

func TestWatcher_ConvertsOnStartAndChange(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	src := writeFile(t, t.TempDir(), "a.md", "one")

	out, stop := startWatcher(t, te, src)

	waitFor(t, "initial output", fileIs(out, "docx:one"))

	if err := os.WriteFile(src, []byte("second version"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "updated output", fileIs(out, "docx:second version"))
	stop()

	if !strings.Contains(te.stdout.String(), "Watching "+src) {
		t.Errorf("stdout = %q, want Watching line", te.stdout)
	}
}

func TestWatcher_NewChangeSupersedesRunningConversion(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	te.conv.block = make(chan struct{})
	src := writeFile(t, t.TempDir(), "a.md", "old")

	out, stop := startWatcher(t, te, src)

	waitFor(t, "first conversion", func() bool { return len(te.conv.recorded()) == 1 })

	if err := os.WriteFile(src, []byte("newer content"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "second conversion", func() bool { return len(te.conv.recorded()) == 2 })

	close(te.conv.block)
	waitFor(t, "output of the newest run", fileIs(out, "docx:newer content"))
	stop()

	if strings.Contains(te.stderr.String(), "FAILED") {
		t.Errorf("superseded run was reported: %s", te.stderr)
	}
	if got := te.conv.recorded()[1].Content; got != "newer content" {
		t.Errorf("second run content = %q", got)
	}
}

func TestWatcher_FollowsRenameSave(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	dir := t.TempDir()
	src := writeFile(t, dir, "a.md", "draft")

	out, stop := startWatcher(t, te, src)
	defer stop()

	waitFor(t, "initial output", fileIs(out, "docx:draft"))

	tmp := writeFile(t, dir, ".a.md.swp", "saved by editor")
	if err := os.Rename(tmp, src); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "output after rename", fileIs(out, "docx:saved by editor"))

	if err := os.WriteFile(src, []byte("saved again"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "output after second save", fileIs(out, "docx:saved again"))
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	dir := t.TempDir()
	src := writeFile(t, dir, "a.md", "one")

	out, stop := startWatcher(t, te, src)
	defer stop()

	waitFor(t, "initial output", fileIs(out, "docx:one"))
	before := len(te.conv.recorded())

	writeFile(t, dir, "b.md", "unrelated")
	time.Sleep(100 * time.Millisecond)

	if got := len(te.conv.recorded()); got != before {
		t.Errorf("conversions = %d after sibling change, want %d", got, before)
	}
}

func TestWatcher_ReportsFailureAndKeepsWatching(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	te.conv.err = errFake
	src := writeFile(t, t.TempDir(), "a.md", "a")

	_, stop := startWatcher(t, te, src)

	waitFor(t, "failure report", func() bool { return strings.Contains(te.stderr.String(), "FAILED") })

	if err := os.WriteFile(src, []byte("fixed?"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "second attempt", func() bool { return len(te.conv.recorded()) == 2 })
	stop()
}

func TestWatcher_MissingSource(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	w := &watcher{
		env:      te.Environment,
		conv:     te.conv,
		file:     FileToConvert{InputPath: filepath.Join(t.TempDir(), "gone.md")},
		params:   &conversionParams{format: formatDocx},
	}

	if err := w.run(context.Background()); !os.IsNotExist(err) {
		t.Errorf("run() = %v, want not-exist error", err)
	}
}

func TestWatchCommand_Usage(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	src := writeFile(t, t.TempDir(), "a.md", "a")

	if code := te.run("watch", src, "--debounce", "-1s"); code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
}

func TestWatchCommand_StopsOnCancel(t *testing.T) {
	t.Parallel()
	te := newTestEnv(t)
	dir := t.TempDir()
	src := writeFile(t, dir, "a.md", "a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- run(ctx, []string{"watch", src, "--debounce", "0s", "--to", "html"}, te.Environment) }()

	waitFor(t, "html output", fileIs(filepath.Join(dir, "a.html"), "html:a"))
	cancel()

	select {
	case code := <-done:
		if code != ExitSuccess {
			t.Errorf("exit = %d, want %d; stderr = %s", code, ExitSuccess, te.stderr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	if !te.conv.closed {
		t.Error("converter was not closed")
	}
}
