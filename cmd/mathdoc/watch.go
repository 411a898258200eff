package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	mathdoc "github.com/alnah/go-mathdoc"
	"github.com/alnah/go-mathdoc/internal/hints"
)

// defaultWatchDebounce is the quiet period after the last change event.
const defaultWatchDebounce = 200 * time.Millisecond

// watchFlags holds flags for the watch command.
type watchFlags struct {
	convert  convertFlags
	debounce time.Duration
}

// newWatchCmd builds the command that reconverts a file on every change.
func (a *app) newWatchCmd() *cobra.Command {
	var f watchFlags

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Reconvert a file whenever it changes",
		Long: `Watch converts FILE, then converts it again each time it is saved.
A change during a running conversion cancels it; only the newest result is
written. Stop with Ctrl+C.

Examples:
  mathdoc watch notes.md --to html
  mathdoc watch notes.md -o build/notes.pdf --debounce 1s`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd.Context(), cmd.Flags(), &f, args[0])
		},
	}

	addConvertFlags(cmd.Flags(), &f.convert)
	cmd.Flags().DurationVar(&f.debounce, "debounce", defaultWatchDebounce, "quiet period after a change before converting")
	return cmd
}

// runWatch prepares one converter and hands it to a watcher.
func (a *app) runWatch(ctx context.Context, fs *flag.FlagSet, f *watchFlags, path string) error {
	env := a.env
	if f.debounce < 0 {
		return fmt.Errorf("%w: --debounce must not be negative", ErrUsage)
	}

	cfg := mergeFlags(fs, &f.convert, env.Config)
	params, err := buildParams(cfg, &f.convert, env.Now())
	if err != nil {
		return err
	}

	output := f.convert.output.output
	if output == "" {
		output = cfg.Output.DefaultDir
	}
	if err := validateOutputExtension(output, params.format); err != nil {
		return err
	}

	files, err := discoverFiles([]string{path}, output, params.format, params.inputType)
	if err != nil {
		return err
	}

	opts, err := converterOptions(cfg, env.Logger)
	if err != nil {
		return err
	}
	conv, err := env.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := conv.Close(); err != nil {
			env.Logger.Warn("closing converter", "error", err)
		}
	}()

	w := &watcher{
		env:      env,
		conv:     conv,
		file:     files[0],
		params:   params,
		debounce: f.debounce,
		quiet:    a.common.quiet,
	}
	return w.run(ctx)
}

// watchRun is one in-flight conversion.
type watchRun struct {
	cancel context.CancelFunc
	done   chan struct{}
	result chan watchResult // buffered, receives exactly once
}

// watchResult is the outcome of a watchRun.
type watchResult struct {
	res      *mathdoc.Result
	err      error
	duration time.Duration
}

// watcher follows one source file and reconverts it on change.
// Only one conversion runs at a time; a newer change cancels the older run
// and waits for it before starting.
type watcher struct {
	env      *Environment
	conv     CLIConverter
	file     FileToConvert
	params   *conversionParams
	debounce time.Duration
	quiet    bool
}

// run blocks until ctx is done. Conversion failures are reported and
// watching continues; only a missing source at startup is fatal.
//
// The parent directory is watched rather than the file so that editors
// which save by renaming a new file over the old one keep being followed.
func (w *watcher) run(ctx context.Context) error {
	if _, err := os.Stat(w.file.InputPath); err != nil {
		return err
	}
	target, err := filepath.Abs(w.file.InputPath)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	if !w.quiet {
		fmt.Fprintf(w.env.Stdout, "Watching %s (Ctrl+C to stop)\n", w.file.InputPath)
	}

	cur := w.start(ctx)

	settle := time.NewTimer(w.debounce)
	settle.Stop()
	defer settle.Stop()
	var settled <-chan time.Time

	for {
		var results <-chan watchResult
		if cur != nil {
			results = cur.result
		}

		select {
		case <-ctx.Done():
			if cur != nil {
				cur.cancel()
				<-cur.done
			}
			return nil

		case r := <-results:
			cur.cancel()
			cur = nil
			w.report(r)

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			settle.Reset(w.debounce)
			settled = settle.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.env.Logger.Warn("file watcher error", "path", w.file.InputPath, "error", err)

		case <-settled:
			settled = nil
			if cur != nil {
				cur.cancel()
				<-cur.done
				select {
				case r := <-cur.result:
					w.env.Logger.Debug("dropping superseded result", "path", w.file.InputPath, "error", r.err)
				default:
				}
			}
			cur = w.start(ctx)
		}
	}
}

// start launches a conversion of the current file content.
func (w *watcher) start(ctx context.Context) *watchRun {
	runCtx, cancel := context.WithCancel(ctx)
	r := &watchRun{
		cancel: cancel,
		done:   make(chan struct{}),
		result: make(chan watchResult, 1),
	}

	w.env.Logger.Debug("converting", "path", w.file.InputPath)
	go func() {
		defer close(r.done)
		start := time.Now()
		res, err := convertSource(runCtx, w.conv, w.file, w.params)
		r.result <- watchResult{res: res, err: err, duration: time.Since(start)}
	}()
	return r
}

// report writes a finished result and prints its outcome.
func (w *watcher) report(r watchResult) {
	if r.err != nil {
		fmt.Fprintf(w.env.Stderr, "FAILED %s: %v%s\n", w.file.InputPath, r.err, hintFor(r.err))
		return
	}

	htmlPath, err := writeOutputs(w.file, r.res, w.params)
	if err != nil {
		fmt.Fprintf(w.env.Stderr, "FAILED %s: %v\n", w.file.InputPath, err)
		return
	}

	if w.quiet {
		return
	}
	fmt.Fprintf(w.env.Stdout, "[%s] Updated %s (%v)\n", w.env.Now().Format(time.TimeOnly), w.file.OutputPath, r.duration.Round(time.Millisecond))
	if htmlPath != "" {
		fmt.Fprintf(w.env.Stdout, "[%s] Updated %s\n", w.env.Now().Format(time.TimeOnly), htmlPath)
	}
	if r.res.Warnings > 0 {
		fmt.Fprintf(w.env.Stderr, "warning: %s: %d formula(s) or element(s) kept as text%s\n", w.file.InputPath, r.res.Warnings, hints.ForFormulaSyntax())
	}
}
