package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	mathdoc "github.com/alnah/go-mathdoc"
)

// newConvertCmd builds the batch conversion command.
func (a *app) newConvertCmd() *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert [FILE|DIR ...]",
		Short: "Convert files or directories to docx, HTML or PDF",
		Long: `Convert reads each file, or every .md, .markdown, .tex, .latex, .txt, .html
and .htm file under each directory, and writes one output per source.

The file extension decides how a source is read; --type applies to files
with any other extension. Without arguments, input.defaultDir from the
config is converted.

Examples:
  mathdoc convert notes.md
  mathdoc convert notes.md -o notes.pdf
  mathdoc convert ./lectures -o ./out --to html --style academic
  mathdoc convert exam.tex --to pdf --engine basic --footer-page-number`,
		Args: usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd.Context(), cmd.Flags(), &f, args)
		},
	}

	addConvertFlags(cmd.Flags(), &f)
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	return cmd
}

// runConvert discovers the sources, converts them in parallel and reports.
func (a *app) runConvert(ctx context.Context, fs *flag.FlagSet, f *convertFlags, args []string) error {
	env := a.env
	cfg := mergeFlags(fs, f, env.Config)

	// An explicit output file names its format unless --to says otherwise
	if !fs.Changed("to") && f.output.output != "" {
		if format, ok := outputExts[strings.ToLower(filepath.Ext(f.output.output))]; ok {
			cfg.Output.Format = format
		}
	}

	inputs := args
	if len(inputs) == 0 {
		if cfg.Input.DefaultDir == "" {
			return ErrNoInput
		}
		inputs = []string{cfg.Input.DefaultDir}
	}

	params, err := buildParams(cfg, f, env.Now())
	if err != nil {
		return err
	}

	output := f.output.output
	if output == "" {
		output = cfg.Output.DefaultDir
	}
	if err := validateOutputExtension(output, params.format); err != nil {
		return err
	}

	workers := f.workers
	if !fs.Changed("workers") && a.envCfg != nil {
		workers = a.envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	files, err := discoverFiles(inputs, output, params.format, params.inputType)
	if err != nil {
		return err
	}

	opts, err := converterOptions(cfg, env.Logger)
	if err != nil {
		return err
	}

	size := mathdoc.ResolvePoolSize(workers)
	env.Logger.Debug("starting conversion", "files", len(files), "workers", size, "format", params.format)

	pool := env.NewPool(size, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			env.Logger.Warn("closing converters", "error", err)
		}
	}()

	results := convertBatch(ctx, pool, files, params)
	return printResults(results, a.common.quiet, a.common.verbose, env)
}
