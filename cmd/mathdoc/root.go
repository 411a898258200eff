package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-mathdoc/internal/config"
)

// app carries the state shared by every command of one invocation.
type app struct {
	env    *Environment
	common commonFlags
	envCfg *envConfig
}

// errReported marks an error whose details were already printed.
// run only maps it to an exit code.
type errReported struct{ err error }

func (e errReported) Error() string { return e.err.Error() }
func (e errReported) Unwrap() error { return e.err }

// newRootCmd builds the command tree for env.
func newRootCmd(env *Environment) *cobra.Command {
	a := &app{env: env}

	root := &cobra.Command{
		Use:   "mathdoc",
		Short: "mathdoc converts documents with TeX formulas to docx, HTML and PDF",
		Long: `mathdoc reads Markdown, LaTeX-flavoured text, plain text or HTML that mixes
prose with formulas, normalizes the formulas, and writes a word-processing
document with native equations, a standalone HTML page, or a PDF.

Formulas are recognised in $...$, \(...\), $$...$$ and \[...\] delimiters.

Usage:
  mathdoc convert notes.md
  mathdoc convert ./lectures -o ./out --to pdf
  mathdoc watch notes.md --to html
  mathdoc elements notes.md`,
		Version:           Version,
		Args:              usageArgs(cobra.NoArgs),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	addCommonFlags(root.PersistentFlags(), &a.common)

	root.AddCommand(
		a.newConvertCmd(),
		a.newWatchCmd(),
		a.newElementsCmd(),
		a.newDoctorCmd(),
		a.newConfigCmd(),
		newVersionCmd(env),
	)
	return root
}

// setup loads the effective configuration before any command runs:
// defaults, then the config file, then MATHDOC_* variables. Command flags
// are merged later by each command.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	env := a.env
	warnUnknownEnvVars(env.Stderr, env.Environ())
	a.envCfg = loadEnvConfig(env.Getenv)

	cfg := config.DefaultConfig()
	name := a.common.config
	if name == "" {
		name = a.envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyEnvConfig(a.envCfg, cfg)
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.common.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	env.Config = cfg
	env.Logger = newLogger(env.Stderr, cfg.Log, a.common.verbose, a.common.quiet)
	env.Logger.Debug("configuration loaded", "config", name, "format", cfg.Output.Format, "engine", cfg.Renderer.Engine)
	return nil
}

// usageArgs wraps a cobra argument validator so its errors exit with the
// usage code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return nil
	}
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(env.Stderr, "error: internal error: %v\n", r)
			code = ExitGeneral
		}
	}()

	root := newRootCmd(env)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var reported errReported
	if !errors.As(err, &reported) {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// newVersionCmd prints the build version.
func newVersionCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mathdoc version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintf(env.Stdout, "mathdoc %s\n", Version)
			return nil
		},
	}
}
