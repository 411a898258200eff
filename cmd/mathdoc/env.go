package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	mathdoc "github.com/alnah/go-mathdoc"
	"github.com/alnah/go-mathdoc/internal/config"
)

// Environment holds injectable dependencies for testability.
// Config and Logger are filled in by the root command before any
// subcommand runs.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// NewConverter builds the single converter used by watch and elements.
	NewConverter func(opts ...mathdoc.Option) (CLIConverter, error)
	// NewPool builds the converter pool used by batch conversion.
	NewPool func(size int, opts ...mathdoc.Option) Pool

	Config *config.Config
	Logger *slog.Logger
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Getenv:       os.Getenv,
		Environ:      os.Environ,
		NewConverter: newConverter,
		NewPool:      newConverterPool,
		Config:       config.DefaultConfig(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
