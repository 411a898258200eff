package main

import (
	"context"
	"fmt"

	mathdoc "github.com/alnah/go-mathdoc"
)

// CLIConverter is the conversion surface the CLI drives.
type CLIConverter interface {
	ToDocx(ctx context.Context, in mathdoc.Input) (*mathdoc.Result, error)
	ToHTML(ctx context.Context, in mathdoc.Input) (*mathdoc.Result, error)
	ToPDF(ctx context.Context, in mathdoc.Input) (*mathdoc.Result, error)
	Elements(ctx context.Context, in mathdoc.Input) ([]byte, error)
	Preview(ctx context.Context, in mathdoc.Input) (string, error)
	Close() error
}

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// Compile-time interface implementation checks.
var (
	_ CLIConverter = (*mathdoc.Converter)(nil)
	_ Pool         = (*converterPool)(nil)
)

// converterPool adapts mathdoc.ConverterPool to Pool.
type converterPool struct {
	pool *mathdoc.ConverterPool
}

// newConverterPool creates the production pool.
func newConverterPool(size int, opts ...mathdoc.Option) Pool {
	return &converterPool{pool: mathdoc.NewConverterPool(size, opts...)}
}

// Acquire gets a converter, creating one if capacity remains.
func (p *converterPool) Acquire() (CLIConverter, error) {
	conv, err := p.pool.Acquire()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConverterInit, err)
	}
	return conv, nil
}

// Release returns a converter acquired from this pool.
func (p *converterPool) Release(c CLIConverter) {
	if conv, ok := c.(*mathdoc.Converter); ok {
		p.pool.Release(conv)
	}
}

// Size returns the pool capacity.
func (p *converterPool) Size() int {
	return p.pool.Size()
}

// Close releases every converter the pool created.
func (p *converterPool) Close() error {
	return p.pool.Close()
}

// newConverter creates the production single converter.
func newConverter(opts ...mathdoc.Option) (CLIConverter, error) {
	conv, err := mathdoc.NewConverter(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConverterInit, err)
	}
	return conv, nil
}
