package generator

import (
	"bytes"
	"context"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunOptions configures Run.
type RunOptions struct {
	// Parallelism caps how many generators run at once. Values below one
	// mean one at a time.
	Parallelism int

	// Diagnostics receives validation messages, grouped per target in the
	// order targets were given.
	Diagnostics io.Writer

	Logger *zap.Logger
}

// Run builds a Generator for every target and calls GenerateFile on each.
// Targets share nothing but the project directory, so they run concurrently.
// The first load, render or write failure cancels targets that have not
// started yet and is returned; results of targets that finished are kept.
func Run(ctx context.Context, projectPath string, targets []Target, opts RunOptions) ([]Result, error) {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	results := make([]Result, len(targets))
	diags := make([]bytes.Buffer, len(targets))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Parallelism)
	for i, t := range targets {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			g, err := New(projectPath, t,
				WithLogger(opts.Logger),
				WithDiagnostics(&diags[i]),
			)
			if err != nil {
				return err
			}
			res, err := g.GenerateFile()
			results[i] = res
			return err
		})
	}
	err := eg.Wait()

	if opts.Diagnostics != nil {
		for i := range diags {
			if _, werr := diags[i].WriteTo(opts.Diagnostics); werr != nil && err == nil {
				err = werr
			}
		}
	}
	return results, err
}
