package main

import (
	"fmt"
	"io"

	lsystem "github.com/hananel42/L-system-studio"
	"github.com/hananel42/L-system-studio/internal/ctxlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newExpandCmd() *cobra.Command {
	var (
		src     source
		workers int
	)

	cmd := &cobra.Command{
		Use:   "expand [file]",
		Short: "Expand every grammar of a file and print the resulting sequences",
		Long: `Reads a grammar file, or a stream of YAML documents from stdin, and prints
one line per grammar holding the expanded sequence. When a grammar outgrows
the length ceiling its last complete generation is printed and a warning
logged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src.bind(cmd)
			return runExpand(cmd, &src, inputName(args), workers)
		},
	}
	src.addFlags(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Grammars expanded concurrently")
	return cmd
}

func runExpand(cmd *cobra.Command, src *source, name string, workers int) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)
	w := cmd.OutOrStdout()

	in, out := buildPipeline(ctx, workers)

	// Signal that the pipeline is empty
	done := make(chan error, 1)
	go func() {
		done <- drain(w, out, logger.Warn)
	}()

	err := src.each(ctx, name, cmd.InOrStdin(), func(g lsystem.Grammar) error {
		g, opts := src.apply(g)
		in <- &order{grammar: g, opts: opts}
		return nil
	})
	close(in)

	if drainErr := <-done; err == nil {
		err = drainErr
	}
	return err
}

// drain prints every finished order. It keeps reading after a failure so
// the workers can finish, and reports the first failure.
func drain(w io.Writer, out <-chan *order, warn func(string, ...any)) error {
	var first error
	for o := range out {
		var tooLarge *lsystem.TooLargeError
		switch {
		case o.err == nil:
		case errors.As(o.err, &tooLarge):
			warn("Expansion stopped early.", "sequence", o.seq, "tier", o.tier, "limit", tooLarge.Limit)
		default:
			if first == nil {
				first = errors.Wrapf(o.err, "grammar %d", o.seq)
			}
			continue
		}
		if first != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\n", o.result); err != nil {
			first = errors.Wrap(err, "failed to write output")
		}
	}
	return first
}
