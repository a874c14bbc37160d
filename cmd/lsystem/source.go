package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	lsystem "github.com/hananel42/L-system-studio"
	"github.com/hananel42/L-system-studio/interchange"
	"github.com/hananel42/L-system-studio/interchange/lshcl"
	"github.com/hananel42/L-system-studio/interchange/lsif"
	"github.com/hananel42/L-system-studio/internal/ctxlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const stdinName = "-"

// source describes where grammars come from and how the command line
// overrides them.
type source struct {
	input      string
	iterations int
	seed       int64
	maxLength  int

	seedSet bool
}

func (s *source) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.input, "input-format", "auto", "Grammar format: auto, yaml or hcl")
	cmd.Flags().IntVarP(&s.iterations, "iterations", "n", -1, "Generations to expand, overriding the grammar file")
	cmd.Flags().Int64Var(&s.seed, "seed", 0, "Seed for a reproducible run, overriding the grammar file")
	cmd.Flags().IntVar(&s.maxLength, "max-length", 0, "Sequence length ceiling (0 keeps the grammar or built-in limit)")
}

// bind records which optional flags were given. It runs before the command
// body.
func (s *source) bind(cmd *cobra.Command) {
	s.seedSet = cmd.Flags().Changed("seed")
}

// apply returns g with the command line overrides and the options to build
// its system with.
func (s *source) apply(g lsystem.Grammar) (lsystem.Grammar, []lsystem.Option) {
	if s.iterations >= 0 {
		g.Iterations = s.iterations
	}
	var opts []lsystem.Option
	if s.seedSet {
		opts = append(opts, lsystem.WithSeed(s.seed))
	}
	if s.maxLength > 0 {
		opts = append(opts, lsystem.WithMaxLength(s.maxLength))
	}
	return g, opts
}

// format resolves the input format of name.
func (s *source) format(name string) (string, error) {
	switch s.input {
	case "yaml", "hcl":
		return s.input, nil
	case "auto", "":
	default:
		return "", errors.Errorf("unknown input format %q", s.input)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".hcl":
		return "hcl", nil
	default:
		return "yaml", nil
	}
}

// each imports every grammar of the named file, or of stdin for "-", and
// hands them to yield in order.
func (s *source) each(ctx context.Context, name string, stdin io.Reader, yield func(lsystem.Grammar) error) error {
	logger := ctxlog.FromContext(ctx)

	format, err := s.format(name)
	if err != nil {
		return err
	}

	r := stdin
	if name != stdinName {
		f, err := openFile(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	if format == "hcl" {
		src, err := io.ReadAll(r)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", name)
		}
		f, err := lshcl.Parse(src, name)
		if err != nil {
			return err
		}
		g, err := importFormat(f, name, 0)
		if err != nil {
			return err
		}
		logger.Debug("Grammar imported.", "file", name, "format", format, "rules", len(g.Rules))
		return yield(g)
	}

	dec := lsif.NewDecoder(r)
	for doc := 0; ; doc++ {
		f, err := dec.Decode()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "Error while decoding lsif document %d of %s", doc, name)
		}
		g, err := importFormat(f, name, doc)
		if err != nil {
			return err
		}
		logger.Debug("Grammar imported.", "file", name, "format", format, "document", doc, "rules", len(g.Rules))
		if err := yield(g); err != nil {
			return err
		}
	}
}

func importFormat(f interchange.Format, name string, doc int) (lsystem.Grammar, error) {
	g, err := f.Import()
	if err != nil {
		return lsystem.Grammar{}, errors.Wrapf(err, "Error while importing document %d of %s", doc, name)
	}
	return g, nil
}

func inputName(args []string) string {
	if len(args) == 0 {
		return stdinName
	}
	return args[0]
}

func openFile(name string) (*os.File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open input")
	}
	return f, nil
}
