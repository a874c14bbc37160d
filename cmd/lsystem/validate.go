package main

import (
	"fmt"
	"io"

	lsystem "github.com/hananel42/L-system-studio"
	"github.com/hananel42/L-system-studio/interchange/rules"
	"github.com/hananel42/L-system-studio/internal/ctxlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var (
		src       source
		rulesOnly bool
	)

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check grammars and list their symbols and rules",
		Long: `Imports every grammar of the file without expanding it and lists the parsed
symbols and rules. With --rules the input is bare rule text, one rule per
line, checked against the built-in symbol set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src.bind(cmd)
			if rulesOnly {
				return runValidateRules(cmd, inputName(args))
			}
			return runValidate(cmd, &src, inputName(args))
		},
	}
	src.addFlags(cmd)
	cmd.Flags().BoolVar(&rulesOnly, "rules", false, "Treat the input as rule text")
	return cmd
}

func runValidate(cmd *cobra.Command, src *source, name string) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)
	w := cmd.OutOrStdout()

	doc := 0
	err := src.each(ctx, name, cmd.InOrStdin(), func(g lsystem.Grammar) error {
		g, _ = src.apply(g)
		fmt.Fprintf(w, "grammar %d: axiom %s, %d iterations\n", doc, g.Axiom, g.Iterations)
		for _, key := range g.Registry.Names() {
			t, err := g.Registry.Lookup(key)
			if err != nil {
				return err
			}
			action := t.Action()
			fmt.Fprintf(w, "  symbol %c(%s): %s\n", key, t.Defaults(), action.Text())
			for _, clause := range action.Skipped() {
				logger.Warn("Action clause ignored.", "symbol", string(key), "clause", clause)
			}
		}
		for _, r := range g.Rules {
			fmt.Fprintf(w, "  rule %s\n", r)
		}
		doc++
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d grammar(s) valid\n", doc)
	return nil
}

func runValidateRules(cmd *cobra.Command, name string) error {
	text, err := readInput(cmd, name)
	if err != nil {
		return err
	}
	defs, err := rules.Parse(text)
	if err != nil {
		return err
	}
	if _, err := rules.Compile(lsystem.DefaultRegistry(), defs); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Parsed rules:")
	for _, d := range defs {
		fmt.Fprintln(w, d)
	}
	return nil
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	r := cmd.InOrStdin()
	if name != stdinName {
		f, err := openFile(name)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", name)
	}
	return string(b), nil
}
