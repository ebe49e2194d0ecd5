package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/metaphox/kaleido/ast"
	"github.com/metaphox/kaleido/render"
)

type dumpFlags struct {
	expr   string
	format string
	first  bool
	watch  bool
}

func newDumpCmd(opts *options) *cobra.Command {
	var f dumpFlags
	cmd := &cobra.Command{
		Use:   "dump [file...]",
		Short: "Parse each input and print its syntax tree",
		Long: `dump parses each input and prints the tree of every top-level construct.

Files are parsed concurrently and printed in argument order. With --first only
the first construct of each input is parsed and the rest is ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, opts, f, args)
		},
	}
	cmd.Flags().StringVarP(&f.expr, "expr", "e", "", "parse this text instead of files")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: dump or yaml (default from config)")
	cmd.Flags().BoolVar(&f.first, "first", false, "parse only the first top-level construct")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "re-print files whenever they change")
	return cmd
}

func runDump(cmd *cobra.Command, opts *options, f dumpFlags, args []string) error {
	name := f.format
	if name == "" {
		name = opts.cfg.Format
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return err
	}
	program := opts.cfg.Program && !f.first

	if f.watch {
		if f.expr != "" || len(args) == 0 {
			return fmt.Errorf("--watch needs file arguments")
		}
		return watchFiles(cmd.Context(), opts, args, func(out io.Writer, srcs []source) error {
			return dumpSources(cmd.Context(), opts, out, format, program, srcs)
		}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	srcs, err := readSources(cmd.InOrStdin(), f.expr, args)
	if err != nil {
		return err
	}
	return dumpSources(cmd.Context(), opts, cmd.OutOrStdout(), format, program, srcs)
}

// dumpSources parses srcs concurrently and renders them in order. Nothing is
// written if any source fails to parse.
func dumpSources(ctx context.Context, opts *options, out io.Writer, format render.Format, program bool, srcs []source) error {
	results, err := parseSources(ctx, opts, program, srcs)
	if err != nil {
		return err
	}
	for i, tops := range results {
		if len(srcs) > 1 {
			fmt.Fprintf(out, "==> %s <==\n", srcs[i].name)
		}
		if err := render.Trees(out, format, tops...); err != nil {
			return err
		}
	}
	return nil
}

func parseSources(ctx context.Context, opts *options, program bool, srcs []source) ([][]ast.TopLevel, error) {
	results := make([][]ast.TopLevel, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, src := range srcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := opts.newParser()
			if program {
				tops, err := p.ParseProgram(src.text)
				if err != nil {
					return fmt.Errorf("%s: %w", src.name, err)
				}
				results[i] = tops
				return nil
			}
			top, err := p.ParseTopLevel(src.text)
			if err != nil {
				return fmt.Errorf("%s: %w", src.name, err)
			}
			results[i] = []ast.TopLevel{top}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
