package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/metaphox/kaleido/internal/config"
	"github.com/metaphox/kaleido/parser"
)

// options is shared by every subcommand. cfg and logger are filled in by the
// root command's PersistentPreRunE.
type options struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "kaleido",
		Short: "Tokenise and parse Kaleido source",
		Long: `kaleido runs the Kaleido front end over source files and prints the result.

Commands:
  tokens  - print the token stream
  dump    - print the syntax tree (canonical dump or YAML)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newTokensCmd(opts), newDumpCmd(opts))
	return root
}

// Execute runs the command line in os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (o *options) load(logOut io.Writer) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if o.verbose {
		level = slog.LevelDebug
	}
	o.cfg = cfg
	o.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	o.logger.Debug("configuration loaded", "file", o.cfgFile, "format", cfg.Format, "program", cfg.Program)
	return nil
}

func (o *options) newParser() *parser.Parser {
	return parser.New(parser.WithLogger(o.logger))
}

// source is one named input text.
type source struct {
	name string
	text string
}

// readSources resolves the inputs of a command: the -e expression if given,
// otherwise the named files, otherwise standard input.
func readSources(in io.Reader, expr string, files []string) ([]source, error) {
	if expr != "" {
		if len(files) > 0 {
			return nil, fmt.Errorf("-e cannot be combined with file arguments")
		}
		return []source{{name: "<expr>", text: expr}}, nil
	}
	if len(files) == 0 {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []source{{name: "<stdin>", text: string(data)}}, nil
	}
	srcs := make([]source, 0, len(files))
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, source{name: name, text: string(data)})
	}
	return srcs, nil
}
