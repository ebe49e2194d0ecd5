package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metaphox/kaleido/lexer"
	"github.com/metaphox/kaleido/render"
)

func newTokensCmd(opts *options) *cobra.Command {
	var expr string
	cmd := &cobra.Command{
		Use:   "tokens [file...]",
		Short: "Print the token stream of each input",
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs, err := readSources(cmd.InOrStdin(), expr, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, src := range srcs {
				if len(srcs) > 1 {
					fmt.Fprintf(out, "==> %s <==\n", src.name)
				}
				if err := render.Tokens(out, lexer.New(src.text).Tokens()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&expr, "expr", "e", "", "tokenise this text instead of files")
	return cmd
}
