package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/rdparse/grammars"
	"github.com/dhamidi/rdparse/lsp"
)

func newLSPCmd() *cobra.Command {
	var grammarName string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a Language Server Protocol server reporting parse errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammars.Lookup(grammarName)
			if err != nil {
				return err
			}
			server := lsp.NewServer(g, version)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "grammar documents are parsed with")
	cmd.MarkFlagRequired("grammar")

	return cmd
}
