package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dhamidi/rdparse/grammars"
)

func newGrammarsCmd() *cobra.Command {
	var showExamples bool

	cmd := &cobra.Command{
		Use:   "grammars",
		Short: "List the built-in grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, g := range grammars.All() {
				if showExamples {
					fmt.Fprintf(w, "%s\t%s\t%q\n", g.Name, g.Description, g.Example)
				} else {
					fmt.Fprintf(w, "%s\t%s\n", g.Name, g.Description)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&showExamples, "examples", "e", false, "show an example input for each grammar")

	return cmd
}
