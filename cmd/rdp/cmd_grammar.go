package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/dhamidi/rdparse/grammars"
	"github.com/dhamidi/rdparse/schema"
)

func newGrammarCmd() *cobra.Command {
	var verifyOnly bool

	cmd := &cobra.Command{
		Use:           "grammar <name>",
		Short:         "Print a grammar as EBNF and verify it",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammars.Lookup(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}

			if !verifyOnly {
				start := schema.ProductionName(g.Root)
				if err := schema.WriteEBNF(os.Stdout, schema.EBNF(g.Schema, g.Root), start); err != nil {
					return err
				}
			}

			if err := schema.Verify(g.Schema, g.Root); err != nil {
				printErrors(err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verifyOnly, "check", false, "only verify, do not print the grammar")

	return cmd
}

func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(os.Stderr, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}
