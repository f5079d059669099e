package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/rdparse/format"
	"github.com/dhamidi/rdparse/grammars"
	"github.com/dhamidi/rdparse/parse"
)

func newParseCmd() *cobra.Command {
	var grammarName string
	var outputFormat string
	var includePositions bool
	var jobs int
	var stepLimit int

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse files, or standard input, and print the tree",
		Long: `Parse each file with the selected grammar and print the resulting tree.
Without arguments the input is read from standard input.

Formats: ` + strings.Join(format.Names, ", "),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammars.Lookup(grammarName)
			if err != nil {
				return err
			}
			if _, err := format.New(outputFormat, io.Discard, includePositions); err != nil {
				return err
			}

			session := parse.NewSession(g.Schema)
			opts := []parse.Option{}
			if stepLimit > 0 {
				opts = append(opts, parse.WithStepLimit(stepLimit))
			}

			if len(args) == 0 {
				node, err := session.Parse(os.Stdin, g.Root, append(opts, parse.WithSourceName("<stdin>"))...)
				if err != nil {
					printParseError(os.Stderr, err)
					return fmt.Errorf("parse failed")
				}
				enc, _ := format.New(outputFormat, os.Stdout, includePositions)
				return enc.Encode(node)
			}

			// outputs are buffered per file and printed in argument order
			outputs := make([]bytes.Buffer, len(args))
			var mu sync.Mutex
			failed := 0

			group := new(errgroup.Group)
			group.SetLimit(jobs)
			for i, filename := range args {
				group.Go(func() error {
					f, err := os.Open(filename)
					if err != nil {
						return fmt.Errorf("open %s: %w", filename, err)
					}
					defer f.Close()

					node, err := session.Parse(f, g.Root, append(opts, parse.WithSourceName(filename))...)
					if err != nil {
						printParseError(&outputs[i], err)
						mu.Lock()
						failed++
						mu.Unlock()
						return nil
					}
					enc, _ := format.New(outputFormat, &outputs[i], includePositions)
					return enc.Encode(node)
				})
			}
			err = group.Wait()

			for i := range outputs {
				if len(args) > 1 && outputFormat != "cbor" {
					fmt.Printf("==> %s <==\n", args[i])
				}
				os.Stdout.Write(outputs[i].Bytes())
			}
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "grammar to parse with (see 'rdp grammars')")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format")
	cmd.Flags().BoolVarP(&includePositions, "positions", "p", false, "include source positions in tree output")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of files parsed concurrently")
	cmd.Flags().IntVar(&stepLimit, "max-steps", 0, "abort a parse after this many steps (0 for no limit)")
	cmd.MarkFlagRequired("grammar")

	return cmd
}

func printParseError(w io.Writer, err error) {
	if perr, ok := err.(*parse.Error); ok {
		fmt.Fprintln(w, perr.Detail())
		return
	}
	fmt.Fprintln(w, err)
}
