package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/rdparse/grammars"
	"github.com/dhamidi/rdparse/watch"
)

func newWatchCmd() *cobra.Command {
	var grammarName string
	var quiet bool

	cmd := &cobra.Command{
		Use:          "watch <file>...",
		Short:        "Parse files again whenever they change",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammars.Lookup(grammarName)
			if err != nil {
				return err
			}

			w, err := watch.New(g)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Close()

			report := func(r watch.Result) {
				switch {
				case r.Removed:
					fmt.Printf("%s: removed\n", r.Path)
				case r.Err != nil:
					printParseError(os.Stdout, r.Err)
				case quiet:
					fmt.Printf("%s: ok (%s)\n", r.Path, r.Duration)
				default:
					fmt.Printf("%s: ok (%s)\n%s", r.Path, r.Duration, r.Node)
				}
			}

			for _, path := range args {
				if err := w.Add(path); err != nil {
					return fmt.Errorf("watch %s: %w", path, err)
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := w.Run(ctx, report); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "grammar to parse with")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only report success, not the tree")
	cmd.MarkFlagRequired("grammar")

	return cmd
}
