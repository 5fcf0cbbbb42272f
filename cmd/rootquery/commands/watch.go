package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/rootquery/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(app *App) *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Recompile a query document whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := app.printer()
			compile := func(ctx context.Context, path string) error {
				doc, err := loadDocument(app, path, dialect)
				if err != nil {
					return err
				}
				stmt, err := app.service().Compile(doc)
				if err != nil {
					return err
				}
				p.Statement(stmt)
				return nil
			}

			w, err := watch.New(args[0], compile, watch.WithErrorHandler(func(err error) {
				p.Error("%v", err)
			}))
			if err != nil {
				return err
			}
			p.Info("watching %s (ctrl+c to stop)", w.File())
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "compile for this dialect instead of the document's")
	return cmd
}
