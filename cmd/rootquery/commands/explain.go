package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExplainCommand creates the explain command.
func NewExplainCommand(app *App) *cobra.Command {
	var (
		dialect string
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "explain <file>",
		Short: "Describe a query document and its SQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(app, args[0], dialect)
			if err != nil {
				return err
			}
			report, err := app.service().Explain(doc)
			if err != nil {
				return err
			}
			if raw {
				fmt.Fprint(app.Out, report)
				return nil
			}
			return app.printer().Markdown(report)
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "compile for this dialect instead of the document's")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the report as Markdown source")
	return cmd
}
