package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/rootquery/internal/service"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand(app *App) *cobra.Command {
	var (
		dialect string
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a query document to SQL",
		Long:  "Compile a YAML query document and print the SQL statement and its parameters.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(app, args[0], dialect)
			if err != nil {
				return err
			}
			stmt, err := app.service().Compile(doc)
			if err != nil {
				return err
			}

			if plain {
				fmt.Fprintln(app.Out, stmt.SQL)
				for i, p := range stmt.Params {
					fmt.Fprintf(app.Out, "-- $%d = %v\n", i+1, p)
				}
				return nil
			}
			app.printer().Statement(stmt)
			return nil
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "compile for this dialect instead of the document's")
	cmd.Flags().BoolVar(&plain, "plain", false, "print unstyled SQL")
	return cmd
}

func loadDocument(app *App, path, dialect string) (*service.Document, error) {
	doc, err := app.service().Load(path)
	if err != nil {
		return nil, err
	}
	if dialect != "" {
		doc.Dialect = dialect
	}
	return doc, nil
}
