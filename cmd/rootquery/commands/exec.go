package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/rootquery/internal/adapters/telemetry"
)

// NewExecCommand creates the exec command.
func NewExecCommand(app *App) *cobra.Command {
	var (
		url  string
		show bool
	)

	cmd := &cobra.Command{
		Use:   "exec <file>",
		Short: "Run a query document against the database",
		Long:  "Compile a YAML query document for the configured database, run it and print the rows.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			doc, err := app.service().Load(args[0])
			if err != nil {
				return err
			}

			c, tel, err := app.connect(ctx, cfg, url)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			stmt, rows, err := app.service().Execute(ctx, c, doc)
			if err != nil {
				return err
			}

			p := app.printer()
			if show {
				p.Statement(stmt)
			}
			if err := p.Rows(rows); err != nil {
				return err
			}
			if mem, ok := tel.(*telemetry.MemoryTelemetry); ok {
				t := mem.Totals()
				p.Info("%d query, %d rows in %s", t.Queries, t.Rows, t.TotalDuration)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "database url (overrides configuration)")
	cmd.Flags().BoolVar(&show, "show-sql", false, "print the statement before the rows")
	return cmd
}
