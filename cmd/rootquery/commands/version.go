package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/rootquery/internal/adapters/database/sqlite"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(app.Out, "rootquery version %s\n", app.Version)
			fmt.Fprintf(app.Out, "  Git Commit: %s\n", app.Commit)
			fmt.Fprintf(app.Out, "  Go Version: %s\n", runtime.Version())
			fmt.Fprintf(app.Out, "  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(app.Out, "  SQLite: %s\n", sqlite.New().Version())
		},
	}
}
