// Package commands implements CLI commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/rootquery/internal/adapters/telemetry"
	"github.com/satishbabariya/rootquery/internal/config"
	"github.com/satishbabariya/rootquery/internal/debug"
	"github.com/satishbabariya/rootquery/internal/service"
	"github.com/satishbabariya/rootquery/internal/ui"
	"github.com/satishbabariya/rootquery/pkg/client"
)

// App carries what every command shares.
type App struct {
	Fs      afero.Fs
	Out     io.Writer
	Err     io.Writer
	Version string
	Commit  string

	// Width fixes the output width. Zero uses the terminal width.
	Width int

	configFile string
	debug      bool
}

// NewApp returns an App on the OS file system and standard streams.
func NewApp() *App {
	return &App{
		Fs:      afero.NewOsFs(),
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: "dev",
		Commit:  "unknown",
	}
}

// NewRootCommand creates the rootquery command tree.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "rootquery",
		Short:         "Compile and run root queries",
		Long:          "rootquery compiles YAML query documents to SQL for PostgreSQL, MySQL and SQLite and runs them.",
		Version:       fmt.Sprintf("%s (commit: %s)", app.Version, app.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.debug {
				debug.InitWriter(true, app.Err)
			}
		},
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	root.PersistentFlags().StringVar(&app.configFile, "config", "", "config file (default searches .rootquery.yaml)")
	root.PersistentFlags().BoolVar(&app.debug, "debug", false, "enable debug logging")

	root.AddCommand(NewCompileCommand(app))
	root.AddCommand(NewExecCommand(app))
	root.AddCommand(NewWatchCommand(app))
	root.AddCommand(NewExplainCommand(app))
	root.AddCommand(NewInitCommand(app))
	root.AddCommand(NewVersionCommand(app))
	return root
}

func (a *App) printer() *ui.Printer {
	return ui.New(a.Out, a.Err, a.Width)
}

func (a *App) service() *service.QueryService {
	return service.NewQueryService(a.Fs)
}

func (a *App) loadConfig() (*config.Config, error) {
	var opts []config.LoaderOption
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	loader, err := config.NewLoader(a.Fs, opts...)
	if err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if a.debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		debug.InitWriter(true, a.Err)
		debug.Debug("config loaded", "file", loader.ConfigFileUsed())
	}
	return cfg, cfg.Validate()
}

// connect opens a client for cfg. url overrides the configured database.
func (a *App) connect(ctx context.Context, cfg *config.Config, url string) (*client.Client, telemetry.Telemetry, error) {
	if url != "" {
		cfg.DatabaseURL = url
		cfg.Provider = ""
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("no database configured: set database_url in %s or DATABASE_URL", config.DefaultConfigPath())
	}

	tel, err := telemetry.NewTelemetry(&telemetry.Config{Type: cfg.Telemetry})
	if err != nil {
		return nil, nil, err
	}

	opts := []client.Option{
		client.WithDatabaseURL(cfg.DatabaseURL),
		client.WithProvider(cfg.Provider),
		client.WithMaxOpenConnections(cfg.MaxOpenConns),
		client.WithMaxIdleConnections(cfg.MaxIdleConns),
		client.WithQueryTimeout(cfg.QueryTimeout),
		client.WithTelemetry(tel),
		client.WithRetry(&client.RetryConfig{
			MaxAttempts:   cfg.Retry.MaxAttempts,
			InitialDelay:  cfg.Retry.InitialBackoff,
			MaxDelay:      cfg.Retry.MaxBackoff,
			BackoffFactor: 2.0,
			Jitter:        true,
		}),
	}
	if cfg.Debug {
		opts = append(opts, client.WithLogger(debug.Logger()))
	}

	c, err := client.New(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}
	return c, tel, nil
}
