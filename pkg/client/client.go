// Package client provides the public rootquery API: a client bound to one
// database and immutable root queries built from it.
package client

import (
	"context"
	"sync"

	"github.com/satishbabariya/rootquery/internal/adapters/database"
	"github.com/satishbabariya/rootquery/internal/adapters/telemetry"
	"github.com/satishbabariya/rootquery/internal/core/database/pool"
	"github.com/satishbabariya/rootquery/internal/core/query/compiler"
	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

// Client compiles and runs root queries against one client capability.
type Client struct {
	capability domain.ClientCapability
	compiler   domain.QueryCompiler
	config     *Config
	db         *database.Client

	mu         sync.RWMutex
	middleware []MiddlewareFunc
}

// New connects to the database named by the options.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	ApplyOptions(cfg, opts...)

	tel := cfg.Telemetry
	if tel == nil {
		tel = telemetry.NewNoopTelemetry()
	}

	dbCfg := database.DefaultConfig(cfg.DatabaseURL)
	dbCfg.Provider = cfg.Provider
	dbCfg.Pool = pool.Config{
		MaxOpenConns:        cfg.MaxOpenConnections,
		MaxIdleConns:        cfg.MaxIdleConnections,
		ConnMaxLifetime:     cfg.ConnMaxLifetime,
		ConnMaxIdleTime:     cfg.ConnMaxIdleTime,
		HealthCheckInterval: pool.DefaultConfig().HealthCheckInterval,
	}

	db, err := database.NewClient(dbCfg, database.WithTelemetry(tel))
	if err != nil {
		return nil, err
	}
	if err := Retry(ctx, cfg.Retry, db.Connect); err != nil {
		return nil, err
	}

	c := newClient(db, cfg)
	c.db = db
	return c, nil
}

// NewWithCapability creates a client over an existing capability. Close
// does not release the capability.
func NewWithCapability(capability domain.ClientCapability, opts ...Option) *Client {
	cfg := DefaultConfig()
	ApplyOptions(cfg, opts...)
	return newClient(capability, cfg)
}

func newClient(capability domain.ClientCapability, cfg *Config) *Client {
	c := &Client{
		capability: capability,
		compiler:   compiler.NewSQLCompiler(),
		config:     cfg,
	}
	if cfg.LogQueries && cfg.Logger != nil {
		c.Use(LogMiddleware(cfg.Logger))
	}
	if cfg.QueryTimeout > 0 {
		c.Use(TimeoutMiddleware(cfg.QueryTimeout))
	}
	return c
}

// Use adds middleware to the client's middleware chain.
func (c *Client) Use(mw MiddlewareFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middleware = append(c.middleware, mw)
}

// Capability returns the client capability queries run against.
func (c *Client) Capability() domain.ClientCapability {
	return c.capability
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return *c.config
}

// From starts a root query on table.
func (c *Client) From(table string) *RootQuery {
	return &RootQuery{client: c, query: domain.NewQuery(table)}
}

// Raw runs a statement as-is and collects its rows.
func (c *Client) Raw(ctx context.Context, sql string, params ...Value) ([]Row, error) {
	return collect(c.capability.Execute(ctx, sql, params))
}

// Close disconnects the database opened by New.
func (c *Client) Close(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Disconnect(ctx)
}

func (c *Client) middlewareChain() []MiddlewareFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]MiddlewareFunc(nil), c.middleware...)
}
