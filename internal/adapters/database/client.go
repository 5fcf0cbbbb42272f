package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"iter"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/satishbabariya/rootquery/internal/adapters/telemetry"
	"github.com/satishbabariya/rootquery/internal/core/database/pool"
	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/satishbabariya/rootquery/internal/debug"
)

// Client implements domain.ClientCapability over a connection pool.
type Client struct {
	dialect   Dialect
	config    Config
	telemetry telemetry.Telemetry

	mu   sync.RWMutex
	pool *pool.Pool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTelemetry sets the telemetry sink.
func WithTelemetry(t telemetry.Telemetry) ClientOption {
	return func(c *Client) {
		c.telemetry = t
	}
}

// WithDialect overrides the dialect chosen from the configuration.
func WithDialect(d Dialect) ClientOption {
	return func(c *Client) {
		c.dialect = d
	}
}

// NewClient creates an unconnected client.
func NewClient(config Config, opts ...ClientOption) (*Client, error) {
	c := &Client{
		config:    config,
		telemetry: telemetry.NewNoopTelemetry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dialect == nil {
		provider := config.Provider
		if provider == "" {
			var err error
			if provider, err = ProviderFromURL(config.URL); err != nil {
				return nil, err
			}
		}
		d, err := NewDialect(provider)
		if err != nil {
			return nil, err
		}
		c.dialect = d
	}
	return c, nil
}

// Dialect returns the SQL dialect.
func (c *Client) Dialect() domain.SQLDialect { return c.dialect.Dialect() }

// QuoteIdentifier quotes name for the dialect.
func (c *Client) QuoteIdentifier(name string) string { return c.dialect.QuoteIdentifier(name) }

// BindStyle returns the dialect's placeholder style.
func (c *Client) BindStyle() domain.BindStyle { return c.dialect.BindStyle() }

// SupportsNullOrdering reports whether NULLS FIRST/LAST can be emitted.
func (c *Client) SupportsNullOrdering() bool { return c.dialect.SupportsNullOrdering() }

// SupportsForUpdate reports whether FOR UPDATE can be emitted.
func (c *Client) SupportsForUpdate() bool { return c.dialect.SupportsForUpdate() }

// Connect opens the pool and pings the database.
func (c *Client) Connect(ctx context.Context) error {
	start := time.Now()
	err := c.connect(ctx)
	c.telemetry.RecordConnection(ctx, telemetry.ConnectionInfo{
		Event:    "connect",
		Dialect:  string(c.dialect.Dialect()),
		Duration: time.Since(start),
		Success:  err == nil,
	})
	return err
}

func (c *Client) connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		return nil
	}

	dsn, err := c.dialect.DSN(c.config.URL)
	if err != nil {
		return err
	}

	cfg := c.config.Pool
	if c.dialect.Dialect() == domain.SQLite {
		// SQLite allows a single writer, and an in-memory database lives
		// only as long as its one connection.
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
		cfg.ConnMaxIdleTime = 0
	}

	p, err := pool.New(c.dialect.DriverName(), dsn, cfg)
	if err != nil {
		return err
	}

	timeout := c.config.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.HealthCheck(pingCtx); err != nil {
		p.Close()
		return &domain.ConnectionError{Dialect: c.dialect.Dialect(), Cause: fmt.Errorf("failed to connect: %w", err)}
	}

	c.pool = p
	debug.Info("database connected", "dialect", c.dialect.Dialect())
	return nil
}

// Disconnect closes the pool.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	p := c.pool
	c.pool = nil
	c.mu.Unlock()

	if p == nil {
		return nil
	}
	err := p.Close()
	c.telemetry.RecordConnection(ctx, telemetry.ConnectionInfo{
		Event:   "disconnect",
		Dialect: string(c.dialect.Dialect()),
		Success: err == nil,
	})
	return err
}

// Ping checks that the database is reachable.
func (c *Client) Ping(ctx context.Context) error {
	p, err := c.currentPool()
	if err != nil {
		return err
	}
	return c.classify(p.HealthCheck(ctx), "")
}

// Pool returns the connection pool, or nil before Connect.
func (c *Client) Pool() *pool.Pool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}

// Exec runs a statement that returns no rows.
func (c *Client) Exec(ctx context.Context, statement string, params ...domain.Value) (sql.Result, error) {
	p, err := c.currentPool()
	if err != nil {
		return nil, err
	}
	res, err := p.DB().ExecContext(ctx, statement, params...)
	if err != nil {
		return nil, c.classify(err, statement)
	}
	return res, nil
}

// Execute returns a lazy sequence of the statement's rows. Nothing is sent
// to the database until the sequence is ranged over, and the sequence can
// be ranged over once.
func (c *Client) Execute(ctx context.Context, statement string, params []domain.Value) iter.Seq2[domain.Row, error] {
	var used atomic.Bool
	return func(yield func(domain.Row, error) bool) {
		if !used.CompareAndSwap(false, true) {
			yield(domain.Row{}, domain.ErrSequenceConsumed)
			return
		}
		c.stream(ctx, statement, params, yield)
	}
}

func (c *Client) stream(ctx context.Context, statement string, params []domain.Value, yield func(domain.Row, error) bool) {
	id := uuid.New()
	start := time.Now()
	var count int64

	finish := func(err error) {
		c.telemetry.RecordQuery(ctx, telemetry.QueryInfo{
			ID:       id,
			Dialect:  string(c.dialect.Dialect()),
			SQL:      statement,
			Params:   len(params),
			Duration: time.Since(start),
			Success:  err == nil,
			Rows:     count,
		})
		if err != nil {
			c.telemetry.RecordError(ctx, telemetry.ErrorInfo{
				ID:      id,
				Dialect: string(c.dialect.Dialect()),
				SQL:     statement,
				Error:   err,
			})
			debug.Debug("statement failed", "id", id, "error", err)
		}
	}
	fail := func(err error) {
		finish(err)
		yield(domain.Row{}, err)
	}

	debug.Debug("executing statement", "id", id, "sql", statement, "params", len(params))

	p, err := c.currentPool()
	if err != nil {
		fail(err)
		return
	}
	if err := ctx.Err(); err != nil {
		fail(err)
		return
	}

	conn, err := p.Conn(ctx)
	if err != nil {
		fail(c.classify(err, statement))
		return
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, statement, params...)
	if err != nil {
		fail(c.classify(err, statement))
		return
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		fail(c.classify(err, statement))
		return
	}

	for {
		if err := ctx.Err(); err != nil {
			fail(err)
			return
		}
		if !rows.Next() {
			break
		}
		row, err := scanRow(rows, columns)
		if err != nil {
			fail(c.classify(err, statement))
			return
		}
		count++
		if !yield(row, nil) {
			finish(nil)
			return
		}
	}

	if err := rows.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		fail(c.classify(err, statement))
		return
	}
	finish(nil)
}

func scanRow(rows *sql.Rows, columns []string) (domain.Row, error) {
	values := make([]domain.Value, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return domain.Row{}, err
	}
	for i, v := range values {
		// Text columns arrive as []byte from some drivers and the buffer is
		// reused by the next Scan.
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return domain.Row{Columns: append([]string(nil), columns...), Values: values}, nil
}

func (c *Client) currentPool() (*pool.Pool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pool == nil {
		return nil, &domain.ConnectionError{Dialect: c.dialect.Dialect(), Cause: ErrNotConnected}
	}
	return c.pool, nil
}

func (c *Client) classify(err error, statement string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return &domain.ConnectionError{Dialect: c.dialect.Dialect(), Cause: err}
	}
	return c.dialect.Classify(err, statement)
}

var _ domain.ClientCapability = (*Client)(nil)
