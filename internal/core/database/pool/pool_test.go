package pool_test

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/satishbabariya/rootquery/internal/core/database/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ConnAndStats(t *testing.T) {
	cfg := pool.DefaultConfig()
	cfg.HealthCheckInterval = 0

	p, err := pool.New("sqlite3", ":memory:", cfg)
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	require.NoError(t, p.HealthCheck(ctx))

	conn, err := p.Conn(ctx)
	require.NoError(t, err)

	var one int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Acquired)
	assert.Equal(t, 1, stats.InUse)
	assert.Equal(t, 25, stats.MaxOpenConnections)
	assert.False(t, stats.LastHealthCheck.IsZero())
	assert.Zero(t, stats.FailedHealthChecks)

	require.NoError(t, conn.Close())
	assert.Equal(t, 0, p.Stats().InUse)
}

func TestPool_HealthCheckLoopStopsOnClose(t *testing.T) {
	cfg := pool.DefaultConfig()
	cfg.HealthCheckInterval = 10 * time.Millisecond

	p, err := pool.New("sqlite3", ":memory:", cfg)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return !p.Stats().LastHealthCheck.IsZero()
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}

func TestPool_UnknownDriver(t *testing.T) {
	_, err := pool.New("no-such-driver", "", pool.DefaultConfig())
	assert.Error(t, err)
}

func TestPool_ConnAfterClose(t *testing.T) {
	cfg := pool.DefaultConfig()
	cfg.HealthCheckInterval = 0
	p, err := pool.New("sqlite3", ":memory:", cfg)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	_, err = p.Conn(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int64(0), p.Stats().Acquired)
}
