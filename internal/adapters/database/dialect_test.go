package database_test

import (
	"testing"

	"github.com/satishbabariya/rootquery/internal/adapters/database"
	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDialect(t *testing.T) {
	tests := []struct {
		provider string
		want     domain.SQLDialect
		wantErr  bool
	}{
		{provider: "postgres", want: domain.PostgreSQL},
		{provider: "PostgreSQL", want: domain.PostgreSQL},
		{provider: "mysql", want: domain.MySQL},
		{provider: "mariadb", want: domain.MySQL},
		{provider: "sqlite3", want: domain.SQLite},
		{provider: "mssql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			d, err := database.NewDialect(tt.provider)
			if tt.wantErr {
				assert.ErrorIs(t, err, database.ErrUnknownProvider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Dialect())
		})
	}
}

func TestProviderFromURL(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "postgres://u@localhost/db", want: "postgres"},
		{url: "postgresql://u@localhost/db", want: "postgres"},
		{url: "mysql://root@localhost/db", want: "mysql"},
		{url: "file:app.db?cache=shared", want: "sqlite"},
		{url: ":memory:", want: "sqlite"},
		{url: "./data/app.sqlite", want: "sqlite"},
		{url: "redis://localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := database.ProviderFromURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
