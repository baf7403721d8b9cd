package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      GormConfig
		password string
		sslMode  string
	}{
		{
			name:     "plain values",
			cfg:      GormConfig{Host: "db", Port: "5432", User: "worker", Password: "secret", DBName: "catalog"},
			password: "secret",
			sslMode:  "disable",
		},
		{
			name:     "password with spaces and quotes",
			cfg:      GormConfig{Host: "db", Port: "5432", User: "worker", Password: `p@ss w'rd "x"/?#`, DBName: "catalog", SSLMode: "disable"},
			password: `p@ss w'rd "x"/?#`,
			sslMode:  "disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := tt.cfg.DSN()
			assert.Contains(t, dsn, "sslmode="+tt.sslMode)

			parsed, err := pgconn.ParseConfig(dsn)
			require.NoError(t, err)
			assert.Equal(t, "db", parsed.Host)
			assert.Equal(t, uint16(5432), parsed.Port)
			assert.Equal(t, "worker", parsed.User)
			assert.Equal(t, tt.password, parsed.Password)
			assert.Equal(t, "catalog", parsed.Database)
		})
	}
}
