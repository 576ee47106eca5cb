package configs

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KMIT_API_BASE_URL", "")
	t.Setenv("UPSTREAM_TIMEOUT", "")
	t.Setenv("ALI_OSS_ENDPOINT", "")

	cfg := Load()

	assert.Equal(t, "https://kmit-api.teleuniv.in", cfg.Upstream.BaseURL)
	assert.Equal(t, "sanjaya", cfg.Upstream.Application)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.False(t, cfg.OSS.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Run("base url trailing slash is trimmed", func(t *testing.T) {
		t.Setenv("KMIT_API_BASE_URL", "http://localhost:9999/")
		assert.Equal(t, "http://localhost:9999", Load().Upstream.BaseURL)
	})

	t.Run("timeout accepts duration or seconds", func(t *testing.T) {
		t.Setenv("UPSTREAM_TIMEOUT", "2500ms")
		assert.Equal(t, 2500*time.Millisecond, Load().Upstream.Timeout)

		t.Setenv("UPSTREAM_TIMEOUT", "7")
		assert.Equal(t, 7*time.Second, Load().Upstream.Timeout)

		t.Setenv("UPSTREAM_TIMEOUT", "soon")
		assert.Equal(t, 15*time.Second, Load().Upstream.Timeout)
	})

	t.Run("oss endpoint scheme is stripped", func(t *testing.T) {
		t.Setenv("ALI_OSS_ENDPOINT", "https://oss-ap-south-1.aliyuncs.com/")
		t.Setenv("ALI_OSS_ACCESS_KEY", "k")
		t.Setenv("ALI_OSS_SECRET_KEY", "s")
		t.Setenv("ALI_OSS_BUCKET", "b")

		cfg := Load()
		assert.Equal(t, "oss-ap-south-1.aliyuncs.com", cfg.OSS.Endpoint)
		assert.True(t, cfg.OSS.Enabled())
	})
}

func TestDSN(t *testing.T) {
	c := DBConfig{User: "u", Password: "p", Host: "h", Port: "5432", Name: "d", SSLMode: "disable", StatementTimeout: 3000}
	assert.Equal(t, "postgres://u:p@h:5432/d?application_name=spectra&options=-c+statement_timeout%3D3000&sslmode=disable", c.DSN())

	t.Run("reserved characters in credentials", func(t *testing.T) {
		c := DBConfig{User: "app:rw", Password: "p@ss/w#rd?", Host: "db", Port: "5432", Name: "spectra", SSLMode: "require", StatementTimeout: 3000}

		pc, err := pgconn.ParseConfig(c.DSN())
		require.NoError(t, err)
		assert.Equal(t, "db", pc.Host)
		assert.EqualValues(t, 5432, pc.Port)
		assert.Equal(t, "app:rw", pc.User)
		assert.Equal(t, "p@ss/w#rd?", pc.Password)
		assert.Equal(t, "spectra", pc.Database)
		assert.Equal(t, "-c statement_timeout=3000", pc.RuntimeParams["options"])
	})
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(&Config{AppEnv: "production", LogLevel: "not-a-level"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}
