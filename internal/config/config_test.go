package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	unsetEnv(t, "APP_PORT", "APP_ENV", "STORE_DRIVER", "STORE_KEY", "SAVE_TIMEOUT", "SHUTDOWN_TIMEOUT", "REDIS_DB", "TRUSTED_PROXIES")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "@tasks", cfg.StoreKey)
	assert.Equal(t, 5*time.Second, cfg.SaveTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Nil(t, cfg.TrustedProxies)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("STORE_DRIVER", " Redis ")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SAVE_TIMEOUT", "750ms")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, ,192.168.0.0/16")

	cfg := LoadConfig()

	assert.True(t, cfg.IsDev())
	assert.Equal(t, StoreDriverRedis, cfg.StoreDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 750*time.Millisecond, cfg.SaveTimeout)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("REDIS_DB", "two")
	t.Setenv("SAVE_TIMEOUT", "-1s")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := LoadConfig()

	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5*time.Second, cfg.SaveTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_WarnsThroughGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))
	unsetEnv(t, "REDIS_DB", "SHUTDOWN_TIMEOUT")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("SAVE_TIMEOUT", "soon")

	LoadConfig()

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "unknown store driver, falling back to sqlite", logs.All()[0].Message)
	assert.Equal(t, "postgres", logs.All()[0].ContextMap()["driver"])
	assert.Equal(t, "SAVE_TIMEOUT", logs.All()[1].ContextMap()["key"])
}

func TestAppEnv(t *testing.T) {
	unsetEnv(t, "APP_ENV")
	assert.Equal(t, "prod", AppEnv())

	t.Setenv("APP_ENV", EnvDev)
	assert.Equal(t, EnvDev, AppEnv())
}

func TestParseTrustedProxies(t *testing.T) {
	assert.Nil(t, parseTrustedProxies("   "))
	assert.Nil(t, parseTrustedProxies(" , ,"))
	assert.Equal(t, []string{"127.0.0.1"}, parseTrustedProxies("127.0.0.1"))
}
