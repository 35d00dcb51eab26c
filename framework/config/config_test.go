package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armature-go/armature/framework/config"
)

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	// No env set → verify all defaults
	cfg := config.Load("testdata/empty.env")

	assert.Equal(t, "Armature", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Env)
	assert.Equal(t, "8000", cfg.App.Port)
	assert.True(t, cfg.App.Debug)

	assert.False(t, cfg.Container.Strict)
	assert.True(t, cfg.Container.Override)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
	assert.Equal(t, 28, cfg.Log.MaxAgeDays)
	assert.False(t, cfg.Log.Compress)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := config.Load()

	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvFileValues(t *testing.T) {
	// godotenv sets process env for keys not already present.
	t.Cleanup(func() {
		os.Unsetenv("APP_NAME")
		os.Unsetenv("APP_PORT")
	})

	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "FromFile", cfg.App.Name)
	assert.Equal(t, "7070", cfg.App.Port)
}

func TestLoad_AppDebug(t *testing.T) {
	t.Setenv("APP_DEBUG", "false")
	require.False(t, config.Load().App.Debug)

	t.Setenv("APP_DEBUG", "true")
	require.True(t, config.Load().App.Debug)
}

// ── Container policies ───────────────────────────────────────────────────────

func TestLoad_ContainerStrict(t *testing.T) {
	t.Setenv("CONTAINER_STRICT", "1")
	cfg := config.Load()
	assert.True(t, cfg.Container.Strict)
}

func TestLoad_ContainerOverrideDisabled(t *testing.T) {
	t.Setenv("CONTAINER_OVERRIDE", "false")
	cfg := config.Load()
	assert.False(t, cfg.Container.Override)
}

// ── Log section ──────────────────────────────────────────────────────────────

func TestLoad_LogRotationKnobs(t *testing.T) {
	t.Setenv("LOG_FILE", "storage/logs/app.log")
	t.Setenv("LOG_MAX_SIZE_MB", "10")
	t.Setenv("LOG_MAX_BACKUPS", "5")
	t.Setenv("LOG_MAX_AGE_DAYS", "7")
	t.Setenv("LOG_COMPRESS", "true")

	cfg := config.Load()

	assert.Equal(t, "storage/logs/app.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
	assert.Equal(t, 5, cfg.Log.MaxBackups)
	assert.Equal(t, 7, cfg.Log.MaxAgeDays)
	assert.True(t, cfg.Log.Compress)
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet_ReturnsValue(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))
}

func TestGet_ReturnsFallback(t *testing.T) {
	os.Unsetenv("MISSING_KEY")
	assert.Equal(t, "fallback", config.Get("MISSING_KEY", "fallback"))
}

func TestGetInt_ReturnsInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))
}

func TestGetInt_ReturnsFallbackOnInvalid(t *testing.T) {
	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool_True(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), "expected true for %q", val)
	}
}

func TestGetBool_False(t *testing.T) {
	t.Setenv("BOOL_KEY", "false")
	assert.False(t, config.GetBool("BOOL_KEY", true))
}

func TestGetBool_ReturnsFallbackOnInvalid(t *testing.T) {
	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true))
}
