package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ReadsFileAndAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
database:
  host: db.internal
evaluation:
  similarity:
    text_threshold: 75
  integrity:
    bot_risk_threshold: 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// Explicit values survive.
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 75.0, cfg.Evaluation.Similarity.TextThreshold)
	assert.Equal(t, 60, cfg.Evaluation.Integrity.BotRiskThreshold)

	// Unset values were defaulted.
	assert.Equal(t, DefaultCodeThreshold, cfg.Evaluation.Similarity.CodeThreshold)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValuesFailValidation(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 99999
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "validation failed")
}

func TestLoadFromEnv_EnvOverrides(t *testing.T) {
	t.Setenv("TALENTSCREEN_SERVER_PORT", "7070")
	t.Setenv("TALENTSCREEN_DATABASE_HOST", "env-db")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-db", cfg.Database.Host)
}

func TestMustLoad_PanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}
