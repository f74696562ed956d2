package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "docsorter.db", cfg.Database.Path)
	assert.Equal(t, ExtractorHeuristic, cfg.Extractor)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 256, cfg.Pipeline.QueueSize)
	assert.Equal(t, []string{"./inbox"}, cfg.Filing.InboxDirs)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("EXTRACTOR", "vision")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PIPELINE_WORKERS", "8")
	t.Setenv("INBOX_DIRS", "/a, /b ,,/c")
	t.Setenv("DB_BUSY_TIMEOUT", "10s")

	cfg := LoadConfig()
	assert.Equal(t, ExtractorVision, cfg.Extractor)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, []string{"/a", "/b", "/c"}, cfg.Filing.InboxDirs)
	assert.Equal(t, 10*time.Second, cfg.Database.BusyTimeout)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsVisionWithoutKey(t *testing.T) {
	cfg := LoadConfig()
	cfg.Extractor = ExtractorVision
	cfg.Vision.APIKey = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownExtractor(t *testing.T) {
	cfg := LoadConfig()
	cfg.Extractor = "oracle"
	assert.Error(t, cfg.Validate())
}
