package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_File(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "corpus.log")
	require.NoError(t, SetupLogger(&LogConfig{Level: "info", Format: "json", OutputFile: logPath}))
	t.Cleanup(func() { _ = SetupLogger(&LogConfig{Level: "info"}) })

	logger := GetPipelineLogger("run-1", "merge")
	logger.Info().Str("source", "DailyDialog").Msg("Source merged")
	logger.Debug().Msg("filtered")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id":"run-1"`)
	assert.Contains(t, string(data), `"stage":"merge"`)
	assert.Contains(t, string(data), `"message":"Source merged"`)
	assert.NotContains(t, string(data), "filtered")
}

func TestSetupLogger_Levels(t *testing.T) {
	t.Cleanup(func() { _ = SetupLogger(&LogConfig{Level: "info"}) })

	assert.Error(t, SetupLogger(&LogConfig{Level: "loud"}))

	require.NoError(t, SetupLogger(nil))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	require.NoError(t, SetupLogger(&LogConfig{Level: "debug", Format: "pretty", Console: true}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
