package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"trace":   zerolog.TraceLevel,
		"off":     zerolog.Disabled,
	}
	for input, want := range tests {
		got, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	got, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, zerolog.InfoLevel, got)
}

// Setup mutates global logger state, so this test does not run in parallel.
func TestSetup_JSONFormat(t *testing.T) {
	previous := log.Logger
	previousLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	var out bytes.Buffer
	Setup("debug", "json", &out)
	log.Debug().Str("file", "gastos.xlsx").Msg("file parsed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "gastos.xlsx", entry["file"])
	assert.Equal(t, "file parsed", entry["message"])
}

func TestSetup_LevelFilters(t *testing.T) {
	previous := log.Logger
	previousLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	var out bytes.Buffer
	Setup("error", "json", &out)
	log.Info().Msg("hidden")
	assert.Empty(t, out.String())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("OBRACUSTO_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("OBRACUSTO_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("OBRACUSTO_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("OBRACUSTO_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
