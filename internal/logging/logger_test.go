package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
	}
	for raw, expected := range cases {
		level, ok := ParseLevel(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, expected, level, raw)
	}
	_, ok := ParseLevel("loud")
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	var out bytes.Buffer
	logger := New("foodgram", "warn", &out)

	logger.Info().Msg("hidden")
	assert.Empty(t, out.String())

	logger.Warn().Int("recipeId", 3).Msg("toggle failed")
	assert.Contains(t, out.String(), "toggle failed")
	assert.Contains(t, out.String(), "recipeId=3")
}

func TestNewEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	var out bytes.Buffer
	logger := New("foodgram", "error", &out)

	logger.Debug().Msg("visible")
	assert.Contains(t, out.String(), "visible")
}
