package logging_test

import (
	"bytes"
	"testing"

	"github.com/jrsteele09/library-session/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "PROD", "warn")

	logger.Info().Msg("hidden")
	require.Empty(t, buf.String())

	logger.Warn().Str("store", "sqlite").Msg("shown")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "store=sqlite")
	require.Contains(t, buf.String(), "env=PROD")
}

func TestNewWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "PROD", "chatty")

	logger.Debug().Msg("hidden")
	require.Empty(t, buf.String())

	logger.Info().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}
