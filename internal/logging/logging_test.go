package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	Configure(&buf, "debug", "json")
	log.Debug().Str("phase", "forwarding").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "debug", entry["level"])
	require.Equal(t, "forwarding", entry["phase"])
	require.Equal(t, "hello", entry["message"])
}

func TestConfigure_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	Configure(&buf, "chatty", "json")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	log.Debug().Msg("dropped")
	require.Zero(t, buf.Len())
}
