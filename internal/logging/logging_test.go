package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Str("path", "/x").Msg("shown")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "/x", rec["path"])
	assert.Contains(t, rec, "time")
}

func TestNewDefaultsToInfo(t *testing.T) {
	for _, level := range []string{"", "bogus"} {
		var buf bytes.Buffer
		log := New(&buf, level)

		log.Debug().Msg("hidden")
		assert.Zero(t, buf.Len(), level)

		log.Info().Msg("shown")
		assert.NotZero(t, buf.Len(), level)
	}
}
