package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		cfg := &Config{}
		cfg.Server.Listen = ":8080"
		cfg.Server.Timeout = 30 * time.Second
		cfg.Intel.BaseURL = "https://intel.example.com"
		assert.NoError(t, VerifyAgainstEmbeddedSchema(cfg))
	})

	t.Run("missing listen fails", func(t *testing.T) {
		cfg := &Config{}
		cfg.Server.Timeout = 30 * time.Second
		cfg.Intel.BaseURL = "https://intel.example.com"
		err := VerifyAgainstEmbeddedSchema(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.listen")
	})

	t.Run("enabled writeups need poll interval", func(t *testing.T) {
		cfg := &Config{}
		cfg.Server.Listen = ":8080"
		cfg.Server.Timeout = 30 * time.Second
		cfg.Intel.BaseURL = "https://intel.example.com"
		cfg.Writeups.Enabled = true
		err := VerifyAgainstEmbeddedSchema(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "poll_interval")
	})
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url")
	assert.Contains(t, string(data), "recency_window_days")
}

func TestEmbeddedSchemaParses(t *testing.T) {
	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(embeddedSchema), &schema))
	assert.NotEmpty(t, schema["$defs"])
}
