package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 48000, cfg.SampleRate)
	assert.Equal(t, 128, cfg.BlockSize)
	assert.Equal(t, 30, cfg.PrefetchSeconds)
	assert.Equal(t, 10, cfg.RefillInterval)
	assert.Equal(t, 4800, cfg.RefillChunk)
	assert.Equal(t, "tcp://localhost", cfg.MQTT.Broker)
	assert.Equal(t, 1883, cfg.MQTT.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sample_rate: 44100
block_size: 256
mqtt:
  broker: ssl://broker.local
  topic: home/noise
log:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, 256, cfg.BlockSize)
	assert.Equal(t, "ssl://broker.local", cfg.MQTT.Broker, "scheme prefixes are kept as-is")
	assert.Equal(t, "home/noise", cfg.MQTT.Topic)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4800, cfg.RefillChunk, "unset keys keep defaults")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("NOISEBOX_SAMPLE_RATE", "96000")
	t.Setenv("NOISEBOX_MQTT_BROKER", "broker.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 96000, cfg.SampleRate)
	assert.Equal(t, "tcp://broker.example.com", cfg.MQTT.Broker)
}

func TestEnvOnlyKeys(t *testing.T) {
	t.Setenv("NOISEBOX_MQTT_USER", "alice")
	t.Setenv("NOISEBOX_MQTT_PASSWORD", "hunter2")
	t.Setenv("NOISEBOX_LOG_FILE", "/var/log/noisebox.log")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.MQTT.User)
	assert.Equal(t, "hunter2", cfg.MQTT.Password)
	assert.Equal(t, "/var/log/noisebox.log", cfg.Log.File)
}
