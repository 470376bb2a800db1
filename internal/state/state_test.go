package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	saved := Preferences{
		NoiseType: "brown",
		EQ:        EQ{Low: 6, Mid: -3, High: 1.5},
		Volume:    0.7,
		Power:     true,
	}
	require.NoError(t, Save(path, saved))

	loaded, ok, err := Load(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, ok, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadClampsEQ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"noiseType":"pink","eq":{"low":40,"mid":-40,"high":3}}`), 0644))

	p, ok, err := Load(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12.0, p.EQ.Low)
	assert.Equal(t, -12.0, p.EQ.Mid)
	assert.Equal(t, 3.0, p.EQ.High)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, ok, err := Load(path)
	assert.Error(t, err)
	assert.False(t, ok)
}
