package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndLoadConfigDefaults(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "warning", cfg.Verbosity)
	assert.Equal(t, "console", cfg.Output)
	assert.False(t, cfg.GetNoColor())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".slate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbosity: error\nno_color: true\nwidth: 120\n"), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Verbosity)
	assert.True(t, cfg.GetNoColor())
	assert.Equal(t, 120, cfg.Width)
	// unset fields keep their defaults
	assert.Equal(t, "console", cfg.Output)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".slate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbosity: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	noColor := true
	merged := base.Merge(&Config{Verbosity: "critical", NoColor: &noColor})

	assert.Equal(t, "critical", merged.Verbosity)
	assert.True(t, merged.GetNoColor())
	assert.Equal(t, "console", merged.Output)

	// nil merge is a no-op
	assert.Equal(t, merged, merged.Merge(nil))
}
