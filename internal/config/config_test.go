package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "lossless-packed", cfg.General.FileFormat)
	assert.True(t, cfg.General.SkipUnknownDisc)
	assert.Equal(t, []string{ProviderPrimary, ProviderHub, ProviderFreedb, ProviderImages}, cfg.General.DatabasePreferenceList)
	assert.Equal(t, 300, cfg.General.CoverArtPreferredSize)
}

func TestLoad_OverlaysTomlFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cuesmith.toml")
	toml := `
[general]
cover_art_preferred_size = -1
skip_unknown_disc = false

[rems]
asin = false
`
	require.NoError(t, os.WriteFile(path, []byte(toml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.General.CoverArtPreferredSize)
	assert.False(t, cfg.General.SkipUnknownDisc)
	assert.False(t, cfg.Rems.ASIN)
	// Unrelated defaults should survive being layered under the file.
	assert.True(t, cfg.General.CoverArt)
}

func TestValidate_RejectsBadFileFormat(t *testing.T) {
	cfg := NewDefault()
	cfg.General.FileFormat = "mp3"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsEmptyPreferenceList(t *testing.T) {
	cfg := NewDefault()
	cfg.General.DatabasePreferenceList = nil
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsDuplicateProviderID(t *testing.T) {
	cfg := NewDefault()
	cfg.General.DatabasePreferenceList = []string{ProviderPrimary, ProviderPrimary}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNegativeTimeout(t *testing.T) {
	cfg := NewDefault()
	cfg.Providers.TimeoutSeconds = -1
	assert.Error(t, cfg.Validate())
}
