package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type siteConfig struct {
	BaseURL          string `json:"base_url"`
	FollowPagination bool   `json:"follow_pagination"`
	FetchDetails     bool   `json:"fetch_details"`
	MaxRetries       int    `json:"max_retries"`
}

func testDefaults() siteConfig {
	return siteConfig{
		BaseURL:          "https://www.phoenix.org.uk",
		FollowPagination: true,
		FetchDetails:     true,
		MaxRetries:       3,
	}
}

func writeFile(t *testing.T, path, contents string) {
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestReadConfigWithDefaultsZeroValueOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	writeFile(t, path, `{
		follow_pagination: false,
		fetch_details: false,
		max_retries: 0,
	}`)

	cfg, err := ReadConfigWithDefaults(path, testDefaults())
	require.NoError(t, err)

	// explicit zero values in the file win over non-zero defaults
	require.False(t, cfg.FollowPagination)
	require.False(t, cfg.FetchDetails)
	require.Equal(t, 0, cfg.MaxRetries)
	// keys the file does not carry keep their defaults
	require.Equal(t, "https://www.phoenix.org.uk", cfg.BaseURL)
}

func TestReadConfigWithDefaultsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")

	cfg, err := ReadConfigWithDefaults(path, testDefaults())
	require.NoError(t, err)
	require.Equal(t, testDefaults(), cfg)
}

func TestReadConfigWithDefaultsLocalLayer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		base_url: "https://example.org",
		max_retries: 5,
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{
		max_retries: 0,
	}`)

	cfg, err := ReadConfigWithDefaults(filepath.Join(dir, "config.json5"), testDefaults())
	require.NoError(t, err)
	require.Equal(t, "https://example.org", cfg.BaseURL)
	require.Equal(t, 0, cfg.MaxRetries)
	require.True(t, cfg.FollowPagination)
}

func TestReadConfigWithDefaultsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	writeFile(t, path, `{not valid json5`)

	_, err := ReadConfigWithDefaults(path, testDefaults())
	require.Error(t, err)
}
