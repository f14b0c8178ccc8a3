package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "ytdlp", cfg.Strategy)
	assert.Equal(t, "yt-dlp", cfg.YtDlpPath)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.NotEmpty(t, cfg.ScratchDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
port = 8080
strategy = "cobalt"
cobalt_url = "https://cobalt.internal/api/json"

[bypass]
youtube = ["--geo-bypass"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "cobalt", cfg.Strategy)
	assert.Equal(t, "https://cobalt.internal/api/json", cfg.CobaltURL)
	assert.Equal(t, []string{"--geo-bypass"}, cfg.BypassArgs(domain.PlatformYouTube))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Port)
}

func TestPortEnvOverride(t *testing.T) {
	t.Setenv("PORT", "4000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Port)
}

func TestInvalidPortEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := Load("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"bad strategy", func(c *Config) { c.Strategy = "magic" }, true},
		{"empty scratch dir", func(c *Config) { c.ScratchDir = "" }, true},
		{"cobalt without url", func(c *Config) { c.Strategy = "cobalt"; c.CobaltURL = "" }, true},
		{"valid cobalt", func(c *Config) { c.Strategy = "cobalt" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBypassArgsUnknownPlatform(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.BypassArgs(domain.PlatformYouTube))
	assert.Nil(t, cfg.BypassArgs(domain.PlatformUnknown))
}
