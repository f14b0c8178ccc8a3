// Package config handles TOML-based configuration loading with environment
// overrides. The platform bypass-argument table lives here, as data, so it
// can be tuned without touching request-handling code.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/domain"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds all process configuration, passed explicitly into the relay at
// startup.
type Config struct {
	Port       int    `toml:"port"`
	ScratchDir string `toml:"scratch_dir"`
	Strategy   string `toml:"strategy"` // "ytdlp" or "cobalt"
	YtDlpPath  string `toml:"ytdlp_path"`
	FFmpegPath string `toml:"ffmpeg_path"`
	CobaltURL  string `toml:"cobalt_url"`
	Debug      bool   `toml:"debug"`

	// Bypass maps a lowercase platform name to extra extraction-tool
	// arguments. Opaque tuning knobs: they only improve success odds against
	// that platform.
	Bypass map[string][]string `toml:"bypass"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Port:       3001,
		ScratchDir: os.TempDir(),
		Strategy:   "ytdlp",
		YtDlpPath:  "yt-dlp",
		FFmpegPath: "ffmpeg",
		CobaltURL:  "https://api.cobalt.tools/api/json",
		Bypass: map[string][]string{
			"youtube": {
				"--user-agent", defaultUserAgent,
				"--extractor-args", "youtube:player_client=android,web",
				"--no-check-certificates",
				"--geo-bypass",
			},
			"instagram": {
				"--user-agent", defaultUserAgent,
				"--no-check-certificates",
				"--geo-bypass",
			},
			"tiktok": {
				"--user-agent", defaultUserAgent,
				"--no-check-certificates",
				"--geo-bypass",
			},
			"twitter": {
				"--user-agent", defaultUserAgent,
				"--geo-bypass",
			},
			"facebook": {
				"--user-agent", defaultUserAgent,
				"--geo-bypass",
			},
		},
	}
}

// Load reads the config file at path (when it exists) on top of the defaults,
// then applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Port = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch strings.ToLower(c.Strategy) {
	case "ytdlp", "cobalt":
	default:
		return fmt.Errorf("unsupported strategy %q (valid: ytdlp, cobalt)", c.Strategy)
	}
	if c.ScratchDir == "" {
		return fmt.Errorf("scratch directory cannot be empty")
	}
	if strings.ToLower(c.Strategy) == "cobalt" && c.CobaltURL == "" {
		return fmt.Errorf("cobalt strategy requires cobalt_url")
	}
	return nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// BypassArgs returns the extra tool arguments for a platform, or nil when the
// table has no entry.
func (c *Config) BypassArgs(p domain.Platform) []string {
	return c.Bypass[strings.ToLower(string(p))]
}
