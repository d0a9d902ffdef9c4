package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config elvanto-export (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	// Env selects the CORS policy: "production" allows any origin without
	// credentials, anything else allows the local frontend dev servers.
	Env string `yaml:"env"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Elvanto ElvantoConfig `yaml:"elvanto"`
}

// ElvantoConfig Elvanto API access configuration.
type ElvantoConfig struct {
	APIURL string `yaml:"api_url"` // Elvanto REST endpoint base
	// APIKey is the process-wide fallback credential; a key supplied on a
	// request always takes precedence.
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // fixed per-request deadline
}

// Load resolves configuration: defaults, then the optional YAML config file
// (CONFIG_FILE, default config.yaml), then environment overrides.
func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8080"
	cfg.Env = "development"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Elvanto.APIURL = "https://api.elvanto.com/v1"
	cfg.Elvanto.TimeoutSeconds = 60

	loadFile(cfg, getEnv("CONFIG_FILE", "config.yaml"))

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Elvanto.APIURL = getEnv("ELVANTO_API_URL", cfg.Elvanto.APIURL)
	cfg.Elvanto.APIKey = getEnv("ELVANTO_API_KEY", cfg.Elvanto.APIKey)
	cfg.Elvanto.TimeoutSeconds = parseInt(os.Getenv("ELVANTO_TIMEOUT_SECONDS"), cfg.Elvanto.TimeoutSeconds)

	return cfg
}

// loadFile merges a YAML config file into cfg. A missing or unreadable file
// is not an error: env-only deployments carry no file at all.
func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = yaml.Unmarshal(data, cfg)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
