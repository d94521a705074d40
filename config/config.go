package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the matcher process configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Matching  MatchingConfig  `yaml:"matching"`
	Model     ModelSettings   `yaml:"model"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Tasks     TasksConfig     `yaml:"tasks"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxUploadBytes  int64 `yaml:"max_upload_bytes"`
}

// ArtifactsConfig locates the persisted model version to serve.
type ArtifactsConfig struct {
	Dir     string `yaml:"dir"`
	Version string `yaml:"version"`
}

// MatchingConfig holds request-level matching limits.
type MatchingConfig struct {
	DefaultK int    `yaml:"default_k"`
	MaxK     int    `yaml:"max_k"`
	Ranker   string `yaml:"ranker"` // linear, inverted (default: linear)
}

// RetryConfig holds page fetch retry settings.
type RetryConfig struct {
	MaxAttempts   int     `yaml:"max_attempts"`
	InitialWaitMs int     `yaml:"initial_wait_ms"`
	MaxWaitMs     int     `yaml:"max_wait_ms"`
	Multiplier    float64 `yaml:"multiplier"`
}

// ScraperConfig holds job board scraping settings.
type ScraperConfig struct {
	Sites             []string    `yaml:"sites"`
	MaxPages          int         `yaml:"max_pages"`
	UserAgent         string      `yaml:"user_agent"`
	TimeoutSec        int         `yaml:"timeout_sec"`
	RequestsPerSecond float64     `yaml:"requests_per_second"`
	Retry             RetryConfig `yaml:"retry"`
}

// TasksConfig holds settings for background reload and reindex tasks.
type TasksConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Workers   int    `yaml:"workers"`
	CorpusDir string `yaml:"corpus_dir"` // reindex reads corpus files from here only
}

// AnalyticsConfig holds match analytics settings.
type AnalyticsConfig struct {
	DataFile string `yaml:"data_file"` // empty keeps events in memory only
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Default returns a configuration with every default applied.
func Default() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads configuration from a YAML file. Values of the form ${VAR} and
// ${VAR:-default} are substituted from the environment before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 15
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 15
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		c.HTTP.MaxUploadBytes = 10 << 20
	}
	if c.Artifacts.Dir == "" {
		c.Artifacts.Dir = "./model_data"
	}
	if c.Artifacts.Version == "" {
		c.Artifacts.Version = "v1"
	}
	if c.Matching.DefaultK <= 0 {
		c.Matching.DefaultK = 5
	}
	if c.Matching.MaxK <= 0 {
		c.Matching.MaxK = 50
	}
	if c.Matching.Ranker == "" {
		c.Matching.Ranker = "linear"
	}
	c.Model.ApplyDefaults()
	if c.Tasks.Workers <= 0 {
		c.Tasks.Workers = 1
	}
	if c.Tasks.CorpusDir == "" {
		c.Tasks.CorpusDir = "./corpus"
	}
	if len(c.Scraper.Sites) == 0 {
		c.Scraper.Sites = []string{"indeed", "linkedin", "infojobs"}
	}
	if c.Scraper.MaxPages <= 0 {
		c.Scraper.MaxPages = 3
	}
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	}
	if c.Scraper.TimeoutSec <= 0 {
		c.Scraper.TimeoutSec = 10
	}
	if c.Scraper.RequestsPerSecond <= 0 {
		c.Scraper.RequestsPerSecond = 0.5
	}
	if c.Scraper.Retry.MaxAttempts <= 0 {
		c.Scraper.Retry.MaxAttempts = 3
	}
	if c.Scraper.Retry.InitialWaitMs <= 0 {
		c.Scraper.Retry.InitialWaitMs = 500
	}
	if c.Scraper.Retry.MaxWaitMs <= 0 {
		c.Scraper.Retry.MaxWaitMs = 5000
	}
	if c.Scraper.Retry.Multiplier <= 0 {
		c.Scraper.Retry.Multiplier = 2.0
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Matching.DefaultK > c.Matching.MaxK {
		return fmt.Errorf("matching.default_k (%d) must not exceed matching.max_k (%d)", c.Matching.DefaultK, c.Matching.MaxK)
	}
	switch c.Matching.Ranker {
	case "linear", "inverted":
		// ok
	default:
		return fmt.Errorf("matching.ranker must be \"linear\" or \"inverted\", got %q", c.Matching.Ranker)
	}
	if strings.ContainsAny(c.Artifacts.Version, `/\`) || c.Artifacts.Version == "." || c.Artifacts.Version == ".." {
		return fmt.Errorf("artifacts.version must be a plain directory name, got %q", c.Artifacts.Version)
	}
	if problems := c.Model.Validate(); len(problems) > 0 {
		return fmt.Errorf("model: %s", strings.Join(problems, "; "))
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
