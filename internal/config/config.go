package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the palmrag API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Guardrail GuardrailConfig `yaml:"guardrail"`
	Stats     StatsConfig     `yaml:"stats"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// RetrievalConfig holds ranking defaults applied at the request boundary.
type RetrievalConfig struct {
	DefaultK          int    `yaml:"default_k"`
	DefaultSimilarity string `yaml:"default_similarity"` // cosine, dot
}

// GuardrailConfig holds the static policy tables of the guardrail gate.
type GuardrailConfig struct {
	DenyPhrases []string   `yaml:"deny_phrases"` // empty = built-in list
	DenyCombos  [][]string `yaml:"deny_combos"`  // empty = built-in list
	MaxWords    int        `yaml:"max_words"`
}

// StatsConfig holds metrics aggregator settings.
type StatsConfig struct {
	HitThreshold *float64 `yaml:"hit_threshold"` // nil = 0.2
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
// A .env file next to the working directory is loaded first, if present,
// so ${VAR} references can be satisfied from it. Existing env vars win.
func LoadFile(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML bytes, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Retrieval.DefaultK <= 0 {
		c.Retrieval.DefaultK = 3
	}
	if c.Retrieval.DefaultSimilarity == "" {
		c.Retrieval.DefaultSimilarity = "cosine"
	}
	if c.Guardrail.MaxWords <= 0 {
		c.Guardrail.MaxWords = 100
	}
	if c.Stats.HitThreshold == nil {
		v := 0.2
		c.Stats.HitThreshold = &v
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Retrieval.DefaultK > 10 {
		return fmt.Errorf("retrieval.default_k must be between 1 and 10, got %d", c.Retrieval.DefaultK)
	}
	switch c.Retrieval.DefaultSimilarity {
	case "cosine", "dot":
		// ok
	default:
		return fmt.Errorf(
			"retrieval.default_similarity must be \"cosine\" or \"dot\", got %q",
			c.Retrieval.DefaultSimilarity,
		)
	}
	if t := *c.Stats.HitThreshold; t < 0 {
		return fmt.Errorf("stats.hit_threshold must be >= 0, got %v", t)
	}
	for i, combo := range c.Guardrail.DenyCombos {
		if len(combo) == 0 {
			return fmt.Errorf("guardrail.deny_combos[%d] must not be empty", i)
		}
	}
	return nil
}

// HitThreshold returns the configured relevance threshold.
func (c *Config) HitThreshold() float64 {
	if c.Stats.HitThreshold == nil {
		return 0.2
	}
	return *c.Stats.HitThreshold
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
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
