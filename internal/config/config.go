package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port          int           `yaml:"port" default:"8080"`
		Host          string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout   time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout  time.Duration `yaml:"write_timeout" default:"150s"`
		IdleTimeout   time.Duration `yaml:"idle_timeout" default:"60s"`
		TailorTimeout time.Duration `yaml:"tailor_timeout" default:"2m"`
		MaxBodyBytes  int64         `yaml:"max_body_bytes" default:"10485760"`
	} `yaml:"server"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		BaseURL     string        `yaml:"base_url"`
		Model       string        `yaml:"model" default:"claude-3-5-haiku-20241022"`
		MaxTokens   int           `yaml:"max_tokens" default:"3000"`
		Temperature float32       `yaml:"temperature" default:"0"`
		Timeout     time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"llm"`

	Acquisition struct {
		UserAgent      string        `yaml:"user_agent"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes" default:"5242880"`
		RateLimit      int           `yaml:"rate_limit" default:"0"` // requests per minute per host, 0 disables
	} `yaml:"acquisition"`

	Tailoring struct {
		BulletCount     int    `yaml:"bullet_count" default:"3"`
		ReferenceEntry  string `yaml:"reference_entry"`
		TrimmableEntry  string `yaml:"trimmable_entry"`
		NewEntryHeading string `yaml:"new_entry_heading"`
	} `yaml:"tailoring"`

	History struct {
		Backend    string `yaml:"backend" default:"file"` // file, redis, sqlite, memory
		Key        string `yaml:"key" default:"tailoredResumesHistory"`
		FilePath   string `yaml:"file_path" default:"data/history.json"`
		SQLitePath string `yaml:"sqlite_path" default:"data/history.db"`
		MaxEntries int    `yaml:"max_entries" default:"0"`
	} `yaml:"history"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Export struct {
		Enabled    bool          `yaml:"enabled" default:"false"`
		Headless   bool          `yaml:"headless" default:"true"`
		BrowserBin string        `yaml:"browser_bin"`
		Timeout    time.Duration `yaml:"timeout" default:"45s"`
	} `yaml:"export"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// DefaultUserAgent is sent with every remote job-posting fetch
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

var (
	bracedEnvPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvPattern   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax.
// Unknown variables are left untouched.
func expandEnvVars(s string) string {
	s = bracedEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	return bareEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})
}

// Default returns a configuration populated with defaults only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 150 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.TailorTimeout = 2 * time.Minute
	config.Server.MaxBodyBytes = 10 << 20

	config.LLM.Provider = "claude"
	config.LLM.Model = "claude-3-5-haiku-20241022"
	config.LLM.MaxTokens = 3000
	config.LLM.Timeout = 120 * time.Second

	config.Acquisition.UserAgent = DefaultUserAgent
	config.Acquisition.RequestTimeout = 30 * time.Second
	config.Acquisition.MaxBodyBytes = 5 << 20

	config.Tailoring.BulletCount = 3

	config.History.Backend = "file"
	config.History.Key = "tailoredResumesHistory"
	config.History.FilePath = "data/history.json"
	config.History.SQLitePath = "data/history.db"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second

	config.Export.Headless = true
	config.Export.Timeout = 45 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		}
	}

	config.loadFromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	switch c.History.Backend {
	case "file", "redis", "sqlite", "memory":
	default:
		return fmt.Errorf("unsupported history backend: %s", c.History.Backend)
	}

	if c.History.Key == "" {
		return fmt.Errorf("history key must not be empty")
	}

	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}

	if c.Tailoring.BulletCount <= 0 {
		return fmt.Errorf("tailoring bullet_count must be positive, got %d", c.Tailoring.BulletCount)
	}

	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history max_entries must not be negative")
	}

	return nil
}

// loadFromEnv overrides settings from the environment. Unparsable values are ignored.
func (c *Config) loadFromEnv() {
	envInt("PORT", &c.Server.Port)
	envString("HOST", &c.Server.Host)

	// ANTHROPIC_API_KEY is what the SDK itself reads; LLM_API_KEY wins when both are set
	envString("ANTHROPIC_API_KEY", &c.LLM.APIKey)
	envString("LLM_API_KEY", &c.LLM.APIKey)
	envString("LLM_PROVIDER", &c.LLM.Provider)
	envString("LLM_MODEL", &c.LLM.Model)
	envString("LLM_BASE_URL", &c.LLM.BaseURL)
	envInt("LLM_MAX_TOKENS", &c.LLM.MaxTokens)

	envString("LOG_LEVEL", &c.Logging.Level)
	envString("LOG_FORMAT", &c.Logging.Format)

	envInt("ACQUISITION_RATE_LIMIT", &c.Acquisition.RateLimit)

	envString("HISTORY_BACKEND", &c.History.Backend)
	envString("HISTORY_FILE", &c.History.FilePath)
	envString("HISTORY_SQLITE_PATH", &c.History.SQLitePath)
	envInt("HISTORY_MAX_ENTRIES", &c.History.MaxEntries)

	envString("REDIS_URL", &c.Redis.URL)
	envString("REDIS_PASSWORD", &c.Redis.Password)
	envInt("REDIS_DB", &c.Redis.DB)
	envDuration("REDIS_TIMEOUT", &c.Redis.Timeout)

	envBool("EXPORT_ENABLED", &c.Export.Enabled)
	envString("EXPORT_BROWSER_BIN", &c.Export.BrowserBin)

	c.loadLoggingAdapterEnvVars()
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = n
	}
}

func envDuration(key string, dst *time.Duration) {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		*dst = d
	}
}

func envBool(key string, dst *bool) {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		*dst = b
	}
}

// loadLoggingAdapterEnvVars lets LOG_FILE_PATH point every file adapter at one path
func (c *Config) loadLoggingAdapterEnvVars() {
	filePath := os.Getenv("LOG_FILE_PATH")
	if filePath == "" {
		return
	}

	for i := range c.Logging.Adapters {
		adapter := &c.Logging.Adapters[i]
		if adapter.Type != "file" {
			continue
		}
		if adapter.Options == nil {
			adapter.Options = make(map[string]interface{})
		}
		adapter.Options["file_path"] = filePath
	}
}
