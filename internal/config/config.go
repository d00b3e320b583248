package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
		BodyLimit    string        `yaml:"body_limit" default:"10M"`
	} `yaml:"server"`

	Jobs struct {
		Workers         int           `yaml:"workers" default:"4"`
		QueueSize       int           `yaml:"queue_size" default:"64"`
		TaskTimeout     time.Duration `yaml:"task_timeout" default:"600s"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxJobAge       time.Duration `yaml:"max_job_age" default:"24h"`
		Store           string        `yaml:"store" default:"memory"` // "memory" or "redis"
	} `yaml:"jobs"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"claude-3-haiku-20240307"`
		MaxTokens   int           `yaml:"max_tokens" default:"8192"`
		Temperature float32       `yaml:"temperature" default:"0.1"`
		Timeout     time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"llm"`

	Firecrawl struct {
		APIKey          string        `yaml:"api_key"`
		APIURL          string        `yaml:"api_url" default:"https://api.firecrawl.dev"`
		Version         string        `yaml:"version" default:"v1"`
		SubmitTimeout   time.Duration `yaml:"submit_timeout" default:"15s"`
		PollTimeout     time.Duration `yaml:"poll_timeout" default:"10s"`
		PollInterval    time.Duration `yaml:"poll_interval" default:"2s"`
		MaxPollAttempts int           `yaml:"max_poll_attempts" default:"15"`
		MaxRetries      int           `yaml:"max_retries" default:"3"`
		Formats         []string      `yaml:"formats"`
	} `yaml:"firecrawl"`

	Ingest struct {
		BaseURL       string        `yaml:"base_url" default:"https://gitingest.com"`
		APIKey        string        `yaml:"api_key"`
		Timeout       time.Duration `yaml:"timeout" default:"120s"`
		MaxFileSize   int64         `yaml:"max_file_size" default:"5242880"`
		ContentCap    int           `yaml:"content_cap" default:"3000"`
		MaxRepos      int           `yaml:"max_repos" default:"10"`
		MaxConcurrent int           `yaml:"max_concurrent" default:"3"`
		RateLimit     float64       `yaml:"rate_limit" default:"2"` // requests per second per host
		RateBurst     int           `yaml:"rate_burst" default:"4"`
		MaxRetries    int           `yaml:"max_retries" default:"3"`
	} `yaml:"ingest"`

	// Verification.Threshold gates the second crew. An explicit null in the
	// YAML disables the gate entirely so every submission is verified.
	Verification struct {
		Threshold *float64 `yaml:"threshold"`
	} `yaml:"verification"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Callback struct {
		URL        string        `yaml:"url"`
		Timeout    time.Duration `yaml:"timeout" default:"30s"`
		MaxRetries int           `yaml:"max_retries" default:"3"`
		Enabled    bool          `yaml:"enabled" default:"false"`
	} `yaml:"callback"`

	Export struct {
		Enabled   bool   `yaml:"enabled" default:"false"`
		OutputDir string `yaml:"output_dir" default:"./analysis-output"`
	} `yaml:"export"`
}

// DefaultVerificationThreshold applies when the config never mentions one
const DefaultVerificationThreshold = 65.0

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	// Expand ${VAR} syntax
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	// Expand $VAR syntax (but avoid replacing ${VAR} that was already processed)
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.BodyLimit = "10M"

	config.Jobs.Workers = 4
	config.Jobs.QueueSize = 64
	config.Jobs.TaskTimeout = 600 * time.Second
	config.Jobs.CleanupInterval = 1 * time.Hour
	config.Jobs.MaxJobAge = 24 * time.Hour
	config.Jobs.Store = "memory"

	config.LLM.Provider = "claude"
	config.LLM.Model = "claude-3-haiku-20240307"
	config.LLM.MaxTokens = 8192
	config.LLM.Temperature = 0.1
	config.LLM.Timeout = 120 * time.Second

	config.Firecrawl.APIURL = "https://api.firecrawl.dev"
	config.Firecrawl.Version = "v1"
	config.Firecrawl.SubmitTimeout = 15 * time.Second
	config.Firecrawl.PollTimeout = 10 * time.Second
	config.Firecrawl.PollInterval = 2 * time.Second
	config.Firecrawl.MaxPollAttempts = 15
	config.Firecrawl.MaxRetries = 3
	config.Firecrawl.Formats = []string{"markdown"}

	config.Ingest.BaseURL = "https://gitingest.com"
	config.Ingest.Timeout = 120 * time.Second
	config.Ingest.MaxFileSize = 5 * 1024 * 1024
	config.Ingest.ContentCap = 3000
	config.Ingest.MaxRepos = 10
	config.Ingest.MaxConcurrent = 3
	config.Ingest.RateLimit = 2
	config.Ingest.RateBurst = 4
	config.Ingest.MaxRetries = 3

	// Pointer default so an explicit YAML null can knock the gate out
	threshold := DefaultVerificationThreshold
	config.Verification.Threshold = &threshold

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.Callback.Timeout = 30 * time.Second
	config.Callback.MaxRetries = 3
	config.Callback.Enabled = false

	config.Export.Enabled = false
	config.Export.OutputDir = "./analysis-output"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// BodyLimitBytes converts the configured body limit ("512K", "10M", "1G")
// into bytes. Unparseable values fall back to 10MB.
func (c *Config) BodyLimitBytes() int64 {
	const fallback = 10 * 1024 * 1024

	s := strings.TrimSpace(strings.ToUpper(c.Server.BodyLimit))
	s = strings.TrimSuffix(s, "B")
	if s == "" {
		return fallback
	}

	multiplier := int64(1)
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1024
		s = s[:len(s)-1]
	case 'M':
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	case 'G':
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n * multiplier
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if bodyLimit := os.Getenv("BODY_LIMIT"); bodyLimit != "" {
		c.Server.BodyLimit = bodyLimit
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if firecrawlAPIKey := os.Getenv("FIRECRAWL_API_KEY"); firecrawlAPIKey != "" {
		c.Firecrawl.APIKey = firecrawlAPIKey
	}

	if firecrawlAPIURL := os.Getenv("FIRECRAWL_API_URL"); firecrawlAPIURL != "" {
		c.Firecrawl.APIURL = firecrawlAPIURL
	}

	if firecrawlVersion := os.Getenv("FIRECRAWL_VERSION"); firecrawlVersion != "" {
		c.Firecrawl.Version = firecrawlVersion
	}

	if ingestBaseURL := os.Getenv("INGEST_BASE_URL"); ingestBaseURL != "" {
		c.Ingest.BaseURL = ingestBaseURL
	}

	if ingestAPIKey := os.Getenv("INGEST_API_KEY"); ingestAPIKey != "" {
		c.Ingest.APIKey = ingestAPIKey
	}

	if ingestTimeout := os.Getenv("INGEST_TIMEOUT"); ingestTimeout != "" {
		if timeout, err := time.ParseDuration(ingestTimeout); err == nil {
			c.Ingest.Timeout = timeout
		}
	}

	// VERIFICATION_THRESHOLD accepts a number, or "none"/"null" to disable the gate
	if threshold := os.Getenv("VERIFICATION_THRESHOLD"); threshold != "" {
		switch strings.ToLower(threshold) {
		case "none", "null":
			c.Verification.Threshold = nil
		default:
			if v, err := strconv.ParseFloat(threshold, 64); err == nil {
				c.Verification.Threshold = &v
			}
		}
	}

	if store := os.Getenv("JOB_STORE"); store != "" {
		c.Jobs.Store = store
	}

	if workers := os.Getenv("JOB_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			c.Jobs.Workers = w
		}
	}

	if queueSize := os.Getenv("JOB_QUEUE_SIZE"); queueSize != "" {
		if q, err := strconv.Atoi(queueSize); err == nil {
			c.Jobs.QueueSize = q
		}
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	// Callback configuration
	if callbackURL := os.Getenv("CALLBACK_URL"); callbackURL != "" {
		c.Callback.URL = callbackURL
		c.Callback.Enabled = true
	}

	if callbackTimeout := os.Getenv("CALLBACK_TIMEOUT"); callbackTimeout != "" {
		if timeout, err := time.ParseDuration(callbackTimeout); err == nil {
			c.Callback.Timeout = timeout
		}
	}

	if callbackMaxRetries := os.Getenv("CALLBACK_MAX_RETRIES"); callbackMaxRetries != "" {
		if retries, err := strconv.Atoi(callbackMaxRetries); err == nil {
			c.Callback.MaxRetries = retries
		}
	}

	if callbackEnabled := os.Getenv("CALLBACK_ENABLED"); callbackEnabled != "" {
		c.Callback.Enabled = callbackEnabled == "true" || callbackEnabled == "1"
	}

	// Export configuration
	if exportEnabled := os.Getenv("EXPORT_ENABLED"); exportEnabled != "" {
		c.Export.Enabled = exportEnabled == "true" || exportEnabled == "1"
	}

	if outputDir := os.Getenv("EXPORT_OUTPUT_DIR"); outputDir != "" {
		c.Export.OutputDir = outputDir
	}
}
