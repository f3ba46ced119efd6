package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	LLM     LLMConfig
	OpenAI  OpenAIConfig
	Groq    GroqConfig
	Scraper ScraperConfig
	Worker  WorkerConfig
	Jobs    JobsConfig
	Cache   CacheConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LLMConfig selects which summarization provider is active.
type LLMConfig struct {
	Provider string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type ScraperConfig struct {
	UserAgent string
	Timeout   int // seconds
	MinLength int // characters; shorter extractions are rejected
	MaxLength int // characters; longer extractions are truncated
}

type WorkerConfig struct {
	Concurrency int
}

type JobsConfig struct {
	Retention int // hours to keep job records
}

type CacheConfig struct {
	TTL int // hours; 0 means entries never expire
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("OPENAI_API_KEY")
	readSecret("GROQ_API_KEY")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("llm.provider", "LLM_PROVIDER")
	_ = viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = viper.BindEnv("openai.model", "OPENAI_MODEL")
	_ = viper.BindEnv("groq.api_key", "GROQ_API_KEY")
	_ = viper.BindEnv("groq.base_url", "GROQ_BASE_URL")
	_ = viper.BindEnv("groq.model", "GROQ_MODEL")
	_ = viper.BindEnv("scraper.user_agent", "SCRAPER_USER_AGENT")
	_ = viper.BindEnv("scraper.timeout", "SCRAPER_TIMEOUT_SECONDS")
	_ = viper.BindEnv("scraper.min_length", "SCRAPER_MIN_LENGTH")
	_ = viper.BindEnv("scraper.max_length", "SCRAPER_MAX_LENGTH")
	_ = viper.BindEnv("worker.concurrency", "WORKER_CONCURRENCY")
	_ = viper.BindEnv("jobs.retention", "JOB_RETENTION_HOURS")
	_ = viper.BindEnv("cache.ttl", "CACHE_TTL_HOURS")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// LLM defaults
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("groq.model", "llama-3.3-70b-versatile")

	// Scraper defaults
	viper.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36")
	viper.SetDefault("scraper.timeout", 15)
	viper.SetDefault("scraper.min_length", 50)
	viper.SetDefault("scraper.max_length", 12000)

	// Worker defaults
	viper.SetDefault("worker.concurrency", 10)

	// Retention defaults
	viper.SetDefault("jobs.retention", 24)
	viper.SetDefault("cache.ttl", 0)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			Provider: viper.GetString("llm.provider"),
		},
		OpenAI: OpenAIConfig{
			APIKey: viper.GetString("openai.api_key"),
			Model:  viper.GetString("openai.model"),
		},
		Groq: GroqConfig{
			APIKey:  viper.GetString("groq.api_key"),
			BaseURL: viper.GetString("groq.base_url"),
			Model:   viper.GetString("groq.model"),
		},
		Scraper: ScraperConfig{
			UserAgent: viper.GetString("scraper.user_agent"),
			Timeout:   viper.GetInt("scraper.timeout"),
			MinLength: viper.GetInt("scraper.min_length"),
			MaxLength: viper.GetInt("scraper.max_length"),
		},
		Worker: WorkerConfig{
			Concurrency: viper.GetInt("worker.concurrency"),
		},
		Jobs: JobsConfig{
			Retention: viper.GetInt("jobs.retention"),
		},
		Cache: CacheConfig{
			TTL: viper.GetInt("cache.ttl"),
		},
	}

	return cfg, nil
}
