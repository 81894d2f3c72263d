package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     Log     `yaml:"log"`
	Server  Server  `yaml:"server"`
	Search  Search  `yaml:"search"`
	Cache   Cache   `yaml:"cache"`
	Extract Extract `yaml:"extract"`
	Track   Track   `yaml:"track"`
	MCP     MCP     `yaml:"mcp"`
}

type Server struct {
	// Address the HTTP API listens on
	Listen string `yaml:"listen" example:":8080" validate:"required"`
}

type Search struct {
	// Per-provider timeout for search fan-out
	TimeoutSeconds int `yaml:"timeout_seconds" example:"10" validate:"gt=0"`
	// Upper bound on concurrent provider lookups
	MaxConcurrency int `yaml:"max_concurrency" example:"8" validate:"gt=0"`
	// Result count when the caller does not specify a limit
	DefaultLimit int `yaml:"default_limit" example:"10" validate:"gt=0"`
}

type Cache struct {
	// Redis address for the shared search cache, empty disables L2
	RedisAddr string `yaml:"redis_addr" example:"localhost:6379"`
	// Search cache entry lifetime
	TTLSeconds int `yaml:"ttl_seconds" example:"60" validate:"gt=0"`
}

type Extract struct {
	// Optional LLM-backed extraction, keyword matching is used when unset
	LLM ModelConfig `yaml:"llm"`
}

type ModelConfig struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1"`
	// API token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX"`
	// Model name
	Model string `yaml:"model" example:"gpt-4o-mini"`
}

type Track struct {
	// Interval between order status polls
	PollIntervalSeconds int `yaml:"poll_interval_seconds" example:"5" validate:"gt=0"`
}

type MCP struct {
	// Address of the MCP SSE server, empty disables it
	Listen string `yaml:"listen" example:":8081"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

func LoadFile(path string) (*Config, error) {
	var result Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	result.fillDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

// Default returns a config with every default applied, used by tests and by
// embedders that do not carry a config file.
func Default() *Config {
	var result Config
	result.fillDefaults()

	return &result
}

func (c *Config) fillDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Search.TimeoutSeconds == 0 {
		c.Search.TimeoutSeconds = 10
	}
	if c.Search.MaxConcurrency == 0 {
		c.Search.MaxConcurrency = 8
	}
	if c.Search.DefaultLimit == 0 {
		c.Search.DefaultLimit = 10
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 60
	}
	if c.Track.PollIntervalSeconds == 0 {
		c.Track.PollIntervalSeconds = 5
	}
}
