// Package config loads runtime settings from a config file, STORY_* environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "STORY"

// Config is the full runtime configuration.
type Config struct {
	LLM         LLMConfig         `mapstructure:"llm"`
	Compression CompressionConfig `mapstructure:"compression"`
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	Log         LogConfig         `mapstructure:"log"`
}

// LLMConfig selects and authenticates the text generation service.
type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type CompressionConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var keys = []string{
	"llm.provider", "llm.model", "llm.api_key", "llm.base_url", "llm.timeout",
	"compression.concurrency", "server.addr", "store.dsn", "log.level",
}

// New returns a viper instance with defaults and env bindings applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("compression.concurrency", 4)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("store.dsn", "stories.db")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv alone does not feed Unmarshal for keys without a default.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads .env (if present) and path (if non-empty) into v and decodes the result.
func Load(v *viper.Viper, path string) (Config, error) {
	_ = godotenv.Load()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings needed to reach the service.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case "":
		return errors.New("llm.provider is required")
	case "mock":
		return nil
	case "openai", "deepseek", "anthropic", "gemini":
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required for provider %s (or set %s_LLM_API_KEY)", c.LLM.Provider, envPrefix)
	}
	if c.LLM.Provider == "deepseek" && c.LLM.BaseURL == "" {
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
		return errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
	}
	return nil
}
