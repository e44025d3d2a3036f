package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Upbit     UpbitConfig     `yaml:"upbit"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Trading   TradingConfig   `yaml:"trading"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Chart     ChartConfig     `yaml:"chart"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Web       WebConfig       `yaml:"web"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type UpbitConfig struct {
	AccessKey      string  `yaml:"access_key"`
	SecretKey      string  `yaml:"secret_key"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RateLimit      float64 `yaml:"rate_limit"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type TradingConfig struct {
	Market               string  `yaml:"market"`
	Interval             string  `yaml:"interval"`
	ReflectionWindowDays int     `yaml:"reflection_window_days"`
	MinOrderKRW          float64 `yaml:"min_order_krw"`
	FeeBuffer            float64 `yaml:"fee_buffer"`
	DailyCandles         int     `yaml:"daily_candles"`
	HourlyCandles        int     `yaml:"hourly_candles"`
}

type SentimentConfig struct {
	SerpAPIKey     string `yaml:"serpapi_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ChartConfig struct {
	Enabled        bool   `yaml:"enabled"`
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (*Config, error) {
	// Secrets may live in a .env file next to the binary, like the
	// UPBIT_ACCESS_KEY / OPENAI_API_KEY vars the exchange docs suggest.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("UPBIT_ACCESS_KEY"); v != "" {
		cfg.Upbit.AccessKey = v
	}
	if v := os.Getenv("UPBIT_SECRET_KEY"); v != "" {
		cfg.Upbit.SecretKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("SERPAPI_API_KEY"); v != "" {
		cfg.Sentiment.SerpAPIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Upbit.TimeoutSeconds == 0 {
		cfg.Upbit.TimeoutSeconds = 30
	}
	if cfg.Upbit.RateLimit == 0 {
		cfg.Upbit.RateLimit = 8
	}
	if cfg.Upbit.RateLimitBurst == 0 {
		cfg.Upbit.RateLimitBurst = 4
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o"
	}
	if cfg.OpenAI.TimeoutSeconds == 0 {
		cfg.OpenAI.TimeoutSeconds = 120
	}
	if cfg.Trading.Market == "" {
		cfg.Trading.Market = "KRW-BTC"
	}
	if cfg.Trading.Interval == "" {
		cfg.Trading.Interval = "1h"
	}
	if cfg.Trading.ReflectionWindowDays == 0 {
		cfg.Trading.ReflectionWindowDays = 7
	}
	if cfg.Trading.MinOrderKRW == 0 {
		cfg.Trading.MinOrderKRW = 5000
	}
	if cfg.Trading.FeeBuffer == 0 {
		cfg.Trading.FeeBuffer = 0.0005
	}
	if cfg.Trading.DailyCandles == 0 {
		cfg.Trading.DailyCandles = 30
	}
	if cfg.Trading.HourlyCandles == 0 {
		cfg.Trading.HourlyCandles = 24
	}
	if cfg.Sentiment.TimeoutSeconds == 0 {
		cfg.Sentiment.TimeoutSeconds = 15
	}
	if cfg.Chart.URL == "" {
		cfg.Chart.URL = "https://upbit.com/full_chart?code=CRIX.UPBIT.KRW-BTC"
	}
	if cfg.Chart.TimeoutSeconds == 0 {
		cfg.Chart.TimeoutSeconds = 45
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Upbit.AccessKey == "" {
		return fmt.Errorf("upbit.access_key is required")
	}
	if c.Upbit.SecretKey == "" {
		return fmt.Errorf("upbit.secret_key is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	if _, err := time.ParseDuration(c.Trading.Interval); err != nil {
		return fmt.Errorf("invalid trading.interval %q: %w", c.Trading.Interval, err)
	}
	if c.Trading.FeeBuffer < 0 || c.Trading.FeeBuffer >= 1 {
		return fmt.Errorf("trading.fee_buffer must be in [0, 1)")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

func (c *Config) TradingInterval() time.Duration {
	d, _ := time.ParseDuration(c.Trading.Interval)
	return d
}

func (c *Config) UpbitTimeout() time.Duration {
	return time.Duration(c.Upbit.TimeoutSeconds) * time.Second
}

func (c *Config) OpenAITimeout() time.Duration {
	return time.Duration(c.OpenAI.TimeoutSeconds) * time.Second
}

func (c *Config) SentimentTimeout() time.Duration {
	return time.Duration(c.Sentiment.TimeoutSeconds) * time.Second
}

func (c *Config) ChartTimeout() time.Duration {
	return time.Duration(c.Chart.TimeoutSeconds) * time.Second
}
