package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Binance struct {
		ApiKey    string `envconfig:"BINANCE_API_KEY" required:"true"`
		ApiSecret string `envconfig:"BINANCE_API_SECRET" required:"true"`
		ApiDsn    string `envconfig:"BINANCE_API_DSN" default:"https://testnet.binancefuture.com"`
		StreamDsn string `envconfig:"BINANCE_STREAM_DSN" default:"wss://stream.binancefuture.com"`
	}

	Database struct {
		MysqlDsn string `envconfig:"DATABASE_DSN" required:"true"`
		RedisDsn string `envconfig:"REDIS_DSN" default:"redis:6379"`
	}

	Trading struct {
		Symbol                     string        `envconfig:"TRADING_SYMBOL" default:"BTCUSDT"`
		RiskPerTrade               float64       `envconfig:"RISK_PER_TRADE" default:"0.01"`
		Leverage                   float64       `envconfig:"LEVERAGE" default:"20"`
		MinBarsRequired            int           `envconfig:"MIN_BARS_REQUIRED" default:"50"`
		RegimePersistenceThreshold int64         `envconfig:"REGIME_PERSISTENCE_THRESHOLD" default:"5"`
		CycleInterval              time.Duration `envconfig:"CYCLE_INTERVAL" default:"1m"`
	}
}

func Validate(cfg *Config) error {
	if cfg.Trading.RiskPerTrade <= 0.00 || cfg.Trading.RiskPerTrade > 0.10 {
		return fmt.Errorf("RISK_PER_TRADE must be in (0, 0.1], got %f", cfg.Trading.RiskPerTrade)
	}

	if cfg.Trading.Leverage < 1 || cfg.Trading.Leverage > 125 {
		return fmt.Errorf("LEVERAGE must be between 1 and 125, got %f", cfg.Trading.Leverage)
	}

	if cfg.Trading.MinBarsRequired < 20 {
		return fmt.Errorf("MIN_BARS_REQUIRED must be at least 20, got %d", cfg.Trading.MinBarsRequired)
	}

	if cfg.Trading.RegimePersistenceThreshold < 1 {
		return fmt.Errorf("REGIME_PERSISTENCE_THRESHOLD must be at least 1, got %d", cfg.Trading.RegimePersistenceThreshold)
	}

	return nil
}

// Load reads the optional .env file and binds environment variables. Any
// failure here is fatal at startup, nothing else in the process is.
func Load() (*Config, error) {
	pwd, _ := os.Getwd()
	if _, err := os.Stat(fmt.Sprintf("%s/.env", pwd)); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf(".env load failed: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("environment processing failed: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
