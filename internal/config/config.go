package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source" mapstructure:"source"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Discord DiscordConfig `yaml:"discord" mapstructure:"discord"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SourceConfig identifies the expert pages to monitor and the login flow.
type SourceConfig struct {
	URLs     []string `yaml:"urls" mapstructure:"urls"`
	LoginURL string   `yaml:"login_url" mapstructure:"login_url"`
	Email    string   `yaml:"email" mapstructure:"email"`
	Password string   `yaml:"password" mapstructure:"password"`
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBodyKB     int     `yaml:"max_body_kb" mapstructure:"max_body_kb"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	MaxRetries    int     `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent     string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxConcurrent int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// Timeout returns the fetch timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// ExtractConfig configures the extraction engine.
type ExtractConfig struct {
	// ContextWindow is how many characters around a matchup are scanned
	// for selection/price/stake cues. Needs to cover roughly a paragraph
	// in each direction.
	ContextWindow int `yaml:"context_window" mapstructure:"context_window"`

	// MaxAnalysisLen bounds the analysis excerpt.
	MaxAnalysisLen int `yaml:"max_analysis_len" mapstructure:"max_analysis_len"`
}

// StoreConfig configures the history store backend.
type StoreConfig struct {
	// Driver is one of "file", "sqlite", "postgres".
	Driver string `yaml:"driver" mapstructure:"driver"`

	// Path is the state file or sqlite database path.
	Path string `yaml:"path" mapstructure:"path"`

	// DatabaseURL is the postgres connection string.
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DiscordConfig configures webhook delivery.
type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
	Username   string `yaml:"username" mapstructure:"username"`

	// SendStatus also posts a green "no changes" embed on quiet runs.
	SendStatus bool `yaml:"send_status" mapstructure:"send_status"`
}

// ServerConfig configures the read-only status server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PICKWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a meaningful default still need one so
	// AutomaticEnv surfaces their env values into Unmarshal.
	v.SetDefault("source.urls", []string{})
	v.SetDefault("source.login_url", "")
	v.SetDefault("source.email", "")
	v.SetDefault("source.password", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("discord.webhook_url", "")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_body_kb", 1024)
	v.SetDefault("fetch.rate_per_sec", 1.0)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0")
	v.SetDefault("fetch.max_concurrent", 3)
	v.SetDefault("extract.context_window", 600)
	v.SetDefault("extract.max_analysis_len", 240)
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "pickwatch_state.json")
	v.SetDefault("discord.username", "Pick Alerts")
	v.SetDefault("discord.send_status", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
