package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	SMTP      SMTPConfig      `yaml:"smtp" mapstructure:"smtp"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Gate      GateConfig      `yaml:"gate" mapstructure:"gate"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// GoogleConfig holds Places API settings.
type GoogleConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// NotionConfig holds Notion API credentials and the lead database ID.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// AnthropicConfig holds Anthropic API settings for report generation.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SMTPConfig holds outbound mail settings for the outreach job.
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
}

// CrawlConfig configures the website crawl phase.
type CrawlConfig struct {
	MaxPages      int      `yaml:"max_pages" mapstructure:"max_pages"`
	TimeoutSecs   int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	CacheTTLHours int      `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	Keywords      []string `yaml:"keywords" mapstructure:"keywords"`
	UserAgent     string   `yaml:"user_agent" mapstructure:"user_agent"`
}

// ScoringConfig holds the tunable policy parameters of the scoring engine.
// MaxNorm is the raw-score ceiling used to normalize the base score onto
// [0,5]; the default of 16 is calibrated so an operational business with
// full online visibility and moderate review friction lands near the top
// of the scale. The three weights blend base score, email quality and
// inverted review sentiment and should sum to 1.
type ScoringConfig struct {
	MaxNorm          float64 `yaml:"max_norm" mapstructure:"max_norm"`
	BaseWeight       float64 `yaml:"base_weight" mapstructure:"base_weight"`
	EmailWeight      float64 `yaml:"email_weight" mapstructure:"email_weight"`
	ReviewWeight     float64 `yaml:"review_weight" mapstructure:"review_weight"`
	NoEmailBaseline  float64 `yaml:"no_email_baseline" mapstructure:"no_email_baseline"`
	NeutralSentiment float64 `yaml:"neutral_sentiment" mapstructure:"neutral_sentiment"`
}

// GateConfig configures the enrichment gate. MinRating/MaxRating bound the
// optional "worth pitching" band and MinReviewCount requires a minimum
// sentiment sample; both checks are disabled at their zero values.
type GateConfig struct {
	MinScore       float64 `yaml:"min_score" mapstructure:"min_score"`
	MinRating      float64 `yaml:"min_rating" mapstructure:"min_rating"`
	MaxRating      float64 `yaml:"max_rating" mapstructure:"max_rating"`
	MinReviewCount int     `yaml:"min_review_count" mapstructure:"min_review_count"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentLeads int `yaml:"max_concurrent_leads" mapstructure:"max_concurrent_leads"`
}

// ServerConfig configures the webhook server.
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
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent_leads", 4)
	v.SetDefault("google.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("crawl.max_pages", 10)
	v.SetDefault("crawl.timeout_secs", 8)
	v.SetDefault("crawl.cache_ttl_hours", 24)
	v.SetDefault("crawl.keywords", []string{
		"about", "contact", "services", "service", "team", "staff",
		"faq", "support", "location", "hours",
	})
	v.SetDefault("crawl.user_agent", "Mozilla/5.0 (compatible; LeadgenBot/1.0)")
	v.SetDefault("scoring.max_norm", 16.0)
	v.SetDefault("scoring.base_weight", 0.6)
	v.SetDefault("scoring.email_weight", 0.3)
	v.SetDefault("scoring.review_weight", 0.1)
	v.SetDefault("scoring.no_email_baseline", 1.0)
	v.SetDefault("scoring.neutral_sentiment", 3.0)
	v.SetDefault("gate.min_score", 2.5)
	v.SetDefault("gate.min_rating", 0)
	v.SetDefault("gate.max_rating", 0)
	v.SetDefault("gate.min_review_count", 0)

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
