package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultTargetPackageID is the compiled-in package whose events trigger
// detection. Overridden by TARGET_PACKAGE_ID.
const DefaultTargetPackageID = "0x2f8e41dcdfbfd4c2d06e9a13f10fca55d433f0c746e679dcdd383e3a52a844d0"

// Config represents the indexer configuration
type Config struct {
	Indexer       IndexerConfig       `yaml:"indexer"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Alert         AlertConfig         `yaml:"alert"`
	Detection     DetectionConfig     `yaml:"detection"`
	Logging       LoggingConfig       `yaml:"logging"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}

// IndexerConfig represents checkpoint processing configuration
type IndexerConfig struct {
	TargetPackageID string `yaml:"target_package_id"`
}

// DatabaseConfig represents the PostgreSQL sink configuration
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig represents the watermark/dedup store configuration
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig represents checkpoint ingestion and risk event publishing
type KafkaConfig struct {
	Brokers         []string      `yaml:"brokers"`
	CheckpointTopic string        `yaml:"checkpoint_topic"`
	RiskEventTopic  string        `yaml:"risk_event_topic"`
	GroupID         string        `yaml:"group_id"`
	Timeout         time.Duration `yaml:"timeout"`
	Compression     string        `yaml:"compression"`
	BatchSize       int           `yaml:"batch_size"`
	BatchTimeout    time.Duration `yaml:"batch_timeout"`
}

// ElasticsearchConfig represents the search index sink
type ElasticsearchConfig struct {
	URL   string `yaml:"url"`
	Index string `yaml:"index"`
}

// AlertConfig represents webhook alerting
type AlertConfig struct {
	WebhookURL string        `yaml:"webhook_url"`
	MinLevel   string        `yaml:"min_level"`
	Timeout    time.Duration `yaml:"timeout"`
}

// DetectionConfig represents analyzer tuning knobs
type DetectionConfig struct {
	SandwichMaxBufferSize         int    `yaml:"sandwich_max_buffer_size"`
	SandwichMaxCheckpointDistance int64  `yaml:"sandwich_max_checkpoint_distance"`
	SandwichMinPriceImpactBps     uint64 `yaml:"sandwich_min_price_impact_bps"`
	OracleMinBorrowAmount         uint64 `yaml:"oracle_min_borrow_amount"`
	OracleMinPriceDeviationBps    uint64 `yaml:"oracle_min_price_deviation_bps"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"`
	MaxAge     int    `yaml:"max_age"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

// MetricsConfig represents the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoadConfig loads configuration from a YAML file and applies environment
// overrides. A missing file is not an error; defaults plus environment are
// enough to run.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Indexer: IndexerConfig{
			TargetPackageID: DefaultTargetPackageID,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Kafka: KafkaConfig{
			Brokers:         []string{"localhost:9092"},
			CheckpointTopic: "sui.checkpoints",
			RiskEventTopic:  "sui.risk-events",
			GroupID:         "sui-risk-indexer",
			Timeout:         10 * time.Second,
			BatchTimeout:    time.Second,
		},
		Elasticsearch: ElasticsearchConfig{
			URL:   "http://localhost:9200",
			Index: "sui-transactions",
		},
		Alert: AlertConfig{
			MinLevel: "low",
			Timeout:  10 * time.Second,
		},
		Detection: DetectionConfig{
			SandwichMaxBufferSize:         1000,
			SandwichMaxCheckpointDistance: 100,
			SandwichMinPriceImpactBps:     100,
			OracleMinBorrowAmount:         100_000_000,
			OracleMinPriceDeviationBps:    1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9184",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TARGET_PACKAGE_ID"); v != "" {
		cfg.Indexer.TargetPackageID = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ELASTICSEARCH_URL"); v != "" {
		cfg.Elasticsearch.URL = v
	}
	if v := os.Getenv("ELASTICSEARCH_INDEX"); v != "" {
		cfg.Elasticsearch.Index = v
	}
	if v := os.Getenv("ALERT_WEBHOOK_URL"); v != "" {
		cfg.Alert.WebhookURL = v
	}
	if v := os.Getenv("ALERT_MIN_LEVEL"); v != "" {
		cfg.Alert.MinLevel = v
	}
}
