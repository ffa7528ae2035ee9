package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// ReaderConfig represents Kafka consumer configuration
type ReaderConfig struct {
	Brokers []string      `yaml:"brokers"`
	Topic   string        `yaml:"topic"`
	GroupID string        `yaml:"group_id"`
	MaxWait time.Duration `yaml:"max_wait"`
}

// NewReader creates a kafka-go reader for a consumer group
func NewReader(cfg ReaderConfig) *kafka.Reader {
	if len(cfg.Brokers) == 0 {
		cfg.Brokers = []string{"localhost:9092"}
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = time.Second
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MaxWait:  cfg.MaxWait,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}
