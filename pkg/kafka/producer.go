package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Producer interface for Kafka producer
type Producer interface {
	Produce(ctx context.Context, topic string, key []byte, value []byte) error
	ProduceJSON(ctx context.Context, topic string, key string, value interface{}) error
	Close() error
}

// Config represents Kafka producer configuration
type Config struct {
	Brokers      []string      `yaml:"brokers"`
	Timeout      time.Duration `yaml:"timeout"`
	Compression  string        `yaml:"compression"`
	BatchSize    int           `yaml:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
}

// KafkaProducer implements Producer interface
type KafkaProducer struct {
	config Config
	logger *logger.Logger
	writer *kafka.Writer
}

// NewProducer creates a new Kafka producer
func NewProducer(config Config, logger *logger.Logger) (Producer, error) {
	if len(config.Brokers) == 0 {
		config.Brokers = []string{"localhost:9092"}
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.BatchTimeout == 0 {
		config.BatchTimeout = 1 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: config.BatchTimeout,
		WriteTimeout: config.Timeout,
	}

	if config.BatchSize > 0 {
		writer.BatchSize = config.BatchSize
	}

	switch config.Compression {
	case "gzip":
		writer.Compression = kafka.Gzip
	case "lz4":
		writer.Compression = kafka.Lz4
	case "zstd":
		writer.Compression = kafka.Zstd
	default:
		writer.Compression = kafka.Snappy
	}

	return &KafkaProducer{
		config: config,
		logger: logger.Named("kafka-producer"),
		writer: writer,
	}, nil
}

// Produce sends a message to the given topic
func (p *KafkaProducer) Produce(ctx context.Context, topic string, key []byte, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce message",
			zap.String("topic", topic),
			zap.Error(err))
		return fmt.Errorf("failed to produce message to %s: %w", topic, err)
	}
	return nil
}

// ProduceJSON marshals value to JSON and sends it to the given topic
func (p *KafkaProducer) ProduceJSON(ctx context.Context, topic string, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return p.Produce(ctx, topic, []byte(key), data)
}

// Close closes the producer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
