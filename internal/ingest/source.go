// Package ingest delivers committed checkpoints to the indexer in
// non-decreasing sequence order.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/HoangDucBach/sui-risk-indexer/internal/sui"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/kafka"
)

// Source yields checkpoints until the stream ends or the context is
// cancelled. Next returns io.EOF-like ErrSourceClosed when drained.
type Source interface {
	Next(ctx context.Context) (*sui.Checkpoint, error)
	Close() error
}

// ErrSourceClosed is returned by Next when the source is exhausted
var ErrSourceClosed = fmt.Errorf("checkpoint source closed")

// KafkaSource consumes checkpoints published as JSON messages
type KafkaSource struct {
	reader *kafkago.Reader
}

// NewKafkaSource creates a consumer-group-backed source
func NewKafkaSource(cfg kafka.ReaderConfig) *KafkaSource {
	return &KafkaSource{reader: kafka.NewReader(cfg)}
}

// Next blocks until a checkpoint message arrives
func (s *KafkaSource) Next(ctx context.Context) (*sui.Checkpoint, error) {
	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to read checkpoint message: %w", err)
		}

		var cp sui.Checkpoint
		if err := json.Unmarshal(msg.Value, &cp); err != nil {
			// Malformed message; skip rather than stall the stream
			continue
		}
		return &cp, nil
	}
}

// Close shuts the underlying reader down
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}

// ChannelSource serves checkpoints from an in-memory channel, used in tests
// and local replay tooling.
type ChannelSource struct {
	ch chan *sui.Checkpoint
}

// NewChannelSource creates a channel source with the given buffer
func NewChannelSource(buffer int) *ChannelSource {
	return &ChannelSource{ch: make(chan *sui.Checkpoint, buffer)}
}

// Push enqueues a checkpoint
func (s *ChannelSource) Push(cp *sui.Checkpoint) {
	s.ch <- cp
}

// Next pops the next checkpoint, or reports closure
func (s *ChannelSource) Next(ctx context.Context) (*sui.Checkpoint, error) {
	select {
	case cp, ok := <-s.ch:
		if !ok {
			return nil, ErrSourceClosed
		}
		return cp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the source; pending checkpoints are still drained by Next
func (s *ChannelSource) Close() error {
	close(s.ch)
	return nil
}
