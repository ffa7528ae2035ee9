package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/HoangDucBach/sui-risk-indexer/pkg/redis"
)

const (
	watermarkKey    = "sui-risk-indexer:watermark"
	sandwichKeyFmt  = "sui-risk-indexer:sandwich:%s|%s|%s"
	sandwichDedupeT = 24 * time.Hour
)

// WatermarkStore tracks the last committed checkpoint and deduplicates
// sandwich triples across restarts. All methods are nil-receiver safe so
// the store stays optional.
type WatermarkStore struct {
	cache redis.Client
}

// NewWatermarkStore creates a store over the given Redis client
func NewWatermarkStore(cache redis.Client) *WatermarkStore {
	return &WatermarkStore{cache: cache}
}

// LastCheckpoint returns the highest committed checkpoint sequence, with
// ok=false when no watermark has been written yet.
func (s *WatermarkStore) LastCheckpoint(ctx context.Context) (int64, bool, error) {
	if s == nil {
		return 0, false, nil
	}
	val, err := s.cache.Get(ctx, watermarkKey)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read watermark: %w", err)
	}
	if val == "" {
		return 0, false, nil
	}
	seq, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt watermark %q: %w", val, err)
	}
	return seq, true, nil
}

// Commit records a checkpoint as fully processed
func (s *WatermarkStore) Commit(ctx context.Context, sequence int64) error {
	if s == nil {
		return nil
	}
	return s.cache.Set(ctx, watermarkKey, strconv.FormatInt(sequence, 10), 0)
}

// MarkSandwich claims a sandwich triple; reports true when this process is
// the first to emit it.
func (s *WatermarkStore) MarkSandwich(ctx context.Context, frontTx, victimTx, backTx string) (bool, error) {
	if s == nil {
		return true, nil
	}
	key := fmt.Sprintf(sandwichKeyFmt, frontTx, victimTx, backTx)
	return s.cache.SetNX(ctx, key, 1, sandwichDedupeT)
}
