// Package storage persists indexed transactions to the database and the
// search index, and tracks the ingestion watermark.
package storage

import (
	"encoding/json"
	"time"
)

// TransactionRecord is the flat row persisted to PostgreSQL
type TransactionRecord struct {
	TxDigest                 string          `db:"tx_digest" json:"tx_digest"`
	CheckpointSequenceNumber int64           `db:"checkpoint_sequence_number" json:"checkpoint_sequence_number"`
	Sender                   string          `db:"sender" json:"sender"`
	TimestampMs              int64           `db:"timestamp_ms" json:"timestamp_ms"`
	ExecutionStatus          string          `db:"execution_status" json:"execution_status"`
	RawTransaction           json.RawMessage `db:"raw_transaction" json:"raw_transaction"`
	RawEffects               json.RawMessage `db:"raw_effects" json:"raw_effects,omitempty"`
	CreatedAt                time.Time       `db:"created_at" json:"created_at"`
}

// SearchDocument is the flattened document indexed for search and
// aggregation
type SearchDocument struct {
	TxDigest                 string    `json:"tx_digest"`
	CheckpointSequenceNumber int64     `json:"checkpoint_sequence_number"`
	Timestamp                time.Time `json:"timestamp_ms"`

	Sender          string `json:"sender"`
	ExecutionStatus string `json:"execution_status"`
	Kind            string `json:"kind"`

	Gas       SearchGas        `json:"gas"`
	MoveCalls []SearchMoveCall `json:"move_calls"`
	Objects   []SearchObject   `json:"objects"`
	Effects   SearchEffects    `json:"effects"`
	Events    []SearchEvent    `json:"events"`

	// Flattened for aggregation
	Packages  []string `json:"packages"`
	Modules   []string `json:"modules"`
	Functions []string `json:"functions"`
}

// SearchGas carries the gas terms and costs
type SearchGas struct {
	Owner           string `json:"owner"`
	Budget          int64  `json:"budget"`
	Price           int64  `json:"price"`
	ComputationCost *int64 `json:"computation_cost,omitempty"`
	StorageCost     *int64 `json:"storage_cost,omitempty"`
	StorageRebate   *int64 `json:"storage_rebate,omitempty"`
}

// SearchMoveCall identifies one invoked entry function
type SearchMoveCall struct {
	Package  string `json:"package"`
	Module   string `json:"module"`
	Function string `json:"function"`
	FullName string `json:"full_name"`
}

// SearchObject describes one object touched by the transaction
type SearchObject struct {
	ObjectID string `json:"object_id"`
	Type     string `json:"type,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Change   string `json:"change"` // "created", "mutated", "deleted"
}

// SearchEffects summarizes object deltas
type SearchEffects struct {
	CreatedCount int `json:"created_count"`
	MutatedCount int `json:"mutated_count"`
	DeletedCount int `json:"deleted_count"`
}

// SearchEvent describes one emitted event
type SearchEvent struct {
	Type    string `json:"type"`
	Package string `json:"package"`
	Module  string `json:"module"`
	Sender  string `json:"sender"`
}
