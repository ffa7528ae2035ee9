// Package sui models the slice of the checkpoint stream this indexer
// consumes: committed checkpoints, their executed transactions and the
// contract events those transactions emitted.
package sui

// Checkpoint is an atomic batch of executed transactions delivered with a
// monotonic sequence number and wall-clock timestamp. The ingestion bus
// guarantees non-decreasing sequence order.
type Checkpoint struct {
	Summary      CheckpointSummary      `json:"summary"`
	Transactions []*ExecutedTransaction `json:"transactions"`
}

// CheckpointSummary carries checkpoint-level metadata
type CheckpointSummary struct {
	SequenceNumber int64 `json:"sequence_number"`
	TimestampMs    int64 `json:"timestamp_ms"`
}

// ExecutedTransaction is a transaction together with its execution effects
// and the events it emitted. Events may be absent for transactions that
// touched no event-emitting code.
type ExecutedTransaction struct {
	Transaction TransactionData    `json:"transaction"`
	Effects     TransactionEffects `json:"effects"`
	Events      *TransactionEvents `json:"events,omitempty"`
}

// TransactionData carries the signed transaction content
type TransactionData struct {
	Digest   string     `json:"digest"`
	Sender   string     `json:"sender"`
	Kind     string     `json:"kind"`
	GasData  GasData    `json:"gas_data"`
	Commands []MoveCall `json:"commands,omitempty"`
}

// MoveCall identifies one programmable command's entry function
type MoveCall struct {
	Package  string `json:"package"`
	Module   string `json:"module"`
	Function string `json:"function"`
}

// GasData carries the gas payment terms of a transaction
type GasData struct {
	Owner  string `json:"owner"`
	Budget int64  `json:"budget"`
	Price  int64  `json:"price"`
}

// TransactionEffects carries the execution outcome
type TransactionEffects struct {
	Status  string          `json:"status"`
	GasUsed *GasUsage       `json:"gas_used,omitempty"`
	Created []ObjectChange  `json:"created,omitempty"`
	Mutated []ObjectChange  `json:"mutated,omitempty"`
	Deleted []RemovedObject `json:"deleted,omitempty"`
}

// StatusSuccess is the effects status of a successfully executed transaction
const StatusSuccess = "success"

// GasUsage carries the gas cost breakdown from effects
type GasUsage struct {
	ComputationCost int64 `json:"computation_cost"`
	StorageCost     int64 `json:"storage_cost"`
	StorageRebate   int64 `json:"storage_rebate"`
}

// ObjectChange describes a created or mutated object in effects
type ObjectChange struct {
	ObjectID string `json:"object_id"`
	Version  uint64 `json:"version"`
	Digest   string `json:"digest"`
	Owner    string `json:"owner,omitempty"`
	Type     string `json:"type,omitempty"`
}

// RemovedObject describes a deleted or wrapped object in effects
type RemovedObject struct {
	ObjectID string `json:"object_id"`
	Version  uint64 `json:"version"`
	Digest   string `json:"digest"`
}

// TransactionEvents wraps the ordered event list of one transaction
type TransactionEvents struct {
	Data []Event `json:"data"`
}

// Event is one emitted contract event. Contents holds the canonical binary
// payload; TypeName is the short struct name used to select a decoder.
type Event struct {
	TypeName   string   `json:"type_name"`
	PackageID  string   `json:"package_id"`
	Module     string   `json:"module"`
	Sender     string   `json:"sender"`
	Contents   []byte   `json:"contents_bytes"`
	TypeParams []string `json:"type_params,omitempty"`
}

// Succeeded reports whether the transaction executed successfully
func (t *ExecutedTransaction) Succeeded() bool {
	return t.Effects.Status == StatusSuccess
}
