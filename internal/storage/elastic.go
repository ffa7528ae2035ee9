package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/pkg/config"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

const indexMappings = `{
  "mappings": {
    "properties": {
      "tx_digest":                  {"type": "keyword"},
      "checkpoint_sequence_number": {"type": "long"},
      "timestamp_ms":               {"type": "date"},
      "sender":                     {"type": "keyword"},
      "execution_status":           {"type": "keyword"},
      "kind":                       {"type": "keyword"},
      "packages":                   {"type": "keyword"},
      "modules":                    {"type": "keyword"},
      "functions":                  {"type": "keyword"},
      "move_calls": {
        "properties": {
          "package":   {"type": "keyword"},
          "module":    {"type": "keyword"},
          "function":  {"type": "keyword"},
          "full_name": {"type": "keyword"}
        }
      },
      "events": {
        "properties": {
          "type":    {"type": "keyword"},
          "package": {"type": "keyword"},
          "module":  {"type": "keyword"},
          "sender":  {"type": "keyword"}
        }
      }
    }
  }
}`

// Indexer is the search-index sink. Indexing failures are reported to the
// caller but are expected to be treated as non-fatal.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger *logger.Logger
}

// NewIndexer creates a search indexer for the configured cluster
func NewIndexer(cfg config.ElasticsearchConfig, log *logger.Logger) (*Indexer, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Indexer{
		client: client,
		index:  cfg.Index,
		logger: log.Named("search-indexer"),
	}, nil
}

// EnsureIndex creates the index with mappings if it does not exist
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := ix.client.Indices.Exists([]string{ix.index},
		ix.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer exists.Body.Close()

	if exists.StatusCode == 200 {
		return nil
	}

	res, err := ix.client.Indices.Create(ix.index,
		ix.client.Indices.Create.WithContext(ctx),
		ix.client.Indices.Create.WithBody(strings.NewReader(indexMappings)))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index creation rejected: %s", res.String())
	}

	ix.logger.Info("Created search index", zap.String("index", ix.index))
	return nil
}

// BulkIndex indexes documents keyed by tx digest. Returns the number of
// documents submitted.
func (ix *Indexer) BulkIndex(ctx context.Context, docs []SearchDocument) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	body, err := bulkBody(docs)
	if err != nil {
		return 0, err
	}

	req := esapi.BulkRequest{
		Index: ix.index,
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, ix.client)
	if err != nil {
		return 0, fmt.Errorf("failed to send bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("bulk request rejected: %s", res.String())
	}

	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Error json.RawMessage `json:"error,omitempty"`
		} `json:"items"`
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read bulk response: %w", err)
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	if parsed.Errors {
		for _, item := range parsed.Items {
			for _, op := range item {
				if len(op.Error) > 0 {
					ix.logger.Warn("Document indexing failed",
						zap.ByteString("error", op.Error))
				}
			}
		}
	}

	return len(docs), nil
}

// bulkBody builds the NDJSON body of a bulk index request
func bulkBody(docs []SearchDocument) ([]byte, error) {
	var buf bytes.Buffer
	for i := range docs {
		header := map[string]map[string]string{
			"index": {"_id": docs[i].TxDigest},
		}
		h, err := json.Marshal(header)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal bulk header: %w", err)
		}
		d, err := json.Marshal(&docs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document %s: %w", docs[i].TxDigest, err)
		}
		buf.Write(h)
		buf.WriteByte('\n')
		buf.Write(d)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
