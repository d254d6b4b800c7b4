package columnar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rbroekhoff/oeuf/storage"
)

// Sidecar is the small JSON summary written alongside every chunk's
// Parquet file — min/max timestamp and row count, so a downstream reader
// can decide whether to open the chunk at all without reading its footer.
//
// A future merge step that folds many chunk files into one larger file can
// recompute this sidecar as min(mins), max(maxes), sum(counts) over its
// inputs; no merger is implemented here (§10), only this contract.
type Sidecar struct {
	MinTimestampUnixSeconds int64 `json:"min_timestamp"`
	MaxTimestampUnixSeconds int64 `json:"max_timestamp"`
	RowsWritten             int   `json:"rows_written"`
}

// WriteChunk writes both halves of one chunk atomically-per-file: the
// Parquet payload at "oeuf-<timestamp>.parquet" and its sidecar at the
// same name with ".meta.json" appended. Store.Put already writes via a
// temporary name and rename (LocalStore) or a single atomic PUT
// (S3Store), so a reader never sees a half-written file of either half,
// though the pair together is not a single transaction.
func WriteChunk(ctx context.Context, store storage.Store, stamp time.Time, parquetData []byte, side Sidecar) (string, error) {
	base := fmt.Sprintf("oeuf-%s", stamp.UTC().Format(time.RFC3339))
	parquetKey := base + ".parquet"
	metaKey := parquetKey + ".meta.json"

	if err := store.Put(ctx, parquetKey, parquetData); err != nil {
		return "", fmt.Errorf("columnar: writing %s: %w", parquetKey, err)
	}
	metaBytes, err := json.Marshal(side)
	if err != nil {
		return "", fmt.Errorf("columnar: marshaling sidecar for %s: %w", base, err)
	}
	if err := store.Put(ctx, metaKey, metaBytes); err != nil {
		return "", fmt.Errorf("columnar: writing %s: %w", metaKey, err)
	}
	return parquetKey, nil
}
