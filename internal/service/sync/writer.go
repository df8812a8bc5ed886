package sync

import (
	"context"

	"github.com/smykkeguiden/feedsync/internal/catalog"
	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
	"github.com/smykkeguiden/feedsync/internal/store"
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

// writerComponent is the log component name of the sync writer.
const writerComponent = "sync.writer"

// Writer synchronizes a destination store to a product set using the
// full-replace strategy: clear everything, then insert the new set in
// fixed-size batches.
//
// Between the delete and the last insert batch the destination briefly holds
// fewer products than either the old or new state; concurrent readers may
// observe partial data. That window is an accepted property of the strategy,
// which in return makes re-running the whole pipeline the universal recovery
// path.
type Writer struct {
	batchSize int
}

// NewWriter creates a writer with the given batch size. The size is bounded
// by config validation to respect destination payload limits.
func NewWriter(batchSize int) *Writer {
	if batchSize < 1 {
		panic("sync: batch size must be positive")
	}
	return &Writer{batchSize: batchSize}
}

// Sync replaces the store contents with the given products.
//
// Only total inability to use the destination (failed ping or failed delete)
// returns an error, which is fatal to the site's sync. Each failed insert
// batch merely increments the error counter; remaining batches proceed, and
// no batch is ever retried within a run.
func (w *Writer) Sync(ctx context.Context, st store.Store, products []catalog.Product) (WriteResult, error) {
	var result WriteResult

	if st == nil {
		return result, apperrors.New(apperrors.System, "no destination store handle")
	}
	if err := st.Ping(ctx); err != nil {
		return result, err
	}

	deleted, err := st.DeleteAll(ctx)
	if err != nil {
		return result, err
	}
	result.Deleted = int(deleted)

	for start := 0; start < len(products); start += w.batchSize {
		end := start + w.batchSize
		if end > len(products) {
			end = len(products)
		}

		rows := make([]store.Row, 0, end-start)
		for _, p := range products[start:end] {
			row, err := store.RowFromProduct(p)
			if err != nil {
				applog.WithComponent(writerComponent).Warnf("record dropped from batch: %v", err)
				continue
			}
			rows = append(rows, row)
		}
		if len(rows) == 0 {
			// The whole batch failed transformation: count it and move on.
			result.Errors++
			continue
		}

		if err := st.InsertBatch(ctx, rows); err != nil {
			applog.WithComponentAndFields(writerComponent, applog.Fields{
				"batch_start": start,
				"batch_size":  len(rows),
			}).Warnf("insert batch rejected, continuing: %v", err)
			result.Errors++
			continue
		}

		result.Inserted += len(rows)
	}

	return result, nil
}
