// Package store defines the destination-store contract of the sync pipeline
// and its Postgres implementation. The pipeline only ever needs three
// operations: clear the site's products, insert a batch, and count rows.
package store

import (
	"context"
	"math"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"

	"github.com/smykkeguiden/feedsync/internal/catalog"
)

// Store is the destination products table of one site.
//
// DeleteAll and InsertBatch are both safe to retry at the batch level; the
// full-replace sync strategy relies on re-running the whole pipeline, never
// on partial retries.
type Store interface {
	// Ping verifies the destination is reachable with valid credentials.
	Ping(ctx context.Context) error

	// DeleteAll removes every product row and returns the removed count.
	DeleteAll(ctx context.Context) (int64, error)

	// InsertBatch inserts rows in one statement. The destination either
	// accepts or rejects the whole batch.
	InsertBatch(ctx context.Context, rows []Row) error

	// Close releases the underlying connection pool.
	Close() error
}

// Opener creates a Store from a site's destination DSN. It exists as a seam
// so the driver can be tested without a database.
type Opener interface {
	Open(dsn string) (Store, error)
}

// Row is a Product coerced into the destination schema: discount and stock
// count become integers, keywords a structured list.
type Row struct {
	ExternalID  string
	Title       string
	Description string
	Brand       string
	Category    string
	Material    string
	Price       float64
	OldPrice    *float64
	Discount    *int64
	ImageURL    string
	ProductURL  string
	Shop        string
	InStock     bool
	StockCount  *int64
	SKU         string
	Keywords    []string
	Path        string
	FeedSource  string
}

// RowFromProduct maps a canonical product to the destination schema.
//
// The normalizer guarantees the required invariants, but the writer is the
// last gate before the shared store, so they are re-checked here; a failed
// transformation drops the record from its batch.
func RowFromProduct(p catalog.Product) (Row, error) {
	if p.ExternalID == "" {
		return Row{}, apperrors.New(apperrors.InvalidInput, "product has no external id")
	}
	if p.Title == "" {
		return Row{}, apperrors.Newf(apperrors.InvalidInput, "product %s has no title", p.ExternalID)
	}
	if p.Price <= 0 {
		return Row{}, apperrors.Newf(apperrors.InvalidInput, "product %s has non-positive price", p.ExternalID)
	}
	if p.ProductURL == "" {
		return Row{}, apperrors.Newf(apperrors.InvalidInput, "product %s has no product url", p.ExternalID)
	}

	row := Row{
		ExternalID:  p.ExternalID,
		Title:       p.Title,
		Description: p.Description,
		Brand:       p.Brand,
		Category:    p.Category,
		Material:    p.Material,
		Price:       p.Price,
		OldPrice:    p.OldPrice,
		ImageURL:    p.ImageURL,
		ProductURL:  p.ProductURL,
		Shop:        p.Shop,
		InStock:     p.InStock,
		SKU:         p.SKU,
		Keywords:    p.Keywords,
		Path:        p.Path,
		FeedSource:  p.FeedSource,
	}

	if p.Discount != nil {
		d := int64(math.Round(*p.Discount))
		row.Discount = &d
	}
	if p.StockCount != nil {
		c := int64(*p.StockCount)
		row.StockCount = &c
	}

	return row, nil
}
