package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
)

// rowColumnCount is the number of bound parameters per inserted row; it must
// match the column list in insertColumns.
const rowColumnCount = 18

// insertColumns is the destination column list, in bind order.
const insertColumns = `external_id, title, description, brand, category, material,
	price, old_price, discount, image_url, product_url, shop,
	in_stock, stock_count, sku, keywords, path, feed_source`

// Postgres implements Store on a Postgres products table via lib/pq.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

// NewPostgres opens a connection pool for the given DSN. The pool is lazy;
// reachability is verified by Ping, not here.
func NewPostgres(dsn string) (*Postgres, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, apperrors.New(apperrors.System, "destination store DSN is empty")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "opening destination store failed")
	}

	// One sync run is sequential; a small pool is plenty.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	return &Postgres{db: db}, nil
}

// PostgresOpener is the production Opener.
type PostgresOpener struct{}

// Open implements Opener.
func (PostgresOpener) Open(dsn string) (Store, error) {
	return NewPostgres(dsn)
}

// Ping verifies the destination is reachable.
func (s *Postgres) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.System, "destination store is unreachable")
	}
	return nil
}

// DeleteAll clears the products table and returns the number of removed rows.
func (s *Postgres) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.System, "clearing the products table failed")
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.System, "reading the deleted row count failed")
	}
	return deleted, nil
}

// InsertBatch inserts rows with one multi-row INSERT. Duplicate external ids
// within a run resolve last-write-wins: across batches via ON CONFLICT, and
// within one batch by deduplication before the statement is built, because a
// single INSERT ... ON CONFLICT DO UPDATE cannot affect the same row twice.
func (s *Postgres) InsertBatch(ctx context.Context, rows []Row) error {
	rows = dedupeLastWins(rows)
	if len(rows) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*rowColumnCount)

	for i, row := range rows {
		base := i * rowColumnCount
		marks := make([]string, rowColumnCount)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")

		args = append(args,
			row.ExternalID,
			row.Title,
			row.Description,
			row.Brand,
			row.Category,
			row.Material,
			row.Price,
			nullFloat(row.OldPrice),
			nullInt(row.Discount),
			row.ImageURL,
			row.ProductURL,
			row.Shop,
			row.InStock,
			nullInt(row.StockCount),
			row.SKU,
			pq.Array(row.Keywords),
			row.Path,
			row.FeedSource,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO products (%s)
		VALUES %s
		ON CONFLICT (external_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			material = EXCLUDED.material,
			price = EXCLUDED.price,
			old_price = EXCLUDED.old_price,
			discount = EXCLUDED.discount,
			image_url = EXCLUDED.image_url,
			product_url = EXCLUDED.product_url,
			shop = EXCLUDED.shop,
			in_stock = EXCLUDED.in_stock,
			stock_count = EXCLUDED.stock_count,
			sku = EXCLUDED.sku,
			keywords = EXCLUDED.keywords,
			path = EXCLUDED.path,
			feed_source = EXCLUDED.feed_source`,
		insertColumns, strings.Join(placeholders, ", "))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.Wrap(err, apperrors.ExecutionFailed, "inserting a product batch failed")
	}
	return nil
}

// dedupeLastWins collapses rows sharing an external id to the last
// occurrence, keeping the batch position of the first. The input slice is
// left untouched when no duplicates exist.
func dedupeLastWins(rows []Row) []Row {
	seen := make(map[string]int, len(rows))
	duplicates := false
	for _, row := range rows {
		if _, ok := seen[row.ExternalID]; ok {
			duplicates = true
			break
		}
		seen[row.ExternalID] = 0
	}
	if !duplicates {
		return rows
	}

	deduped := make([]Row, 0, len(rows))
	clear(seen)
	for _, row := range rows {
		if at, ok := seen[row.ExternalID]; ok {
			deduped[at] = row
			continue
		}
		seen[row.ExternalID] = len(deduped)
		deduped = append(deduped, row)
	}
	return deduped
}

// Close releases the connection pool.
func (s *Postgres) Close() error {
	return s.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
