package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/drazba/internal/model"
)

const itemColumns = `i.id, i.title, i.image, i.author, i.author_description,
       i.minimum_bid, i.year, i.description, i.show_order, i.closed,
       i.created_at, i.updated_at, MAX(b.amount)`

// ItemParams holds the admin-editable item fields.
type ItemParams struct {
	Title             string
	Image             string
	Author            string
	AuthorDescription string
	MinimumBid        int64
	Year              int
	Description       string
	ShowOrder         int
}

// ListItems returns the full catalog ordered by show order, each item
// carrying its current highest bid (nil if none) and effective minimum.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i LEFT JOIN bids b ON b.item_id = i.id
		 GROUP BY i.id
		 ORDER BY i.show_order, i.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetItem returns one item with derived bid fields, or nil if absent.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i LEFT JOIN bids b ON b.item_id = i.id
		 WHERE i.id = ?
		 GROUP BY i.id`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItem adds a new catalog item.
func CreateItem(ctx context.Context, db *sql.DB, p ItemParams) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, image, author, author_description, minimum_bid, year, description, show_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Image, p.Author, nullIfEmpty(p.AuthorDescription), p.MinimumBid, p.Year, p.Description, p.ShowOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// UpdateItem updates an item's catalog fields. The closed flag is not
// touched here; closing is a separate, one-way operation.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, p ItemParams) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET title = ?, image = ?, author = ?, author_description = ?,
		        minimum_bid = ?, year = ?, description = ?, show_order = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Title, p.Image, p.Author, nullIfEmpty(p.AuthorDescription), p.MinimumBid, p.Year, p.Description, p.ShowOrder, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CloseItem marks an item closed for bidding. Closing is one-way; there
// is no reopen operation.
func CloseItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET closed = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("closing item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetItemImage stores an item's processed photo.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image_data = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetItemImage returns an item's photo data and MIME type. Data is nil
// when the item is absent or has no uploaded photo.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image_data, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var image, author, authorDescription, description sql.NullString
	var year sql.NullInt64
	var highest sql.NullInt64
	err := row.Scan(&item.ID, &item.Title, &image, &author, &authorDescription,
		&item.MinimumBid, &year, &description, &item.ShowOrder, &item.Closed,
		&item.CreatedAt, &item.UpdatedAt, &highest)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	item.Image = image.String
	item.Author = author.String
	item.AuthorDescription = authorDescription.String
	item.Description = description.String
	item.Year = int(year.Int64)

	item.EffectiveMinimumBid = item.MinimumBid
	if highest.Valid {
		v := highest.Int64
		item.HighestBid = &v
		if v > item.EffectiveMinimumBid {
			item.EffectiveMinimumBid = v
		}
	}
	return item, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
