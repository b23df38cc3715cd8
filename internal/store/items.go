package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

const itemColumns = `id, name, description, category, barcode, serial_number,
	storage_location, notes, image_url, image_mime, is_checked_out,
	checked_out_by, checked_out_date, created_date, last_modified_date`

// CreateItem creates a new item in the available state.
func CreateItem(ctx context.Context, db *sql.DB, fields model.ItemFields) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, description, category, barcode, serial_number,
		                    storage_location, notes, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fields.Name, nullable(fields.Description), nullable(fields.Category),
		nullable(fields.Barcode), nullable(fields.SerialNumber),
		nullable(fields.StorageLocation), nullable(fields.Notes), nullable(fields.ImageURL),
	)
	if isUniqueViolation(err, "items.barcode") {
		return nil, ErrDuplicateBarcode
	}
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items ordered by name.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SearchItems returns items whose name, description, or barcode matches the
// query, ordered by name.
func SearchItems(ctx context.Context, db *sql.DB, query string) ([]model.Item, error) {
	pattern := "%" + query + "%"
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE name LIKE ? OR description LIKE ? OR barcode LIKE ?
		 ORDER BY name`,
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateItem applies the provided fields over the existing record and
// refreshes last_modified_date. Checkout state is never touched here.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, upd model.ItemUpdate) error {
	if upd.Empty() {
		// Nothing to change; still report missing items.
		item, err := GetItem(ctx, db, id)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrNotFound
		}
		return nil
	}

	set := []string{}
	args := []any{}
	add := func(column string, v *string) {
		if v != nil {
			set = append(set, column+" = ?")
			args = append(args, nullable(*v))
		}
	}
	add("name", upd.Name)
	add("description", upd.Description)
	add("category", upd.Category)
	add("barcode", upd.Barcode)
	add("serial_number", upd.SerialNumber)
	add("storage_location", upd.StorageLocation)
	add("image_url", upd.ImageURL)
	add("notes", upd.Notes)

	query := "UPDATE items SET "
	for i, s := range set {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += ", last_modified_date = CURRENT_TIMESTAMP WHERE id = ?"
	args = append(args, id)

	result, err := db.ExecContext(ctx, query, args...)
	if isUniqueViolation(err, "items.barcode") {
		return ErrDuplicateBarcode
	}
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes an item and its checkout history in one transaction.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// History rows reference the item, so they go first.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM checkout_history WHERE item_id = ?`, id,
	); err != nil {
		return fmt.Errorf("deleting item history: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	return nil
}

// GetStats returns inventory totals and per-category item counts.
func GetStats(ctx context.Context, db *sql.DB) (*model.Stats, error) {
	stats := &model.Stats{Categories: map[string]int{}}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_checked_out), 0) FROM items`,
	).Scan(&stats.TotalItems, &stats.CheckedOut)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	stats.Available = stats.TotalItems - stats.CheckedOut

	rows, err := db.QueryContext(ctx,
		`SELECT COALESCE(NULLIF(category, ''), 'Uncategorized'), COUNT(*)
		 FROM items GROUP BY 1`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		stats.Categories[category] = count
	}
	return stats, rows.Err()
}

// SetItemImage stores an item's photo.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, last_modified_date = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetItemImage returns an item's photo data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
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
	var description, category, barcode, serialNumber sql.NullString
	var storageLocation, notes, imageURL, imageMime, checkedOutBy sql.NullString
	var checkedOutDate sql.NullTime

	err := row.Scan(&item.ID, &item.Name, &description, &category, &barcode,
		&serialNumber, &storageLocation, &notes, &imageURL, &imageMime,
		&item.IsCheckedOut, &checkedOutBy, &checkedOutDate,
		&item.CreatedDate, &item.LastModified)
	if err != nil {
		return nil, err
	}

	item.Description = description.String
	item.Category = category.String
	item.Barcode = barcode.String
	item.SerialNumber = serialNumber.String
	item.StorageLocation = storageLocation.String
	item.Notes = notes.String
	item.ImageURL = imageURL.String
	item.ImageMime = imageMime.String
	if checkedOutBy.Valid {
		item.CheckedOutBy = &checkedOutBy.String
	}
	if checkedOutDate.Valid {
		item.CheckedOutDate = &checkedOutDate.Time
	}
	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// nullable maps "" to NULL so optional fields are genuinely absent.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
