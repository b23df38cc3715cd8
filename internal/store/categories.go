package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

// CreateCategory creates a named category.
func CreateCategory(ctx context.Context, db *sql.DB, name string, createdByID int64) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, created_by_id) VALUES (?, ?)`,
		name, createdByID,
	)
	if isUniqueViolation(err, "categories.name") {
		return nil, fmt.Errorf("category %q already exists", name)
	}
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID, or nil if it does not exist.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c := &model.Category{}
	var createdBy sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT c.id, c.name, c.created_by_id, c.created_date, u.full_name AS created_by
		 FROM categories c
		 LEFT JOIN users u ON u.id = c.created_by_id
		 WHERE c.id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedByID, &c.CreatedDate, &createdBy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	c.CreatedBy = createdBy.String
	return c, nil
}

// ListCategories returns all categories ordered by name.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.name, c.created_by_id, c.created_date, u.full_name AS created_by
		 FROM categories c
		 LEFT JOIN users u ON u.id = c.created_by_id
		 ORDER BY c.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var createdBy sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedByID, &c.CreatedDate, &createdBy); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.CreatedBy = createdBy.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory renames a category.
func UpdateCategory(ctx context.Context, db *sql.DB, id int64, name string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`, name, id,
	)
	if isUniqueViolation(err, "categories.name") {
		return fmt.Errorf("category %q already exists", name)
	}
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category. Items keep their category string.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
