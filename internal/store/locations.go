package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

// CreateLocation creates a named storage location.
func CreateLocation(ctx context.Context, db *sql.DB, name string, createdByID int64) (*model.Location, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO locations (name, created_by_id) VALUES (?, ?)`,
		name, createdByID,
	)
	if isUniqueViolation(err, "locations.name") {
		return nil, fmt.Errorf("location %q already exists", name)
	}
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting location id: %w", err)
	}

	return GetLocation(ctx, db, id)
}

// GetLocation returns a location by ID, or nil if it does not exist.
func GetLocation(ctx context.Context, db *sql.DB, id int64) (*model.Location, error) {
	l := &model.Location{}
	var createdBy sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT l.id, l.name, l.created_by_id, l.created_date, u.full_name AS created_by
		 FROM locations l
		 LEFT JOIN users u ON u.id = l.created_by_id
		 WHERE l.id = ?`, id,
	).Scan(&l.ID, &l.Name, &l.CreatedByID, &l.CreatedDate, &createdBy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	l.CreatedBy = createdBy.String
	return l, nil
}

// ListLocations returns all locations ordered by name.
func ListLocations(ctx context.Context, db *sql.DB) ([]model.Location, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT l.id, l.name, l.created_by_id, l.created_date, u.full_name AS created_by
		 FROM locations l
		 LEFT JOIN users u ON u.id = l.created_by_id
		 ORDER BY l.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		var createdBy sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedByID, &l.CreatedDate, &createdBy); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		l.CreatedBy = createdBy.String
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// UpdateLocation renames a location.
func UpdateLocation(ctx context.Context, db *sql.DB, id int64, name string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE locations SET name = ? WHERE id = ?`, name, id,
	)
	if isUniqueViolation(err, "locations.name") {
		return fmt.Errorf("location %q already exists", name)
	}
	if err != nil {
		return fmt.Errorf("updating location: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating location: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLocation removes a location. Items keep their location string.
func DeleteLocation(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
