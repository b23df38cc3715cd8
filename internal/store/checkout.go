package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

// CheckoutItem checks an item out to a person. The state transition is a
// conditional update gated on the item currently being available, and the
// history entry is appended in the same transaction, so concurrent
// checkouts cannot both succeed and history always matches the state.
func CheckoutItem(ctx context.Context, db *sql.DB, itemID int64, personName, notes string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET
		     is_checked_out = 1,
		     checked_out_by = ?,
		     checked_out_date = CURRENT_TIMESTAMP,
		     last_modified_date = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_checked_out = 0`,
		personName, itemID,
	)
	if err != nil {
		return fmt.Errorf("checking out item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking out item: %w", err)
	}
	if n == 0 {
		return checkoutConflict(ctx, tx, itemID)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO checkout_history (item_id, action, person_name, notes)
		 VALUES (?, ?, ?, ?)`,
		itemID, model.ActionCheckout, personName, nullable(notes),
	); err != nil {
		return fmt.Errorf("recording checkout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing checkout: %w", err)
	}
	return nil
}

// CheckinItem checks an item back in. The person checking in does not have
// to be the one who checked it out. Same atomicity discipline as checkout.
func CheckinItem(ctx context.Context, db *sql.DB, itemID int64, personName, notes string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET
		     is_checked_out = 0,
		     checked_out_by = NULL,
		     checked_out_date = NULL,
		     last_modified_date = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_checked_out = 1`,
		itemID,
	)
	if err != nil {
		return fmt.Errorf("checking in item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking in item: %w", err)
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE id = ?`, itemID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking item state: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrNotCheckedOut
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO checkout_history (item_id, action, person_name, notes)
		 VALUES (?, ?, ?, ?)`,
		itemID, model.ActionCheckin, personName, nullable(notes),
	); err != nil {
		return fmt.Errorf("recording checkin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing checkin: %w", err)
	}
	return nil
}

// checkoutConflict distinguishes a missing item from one already out,
// reading within the same transaction so the answer matches the guard.
func checkoutConflict(ctx context.Context, tx *sql.Tx, itemID int64) error {
	var holder sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT checked_out_by FROM items WHERE id = ?`, itemID,
	).Scan(&holder)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking item state: %w", err)
	}
	return &AlreadyCheckedOutError{Holder: holder.String}
}

// GetItemHistory returns an item's checkout history, most recent first.
func GetItemHistory(ctx context.Context, db *sql.DB, itemID int64) ([]model.HistoryEntry, error) {
	item, err := GetItem(ctx, db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, action, person_name, timestamp, notes
		 FROM checkout_history
		 WHERE item_id = ?
		 ORDER BY timestamp DESC, id DESC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting item history: %w", err)
	}
	defer rows.Close()

	var history []model.HistoryEntry
	for rows.Next() {
		var h model.HistoryEntry
		var notes sql.NullString
		if err := rows.Scan(&h.ID, &h.ItemID, &h.Action, &h.PersonName, &h.Timestamp, &notes); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		h.Notes = notes.String
		history = append(history, h)
	}
	return history, rows.Err()
}
