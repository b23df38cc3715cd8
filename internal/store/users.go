package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

const userColumns = `id, username, password_hash, full_name, role, is_active,
	created_date, last_login`

// CreateUser creates a new account.
func CreateUser(ctx context.Context, db *sql.DB, username, passwordHash, fullName, role string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, full_name, role)
		 VALUES (?, ?, ?, ?)`,
		username, passwordHash, fullName, role,
	)
	if isUniqueViolation(err, "users.username") {
		return nil, ErrDuplicateLogin
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID, or nil if it does not exist.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username (including inactive accounts,
// so login can distinguish a bad password from a disabled account).
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// ListUsers returns all accounts, newest first.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser applies the provided fields over an account. A username change
// re-checks uniqueness (excluding the account itself). Deactivating your own
// account is rejected.
func UpdateUser(ctx context.Context, db *sql.DB, id, actorID int64, upd model.UserUpdate) error {
	if upd.IsActive != nil && !*upd.IsActive && id == actorID {
		return ErrCannotDeactivateSelf
	}
	if upd.Empty() {
		u, err := GetUser(ctx, db, id)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrNotFound
		}
		return nil
	}

	set := ""
	args := []any{}
	add := func(column string, v any) {
		if set != "" {
			set += ", "
		}
		set += column + " = ?"
		args = append(args, v)
	}
	if upd.Username != nil {
		add("username", *upd.Username)
	}
	if upd.FullName != nil {
		add("full_name", *upd.FullName)
	}
	if upd.Role != nil {
		add("role", *upd.Role)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	args = append(args, id)

	result, err := db.ExecContext(ctx,
		"UPDATE users SET "+set+" WHERE id = ?", args...,
	)
	if isUniqueViolation(err, "users.username") {
		return ErrDuplicateLogin
	}
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateUser disables an account. Accounts are never deleted, so
// request history keeps resolving requester and reviewer names.
func DeactivateUser(ctx context.Context, db *sql.DB, id, actorID int64) error {
	if id == actorID {
		return ErrCannotDeactivateSelf
	}

	result, err := db.ExecContext(ctx,
		`UPDATE users SET is_active = 0 WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserPassword replaces a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLastLogin stamps a successful authentication.
func UpdateLastLogin(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role,
		&u.IsActive, &u.CreatedDate, &lastLogin)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}
