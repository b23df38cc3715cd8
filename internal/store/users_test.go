package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/db"
	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "jdoe", "hash", "Jamie Doe", model.RoleMember)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "jdoe" {
		t.Errorf("expected username 'jdoe', got %q", user.Username)
	}
	if !user.IsActive {
		t.Error("new user should be active")
	}

	byName, _ := GetUserByUsername(ctx, database, "jdoe")
	if byName == nil || byName.ID != user.ID {
		t.Errorf("GetUserByUsername mismatch: %+v", byName)
	}
}

func TestDuplicateUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "jdoe", "hash", "Jamie Doe", model.RoleMember)
	_, err := CreateUser(ctx, database, "jdoe", "hash2", "Other Doe", model.RoleAdmin)
	if !errors.Is(err, ErrDuplicateLogin) {
		t.Errorf("expected ErrDuplicateLogin, got %v", err)
	}
}

func TestUpdateUserRole(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)
	user, _ := CreateUser(ctx, database, "jdoe", "hash", "Jamie Doe", model.RoleMember)

	role := model.RoleAdmin
	if err := UpdateUser(ctx, database, user.ID, qm.ID, model.UserUpdate{Role: &role}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.Role != model.RoleAdmin {
		t.Errorf("expected role admin, got %q", got.Role)
	}
}

func TestUpdateUserDuplicateUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)
	user, _ := CreateUser(ctx, database, "jdoe", "hash", "Jamie Doe", model.RoleMember)

	taken := "qm"
	err := UpdateUser(ctx, database, user.ID, qm.ID, model.UserUpdate{Username: &taken})
	if !errors.Is(err, ErrDuplicateLogin) {
		t.Errorf("expected ErrDuplicateLogin, got %v", err)
	}
}

func TestCannotDeactivateSelf(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)

	if err := DeactivateUser(ctx, database, qm.ID, qm.ID); !errors.Is(err, ErrCannotDeactivateSelf) {
		t.Errorf("expected ErrCannotDeactivateSelf, got %v", err)
	}

	inactive := false
	err := UpdateUser(ctx, database, qm.ID, qm.ID, model.UserUpdate{IsActive: &inactive})
	if !errors.Is(err, ErrCannotDeactivateSelf) {
		t.Errorf("expected ErrCannotDeactivateSelf via update, got %v", err)
	}
}

func TestDeactivateUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)
	user, _ := CreateUser(ctx, database, "jdoe", "hash", "Jamie Doe", model.RoleMember)

	if err := DeactivateUser(ctx, database, user.ID, qm.ID); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}

	// Deactivated, not deleted: still resolvable for history.
	got, _ := GetUser(ctx, database, user.ID)
	if got == nil {
		t.Fatal("deactivated user should still exist")
	}
	if got.IsActive {
		t.Error("user should be inactive")
	}
}

func TestUpdateLastLogin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "jdoe", "hash", "Jamie Doe", model.RoleMember)
	if user.LastLogin != nil {
		t.Error("new user should have no last_login")
	}

	if err := UpdateLastLogin(ctx, database, user.ID); err != nil {
		t.Fatalf("UpdateLastLogin: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.LastLogin == nil {
		t.Error("expected last_login to be set")
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "jdoe", "oldhash", "Jamie Doe", model.RoleMember)
	if err := UpdateUserPassword(ctx, database, user.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("expected new hash, got %q", got.PasswordHash)
	}
}
