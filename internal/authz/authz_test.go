package authz

import (
	"errors"
	"testing"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		role     string
		op       Op
		expected bool
	}{
		{model.RoleMember, OpReadItems, true},
		{model.RoleMember, OpCheckout, true},
		{model.RoleMember, OpCreateItem, false},
		{model.RoleMember, OpUpdateItem, false},
		{model.RoleMember, OpViewStats, false},
		{model.RoleMember, OpSubmitRequest, false},
		{model.RoleAdmin, OpUpdateItem, true},
		{model.RoleAdmin, OpSubmitRequest, true},
		{model.RoleAdmin, OpCreateItem, false},
		{model.RoleAdmin, OpDeleteItem, false},
		{model.RoleAdmin, OpReviewRequest, false},
		{model.RoleAdmin, OpManageUsers, false},
		{model.RoleQuartermaster, OpCreateItem, true},
		{model.RoleQuartermaster, OpDeleteItem, true},
		{model.RoleQuartermaster, OpReviewRequest, true},
		{model.RoleQuartermaster, OpManageUsers, true},
		// Request submission is admin-only, not hierarchical.
		{model.RoleQuartermaster, OpSubmitRequest, false},
		// Unknown roles and ops fail closed.
		{"intern", OpReadItems, false},
		{model.RoleQuartermaster, Op("unknown"), false},
		{"", OpReadItems, false},
	}

	for _, tt := range tests {
		if got := Allowed(tt.role, tt.op); got != tt.expected {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tt.role, tt.op, got, tt.expected)
		}
	}
}

func TestCheckInactiveBeforeRole(t *testing.T) {
	user := &model.User{Role: model.RoleQuartermaster, IsActive: false}

	err := Check(user, OpCreateItem)
	if !errors.Is(err, ErrInactiveAccount) {
		t.Errorf("expected ErrInactiveAccount for inactive quartermaster, got %v", err)
	}
}

func TestCheckDenied(t *testing.T) {
	user := &model.User{Role: model.RoleMember, IsActive: true}

	err := Check(user, OpCreateItem)
	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.Role != model.RoleMember || denied.Op != OpCreateItem {
		t.Errorf("unexpected denial context: %+v", denied)
	}
}

func TestCheckAllowed(t *testing.T) {
	user := &model.User{Role: model.RoleAdmin, IsActive: true}

	if err := Check(user, OpUpdateItem); err != nil {
		t.Errorf("expected nil error for active admin updating items, got %v", err)
	}
}

func TestCheckNilUser(t *testing.T) {
	if err := Check(nil, OpReadItems); !errors.Is(err, ErrInactiveAccount) {
		t.Errorf("expected ErrInactiveAccount for nil user, got %v", err)
	}
}
