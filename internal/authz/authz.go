package authz

import (
	"errors"
	"fmt"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

// Op is an operation kind gated by the role policy.
type Op string

// Operations.
const (
	OpReadItems      Op = "read_items"
	OpCreateItem     Op = "create_item"
	OpUpdateItem     Op = "update_item"
	OpDeleteItem     Op = "delete_item"
	OpCheckout       Op = "checkout"
	OpViewStats      Op = "view_stats"
	OpSubmitRequest  Op = "submit_request"
	OpReviewRequest  Op = "review_request"
	OpManageUsers    Op = "manage_users"
	OpManageRefData  Op = "manage_reference_data"
)

// ErrInactiveAccount is returned for any operation by a deactivated account,
// regardless of role.
var ErrInactiveAccount = errors.New("account is inactive")

// DeniedError is returned when the subject's role does not permit the
// operation.
type DeniedError struct {
	Role string
	Op   Op
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("role %q may not perform %s", e.Role, e.Op)
}

// policy maps each operation to the roles allowed to perform it. The table
// is deliberately not a hierarchy: admins may submit requests but
// quartermasters may not, and only quartermasters review them.
var policy = map[Op][]string{
	OpReadItems:     {model.RoleMember, model.RoleAdmin, model.RoleQuartermaster},
	OpCreateItem:    {model.RoleQuartermaster},
	OpUpdateItem:    {model.RoleAdmin, model.RoleQuartermaster},
	OpDeleteItem:    {model.RoleQuartermaster},
	OpCheckout:      {model.RoleMember, model.RoleAdmin, model.RoleQuartermaster},
	OpViewStats:     {model.RoleAdmin, model.RoleQuartermaster},
	OpSubmitRequest: {model.RoleAdmin},
	OpReviewRequest: {model.RoleQuartermaster},
	OpManageUsers:   {model.RoleQuartermaster},
	OpManageRefData: {model.RoleQuartermaster},
}

// Allowed reports whether role may perform op. Unknown roles and unknown
// operations fail closed.
func Allowed(role string, op Op) bool {
	for _, r := range policy[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Check authorizes user for op. The active flag is evaluated before the
// role so callers can distinguish a disabled account from a wrong role.
func Check(user *model.User, op Op) error {
	if user == nil || !user.IsActive {
		return ErrInactiveAccount
	}
	if !Allowed(user.Role, op) {
		return &DeniedError{Role: user.Role, Op: op}
	}
	return nil
}
