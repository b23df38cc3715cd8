package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/db"
	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

func TestSubmitAddRequest(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "admin", "hash", "Admin One", model.RoleAdmin)

	req, err := CreateRequest(ctx, database, admin.ID, model.RequestTypeAdd, "Kayak", "two-seater", nil)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if req.Status != model.RequestStatusPending {
		t.Errorf("expected pending, got %q", req.Status)
	}
	if req.RequesterName != "Admin One" {
		t.Errorf("expected requester name resolved, got %q", req.RequesterName)
	}
}

func TestSubmitAddRequestWithTargetRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "admin", "hash", "Admin", model.RoleAdmin)
	item, _ := CreateItem(ctx, database, model.ItemFields{Name: "Tarp"})

	_, err := CreateRequest(ctx, database, admin.ID, model.RequestTypeAdd, "Tarp", "", &item.ID)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSubmitRemoveRequestRequiresExistingItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "admin", "hash", "Admin", model.RoleAdmin)

	_, err := CreateRequest(ctx, database, admin.ID, model.RequestTypeRemove, "Ghost", "", nil)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest without a target, got %v", err)
	}

	missing := int64(999)
	_, err = CreateRequest(ctx, database, admin.ID, model.RequestTypeRemove, "Ghost", "", &missing)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing target, got %v", err)
	}
}

func TestSubmitUnknownRequestType(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "admin", "hash", "Admin", model.RoleAdmin)

	_, err := CreateRequest(ctx, database, admin.ID, "rename_item", "Thing", "", nil)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestApproveAddRequestCreatesItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "admin", "hash", "Admin", model.RoleAdmin)
	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)

	req, _ := CreateRequest(ctx, database, admin.ID, model.RequestTypeAdd, "Kayak", "two-seater", nil)

	reviewed, err := ReviewRequest(ctx, database, req.ID, qm.ID, true, "")
	if err != nil {
		t.Fatalf("ReviewRequest: %v", err)
	}
	if reviewed.Status != model.RequestStatusApproved {
		t.Errorf("expected approved, got %q", reviewed.Status)
	}
	if reviewed.ReviewedByName != "QM" {
		t.Errorf("expected reviewer name resolved, got %q", reviewed.ReviewedByName)
	}

	items, _ := SearchItems(ctx, database, "Kayak")
	if len(items) != 1 {
		t.Fatalf("expected approved add to create the item, got %d items", len(items))
	}
	if items[0].Description != "two-seater" {
		t.Errorf("expected description carried over, got %q", items[0].Description)
	}
}

func TestApproveRemoveRequestDeletesItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "admin", "hash", "Admin", model.RoleAdmin)
	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)
	item, _ := CreateItem(ctx, database, model.ItemFields{Name: "Broken Stove"})

	req, _ := CreateRequest(ctx, database, admin.ID, model.RequestTypeRemove, item.Name, "beyond repair", &item.ID)

	if _, err := ReviewRequest(ctx, database, req.ID, qm.ID, true, ""); err != nil {
		t.Fatalf("ReviewRequest: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected target item to be deleted")
	}
}

func TestApproveRemoveWithVanishedTargetStillApproved(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "admin", "hash", "Admin", model.RoleAdmin)
	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)
	item, _ := CreateItem(ctx, database, model.ItemFields{Name: "Short-lived"})

	req, _ := CreateRequest(ctx, database, admin.ID, model.RequestTypeRemove, item.Name, "", &item.ID)

	// Quartermaster deletes the item directly before reviewing.
	DeleteItem(ctx, database, item.ID)

	reviewed, err := ReviewRequest(ctx, database, req.ID, qm.ID, true, "")
	if err != nil {
		t.Fatalf("approving a remove whose target is already gone should succeed: %v", err)
	}
	if reviewed.Status != model.RequestStatusApproved {
		t.Errorf("expected approved, got %q", reviewed.Status)
	}
}

func TestDenyRequiresReason(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "admin", "hash", "Admin", model.RoleAdmin)
	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)

	req, _ := CreateRequest(ctx, database, admin.ID, model.RequestTypeAdd, "Kayak", "", nil)

	_, err := ReviewRequest(ctx, database, req.ID, qm.ID, false, "   ")
	if !errors.Is(err, ErrMissingReason) {
		t.Fatalf("expected ErrMissingReason, got %v", err)
	}

	// The request must still be pending and reviewable.
	got, _ := GetRequest(ctx, database, req.ID)
	if got.Status != model.RequestStatusPending {
		t.Errorf("expected request left pending, got %q", got.Status)
	}

	reviewed, err := ReviewRequest(ctx, database, req.ID, qm.ID, false, "duplicate of existing gear")
	if err != nil {
		t.Fatalf("deny with reason: %v", err)
	}
	if reviewed.Status != model.RequestStatusDenied {
		t.Errorf("expected denied, got %q", reviewed.Status)
	}
	if reviewed.DenialReason != "duplicate of existing gear" {
		t.Errorf("expected denial reason stored, got %q", reviewed.DenialReason)
	}
}

func TestDoubleReview(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "admin", "hash", "Admin", model.RoleAdmin)
	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)

	req, _ := CreateRequest(ctx, database, admin.ID, model.RequestTypeAdd, "Kayak", "", nil)

	if _, err := ReviewRequest(ctx, database, req.ID, qm.ID, true, ""); err != nil {
		t.Fatalf("first review: %v", err)
	}

	_, err := ReviewRequest(ctx, database, req.ID, qm.ID, false, "changed my mind")
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestReviewMissingRequest(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)

	_, err := ReviewRequest(ctx, database, 999, qm.ID, true, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRequestQueues(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin1, _ := CreateUser(ctx, database, "admin1", "hash", "Admin One", model.RoleAdmin)
	admin2, _ := CreateUser(ctx, database, "admin2", "hash", "Admin Two", model.RoleAdmin)
	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)

	r1, _ := CreateRequest(ctx, database, admin1.ID, model.RequestTypeAdd, "Kayak", "", nil)
	CreateRequest(ctx, database, admin1.ID, model.RequestTypeAdd, "Paddle", "", nil)
	CreateRequest(ctx, database, admin2.ID, model.RequestTypeAdd, "Helmet", "", nil)

	ReviewRequest(ctx, database, r1.ID, qm.ID, true, "")

	all, _ := ListRequests(ctx, database)
	if len(all) != 3 {
		t.Errorf("expected 3 total requests, got %d", len(all))
	}

	pending, _ := ListPendingRequests(ctx, database)
	if len(pending) != 2 {
		t.Errorf("expected 2 pending requests, got %d", len(pending))
	}

	mine, _ := ListRequestsByUser(ctx, database, admin1.ID)
	if len(mine) != 2 {
		t.Errorf("expected 2 requests by admin1, got %d", len(mine))
	}
}

func TestRequestSurvivesRequesterDeactivation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin, _ := CreateUser(ctx, database, "admin", "hash", "Admin", model.RoleAdmin)
	qm, _ := CreateUser(ctx, database, "qm", "hash", "QM", model.RoleQuartermaster)

	req, _ := CreateRequest(ctx, database, admin.ID, model.RequestTypeAdd, "Kayak", "", nil)
	DeactivateUser(ctx, database, admin.ID, qm.ID)

	got, err := GetRequest(ctx, database, req.ID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if got.RequesterName != "Admin" {
		t.Errorf("requester name should still resolve, got %q", got.RequesterName)
	}
}
