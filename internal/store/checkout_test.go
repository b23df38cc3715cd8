package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/db"
	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

func TestCheckoutAndCheckin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, model.ItemFields{Name: "Canoe"})

	if err := CheckoutItem(ctx, database, item.ID, "Jordan", "weekend trip"); err != nil {
		t.Fatalf("CheckoutItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if !got.IsCheckedOut {
		t.Error("item should be checked out")
	}
	if got.CheckedOutBy == nil || *got.CheckedOutBy != "Jordan" {
		t.Errorf("expected holder 'Jordan', got %v", got.CheckedOutBy)
	}
	if got.CheckedOutDate == nil {
		t.Error("expected checked_out_date to be set")
	}

	if err := CheckinItem(ctx, database, item.ID, "Jordan", ""); err != nil {
		t.Fatalf("CheckinItem: %v", err)
	}

	got, _ = GetItem(ctx, database, item.ID)
	if got.IsCheckedOut {
		t.Error("item should be available after checkin")
	}
	if got.CheckedOutBy != nil {
		t.Errorf("holder should be cleared, got %v", *got.CheckedOutBy)
	}
}

func TestCheckoutAlreadyOut(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, model.ItemFields{Name: "Drill"})
	CheckoutItem(ctx, database, item.ID, "Casey", "")

	err := CheckoutItem(ctx, database, item.ID, "Morgan", "")
	var conflict *AlreadyCheckedOutError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected AlreadyCheckedOutError, got %v", err)
	}
	if conflict.Holder != "Casey" {
		t.Errorf("expected holder 'Casey', got %q", conflict.Holder)
	}

	// The losing attempt must not leave a history entry.
	history, _ := GetItemHistory(ctx, database, item.ID)
	if len(history) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(history))
	}
}

func TestCheckoutMissingItem(t *testing.T) {
	database := db.NewTestDB(t)

	err := CheckoutItem(context.Background(), database, 999, "Nobody", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckinNotCheckedOut(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, model.ItemFields{Name: "Shovel"})

	err := CheckinItem(ctx, database, item.ID, "Riley", "")
	if !errors.Is(err, ErrNotCheckedOut) {
		t.Errorf("expected ErrNotCheckedOut, got %v", err)
	}
}

func TestCheckinMissingItem(t *testing.T) {
	database := db.NewTestDB(t)

	err := CheckinItem(context.Background(), database, 999, "Nobody", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckinByDifferentPerson(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, model.ItemFields{Name: "Ladder"})
	CheckoutItem(ctx, database, item.ID, "Taylor", "")

	// Anyone can return an item, not just the holder.
	if err := CheckinItem(ctx, database, item.ID, "Quinn", "found in hallway"); err != nil {
		t.Fatalf("CheckinItem by another person: %v", err)
	}

	history, _ := GetItemHistory(ctx, database, item.ID)
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].PersonName != "Quinn" {
		t.Errorf("expected most recent entry by 'Quinn', got %q", history[0].PersonName)
	}
}

func TestItemHistoryOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, model.ItemFields{Name: "Projector"})
	CheckoutItem(ctx, database, item.ID, "Avery", "")
	CheckinItem(ctx, database, item.ID, "Avery", "")

	history, err := GetItemHistory(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Action != model.ActionCheckin {
		t.Errorf("expected most recent entry to be checkin, got %q", history[0].Action)
	}
	if history[1].Action != model.ActionCheckout {
		t.Errorf("expected oldest entry to be checkout, got %q", history[1].Action)
	}
}

func TestItemHistoryMissingItem(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := GetItemHistory(context.Background(), database, 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
