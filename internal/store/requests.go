package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
)

const requestQuery = `
	SELECT ir.id, ir.requester_id, ir.request_type, ir.item_name,
	       ir.description, ir.item_id, ir.status, ir.denial_reason,
	       ir.created_date, ir.reviewed_date, ir.reviewed_by_id,
	       u1.full_name AS requester_name, u2.full_name AS reviewed_by_name
	FROM item_requests ir
	LEFT JOIN users u1 ON u1.id = ir.requester_id
	LEFT JOIN users u2 ON u2.id = ir.reviewed_by_id`

// SideEffectError reports that a review was recorded but the approved
// inventory mutation failed afterwards. The review itself stands.
type SideEffectError struct {
	Request *model.ItemRequest
	Err     error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("request reviewed, but applying it failed: %v", e.Err)
}

func (e *SideEffectError) Unwrap() error { return e.Err }

// CreateRequest submits a proposed inventory mutation for review.
// A remove_item request must name an existing target item; an add_item
// request must not name one.
func CreateRequest(ctx context.Context, db *sql.DB, requesterID int64, requestType, itemName, description string, targetItemID *int64) (*model.ItemRequest, error) {
	switch requestType {
	case model.RequestTypeAdd:
		if targetItemID != nil {
			return nil, fmt.Errorf("%w: add_item request must not name a target item", ErrInvalidRequest)
		}
	case model.RequestTypeRemove:
		if targetItemID == nil {
			return nil, fmt.Errorf("%w: remove_item request requires a target item", ErrInvalidRequest)
		}
		item, err := GetItem(ctx, db, *targetItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, ErrNotFound
		}
	default:
		return nil, fmt.Errorf("%w: unknown request type %q", ErrInvalidRequest, requestType)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO item_requests (requester_id, request_type, item_name, description, item_id)
		 VALUES (?, ?, ?, ?, ?)`,
		requesterID, requestType, itemName, description, targetItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting request id: %w", err)
	}

	return GetRequest(ctx, db, id)
}

// GetRequest returns a request by ID with requester and reviewer names
// resolved, or nil if it does not exist.
func GetRequest(ctx context.Context, db *sql.DB, id int64) (*model.ItemRequest, error) {
	req, err := scanRequest(db.QueryRowContext(ctx, requestQuery+` WHERE ir.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}
	return req, nil
}

// ListRequests returns all requests, newest first.
func ListRequests(ctx context.Context, db *sql.DB) ([]model.ItemRequest, error) {
	return listRequests(ctx, db, requestQuery+` ORDER BY ir.created_date DESC, ir.id DESC`)
}

// ListPendingRequests returns the review queue, newest first.
func ListPendingRequests(ctx context.Context, db *sql.DB) ([]model.ItemRequest, error) {
	return listRequests(ctx, db,
		requestQuery+` WHERE ir.status = ? ORDER BY ir.created_date DESC, ir.id DESC`,
		model.RequestStatusPending)
}

// ListRequestsByUser returns the requests submitted by one user, newest first.
func ListRequestsByUser(ctx context.Context, db *sql.DB, userID int64) ([]model.ItemRequest, error) {
	return listRequests(ctx, db,
		requestQuery+` WHERE ir.requester_id = ? ORDER BY ir.created_date DESC, ir.id DESC`,
		userID)
}

// ReviewRequest approves or denies a pending request. The status change is
// a single conditional update gated on the request still being pending, so
// concurrent reviewers cannot both win. On approval the inventory side
// effect runs after the status is committed; if it fails, the review is not
// rolled back and a SideEffectError carries the reviewed request.
func ReviewRequest(ctx context.Context, db *sql.DB, requestID, reviewerID int64, approve bool, denialReason string) (*model.ItemRequest, error) {
	if !approve && strings.TrimSpace(denialReason) == "" {
		return nil, ErrMissingReason
	}

	req, err := GetRequest(ctx, db, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}

	status := model.RequestStatusApproved
	var reason any
	if !approve {
		status = model.RequestStatusDenied
		reason = denialReason
	}

	result, err := db.ExecContext(ctx,
		`UPDATE item_requests
		 SET status = ?, reviewed_by_id = ?, reviewed_date = CURRENT_TIMESTAMP, denial_reason = ?
		 WHERE id = ? AND status = ?`,
		status, reviewerID, reason, requestID, model.RequestStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("reviewing request: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reviewing request: %w", err)
	}
	if n == 0 {
		return nil, ErrAlreadyReviewed
	}

	if approve {
		if err := applyApproval(ctx, db, req); err != nil {
			reviewed, getErr := GetRequest(ctx, db, requestID)
			if getErr != nil {
				reviewed = req
			}
			return reviewed, &SideEffectError{Request: reviewed, Err: err}
		}
	}

	return GetRequest(ctx, db, requestID)
}

// applyApproval performs the inventory mutation for an approved request.
func applyApproval(ctx context.Context, db *sql.DB, req *model.ItemRequest) error {
	switch req.RequestType {
	case model.RequestTypeAdd:
		// The new item is not linked back to the request.
		_, err := CreateItem(ctx, db, model.ItemFields{
			Name:        req.ItemName,
			Description: req.Description,
		})
		return err
	case model.RequestTypeRemove:
		if req.ItemID == nil {
			return fmt.Errorf("%w: remove request has no target item", ErrInvalidRequest)
		}
		// Already-removed targets are fine; the goal state is reached.
		if err := DeleteItem(ctx, db, *req.ItemID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown request type %q", ErrInvalidRequest, req.RequestType)
	}
}

func listRequests(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var requests []model.ItemRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func scanRequest(row rowScanner) (*model.ItemRequest, error) {
	req := &model.ItemRequest{}
	var itemID, reviewedByID sql.NullInt64
	var denialReason, requesterName, reviewedByName sql.NullString
	var reviewedDate sql.NullTime

	err := row.Scan(&req.ID, &req.RequesterID, &req.RequestType, &req.ItemName,
		&req.Description, &itemID, &req.Status, &denialReason,
		&req.CreatedDate, &reviewedDate, &reviewedByID,
		&requesterName, &reviewedByName)
	if err != nil {
		return nil, err
	}

	if itemID.Valid {
		req.ItemID = &itemID.Int64
	}
	req.DenialReason = denialReason.String
	if reviewedDate.Valid {
		req.ReviewedDate = &reviewedDate.Time
	}
	if reviewedByID.Valid {
		req.ReviewedByID = &reviewedByID.Int64
	}
	req.RequesterName = requesterName.String
	req.ReviewedByName = reviewedByName.String
	return req, nil
}
