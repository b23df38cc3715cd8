package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
	"github.com/lukeodrobinak/KSSMInventoryServer/internal/store"
)

// RequestsHandler handles the add/remove request workflow.
type RequestsHandler struct {
	DB *sql.DB
}

type submitRequestBody struct {
	RequestType string `json:"request_type"`
	ItemName    string `json:"item_name"`
	Description string `json:"description"`
	ItemID      *int64 `json:"item_id"`
}

type reviewRequestBody struct {
	Decision     string `json:"decision"`
	DenialReason string `json:"denial_reason"`
}

// reviewResponse wraps a reviewed request. Warning is set when the review
// was recorded but applying an approval failed.
type reviewResponse struct {
	Request *model.ItemRequest `json:"request"`
	Warning string             `json:"warning,omitempty"`
}

// Create handles POST /api/requests.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body submitRequestBody
	if err := decodeJSON(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.ItemName == "" {
		jsonError(w, http.StatusBadRequest, "item_name required")
		return
	}

	subject := GetSubject(r.Context())
	req, err := store.CreateRequest(r.Context(), h.DB, subject.ID, body.RequestType, body.ItemName, body.Description, body.ItemID)
	if err != nil {
		storeError(w, err, "failed to create request")
		return
	}

	slog.Info("request submitted", "user", subject.Username, "type", req.RequestType, "item", req.ItemName)
	jsonResponse(w, http.StatusCreated, req)
}

// List handles GET /api/requests.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := store.ListRequests(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list requests")
		return
	}
	if requests == nil {
		requests = []model.ItemRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Pending handles GET /api/requests/pending.
func (h *RequestsHandler) Pending(w http.ResponseWriter, r *http.Request) {
	requests, err := store.ListPendingRequests(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list pending requests")
		return
	}
	if requests == nil {
		requests = []model.ItemRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Mine handles GET /api/requests/mine.
func (h *RequestsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	subject := GetSubject(r.Context())
	requests, err := store.ListRequestsByUser(r.Context(), h.DB, subject.ID)
	if err != nil {
		storeError(w, err, "failed to list requests")
		return
	}
	if requests == nil {
		requests = []model.ItemRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Review handles PUT /api/requests/{id}/review.
func (h *RequestsHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body reviewRequestBody
	if err := decodeJSON(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var approve bool
	switch body.Decision {
	case "approve":
		approve = true
	case "deny":
		approve = false
	default:
		jsonError(w, http.StatusBadRequest, "decision must be approve or deny")
		return
	}

	subject := GetSubject(r.Context())
	req, err := store.ReviewRequest(r.Context(), h.DB, id, subject.ID, approve, body.DenialReason)

	var sideEffect *store.SideEffectError
	if errors.As(err, &sideEffect) {
		// The review stands; only the approved inventory mutation failed.
		slog.Error("applying approved request failed", "request", id, "error", sideEffect.Err)
		jsonResponse(w, http.StatusOK, reviewResponse{
			Request: sideEffect.Request,
			Warning: "request approved, but applying the change failed",
		})
		return
	}
	if err != nil {
		storeError(w, err, "failed to review request")
		return
	}

	slog.Info("request reviewed", "request", id, "by", subject.Username, "decision", body.Decision)
	jsonResponse(w, http.StatusOK, reviewResponse{Request: req})
}
