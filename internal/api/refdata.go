package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
	"github.com/lukeodrobinak/KSSMInventoryServer/internal/store"
)

// RefDataHandler handles the category and storage location endpoints.
type RefDataHandler struct {
	DB *sql.DB
}

type nameRequest struct {
	Name string `json:"name"`
}

// ListCategories handles GET /api/categories.
func (h *RefDataHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/categories.
func (h *RefDataHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}

	subject := GetSubject(r.Context())
	category, err := store.CreateCategory(r.Context(), h.DB, name, subject.ID)
	if err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/categories/{id}.
func (h *RefDataHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	name, ok := decodeName(w, r)
	if !ok {
		return
	}

	if err := store.UpdateCategory(r.Context(), h.DB, id, name); err != nil {
		storeError(w, err, "failed to update category")
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get category")
		return
	}
	jsonResponse(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/categories/{id}.
func (h *RefDataHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := store.DeleteCategory(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete category")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// ListLocations handles GET /api/locations.
func (h *RefDataHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := store.ListLocations(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list locations")
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	jsonResponse(w, http.StatusOK, locations)
}

// CreateLocation handles POST /api/locations.
func (h *RefDataHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}

	subject := GetSubject(r.Context())
	location, err := store.CreateLocation(r.Context(), h.DB, name, subject.ID)
	if err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, location)
}

// UpdateLocation handles PUT /api/locations/{id}.
func (h *RefDataHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	name, ok := decodeName(w, r)
	if !ok {
		return
	}

	if err := store.UpdateLocation(r.Context(), h.DB, id, name); err != nil {
		storeError(w, err, "failed to update location")
		return
	}

	location, err := store.GetLocation(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get location")
		return
	}
	jsonResponse(w, http.StatusOK, location)
}

// DeleteLocation handles DELETE /api/locations/{id}.
func (h *RefDataHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := store.DeleteLocation(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete location")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "location deleted"})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return "", false
	}
	return req.Name, true
}
