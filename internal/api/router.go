package api

import (
	"database/sql"
	"net/http"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/authz"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db}
	requestsHandler := &RequestsHandler{DB: db}
	usersHandler := &UsersHandler{DB: db}
	refDataHandler := &RefDataHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	guard := func(op authz.Op, h http.HandlerFunc) http.Handler {
		return authMW(Require(op)(h))
	}

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated, no role gate.
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Items: read and custody moves (all roles), edit (admin+), create/delete (quartermaster).
	mux.Handle("GET /api/items", guard(authz.OpReadItems, itemsHandler.List))
	mux.Handle("GET /api/items/search", guard(authz.OpReadItems, itemsHandler.Search))
	mux.Handle("POST /api/items", guard(authz.OpCreateItem, itemsHandler.Create))
	mux.Handle("GET /api/items/{id}", guard(authz.OpReadItems, itemsHandler.Get))
	mux.Handle("PUT /api/items/{id}", guard(authz.OpUpdateItem, itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", guard(authz.OpDeleteItem, itemsHandler.Delete))
	mux.Handle("POST /api/items/{id}/checkout", guard(authz.OpCheckout, itemsHandler.Checkout))
	mux.Handle("POST /api/items/{id}/checkin", guard(authz.OpCheckout, itemsHandler.Checkin))
	mux.Handle("GET /api/items/{id}/history", guard(authz.OpReadItems, itemsHandler.GetHistory))
	mux.Handle("PUT /api/items/{id}/image", guard(authz.OpUpdateItem, itemsHandler.UploadImage))
	mux.Handle("GET /api/items/{id}/image", guard(authz.OpReadItems, itemsHandler.GetImage))

	mux.Handle("GET /api/stats", guard(authz.OpViewStats, itemsHandler.Stats))

	// Requests: submit (admin), review and full queue (quartermaster).
	mux.Handle("POST /api/requests", guard(authz.OpSubmitRequest, requestsHandler.Create))
	mux.Handle("GET /api/requests", guard(authz.OpReviewRequest, requestsHandler.List))
	mux.Handle("GET /api/requests/pending", guard(authz.OpReviewRequest, requestsHandler.Pending))
	mux.Handle("GET /api/requests/mine", guard(authz.OpSubmitRequest, requestsHandler.Mine))
	mux.Handle("PUT /api/requests/{id}/review", guard(authz.OpReviewRequest, requestsHandler.Review))

	// Users (quartermaster only).
	mux.Handle("GET /api/users", guard(authz.OpManageUsers, usersHandler.List))
	mux.Handle("POST /api/users", guard(authz.OpManageUsers, usersHandler.Create))
	mux.Handle("GET /api/users/{id}", guard(authz.OpManageUsers, usersHandler.Get))
	mux.Handle("PUT /api/users/{id}", guard(authz.OpManageUsers, usersHandler.Update))
	mux.Handle("PUT /api/users/{id}/password", guard(authz.OpManageUsers, usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", guard(authz.OpManageUsers, usersHandler.Deactivate))

	// Reference data: read (all roles), write (quartermaster).
	mux.Handle("GET /api/categories", guard(authz.OpReadItems, refDataHandler.ListCategories))
	mux.Handle("POST /api/categories", guard(authz.OpManageRefData, refDataHandler.CreateCategory))
	mux.Handle("PUT /api/categories/{id}", guard(authz.OpManageRefData, refDataHandler.UpdateCategory))
	mux.Handle("DELETE /api/categories/{id}", guard(authz.OpManageRefData, refDataHandler.DeleteCategory))
	mux.Handle("GET /api/locations", guard(authz.OpReadItems, refDataHandler.ListLocations))
	mux.Handle("POST /api/locations", guard(authz.OpManageRefData, refDataHandler.CreateLocation))
	mux.Handle("PUT /api/locations/{id}", guard(authz.OpManageRefData, refDataHandler.UpdateLocation))
	mux.Handle("DELETE /api/locations/{id}", guard(authz.OpManageRefData, refDataHandler.DeleteLocation))

	return CORSMiddleware(LoggingMiddleware(mux))
}
