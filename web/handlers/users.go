package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/yacinebz/go-crud-soft-delete/cache"
	"github.com/yacinebz/go-crud-soft-delete/internal/database"
	"github.com/yacinebz/go-crud-soft-delete/models"
)

const maxSearchQueryLen = 256

func userIDFromRequest(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["user_id"]

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

// Create handles POST /api/v1/users/. The write path is three independent
// calls with no atomicity: relational insert, index upsert, cache
// repopulation. A failure after the insert aborts the request even though
// the user row already exists; the store is the source of truth and there
// is no compensating action.
func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: err.Error()})
		return
	}

	user, err := h.Deps.DB.CreateUser(ctx, &database.CreateUserInput{Name: req.Name, Email: req.Email})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrEmailAlreadyExists):
			renderEnvelope(w, http.StatusBadRequest, "Email already exists", nil)
		case errors.Is(err, database.ErrInvalidInput):
			renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: err.Error()})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	if err := h.Deps.Search.IndexUser(ctx, user); err != nil {
		h.Deps.Logger.Error("failed to index user after create",
			zap.Error(err),
			zap.Uint("user_id", user.ID))
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	users, err := h.Deps.DB.ListUsers(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.Deps.Cache.SetJSON(ctx, cache.AllUsersKey, models.NewUserResponses(users), h.Deps.CacheTTL); err != nil {
		h.Deps.Logger.Error("failed to repopulate user listing cache", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderEnvelope(w, http.StatusOK, "successful", models.NewUserResponse(user))
}

// List handles GET /api/v1/users/ with cache-aside on the all_users key.
// A cache failure on this read path counts as a miss; the cached payload,
// when present, is served as-is whatever shape a previous writer stored.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached json.RawMessage

	hit, err := h.Deps.Cache.GetJSON(ctx, cache.AllUsersKey, &cached)
	if err != nil {
		h.Deps.Logger.Warn("cache read failed, falling through to store", zap.Error(err))

		hit = false
	}

	if hit {
		renderEnvelope(w, http.StatusOK, "successful", cached)
		return
	}

	users, err := h.Deps.DB.ListUsers(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := models.NewUsersWithProducts(users)

	if err := h.Deps.Cache.SetJSON(ctx, cache.AllUsersKey, data, h.Deps.CacheTTL); err != nil {
		h.Deps.Logger.Warn("failed to repopulate user listing cache", zap.Error(err))
	}

	renderEnvelope(w, http.StatusOK, "successful", data)
}

// ListDeleted handles GET /api/v1/users/deleted.
func (h *UserHandlers) ListDeleted(w http.ResponseWriter, r *http.Request) {
	users, err := h.Deps.DB.ListDeletedUsers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderEnvelope(w, http.StatusOK, "successful", models.NewUserResponses(users))
}

// Get handles GET /api/v1/{user_id}. Unlike the rest of the user family
// this returns the resource without the envelope.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := userIDFromRequest(r)
	if err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: "invalid user id"})
		return
	}

	user, err := h.Deps.DB.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrUserDoesNotExist) {
			renderJSON(w, http.StatusNotFound, models.APIError{Code: http.StatusNotFound, Message: "Utilisateur non trouvé"})
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderJSON(w, http.StatusOK, models.NewUserWithProducts(user))
}

// UpdateEmail handles PUT /api/v1/users/{user_id}. Soft-deleted users are
// invisible to this path.
func (h *UserHandlers) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := userIDFromRequest(r)
	if err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: "invalid user id"})
		return
	}

	var req models.UpdateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: err.Error()})
		return
	}

	user, err := h.Deps.DB.UpdateUserEmail(ctx, &database.UpdateUserEmailInput{ID: id, Email: req.Email})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrUserDoesNotExist):
			renderJSON(w, http.StatusNotFound, models.APIError{Code: http.StatusNotFound, Message: "User not found"})
		case errors.Is(err, database.ErrEmailAlreadyExists):
			renderEnvelope(w, http.StatusBadRequest, "Email already exists", nil)
		case errors.Is(err, database.ErrInvalidInput):
			renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: err.Error()})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	if err := h.Deps.Cache.Delete(ctx, cache.AllUsersKey); err != nil {
		h.Deps.Logger.Error("failed to invalidate user listing cache", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderEnvelope(w, http.StatusOK, "Email updated successfully", models.NewUserResponse(user))
}

// SoftDelete handles DELETE /api/v1/users/{user_id}/soft.
func (h *UserHandlers) SoftDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := userIDFromRequest(r)
	if err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: "invalid user id"})
		return
	}

	user, err := h.Deps.DB.SoftDeleteUser(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrUserDoesNotExist):
			renderEnvelope(w, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, database.ErrUserNotDeletable):
			renderEnvelope(w, http.StatusForbidden, "This user cannot be deleted", nil)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	if err := h.Deps.Cache.Delete(ctx, cache.AllUsersKey); err != nil {
		h.Deps.Logger.Error("failed to invalidate user listing cache", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderEnvelope(w, http.StatusOK, "User soft-deleted successfully", models.NewUserResponse(user))
}

// HardDelete handles DELETE /api/v1/users/{user_id}/hard. This is the one
// endpoint that wraps unexpected failures into the envelope with the raw
// error message, matching the inherited contract.
func (h *UserHandlers) HardDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := userIDFromRequest(r)
	if err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: "invalid user id"})
		return
	}

	user, err := h.Deps.DB.HardDeleteUser(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrUserDoesNotExist):
			renderEnvelope(w, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, database.ErrUserNotDeletable):
			renderEnvelope(w, http.StatusForbidden, "This user cannot be deleted", nil)
		case errors.Is(err, database.ErrUserNotSoftDeleted):
			renderEnvelope(w, http.StatusBadRequest, "User must be soft deleted before hard delete.", nil)
		default:
			renderEnvelope(w, http.StatusInternalServerError, "Internal Server Error: "+err.Error(), nil)
		}

		return
	}

	if err := h.Deps.Cache.Delete(ctx, cache.AllUsersKey); err != nil {
		h.Deps.Logger.Error("failed to invalidate user listing cache", zap.Error(err))
		renderEnvelope(w, http.StatusInternalServerError, "Internal Server Error: "+err.Error(), nil)

		return
	}

	renderEnvelope(w, http.StatusOK, "User hard-deleted successfully", models.NewUserResponse(user))
}

// Restore handles PUT /api/v1/users/{user_id}/restore.
func (h *UserHandlers) Restore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := userIDFromRequest(r)
	if err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: "invalid user id"})
		return
	}

	if _, err := h.Deps.DB.RestoreUser(ctx, id); err != nil {
		if errors.Is(err, database.ErrUserNotSoftDeleted) {
			renderEnvelope(w, http.StatusNotFound, "User not found or not soft-deleted", nil)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	if err := h.Deps.Cache.Delete(ctx, cache.AllUsersKey); err != nil {
		h.Deps.Logger.Error("failed to invalidate user listing cache", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderEnvelope(w, http.StatusOK, "successful", nil)
}

// Search handles GET /api/v1/users/search/?query=. Search failures are
// caught and enveloped, unlike failures on the write paths.
func (h *UserHandlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	if query == "" || len(query) > maxSearchQueryLen {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{
			Code:    http.StatusUnprocessableEntity,
			Message: "query is required and must be at most 256 characters",
		})

		return
	}

	docs, err := h.Deps.Search.SearchUsers(r.Context(), query)
	if err != nil {
		h.Deps.Logger.Error("user search failed", zap.Error(err), zap.String("query", query))
		renderEnvelope(w, http.StatusInternalServerError, "Elasticsearch error: "+err.Error(), nil)

		return
	}

	renderEnvelope(w, http.StatusOK, "successful", docs)
}
