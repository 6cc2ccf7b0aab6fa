package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/yacinebz/go-crud-soft-delete/internal/database"
	"github.com/yacinebz/go-crud-soft-delete/models"
)

func productIDFromRequest(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["product_id"]

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

// Create handles POST /api/v1/produits/. Products do not use the envelope:
// success returns the created resource, errors return APIError.
func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: err.Error()})
		return
	}

	if req.Price == nil {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: "price is required"})
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	product, err := h.Deps.DB.CreateProduct(r.Context(), &database.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Available:   available,
		UserID:      req.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrUserDoesNotExist):
			renderJSON(w, http.StatusNotFound, models.APIError{Code: http.StatusNotFound, Message: "Utilisateur non trouvé"})
		case errors.Is(err, database.ErrProductNameAlreadyExists):
			renderJSON(w, http.StatusBadRequest, models.APIError{Code: http.StatusBadRequest, Message: "Produit déjà existant"})
		case errors.Is(err, database.ErrInvalidInput):
			renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: err.Error()})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	renderJSON(w, http.StatusCreated, models.NewProductResponse(product))
}

// Get handles GET /api/v1/produits/{product_id}.
func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := productIDFromRequest(r)
	if err != nil {
		renderJSON(w, http.StatusUnprocessableEntity, models.APIError{Code: http.StatusUnprocessableEntity, Message: "invalid product id"})
		return
	}

	product, err := h.Deps.DB.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrProductDoesNotExist) {
			renderJSON(w, http.StatusNotFound, models.APIError{Code: http.StatusNotFound, Message: "Produit non trouvé"})
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderJSON(w, http.StatusOK, models.NewProductResponse(product))
}

// List handles GET /api/v1/produits/.
func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Deps.DB.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderJSON(w, http.StatusOK, models.NewProductResponses(products))
}
