package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacinebz/go-crud-soft-delete/models"
)

func floatPtr(f float64) *float64 { return &f }

func boolPtr(b bool) *bool { return &b }

func TestProductHandlers_Create(t *testing.T) {
	t.Run("[success scenario]: creates with owner summary", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.createUser(t, "Ada", "ada@example.com")

		status, body := env.do(t, http.MethodPost, "/api/v1/produits/", models.CreateProductRequest{
			Name:        "Clavier",
			Description: "Clavier mécanique",
			Price:       floatPtr(49.9),
			UserID:      owner.ID,
		})
		require.Equal(t, http.StatusCreated, status, string(body))

		var got models.ProductResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "Clavier", got.Name)
		assert.True(t, got.Available) // defaults when omitted
		assert.Equal(t, owner.ID, got.User.ID)
		assert.Equal(t, "ada@example.com", got.User.Email)
	})

	t.Run("[success scenario]: explicit availability", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.createUser(t, "Ada", "ada@example.com")

		status, body := env.do(t, http.MethodPost, "/api/v1/produits/", models.CreateProductRequest{
			Name:      "Souris",
			Price:     floatPtr(19.9),
			Available: boolPtr(false),
			UserID:    owner.ID,
		})
		require.Equal(t, http.StatusCreated, status)

		var got models.ProductResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.False(t, got.Available)
	})

	t.Run("[failure scenario]: unknown owner", func(t *testing.T) {
		env := newTestEnv(t)

		status, body := env.do(t, http.MethodPost, "/api/v1/produits/", models.CreateProductRequest{
			Name:   "Clavier",
			Price:  floatPtr(49.9),
			UserID: 9999,
		})
		require.Equal(t, http.StatusNotFound, status)

		var apiErr models.APIError
		require.NoError(t, json.Unmarshal(body, &apiErr))
		assert.Equal(t, "Utilisateur non trouvé", apiErr.Message)
	})

	t.Run("[failure scenario]: duplicate name", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.createUser(t, "Ada", "ada@example.com")

		req := models.CreateProductRequest{Name: "Clavier", Price: floatPtr(49.9), UserID: owner.ID}

		status, _ := env.do(t, http.MethodPost, "/api/v1/produits/", req)
		require.Equal(t, http.StatusCreated, status)

		status, body := env.do(t, http.MethodPost, "/api/v1/produits/", req)
		require.Equal(t, http.StatusBadRequest, status)

		var apiErr models.APIError
		require.NoError(t, json.Unmarshal(body, &apiErr))
		assert.Equal(t, "Produit déjà existant", apiErr.Message)
	})

	t.Run("[failure scenario]: missing price", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.createUser(t, "Ada", "ada@example.com")

		status, _ := env.do(t, http.MethodPost, "/api/v1/produits/", models.CreateProductRequest{
			Name:   "Clavier",
			UserID: owner.ID,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("[failure scenario]: negative price", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.createUser(t, "Ada", "ada@example.com")

		status, _ := env.do(t, http.MethodPost, "/api/v1/produits/", models.CreateProductRequest{
			Name:   "Clavier",
			Price:  floatPtr(-1),
			UserID: owner.ID,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})
}

func TestProductHandlers_Get(t *testing.T) {
	t.Run("[success scenario]: returns product with owner", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.createUser(t, "Ada", "ada@example.com")

		status, body := env.do(t, http.MethodPost, "/api/v1/produits/", models.CreateProductRequest{
			Name:   "Clavier",
			Price:  floatPtr(49.9),
			UserID: owner.ID,
		})
		require.Equal(t, http.StatusCreated, status)

		var created models.ProductResponse
		require.NoError(t, json.Unmarshal(body, &created))

		status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/produits/%d", created.ID), nil)
		require.Equal(t, http.StatusOK, status)

		var got models.ProductResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, owner.ID, got.User.ID)
	})

	t.Run("[failure scenario]: unknown product", func(t *testing.T) {
		env := newTestEnv(t)

		status, body := env.do(t, http.MethodGet, "/api/v1/produits/9999", nil)
		require.Equal(t, http.StatusNotFound, status)

		var apiErr models.APIError
		require.NoError(t, json.Unmarshal(body, &apiErr))
		assert.Equal(t, "Produit non trouvé", apiErr.Message)
	})
}

func TestProductHandlers_List(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Ada", "ada@example.com")

	for _, name := range []string{"Clavier", "Souris"} {
		status, _ := env.do(t, http.MethodPost, "/api/v1/produits/", models.CreateProductRequest{
			Name:   name,
			Price:  floatPtr(10),
			UserID: owner.ID,
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := env.do(t, http.MethodGet, "/api/v1/produits/", nil)
	require.Equal(t, http.StatusOK, status)

	var got []models.ProductResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Len(t, got, 2)
}
