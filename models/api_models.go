package models

import "time"

// StandardResponse is the envelope returned by all user endpoints.
type StandardResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// APIError is the error shape of the product endpoints and the raw user
// lookup paths.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateUserRequest is the payload of POST /api/v1/users/.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateEmailRequest is the payload of PUT /api/v1/users/{user_id}.
type UpdateEmailRequest struct {
	Email string `json:"email"`
}

// CreateProductRequest is the payload of POST /api/v1/produits/.
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Available   *bool    `json:"available"`
	UserID      uint     `json:"user_id"`
}

// UserResponse is a user without its products. This is the shape cached
// under the all_users key on user creation.
type UserResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	IsDefault bool       `json:"is_default"`
	CanDelete bool       `json:"can_delete"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// ProductSummary is the nested product shape inside a user listing.
type ProductSummary struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
}

// UserWithProducts is a user with its product summaries. This is the shape
// the listing endpoint returns and caches on a miss.
type UserWithProducts struct {
	UserResponse
	Products []ProductSummary `json:"produits"`
}

// UserInfo is the owner summary nested in a product response.
type UserInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductResponse is the full product shape with its owner summary.
type ProductResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Available   bool     `json:"available"`
	UserID      uint     `json:"user_id"`
	User        UserInfo `json:"user"`
}

// NewUserResponse converts a stored user to its API shape.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsDefault: u.IsDefault,
		CanDelete: u.CanDelete,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

// NewUserResponses converts a slice of stored users.
func NewUserResponses(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}

	return out
}

// NewUserWithProducts converts a stored user and its preloaded products.
func NewUserWithProducts(u *User) UserWithProducts {
	products := make([]ProductSummary, 0, len(u.Products))
	for i := range u.Products {
		p := &u.Products[i]
		products = append(products, ProductSummary{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Available:   p.Available,
		})
	}

	return UserWithProducts{
		UserResponse: NewUserResponse(u),
		Products:     products,
	}
}

// NewUsersWithProducts converts a slice of stored users with products.
func NewUsersWithProducts(users []User) []UserWithProducts {
	out := make([]UserWithProducts, 0, len(users))
	for i := range users {
		out = append(out, NewUserWithProducts(&users[i]))
	}

	return out
}

// NewProductResponse converts a stored product and its preloaded owner.
func NewProductResponse(p *Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Available:   p.Available,
		UserID:      p.UserID,
	}

	if p.User != nil {
		resp.User = UserInfo{ID: p.User.ID, Name: p.User.Name, Email: p.User.Email}
	}

	return resp
}

// NewProductResponses converts a slice of stored products.
func NewProductResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}

	return out
}
