// Package models holds the persisted entities and the request/response
// shapes of the HTTP API.
package models

import "time"

// User is a row in the users table. DeletedAt is a plain nullable column
// rather than gorm's soft-delete type: soft deletion here is an explicit
// lifecycle (deleted rows stay listable and restorable through the API).
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	IsDefault bool       `gorm:"default:false" json:"is_default"`
	CanDelete bool       `gorm:"default:true" json:"can_delete"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`

	Products []Product `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
}

// Product is a row in the produits table. Every product belongs to exactly
// one user.
type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Available   bool    `gorm:"default:true" json:"available"`
	UserID      uint    `gorm:"not null" json:"user_id"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName pins the legacy table name the database was provisioned with.
func (Product) TableName() string { return "produits" }
