package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProductCategories is the fixed set of grocery departments.
var ProductCategories = []string{
	"fruits", "vegetables", "dairy", "meat", "bakery", "beverages", "snacks", "pantry",
}

// Product represents a grocery catalog entry.
type Product struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Price       float64       `bson:"price" json:"price"`
	Category    string        `bson:"category" json:"category"`
	Stock       int           `bson:"stock" json:"stock"`
	Image       string        `bson:"image" json:"image"`
	IsActive    bool          `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=200"`
	Description string  `json:"description" binding:"required,max=2000"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Category    string  `json:"category" binding:"required,oneof=fruits vegetables dairy meat bakery beverages snacks pantry"`
	Stock       int     `json:"stock" binding:"gte=0"`
	Image       string  `json:"image"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Category    *string  `json:"category" binding:"omitempty,oneof=fruits vegetables dairy meat bakery beverages snacks pantry"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Image       *string  `json:"image"`
	IsActive    *bool    `json:"isActive"`
}

func (req *CreateProductRequest) ToProduct() *Product {
	now := time.Now()
	return &Product{
		ID:          bson.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Image:       req.Image,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *Product) IsInStock() bool {
	return p.Stock > 0 && p.IsActive
}

func (p *Product) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// StockUpdate is the payload broadcast on the push channel when an admin
// edit changes a product's stock level.
type StockUpdate struct {
	ProductID string `json:"productId"`
	Stock     int    `json:"stock"`
}
