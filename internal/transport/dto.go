package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Username string `json:"username"  validate:"required,min=3,max=64"`
	Name     string `json:"name"      validate:"required,max=128"`
	LastName string `json:"last_name" validate:"required,max=128"`
	Email    string `json:"email"     validate:"required,email,max=255"`
	Password string `json:"password"  validate:"required,min=6,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiredAt   time.Time `json:"expired_at"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=255"`
}

// Product requests carry no rating; it is derived from reviews.
type CreateProductRequest struct {
	Name       string           `json:"name"        validate:"required,max=255"`
	Price      *decimal.Decimal `json:"price"       validate:"required,gte=0"`
	CategoryID uuid.UUID        `json:"category_id" validate:"required"`
}

type UpdateProductRequest struct {
	Name       *string          `json:"name"        validate:"omitempty,min=1,max=255"`
	Price      *decimal.Decimal `json:"price"       validate:"omitempty,gte=0"`
	CategoryID *uuid.UUID       `json:"category_id"`
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity"   validate:"omitempty,gte=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type CartCountResponse struct {
	Count int64 `json:"count"`
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Text      string    `json:"text"       validate:"required,max=5000"`
	Rating    int       `json:"rating"     validate:"required,min=1,max=5"`
}

type UpdateReviewRequest struct {
	Text   *string `json:"text"   validate:"omitempty,min=1,max=5000"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

type ReviewStatistics struct {
	ProductID     uuid.UUID        `json:"product_id"`
	AverageRating float64          `json:"average_rating"`
	TotalReviews  int64            `json:"total_reviews"`
	RatingCounts  map[string]int64 `json:"rating_counts"`
}

type CreatePromotionRequest struct {
	Name        string      `json:"name"        validate:"required,max=255"`
	Description string      `json:"description" validate:"required"`
	URL         *string     `json:"url"         validate:"omitempty,url,max=2048"`
	ImagePath   *string     `json:"image_path"  validate:"omitempty,max=1024"`
	ImageURL    *string     `json:"image_url"   validate:"omitempty,max=2048"`
	StartDate   time.Time   `json:"start_date"  validate:"required"`
	EndDate     time.Time   `json:"end_date"    validate:"required,gtefield=StartDate"`
	ProductIDs  []uuid.UUID `json:"product_ids"`
}

type UpdatePromotionRequest struct {
	Name        *string      `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string      `json:"description" validate:"omitempty,min=1"`
	URL         *string      `json:"url"         validate:"omitempty,url,max=2048"`
	ImagePath   *string      `json:"image_path"  validate:"omitempty,max=1024"`
	ImageURL    *string      `json:"image_url"   validate:"omitempty,max=2048"`
	StartDate   *time.Time   `json:"start_date"`
	EndDate     *time.Time   `json:"end_date"`
	ProductIDs  *[]uuid.UUID `json:"product_ids"`
}

type PromotionProductsRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids" validate:"required"`
}

