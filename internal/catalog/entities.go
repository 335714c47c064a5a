package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrServiceNotFound = errors.New("service not found")

// Category agrupa serviços de uma plataforma
type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Icon        string    `json:"icon" db:"icon"`
	Description string    `json:"description" db:"description"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Service é um pacote vendável (seguidores, curtidas, views...)
type Service struct {
	ID           string          `json:"id" db:"id"`
	CategoryID   string          `json:"category_id" db:"category_id"`
	CategoryName string          `json:"category_name" db:"category_name"`
	Name         string          `json:"name" db:"name"`
	Slug         string          `json:"slug" db:"slug"`
	Description  string          `json:"description" db:"description"`
	Platform     string          `json:"platform" db:"platform"`
	MinQuantity  int             `json:"min_quantity" db:"min_quantity"`
	MaxQuantity  int             `json:"max_quantity" db:"max_quantity"`
	PricePer1000 decimal.Decimal `json:"price_per_1000" db:"price_per_1000"`
	IsActive     bool            `json:"is_active" db:"is_active"`
	IsFeatured   bool            `json:"is_featured" db:"is_featured"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// AcceptsQuantity informa se quantity está dentro dos limites do serviço
func (s *Service) AcceptsQuantity(quantity int) bool {
	return quantity >= s.MinQuantity && quantity <= s.MaxQuantity
}
