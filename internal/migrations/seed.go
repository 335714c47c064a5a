package migrations

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// SeedCategory é uma categoria do catálogo inicial
type SeedCategory struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
	SortOrder   int    `yaml:"sort_order"`
}

// SeedService é um serviço do catálogo inicial
type SeedService struct {
	ID           string `yaml:"id"`
	CategoryID   string `yaml:"category_id"`
	Name         string `yaml:"name"`
	Slug         string `yaml:"slug"`
	Description  string `yaml:"description"`
	Platform     string `yaml:"platform"`
	MinQuantity  int    `yaml:"min_quantity"`
	MaxQuantity  int    `yaml:"max_quantity"`
	PricePer1000 string `yaml:"price_per_1000"`
	Featured     bool   `yaml:"featured"`
}

// SeedCatalog é o documento catalog.yaml
type SeedCatalog struct {
	Categories []SeedCategory `yaml:"categories"`
	Services   []SeedService  `yaml:"services"`
}

// adminRole é o papel da conta criada no seed
const adminRole = "superadmin"

// AdminSeed descreve o administrador criado num banco vazio
type AdminSeed struct {
	Email    string
	Password string
	FullName string
	Currency string
}

// LoadCatalog lê e valida o catálogo embutido
func LoadCatalog() (*SeedCatalog, error) {
	return parseCatalog(catalogYAML)
}

func parseCatalog(data []byte) (*SeedCatalog, error) {
	var catalog SeedCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	categories := make(map[string]bool, len(catalog.Categories))
	for _, c := range catalog.Categories {
		categories[c.ID] = true
	}

	for _, s := range catalog.Services {
		if !categories[s.CategoryID] {
			return nil, fmt.Errorf("service %s: unknown category %q", s.ID, s.CategoryID)
		}
		if s.MinQuantity <= 0 || s.MaxQuantity < s.MinQuantity {
			return nil, fmt.Errorf("service %s: invalid quantity range %d-%d", s.ID, s.MinQuantity, s.MaxQuantity)
		}
		price, err := decimal.NewFromString(s.PricePer1000)
		if err != nil || !price.IsPositive() {
			return nil, fmt.Errorf("service %s: invalid price_per_1000 %q", s.ID, s.PricePer1000)
		}
	}

	return &catalog, nil
}

// Seed popula catálogo e administrador quando as tabelas estão vazias
func Seed(ctx context.Context, db *sql.DB, admin AdminSeed) error {
	catalog, err := LoadCatalog()
	if err != nil {
		return err
	}

	if err := seedCatalog(ctx, db, catalog); err != nil {
		return err
	}

	return seedAdmin(ctx, db, admin)
}

func seedCatalog(ctx context.Context, db *sql.DB, catalog *SeedCatalog) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM service_categories`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range catalog.Categories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO service_categories (id, name, slug, icon, description, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, c.ID, c.Name, c.Slug, c.Icon, c.Description, c.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.ID, err)
		}
	}

	for _, s := range catalog.Services {
		price, _ := decimal.NewFromString(s.PricePer1000)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO services (id, category_id, name, slug, description, platform,
				min_quantity, max_quantity, price_per_1000, is_active, is_featured)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10)
		`, s.ID, s.CategoryID, s.Name, s.Slug, s.Description, s.Platform,
			s.MinQuantity, s.MaxQuantity, price, s.Featured)
		if err != nil {
			return fmt.Errorf("failed to seed service %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog seed: %w", err)
	}
	return nil
}

func seedAdmin(ctx context.Context, db *sql.DB, admin AdminSeed) error {
	if admin.Password == "" {
		return nil
	}
	// mesmo formato que o login usa na busca
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" {
		return errors.New("admin email is required when an admin password is set")
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), 12)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	fullName := admin.FullName
	if fullName == "" {
		fullName = "System Admin"
	}
	currency := admin.Currency
	if currency == "" {
		currency = "NGN"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin admin seed transaction: %w", err)
	}
	defer tx.Rollback()

	userID := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, email, string(hash), fullName, adminRole); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO wallets (id, user_id, balance, currency)
		VALUES ($1, $2, 0, $3)
	`, uuid.NewString(), userID, currency); err != nil {
		return fmt.Errorf("failed to seed admin wallet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit admin seed: %w", err)
	}
	return nil
}
