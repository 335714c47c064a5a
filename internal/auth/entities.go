package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matheusmosca/growth-storefront/internal/identity"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is not active")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid registration data")
	ErrInvalidToken       = errors.New("invalid token")
)

// Status de conta
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// bcryptCost é o custo usado no hash de senhas
const bcryptCost = 12

// User representa um usuário cadastrado
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"fullName" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser cria um usuário comum ativo
func NewUser(email, passwordHash, fullName string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         identity.RoleUser,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsActive informa se o usuário pode autenticar
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// RegisterRequest representa a requisição de cadastro
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"fullName" binding:"required"`
}

// Normalize limpa espaços e padroniza o email
func (r *RegisterRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
}

// Validate confere os campos que o binding não cobre
func (r *RegisterRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return ErrInvalidInput
	}
	if len(r.Password) < 8 || len(r.Password) > 72 {
		return ErrInvalidInput
	}
	if r.FullName == "" {
		return ErrInvalidInput
	}
	return nil
}

// LoginRequest representa a requisição de login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserView é o usuário exposto nas respostas de autenticação
type UserView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Session é a resposta de register/login
type Session struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

func viewOf(u *User) UserView {
	return UserView{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
