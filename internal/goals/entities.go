package goals

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGoalNotFound    = errors.New("goal not found")
	ErrInvalidName     = errors.New("goal name is required")
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrInvalidTarget   = errors.New("target value must be between 1 and 2147483647")
)

// Status de meta
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Platforms são as plataformas aceitas em metas (as mesmas do catálogo)
var Platforms = []string{
	"instagram",
	"facebook",
	"youtube",
	"tiktok",
	"twitter",
	"telegram",
	"snapchat",
	"traffic",
}

// Goal é uma meta de crescimento do usuário numa plataforma
type Goal struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Platform     string    `json:"platform" db:"platform"`
	TargetValue  int       `json:"target_value" db:"target_value"`
	CurrentValue int       `json:"current_value" db:"current_value"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CreateGoalRequest representa a requisição de criação de meta
type CreateGoalRequest struct {
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	TargetValue int    `json:"targetValue"`
}

// Validate normaliza e valida a requisição
func (r *CreateGoalRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Platform = strings.ToLower(strings.TrimSpace(r.Platform))

	if r.Name == "" {
		return ErrInvalidName
	}
	if !IsKnownPlatform(r.Platform) {
		return ErrUnknownPlatform
	}
	if r.TargetValue <= 0 || r.TargetValue > math.MaxInt32 {
		return ErrInvalidTarget
	}
	return nil
}

// IsKnownPlatform informa se platform é aceita
func IsKnownPlatform(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// NewGoal cria uma meta ativa com progresso zero
func NewGoal(userID string, req CreateGoalRequest) *Goal {
	now := time.Now().UTC()
	return &Goal{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         req.Name,
		Platform:     req.Platform,
		TargetValue:  req.TargetValue,
		CurrentValue: 0,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddProgress soma amount a uma meta ativa da plataforma e devolve se ela mudou.
// A meta que atinge ou passa o alvo fica completed.
func (g *Goal) AddProgress(platform string, amount int, now time.Time) bool {
	if amount <= 0 || g.Status != StatusActive || g.Platform != platform {
		return false
	}

	// current_value é INTEGER
	if amount > math.MaxInt32-g.CurrentValue {
		g.CurrentValue = math.MaxInt32
	} else {
		g.CurrentValue += amount
	}
	if g.CurrentValue >= g.TargetValue {
		g.Status = StatusCompleted
	}
	g.UpdatedAt = now
	return true
}
