package goals

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/growth-storefront/internal/identity"
)

// UseCaseInterface define o que os handlers precisam do use case
type UseCaseInterface interface {
	List(ctx context.Context, userID string) ([]Goal, error)
	Create(ctx context.Context, userID string, req CreateGoalRequest) (*Goal, error)
	Delete(ctx context.Context, userID, goalID string) error
}

// Handler contém os handlers HTTP de metas
type Handler struct {
	useCase UseCaseInterface
}

// NewHandler cria uma nova instância de Handler
func NewHandler(useCase UseCaseInterface) *Handler {
	return &Handler{useCase: useCase}
}

// Register registra as rotas de metas num grupo autenticado
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/goals", h.List)
	rg.POST("/goals", h.Create)
	rg.DELETE("/goals/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	principal, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goals, err := h.useCase.List(c.Request.Context(), principal.UserID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load goals"})
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *Handler) Create(c *gin.Context) {
	principal, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	goal, err := h.useCase.Create(c.Request.Context(), principal.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName), errors.Is(err, ErrUnknownPlatform), errors.Is(err, ErrInvalidTarget):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "goalId": goal.ID})
}

func (h *Handler) Delete(c *gin.Context) {
	principal, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), principal.UserID, c.Param("id")); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
