package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UseCaseInterface define o que os handlers precisam do use case
type UseCaseInterface interface {
	ListServices(ctx context.Context) ([]Service, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetService(ctx context.Context, id string) (*Service, error)
}

// Handler contém os handlers HTTP do catálogo
type Handler struct {
	useCase UseCaseInterface
}

// NewHandler cria uma nova instância de Handler
func NewHandler(useCase UseCaseInterface) *Handler {
	return &Handler{useCase: useCase}
}

// Register registra as rotas públicas do catálogo
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/services", h.ListServices)
	rg.GET("/services/categories", h.ListCategories)
	rg.GET("/services/:id", h.GetService)
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.useCase.ListServices(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load services"})
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetService(c *gin.Context) {
	service, err := h.useCase.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load service"})
		return
	}
	c.JSON(http.StatusOK, service)
}
