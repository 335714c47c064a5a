package catalog

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	servicesKey   = "services"
	categoriesKey = "categories"
)

// UseCase expõe o catálogo com cache opcional de leitura
type UseCase struct {
	repository Repository
	cache      Cache
	ttl        time.Duration
	logger     logrus.FieldLogger
}

// NewUseCase cria uma nova instância de UseCase. cache pode ser nil.
func NewUseCase(repository Repository, cache Cache, ttl time.Duration, logger logrus.FieldLogger) *UseCase {
	return &UseCase{
		repository: repository,
		cache:      cache,
		ttl:        ttl,
		logger:     logger.WithField("component", "catalog"),
	}
}

// ListServices lista os serviços ativos com o nome da categoria
func (uc *UseCase) ListServices(ctx context.Context) ([]Service, error) {
	var services []Service
	if uc.fromCache(ctx, servicesKey, &services) {
		return services, nil
	}

	services, err := uc.repository.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, servicesKey, services)
	return services, nil
}

// ListCategories lista as categorias ativas por sort_order
func (uc *UseCase) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if uc.fromCache(ctx, categoriesKey, &categories) {
		return categories, nil
	}

	categories, err := uc.repository.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, categoriesKey, categories)
	return categories, nil
}

// GetService busca um serviço ativo sempre no banco (preço vigente)
func (uc *UseCase) GetService(ctx context.Context, id string) (*Service, error) {
	return uc.repository.GetService(ctx, id)
}

func (uc *UseCase) fromCache(ctx context.Context, key string, dest any) bool {
	if uc.cache == nil {
		return false
	}

	hit, err := uc.cache.Get(ctx, key, dest)
	if err != nil {
		uc.logger.WithError(err).WithField("key", key).Warn("⚠️ Catalog cache read failed, using database")
		return false
	}
	return hit
}

func (uc *UseCase) toCache(ctx context.Context, key string, value any) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Set(ctx, key, value, uc.ttl); err != nil {
		uc.logger.WithError(err).WithField("key", key).Warn("⚠️ Catalog cache write failed")
	}
}
