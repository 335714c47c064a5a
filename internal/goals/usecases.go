package goals

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/growth-storefront/internal/database"
)

// UseCase contém a lógica de metas
type UseCase struct {
	repository Repository
	logger     logrus.FieldLogger
	now        func() time.Time
}

// NewUseCase cria uma nova instância de UseCase
func NewUseCase(repository Repository, logger logrus.FieldLogger) *UseCase {
	return &UseCase{
		repository: repository,
		logger:     logger.WithField("component", "goals"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (uc *UseCase) List(ctx context.Context, userID string) ([]Goal, error) {
	return uc.repository.List(ctx, userID)
}

// Create valida e grava uma nova meta ativa
func (uc *UseCase) Create(ctx context.Context, userID string, req CreateGoalRequest) (*Goal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	goal := NewGoal(userID, req)
	if err := uc.repository.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Delete remove a meta somente se ela pertencer ao usuário
func (uc *UseCase) Delete(ctx context.Context, userID, goalID string) error {
	return uc.repository.Delete(ctx, userID, goalID)
}

// AddProgress credita progresso às metas ativas da plataforma dentro de tx
func (uc *UseCase) AddProgress(ctx context.Context, tx database.Tx, userID, platform string, amount int) error {
	if amount <= 0 {
		return nil
	}

	active, err := uc.repository.ListActiveForUpdate(ctx, tx, userID, platform)
	if err != nil {
		return err
	}

	now := uc.now()
	updated, completed := 0, 0
	for i := range active {
		goal := &active[i]
		if !goal.AddProgress(platform, amount, now) {
			continue
		}
		if err := uc.repository.UpdateProgress(ctx, tx, goal); err != nil {
			return err
		}
		updated++
		if goal.Status == StatusCompleted {
			completed++
		}
	}

	if updated > 0 {
		uc.logger.WithFields(logrus.Fields{
			"user_id":   userID,
			"platform":  platform,
			"amount":    amount,
			"goals":     updated,
			"completed": completed,
		}).Info("ℹ️ Goal progress updated")
	}
	return nil
}
