package goals

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/growth-storefront/internal/database"
	"github.com/matheusmosca/growth-storefront/internal/database/dbtest"
	"github.com/matheusmosca/growth-storefront/internal/logging"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, userID string) ([]Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Goal), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, goal *Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, userID, goalID string) error {
	args := m.Called(ctx, userID, goalID)
	return args.Error(0)
}

func (m *MockRepository) ListActiveForUpdate(ctx context.Context, tx database.Tx, userID, platform string) ([]Goal, error) {
	args := m.Called(ctx, tx, userID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Goal), args.Error(1)
}

func (m *MockRepository) UpdateProgress(ctx context.Context, tx database.Tx, goal *Goal) error {
	args := m.Called(ctx, tx, goal)
	return args.Error(0)
}

func TestCreate(t *testing.T) {
	// Arrange
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(g *Goal) bool {
		return g.UserID == "u1" &&
			g.Name == "10k followers" &&
			g.Platform == "instagram" &&
			g.TargetValue == 10000 &&
			g.CurrentValue == 0 &&
			g.Status == StatusActive
	})).Return(nil)

	// Act
	goal, err := NewUseCase(repo, logging.Discard()).Create(context.Background(), "u1", CreateGoalRequest{
		Name:        " 10k followers ",
		Platform:    "Instagram",
		TargetValue: 10000,
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, goal.ID)
	repo.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateGoalRequest
		want error
	}{
		{"empty name", CreateGoalRequest{Name: " ", Platform: "instagram", TargetValue: 1}, ErrInvalidName},
		{"unknown platform", CreateGoalRequest{Name: "g", Platform: "myspace", TargetValue: 1}, ErrUnknownPlatform},
		{"zero target", CreateGoalRequest{Name: "g", Platform: "tiktok", TargetValue: 0}, ErrInvalidTarget},
		{"negative target", CreateGoalRequest{Name: "g", Platform: "tiktok", TargetValue: -5}, ErrInvalidTarget},
		{"target above integer column", CreateGoalRequest{Name: "g", Platform: "tiktok", TargetValue: math.MaxInt32 + 1}, ErrInvalidTarget},
	}

	repo := new(MockRepository)
	uc := NewUseCase(repo, logging.Discard())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), "u1", tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDelete_NotOwned(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Delete", mock.Anything, "u1", "g-other").Return(ErrGoalNotFound)

	err := NewUseCase(repo, logging.Discard()).Delete(context.Background(), "u1", "g-other")

	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestAddProgress_CompletesGoalsThatReachTarget(t *testing.T) {
	// Arrange
	repo := new(MockRepository)
	tx := dbtest.NewRollbackTx()
	fixedNow := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.On("ListActiveForUpdate", mock.Anything, tx, "u1", "instagram").Return([]Goal{
		{ID: "g-short", Platform: "instagram", TargetValue: 1000, CurrentValue: 200, Status: StatusActive},
		{ID: "g-exact", Platform: "instagram", TargetValue: 1000, CurrentValue: 500, Status: StatusActive},
		{ID: "g-over", Platform: "instagram", TargetValue: 600, CurrentValue: 400, Status: StatusActive},
	}, nil)

	saved := map[string]Goal{}
	repo.On("UpdateProgress", mock.Anything, tx, mock.AnythingOfType("*goals.Goal")).
		Run(func(args mock.Arguments) {
			g := args.Get(2).(*Goal)
			saved[g.ID] = *g
		}).
		Return(nil)

	uc := NewUseCase(repo, logging.Discard())
	uc.now = func() time.Time { return fixedNow }

	// Act
	err := uc.AddProgress(context.Background(), tx, "u1", "instagram", 500)

	// Assert
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.Equal(t, 700, saved["g-short"].CurrentValue)
	assert.Equal(t, StatusActive, saved["g-short"].Status)
	assert.Equal(t, 1000, saved["g-exact"].CurrentValue)
	assert.Equal(t, StatusCompleted, saved["g-exact"].Status)
	assert.Equal(t, 900, saved["g-over"].CurrentValue)
	assert.Equal(t, StatusCompleted, saved["g-over"].Status)
	assert.Equal(t, fixedNow, saved["g-over"].UpdatedAt)
}

func TestAddProgress_SkipsGoalsOutsideFilter(t *testing.T) {
	repo := new(MockRepository)
	tx := dbtest.NewRollbackTx()
	repo.On("ListActiveForUpdate", mock.Anything, tx, "u1", "instagram").Return([]Goal{
		{ID: "g-done", Platform: "instagram", TargetValue: 100, CurrentValue: 100, Status: StatusCompleted},
		{ID: "g-tiktok", Platform: "tiktok", TargetValue: 100, CurrentValue: 0, Status: StatusActive},
	}, nil)

	err := NewUseCase(repo, logging.Discard()).AddProgress(context.Background(), tx, "u1", "instagram", 50)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddProgress_IgnoresNonPositiveAmount(t *testing.T) {
	repo := new(MockRepository)
	tx := dbtest.NewRollbackTx()

	require.NoError(t, NewUseCase(repo, logging.Discard()).AddProgress(context.Background(), tx, "u1", "instagram", 0))

	repo.AssertNotCalled(t, "ListActiveForUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddProgress_PropagatesError(t *testing.T) {
	repo := new(MockRepository)
	tx := dbtest.NewRollbackTx()
	repo.On("ListActiveForUpdate", mock.Anything, tx, "u1", "tiktok").Return([]Goal{
		{ID: "g1", Platform: "tiktok", TargetValue: 100, Status: StatusActive},
	}, nil)
	repo.On("UpdateProgress", mock.Anything, tx, mock.Anything).Return(errors.New("deadlock"))

	err := NewUseCase(repo, logging.Discard()).AddProgress(context.Background(), tx, "u1", "tiktok", 10)

	assert.ErrorContains(t, err, "deadlock")
}
