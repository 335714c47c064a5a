package goals

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoal_AddProgress(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		goal        Goal
		platform    string
		amount      int
		wantChanged bool
		wantValue   int
		wantStatus  string
	}{
		{"below target", Goal{Platform: "instagram", TargetValue: 1000, CurrentValue: 100, Status: StatusActive}, "instagram", 500, true, 600, StatusActive},
		{"exact target", Goal{Platform: "instagram", TargetValue: 1000, CurrentValue: 500, Status: StatusActive}, "instagram", 500, true, 1000, StatusCompleted},
		{"overshoot", Goal{Platform: "instagram", TargetValue: 1000, CurrentValue: 900, Status: StatusActive}, "instagram", 500, true, 1400, StatusCompleted},
		{"already completed", Goal{Platform: "instagram", TargetValue: 1000, CurrentValue: 1000, Status: StatusCompleted}, "instagram", 500, false, 1000, StatusCompleted},
		{"other platform", Goal{Platform: "tiktok", TargetValue: 1000, CurrentValue: 0, Status: StatusActive}, "instagram", 500, false, 0, StatusActive},
		{"zero amount", Goal{Platform: "instagram", TargetValue: 1000, CurrentValue: 0, Status: StatusActive}, "instagram", 0, false, 0, StatusActive},
		{"clamped to integer column", Goal{Platform: "instagram", TargetValue: math.MaxInt32, CurrentValue: math.MaxInt32 - 10, Status: StatusActive}, "instagram", 500, true, math.MaxInt32, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := tt.goal

			changed := goal.AddProgress(tt.platform, tt.amount, now)

			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantValue, goal.CurrentValue)
			assert.Equal(t, tt.wantStatus, goal.Status)
			if changed {
				assert.Equal(t, now, goal.UpdatedAt)
			}
		})
	}
}

func TestCreateGoalRequest_ValidateUpperBound(t *testing.T) {
	ok := CreateGoalRequest{Name: "max", Platform: "youtube", TargetValue: math.MaxInt32}
	assert.NoError(t, ok.Validate())

	tooBig := CreateGoalRequest{Name: "max", Platform: "youtube", TargetValue: math.MaxInt32 + 1}
	assert.ErrorIs(t, tooBig.Validate(), ErrInvalidTarget)
}
