package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"finman/internal/errors"
	"finman/internal/model"
	"finman/internal/repository"
)

func newGoalTestEnv(t *testing.T) GoalService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Goal{}))
	return NewGoalService(repository.NewGoalRepository(db))
}

func TestGoalService_Create(t *testing.T) {
	svc := newGoalTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	nextYear := time.Now().AddDate(1, 0, 0)

	t.Run("valid", func(t *testing.T) {
		goal, err := svc.Create(ctx, userID, GoalInput{
			Name:         "emergency fund",
			TargetAmount: "10000",
			SavedAmount:  "2500.50",
			TargetDate:   nextYear,
		})
		require.NoError(t, err)
		assert.True(t, goal.TargetAmount.Equal(decimal.NewFromInt(10000)))
		assert.False(t, goal.Completed)
	})

	t.Run("already funded is completed", func(t *testing.T) {
		goal, err := svc.Create(ctx, userID, GoalInput{
			Name:         "new phone",
			TargetAmount: "800",
			SavedAmount:  "800",
			TargetDate:   nextYear,
		})
		require.NoError(t, err)
		assert.True(t, goal.Completed)
	})

	t.Run("rejects non-positive target", func(t *testing.T) {
		_, err := svc.Create(ctx, userID, GoalInput{Name: "x", TargetAmount: "0", TargetDate: nextYear})
		assert.ErrorIs(t, err, errors.ErrInvalidAmount)
		_, err = svc.Create(ctx, userID, GoalInput{Name: "x", TargetAmount: "-50", TargetDate: nextYear})
		assert.ErrorIs(t, err, errors.ErrInvalidAmount)
		_, err = svc.Create(ctx, userID, GoalInput{Name: "x", TargetAmount: "lots", TargetDate: nextYear})
		assert.ErrorIs(t, err, errors.ErrInvalidAmount)
	})

	t.Run("rejects past target date", func(t *testing.T) {
		_, err := svc.Create(ctx, userID, GoalInput{
			Name:         "time machine",
			TargetAmount: "100",
			TargetDate:   time.Now().AddDate(0, 0, -1),
		})
		assert.ErrorIs(t, err, errors.ErrPastDate)
	})
}

func TestGoalService_UpdateRecomputesCompletion(t *testing.T) {
	svc := newGoalTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	goal, err := svc.Create(ctx, userID, GoalInput{
		Name:         "vacation",
		TargetAmount: "3000",
		SavedAmount:  "1000",
		TargetDate:   time.Now().AddDate(0, 6, 0),
	})
	require.NoError(t, err)
	require.False(t, goal.Completed)

	updated, err := svc.Update(ctx, userID, goal.ID, GoalInput{SavedAmount: "3000"})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	updated, err = svc.Update(ctx, userID, goal.ID, GoalInput{TargetAmount: "5000"})
	require.NoError(t, err)
	assert.False(t, updated.Completed)
}

func TestGoalService_GetAndDeleteScoped(t *testing.T) {
	svc := newGoalTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	goal, err := svc.Create(ctx, owner, GoalInput{
		Name:         "car",
		TargetAmount: "20000",
		TargetDate:   time.Now().AddDate(2, 0, 0),
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), goal.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	err = svc.Delete(ctx, uuid.New(), goal.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, owner, goal.ID))
	_, err = svc.Get(ctx, owner, goal.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
