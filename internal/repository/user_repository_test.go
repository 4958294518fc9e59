package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finman/internal/model"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(
		&model.User{},
		&model.Goal{},
		&model.Transaction{},
		&model.Plan{},
		&model.PlanSection{},
		&model.Report{},
		&model.Notification{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func createTestUser(t *testing.T, repo UserRepository, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashed",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "find@example.com")
	require.NotEqual(t, user.ID.String(), "00000000-0000-0000-0000-000000000000")

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	byEmail, err := repo.FindByEmail(ctx, "find@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	createTestUser(t, repo, "dup@example.com")
	err := repo.Create(ctx, &model.User{Name: "Other", Email: "dup@example.com", PasswordHash: "x"})
	assert.Error(t, err, "unique index must reject a second user with the same email")
}

func TestUserRepository_OTPChallengeLifecycle(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()
	user := createTestUser(t, repo, "otp@example.com")

	expiry := time.Now().Add(5 * time.Minute)
	require.NoError(t, repo.SetOTPChallenge(ctx, user.ID, "digest", expiry))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.HasChallenge(), "hash and expiry must be set together")
	assert.Equal(t, "digest", got.OTPHash)
	assert.False(t, got.OTPVerified)

	require.NoError(t, repo.ClearOTPChallenge(ctx, user.ID, true))

	got, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.HasChallenge(), "hash and expiry must be cleared together")
	assert.Empty(t, got.OTPHash)
	assert.Nil(t, got.OTPExpiresAt)
	assert.True(t, got.OTPVerified)
}

func TestUserRepository_CompleteChallenge(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()
	user := createTestUser(t, repo, "login@example.com")

	// First login: previousLoginAt stays null.
	first := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, repo.SetOTPChallenge(ctx, user.ID, "d1", time.Now().Add(time.Minute)))
	require.NoError(t, repo.CompleteChallenge(ctx, user.ID, first))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.Nil(t, got.PreviousLoginAt)
	assert.False(t, got.HasChallenge())
	assert.True(t, got.OTPVerified)

	// Second login: previousLoginAt takes the old lastLoginAt.
	second := time.Now().Truncate(time.Second)
	require.NoError(t, repo.SetOTPChallenge(ctx, user.ID, "d2", time.Now().Add(time.Minute)))
	require.NoError(t, repo.CompleteChallenge(ctx, user.ID, second))

	got, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PreviousLoginAt)
	assert.WithinDuration(t, first, *got.PreviousLoginAt, time.Second)
	assert.WithinDuration(t, second, *got.LastLoginAt, time.Second)
}

func TestUserRepository_UpdatePasswordAndLogout(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()
	user := createTestUser(t, repo, "pw@example.com")

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))

	at := time.Now().Truncate(time.Second)
	require.NoError(t, repo.RecordLogout(ctx, user.ID, at))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	require.NotNil(t, got.LastLogoutAt)
	assert.WithinDuration(t, at, *got.LastLogoutAt, time.Second)
}
