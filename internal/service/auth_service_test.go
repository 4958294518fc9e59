package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"finman/internal/auth"
	"finman/internal/errors"
	"finman/internal/model"
	"finman/internal/notify"
	"finman/internal/repository"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

// recordingMailer captures sends and can be flipped into a failing mode to
// exercise delivery-failure paths.
type recordingMailer struct {
	mu    sync.Mutex
	fail  bool
	sends []sentMail
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("smtp: connection refused")
	}
	m.sends = append(m.sends, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

var codePattern = regexp.MustCompile(`\d{6}`)

// lastCode pulls the OTP out of the most recent email that carries one.
// Welcome mails have no code and are skipped.
func (m *recordingMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sends) - 1; i >= 0; i-- {
		if code := codePattern.FindString(m.sends[i].body); code != "" {
			return code
		}
	}
	t.Fatal("no OTP email recorded")
	return ""
}

type authTestEnv struct {
	svc           AuthService
	users         repository.UserRepository
	notifications repository.NotificationRepository
	mailer        *recordingMailer
	dispatcher    *notify.Dispatcher
	jwt           *auth.JWTService
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Notification{}))

	users := repository.NewUserRepository(db)
	notifications := repository.NewNotificationRepository(db)
	mailer := &recordingMailer{}
	dispatcher := notify.NewDispatcher(8)
	jwtService := auth.NewJWTService("test-secret", time.Hour)

	return &authTestEnv{
		svc: NewAuthService(
			users,
			notifications,
			auth.NewOTPEngine(users, 5*time.Minute),
			jwtService,
			mailer,
			dispatcher,
		),
		users:         users,
		notifications: notifications,
		mailer:        mailer,
		dispatcher:    dispatcher,
		jwt:           jwtService,
	}
}

func TestAuthService_Signup(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	user, delivered, err := env.svc.Signup(ctx, "Sara", "Sara@Example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, delivered)
	assert.Equal(t, "sara@example.com", user.Email)
	assert.True(t, user.HasChallenge())

	stored, err := env.users.FindByEmail(ctx, "sara@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.OTPHash)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.Nil(t, stored.LastLoginAt)

	t.Run("duplicate email conflicts regardless of case", func(t *testing.T) {
		_, _, err := env.svc.Signup(ctx, "Other", "sara@example.com", "secret2")
		assert.ErrorIs(t, err, errors.ErrEmailTaken)
		_, _, err = env.svc.Signup(ctx, "Other", "SARA@example.com", "secret2")
		assert.ErrorIs(t, err, errors.ErrEmailTaken)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, _, err := env.svc.Signup(ctx, "Tiny", "tiny@example.com", "abc")
		assert.ErrorIs(t, err, errors.ErrWeakPassword)
	})

	t.Run("delivery failure does not fail signup", func(t *testing.T) {
		env.mailer.setFail(true)
		defer env.mailer.setFail(false)

		user, delivered, err := env.svc.Signup(ctx, "Omar", "omar@example.com", "secret1")
		require.NoError(t, err)
		assert.False(t, delivered)
		// The challenge is persisted even though the email never went out,
		// so a resend can still complete the flow.
		assert.True(t, user.HasChallenge())
	})
}

func TestAuthService_LoginDoesNotRevealAccounts(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	_, _, err := env.svc.Signup(ctx, "Sara", "sara@example.com", "secret1")
	require.NoError(t, err)

	_, _, unknownErr := env.svc.Login(ctx, "nobody@example.com", "secret1")
	_, _, wrongErr := env.svc.Login(ctx, "sara@example.com", "wrong-password")

	assert.ErrorIs(t, unknownErr, errors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, errors.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthService_VerifyOTP(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	user, _, err := env.svc.Signup(ctx, "Sara", "sara@example.com", "secret1")
	require.NoError(t, err)
	code := env.mailer.lastCode(t)

	t.Run("wrong code leaves challenge intact", func(t *testing.T) {
		_, _, err := env.svc.VerifyOTP(ctx, user.ID, "000000")
		assert.ErrorIs(t, err, errors.ErrOTPMismatch)

		stored, err := env.users.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, stored.HasChallenge())
	})

	token, verified, err := env.svc.VerifyOTP(ctx, user.ID, code)
	require.NoError(t, err)
	require.NotNil(t, verified.LastLoginAt)
	assert.Nil(t, verified.PreviousLoginAt)
	assert.False(t, verified.HasChallenge())

	subject, err := env.jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	t.Run("replay fails once consumed", func(t *testing.T) {
		_, _, err := env.svc.VerifyOTP(ctx, user.ID, code)
		assert.ErrorIs(t, err, errors.ErrNoChallenge)
	})

	firstLogin := *verified.LastLoginAt

	// Second login shifts the previous-login marker.
	_, _, err = env.svc.Login(ctx, "sara@example.com", "secret1")
	require.NoError(t, err)

	_, second, err := env.svc.VerifyOTP(ctx, user.ID, env.mailer.lastCode(t))
	require.NoError(t, err)
	require.NotNil(t, second.PreviousLoginAt)
	assert.WithinDuration(t, firstLogin, *second.PreviousLoginAt, time.Second)

	// Drain the background queue, then exactly one welcome notification
	// should exist despite two completed logins.
	env.dispatcher.Close()
	notifications, err := env.notifications.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationWelcome, notifications[0].Type)
}

func TestAuthService_VerifyOTPExpired(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	user, _, err := env.svc.Signup(ctx, "Sara", "sara@example.com", "secret1")
	require.NoError(t, err)
	code := env.mailer.lastCode(t)

	require.NoError(t, env.users.SetOTPChallenge(ctx, user.ID, auth.Digest(code), time.Now().Add(-time.Minute)))

	_, _, err = env.svc.VerifyOTP(ctx, user.ID, code)
	assert.ErrorIs(t, err, errors.ErrOTPExpired)
}

func TestAuthService_ResendOTPInvalidatesOldCode(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	user, _, err := env.svc.Signup(ctx, "Sara", "sara@example.com", "secret1")
	require.NoError(t, err)
	oldCode := env.mailer.lastCode(t)

	delivered, err := env.svc.ResendOTP(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, delivered)
	newCode := env.mailer.lastCode(t)

	if oldCode != newCode {
		_, _, err = env.svc.VerifyOTP(ctx, user.ID, oldCode)
		assert.ErrorIs(t, err, errors.ErrOTPMismatch)
	}

	_, _, err = env.svc.VerifyOTP(ctx, user.ID, newCode)
	assert.NoError(t, err)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	_, _, err := env.svc.Signup(ctx, "Sara", "sara@example.com", "secret1")
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.svc.ForgotPassword(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, errors.ErrUserNotFound)
	})

	t.Run("delivery failure is fatal", func(t *testing.T) {
		env.mailer.setFail(true)
		defer env.mailer.setFail(false)

		_, err := env.svc.ForgotPassword(ctx, "sara@example.com")
		assert.ErrorIs(t, err, errors.ErrDeliveryFailure)
	})

	user, err := env.svc.ForgotPassword(ctx, "sara@example.com")
	require.NoError(t, err)
	assert.True(t, user.HasChallenge())
}

func TestAuthService_ResetPassword(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	signedUp, _, err := env.svc.Signup(ctx, "Sara", "sara@example.com", "secret1")
	require.NoError(t, err)

	_, err = env.svc.ForgotPassword(ctx, "sara@example.com")
	require.NoError(t, err)
	code := env.mailer.lastCode(t)

	// A short password is rejected before the code is checked, so the same
	// code still works on the retry.
	err = env.svc.ResetPassword(ctx, signedUp.ID, code, "abc")
	assert.ErrorIs(t, err, errors.ErrWeakPassword)

	require.NoError(t, env.svc.ResetPassword(ctx, signedUp.ID, code, "brand-new-pass"))

	// The code is consumed.
	err = env.svc.ResetPassword(ctx, signedUp.ID, code, "another-pass")
	assert.ErrorIs(t, err, errors.ErrNoChallenge)

	_, _, err = env.svc.Login(ctx, "sara@example.com", "secret1")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
	_, _, err = env.svc.Login(ctx, "sara@example.com", "brand-new-pass")
	assert.NoError(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	user, _, err := env.svc.Signup(ctx, "Sara", "sara@example.com", "secret1")
	require.NoError(t, err)

	err = env.svc.ChangePassword(ctx, user.ID, "wrong-current", "brand-new-pass")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)

	err = env.svc.ChangePassword(ctx, user.ID, "secret1", "abc")
	assert.ErrorIs(t, err, errors.ErrWeakPassword)

	require.NoError(t, env.svc.ChangePassword(ctx, user.ID, "secret1", "brand-new-pass"))
	_, _, err = env.svc.Login(ctx, "sara@example.com", "brand-new-pass")
	assert.NoError(t, err)
}

func TestAuthService_UpdateProfileAndLogout(t *testing.T) {
	env := newAuthTestEnv(t)
	ctx := context.Background()

	user, _, err := env.svc.Signup(ctx, "Sara", "sara@example.com", "secret1")
	require.NoError(t, err)

	occupation := "engineer"
	income := "5400.50"
	updated, err := env.svc.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Occupation:    &occupation,
		MonthlyIncome: &income,
	})
	require.NoError(t, err)
	assert.Equal(t, "engineer", updated.Occupation)
	assert.True(t, updated.MonthlyIncome.Equal(decimal.RequireFromString("5400.50")))

	bad := "not-a-number"
	_, err = env.svc.UpdateProfile(ctx, user.ID, ProfileUpdate{MonthlyIncome: &bad})
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)

	at, err := env.svc.Logout(ctx, user.ID)
	require.NoError(t, err)

	me, err := env.svc.Me(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, me.LastLogoutAt)
	assert.WithinDuration(t, at, *me.LastLogoutAt, time.Second)
}
