package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"finman/internal/auth"
	"finman/internal/errors"
	"finman/internal/mail"
	"finman/internal/model"
	"finman/internal/notify"
	"finman/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// ProfileUpdate carries the editable profile fields. Email and password are
// deliberately absent; they can only change through their dedicated flows.
type ProfileUpdate struct {
	Name          *string
	DateOfBirth   *time.Time
	MaritalStatus *string
	Dependents    *int
	Occupation    *string
	MonthlyIncome *string
	RiskAppetite  *string
}

// AuthService orchestrates the OTP-gated authentication lifecycle: credential
// store, OTP engine, notifier and session issuer.
type AuthService interface {
	// Signup creates the user and issues an OTP challenge. otpDelivered is
	// false when the email send failed; the signup itself still succeeds.
	Signup(ctx context.Context, name, email, password string) (user *model.User, otpDelivered bool, err error)
	// Login verifies credentials and issues an OTP challenge, same delivery
	// semantics as Signup.
	Login(ctx context.Context, email, password string) (user *model.User, otpDelivered bool, err error)
	// VerifyOTP validates the outstanding challenge, records the login,
	// clears the challenge and mints a session token.
	VerifyOTP(ctx context.Context, userID uuid.UUID, code string) (token string, user *model.User, err error)
	// ResendOTP issues a fresh challenge regardless of current state.
	ResendOTP(ctx context.Context, userID uuid.UUID) (otpDelivered bool, err error)
	// ForgotPassword issues an OTP challenge for account recovery. Delivery
	// failure is fatal here: without the email there is no way to finish.
	ForgotPassword(ctx context.Context, email string) (user *model.User, err error)
	// ResetPassword consumes a valid challenge and stores the new password.
	ResetPassword(ctx context.Context, userID uuid.UUID, code, newPassword string) error
	// ChangePassword re-hashes the password for an authenticated caller.
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	// Me returns the caller's record.
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	// UpdateProfile applies profile fields, never email or password.
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error)
	// Logout records the logout timestamp. The token stays valid until its
	// natural expiry; there is no server-side revocation.
	Logout(ctx context.Context, userID uuid.UUID) (time.Time, error)
}

type authService struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	otp           *auth.OTPEngine
	jwt           *auth.JWTService
	mailer        mail.Mailer
	dispatcher    *notify.Dispatcher
}

// NewAuthService creates the authentication service.
func NewAuthService(
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	otp *auth.OTPEngine,
	jwt *auth.JWTService,
	mailer mail.Mailer,
	dispatcher *notify.Dispatcher,
) AuthService {
	return &authService{
		users:         users,
		notifications: notifications,
		otp:           otp,
		jwt:           jwt,
		mailer:        mailer,
		dispatcher:    dispatcher,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*model.User, bool, error) {
	email = normalizeEmail(email)

	if len(password) < minPasswordLength {
		return nil, false, errors.ErrWeakPassword
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, false, errors.ErrEmailTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, false, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	delivered := s.issueAndDeliver(ctx, user)
	return user, delivered, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, bool, error) {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email and wrong password produce the same error so the
		// response never confirms whether an account exists.
		return nil, false, errors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, false, errors.ErrInvalidCredentials
	}

	delivered := s.issueAndDeliver(ctx, user)
	return user, delivered, nil
}

// issueAndDeliver issues a challenge and sends it. The send is awaited, but
// its failure only flips the delivered flag.
func (s *authService) issueAndDeliver(ctx context.Context, user *model.User) bool {
	code, err := s.otp.Issue(ctx, user)
	if err != nil {
		log.Printf("issue otp for %s: %v", user.ID, err)
		return false
	}
	if err := s.sendOTPEmail(ctx, user, code); err != nil {
		log.Printf("deliver otp to %s: %v", user.Email, err)
		return false
	}
	return true
}

func (s *authService) sendOTPEmail(ctx context.Context, user *model.User, code string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in a few minutes.\n", user.Name, code)
	return s.mailer.Send(ctx, user.Email, "Your verification code", body)
}

func (s *authService) VerifyOTP(ctx context.Context, userID uuid.UUID, code string) (string, *model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil, errors.ErrUserNotFound
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.otp.Validate(user, code); err != nil {
		return "", nil, err
	}

	now := time.Now()
	if err := s.users.CompleteChallenge(ctx, user.ID, now); err != nil {
		return "", nil, fmt.Errorf("complete challenge: %w", err)
	}
	user.PreviousLoginAt = user.LastLoginAt
	user.LastLoginAt = &now
	user.OTPHash = ""
	user.OTPExpiresAt = nil
	user.OTPVerified = true

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	s.enqueueWelcome(user)
	return token, user, nil
}

// enqueueWelcome fires the post-verification welcome email and notification
// row without blocking the response. Failures are swallowed by the dispatcher.
func (s *authService) enqueueWelcome(user *model.User) {
	id, name, email := user.ID, user.Name, user.Email
	first := user.PreviousLoginAt == nil
	s.dispatcher.Enqueue(func(ctx context.Context) error {
		if first {
			n := &model.Notification{
				UserID:  id,
				Type:    model.NotificationWelcome,
				Message: fmt.Sprintf("Welcome to Finman, %s!", name),
			}
			if err := s.notifications.Create(ctx, n); err != nil {
				return fmt.Errorf("welcome notification: %w", err)
			}
		}
		body := fmt.Sprintf("Hi %s,\n\nYou just signed in to your Finman account.\n", name)
		return s.mailer.Send(ctx, email, "Welcome back to Finman", body)
	})
}

func (s *authService) ResendOTP(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, errors.ErrUserNotFound
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return s.issueAndDeliver(ctx, user), nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	code, err := s.otp.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.sendOTPEmail(ctx, user, code); err != nil {
		return nil, errors.ErrDeliveryFailure
	}
	return user, nil
}

func (s *authService) ResetPassword(ctx context.Context, userID uuid.UUID, code, newPassword string) error {
	// Checked before the OTP so a short password leaves the challenge
	// unconsumed and the same code can be retried.
	if len(newPassword) < minPasswordLength {
		return errors.ErrWeakPassword
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.otp.Validate(user, code); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return s.users.ClearOTPChallenge(ctx, user.ID, true)
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return errors.ErrWeakPassword
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return errors.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, string(hashed))
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.DateOfBirth != nil {
		user.DateOfBirth = update.DateOfBirth
	}
	if update.MaritalStatus != nil {
		user.MaritalStatus = *update.MaritalStatus
	}
	if update.Dependents != nil {
		user.Dependents = *update.Dependents
	}
	if update.Occupation != nil {
		user.Occupation = *update.Occupation
	}
	if update.MonthlyIncome != nil {
		income, err := parseAmount(*update.MonthlyIncome)
		if err != nil {
			return nil, err
		}
		user.MonthlyIncome = income
	}
	if update.RiskAppetite != nil {
		user.RiskAppetite = *update.RiskAppetite
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	now := time.Now()
	if err := s.users.RecordLogout(ctx, userID, now); err != nil {
		return time.Time{}, fmt.Errorf("record logout: %w", err)
	}
	return now, nil
}
