package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"finman/internal/errors"
	"finman/internal/model"
	"finman/internal/repository"
)

// OTPEngine generates, stores and validates one-time codes. Only the SHA-256
// digest of a code is persisted; the plaintext exists just long enough to be
// emailed.
type OTPEngine struct {
	users  repository.UserRepository
	window time.Duration
}

// NewOTPEngine creates an OTP engine with the configured validity window.
func NewOTPEngine(users repository.UserRepository, window time.Duration) *OTPEngine {
	return &OTPEngine{users: users, window: window}
}

// Generate returns a 6-digit code drawn uniformly from [100000, 999999].
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// Digest returns the hex-encoded SHA-256 digest of a code.
func Digest(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// Issue generates a fresh code, persists its digest with an expiry of
// now + window, and returns the plaintext for out-of-band delivery.
func (e *OTPEngine) Issue(ctx context.Context, user *model.User) (string, error) {
	code, err := Generate()
	if err != nil {
		return "", err
	}

	hash := Digest(code)
	expiresAt := time.Now().Add(e.window)
	if err := e.users.SetOTPChallenge(ctx, user.ID, hash, expiresAt); err != nil {
		return "", fmt.Errorf("store otp challenge: %w", err)
	}

	user.OTPHash = hash
	user.OTPExpiresAt = &expiresAt
	user.OTPVerified = false
	return code, nil
}

// Validate checks the supplied code against the user's outstanding challenge.
// The caller is responsible for clearing the challenge on success.
// The digest comparison is a plain string compare, not constant-time.
func (e *OTPEngine) Validate(user *model.User, code string) error {
	if !user.HasChallenge() {
		return errors.ErrNoChallenge
	}
	if !time.Now().Before(*user.OTPExpiresAt) {
		return errors.ErrOTPExpired
	}
	if Digest(code) != user.OTPHash {
		return errors.ErrOTPMismatch
	}
	return nil
}
