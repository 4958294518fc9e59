package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finman/internal/errors"
	"finman/internal/model"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		seen[code] = struct{}{}
	}
	// 200 draws from a 900k space should essentially never all collide.
	assert.Greater(t, len(seen), 100)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest("123456"), Digest("123456"), "digest must be deterministic")
	assert.NotEqual(t, Digest("123456"), Digest("123457"))
	assert.Len(t, Digest("123456"), 64, "hex-encoded sha-256")
	assert.NotContains(t, Digest("123456"), "123456")
}

func challengeUser(code string, expiresIn time.Duration) *model.User {
	expiry := time.Now().Add(expiresIn)
	return &model.User{
		OTPHash:      Digest(code),
		OTPExpiresAt: &expiry,
	}
}

func TestOTPEngine_Validate(t *testing.T) {
	engine := NewOTPEngine(nil, 5*time.Minute)

	t.Run("no challenge outstanding", func(t *testing.T) {
		err := engine.Validate(&model.User{}, "123456")
		assert.ErrorIs(t, err, errors.ErrNoChallenge)
	})

	t.Run("expired challenge", func(t *testing.T) {
		user := challengeUser("123456", -time.Second)
		err := engine.Validate(user, "123456")
		assert.ErrorIs(t, err, errors.ErrOTPExpired)
	})

	t.Run("wrong code", func(t *testing.T) {
		user := challengeUser("123456", time.Minute)
		err := engine.Validate(user, "654321")
		assert.ErrorIs(t, err, errors.ErrOTPMismatch)
	})

	t.Run("correct code within window", func(t *testing.T) {
		user := challengeUser("123456", time.Minute)
		assert.NoError(t, engine.Validate(user, "123456"))
	})

	t.Run("validation does not clear the challenge", func(t *testing.T) {
		user := challengeUser("123456", time.Minute)
		require.NoError(t, engine.Validate(user, "123456"))
		assert.True(t, user.HasChallenge(), "clearing is the caller's responsibility")
	})
}
