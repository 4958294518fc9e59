package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailTaken is returned when signing up with an email that already exists.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	// The message is deliberately identical for both cases.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is returned when a user id or email does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoChallenge is returned when no OTP challenge is outstanding.
	ErrNoChallenge = errors.New("no verification code was requested")
	// ErrOTPExpired is returned when the OTP window has elapsed.
	ErrOTPExpired = errors.New("verification code has expired")
	// ErrOTPMismatch is returned when the supplied code is wrong.
	ErrOTPMismatch = errors.New("invalid verification code")
	// ErrDeliveryFailure is returned when an OTP email cannot be sent and the
	// flow cannot proceed without it.
	ErrDeliveryFailure = errors.New("failed to send verification email")
	// ErrWeakPassword is returned when a new password is shorter than 6 characters.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrNotFound is returned when an owned resource does not exist for the caller.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidPeriod is returned when a report period has from after to.
	ErrInvalidPeriod = errors.New("invalid report period")
	// ErrPastDate is returned when a goal target date is not in the future.
	ErrPastDate = errors.New("target date must be in the future")
	// ErrInvalidAmount is returned when a monetary amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrUpstream is returned when an external price feed is unreachable and
	// nothing is cached.
	ErrUpstream = errors.New("price feed unavailable")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrNoChallenge):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NO_CHALLENGE")
	case errors.Is(err, ErrOTPExpired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "OTP_EXPIRED")
	case errors.Is(err, ErrOTPMismatch):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "OTP_MISMATCH")
	case errors.Is(err, ErrDeliveryFailure):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "DELIVERY_FAILURE")
	case errors.Is(err, ErrWeakPassword):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrInvalidPeriod):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrPastDate):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrUpstream):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "UPSTREAM_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
