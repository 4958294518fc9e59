package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"finman/internal/model"
	"finman/internal/service"
)

// AuthHandler handles the OTP-gated authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a signup request.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyOTPRequest represents an OTP verification request.
type VerifyOTPRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	OTP    string `json:"otp" validate:"required,len=6"`
}

// ResendOTPRequest represents a resend request.
type ResendOTPRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// ForgotPasswordRequest represents a forgot-password request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents a reset-password request.
type ResetPasswordRequest struct {
	UserID      string `json:"userId" validate:"required,uuid"`
	OTP         string `json:"otp" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ChangePasswordRequest represents a change-password request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// ProfileRequest carries the editable profile fields. Email and password
// fields are not bound here and therefore cannot be changed via this route.
type ProfileRequest struct {
	Name          *string `json:"name"`
	DateOfBirth   *string `json:"dateOfBirth"` // RFC 3339 date
	MaritalStatus *string `json:"maritalStatus"`
	Dependents    *int    `json:"dependents"`
	Occupation    *string `json:"occupation"`
	MonthlyIncome *string `json:"monthlyIncome"`
	RiskAppetite  *string `json:"riskAppetite"`
}

// sanitizedUser is the projection returned after verification; it carries no
// credential or challenge material.
type sanitizedUser struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	LastLoginAt     *time.Time `json:"lastLoginAt"`
	PreviousLoginAt *time.Time `json:"previousLoginAt"`
	LastLogoutAt    *time.Time `json:"lastLogoutAt"`
}

func sanitize(u *model.User) sanitizedUser {
	return sanitizedUser{
		ID:              u.ID.String(),
		Name:            u.Name,
		Email:           u.Email,
		LastLoginAt:     u.LastLoginAt,
		PreviousLoginAt: u.PreviousLoginAt,
		LastLogoutAt:    u.LastLogoutAt,
	}
}

// Signup godoc
// @Summary Register a new user and start the OTP challenge
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, delivered, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(err)
	}

	return ok(c, http.StatusCreated, map[string]interface{}{
		"requiresOTP":  true,
		"otpDelivered": delivered,
		"userId":       user.ID,
		"email":        user.Email,
		"name":         user.Name,
	})
}

// Login godoc
// @Summary Verify credentials and start the OTP challenge
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, delivered, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(err)
	}

	return ok(c, http.StatusOK, map[string]interface{}{
		"requiresOTP":  true,
		"otpDelivered": delivered,
		"userId":       user.ID,
		"email":        user.Email,
	})
}

// VerifyOTP godoc
// @Summary Complete the OTP challenge and receive a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verification data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := parseUserID(req.UserID)
	if err != nil {
		return err
	}

	token, user, err := h.authService.VerifyOTP(c.Request().Context(), id, req.OTP)
	if err != nil {
		return fail(err)
	}

	return ok(c, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  sanitize(user),
	})
}

// ResendOTP godoc
// @Summary Issue a fresh OTP for a pending challenge
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResendOTPRequest true "Resend data"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /resend-otp [post]
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req ResendOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := parseUserID(req.UserID)
	if err != nil {
		return err
	}

	delivered, err := h.authService.ResendOTP(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}

	message := "verification code sent"
	if !delivered {
		message = "verification code issued but email delivery failed"
	}
	return ok(c, http.StatusOK, map[string]interface{}{
		"message":      message,
		"otpDelivered": delivered,
	})
}

// ForgotPassword godoc
// @Summary Start the password recovery OTP challenge
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return fail(err)
	}

	return ok(c, http.StatusOK, map[string]interface{}{
		"requiresOTP": true,
		"userId":      user.ID,
		"email":       user.Email,
	})
}

// ResetPassword godoc
// @Summary Set a new password using a valid OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := parseUserID(req.UserID)
	if err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), id, req.OTP, req.NewPassword); err != nil {
		return fail(err)
	}

	return ok(c, http.StatusOK, map[string]interface{}{
		"message": "password updated",
	})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}

	return ok(c, http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// ChangePassword godoc
// @Summary Change password for an authenticated user
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Password change data"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /change-password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(err)
	}

	return ok(c, http.StatusOK, map[string]interface{}{
		"message": "password updated",
	})
}

// UpdateProfile godoc
// @Summary Update profile fields (email and password are ignored)
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	update := service.ProfileUpdate{
		Name:          req.Name,
		MaritalStatus: req.MaritalStatus,
		Dependents:    req.Dependents,
		Occupation:    req.Occupation,
		MonthlyIncome: req.MonthlyIncome,
		RiskAppetite:  req.RiskAppetite,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid dateOfBirth, expected YYYY-MM-DD")
		}
		update.DateOfBirth = &dob
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), id, update)
	if err != nil {
		return fail(err)
	}

	return ok(c, http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// Logout godoc
// @Summary Record logout time
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	at, err := h.authService.Logout(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}

	return ok(c, http.StatusOK, map[string]interface{}{
		"lastLogoutAt": at,
	})
}
