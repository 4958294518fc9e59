package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"finman/internal/config"
	"finman/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	goalHandler *handler.GoalHandler,
	transactionHandler *handler.TransactionHandler,
	planHandler *handler.PlanHandler,
	reportHandler *handler.ReportHandler,
	notificationHandler *handler.NotificationHandler,
	metalsHandler *handler.MetalsHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public auth routes
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)
	api.POST("/verify-otp", authHandler.VerifyOTP)
	api.POST("/resend-otp", authHandler.ResendOTP)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/reset-password", authHandler.ResetPassword)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	secured.GET("/me", authHandler.Me)
	secured.PUT("/change-password", authHandler.ChangePassword)
	secured.PUT("/profile", authHandler.UpdateProfile)
	secured.POST("/logout", authHandler.Logout)

	// Goal routes
	secured.POST("/goals", goalHandler.Create)
	secured.GET("/goals", goalHandler.List)
	secured.GET("/goals/:id", goalHandler.Get)
	secured.PUT("/goals/:id", goalHandler.Update)
	secured.DELETE("/goals/:id", goalHandler.Delete)

	// Ledger routes
	secured.POST("/transactions", transactionHandler.Create)
	secured.GET("/transactions", transactionHandler.List)
	secured.GET("/transactions/:id", transactionHandler.Get)
	secured.PUT("/transactions/:id", transactionHandler.Update)
	secured.DELETE("/transactions/:id", transactionHandler.Delete)

	// Plan routes
	secured.POST("/plans", planHandler.Create)
	secured.GET("/plans", planHandler.List)
	secured.GET("/plans/:id", planHandler.Get)
	secured.PUT("/plans/:id", planHandler.Update)
	secured.POST("/plans/:id/complete", planHandler.Complete)
	secured.DELETE("/plans/:id", planHandler.Delete)

	// Report routes
	secured.POST("/reports", reportHandler.Generate)
	secured.GET("/reports", reportHandler.List)
	secured.GET("/reports/:id", reportHandler.Get)

	// Notification routes
	secured.GET("/notifications", notificationHandler.List)
	secured.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
	secured.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	secured.DELETE("/notifications/:id", notificationHandler.Delete)

	// Metals price route
	secured.GET("/metals/prices", metalsHandler.Latest)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
