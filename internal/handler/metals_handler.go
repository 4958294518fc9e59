package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"finman/internal/service"
)

// MetalsHandler handles the metals spot-price endpoint.
type MetalsHandler struct {
	metalsService service.MetalsService
}

// NewMetalsHandler creates a new metals handler.
func NewMetalsHandler(metalsService service.MetalsService) *MetalsHandler {
	return &MetalsHandler{metalsService: metalsService}
}

// Latest godoc
// @Summary Get cached spot prices for gold, silver and platinum
// @Tags metals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} errors.ErrorResponse
// @Router /metals/prices [get]
func (h *MetalsHandler) Latest(c echo.Context) error {
	if _, err := userID(c); err != nil {
		return err
	}

	prices, err := h.metalsService.Latest(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"prices": prices})
}
