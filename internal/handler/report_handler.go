package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"finman/internal/service"
)

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReportRequest represents a report generation request.
type GenerateReportRequest struct {
	From string `json:"from" validate:"required"` // RFC 3339
	To   string `json:"to" validate:"required"`   // RFC 3339
}

// Generate godoc
// @Summary Generate an income/expense report for a period
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateReportRequest true "Report period"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) Generate(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	from, err := time.Parse(time.RFC3339, req.From)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid from, expected RFC 3339")
	}
	to, err := time.Parse(time.RFC3339, req.To)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid to, expected RFC 3339")
	}

	report, err := h.reportService.Generate(c.Request().Context(), uid, from, to)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusCreated, map[string]interface{}{
		"report":  report.Report,
		"summary": report.Summary,
	})
}

// List godoc
// @Summary List generated reports
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	reports, err := h.reportService.List(c.Request().Context(), uid)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"reports": reports})
}

// Get godoc
// @Summary Get one report with its summary
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	report, err := h.reportService.Get(c.Request().Context(), uid, id)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{
		"report":  report.Report,
		"summary": report.Summary,
	})
}
