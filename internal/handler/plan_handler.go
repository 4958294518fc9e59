package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"finman/internal/service"
)

// PlanHandler handles financial plan endpoints.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// SectionRequest is one plan section in submission order.
type SectionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PlanRequest represents a plan create/update request.
type PlanRequest struct {
	Title    string           `json:"title"`
	Sections []SectionRequest `json:"sections"`
}

func (r PlanRequest) sections() []service.SectionInput {
	if r.Sections == nil {
		return nil
	}
	sections := make([]service.SectionInput, len(r.Sections))
	for i, s := range r.Sections {
		sections[i] = service.SectionInput{Title: s.Title, Content: s.Content}
	}
	return sections
}

// Create godoc
// @Summary Create a financial plan with sections
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlanRequest true "Plan data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /plans [post]
func (h *PlanHandler) Create(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	plan, err := h.planService.Create(c.Request().Context(), uid, req.Title, req.sections())
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusCreated, map[string]interface{}{"plan": plan})
}

// List godoc
// @Summary List the caller's plans
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /plans [get]
func (h *PlanHandler) List(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	plans, err := h.planService.List(c.Request().Context(), uid)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"plans": plans})
}

// Get godoc
// @Summary Get one plan with its sections
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	plan, err := h.planService.Get(c.Request().Context(), uid, id)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"plan": plan})
}

// Update godoc
// @Summary Update a plan and replace its sections
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param request body PlanRequest true "Plan fields"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /plans/{id} [put]
func (h *PlanHandler) Update(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	plan, err := h.planService.Update(c.Request().Context(), uid, id, req.Title, req.sections())
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"plan": plan})
}

// Complete godoc
// @Summary Mark a plan completed
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /plans/{id}/complete [post]
func (h *PlanHandler) Complete(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	plan, err := h.planService.Complete(c.Request().Context(), uid, id)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"plan": plan})
}

// Delete godoc
// @Summary Delete a plan
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /plans/{id} [delete]
func (h *PlanHandler) Delete(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.planService.Delete(c.Request().Context(), uid, id); err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"message": "plan deleted"})
}
