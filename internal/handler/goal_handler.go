package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"finman/internal/service"
)

// GoalHandler handles savings goal endpoints.
type GoalHandler struct {
	goalService service.GoalService
}

// NewGoalHandler creates a new goal handler.
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest represents a goal create/update request.
type GoalRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"targetAmount"`
	SavedAmount  string `json:"savedAmount"`
	TargetDate   string `json:"targetDate"` // YYYY-MM-DD
}

func (r GoalRequest) toInput() (service.GoalInput, error) {
	input := service.GoalInput{
		Name:         r.Name,
		TargetAmount: r.TargetAmount,
		SavedAmount:  r.SavedAmount,
	}
	if r.TargetDate != "" {
		date, err := time.Parse("2006-01-02", r.TargetDate)
		if err != nil {
			return input, echo.NewHTTPError(http.StatusBadRequest, "invalid targetDate, expected YYYY-MM-DD")
		}
		input.TargetDate = date
	}
	return input, nil
}

// Create godoc
// @Summary Create a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GoalRequest true "Goal data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /goals [post]
func (h *GoalHandler) Create(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.TargetAmount == "" || req.TargetDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, targetAmount and targetDate are required")
	}

	input, err := req.toInput()
	if err != nil {
		return err
	}

	goal, err := h.goalService.Create(c.Request().Context(), uid, input)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusCreated, map[string]interface{}{"goal": goal})
}

// List godoc
// @Summary List the caller's goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /goals [get]
func (h *GoalHandler) List(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	goals, err := h.goalService.List(c.Request().Context(), uid)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"goals": goals})
}

// Get godoc
// @Summary Get one goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/{id} [get]
func (h *GoalHandler) Get(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	goal, err := h.goalService.Get(c.Request().Context(), uid, id)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"goal": goal})
}

// Update godoc
// @Summary Update a goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param request body GoalRequest true "Goal fields"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/{id} [put]
func (h *GoalHandler) Update(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	goal, err := h.goalService.Update(c.Request().Context(), uid, id, input)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"goal": goal})
}

// Delete godoc
// @Summary Delete a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/{id} [delete]
func (h *GoalHandler) Delete(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.goalService.Delete(c.Request().Context(), uid, id); err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"message": "goal deleted"})
}
