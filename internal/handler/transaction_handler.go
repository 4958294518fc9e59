package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"finman/internal/model"
	"finman/internal/repository"
	"finman/internal/service"
)

// TransactionHandler handles ledger endpoints.
type TransactionHandler struct {
	txnService service.TransactionService
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(txnService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txnService: txnService}
}

// TransactionRequest represents a ledger entry create/update request.
type TransactionRequest struct {
	Type       string `json:"type"`
	Category   string `json:"category"`
	Amount     string `json:"amount"`
	Note       string `json:"note"`
	OccurredAt string `json:"occurredAt"` // RFC 3339
}

func (r TransactionRequest) toInput() (service.TransactionInput, error) {
	input := service.TransactionInput{
		Type:     model.TransactionType(r.Type),
		Category: r.Category,
		Amount:   r.Amount,
		Note:     r.Note,
	}
	if r.Type != "" && input.Type != model.TransactionIncome && input.Type != model.TransactionExpense {
		return input, echo.NewHTTPError(http.StatusBadRequest, "type must be income or expense")
	}
	if r.OccurredAt != "" {
		at, err := time.Parse(time.RFC3339, r.OccurredAt)
		if err != nil {
			return input, echo.NewHTTPError(http.StatusBadRequest, "invalid occurredAt, expected RFC 3339")
		}
		input.OccurredAt = at
	}
	return input, nil
}

// Create godoc
// @Summary Record an income or expense
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Transaction data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Type == "" || req.Category == "" || req.Amount == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "type, category and amount are required")
	}

	input, err := req.toInput()
	if err != nil {
		return err
	}

	txn, err := h.txnService.Create(c.Request().Context(), uid, input)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusCreated, map[string]interface{}{"transaction": txn})
}

// List godoc
// @Summary List ledger entries with optional filters
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "income or expense"
// @Param category query string false "Category"
// @Param from query string false "RFC 3339 start"
// @Param to query string false "RFC 3339 end"
// @Success 200 {object} map[string]interface{}
// @Router /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	filter := repository.TransactionFilter{
		Type:     model.TransactionType(c.QueryParam("type")),
		Category: c.QueryParam("category"),
	}
	if v := c.QueryParam("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from, expected RFC 3339")
		}
		filter.From = from
	}
	if v := c.QueryParam("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to, expected RFC 3339")
		}
		filter.To = to
	}

	txns, err := h.txnService.List(c.Request().Context(), uid, filter)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"transactions": txns})
}

// Get godoc
// @Summary Get one ledger entry
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	txn, err := h.txnService.Get(c.Request().Context(), uid, id)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"transaction": txn})
}

// Update godoc
// @Summary Update a ledger entry
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body TransactionRequest true "Transaction fields"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	txn, err := h.txnService.Update(c.Request().Context(), uid, id, input)
	if err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"transaction": txn})
}

// Delete godoc
// @Summary Delete a ledger entry
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.txnService.Delete(c.Request().Context(), uid, id); err != nil {
		return fail(err)
	}
	return ok(c, http.StatusOK, map[string]interface{}{"message": "transaction deleted"})
}
