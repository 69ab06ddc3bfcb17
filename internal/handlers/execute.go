// Package handlers exposes the HTTP front door of the service.
package handlers

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"reqsearch/internal/executor"
	"reqsearch/internal/models"
	"reqsearch/internal/query"
)

var validate = validator.New()

// Runner executes prompts; satisfied by *executor.Executor.
type Runner interface {
	Execute(ctx context.Context, prompt string, page query.Pagination, overrideToken string) *models.ExecutionResult
}

// ExecuteHandler handles prompt execution requests.
type ExecuteHandler struct {
	runner Runner
}

// NewExecuteHandler creates a new execute handler.
func NewExecuteHandler(runner Runner) *ExecuteHandler {
	return &ExecuteHandler{runner: runner}
}

// executeRequest is the inbound JSON body of POST /execute-request.
// Pagination may come in the body or as query parameters; the body wins.
// Out-of-range pagination is not rejected here: the executor clamps it.
type executeRequest struct {
	Request string `json:"request" validate:"required"`
	Token   string `json:"token"`
	Offset  *int   `json:"offset"`
	Size    *int   `json:"size"`
	SortBy  string `json:"sort_by"`
}

// Execute handles POST /execute-request.
//
// Failed executions come back with the same envelope as successes;
// ValidationError maps to 400, everything else failed to 502.
func (h *ExecuteHandler) Execute(c fiber.Ctx) error {
	var req executeRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body; expected {\"request\": \"...\"}")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "missing or invalid 'request' field")
	}

	page, badParam := paginationFrom(c, &req)
	if badParam != "" {
		result := executor.ValidationFailure(req.Request, badParam)
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}

	result := h.runner.Execute(c.Context(), req.Request, page, req.Token)

	status := fiber.StatusOK
	if !result.Success {
		if result.ErrorKind == models.ErrValidation {
			status = fiber.StatusBadRequest
		} else {
			status = fiber.StatusBadGateway
		}
	}
	return c.Status(status).JSON(result)
}

// paginationFrom merges query parameters and body fields into pagination.
// Unspecified slots keep their sentinel values (negative/zero/empty) so the
// executor can fill them from prompt hints and configured defaults.
// Non-numeric query parameters cannot be clamped; a non-empty second return
// names the offending parameter.
func paginationFrom(c fiber.Ctx, req *executeRequest) (query.Pagination, string) {
	page := query.Pagination{Offset: -1}

	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, "offset must be an integer"
		}
		page.Offset = n
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, "size must be an integer"
		}
		page.Size = n
	}
	if v := c.Query("sort_by"); v != "" {
		page.SortBy = v
	}

	if req.Offset != nil {
		page.Offset = *req.Offset
	}
	if req.Size != nil {
		page.Size = *req.Size
	}
	if req.SortBy != "" {
		page.SortBy = req.SortBy
	}

	return page, ""
}
