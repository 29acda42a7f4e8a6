package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"invoicegen/internal/common"
	"invoicegen/internal/models"
	"invoicegen/internal/services"

	"github.com/labstack/echo/v4"
)

// AIHandlers exposes the model-backed helpers
type AIHandlers struct {
	aiService services.AIService
}

func NewAIHandlers(aiService services.AIService) *AIHandlers {
	return &AIHandlers{aiService: aiService}
}

type ParseTextRequest struct {
	Text string `json:"text"`
}

type ReminderRequest struct {
	InvoiceID string `json:"invoiceId"`
}

type ReminderResponse struct {
	ReminderText string `json:"reminderText"`
}

type InsightsResponse struct {
	Insights []string `json:"insights"`
}

type ModelsResponse struct {
	Success bool               `json:"success"`
	Models  []models.ModelInfo `json:"models"`
}

// ParseText godoc
// @Summary      Extract invoice data from free text
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      ParseTextRequest  true  "Text to parse"
// @Success      200   {object}  models.InvoiceDraft
// @Failure      400   {object}  common.ErrorResponse
// @Failure      500   {object}  common.ErrorResponse
// @Router       /ai/parse-text [post]
// @Security     BearerAuth
func (h *AIHandlers) ParseText(c echo.Context) error {
	var req ParseTextRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	draft, err := h.aiService.ParseText(c.Request().Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrTextRequired) {
			return common.SendValidationError(c, "Text is required")
		}
		return aiError(c, err, "Failed to parse invoice data from text.")
	}
	return c.JSON(http.StatusOK, draft)
}

// GenerateReminder godoc
// @Summary      Draft a payment reminder email
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      ReminderRequest  true  "Invoice to remind about"
// @Success      200   {object}  ReminderResponse
// @Failure      400   {object}  common.ErrorResponse
// @Failure      401   {object}  common.ErrorResponse
// @Failure      404   {object}  common.ErrorResponse
// @Router       /ai/generate-reminder [post]
// @Security     BearerAuth
func (h *AIHandlers) GenerateReminder(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}

	var req ReminderRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	text, err := h.aiService.GenerateReminder(ctx, userID, req.InvoiceID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvoiceIDRequired):
			return common.SendValidationError(c, "Invoice ID is required")
		case errors.Is(err, services.ErrInvoiceNotFound):
			return common.SendNotFoundError(c, "Invoice")
		case errors.Is(err, services.ErrNotAuthorized):
			return common.SendUnauthorizedError(c, "Not authorized")
		}
		return aiError(c, err, "Failed to generate reminder.")
	}
	return c.JSON(http.StatusOK, ReminderResponse{ReminderText: text})
}

// DashboardSummary godoc
// @Summary      Insights over the caller's invoices
// @Tags         ai
// @Produce      json
// @Success      200  {object}  InsightsResponse
// @Failure      500  {object}  common.ErrorResponse
// @Router       /ai/dashboard-summary [get]
// @Security     BearerAuth
func (h *AIHandlers) DashboardSummary(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}

	insights, err := h.aiService.DashboardInsights(ctx, userID)
	if err != nil {
		return aiError(c, err, "Failed to generate dashboard insights.")
	}
	return c.JSON(http.StatusOK, InsightsResponse{Insights: insights})
}

// ListModels godoc
// @Summary      Available generation models
// @Tags         ai
// @Produce      json
// @Success      200  {object}  ModelsResponse
// @Failure      500  {object}  common.ErrorResponse
// @Router       /ai/models [get]
func (h *AIHandlers) ListModels(c echo.Context) error {
	list, err := h.aiService.ListModels(c.Request().Context())
	if err != nil {
		return aiError(c, err, "Failed to fetch available models.")
	}
	if list == nil {
		list = []models.ModelInfo{}
	}
	return c.JSON(http.StatusOK, ModelsResponse{Success: true, Models: list})
}

func aiError(c echo.Context, err error, message string) error {
	slog.ErrorContext(c.Request().Context(), message, "error", err)
	return common.SendServerError(c, message, err)
}
