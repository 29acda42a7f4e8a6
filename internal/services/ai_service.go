package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"invoicegen/internal/analytics"
	"invoicegen/internal/caching"
	"invoicegen/internal/genai"
	"invoicegen/internal/models"

	"github.com/google/uuid"
)

// NoInsightsMessage is returned instead of calling the model when a user has no invoices.
const NoInsightsMessage = "No invoice data available to generate insights."

type AIService interface {
	ParseText(ctx context.Context, text string) (*models.InvoiceDraft, error)
	GenerateReminder(ctx context.Context, userID uuid.UUID, invoiceID string) (string, error)
	DashboardInsights(ctx context.Context, userID uuid.UUID) ([]string, error)
	ListModels(ctx context.Context) ([]models.ModelInfo, error)
	RefreshModels(ctx context.Context) ([]models.ModelInfo, error)
}

type AIOptions struct {
	InsightsTTL time.Duration
	ModelsTTL   time.Duration
}

type aiService struct {
	generator genai.TextGenerator
	invoices  InvoiceService
	cache     caching.CacheService
	opts      AIOptions
}

func NewAIService(generator genai.TextGenerator, invoices InvoiceService, cache caching.CacheService, opts AIOptions) AIService {
	return &aiService{generator: generator, invoices: invoices, cache: cache, opts: opts}
}

// CleanJSON strips markdown code fences the model wraps around JSON replies.
func CleanJSON(reply string) string {
	cleaned := strings.ReplaceAll(reply, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

const parsePrompt = `You extract invoice data from free text.
Read the text between the markers and reply with a single JSON object, nothing else:
{
  "clientName": "string",
  "email": "string, empty if unknown",
  "address": "string, empty if unknown",
  "items": [{"name": "string", "quantity": number, "unitPrice": number}]
}
---TEXT START---
%s
---TEXT END---`

func (s *aiService) ParseText(ctx context.Context, text string) (*models.InvoiceDraft, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	reply, err := s.generator.GenerateContent(ctx, fmt.Sprintf(parsePrompt, text))
	if err != nil {
		return nil, err
	}

	draft := &models.InvoiceDraft{}
	if err := json.Unmarshal([]byte(CleanJSON(reply)), draft); err != nil {
		return nil, fmt.Errorf("failed to decode AI reply: %w", err)
	}
	if draft.Items == nil {
		draft.Items = []models.DraftItem{}
	}
	return draft, nil
}

const reminderPrompt = `You are a courteous accounting assistant. Write a short, friendly but clear
payment reminder email for the invoice below. Begin the email with "Subject:".
- Client name: %s
- Invoice number: %s
- Amount due: %.2f
- Due date: %s`

func (s *aiService) GenerateReminder(ctx context.Context, userID uuid.UUID, invoiceID string) (string, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return "", ErrInvoiceIDRequired
	}
	id, err := uuid.Parse(strings.TrimSpace(invoiceID))
	if err != nil {
		return "", ErrInvoiceNotFound
	}

	invoice, err := s.invoices.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}

	due := "not set"
	if !invoice.DueDate.IsZero() {
		due = invoice.DueDate.Format("Jan 2, 2006")
	}
	prompt := fmt.Sprintf(reminderPrompt, invoice.BillTo.ClientName, invoice.InvoiceNumber, invoice.Total, due)

	return s.generator.GenerateContent(ctx, prompt)
}

const insightsPrompt = `You are an encouraging financial analyst for a small business owner.
From the invoice summary below give 2-3 short, actionable insights. Do not just restate the numbers;
for example suggest reminders when much is outstanding.
Reply with JSON only, shaped as {"insights": ["...", "..."]}.

Summary:
%s`

// DashboardInsights summarises the caller's invoices through the model. Results are
// cached per user until the next invoice write.
func (s *aiService) DashboardInsights(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if cached := s.cachedInsights(ctx, userID); cached != nil {
		return cached, nil
	}

	invoices, err := s.invoices.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return []string{NoInsightsMessage}, nil
	}

	stats := analytics.Summarize(invoices)
	reply, err := s.generator.GenerateContent(ctx, fmt.Sprintf(insightsPrompt, analytics.FormatSummary(stats)))
	if err != nil {
		return nil, err
	}

	insights, err := decodeInsights(CleanJSON(reply))
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.opts.InsightsTTL > 0 {
		if err := s.cache.SetInsights(ctx, userID, insights, s.opts.InsightsTTL); err != nil {
			slog.Warn("failed to cache insights", "user_id", userID, "error", err)
		}
	}
	return insights, nil
}

func (s *aiService) cachedInsights(ctx context.Context, userID uuid.UUID) []string {
	if s.cache == nil {
		return nil
	}
	insights, err := s.cache.GetInsights(ctx, userID)
	if err != nil {
		slog.Warn("insights cache read failed", "user_id", userID, "error", err)
		return nil
	}
	return insights
}

// decodeInsights accepts {"insights": [...]} or a bare JSON array of strings.
func decodeInsights(raw string) ([]string, error) {
	var wrapped struct {
		Insights []string `json:"insights"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && wrapped.Insights != nil {
		return wrapped.Insights, nil
	}

	var bare []string
	if err := json.Unmarshal([]byte(raw), &bare); err != nil {
		return nil, fmt.Errorf("failed to decode AI insights: %w", err)
	}
	if bare == nil {
		return nil, errors.New("AI reply contained no insights")
	}
	return bare, nil
}

// ListModels serves the model list from cache, fetching it on a miss.
func (s *aiService) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	if s.cache != nil {
		list, err := s.cache.GetModels(ctx)
		if err != nil {
			slog.Warn("models cache read failed", "error", err)
		} else if list != nil {
			return list, nil
		}
	}
	return s.RefreshModels(ctx)
}

// RefreshModels fetches the model list upstream and stores it in the cache.
func (s *aiService) RefreshModels(ctx context.Context) ([]models.ModelInfo, error) {
	list, err := s.generator.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && s.opts.ModelsTTL > 0 {
		if err := s.cache.SetModels(ctx, list, s.opts.ModelsTTL); err != nil {
			slog.Warn("failed to cache model list", "error", err)
		}
	}
	return list, nil
}
