package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"invoicegen/internal/caching"
	"invoicegen/internal/fieldmap"
	"invoicegen/internal/models"
	"invoicegen/internal/repositories"

	"github.com/google/uuid"
)

type InvoiceService interface {
	Create(ctx context.Context, owner *models.User, input models.InvoiceInput) (*models.Invoice, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error)
	// Get returns ErrInvoiceNotFound when absent and ErrNotAuthorized when owned by someone else.
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch models.InvoicePatch) (*models.Invoice, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Invoice, error)
}

type invoiceService struct {
	repo  repositories.InvoiceRepository
	cache caching.CacheService
}

func NewInvoiceService(repo repositories.InvoiceRepository, cache caching.CacheService) InvoiceService {
	return &invoiceService{repo: repo, cache: cache}
}

func validateItems(items []models.LineItem) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: item %d: %v", ErrInvalidInvoice, i+1, err)
		}
	}
	return nil
}

func (s *invoiceService) Create(ctx context.Context, owner *models.User, input models.InvoiceInput) (*models.Invoice, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		ID:            uuid.New(),
		UserID:        owner.ID,
		InvoiceNumber: input.InvoiceNumber,
		InvoiceDate:   input.InvoiceDate,
		DueDate:       input.DueDate,
		BillFrom:      input.BillFrom,
		BillTo:        input.BillTo,
		Items:         input.Items,
		Notes:         input.Notes,
		PaymentTerms:  input.PaymentTerms,
		Status:        models.StatusUnpaid,
	}
	if invoice.Items == nil {
		invoice.Items = []models.LineItem{}
	}
	invoice.ApplyTotals()

	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	invoice.Owner = owner.Summary()

	s.invalidate(ctx, owner.ID)
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *invoiceService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if invoice.UserID != userID {
		return nil, ErrNotAuthorized
	}
	return invoice, nil
}

// Update changes only the supplied fields. Totals are recomputed when items are
// supplied and left untouched otherwise.
func (s *invoiceService) Update(ctx context.Context, userID, id uuid.UUID, patch models.InvoicePatch) (*models.Invoice, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInvoice, *patch.Status)
	}

	fields := patch.Fields()
	if patch.Items != nil {
		items := fields["items"].([]models.LineItem)
		if err := validateItems(items); err != nil {
			return nil, err
		}
		totals := models.CalculateTotals(items)
		fields["subtotal"] = totals.Subtotal
		fields["taxTotal"] = totals.TaxTotal
		fields["total"] = totals.Total
	}
	if len(fields) == 0 {
		return existing, nil
	}

	columns, err := fieldmap.Invoices.ToRow(fields)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, userID, columns)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	updated.Owner = existing.Owner

	s.invalidate(ctx, userID)
	return updated, nil
}

func (s *invoiceService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvoiceNotFound
		}
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *invoiceService) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Invoice, error) {
	return s.repo.ListOverdue(ctx, asOf)
}

// invalidate drops cached insights; cache failures never fail the write.
func (s *invoiceService) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateInsights(ctx, userID); err != nil {
		slog.Warn("failed to invalidate insights cache", "user_id", userID, "error", err)
	}
}
