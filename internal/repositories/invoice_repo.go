package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicegen/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error)
	Update(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (*models.Invoice, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Invoice, error)
}

const invoiceColumns = `id, user_id, invoice_number, invoice_date, due_date, bill_from, bill_to, items, notes, payment_terms, subtotal, tax_total, total, status, created_at, updated_at`

// invoiceJoinColumns selects invoice columns plus the owner's name and email.
const invoiceJoinColumns = `i.id, i.user_id, i.invoice_number, i.invoice_date, i.due_date, i.bill_from, i.bill_to, i.items, i.notes, i.payment_terms, i.subtotal, i.tax_total, i.total, i.status, i.created_at, i.updated_at, u.name, u.email`

var invoiceWritableColumns = map[string]bool{
	"invoice_number": true,
	"invoice_date":   true,
	"due_date":       true,
	"bill_from":      true,
	"bill_to":        true,
	"items":          true,
	"notes":          true,
	"payment_terms":  true,
	"subtotal":       true,
	"tax_total":      true,
	"total":          true,
	"status":         true,
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func invoiceDest(inv *models.Invoice) []any {
	return []any{&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.DueDate, &inv.BillFrom, &inv.BillTo, &inv.Items, &inv.Notes, &inv.PaymentTerms, &inv.Subtotal, &inv.TaxTotal, &inv.Total, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt}
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	if err := row.Scan(invoiceDest(inv)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func scanInvoiceWithOwner(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{Owner: &models.UserSummary{}}
	dest := append(invoiceDest(inv), &inv.Owner.Name, &inv.Owner.Email)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	items := inv.Items
	if items == nil {
		items = []models.LineItem{}
	}
	query := `
		INSERT INTO invoices (id, user_id, invoice_number, invoice_date, due_date, bill_from, bill_to, items, notes, payment_terms, subtotal, tax_total, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		inv.ID, inv.UserID, inv.InvoiceNumber, inv.InvoiceDate, inv.DueDate, inv.BillFrom, inv.BillTo, items,
		inv.Notes, inv.PaymentTerms, inv.Subtotal, inv.TaxTotal, inv.Total, inv.Status,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := `
		SELECT ` + invoiceJoinColumns + `
		FROM invoices i
		JOIN users u ON u.id = i.user_id
		WHERE i.id = $1
	`
	return scanInvoiceWithOwner(r.db.QueryRow(ctx, query, id))
}

func (r *invoiceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceJoinColumns + `
		FROM invoices i
		JOIN users u ON u.id = i.user_id
		WHERE i.user_id = $1
		ORDER BY i.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []*models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoiceWithOwner(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Update writes the given columns of an invoice owned by userID and returns the stored row.
func (r *invoiceRepo) Update(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (*models.Invoice, error) {
	set := pick(fields, invoiceWritableColumns)
	if len(set) == 0 {
		return nil, ErrNoFields
	}

	query, args, err := psql.Update("invoices").
		SetMap(set).
		Set("updated_at", sq.Expr("NOW()")).
		Where("id = ? AND user_id = ?", id, userID).
		Suffix("RETURNING " + invoiceColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build invoice update: %w", err)
	}

	return scanInvoice(r.db.QueryRow(ctx, query, args...))
}

func (r *invoiceRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOverdue returns invoices due before asOf that are not paid, across all users.
func (r *invoiceRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE due_date < $1 AND status <> $2
		ORDER BY due_date ASC
	`
	rows, err := r.db.Query(ctx, query, models.NewDate(asOf), models.StatusPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []*models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
