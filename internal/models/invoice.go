package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	StatusUnpaid  InvoiceStatus = "Unpaid"
	StatusPending InvoiceStatus = "Pending"
	StatusPaid    InvoiceStatus = "Paid"
)

// ParseInvoiceStatus accepts only the known statuses, matched exactly.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch st := InvoiceStatus(s); st {
	case StatusUnpaid, StatusPending, StatusPaid:
		return st, nil
	}
	return "", fmt.Errorf("invoice status must be one of: Unpaid, Pending, Paid")
}

func (s InvoiceStatus) Valid() bool {
	_, err := ParseInvoiceStatus(string(s))
	return err == nil
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	st, err := ParseInvoiceStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Party is one side of an invoice (billFrom / billTo). Stored as jsonb.
type Party struct {
	ClientName string `json:"clientName"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
}

// LineItem is one billable entry, stored inside the invoice's items jsonb.
type LineItem struct {
	Name       string   `json:"name"`
	Quantity   float64  `json:"quantity"`
	UnitPrice  float64  `json:"unitPrice"`
	TaxPercent *float64 `json:"taxPercent,omitempty"`
}

// Amount is quantity * unit price, before tax.
func (li LineItem) Amount() float64 {
	return li.Quantity * li.UnitPrice
}

// Tax returns the tax owed on the line; a missing rate counts as zero.
func (li LineItem) Tax() float64 {
	if li.TaxPercent == nil {
		return 0
	}
	return li.Amount() * *li.TaxPercent / 100
}

func (li LineItem) Validate() error {
	if li.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if li.UnitPrice < 0 {
		return fmt.Errorf("unit price cannot be negative")
	}
	if li.TaxPercent != nil && (*li.TaxPercent < 0 || *li.TaxPercent > 100) {
		return fmt.Errorf("tax percent must be between 0 and 100")
	}
	return nil
}

// Totals are the derived amounts of an invoice.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	TaxTotal float64 `json:"taxTotal"`
	Total    float64 `json:"total"`
}

// CalculateTotals sums the line items. No currency rounding is applied.
func CalculateTotals(items []LineItem) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += item.Amount()
		t.TaxTotal += item.Tax()
	}
	t.Total = t.Subtotal + t.TaxTotal
	return t
}

// UserSummary is the owner projection joined onto invoice reads.
type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Invoice struct {
	ID            uuid.UUID     `db:"id"`
	UserID        uuid.UUID     `db:"user_id"`
	InvoiceNumber string        `db:"invoice_number"`
	InvoiceDate   Date          `db:"invoice_date"`
	DueDate       Date          `db:"due_date"`
	BillFrom      Party         `db:"bill_from"`
	BillTo        Party         `db:"bill_to"`
	Items         []LineItem    `db:"items"`
	Notes         string        `db:"notes"`
	PaymentTerms  string        `db:"payment_terms"`
	Subtotal      float64       `db:"subtotal"`
	TaxTotal      float64       `db:"tax_total"`
	Total         float64       `db:"total"`
	Status        InvoiceStatus `db:"status"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`

	Owner *UserSummary `db:"-"`
}

// ApplyTotals recomputes the derived amounts from Items.
func (inv *Invoice) ApplyTotals() {
	t := CalculateTotals(inv.Items)
	inv.Subtotal = t.Subtotal
	inv.TaxTotal = t.TaxTotal
	inv.Total = t.Total
}

// Row returns the invoice keyed by column name.
func (inv *Invoice) Row() map[string]any {
	items := inv.Items
	if items == nil {
		items = []LineItem{}
	}
	return map[string]any{
		"id":             inv.ID,
		"user_id":        inv.UserID,
		"invoice_number": inv.InvoiceNumber,
		"invoice_date":   inv.InvoiceDate,
		"due_date":       inv.DueDate,
		"bill_from":      inv.BillFrom,
		"bill_to":        inv.BillTo,
		"items":          items,
		"notes":          inv.Notes,
		"payment_terms":  inv.PaymentTerms,
		"subtotal":       inv.Subtotal,
		"tax_total":      inv.TaxTotal,
		"total":          inv.Total,
		"status":         inv.Status,
		"created_at":     inv.CreatedAt,
		"updated_at":     inv.UpdatedAt,
	}
}

// IsOverdue reports whether the due date has passed without payment.
func (inv *Invoice) IsOverdue(asOf time.Time) bool {
	if inv.Status == StatusPaid || inv.DueDate.IsZero() {
		return false
	}
	return inv.DueDate.Before(asOf)
}

// InvoicePatch carries the fields of an update request. Nil means "not supplied";
// dates use PatchDate so that null clears them.
type InvoicePatch struct {
	InvoiceNumber *string        `json:"invoiceNumber"`
	InvoiceDate   PatchDate      `json:"invoiceDate"`
	DueDate       PatchDate      `json:"dueDate"`
	BillFrom      *Party         `json:"billFrom"`
	BillTo        *Party         `json:"billTo"`
	Items         *[]LineItem    `json:"items"`
	Notes         *string        `json:"notes"`
	PaymentTerms  *string        `json:"paymentTerms"`
	Status        *InvoiceStatus `json:"status"`
}

// Fields returns the supplied fields keyed by their API names.
func (p InvoicePatch) Fields() map[string]any {
	fields := map[string]any{}
	if p.InvoiceNumber != nil {
		fields["invoiceNumber"] = *p.InvoiceNumber
	}
	if p.InvoiceDate.Set {
		fields["invoiceDate"] = p.InvoiceDate.Date
	}
	if p.DueDate.Set {
		fields["dueDate"] = p.DueDate.Date
	}
	if p.BillFrom != nil {
		fields["billFrom"] = *p.BillFrom
	}
	if p.BillTo != nil {
		fields["billTo"] = *p.BillTo
	}
	if p.Items != nil {
		items := *p.Items
		if items == nil {
			items = []LineItem{}
		}
		fields["items"] = items
	}
	if p.Notes != nil {
		fields["notes"] = *p.Notes
	}
	if p.PaymentTerms != nil {
		fields["paymentTerms"] = *p.PaymentTerms
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	return fields
}

// InvoiceInput is the body of a create request.
type InvoiceInput struct {
	InvoiceNumber string     `json:"invoiceNumber"`
	InvoiceDate   Date       `json:"invoiceDate"`
	DueDate       Date       `json:"dueDate"`
	BillFrom      Party      `json:"billFrom"`
	BillTo        Party      `json:"billTo"`
	Items         []LineItem `json:"items"`
	Notes         string     `json:"notes"`
	PaymentTerms  string     `json:"paymentTerms"`
}
