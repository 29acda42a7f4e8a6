package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"invoicegen/internal/models"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

const pdfContentType = "application/pdf"

// DocumentService renders invoices as PDF and archives them in object storage.
type DocumentService interface {
	Render(ctx context.Context, userID, invoiceID uuid.UUID) ([]byte, *models.Invoice, error)
	// Archive renders, uploads and returns a presigned download URL.
	Archive(ctx context.Context, userID, invoiceID uuid.UUID) (string, error)
}

type DocumentOptions struct {
	Bucket     string
	PresignTTL time.Duration
}

type documentService struct {
	invoices InvoiceService
	storage  MinioService
	opts     DocumentOptions
}

// NewDocumentService builds the service. storage may be nil, in which case Archive
// reports ErrStorageDisabled.
func NewDocumentService(invoices InvoiceService, storage MinioService, opts DocumentOptions) DocumentService {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 24 * time.Hour
	}
	return &documentService{invoices: invoices, storage: storage, opts: opts}
}

func (s *documentService) Render(ctx context.Context, userID, invoiceID uuid.UUID) ([]byte, *models.Invoice, error) {
	invoice, err := s.invoices.Get(ctx, userID, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	data, err := RenderInvoicePDF(invoice)
	if err != nil {
		return nil, nil, err
	}
	return data, invoice, nil
}

func (s *documentService) Archive(ctx context.Context, userID, invoiceID uuid.UUID) (string, error) {
	if s.storage == nil {
		return "", ErrStorageDisabled
	}

	data, _, err := s.Render(ctx, userID, invoiceID)
	if err != nil {
		return "", err
	}

	objectName := ObjectName(userID, invoiceID)
	if err := s.storage.Upload(ctx, s.opts.Bucket, objectName, pdfContentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("failed to upload invoice PDF: %w", err)
	}

	return s.storage.GetPresignedURL(ctx, s.opts.Bucket, objectName, s.opts.PresignTTL)
}

// ObjectName is the storage key of an archived invoice.
func ObjectName(userID, invoiceID uuid.UUID) string {
	return fmt.Sprintf("%s/%s.pdf", userID, invoiceID)
}

func formatDate(d models.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("02-Jan-2006")
}

// RenderInvoicePDF lays out a single-page A4 invoice.
func RenderInvoicePDF(invoice *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", invoice.InvoiceNumber), true)
	pdf.AddPage()

	marginX, marginY := 15.0, 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Invoice Number: %s", invoice.InvoiceNumber)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice Date: %s", formatDate(invoice.InvoiceDate)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Due Date: %s", formatDate(invoice.DueDate)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", invoice.Status))
	pdf.Ln(10)

	// parties side by side
	top := pdf.GetY()
	writeParty(pdf, tr, "BILL FROM:", invoice.BillFrom, marginX, top)
	writeParty(pdf, tr, "BILL TO:", invoice.BillTo, marginX+95, top)
	pdf.SetXY(marginX, top+26)

	headers := []string{"Item", "Qty", "Unit Price", "Tax %", "Amount"}
	colWidths := []float64{75, 20, 30, 20, 35}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, item := range invoice.Items {
		tax := "-"
		if item.TaxPercent != nil {
			tax = fmt.Sprintf("%g", *item.TaxPercent)
		}
		pdf.CellFormat(colWidths[0], 8, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%g", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, tax, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%.2f", item.Amount()), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	for _, row := range []struct {
		label string
		value float64
	}{
		{"Subtotal:", invoice.Subtotal},
		{"Tax:", invoice.TaxTotal},
	} {
		pdf.CellFormat(145, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", row.value), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(145, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", invoice.Total), "", 0, "R", false, 0, "")
	pdf.Ln(12)

	if invoice.PaymentTerms != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(0, 6, "Payment Terms:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, tr(invoice.PaymentTerms), "", "L", false)
		pdf.Ln(2)
	}
	if invoice.Notes != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(0, 6, "Notes:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, tr(invoice.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeParty(pdf *gofpdf.Fpdf, tr func(string) string, title string, party models.Party, x, y float64) {
	pdf.SetXY(x, y)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(90, 6, title)
	pdf.SetFont("Arial", "", 10)
	line := y + 6
	for _, text := range []string{party.ClientName, party.Email, party.Address} {
		if text == "" {
			continue
		}
		pdf.SetXY(x, line)
		pdf.Cell(90, 5, tr(text))
		line += 5
	}
}
