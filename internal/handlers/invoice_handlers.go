package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"invoicegen/internal/common"
	"invoicegen/internal/models"
	"invoicegen/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService  services.InvoiceService
	documentService services.DocumentService
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceService, documentService services.DocumentService) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService:  invoiceService,
		documentService: documentService,
	}
}

// PDFLinkResponse carries a presigned download link for an archived PDF.
type PDFLinkResponse struct {
	URL string `json:"url"`
}

// invoiceID parses the :id path parameter. Malformed ids can never match a row and are
// reported as not found.
func invoiceID(c echo.Context) (uuid.UUID, bool) {
	id, err := common.ParseID(c.Param("id"), "invoice id")
	return id, err == nil
}

// CreateInvoice godoc
// @Summary      Create an invoice
// @Description  Totals are computed from the line items; status starts as Unpaid.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body      models.InvoiceInput  true  "Invoice"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  common.ErrorResponse
// @Failure      401   {object}  common.ErrorResponse
// @Router       /invoices [post]
// @Security     BearerAuth
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	user, ok := common.UserFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}

	var input models.InvoiceInput
	if err := c.Bind(&input); err != nil {
		return bindError(c, err)
	}

	invoice, err := h.invoiceService.Create(ctx, user, input)
	if err != nil {
		return invoiceError(c, err, "Error creating invoice")
	}

	body, err := renderInvoice(invoice)
	if err != nil {
		return common.SendServerError(c, "Error creating invoice", err)
	}
	return c.JSON(http.StatusCreated, body)
}

// ListInvoices godoc
// @Summary      List the caller's invoices
// @Tags         invoices
// @Produce      json
// @Success      200  {array}   map[string]interface{}
// @Router       /invoices [get]
// @Security     BearerAuth
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}

	invoices, err := h.invoiceService.List(ctx, userID)
	if err != nil {
		return invoiceError(c, err, "Error fetching invoices")
	}

	body, err := renderInvoices(invoices)
	if err != nil {
		return common.SendServerError(c, "Error fetching invoices", err)
	}
	return c.JSON(http.StatusOK, body)
}

// GetInvoice godoc
// @Summary      Get one invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /invoices/{id} [get]
// @Security     BearerAuth
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}
	id, ok := invoiceID(c)
	if !ok {
		return common.SendNotFoundError(c, "Invoice")
	}

	invoice, err := h.invoiceService.Get(ctx, userID, id)
	if err != nil {
		return invoiceError(c, err, "Error fetching invoice")
	}

	body, err := renderInvoice(invoice)
	if err != nil {
		return common.SendServerError(c, "Error fetching invoice", err)
	}
	return c.JSON(http.StatusOK, body)
}

// UpdateInvoice godoc
// @Summary      Update an invoice
// @Description  Only supplied fields change. Totals are recomputed when items are supplied.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Invoice ID"
// @Param        body  body      models.InvoicePatch  true  "Fields to change"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  common.ErrorResponse
// @Failure      401   {object}  common.ErrorResponse
// @Failure      404   {object}  common.ErrorResponse
// @Router       /invoices/{id} [put]
// @Security     BearerAuth
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}
	id, ok := invoiceID(c)
	if !ok {
		return common.SendNotFoundError(c, "Invoice")
	}

	var patch models.InvoicePatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c, err)
	}

	invoice, err := h.invoiceService.Update(ctx, userID, id, patch)
	if err != nil {
		return invoiceError(c, err, "Error updating invoice")
	}

	body, err := renderInvoice(invoice)
	if err != nil {
		return common.SendServerError(c, "Error updating invoice", err)
	}
	return c.JSON(http.StatusOK, body)
}

// DeleteInvoice godoc
// @Summary      Delete an invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /invoices/{id} [delete]
// @Security     BearerAuth
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}
	id, ok := invoiceID(c)
	if !ok {
		return common.SendNotFoundError(c, "Invoice")
	}

	if err := h.invoiceService.Delete(ctx, userID, id); err != nil {
		return invoiceError(c, err, "Error deleting invoice")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Invoice deleted successfully"})
}

// DownloadPDF godoc
// @Summary      Download an invoice as PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id   path  string  true  "Invoice ID"
// @Success      200
// @Failure      401  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /invoices/{id}/pdf [get]
// @Security     BearerAuth
func (h *InvoiceHandlers) DownloadPDF(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}
	id, ok := invoiceID(c)
	if !ok {
		return common.SendNotFoundError(c, "Invoice")
	}

	data, invoice, err := h.documentService.Render(ctx, userID, id)
	if err != nil {
		return invoiceError(c, err, "Error generating invoice PDF")
	}

	name := invoice.InvoiceNumber
	if name == "" {
		name = invoice.ID.String()
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "invoice-"+name+".pdf"))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// ArchivePDF godoc
// @Summary      Archive an invoice PDF
// @Description  Renders the invoice, stores it in object storage and returns a presigned link.
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  PDFLinkResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      503  {object}  common.ErrorResponse
// @Router       /invoices/{id}/pdf [post]
// @Security     BearerAuth
func (h *InvoiceHandlers) ArchivePDF(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "Not authorized")
	}
	id, ok := invoiceID(c)
	if !ok {
		return common.SendNotFoundError(c, "Invoice")
	}

	url, err := h.documentService.Archive(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrStorageDisabled) {
			return common.SendError(c, http.StatusServiceUnavailable, "Object storage is not configured")
		}
		return invoiceError(c, err, "Error archiving invoice PDF")
	}
	return c.JSON(http.StatusOK, PDFLinkResponse{URL: url})
}
