package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"invoicegen/internal/common"
	"invoicegen/internal/fieldmap"
	"invoicegen/internal/models"
	"invoicegen/internal/services"

	"github.com/labstack/echo/v4"
)

// MessageResponse is a bare confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// bindError reports a malformed body. Decoder errors (bad dates, unknown status) are
// surfaced in details.
func bindError(c echo.Context, err error) error {
	details := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			details = msg
		}
		if he.Internal != nil {
			details = he.Internal.Error()
		}
	}
	return c.JSON(http.StatusBadRequest, common.ErrorResponse{Message: "Invalid request format", Details: details})
}

// renderUser maps a user to its API shape. token is added when non-empty.
func renderUser(user *models.User, token string) (fieldmap.Row, error) {
	out, err := fieldmap.Users.ToAPI(user.Row())
	if err != nil {
		return nil, err
	}
	if token != "" {
		out["token"] = token
	}
	return out, nil
}

// renderInvoice maps an invoice to its API shape and attaches the owner summary as "user".
func renderInvoice(inv *models.Invoice) (fieldmap.Row, error) {
	out, err := fieldmap.Invoices.ToAPI(inv.Row())
	if err != nil {
		return nil, err
	}
	if inv.Owner != nil {
		out["user"] = inv.Owner
	}
	return out, nil
}

func renderInvoices(list []*models.Invoice) ([]fieldmap.Row, error) {
	out := make([]fieldmap.Row, 0, len(list))
	for _, inv := range list {
		row, err := renderInvoice(inv)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// invoiceError translates service errors into the response taxonomy. fallback is the
// message of a 500.
func invoiceError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvoiceNotFound):
		return common.SendNotFoundError(c, "Invoice")
	case errors.Is(err, services.ErrNotAuthorized):
		return common.SendUnauthorizedError(c, "Not authorized")
	case errors.Is(err, services.ErrInvalidInvoice):
		return common.SendValidationError(c, err.Error())
	}
	slog.ErrorContext(c.Request().Context(), fallback, "error", err)
	return common.SendServerError(c, fallback, err)
}
