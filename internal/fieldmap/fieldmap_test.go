package fieldmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoicesToAPI(t *testing.T) {
	row := Row{
		"id":             "inv-1",
		"user_id":        "user-1",
		"invoice_number": "INV-001",
		"due_date":       "2025-01-31",
		"bill_from":      map[string]any{"clientName": "Acme"},
		"bill_to":        map[string]any{"clientName": "Globex"},
		"payment_terms":  "Net 30",
		"tax_total":      2.0,
		"subtotal":       20.0,
		"total":          22.0,
		"status":         "Unpaid",
	}

	api, err := Invoices.ToAPI(row)
	require.NoError(t, err)

	assert.Equal(t, "inv-1", api["_id"])
	assert.Equal(t, "inv-1", api["id"])
	assert.Equal(t, "user-1", api["userId"])
	assert.Equal(t, "INV-001", api["invoiceNumber"])
	assert.Equal(t, "2025-01-31", api["dueDate"])
	assert.Equal(t, "Net 30", api["paymentTerms"])
	assert.Equal(t, 2.0, api["taxTotal"])
	assert.Equal(t, 20.0, api["subtotal"])
	assert.Equal(t, "Unpaid", api["status"])
	assert.NotContains(t, api, "invoice_number")
	assert.NotContains(t, api, "tax_total")
	assert.Len(t, api, len(row)+1)
}

func TestRoundTripPreservesRow(t *testing.T) {
	row := Row{
		"id":             "inv-2",
		"invoice_number": "INV-002",
		"invoice_date":   "2025-02-01",
		"items":          []any{map[string]any{"name": "Widget"}},
		"notes":          "thanks",
		"custom_column":  42,
	}

	api, err := Invoices.ToAPI(row)
	require.NoError(t, err)

	back, err := Invoices.ToRow(api)
	require.NoError(t, err)
	assert.Equal(t, row, back)
}

func TestToRowRestoresPrimaryKeyFromAlias(t *testing.T) {
	back, err := Users.ToRow(Row{"_id": "u-1", "businessName": "Shop"})
	require.NoError(t, err)
	assert.Equal(t, Row{"id": "u-1", "business_name": "Shop"}, back)
}

func TestUnknownKeysPassThrough(t *testing.T) {
	api, err := Users.ToAPI(Row{"favourite_colour": "blue"})
	require.NoError(t, err)
	assert.Equal(t, Row{"favourite_colour": "blue"}, api)

	row, err := Users.ToRow(Row{"somethingElse": true})
	require.NoError(t, err)
	assert.Equal(t, Row{"somethingElse": true}, row)
}

func TestCollisionIsAnError(t *testing.T) {
	_, err := Invoices.ToRow(Row{"invoiceNumber": "A", "invoice_number": "B"})
	assert.True(t, errors.Is(err, ErrKeyCollision))

	_, err = Invoices.ToAPI(Row{"tax_total": 1.0, "taxTotal": 2.0})
	assert.True(t, errors.Is(err, ErrKeyCollision))

	_, err = Users.ToRow(Row{"_id": "a", "id": "b"})
	assert.True(t, errors.Is(err, ErrKeyCollision))
}

func TestNewPanicsOnDuplicatePairs(t *testing.T) {
	assert.Panics(t, func() {
		New("id", Pair{"a", "x"}, Pair{"b", "x"})
	})
}
