package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number decodes from a JSON number or a numeric string; models sometimes quote numbers.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var quoted string
		if err := json.Unmarshal(data, &quoted); err != nil {
			return err
		}
		s = strings.TrimSpace(quoted)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", s)
	}
	*n = Number(f)
	return nil
}

// DraftItem is a line item extracted from free text.
type DraftItem struct {
	Name      string `json:"name"`
	Quantity  Number `json:"quantity"`
	UnitPrice Number `json:"unitPrice"`
}

// InvoiceDraft is the structured result of parsing free text into an invoice.
type InvoiceDraft struct {
	ClientName string      `json:"clientName"`
	Email      string      `json:"email,omitempty"`
	Address    string      `json:"address,omitempty"`
	Items      []DraftItem `json:"items"`
}

// ModelInfo describes one upstream generation model.
type ModelInfo struct {
	Name             string   `json:"name"`
	DisplayName      string   `json:"displayName"`
	Description      string   `json:"description"`
	SupportedMethods []string `json:"supportedMethods"`
}

// DashboardStats is the aggregate fed to the insights prompt.
type DashboardStats struct {
	TotalInvoices    int
	PaidInvoices     int
	UnpaidInvoices   int
	TotalRevenue     float64
	TotalOutstanding float64
	Recent           []*Invoice
}
