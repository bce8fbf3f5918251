// internal/chat/format/formatter.go

// Package format renders operation results as user-facing text. Format is
// total over the result union; every variant produces a non-empty message.
package format

import (
	"fmt"
	"strings"
	"time"

	"wealth-assistant/internal/chat/dispatch"
	"wealth-assistant/internal/models"
)

const genericNotFound = "Sorry, no data found for your request."

// Formatter renders results into plain-text answers. The clock is
// injectable so age derivation is testable.
type Formatter struct {
	now func() time.Time
}

func New() *Formatter {
	return &Formatter{now: time.Now}
}

func (f *Formatter) Format(result dispatch.Result) string {
	switch r := result.(type) {
	case dispatch.SingleRecord:
		return f.formatClient(r.Client)
	case dispatch.AggregateValue:
		return fmt.Sprintf("Total AUM: ₹%.2f (across %d records)", r.Total, r.Count)
	case dispatch.RecordList:
		return f.formatTransactions(r)
	case dispatch.NotFound:
		if r.Reason != "" {
			return r.Reason
		}
		return genericNotFound
	default:
		return genericNotFound
	}
}

// formatClient renders the profile. A record without a name carries no
// usable identity and reads the same as no record at all.
func (f *Formatter) formatClient(client models.Client) string {
	if client.Name == "" {
		return genericNotFound
	}

	var b strings.Builder
	b.WriteString("User Details:\n")
	fmt.Fprintf(&b, "Name: %s\n", client.Name)

	if age := client.Age(f.now()); age >= 0 {
		fmt.Fprintf(&b, "Age: %d years\n", age)
	}
	if client.City != "" {
		fmt.Fprintf(&b, "City: %s\n", client.City)
	}
	if client.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", client.Address)
	}
	if client.PAN != "" {
		fmt.Fprintf(&b, "PAN: %s\n", client.PAN)
	}
	if client.Mobile != "" {
		fmt.Fprintf(&b, "Mobile: %s\n", client.Mobile)
	}
	if client.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", client.Email)
	}

	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) formatTransactions(list dispatch.RecordList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transactions for client %s:\n", list.ClientID)

	for i, tx := range list.Items {
		fund := tx.FundDesc
		if fund == "" {
			fund = "Unknown Fund"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, fund)
		fmt.Fprintf(&b, "   Date: %s | Amount: %s\n", orNA(tx.TransDate), orNA(tx.Amount))
		fmt.Fprintf(&b, "   Type: %s | Status: %s\n", orNA(tx.TransType), orNA(tx.TransStatus))
		fmt.Fprintf(&b, "   Folio: %s | Units: %s | NAV: %s\n", orNA(tx.FolioNumber), orNA(tx.Units), orNA(tx.NAV))
	}

	return strings.TrimRight(b.String(), "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
