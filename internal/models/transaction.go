// internal/models/transaction.go
package models

import "time"

// Transaction is one row from the transaction collection. Display fields
// stay strings so the formatter can default each one independently.
type Transaction struct {
	ClientID    string `json:"clientId"`
	FundDesc    string `json:"fundDesc"`
	TransDate   string `json:"transDate"` // YYYY-MM-DD
	PostDate    string `json:"postDate"`  // processing date, YYYY-MM-DD
	Amount      string `json:"amt"`
	TransType   string `json:"appTransType"`
	TransDesc   string `json:"appTransDesc"`
	TransStatus string `json:"transStatus"`
	FolioNumber string `json:"folioNumber"`
	Units       string `json:"unit"`
	NAV         string `json:"nav"`
}

// ParseDate parses a YYYY-MM-DD transaction date. Unparseable or absent
// dates yield the zero time, which sorts last under descending order.
func ParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
