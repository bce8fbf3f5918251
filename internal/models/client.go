// internal/models/client.go
package models

import "time"

// Client is a single client record from the client collection. Every field
// except ClientID may be absent; absent fields are empty strings.
type Client struct {
	ClientID string `json:"clientId"`
	Name     string `json:"name"`
	DOB      string `json:"DOB"` // YYYY-MM-DD
	City     string `json:"city"`
	Address  string `json:"address"`
	PAN      string `json:"pan"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
}

// Age derives full elapsed years from DOB as of the given date, decremented
// by one when the month/day precedes the birth month/day. Returns -1 when
// DOB is absent or unparseable.
func (c Client) Age(asOf time.Time) int {
	if c.DOB == "" {
		return -1
	}
	dob, err := time.Parse("2006-01-02", c.DOB)
	if err != nil {
		return -1
	}

	years := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return -1
	}
	return years
}
