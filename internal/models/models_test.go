// internal/models/models_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient_Age(t *testing.T) {
	asOf := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad date %q: %v", s, err)
		}
		return d
	}

	tests := []struct {
		name     string
		dob      string
		asOf     string
		expected int
	}{
		{"day before birthday", "2000-06-15", "2024-06-14", 23},
		{"on birthday", "2000-06-15", "2024-06-15", 24},
		{"day after birthday", "2000-06-15", "2024-06-16", 24},
		{"earlier month", "2000-06-15", "2024-03-01", 23},
		{"later month", "2000-06-15", "2024-09-01", 24},
		{"absent dob", "", "2024-06-15", -1},
		{"unparseable dob", "15/06/2000", "2024-06-15", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Client{DOB: tt.dob}
			assert.Equal(t, tt.expected, c.Age(asOf(tt.asOf)))
		})
	}
}

func TestValuation_HoldingValue(t *testing.T) {
	tests := []struct {
		name     string
		v        Valuation
		expected float64
	}{
		{"current value wins", Valuation{CurrentValue: "100.5", Units: "2", PurchaseNAV: "50"}, 100.5},
		{"units times nav fallback", Valuation{Units: "2", PurchaseNAV: "50"}, 100},
		{"unparseable current value falls back", Valuation{CurrentValue: "n/a", Units: "2", PurchaseNAV: "50"}, 100},
		{"nothing parseable", Valuation{CurrentValue: "", Units: "x", PurchaseNAV: "50"}, 0},
		{"empty record", Valuation{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.v.HoldingValue(), 0.001)
		})
	}
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ParseDate("2024-03-05"))
	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("05-03-2024").IsZero())
}
