// internal/chat/format/formatter_test.go
package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wealth-assistant/internal/chat/dispatch"
	"wealth-assistant/internal/models"
)

func formatterAt(t *testing.T, date string) *Formatter {
	t.Helper()
	asOf, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	f := New()
	f.now = func() time.Time { return asOf }
	return f
}

func TestFormat_SingleRecord(t *testing.T) {
	f := formatterAt(t, "2024-07-01")

	got := f.Format(dispatch.SingleRecord{Client: models.Client{
		ClientID: "CL12345",
		Name:     "John Smith",
		DOB:      "2000-06-15",
		City:     "Mumbai",
		PAN:      "ABGPA5303H",
	}})

	assert.Contains(t, got, "Name: John Smith")
	assert.Contains(t, got, "Age: 24 years")
	assert.Contains(t, got, "City: Mumbai")
	assert.Contains(t, got, "PAN: ABGPA5303H")
	assert.NotContains(t, got, "Address:")
	assert.NotContains(t, got, "Email:")
}

func TestFormat_AgeBoundary(t *testing.T) {
	client := models.Client{Name: "John Smith", DOB: "2000-06-15"}

	tests := []struct {
		asOf     string
		expected string
	}{
		{"2024-06-14", "Age: 23 years"},
		{"2024-06-15", "Age: 24 years"},
		{"2024-06-16", "Age: 24 years"},
	}

	for _, tt := range tests {
		t.Run(tt.asOf, func(t *testing.T) {
			f := formatterAt(t, tt.asOf)
			assert.Contains(t, f.Format(dispatch.SingleRecord{Client: client}), tt.expected)
		})
	}
}

func TestFormat_SingleRecord_AbsentDOBOmitsAge(t *testing.T) {
	f := formatterAt(t, "2024-07-01")

	got := f.Format(dispatch.SingleRecord{Client: models.Client{Name: "John Smith"}})

	assert.Contains(t, got, "Name: John Smith")
	assert.NotContains(t, got, "Age:")
}

func TestFormat_SingleRecord_MissingNameReadsAsNotFound(t *testing.T) {
	f := formatterAt(t, "2024-07-01")

	got := f.Format(dispatch.SingleRecord{Client: models.Client{ClientID: "CL12345"}})

	assert.Equal(t, genericNotFound, got)
}

func TestFormat_AggregateValue(t *testing.T) {
	f := New()

	got := f.Format(dispatch.AggregateValue{Total: 200.5, Count: 2})

	assert.Equal(t, "Total AUM: ₹200.50 (across 2 records)", got)
}

func TestFormat_RecordList(t *testing.T) {
	f := New()

	got := f.Format(dispatch.RecordList{
		ClientID: "CL12345",
		Items: []models.Transaction{
			{FundDesc: "Bluechip Growth Fund", TransDate: "2024-03-05", Amount: "5000", TransType: "purchase", TransStatus: "completed", FolioNumber: "F-001", Units: "12.5", NAV: "400"},
			{TransDate: "2024-01-10"},
		},
	})

	assert.Contains(t, got, "1. Bluechip Growth Fund")
	assert.Contains(t, got, "Date: 2024-03-05 | Amount: 5000")
	assert.Contains(t, got, "2. Unknown Fund")
	assert.Contains(t, got, "Amount: N/A")
	assert.Contains(t, got, "Folio: N/A | Units: N/A | NAV: N/A")
}

func TestFormat_NotFound(t *testing.T) {
	f := New()

	assert.Equal(t, "No user found.", f.Format(dispatch.NotFound{Reason: "No user found."}))
	assert.Equal(t, genericNotFound, f.Format(dispatch.NotFound{}))
}
