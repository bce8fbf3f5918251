// internal/models/valuation.go
package models

import "strconv"

// Valuation is one row from the valuation-summary collection. Numeric
// fields arrive as strings from the upstream feed and stay strings here;
// parsing happens at aggregation time.
type Valuation struct {
	ClientID     string `json:"clientId"`
	ARNID        string `json:"arn_id"`
	AgentCode    string `json:"agentCode"`
	CurrentValue string `json:"cur_val"`
	Units        string `json:"units"`
	PurchaseNAV  string `json:"pur_nav"`
}

// HoldingValue returns the record's contribution to AUM: the current value
// when present, otherwise units × purchase NAV. Unparseable fields count
// as zero.
func (v Valuation) HoldingValue() float64 {
	if v.CurrentValue != "" {
		if cur, err := strconv.ParseFloat(v.CurrentValue, 64); err == nil {
			return cur
		}
	}

	units, err := strconv.ParseFloat(v.Units, 64)
	if err != nil {
		return 0
	}
	nav, err := strconv.ParseFloat(v.PurchaseNAV, 64)
	if err != nil {
		return 0
	}
	return units * nav
}
