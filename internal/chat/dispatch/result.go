// internal/chat/dispatch/result.go
package dispatch

import "wealth-assistant/internal/models"

// Result is the tagged union returned by every operation. The formatter
// matches on the concrete type; there is no other way to inspect one.
type Result interface {
	isResult()
}

// NotFound covers every non-answer: no matching records, a missing
// required parameter, and a degraded backing store.
type NotFound struct {
	Reason string
}

// SingleRecord carries one client profile.
type SingleRecord struct {
	Client models.Client
}

// AggregateValue carries a summed AUM across matched holdings.
type AggregateValue struct {
	Total float64
	Count int
}

// RecordList carries a client's transaction history, already sorted and
// capped.
type RecordList struct {
	ClientID string
	Items    []models.Transaction
}

func (NotFound) isResult()       {}
func (SingleRecord) isResult()   {}
func (AggregateValue) isResult() {}
func (RecordList) isResult()     {}
