// internal/repository/repository.go

// Package repository exposes the backing store behind a findOne/findAll
// contract addressed by collection and a field-to-matcher filter.
package repository

import (
	"context"

	"wealth-assistant/internal/models"
)

// Collection names the three record collections the pipeline can address.
type Collection string

const (
	CollectionClients      Collection = "client_records"
	CollectionValuations   Collection = "valuation_summary"
	CollectionTransactions Collection = "transactions"
)

// Matcher matches one field: either an exact scalar or a case-insensitive
// substring pattern. Exactly one of the two is set.
type Matcher struct {
	Exact   string
	Pattern string
}

// Eq builds an exact matcher.
func Eq(value string) Matcher { return Matcher{Exact: value} }

// Contains builds a case-insensitive substring matcher.
func Contains(value string) Matcher { return Matcher{Pattern: value} }

// Filter maps record field names to matchers. All entries are ANDed.
type Filter map[string]Matcher

// Repository is the opaque backing store consumed by the dispatcher.
// FindClient returns nil with no error when no record matches.
type Repository interface {
	FindClient(ctx context.Context, filter Filter) (*models.Client, error)
	FindValuations(ctx context.Context, filter Filter) ([]models.Valuation, error)
	FindTransactions(ctx context.Context, filter Filter) ([]models.Transaction, error)
}
