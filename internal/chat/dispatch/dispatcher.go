// internal/chat/dispatch/dispatcher.go

// Package dispatch routes a parsed directive to one of the three backing
// operations and shapes the outcome as a tagged Result.
package dispatch

import (
	"context"
	"fmt"
	"sort"

	"wealth-assistant/internal/chat/extractor"
	apperrors "wealth-assistant/internal/common/errors"
	"wealth-assistant/internal/common/logger"
	"wealth-assistant/internal/common/metrics"
	"wealth-assistant/internal/models"
	"wealth-assistant/internal/repository"
)

const defaultTransactionLimit = 10

// Dispatcher executes operations against the backing store. A store
// failure degrades to a NotFound result; an operation name outside the
// closed set is a contract violation and returns an error.
type Dispatcher struct {
	repo   repository.Repository
	logger logger.Logger
}

func New(repo repository.Repository, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, operation string, params extractor.Parameters) (Result, error) {
	var (
		result Result
		err    error
	)

	switch operation {
	case extractor.OpGetUserDetails:
		result, err = d.getUserDetails(ctx, params)
	case extractor.OpCalculateAUM:
		result, err = d.calculateAUM(ctx, params)
	case extractor.OpGetTransactionDetails:
		result, err = d.getTransactionDetails(ctx, params)
	default:
		metrics.DispatchOperations.WithLabelValues(operation, "unsupported").Inc()
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedOperation, operation)
	}

	if err != nil {
		// Backing-store failures never escape as turn faults.
		metrics.DispatchOperations.WithLabelValues(operation, "degraded").Inc()
		d.logger.Error("operation failed against backing store", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
		return NotFound{Reason: "Unable to retrieve data right now, please try again later."}, nil
	}

	metrics.DispatchOperations.WithLabelValues(operation, "ok").Inc()
	return result, nil
}

func (d *Dispatcher) getUserDetails(ctx context.Context, params extractor.Parameters) (Result, error) {
	filter := repository.Filter{}
	if params.ClientID != "" {
		filter["clientId"] = repository.Eq(params.ClientID)
	}
	if params.Mobile != "" {
		filter["mobile"] = repository.Eq(params.Mobile)
	}
	if params.PAN != "" {
		filter["pan"] = repository.Contains(params.PAN)
	}
	if params.Name != "" {
		filter["name"] = repository.Contains(params.Name)
	}

	client, err := d.repo.FindClient(ctx, filter)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return NotFound{Reason: "No user found matching the given details."}, nil
	}
	return SingleRecord{Client: *client}, nil
}

func (d *Dispatcher) calculateAUM(ctx context.Context, params extractor.Parameters) (Result, error) {
	filter := repository.Filter{}
	if params.ARNID != "" {
		filter["arn_id"] = repository.Eq(params.ARNID)
	}
	if params.AgentCode != "" {
		filter["agentCode"] = repository.Eq(params.AgentCode)
	}
	if params.ClientID != "" {
		filter["clientId"] = repository.Eq(params.ClientID)
	}

	valuations, err := d.repo.FindValuations(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(valuations) == 0 {
		return NotFound{Reason: "No valuation records found for the given identifier."}, nil
	}

	var total float64
	for _, v := range valuations {
		total += v.HoldingValue()
	}
	return AggregateValue{Total: total, Count: len(valuations)}, nil
}

func (d *Dispatcher) getTransactionDetails(ctx context.Context, params extractor.Parameters) (Result, error) {
	if params.ClientID == "" {
		// Required parameter missing: answered without touching the store.
		return NotFound{Reason: "A client ID is required to look up transactions."}, nil
	}

	filter := repository.Filter{"clientId": repository.Eq(params.ClientID)}
	if params.TransactionType != "" {
		filter["appTransType"] = repository.Eq(params.TransactionType)
	}

	transactions, err := d.repo.FindTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	transactions = filterByDateRange(transactions, params.DateFrom, params.DateTo)

	sort.SliceStable(transactions, func(i, j int) bool {
		di, dj := models.ParseDate(transactions[i].TransDate), models.ParseDate(transactions[j].TransDate)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return models.ParseDate(transactions[i].PostDate).After(models.ParseDate(transactions[j].PostDate))
	})

	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if len(transactions) > limit {
		transactions = transactions[:limit]
	}

	if len(transactions) == 0 {
		return NotFound{Reason: "No transactions found for client " + params.ClientID + "."}, nil
	}
	return RecordList{ClientID: params.ClientID, Items: transactions}, nil
}

// filterByDateRange keeps transactions whose transaction date falls inside
// the inclusive [from, to] bounds. An unset bound is open; a transaction
// with an unparseable date is dropped whenever any bound is set.
func filterByDateRange(transactions []models.Transaction, from, to string) []models.Transaction {
	if from == "" && to == "" {
		return transactions
	}

	fromDate := models.ParseDate(from)
	toDate := models.ParseDate(to)

	filtered := transactions[:0]
	for _, tx := range transactions {
		d := models.ParseDate(tx.TransDate)
		if d.IsZero() {
			continue
		}
		if from != "" && !fromDate.IsZero() && d.Before(fromDate) {
			continue
		}
		if to != "" && !toDate.IsZero() && d.After(toDate) {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}
