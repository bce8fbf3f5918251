// internal/chat/dispatch/dispatcher_test.go
package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealth-assistant/internal/chat/extractor"
	apperrors "wealth-assistant/internal/common/errors"
	"wealth-assistant/internal/common/logger"
	"wealth-assistant/internal/models"
	"wealth-assistant/internal/repository"
)

// fakeRepo records every call so tests can assert the store was or was not
// touched.
type fakeRepo struct {
	client       *models.Client
	valuations   []models.Valuation
	transactions []models.Transaction
	err          error

	clientCalls      int
	valuationCalls   int
	transactionCalls int
	lastFilter       repository.Filter
}

func (f *fakeRepo) FindClient(ctx context.Context, filter repository.Filter) (*models.Client, error) {
	f.clientCalls++
	f.lastFilter = filter
	return f.client, f.err
}

func (f *fakeRepo) FindValuations(ctx context.Context, filter repository.Filter) ([]models.Valuation, error) {
	f.valuationCalls++
	f.lastFilter = filter
	return f.valuations, f.err
}

func (f *fakeRepo) FindTransactions(ctx context.Context, filter repository.Filter) ([]models.Transaction, error) {
	f.transactionCalls++
	f.lastFilter = filter
	return f.transactions, f.err
}

func newDispatcher(repo *fakeRepo) *Dispatcher {
	return New(repo, logger.NewNoOpLogger())
}

func TestDispatch_UnknownOperation(t *testing.T) {
	repo := &fakeRepo{}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), "deleteEverything", extractor.Parameters{})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedOperation)
	assert.Nil(t, result)
	assert.Zero(t, repo.clientCalls+repo.valuationCalls+repo.transactionCalls)
}

func TestDispatch_StoreFailureDegradesToNotFound(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), extractor.OpGetUserDetails, extractor.Parameters{ClientID: "CL12345"})

	require.NoError(t, err)
	nf, ok := result.(NotFound)
	require.True(t, ok)
	assert.NotEmpty(t, nf.Reason)
}

func TestGetUserDetails_FilterConstruction(t *testing.T) {
	repo := &fakeRepo{client: &models.Client{ClientID: "CL12345", Name: "John Smith"}}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), extractor.OpGetUserDetails, extractor.Parameters{
		ClientID: "CL12345",
		PAN:      "ABGPA5303H",
		Name:     "john",
		Mobile:   "9876543210",
	})

	require.NoError(t, err)
	assert.Equal(t, repository.Filter{
		"clientId": repository.Eq("CL12345"),
		"mobile":   repository.Eq("9876543210"),
		"pan":      repository.Contains("ABGPA5303H"),
		"name":     repository.Contains("john"),
	}, repo.lastFilter)

	single, ok := result.(SingleRecord)
	require.True(t, ok)
	assert.Equal(t, "John Smith", single.Client.Name)
}

func TestGetUserDetails_NoMatch(t *testing.T) {
	repo := &fakeRepo{}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), extractor.OpGetUserDetails, extractor.Parameters{ClientID: "CLNONE"})

	require.NoError(t, err)
	_, ok := result.(NotFound)
	assert.True(t, ok)
}

func TestCalculateAUM_Aggregation(t *testing.T) {
	repo := &fakeRepo{valuations: []models.Valuation{
		{ClientID: "CL12345", CurrentValue: "100.5"},
		{ClientID: "CL12345", Units: "2", PurchaseNAV: "50"},
	}}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), extractor.OpCalculateAUM, extractor.Parameters{ClientID: "CL12345"})

	require.NoError(t, err)
	agg, ok := result.(AggregateValue)
	require.True(t, ok)
	assert.InDelta(t, 200.5, agg.Total, 0.001)
	assert.Equal(t, 2, agg.Count)
}

func TestCalculateAUM_NoRecords(t *testing.T) {
	repo := &fakeRepo{}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), extractor.OpCalculateAUM, extractor.Parameters{ARNID: "ARN-999"})

	require.NoError(t, err)
	_, ok := result.(NotFound)
	assert.True(t, ok)
	assert.Equal(t, repository.Filter{"arn_id": repository.Eq("ARN-999")}, repo.lastFilter)
}

func TestGetTransactionDetails_RequiresClientID(t *testing.T) {
	repo := &fakeRepo{}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), extractor.OpGetTransactionDetails, extractor.Parameters{})

	require.NoError(t, err)
	nf, ok := result.(NotFound)
	require.True(t, ok)
	assert.Contains(t, nf.Reason, "client ID")
	assert.Zero(t, repo.transactionCalls)
}

func TestGetTransactionDetails_SortAndLimit(t *testing.T) {
	repo := &fakeRepo{transactions: []models.Transaction{
		{ClientID: "CL12345", TransDate: "2024-01-10", PostDate: "2024-01-11"},
		{ClientID: "CL12345", TransDate: "2024-03-05", PostDate: "2024-03-06"},
		{ClientID: "CL12345", TransDate: "2024-03-05", PostDate: "2024-03-08"},
		{ClientID: "CL12345", TransDate: "2024-02-20", PostDate: "2024-02-21"},
	}}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), extractor.OpGetTransactionDetails, extractor.Parameters{
		ClientID: "CL12345",
		Limit:    3,
	})

	require.NoError(t, err)
	list, ok := result.(RecordList)
	require.True(t, ok)
	require.Len(t, list.Items, 3)

	// Newest trans date first; ties broken by post date descending.
	assert.Equal(t, "2024-03-08", list.Items[0].PostDate)
	assert.Equal(t, "2024-03-06", list.Items[1].PostDate)
	assert.Equal(t, "2024-02-20", list.Items[2].TransDate)
}

func TestGetTransactionDetails_DefaultLimit(t *testing.T) {
	var transactions []models.Transaction
	for i := 0; i < 15; i++ {
		transactions = append(transactions, models.Transaction{ClientID: "CL12345", TransDate: "2024-01-01"})
	}
	repo := &fakeRepo{transactions: transactions}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), extractor.OpGetTransactionDetails, extractor.Parameters{ClientID: "CL12345"})

	require.NoError(t, err)
	list, ok := result.(RecordList)
	require.True(t, ok)
	assert.Len(t, list.Items, 10)
}

func TestGetTransactionDetails_DateRange(t *testing.T) {
	repo := &fakeRepo{transactions: []models.Transaction{
		{ClientID: "CL12345", TransDate: "2024-01-10"},
		{ClientID: "CL12345", TransDate: "2024-02-15"},
		{ClientID: "CL12345", TransDate: "2024-03-20"},
	}}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), extractor.OpGetTransactionDetails, extractor.Parameters{
		ClientID: "CL12345",
		DateFrom: "2024-02-15",
		DateTo:   "2024-03-19",
	})

	require.NoError(t, err)
	list, ok := result.(RecordList)
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "2024-02-15", list.Items[0].TransDate)
}

func TestGetTransactionDetails_TypeFilterInQuery(t *testing.T) {
	repo := &fakeRepo{transactions: []models.Transaction{{ClientID: "CL12345", TransDate: "2024-01-01"}}}
	d := newDispatcher(repo)

	_, err := d.Dispatch(context.Background(), extractor.OpGetTransactionDetails, extractor.Parameters{
		ClientID:        "CL12345",
		TransactionType: "purchase",
	})

	require.NoError(t, err)
	assert.Equal(t, repository.Filter{
		"clientId":     repository.Eq("CL12345"),
		"appTransType": repository.Eq("purchase"),
	}, repo.lastFilter)
}

func TestGetTransactionDetails_EmptyAfterFiltering(t *testing.T) {
	repo := &fakeRepo{transactions: []models.Transaction{{ClientID: "CL12345", TransDate: "2024-01-10"}}}
	d := newDispatcher(repo)

	result, err := d.Dispatch(context.Background(), extractor.OpGetTransactionDetails, extractor.Parameters{
		ClientID: "CL12345",
		DateFrom: "2025-01-01",
	})

	require.NoError(t, err)
	_, ok := result.(NotFound)
	assert.True(t, ok)
}
