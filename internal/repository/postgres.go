// internal/repository/postgres.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"wealth-assistant/internal/common/logger"
	"wealth-assistant/internal/models"
)

// Postgres implements Repository over a SQL database.
type Postgres struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgres(db *sql.DB, log logger.Logger) *Postgres {
	return &Postgres{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "repository"}),
	}
}

const clientColumns = `client_id, COALESCE(name, ''), COALESCE(dob, ''), COALESCE(city, ''), ` +
	`COALESCE(address, ''), COALESCE(pan, ''), COALESCE(mobile, ''), COALESCE(email, '')`

func (p *Postgres) FindClient(ctx context.Context, filter Filter) (*models.Client, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1", clientColumns, CollectionClients, where)

	var c models.Client
	err := p.db.QueryRowContext(ctx, query, args...).Scan(
		&c.ClientID, &c.Name, &c.DOB, &c.City, &c.Address, &c.PAN, &c.Mobile, &c.Email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	return &c, nil
}

const valuationColumns = `COALESCE(client_id, ''), COALESCE(arn_id, ''), COALESCE(agent_code, ''), ` +
	`COALESCE(cur_val, ''), COALESCE(units, ''), COALESCE(pur_nav, '')`

func (p *Postgres) FindValuations(ctx context.Context, filter Filter) ([]models.Valuation, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf("SELECT %s FROM %s%s", valuationColumns, CollectionValuations, where)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find valuations: %w", err)
	}
	defer rows.Close()

	var out []models.Valuation
	for rows.Next() {
		var v models.Valuation
		if err := rows.Scan(&v.ClientID, &v.ARNID, &v.AgentCode, &v.CurrentValue, &v.Units, &v.PurchaseNAV); err != nil {
			return nil, fmt.Errorf("scan valuation: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find valuations: %w", err)
	}
	return out, nil
}

const transactionColumns = `COALESCE(client_id, ''), COALESCE(fund_desc, ''), COALESCE(trans_date, ''), ` +
	`COALESCE(post_date, ''), COALESCE(amt, ''), COALESCE(app_trans_type, ''), COALESCE(app_trans_desc, ''), ` +
	`COALESCE(trans_status, ''), COALESCE(folio_number, ''), COALESCE(unit, ''), COALESCE(nav, '')`

func (p *Postgres) FindTransactions(ctx context.Context, filter Filter) ([]models.Transaction, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf("SELECT %s FROM %s%s", transactionColumns, CollectionTransactions, where)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ClientID, &t.FundDesc, &t.TransDate, &t.PostDate, &t.Amount,
			&t.TransType, &t.TransDesc, &t.TransStatus, &t.FolioNumber, &t.Units, &t.NAV,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	return out, nil
}

// columns maps logical record field names to table columns. Callers
// address fields by record name and never see the schema.
var columns = map[string]string{
	"clientId":     "client_id",
	"pan":          "pan",
	"name":         "name",
	"mobile":       "mobile",
	"arn_id":       "arn_id",
	"agentCode":    "agent_code",
	"appTransType": "app_trans_type",
}

func columnFor(field string) string {
	if col, ok := columns[field]; ok {
		return col
	}
	return field
}

// buildWhere renders the filter as a WHERE clause. Keys are sorted so
// the generated SQL is deterministic. Pattern matchers become ILIKE with
// surrounding wildcards, exact matchers become equality.
func buildWhere(filter Filter) (string, []interface{}) {
	if len(filter) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))
	for i, k := range keys {
		m := filter[k]
		if m.Pattern != "" {
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", columnFor(k), i+1))
			args = append(args, "%"+m.Pattern+"%")
		} else {
			clauses = append(clauses, fmt.Sprintf("%s = $%d", columnFor(k), i+1))
			args = append(args, m.Exact)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
