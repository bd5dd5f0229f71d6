package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/graph"
)

// ErrMissingTransNum is returned when a transaction has no reference to merge on.
var ErrMissingTransNum = errors.New("transaction reference is required")

// LoadOptions bounds a history load.
type LoadOptions struct {
	// Since drops transactions strictly before this instant when set.
	Since *time.Time
	// Limit caps the number of most recent transactions returned. Zero means no cap.
	Limit int
}

// Repository persists observed card transactions in the graph.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// EnsureSchema creates the uniqueness constraints the MERGE statements rely on.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaCypher {
		if _, err := r.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// UpsertTransaction ensures the transaction node exists and is linked to its
// card, merchant and category.
func (r *Repository) UpsertTransaction(ctx context.Context, tx domain.Transaction) error {
	return r.UpsertTransactions(ctx, []domain.Transaction{tx})
}

// UpsertTransactions writes a batch in one statement.
func (r *Repository) UpsertTransactions(ctx context.Context, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(txs))
	for _, tx := range txs {
		if tx.TransNum == "" {
			return fmt.Errorf("card %d at %s: %w", tx.CardNumber, tx.Time.Format(domain.TimeLayout), ErrMissingTransNum)
		}
		rows = append(rows, transactionParams(tx))
	}

	if _, err := r.client.ExecuteWrite(ctx, upsertTransactionsCypher, map[string]any{"rows": rows}); err != nil {
		if len(txs) == 1 {
			return fmt.Errorf("upsert transaction %s: %w", txs[0].TransNum, err)
		}
		return fmt.Errorf("upsert %d transactions: %w", len(txs), err)
	}
	return nil
}

// LoadHistory returns persisted transactions in time order.
func (r *Repository) LoadHistory(ctx context.Context, opts LoadOptions) ([]domain.Transaction, error) {
	params := map[string]any{}
	query := historyMatchCypher
	if opts.Since != nil {
		params["since"] = opts.Since.Unix()
		query += historySinceClause
	}
	query += historyReturnCypher
	if opts.Limit > 0 {
		params["limit"] = int64(opts.Limit)
		query += historyLimitClause
	}

	res, err := r.client.ExecuteRead(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	out := make([]domain.Transaction, 0, len(res.Records))
	for _, record := range res.Records {
		tx, err := transactionFromRecord(record)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	// Rows arrive newest first so LIMIT keeps the most recent ones.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// CountTransactions returns the number of persisted transactions.
func (r *Repository) CountTransactions(ctx context.Context) (int, error) {
	res, err := r.client.ExecuteRead(ctx, countTransactionsCypher, nil)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	return int(toInt64(res.Records[0]["total"])), nil
}

func transactionParams(tx domain.Transaction) map[string]any {
	return map[string]any{
		"transNum":    tx.TransNum,
		"cardNumber":  tx.CardNumber,
		"merchant":    tx.Merchant,
		"category":    string(tx.Category),
		"amount":      tx.Amount.StringFixed(2),
		"epochSecond": tx.Time.Unix(),
		"firstName":   tx.FirstName,
		"lastName":    tx.LastName,
	}
}

func transactionFromRecord(record graph.Record) (domain.Transaction, error) {
	transNum := toString(record["transNum"])

	category, err := domain.ParseCategory(toString(record["category"]))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", transNum, err)
	}
	amount, err := toDecimal(record["amount"])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", transNum, err)
	}

	return domain.Transaction{
		Time:       time.Unix(toInt64(record["epochSecond"]), 0).UTC(),
		CardNumber: toInt64(record["cardNumber"]),
		Merchant:   toString(record["merchant"]),
		Category:   category,
		Amount:     amount,
		FirstName:  toString(record["firstName"]),
		LastName:   toString(record["lastName"]),
		TransNum:   transNum,
	}, nil
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toDecimal(val any) (decimal.Decimal, error) {
	switch v := val.(type) {
	case string:
		return domain.ParseAmount(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: unexpected %T", domain.ErrInvalidAmount, val)
	}
}

var schemaCypher = []string{
	`CREATE CONSTRAINT card_number IF NOT EXISTS FOR (c:Card) REQUIRE c.cardNumber IS UNIQUE`,
	`CREATE CONSTRAINT merchant_name IF NOT EXISTS FOR (m:Merchant) REQUIRE m.name IS UNIQUE`,
	`CREATE CONSTRAINT category_name IF NOT EXISTS FOR (c:Category) REQUIRE c.name IS UNIQUE`,
	`CREATE CONSTRAINT transaction_ref IF NOT EXISTS FOR (t:Transaction) REQUIRE t.transNum IS UNIQUE`,
}

const upsertTransactionsCypher = `
UNWIND $rows AS row
MERGE (c:Card {cardNumber: row.cardNumber})
SET c.firstName = row.firstName, c.lastName = row.lastName
MERGE (m:Merchant {name: row.merchant})
MERGE (cat:Category {name: row.category})
MERGE (t:Transaction {transNum: row.transNum})
SET t.amount = row.amount,
	t.epochSecond = row.epochSecond,
	t.firstName = row.firstName,
	t.lastName = row.lastName
MERGE (c)-[:MADE]->(t)
MERGE (t)-[:AT]->(m)
MERGE (t)-[:IN]->(cat)
`

const historyMatchCypher = `
MATCH (c:Card)-[:MADE]->(t:Transaction)-[:AT]->(m:Merchant),
	(t)-[:IN]->(cat:Category)
`

const historySinceClause = `WHERE t.epochSecond >= $since
`

const historyReturnCypher = `RETURN t.transNum AS transNum,
	c.cardNumber AS cardNumber,
	m.name AS merchant,
	cat.name AS category,
	t.amount AS amount,
	t.epochSecond AS epochSecond,
	t.firstName AS firstName,
	t.lastName AS lastName
ORDER BY t.epochSecond DESC
`

const historyLimitClause = `LIMIT $limit
`

const countTransactionsCypher = `
MATCH (t:Transaction)
RETURN count(t) AS total
`
