package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/rezonia/invoice-generator/internal/model"
)

const auditTable = "invoice_audit"

// The table is insert-only: nothing in this package updates or deletes rows.
// seq is the insertion order; generated_at comes from the writer's clock and
// hosts may disagree.
var auditSchema = []string{
	`CREATE TABLE IF NOT EXISTS invoice_audit (
	seq BIGSERIAL,
	id UUID PRIMARY KEY,
	generated_at TIMESTAMPTZ NOT NULL,
	invoice_number TEXT NOT NULL,
	language TEXT NOT NULL,
	currency TEXT NOT NULL,
	grand_total TEXT NOT NULL,
	entry JSONB NOT NULL
)`,
	// tables created before seq existed
	`ALTER TABLE invoice_audit ADD COLUMN IF NOT EXISTS seq BIGSERIAL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS invoice_audit_seq_idx ON invoice_audit (seq)`,
}

// PostgresLog stores entries in Postgres, for deployments where several
// processes write the same audit trail
type PostgresLog struct {
	pool *pgxpool.Pool
}

// NewPostgresLog connects and creates the audit table if needed
func NewPostgresLog(ctx context.Context, dsn string) (*PostgresLog, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	for _, stmt := range auditSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create %s: %w", auditTable, err)
		}
	}
	return &PostgresLog{pool: pool}, nil
}

// Append inserts one entry in its own transaction
func (l *PostgresLog) Append(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return model.NewPersistenceError("encode", auditTable, errors.Wrap(err, "marshal audit entry"))
	}

	number, lang, cur := "", "", ""
	if e.Invoice != nil {
		number, lang, cur = e.Invoice.Number, string(e.Invoice.Language), string(e.Invoice.Currency)
	}

	_, err = l.pool.Exec(ctx,
		"INSERT INTO invoice_audit (id, generated_at, invoice_number, language, currency, grand_total, entry)"+
			" VALUES ($1, $2, $3, $4, $5, $6, $7)",
		e.ID, e.GeneratedAt, number, lang, cur, e.Totals.GrandTotal.String(), payload)
	if err != nil {
		return model.NewPersistenceError("insert", auditTable, errors.Wrap(err, "insert audit entry"))
	}
	return nil
}

// Recent returns the last limit entries in insertion order
func (l *PostgresLog) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := "SELECT entry FROM invoice_audit ORDER BY seq DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, model.NewPersistenceError("read", auditTable, errors.Wrap(err, "query audit entries"))
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, model.NewPersistenceError("read", auditTable, errors.Wrap(err, "scan audit entry"))
		}
		var e Entry
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, model.NewPersistenceError("read", auditTable, errors.Wrap(err, "decode audit entry"))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewPersistenceError("read", auditTable, errors.Wrap(err, "iterate audit entries"))
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Close releases the pool
func (l *PostgresLog) Close() {
	l.pool.Close()
}
