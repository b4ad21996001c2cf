package store

import (
	"context"
	"fmt"
)

// SequenceStore allocates the next application-assigned identifier for an
// entity table. Identifiers here are written by the caller, not generated by
// the database, so NextID must run inside the same transaction as the insert
// that consumes the value.
type SequenceStore struct{}

func NewSequenceStore() SequenceStore {
	return SequenceStore{}
}

// NextID returns max(column)+1 for the rows matching where (all rows when
// where is empty), or 1 when the table is empty. A transaction-scoped
// advisory lock on the table name serializes concurrent allocators for the
// same entity type; the lock is released at commit or rollback.
//
// table and column are code-supplied constants, never request input.
func (s SequenceStore) NextID(ctx context.Context, tx Tx, table, column, where string, args ...any) (int64, error) {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, table); err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) + 1 FROM %s`, column, table)
	if where != "" {
		query += " WHERE " + where
	}
	var next int64
	if err := tx.GetContext(ctx, &next, query, args...); err != nil {
		return 0, err
	}
	return next, nil
}
