package store

import (
	"context"

	"github.com/google/uuid"
)

type AuditStore struct {
	db DB
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Log(ctx context.Context, tx Execer, action, entityType, entityID, data string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_log (id, action, entity_type, entity_id, data)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), action, entityType, entityID, data)
	return err
}
