package storage

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/models"
)

// Models lists every persisted entity in creation order.
func Models() []any {
	return []any{
		(*models.User)(nil),
		(*models.Location)(nil),
		(*models.Category)(nil),
		(*models.Event)(nil),
		(*models.TicketType)(nil),
		(*models.Order)(nil),
		(*models.Ticket)(nil),
		(*models.Payment)(nil),
		(*models.Review)(nil),
		(*models.Notification)(nil),
		(*models.AuditLog)(nil),
	}
}

type lookupIndex struct {
	model  any
	name   string
	column string
}

var lookupIndexes = []lookupIndex{
	{(*models.Event)(nil), "idx_events_location_id", "location_id"},
	{(*models.TicketType)(nil), "idx_ticket_types_event_id", "event_id"},
	{(*models.Ticket)(nil), "idx_tickets_order_id", "order_id"},
	{(*models.Payment)(nil), "idx_payments_order_id", "order_id"},
	{(*models.Review)(nil), "idx_reviews_event_id", "event_id"},
	{(*models.Notification)(nil), "idx_notifications_user_id", "user_id"},
}

// CreateSchema creates any missing tables straight from the bun models. Deployments that
// manage schema with SQL migrations use internal/database/migrations instead.
func CreateSchema(ctx context.Context, db *DB) error {
	for _, model := range Models() {
		if _, err := db.Bun.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	// MySQL has no CREATE INDEX IF NOT EXISTS.
	if db.Dialect == DialectMySQL {
		return nil
	}
	for _, idx := range lookupIndexes {
		_, err := db.Bun.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.column).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}

	db.Logger.LogDatabase("SCHEMA", "all", fmt.Sprintf("%d tables ensured", len(Models())))
	return nil
}
