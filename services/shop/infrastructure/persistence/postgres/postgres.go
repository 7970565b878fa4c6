// Package postgres implements the shop repositories against PostgreSQL.
// Writes that emit a domain event publish it through the Watermill outbox in
// the same transaction, so the event exists iff the write committed.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/pkg/database"
	"github.com/ghuser/lenos/pkg/events"
	"github.com/ghuser/lenos/services/shop/domain"
	domainevents "github.com/ghuser/lenos/services/shop/domain/events"
	"github.com/ghuser/lenos/services/shop/domain/repositories"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// NewRegistry returns every shop repository backed by db. bus may be nil, in
// which case no events are published.
func NewRegistry(db *database.Database, bus *events.EventBus) repositories.Registry {
	return repositories.Registry{
		Customers:     NewCustomerRepository(db),
		Jobs:          NewJobRepository(db, bus),
		Inventory:     NewInventoryRepository(db, bus),
		QualityChecks: NewQualityCheckRepository(db),
		Invoices:      NewInvoiceRepository(db, bus),
	}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// foreignKeyTarget returns the constraint name of a foreign key violation, or "".
func foreignKeyTarget(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return pgErr.ConstraintName
	}
	return ""
}

// publish writes evt to the outbox in tx. eventID must match the id inside evt.
func publish(ctx context.Context, bus *events.EventBus, tx *sql.Tx, topic string, eventID uuid.UUID, evt any) error {
	if bus == nil {
		return nil
	}
	msg, err := events.NewMessage(eventID.String(), domainevents.Version, evt)
	if err != nil {
		return err
	}
	return bus.PublishTx(ctx, tx, topic, msg)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullDecimal(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*p)
}

func storageErr(op string, err error) error {
	return domain.NewStorageError(op, err)
}
