package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/lenos/pkg/database"
	"github.com/ghuser/lenos/pkg/events"
	"github.com/ghuser/lenos/services/shop/domain"
	domainevents "github.com/ghuser/lenos/services/shop/domain/events"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// InvoiceRepository implements repositories.InvoiceRepository against PostgreSQL.
type InvoiceRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewInvoiceRepository returns an InvoiceRepository backed by the given pool
// and event bus. The bus publishes InvoiceIssued events.
func NewInvoiceRepository(db *database.Database, bus *events.EventBus) *InvoiceRepository {
	return &InvoiceRepository{db: db, bus: bus}
}

// Save inserts inv, assigns its ID and publishes InvoiceIssuedEvent in the same
// transaction. Returns domain.ErrDuplicateNumber on an invoice number collision.
func (r *InvoiceRepository) Save(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO invoices (job_id, invoice_number, amount, status, issue_date, due_date, paid_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			inv.JobID, inv.InvoiceNumber, inv.Amount, string(inv.Status),
			inv.IssueDate, nullTime(inv.DueDate), nullTime(inv.PaidDate),
		).Scan(&inv.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateNumber
			}
			if foreignKeyTarget(err) != "" {
				return domain.NewNotFoundError("job", inv.JobID)
			}
			return storageErr("insert invoice", err)
		}

		eventID := uuid.New()
		if err := publish(ctx, r.bus, tx, domainevents.TopicInvoiceIssued, eventID, domainevents.InvoiceIssuedEvent{
			EventID:       eventID,
			Version:       domainevents.Version,
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			JobID:         inv.JobID,
			Amount:        inv.Amount.StringFixed(2),
			OccurredAt:    inv.IssueDate,
		}); err != nil {
			return fmt.Errorf("publish invoice issued: %w", err)
		}
		return nil
	})
}

// List returns every invoice with its job number and customer name, most
// recently issued first.
func (r *InvoiceRepository) List(ctx context.Context) ([]*models.InvoiceView, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT i.id, i.job_id, i.invoice_number, i.amount, i.status, i.issue_date,
			i.due_date, i.paid_date, COALESCE(j.job_number, ''),
			COALESCE(c.name, '`+models.UnknownCustomerName+`')
		FROM invoices i
		LEFT JOIN jobs j ON j.id = i.job_id
		LEFT JOIN customers c ON c.id = j.customer_id
		ORDER BY i.issue_date DESC, i.id DESC`)
	if err != nil {
		return nil, storageErr("query invoices", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]*models.InvoiceView, 0)
	for rows.Next() {
		var (
			v      models.InvoiceView
			status string
			due    sql.NullTime
			paid   sql.NullTime
		)
		if err := rows.Scan(
			&v.ID, &v.JobID, &v.InvoiceNumber, &v.Amount, &status, &v.IssueDate,
			&due, &paid, &v.JobNumber, &v.CustomerName,
		); err != nil {
			return nil, storageErr("scan invoice", err)
		}
		v.Status = models.InvoiceStatus(status)
		v.IssueDate = v.IssueDate.UTC()
		v.DueDate = timePtr(due)
		v.PaidDate = timePtr(paid)
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate invoices", err)
	}
	return out, nil
}
