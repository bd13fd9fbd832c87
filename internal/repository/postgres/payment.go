package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/medroute/medroute/internal/domain/payment"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	pgclient "github.com/medroute/medroute/internal/postgres"
	"github.com/medroute/medroute/internal/types"
)

type paymentRepository struct {
	db     pgclient.IClient
	logger *logger.Logger
}

func NewPaymentRepository(db pgclient.IClient, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

const paymentColumns = `id, facility_id, trip_id, invoice_id, amount, stripe_payment_intent_id,
	recorded_at, status, created_at, updated_at, created_by, updated_by`

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Querier(ctx).ExecContext(ctx, query,
		p.ID, p.FacilityID, p.TripID, p.InvoiceID, p.Amount, p.StripePaymentIntentID,
		p.RecordedAt.UTC(), p.Status, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A payment with this id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to record payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	err := withReadRetry(ctx, r.logger, "payment.Get", func() error {
		query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND status != $2`
		err := sqlx.GetContext(ctx, r.db.Querier(ctx), &p, query, id, types.StatusDeleted)
		if err == sql.ErrNoRows {
			return ierr.NewError("payment not found").
				WithHintf("No payment with id %s", id).
				Mark(ierr.ErrNotFound)
		}
		return err
	})
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch payment").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) PaidTripIDs(ctx context.Context, tripIDs []string) (map[string]struct{}, error) {
	if len(tripIDs) == 0 {
		return map[string]struct{}{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT DISTINCT trip_id FROM payments
			WHERE trip_id IN (?) AND status != ?`,
		tripIDs, types.StatusDeleted,
	)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var ids []string
	err = withReadRetry(ctx, r.logger, "payment.PaidTripIDs", func() error {
		ids = ids[:0]
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &ids, query, args...)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch trip payments").
			Mark(ierr.ErrDatabase)
	}

	result := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		result[id] = struct{}{}
	}
	return result, nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	var rows []payment.Payment
	err := withReadRetry(ctx, r.logger, "payment.ListByInvoice", func() error {
		rows = rows[:0]
		query := `SELECT ` + paymentColumns + ` FROM payments
			WHERE invoice_id = $1 AND status != $2
			ORDER BY recorded_at, id`
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, invoiceID, types.StatusDeleted)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoice payments").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*payment.Payment, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
