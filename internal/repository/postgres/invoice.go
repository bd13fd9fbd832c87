package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/medroute/medroute/internal/domain/invoice"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	pgclient "github.com/medroute/medroute/internal/postgres"
	"github.com/medroute/medroute/internal/types"
	"github.com/shopspring/decimal"
)

type invoiceRepository struct {
	db     pgclient.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(db pgclient.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

type invoiceRow struct {
	ID            string          `db:"id"`
	BillNumber    string          `db:"bill_number"`
	FacilityID    string          `db:"facility_id"`
	PeriodKey     string          `db:"period_key"`
	PeriodStart   time.Time       `db:"period_start"`
	PeriodEnd     time.Time       `db:"period_end"`
	ClientKey     string          `db:"client_key"`
	ClientName    string          `db:"client_name"`
	IdentityKind  string          `db:"identity_kind"`
	AmountDue     decimal.Decimal `db:"amount_due"`
	Tax           decimal.Decimal `db:"tax"`
	BillingStatus string          `db:"billing_status"`
	PaidAt        *time.Time      `db:"paid_at"`
	Metadata      []byte          `db:"metadata"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	CreatedBy     string          `db:"created_by"`
	UpdatedBy     string          `db:"updated_by"`
}

const invoiceColumns = `id, bill_number, facility_id, period_key, period_start, period_end,
	client_key, client_name, identity_kind, amount_due, tax, billing_status, paid_at, metadata,
	status, created_at, updated_at, created_by, updated_by`

const lineItemColumns = `id, invoice_id, trip_id, pickup_time, pickup_address,
	amount, raw_status, billing_status, status, created_at, updated_at, created_by, updated_by`

func (r *invoiceRow) toDomain() (*invoice.Invoice, error) {
	inv := &invoice.Invoice{
		ID:            r.ID,
		BillNumber:    r.BillNumber,
		FacilityID:    r.FacilityID,
		PeriodKey:     r.PeriodKey,
		PeriodStart:   r.PeriodStart.UTC(),
		PeriodEnd:     r.PeriodEnd.UTC(),
		ClientKey:     r.ClientKey,
		ClientName:    r.ClientName,
		IdentityKind:  types.IdentityKind(r.IdentityKind),
		AmountDue:     r.AmountDue,
		Tax:           r.Tax,
		BillingStatus: types.BillingStatus(r.BillingStatus),
		PaidAt:        r.PaidAt,
		BaseModel: types.BaseModel{
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
	if len(r.Metadata) > 0 {
		if err := unmarshalJSONB(r.Metadata, &inv.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for invoice %s: %w", r.ID, err)
		}
	}
	return inv, nil
}

// Create inserts the invoice header and all line items in one transaction.
// The unique index on (facility_id, period_key, client_key) makes the insert
// idempotent: a second attempt for the same key is reported as ErrAlreadyExists
// and leaves the existing invoice untouched.
func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}

	md, err := marshalJSONB(inv.Metadata)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	err = r.db.WithTx(ctx, func(txCtx context.Context) error {
		query := `INSERT INTO invoices (` + invoiceColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

		_, err := r.db.Querier(txCtx).ExecContext(txCtx, query,
			inv.ID, inv.BillNumber, inv.FacilityID, inv.PeriodKey, inv.PeriodStart.UTC(), inv.PeriodEnd.UTC(),
			inv.ClientKey, inv.ClientName, inv.IdentityKind, inv.AmountDue, inv.Tax, inv.BillingStatus,
			inv.PaidAt, md, inv.Status, inv.CreatedAt, inv.UpdatedAt, inv.CreatedBy, inv.UpdatedBy,
		)
		if err != nil {
			return err
		}

		for _, item := range inv.LineItems {
			itemQuery := `INSERT INTO invoice_line_items (` + lineItemColumns + `)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
			_, err := r.db.Querier(txCtx).ExecContext(txCtx, itemQuery,
				item.ID, inv.ID, item.TripID, item.PickupTime.UTC(), item.PickupAddress,
				item.Amount, item.RawStatus, item.BillingStatus,
				item.Status, item.CreatedAt, item.UpdatedAt, item.CreatedBy, item.UpdatedBy,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("Client %s is already billed for period %s", inv.ClientKey, inv.PeriodKey).
				WithReportableDetails(map[string]any{
					"facility_id": inv.FacilityID,
					"period_key":  inv.PeriodKey,
					"client_key":  inv.ClientKey,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	var row invoiceRow
	err := withReadRetry(ctx, r.logger, "invoice.Get", func() error {
		query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND status != $2`
		err := sqlx.GetContext(ctx, r.db.Querier(ctx), &row, query, id, types.StatusDeleted)
		if err == sql.ErrNoRows {
			return ierr.NewError("invoice not found").
				WithHintf("No invoice with id %s", id).
				Mark(ierr.ErrNotFound)
		}
		return err
	})
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch invoice").
			Mark(ierr.ErrDatabase)
	}

	inv, err := row.toDomain()
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	if err := r.loadLineItems(ctx, []*invoice.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepository) GetByPeriodClient(ctx context.Context, facilityID, periodKey, clientKey string) (*invoice.Invoice, error) {
	var row invoiceRow
	err := withReadRetry(ctx, r.logger, "invoice.GetByPeriodClient", func() error {
		query := `SELECT ` + invoiceColumns + ` FROM invoices
			WHERE facility_id = $1 AND period_key = $2 AND client_key = $3 AND status != $4`
		err := sqlx.GetContext(ctx, r.db.Querier(ctx), &row, query,
			facilityID, periodKey, clientKey, types.StatusDeleted)
		if err == sql.ErrNoRows {
			return ierr.NewError("invoice not found").
				WithHintf("No invoice for client %s in period %s", clientKey, periodKey).
				Mark(ierr.ErrNotFound)
		}
		return err
	})
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch invoice").
			Mark(ierr.ErrDatabase)
	}

	inv, err := row.toDomain()
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	if err := r.loadLineItems(ctx, []*invoice.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	conditions := []string{"status != $1"}
	args := []interface{}{types.StatusDeleted}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter != nil {
		if filter.FacilityID != "" {
			add("facility_id = $%d", filter.FacilityID)
		}
		if filter.PeriodKey != "" {
			add("period_key = $%d", filter.PeriodKey)
		}
		if filter.ClientKey != "" {
			add("client_key = $%d", filter.ClientKey)
		}
		if filter.BillingStatus != "" {
			add("billing_status = $%d", filter.BillingStatus)
		}
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` +
		strings.Join(conditions, " AND ") +
		` ORDER BY period_key DESC, amount_due DESC, id`

	var rows []invoiceRow
	err := withReadRetry(ctx, r.logger, "invoice.List", func() error {
		rows = rows[:0]
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, args...)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	invoices := make([]*invoice.Invoice, 0, len(rows))
	for i := range rows {
		inv, err := rows[i].toDomain()
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
		}
		invoices = append(invoices, inv)
	}
	if err := r.loadLineItems(ctx, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) MarkPaid(ctx context.Context, id string) error {
	query := `UPDATE invoices SET
			billing_status = $2,
			paid_at = $3,
			updated_at = $3
		WHERE id = $1 AND status != $4`

	res, err := r.db.Querier(ctx).ExecContext(ctx, query,
		id, types.BillingStatusPaid, time.Now().UTC(), types.StatusDeleted)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to mark invoice paid").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("No invoice with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

type lineItemRow struct {
	ID            string          `db:"id"`
	InvoiceID     string          `db:"invoice_id"`
	TripID        string          `db:"trip_id"`
	PickupTime    time.Time       `db:"pickup_time"`
	PickupAddress string          `db:"pickup_address"`
	Amount        decimal.Decimal `db:"amount"`
	RawStatus     string          `db:"raw_status"`
	BillingStatus string          `db:"billing_status"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	CreatedBy     string          `db:"created_by"`
	UpdatedBy     string          `db:"updated_by"`
}

func (r *invoiceRepository) loadLineItems(ctx context.Context, invoices []*invoice.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	ids := make([]string, len(invoices))
	byID := make(map[string]*invoice.Invoice, len(invoices))
	for i, inv := range invoices {
		ids[i] = inv.ID
		byID[inv.ID] = inv
	}

	query, args, err := sqlx.In(
		`SELECT `+lineItemColumns+` FROM invoice_line_items
			WHERE invoice_id IN (?) ORDER BY pickup_time, id`,
		ids,
	)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var rows []lineItemRow
	err = withReadRetry(ctx, r.logger, "invoice.loadLineItems", func() error {
		rows = rows[:0]
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, args...)
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load invoice line items").
			Mark(ierr.ErrDatabase)
	}

	for _, row := range rows {
		inv, ok := byID[row.InvoiceID]
		if !ok {
			continue
		}
		inv.LineItems = append(inv.LineItems, &invoice.LineItem{
			ID:            row.ID,
			InvoiceID:     row.InvoiceID,
			TripID:        row.TripID,
			PickupTime:    row.PickupTime.UTC(),
			PickupAddress: row.PickupAddress,
			Amount:        row.Amount,
			RawStatus:     row.RawStatus,
			BillingStatus: types.BillingStatus(row.BillingStatus),
			BaseModel: types.BaseModel{
				Status:    types.Status(row.Status),
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
				CreatedBy: row.CreatedBy,
				UpdatedBy: row.UpdatedBy,
			},
		})
	}
	return nil
}
