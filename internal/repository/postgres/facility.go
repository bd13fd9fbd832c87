package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/medroute/medroute/internal/cache"
	"github.com/medroute/medroute/internal/domain/facility"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	pgclient "github.com/medroute/medroute/internal/postgres"
	"github.com/medroute/medroute/internal/types"
)

type facilityRepository struct {
	db     pgclient.IClient
	logger *logger.Logger
	cache  cache.Cache
}

func NewFacilityRepository(db pgclient.IClient, logger *logger.Logger, c cache.Cache) facility.Repository {
	return &facilityRepository{db: db, logger: logger, cache: c}
}

const facilityColumns = `id, name, address_line1, address_line2, city, state, postal_code,
	billing_email, billing_phone, contact_name, stripe_customer_id,
	status, created_at, updated_at, created_by, updated_by`

func (r *facilityRepository) Create(ctx context.Context, f *facility.Facility) error {
	query := `INSERT INTO facilities (` + facilityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.Querier(ctx).ExecContext(ctx, query,
		f.ID, f.Name, f.AddressLine1, f.AddressLine2, f.City, f.State, f.PostalCode,
		f.BillingEmail, f.BillingPhone, f.ContactName, f.StripeCustomerID,
		f.Status, f.CreatedAt, f.UpdatedAt, f.CreatedBy, f.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A facility with this id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create facility").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *facilityRepository) Get(ctx context.Context, id string) (*facility.Facility, error) {
	key := cache.GenerateKey(cache.PrefixFacility, id)
	if cached, ok := r.cache.Get(ctx, key); ok {
		if f, ok := cached.(*facility.Facility); ok {
			return f, nil
		}
	}

	var f facility.Facility
	err := withReadRetry(ctx, r.logger, "facility.Get", func() error {
		query := `SELECT ` + facilityColumns + ` FROM facilities WHERE id = $1 AND status != $2`
		err := sqlx.GetContext(ctx, r.db.Querier(ctx), &f, query, id, types.StatusDeleted)
		if err == sql.ErrNoRows {
			return ierr.NewError("facility not found").
				WithHintf("No facility with id %s", id).
				Mark(ierr.ErrNotFound)
		}
		return err
	})
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch facility").
			Mark(ierr.ErrDatabase)
	}

	r.cache.Set(ctx, key, &f, cache.DefaultExpiration)
	return &f, nil
}

func (r *facilityRepository) Update(ctx context.Context, f *facility.Facility) error {
	query := `UPDATE facilities SET
			name = $2,
			address_line1 = $3,
			address_line2 = $4,
			city = $5,
			state = $6,
			postal_code = $7,
			billing_email = $8,
			billing_phone = $9,
			contact_name = $10,
			stripe_customer_id = $11,
			status = $12,
			updated_at = $13,
			updated_by = $14
		WHERE id = $1`

	res, err := r.db.Querier(ctx).ExecContext(ctx, query,
		f.ID, f.Name, f.AddressLine1, f.AddressLine2, f.City, f.State, f.PostalCode,
		f.BillingEmail, f.BillingPhone, f.ContactName, f.StripeCustomerID,
		f.Status, time.Now().UTC(), f.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update facility").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("facility not found").
			WithHintf("No facility with id %s", f.ID).
			Mark(ierr.ErrNotFound)
	}

	r.cache.Delete(ctx, cache.GenerateKey(cache.PrefixFacility, f.ID))
	return nil
}

func (r *facilityRepository) List(ctx context.Context) ([]*facility.Facility, error) {
	var rows []facility.Facility
	err := withReadRetry(ctx, r.logger, "facility.List", func() error {
		rows = rows[:0]
		query := `SELECT ` + facilityColumns + ` FROM facilities
			WHERE status = $1 ORDER BY name, id`
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, types.StatusActive)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list facilities").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*facility.Facility, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
