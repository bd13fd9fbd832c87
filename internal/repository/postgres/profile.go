package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/medroute/medroute/internal/cache"
	"github.com/medroute/medroute/internal/domain/profile"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	pgclient "github.com/medroute/medroute/internal/postgres"
	"github.com/medroute/medroute/internal/types"
)

type profileRepository struct {
	db     pgclient.IClient
	logger *logger.Logger
	cache  cache.Cache
}

func NewProfileRepository(db pgclient.IClient, logger *logger.Logger, c cache.Cache) profile.Repository {
	return &profileRepository{db: db, logger: logger, cache: c}
}

const profileColumns = `id, first_name, last_name, role, facility_id, phone, email,
	status, created_at, updated_at, created_by, updated_by`

func (r *profileRepository) Create(ctx context.Context, p *profile.Profile) error {
	query := `INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Querier(ctx).ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.Role, p.FacilityID, p.Phone, p.Email,
		p.Status, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A profile with this id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create profile").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *profileRepository) Get(ctx context.Context, id string) (*profile.Profile, error) {
	key := cache.GenerateKey(cache.PrefixProfile, id)
	if cached, ok := r.cache.Get(ctx, key); ok {
		if p, ok := cached.(*profile.Profile); ok {
			return p, nil
		}
	}

	var p profile.Profile
	err := withReadRetry(ctx, r.logger, "profile.Get", func() error {
		query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 AND status != $2`
		err := sqlx.GetContext(ctx, r.db.Querier(ctx), &p, query, id, types.StatusDeleted)
		if err == sql.ErrNoRows {
			return ierr.NewError("profile not found").
				WithHintf("No profile with id %s", id).
				Mark(ierr.ErrNotFound)
		}
		return err
	})
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch profile").
			Mark(ierr.ErrDatabase)
	}

	r.cache.Set(ctx, key, &p, cache.DefaultExpiration)
	return &p, nil
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*profile.Profile, error) {
	if len(ids) == 0 {
		return map[string]*profile.Profile{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+profileColumns+` FROM profiles WHERE id IN (?) AND status != ?`,
		ids, types.StatusDeleted,
	)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var rows []profile.Profile
	err = withReadRetry(ctx, r.logger, "profile.GetByIDs", func() error {
		rows = rows[:0]
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, args...)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch profiles").
			Mark(ierr.ErrDatabase)
	}

	result := make(map[string]*profile.Profile, len(rows))
	for i := range rows {
		result[rows[i].ID] = &rows[i]
	}
	return result, nil
}

func (r *profileRepository) ListByFacility(ctx context.Context, facilityID string) ([]*profile.Profile, error) {
	var rows []profile.Profile
	err := withReadRetry(ctx, r.logger, "profile.ListByFacility", func() error {
		rows = rows[:0]
		query := `SELECT ` + profileColumns + ` FROM profiles
			WHERE facility_id = $1 AND status != $2
			ORDER BY last_name, first_name, id`
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, facilityID, types.StatusDeleted)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list facility profiles").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*profile.Profile, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
