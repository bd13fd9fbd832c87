package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/medroute/medroute/internal/domain/managedclient"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	pgclient "github.com/medroute/medroute/internal/postgres"
	"github.com/medroute/medroute/internal/types"
)

// managedClientRepository reads the primary managed_clients table, which
// stores split first_name / last_name columns.
type managedClientRepository struct {
	db     pgclient.IClient
	logger *logger.Logger
}

func NewManagedClientRepository(db pgclient.IClient, logger *logger.Logger) managedclient.Repository {
	return &managedClientRepository{db: db, logger: logger}
}

const managedClientColumns = `id, first_name, last_name, phone, facility_id,
	status, created_at, updated_at, created_by, updated_by`

func (r *managedClientRepository) Create(ctx context.Context, mc *managedclient.ManagedClient) error {
	query := `INSERT INTO managed_clients (` + managedClientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Querier(ctx).ExecContext(ctx, query,
		mc.ID, mc.FirstName, mc.LastName, mc.Phone, mc.FacilityID,
		mc.Status, mc.CreatedAt, mc.UpdatedAt, mc.CreatedBy, mc.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A managed client with this id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create managed client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *managedClientRepository) Get(ctx context.Context, id string) (*managedclient.ManagedClient, error) {
	var mc managedclient.ManagedClient
	err := withReadRetry(ctx, r.logger, "managedclient.Get", func() error {
		query := `SELECT ` + managedClientColumns + ` FROM managed_clients WHERE id = $1 AND status != $2`
		err := sqlx.GetContext(ctx, r.db.Querier(ctx), &mc, query, id, types.StatusDeleted)
		if err == sql.ErrNoRows {
			return ierr.NewError("managed client not found").
				WithHintf("No managed client with id %s", id).
				Mark(ierr.ErrNotFound)
		}
		return err
	})
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch managed client").
			Mark(ierr.ErrDatabase)
	}
	return &mc, nil
}

func (r *managedClientRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*managedclient.ManagedClient, error) {
	if len(ids) == 0 {
		return map[string]*managedclient.ManagedClient{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+managedClientColumns+` FROM managed_clients WHERE id IN (?) AND status != ?`,
		ids, types.StatusDeleted,
	)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var rows []managedclient.ManagedClient
	err = withReadRetry(ctx, r.logger, "managedclient.GetByIDs", func() error {
		rows = rows[:0]
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, args...)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch managed clients").
			Mark(ierr.ErrDatabase)
	}

	result := make(map[string]*managedclient.ManagedClient, len(rows))
	for i := range rows {
		result[rows[i].ID] = &rows[i]
	}
	return result, nil
}

func (r *managedClientRepository) ListByFacility(ctx context.Context, facilityID string) ([]*managedclient.ManagedClient, error) {
	var rows []managedclient.ManagedClient
	err := withReadRetry(ctx, r.logger, "managedclient.ListByFacility", func() error {
		rows = rows[:0]
		query := `SELECT ` + managedClientColumns + ` FROM managed_clients
			WHERE facility_id = $1 AND status != $2
			ORDER BY last_name, first_name, id`
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, facilityID, types.StatusDeleted)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list managed clients").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*managedclient.ManagedClient, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// facilityManagedClientRepository reads the legacy facility_managed_clients
// table. That table stores a single full-name column, historically `name` with
// a later half-finished rename to `client_name`, so both columns exist and
// either may hold the value. Reads coalesce the two and split on the first
// space to recover first/last name parts.
type facilityManagedClientRepository struct {
	db     pgclient.IClient
	logger *logger.Logger
}

func NewFacilityManagedClientRepository(db pgclient.IClient, logger *logger.Logger) managedclient.Repository {
	return &facilityManagedClientRepository{db: db, logger: logger}
}

type facilityManagedClientRow struct {
	ID         string    `db:"id"`
	FullName   string    `db:"full_name"`
	Phone      string    `db:"phone"`
	FacilityID string    `db:"facility_id"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
	CreatedBy  string    `db:"created_by"`
	UpdatedBy  string    `db:"updated_by"`
}

const facilityManagedClientColumns = `id,
	COALESCE(NULLIF(client_name, ''), name, '') AS full_name,
	phone, facility_id, status, created_at, updated_at, created_by, updated_by`

func (r *facilityManagedClientRow) toDomain() *managedclient.ManagedClient {
	first, last := splitFullName(r.FullName)
	return &managedclient.ManagedClient{
		ID:         r.ID,
		FirstName:  first,
		LastName:   last,
		Phone:      r.Phone,
		FacilityID: r.FacilityID,
		BaseModel: types.BaseModel{
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

func splitFullName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func (r *facilityManagedClientRepository) Create(ctx context.Context, mc *managedclient.ManagedClient) error {
	// New records write client_name only; the name column stays for old rows.
	query := `INSERT INTO facility_managed_clients
		(id, client_name, phone, facility_id, status, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Querier(ctx).ExecContext(ctx, query,
		mc.ID, mc.FullName(), mc.Phone, mc.FacilityID,
		mc.Status, mc.CreatedAt, mc.UpdatedAt, mc.CreatedBy, mc.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A managed client with this id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create managed client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *facilityManagedClientRepository) Get(ctx context.Context, id string) (*managedclient.ManagedClient, error) {
	var row facilityManagedClientRow
	err := withReadRetry(ctx, r.logger, "facilitymanagedclient.Get", func() error {
		query := `SELECT ` + facilityManagedClientColumns + ` FROM facility_managed_clients
			WHERE id = $1 AND status != $2`
		err := sqlx.GetContext(ctx, r.db.Querier(ctx), &row, query, id, types.StatusDeleted)
		if err == sql.ErrNoRows {
			return ierr.NewError("managed client not found").
				WithHintf("No managed client with id %s", id).
				Mark(ierr.ErrNotFound)
		}
		return err
	})
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch managed client").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *facilityManagedClientRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*managedclient.ManagedClient, error) {
	if len(ids) == 0 {
		return map[string]*managedclient.ManagedClient{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+facilityManagedClientColumns+` FROM facility_managed_clients
			WHERE id IN (?) AND status != ?`,
		ids, types.StatusDeleted,
	)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var rows []facilityManagedClientRow
	err = withReadRetry(ctx, r.logger, "facilitymanagedclient.GetByIDs", func() error {
		rows = rows[:0]
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, args...)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch managed clients").
			Mark(ierr.ErrDatabase)
	}

	result := make(map[string]*managedclient.ManagedClient, len(rows))
	for i := range rows {
		result[rows[i].ID] = rows[i].toDomain()
	}
	return result, nil
}

func (r *facilityManagedClientRepository) ListByFacility(ctx context.Context, facilityID string) ([]*managedclient.ManagedClient, error) {
	var rows []facilityManagedClientRow
	err := withReadRetry(ctx, r.logger, "facilitymanagedclient.ListByFacility", func() error {
		rows = rows[:0]
		query := `SELECT ` + facilityManagedClientColumns + ` FROM facility_managed_clients
			WHERE facility_id = $1 AND status != $2
			ORDER BY full_name, id`
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, facilityID, types.StatusDeleted)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list managed clients").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*managedclient.ManagedClient, len(rows))
	for i := range rows {
		result[i] = rows[i].toDomain()
	}
	return result, nil
}
