package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/medroute/medroute/internal/domain/trip"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	pgclient "github.com/medroute/medroute/internal/postgres"
	"github.com/medroute/medroute/internal/types"
	"github.com/shopspring/decimal"
)

type tripRepository struct {
	db     pgclient.IClient
	logger *logger.Logger
}

func NewTripRepository(db pgclient.IClient, logger *logger.Logger) trip.Repository {
	return &tripRepository{db: db, logger: logger}
}

// tripRow maps the trips table. JSONB columns land in raw bytes and are
// decoded into the domain model explicitly.
type tripRow struct {
	ID               string           `db:"id"`
	BookingRef       string           `db:"booking_ref"`
	FacilityID       *string          `db:"facility_id"`
	UserID           *string          `db:"user_id"`
	ManagedClientID  *string          `db:"managed_client_id"`
	PickupTime       time.Time        `db:"pickup_time"`
	PickupDate       *string          `db:"pickup_date"`
	PickupAddress    string           `db:"pickup_address"`
	DropoffAddress   string           `db:"dropoff_address"`
	TripStatus       string           `db:"trip_status"`
	Price            *decimal.Decimal `db:"price"`
	TotalFare        *decimal.Decimal `db:"total_fare"`
	PricingBreakdown []byte           `db:"pricing_breakdown"`
	Metadata         []byte           `db:"metadata"`
	Status           string           `db:"status"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
	CreatedBy        string           `db:"created_by"`
	UpdatedBy        string           `db:"updated_by"`
}

const tripColumns = `id, booking_ref, facility_id, user_id, managed_client_id,
	pickup_time, pickup_date, pickup_address, dropoff_address, trip_status,
	price, total_fare, pricing_breakdown, metadata,
	status, created_at, updated_at, created_by, updated_by`

func (r *tripRow) toDomain() (*trip.Trip, error) {
	t := &trip.Trip{
		ID:              r.ID,
		BookingRef:      r.BookingRef,
		FacilityID:      r.FacilityID,
		UserID:          r.UserID,
		ManagedClientID: r.ManagedClientID,
		PickupTime:      r.PickupTime.UTC(),
		PickupDate:      r.PickupDate,
		PickupAddress:   r.PickupAddress,
		DropoffAddress:  r.DropoffAddress,
		TripStatus:      r.TripStatus,
		Price:           r.Price,
		TotalFare:       r.TotalFare,
		BaseModel: types.BaseModel{
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}

	if len(r.PricingBreakdown) > 0 {
		var pb trip.PricingBreakdown
		if err := unmarshalJSONB(r.PricingBreakdown, &pb); err != nil {
			return nil, fmt.Errorf("decode pricing_breakdown for trip %s: %w", r.ID, err)
		}
		t.PricingBreakdown = &pb
	}
	if len(r.Metadata) > 0 {
		if err := unmarshalJSONB(r.Metadata, &t.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for trip %s: %w", r.ID, err)
		}
	}
	return t, nil
}

func (r *tripRepository) Create(ctx context.Context, t *trip.Trip) error {
	pb, err := marshalJSONB(t.PricingBreakdown)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	md, err := marshalJSONB(t.Metadata)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	query := `INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err = r.db.Querier(ctx).ExecContext(ctx, query,
		t.ID, t.BookingRef, t.FacilityID, t.UserID, t.ManagedClientID,
		t.PickupTime.UTC(), t.PickupDate, t.PickupAddress, t.DropoffAddress, t.TripStatus,
		t.Price, t.TotalFare, pb, md,
		t.Status, t.CreatedAt, t.UpdatedAt, t.CreatedBy, t.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A trip with this id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create trip").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *tripRepository) Get(ctx context.Context, id string) (*trip.Trip, error) {
	var row tripRow
	err := withReadRetry(ctx, r.logger, "trip.Get", func() error {
		query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND status != $2`
		err := sqlx.GetContext(ctx, r.db.Querier(ctx), &row, query, id, types.StatusDeleted)
		if err == sql.ErrNoRows {
			return ierr.NewError("trip not found").
				WithHintf("No trip with id %s", id).
				Mark(ierr.ErrNotFound)
		}
		return err
	})
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch trip").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain()
}

// Update writes mutable fields only. The pricing breakdown is locked at
// booking time: COALESCE keeps the stored value whenever one exists.
func (r *tripRepository) Update(ctx context.Context, t *trip.Trip) error {
	pb, err := marshalJSONB(t.PricingBreakdown)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	md, err := marshalJSONB(t.Metadata)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	query := `UPDATE trips SET
			trip_status = $2,
			pickup_time = $3,
			pickup_date = $4,
			pickup_address = $5,
			dropoff_address = $6,
			price = $7,
			total_fare = $8,
			pricing_breakdown = COALESCE(pricing_breakdown, $9),
			metadata = $10,
			status = $11,
			updated_at = $12,
			updated_by = $13
		WHERE id = $1`

	res, err := r.db.Querier(ctx).ExecContext(ctx, query,
		t.ID, t.TripStatus, t.PickupTime.UTC(), t.PickupDate,
		t.PickupAddress, t.DropoffAddress, t.Price, t.TotalFare, pb, md,
		t.Status, time.Now().UTC(), t.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update trip").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("trip not found").
			WithHintf("No trip with id %s", t.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *tripRepository) List(ctx context.Context, filter *types.TripFilter) ([]*trip.Trip, error) {
	query, args := r.buildListQuery(filter, false)

	var rows []tripRow
	err := withReadRetry(ctx, r.logger, "trip.List", func() error {
		rows = rows[:0]
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, args...)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list trips").
			Mark(ierr.ErrDatabase)
	}
	return rowsToDomain(rows)
}

func (r *tripRepository) ListByUserIDs(ctx context.Context, userIDs []string, filter *types.TripFilter) ([]*trip.Trip, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args := r.buildListQuery(filter, true)
	query, args, err := sqlx.In(query, append(args, userIDs)...)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var rows []tripRow
	err = withReadRetry(ctx, r.logger, "trip.ListByUserIDs", func() error {
		rows = rows[:0]
		return sqlx.SelectContext(ctx, r.db.Querier(ctx), &rows, query, args...)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list trips by users").
			Mark(ierr.ErrDatabase)
	}
	return rowsToDomain(rows)
}

func (r *tripRepository) Count(ctx context.Context, filter *types.TripFilter) (int, error) {
	conditions, args := buildTripConditions(filter, false)
	query := `SELECT COUNT(*) FROM trips WHERE ` + strings.Join(conditions, " AND ")

	var count int
	err := withReadRetry(ctx, r.logger, "trip.Count", func() error {
		return sqlx.GetContext(ctx, r.db.Querier(ctx), &count, query, args...)
	})
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count trips").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *tripRepository) buildListQuery(filter *types.TripFilter, byUserIDs bool) (string, []interface{}) {
	conditions, args := buildTripConditions(filter, byUserIDs)

	query := `SELECT ` + tripColumns + ` FROM trips WHERE ` +
		strings.Join(conditions, " AND ") +
		` ORDER BY pickup_time DESC, id`

	if !byUserIDs && filter != nil && filter.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}
	return query, args
}

// buildTripConditions assembles the WHERE clause. When byUserIDs is set the
// caller appends the `user_id IN (?)` expansion via sqlx.In, so conditions
// use `?` placeholders there and get rebound afterwards.
func buildTripConditions(filter *types.TripFilter, byUserIDs bool) ([]string, []interface{}) {
	placeholder := func(i int) string {
		if byUserIDs {
			return "?"
		}
		return fmt.Sprintf("$%d", i)
	}

	conditions := []string{"status != " + placeholder(1)}
	args := []interface{}{types.StatusDeleted}

	if filter == nil {
		return conditions, args
	}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, placeholder(len(args))))
	}

	if filter.FacilityID != "" && !byUserIDs {
		add("facility_id = %s", filter.FacilityID)
	}
	if filter.FacilityIDOrUnlinked != "" {
		add("(facility_id IS NULL OR facility_id = %s)", filter.FacilityIDOrUnlinked)
	}
	if filter.UserID != "" {
		add("user_id = %s", filter.UserID)
	}
	if filter.ManagedClientID != "" {
		add("managed_client_id = %s", filter.ManagedClientID)
	}
	if filter.PickupAfter != nil {
		add("pickup_time >= %s", filter.PickupAfter.UTC())
	}
	if filter.PickupBefore != nil {
		if filter.PickupBeforeExclusive {
			add("pickup_time < %s", filter.PickupBefore.UTC())
		} else {
			add("pickup_time <= %s", filter.PickupBefore.UTC())
		}
	}
	if len(filter.Statuses) > 0 {
		normalized := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			normalized[i] = string(s)
		}
		args = append(args, normalized)
		if byUserIDs {
			conditions = append(conditions,
				"lower(replace(replace(trip_status, '-', '_'), ' ', '_')) IN (?)")
		} else {
			conditions = append(conditions,
				fmt.Sprintf("lower(replace(replace(trip_status, '-', '_'), ' ', '_')) = ANY($%d)", len(args)))
		}
	}

	if byUserIDs {
		conditions = append(conditions, "user_id IN (?)")
	}

	return conditions, args
}

func rowsToDomain(rows []tripRow) ([]*trip.Trip, error) {
	trips := make([]*trip.Trip, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toDomain()
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
		}
		trips = append(trips, t)
	}
	return trips, nil
}
