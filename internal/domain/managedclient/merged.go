package managedclient

import (
	"context"

	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
)

// Source is one named managed-client table. The name only shows up in logs
// and partial-resolution warnings.
type Source struct {
	Name string
	Repo Repository
}

// MergedRepository composes every known managed-client source behind the
// plain Repository interface. Reads consult all sources and merge by id with
// earlier sources taking precedence; writes go to the first (current) source.
//
// A single unreachable source degrades to best-effort resolution instead of
// failing the whole lookup. Only when every source fails does a read error
// out, because at that point there is nothing to degrade to.
type MergedRepository struct {
	sources []Source
	logger  *logger.Logger
}

func NewMergedRepository(logger *logger.Logger, sources ...Source) *MergedRepository {
	return &MergedRepository{
		sources: sources,
		logger:  logger,
	}
}

// Partial reports whether the last read skipped a source. It is only
// meaningful on the result returned by GetByIDsPartial.
type LookupResult struct {
	Clients map[string]*ManagedClient
	// Partial is true when at least one source was unreachable and the result
	// is best effort
	Partial bool
	// FailedSources names the sources that were skipped
	FailedSources []string
}

func (r *MergedRepository) Create(ctx context.Context, client *ManagedClient) error {
	if len(r.sources) == 0 {
		return ierr.NewError("no managed client source configured").Mark(ierr.ErrSystem)
	}
	return r.sources[0].Repo.Create(ctx, client)
}

func (r *MergedRepository) Get(ctx context.Context, id string) (*ManagedClient, error) {
	var lastErr error
	for _, src := range r.sources {
		client, err := src.Repo.Get(ctx, id)
		if err == nil {
			return client, nil
		}
		if ierr.IsNotFound(err) {
			continue
		}
		r.logger.Warnw("managed client source unreachable",
			"source", src.Name,
			"managed_client_id", id,
			"error", err,
		)
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ierr.NewError("managed client not found").
		WithHintf("No managed client with id %s in any source", id).
		Mark(ierr.ErrNotFound)
}

func (r *MergedRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*ManagedClient, error) {
	res, err := r.GetByIDsPartial(ctx, ids)
	if err != nil {
		return nil, err
	}
	return res.Clients, nil
}

// GetByIDsPartial merges lookups across all sources. Earlier sources win on
// id collisions; later sources only fill gaps.
func (r *MergedRepository) GetByIDsPartial(ctx context.Context, ids []string) (*LookupResult, error) {
	result := &LookupResult{Clients: make(map[string]*ManagedClient, len(ids))}
	if len(ids) == 0 {
		return result, nil
	}

	failed := 0
	for _, src := range r.sources {
		clients, err := src.Repo.GetByIDs(ctx, ids)
		if err != nil {
			r.logger.Warnw("managed client source unreachable, degrading to partial resolution",
				"source", src.Name,
				"error", err,
			)
			result.Partial = true
			result.FailedSources = append(result.FailedSources, src.Name)
			failed++
			continue
		}
		for id, client := range clients {
			if _, exists := result.Clients[id]; !exists {
				result.Clients[id] = client
			}
		}
	}

	if failed == len(r.sources) && len(r.sources) > 0 {
		return nil, ierr.NewError("all managed client sources unreachable").
			WithHint("Managed client lookup is unavailable").
			Mark(ierr.ErrDatabase)
	}

	return result, nil
}

func (r *MergedRepository) ListByFacility(ctx context.Context, facilityID string) ([]*ManagedClient, error) {
	seen := make(map[string]struct{})
	var merged []*ManagedClient
	failed := 0

	for _, src := range r.sources {
		clients, err := src.Repo.ListByFacility(ctx, facilityID)
		if err != nil {
			r.logger.Warnw("managed client source unreachable while listing",
				"source", src.Name,
				"facility_id", facilityID,
				"error", err,
			)
			failed++
			continue
		}
		for _, client := range clients {
			if _, exists := seen[client.ID]; exists {
				continue
			}
			seen[client.ID] = struct{}{}
			merged = append(merged, client)
		}
	}

	if failed == len(r.sources) && len(r.sources) > 0 {
		return nil, ierr.NewError("all managed client sources unreachable").
			WithHint("Managed client lookup is unavailable").
			Mark(ierr.ErrDatabase)
	}

	return merged, nil
}
