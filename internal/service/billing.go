package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/domain/managedclient"
	"github.com/medroute/medroute/internal/domain/profile"
	"github.com/medroute/medroute/internal/domain/trip"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"
)

// BillingService runs the monthly aggregation pipeline: period resolution,
// trip fetching, client identity resolution, status classification, and
// assembly into per-client bills.
type BillingService interface {
	GetMonthlyBilling(ctx context.Context, req *dto.BillingRequest) (*dto.BillingResponse, error)
	GetClientSummary(ctx context.Context, req *dto.ClientSummaryRequest) (*dto.ClientSummaryResponse, error)

	// ResolveTripIdentity resolves the client identity of a single trip.
	// Used by single trip invoicing to stay consistent with the monthly view.
	ResolveTripIdentity(ctx context.Context, t *trip.Trip) (IdentityDescriptor, error)
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{
		ServiceParams: params,
	}
}

// IdentityDescriptor is the resolved client identity of a trip. Label is never
// empty: unresolved trips get an address derived placeholder so billing data
// never silently vanishes.
type IdentityDescriptor struct {
	Kind  types.IdentityKind `json:"kind"`
	ID    string             `json:"id,omitempty"`
	Label string             `json:"label"`
	Phone string             `json:"phone,omitempty"`
}

// Key is the grouping key for aggregation. Unresolved trips key on the label
// itself so equal fallback labels land in one group.
func (d IdentityDescriptor) Key() string {
	if d.Kind == types.IdentityKindUnresolved {
		return string(d.Kind) + ":" + d.Label
	}
	return string(d.Kind) + ":" + d.ID
}

// BillNumber derives the stable bill number for one facility, period, and
// client key. Same inputs always produce the same number.
func BillNumber(facilityID, periodKey, clientKey string) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%s", facilityID, periodKey, clientKey)
	return fmt.Sprintf("MR-%s-%08X", periodKey, h.Sum32())
}

func (s *billingService) GetMonthlyBilling(ctx context.Context, req *dto.BillingRequest) (*dto.BillingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := types.ValidateFacilityContext(ctx, req.FacilityID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}
	if _, err := s.FacilityRepo.Get(ctx, req.FacilityID); err != nil {
		return nil, err
	}

	period := types.BillingPeriod{Year: req.Year, Month: req.Month}
	run, err := s.runPipeline(ctx, req.FacilityID, period.Start(), period.End(), period.NextMonthStart())
	if err != nil {
		return nil, err
	}

	bills, summary := s.aggregate(req.FacilityID, period.Key(), run, req.ClientID, req.Status)

	return &dto.BillingResponse{
		Period:   period.Key(),
		Bills:    bills,
		Summary:  summary,
		Partial:  run.partial,
		Warnings: run.warnings,
	}, nil
}

func (s *billingService) GetClientSummary(ctx context.Context, req *dto.ClientSummaryRequest) (*dto.ClientSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := types.ValidateFacilityContext(ctx, req.FacilityID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("You do not have access to this facility").
			Mark(ierr.ErrPermissionDenied)
	}
	if _, err := s.FacilityRepo.Get(ctx, req.FacilityID); err != nil {
		return nil, err
	}

	start, end, err := req.Range()
	if err != nil {
		return nil, err
	}

	run, err := s.runPipeline(ctx, req.FacilityID, start, end, end.Add(time.Millisecond))
	if err != nil {
		return nil, err
	}

	// Period key only feeds bill numbers, which the summary view drops
	bills, _ := s.aggregate(req.FacilityID, req.StartDate, run, req.ClientID, "")

	rows := lo.Map(bills, func(b *dto.Bill, _ int) *dto.ClientSummaryRow {
		return &dto.ClientSummaryRow{
			ClientKey:       b.ClientKey,
			ClientName:      b.ClientName,
			ClientKind:      b.ClientKind,
			TotalAmount:     b.Amount,
			DueAmount:       b.DueAmount,
			UpcomingAmount:  b.UpcomingAmount,
			PaidAmount:      b.PaidAmount,
			CancelledAmount: b.CancelledAmount,
			TripCount:       b.TripCount,
			StatusCount:     b.StatusCount,
		}
	})

	return &dto.ClientSummaryResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Clients:   rows,
		Partial:   run.partial,
		Warnings:  run.warnings,
	}, nil
}

func (s *billingService) ResolveTripIdentity(ctx context.Context, t *trip.Trip) (IdentityDescriptor, error) {
	resolved, _, _ := s.resolveIdentities(ctx, []*trip.Trip{t})
	return resolved[t.ID], nil
}

// pipelineRun carries one request's worth of fetched and resolved data.
// There is no cross-request state: every run starts empty.
type pipelineRun struct {
	trips    []*trip.Trip
	resolved map[string]IdentityDescriptor
	paid     map[string]struct{}
	partial  bool
	warnings []string
}

func (s *billingService) runPipeline(ctx context.Context, facilityID string, start, end, fallbackBound time.Time) (*pipelineRun, error) {
	run := &pipelineRun{}

	trips, partial, warnings, err := s.fetchTrips(ctx, facilityID, start, end, fallbackBound)
	if err != nil {
		return nil, err
	}
	run.trips = trips
	run.partial = partial
	run.warnings = warnings

	resolved, resolvePartial, resolveWarnings := s.resolveIdentities(ctx, trips)
	run.resolved = resolved
	run.partial = run.partial || resolvePartial
	run.warnings = append(run.warnings, resolveWarnings...)

	tripIDs := lo.Map(trips, func(t *trip.Trip, _ int) string { return t.ID })
	paid, err := s.PaymentRepo.PaidTripIDs(ctx, tripIDs)
	if err != nil {
		// Missing payment data only downgrades PAID to DUE, which is safe to
		// show. Billing must not go dark because the payment lookup is.
		s.Logger.Warnw("payment lookup failed, treating all trips as unpaid",
			"facility_id", facilityID,
			"error", err,
		)
		run.partial = true
		run.warnings = append(run.warnings, "payment records unavailable, paid status may be understated")
		paid = map[string]struct{}{}
	}
	run.paid = paid

	return run, nil
}

// fetchTrips unions the facility's directly linked trips with trips booked by
// the facility's authenticated users, ordered most recent pickup first. The
// direct link is authoritative: user trips linked to another facility are
// excluded, and duplicates across the two paths collapse to one. A direct
// query failure is fatal; an indirect path failure degrades to direct-only
// results.
func (s *billingService) fetchTrips(ctx context.Context, facilityID string, start, end, fallbackBound time.Time) ([]*trip.Trip, bool, []string, error) {
	var partial bool
	var warnings []string

	filter := &types.TripFilter{
		FacilityID:   facilityID,
		Statuses:     types.BillableTripStatuses(),
		PickupAfter:  &start,
		PickupBefore: &end,
	}

	// Legacy rows carry date-only pickup values that an inclusive end-of-day
	// bound can mishandle. The half-open bound is the documented fallback.
	fallback := *filter
	fallback.PickupBefore = &fallbackBound
	fallback.PickupBeforeExclusive = true

	direct, err := s.TripRepo.List(ctx, filter)
	switch {
	case err != nil:
		s.Logger.Warnw("trip query failed, retrying with half-open period bound",
			"facility_id", facilityID,
			"error", err,
		)
		direct, err = s.TripRepo.List(ctx, &fallback)
		if err != nil {
			return nil, false, nil, ierr.WithError(err).
				WithHint("Unable to load trips for this facility").
				Mark(ierr.ErrDatabase)
		}
	case len(direct) == 0:
		// Date-only pickups truncated at midnight can land just past the
		// inclusive bound and make a whole month look empty. One automatic
		// recheck with the half-open bound before accepting zero rows.
		s.Logger.Infow("trip query returned no rows, rechecking with half-open period bound",
			"facility_id", facilityID,
		)
		if rechecked, rerr := s.TripRepo.List(ctx, &fallback); rerr == nil {
			direct = rechecked
		}
	}

	seen := make(map[string]struct{}, len(direct))
	trips := make([]*trip.Trip, 0, len(direct))
	for _, t := range direct {
		seen[t.ID] = struct{}{}
		trips = append(trips, t)
	}

	profiles, err := s.ProfileRepo.ListByFacility(ctx, facilityID)
	if err != nil {
		s.Logger.Warnw("facility profile listing failed, serving directly linked trips only",
			"facility_id", facilityID,
			"error", err,
		)
		return trips, true, []string{"facility user trips unavailable, results limited to directly linked trips"}, nil
	}

	userIDs := lo.Map(profiles, func(p *profile.Profile, _ int) string { return p.ID })
	if len(userIDs) > 0 {
		indirectFilter := &types.TripFilter{
			Statuses:             types.BillableTripStatuses(),
			PickupAfter:          &start,
			PickupBefore:         &end,
			FacilityIDOrUnlinked: facilityID,
		}
		indirect, err := s.TripRepo.ListByUserIDs(ctx, userIDs, indirectFilter)
		if err != nil {
			s.Logger.Warnw("facility user trip query failed, serving directly linked trips only",
				"facility_id", facilityID,
				"user_count", len(userIDs),
				"error", err,
			)
			partial = true
			warnings = append(warnings, "facility user trips unavailable, results limited to directly linked trips")
		}
		for _, t := range indirect {
			if _, exists := seen[t.ID]; exists {
				continue
			}
			seen[t.ID] = struct{}{}
			trips = append(trips, t)
		}
	}

	sort.Slice(trips, func(i, j int) bool {
		if !trips[i].PickupTime.Equal(trips[j].PickupTime) {
			return trips[i].PickupTime.After(trips[j].PickupTime)
		}
		return trips[i].ID < trips[j].ID
	})

	return trips, partial, warnings, nil
}

// resolveIdentities resolves every trip's client identity in one batch.
// Profile and managed client lookups run in parallel. A failed lookup source
// degrades affected trips to the unresolved fallback instead of failing the
// request.
func (s *billingService) resolveIdentities(ctx context.Context, trips []*trip.Trip) (map[string]IdentityDescriptor, bool, []string) {
	userIDs := lo.Uniq(lo.FilterMap(trips, func(t *trip.Trip, _ int) (string, bool) {
		if t.UserID != nil {
			return *t.UserID, true
		}
		return "", false
	}))
	managedClientIDs := lo.Uniq(lo.FilterMap(trips, func(t *trip.Trip, _ int) (string, bool) {
		if t.ManagedClientID != nil {
			return *t.ManagedClientID, true
		}
		return "", false
	}))

	var (
		profiles    map[string]*profile.Profile
		profilesErr error
		mcLookup    *managedclient.LookupResult
		mcErr       error
	)

	var wg conc.WaitGroup
	if len(userIDs) > 0 {
		wg.Go(func() {
			profiles, profilesErr = s.ProfileRepo.GetByIDs(ctx, userIDs)
		})
	}
	if len(managedClientIDs) > 0 {
		wg.Go(func() {
			mcLookup, mcErr = s.ManagedClientRepo.GetByIDsPartial(ctx, managedClientIDs)
		})
	}
	wg.Wait()

	var partial bool
	var warnings []string

	if profilesErr != nil {
		s.Logger.Warnw("profile lookup failed, affected trips fall back to unresolved labels",
			"user_count", len(userIDs),
			"error", profilesErr,
		)
		partial = true
		warnings = append(warnings, "profile lookup unavailable, some clients shown as unresolved")
		profiles = map[string]*profile.Profile{}
	}
	managedClients := map[string]*managedclient.ManagedClient{}
	if mcErr != nil {
		s.Logger.Warnw("managed client lookup failed, affected trips fall back to unresolved labels",
			"managed_client_count", len(managedClientIDs),
			"error", mcErr,
		)
		partial = true
		warnings = append(warnings, "managed client lookup unavailable, some clients shown as unresolved")
	} else if mcLookup != nil {
		managedClients = mcLookup.Clients
		if mcLookup.Partial {
			partial = true
			warnings = append(warnings, fmt.Sprintf(
				"managed client sources unreachable: %s, resolution is best effort",
				strings.Join(mcLookup.FailedSources, ", ")))
		}
	}

	resolved := make(map[string]IdentityDescriptor, len(trips))
	for _, t := range trips {
		resolved[t.ID] = s.resolveOne(t, profiles, managedClients)
	}
	return resolved, partial, warnings
}

// resolveOne applies the ordered fallback chain: authenticated profile,
// managed client, address derived label. It always returns a non-empty label.
func (s *billingService) resolveOne(t *trip.Trip, profiles map[string]*profile.Profile, managedClients map[string]*managedclient.ManagedClient) IdentityDescriptor {
	if t.UserID != nil {
		if p, ok := profiles[*t.UserID]; ok {
			label := p.FullName()
			if label == "" {
				label = p.Email
			}
			if label == "" {
				label = "Client " + shortIDFragment(p.ID)
			}
			if p.Phone != "" {
				label = fmt.Sprintf("%s - %s", label, p.Phone)
			}
			return IdentityDescriptor{
				Kind:  types.IdentityKindAuthenticated,
				ID:    p.ID,
				Label: label,
				Phone: p.Phone,
			}
		}
	}

	if t.ManagedClientID != nil {
		if mc, ok := managedClients[*t.ManagedClientID]; ok {
			name := mc.FullName()
			if name == "" {
				name = "Client " + shortIDFragment(mc.ID)
			}
			label := name + " (Managed)"
			if mc.Phone != "" {
				label = fmt.Sprintf("%s - %s", label, mc.Phone)
			}
			return IdentityDescriptor{
				Kind:  types.IdentityKindManaged,
				ID:    mc.ID,
				Label: label,
				Phone: mc.Phone,
			}
		}
	}

	return IdentityDescriptor{
		Kind:  types.IdentityKindUnresolved,
		Label: fallbackLabel(t),
	}
}

// fallbackLabel derives a placeholder from the pickup address, never a bare
// "Unknown Client". Equal addresses produce equal labels so those trips still
// group together.
func fallbackLabel(t *trip.Trip) string {
	if addr := shortenAddress(t.PickupAddress); addr != "" {
		return "Client from " + addr
	}
	return "Client " + shortIDFragment(t.ID)
}

// shortenAddress keeps the leading street segment of a full address
func shortenAddress(address string) string {
	segment := address
	if idx := strings.Index(address, ","); idx >= 0 {
		segment = address[:idx]
	}
	segment = strings.TrimSpace(segment)
	if len(segment) > 48 {
		segment = strings.TrimSpace(segment[:48])
	}
	return segment
}

func shortIDFragment(id string) string {
	id = strings.TrimPrefix(id, types.UUID_PREFIX_TRIP+"_")
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

// billGroup accumulates one client's trips during aggregation
type billGroup struct {
	descriptor IdentityDescriptor

	total     decimal.Decimal
	due       decimal.Decimal
	upcoming  decimal.Decimal
	paid      decimal.Decimal
	cancelled decimal.Decimal

	statusCount map[types.BillingStatus]int
	details     []dto.TripDetail
}

// aggregate groups classified trips by resolved identity and assembles the
// sorted bill list plus the facility summary. It is pure over the run data:
// rerunning on the same inputs produces identical output, ordering included.
func (s *billingService) aggregate(facilityID, periodKey string, run *pipelineRun, clientFilter string, statusFilter types.BillingStatus) ([]*dto.Bill, dto.BillingSummary) {
	groups := make(map[string]*billGroup)

	for _, t := range run.trips {
		desc := run.resolved[t.ID]
		if clientFilter != "" && desc.ID != clientFilter {
			continue
		}

		_, hasPayment := run.paid[t.ID]
		billingStatus := types.ClassifyTripStatus(t.TripStatus, hasPayment)
		if statusFilter != "" && billingStatus != statusFilter {
			continue
		}

		amount, priced := t.BilledAmount()
		if !priced {
			amount = decimal.Zero
		}

		key := desc.Key()
		group, ok := groups[key]
		if !ok {
			group = &billGroup{
				descriptor:  desc,
				statusCount: make(map[types.BillingStatus]int),
			}
			groups[key] = group
		}

		group.statusCount[billingStatus]++
		if priced {
			group.total = group.total.Add(amount)
			switch billingStatus {
			case types.BillingStatusDue:
				group.due = group.due.Add(amount)
			case types.BillingStatusUpcoming:
				group.upcoming = group.upcoming.Add(amount)
			case types.BillingStatusPaid:
				group.paid = group.paid.Add(amount)
			case types.BillingStatusCancelled:
				group.cancelled = group.cancelled.Add(amount)
			}
		}

		group.details = append(group.details, dto.TripDetail{
			TripID:        t.ID,
			BookingRef:    t.BookingRef,
			PickupTime:    t.PickupTime,
			PickupAddress: t.PickupAddress,
			Amount:        amount,
			Priced:        priced,
			RawStatus:     t.TripStatus,
			BillingStatus: billingStatus,
		})
	}

	keys := lo.Keys(groups)
	sort.Slice(keys, func(i, j int) bool {
		a, b := groups[keys[i]], groups[keys[j]]
		if !a.total.Equal(b.total) {
			return a.total.GreaterThan(b.total)
		}
		if a.descriptor.Label != b.descriptor.Label {
			return a.descriptor.Label < b.descriptor.Label
		}
		return keys[i] < keys[j]
	})

	summary := dto.BillingSummary{
		StatusCount: make(map[types.BillingStatus]int),
	}

	bills := make([]*dto.Bill, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		sort.Slice(group.details, func(i, j int) bool {
			a, b := group.details[i], group.details[j]
			if !a.PickupTime.Equal(b.PickupTime) {
				return a.PickupTime.Before(b.PickupTime)
			}
			return a.TripID < b.TripID
		})

		tripCount := len(group.details)
		bills = append(bills, &dto.Bill{
			BillNumber:      BillNumber(facilityID, periodKey, key),
			ClientKey:       key,
			ClientName:      group.descriptor.Label,
			ClientKind:      group.descriptor.Kind,
			Phone:           group.descriptor.Phone,
			Amount:          group.total,
			DueAmount:       group.due,
			UpcomingAmount:  group.upcoming,
			PaidAmount:      group.paid,
			CancelledAmount: group.cancelled,
			TripCount:       tripCount,
			StatusCount:     group.statusCount,
			TripDetails:     group.details,
		})

		summary.TotalAmount = summary.TotalAmount.Add(group.total)
		summary.DueAmount = summary.DueAmount.Add(group.due)
		summary.UpcomingAmount = summary.UpcomingAmount.Add(group.upcoming)
		summary.PaidAmount = summary.PaidAmount.Add(group.paid)
		summary.CancelledAmount = summary.CancelledAmount.Add(group.cancelled)
		summary.TripCount += tripCount
		for status, count := range group.statusCount {
			summary.StatusCount[status] += count
		}
	}
	summary.ClientCount = len(bills)

	return bills, summary
}
