package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTripStatus(t *testing.T) {
	testCases := []struct {
		raw  string
		want TripStatus
	}{
		{"completed", TripStatusCompleted},
		{"Completed", TripStatusCompleted},
		{"  COMPLETED  ", TripStatusCompleted},
		{"No-Show", TripStatusNoShow},
		{"no show", TripStatusNoShow},
		{"In Progress", TripStatusInProgress},
		{"in-progress", TripStatusInProgress},
		{"canceled", TripStatusCanceled},
		{"Cancelled", TripStatusCancelled},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, NormalizeTripStatus(tc.raw), "raw=%q", tc.raw)
	}
}

func TestClassifyTripStatus(t *testing.T) {
	testCases := []struct {
		name       string
		raw        string
		hasPayment bool
		want       BillingStatus
	}{
		{"completed unpaid", "completed", false, BillingStatusDue},
		{"completed paid", "completed", true, BillingStatusPaid},
		{"completed mixed case", "Completed", false, BillingStatusDue},
		{"cancelled", "cancelled", false, BillingStatusCancelled},
		{"canceled single l", "canceled", false, BillingStatusCancelled},
		{"rejected", "rejected", false, BillingStatusCancelled},
		{"no show hyphenated", "No-Show", false, BillingStatusCancelled},
		{"cancelled with payment stays cancelled", "cancelled", true, BillingStatusCancelled},
		{"pending", "pending", false, BillingStatusUpcoming},
		{"confirmed", "confirmed", false, BillingStatusUpcoming},
		{"in progress", "in_progress", false, BillingStatusUpcoming},
		{"unknown status defaults to upcoming", "teleported", false, BillingStatusUpcoming},
		{"empty status defaults to upcoming", "", false, BillingStatusUpcoming},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyTripStatus(tc.raw, tc.hasPayment))
		})
	}
}
