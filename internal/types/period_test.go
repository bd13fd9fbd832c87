package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBillingPeriodValidate(t *testing.T) {
	testCases := []struct {
		name    string
		year    int
		month   int
		wantErr bool
	}{
		{"valid january", 2024, 1, false},
		{"valid december", 2024, 12, false},
		{"lower year bound", 2000, 6, false},
		{"upper year bound", 2200, 6, false},
		{"month zero", 2024, 0, true},
		{"month thirteen", 2024, 13, true},
		{"negative month", 2024, -1, true},
		{"year below range", 1999, 6, true},
		{"year above range", 2201, 6, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := BillingPeriod{Year: tc.year, Month: tc.month}.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBillingPeriodDays(t *testing.T) {
	testCases := []struct {
		year  int
		month int
		days  int
	}{
		{2024, 1, 31},
		{2024, 2, 29}, // leap year
		{2023, 2, 28},
		{2000, 2, 29}, // divisible by 400
		{2100, 2, 28}, // divisible by 100 but not 400
		{2024, 4, 30},
		{2024, 12, 31},
	}

	for _, tc := range testCases {
		p := BillingPeriod{Year: tc.year, Month: tc.month}
		assert.Equal(t, tc.days, p.Days(), "days in %s", p.Key())
	}
}

func TestBillingPeriodRange(t *testing.T) {
	p := BillingPeriod{Year: 2024, Month: 2}

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999000000, time.UTC), p.End())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), p.NextMonthStart())
}

func TestBillingPeriodContains(t *testing.T) {
	p := BillingPeriod{Year: 2024, Month: 2}

	assert.True(t, p.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)))
}

func TestBillingPeriodsNeverOverlap(t *testing.T) {
	jan := BillingPeriod{Year: 2024, Month: 1}
	feb := BillingPeriod{Year: 2024, Month: 2}

	assert.Equal(t, jan.NextMonthStart(), feb.Start())
	assert.True(t, jan.End().Before(feb.Start()))
}

func TestBillingPeriodKey(t *testing.T) {
	assert.Equal(t, "2024-02", BillingPeriod{Year: 2024, Month: 2}.Key())
	assert.Equal(t, "2024-12", BillingPeriod{Year: 2024, Month: 12}.Key())
	assert.Equal(t, "2000-01", BillingPeriod{Year: 2000, Month: 1}.Key())
}
