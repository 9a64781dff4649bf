package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/report"
)

// Wednesday, 2025-06-18 15:30 UTC
var now = time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve_Presets(t *testing.T) {
	cases := []struct {
		period   report.Period
		from, to time.Time
	}{
		{report.PeriodToday, day(2025, 6, 18), day(2025, 6, 19)},
		{report.PeriodYesterday, day(2025, 6, 17), day(2025, 6, 18)},
		{report.PeriodThisWeek, day(2025, 6, 16), day(2025, 6, 23)},
		{report.PeriodLastWeek, day(2025, 6, 9), day(2025, 6, 16)},
		{report.PeriodThisMonth, day(2025, 6, 1), day(2025, 7, 1)},
		{report.PeriodLastMonth, day(2025, 5, 1), day(2025, 6, 1)},
		{report.PeriodThisYear, day(2025, 1, 1), day(2026, 1, 1)},
	}

	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			rng, err := report.Resolve(tc.period, now)
			require.NoError(t, err)
			assert.Equal(t, tc.from, rng.From)
			assert.Equal(t, tc.to, rng.To)
		})
	}
}

func TestResolve_WeekStartsMonday(t *testing.T) {
	// A Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2025, 6, 22, 10, 0, 0, 0, time.UTC)
	rng, err := report.Resolve(report.PeriodThisWeek, sunday)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 16), rng.From)
}

func TestResolve_UnknownPeriod(t *testing.T) {
	_, err := report.Resolve(report.Period("fortnight"), now)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 25.0, report.Percent(1, 4), 0.001)
	assert.Zero(t, report.Percent(3, 0))
	assert.Zero(t, report.Percent(0, 10))
}

func TestSummary_OverdueRate(t *testing.T) {
	s := report.Summary{ActiveBorrows: 8, OverdueBorrows: 2}
	assert.InDelta(t, 25.0, s.OverdueRate(), 0.001)

	empty := report.Summary{}
	assert.Zero(t, empty.OverdueRate())
}

func TestInventoryBreakdown_ResultRate(t *testing.T) {
	b := report.InventoryBreakdown{
		TotalRecords: 10,
		ByResult:     map[string]int{"normal": 7, "damaged": 3},
	}
	assert.InDelta(t, 70.0, b.ResultRate("normal"), 0.001)
	assert.Zero(t, b.ResultRate("surplus"))
}
