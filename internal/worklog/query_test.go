package worklog

import (
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wageHistoryFixture() []records.WageHistoryRecord {
	return []records.WageHistoryRecord{
		{ID: "w1", Month: "2025-03", WorkDays: 20, TotalWage: decimal.NewFromInt(4000), CreatedAt: time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC)},
		{ID: "w2", Month: "2025-01", WorkDays: 10, TotalWage: decimal.NewFromInt(2000), CreatedAt: time.Date(2025, time.February, 1, 8, 0, 0, 0, time.UTC)},
		{ID: "w3", Month: "2024-12", WorkDays: 22.5, TotalWage: decimal.NewFromInt(4500), CreatedAt: time.Date(2025, time.January, 2, 8, 0, 0, 0, time.UTC)},
		{ID: "w4", Month: "2024-06", WorkDays: 15, TotalWage: decimal.NewFromInt(3000), CreatedAt: time.Date(2024, time.July, 1, 8, 0, 0, 0, time.UTC)},
	}
}

func TestFilterWageHistory(t *testing.T) {
	history := wageHistoryFixture()
	assert.Len(t, FilterWageHistory(history, 0, ""), 4)

	byYear := FilterWageHistory(history, 2025, "")
	require.Len(t, byYear, 3)
	assert.Equal(t, "w1", byYear[0].ID)

	byMonth := FilterWageHistory(history, 0, "2024-12")
	require.Len(t, byMonth, 1)
	assert.Equal(t, "w3", byMonth[0].ID)

	assert.Empty(t, FilterWageHistory(history, 2024, "2024-12"))
}

func TestFilterAttendance(t *testing.T) {
	attendance := []records.AttendanceRecord{
		{ID: "a", Date: "2025-01-03", Status: records.StatusPresent},
		{ID: "b", Date: "2025-02-03", Status: records.StatusHalf},
		{ID: "c", Date: "2024-02-03", Status: records.StatusAbsent},
	}
	assert.Len(t, FilterAttendance(attendance, 2025, ""), 2)
	assert.Len(t, FilterAttendance(attendance, 0, "2025-02"), 1)
	assert.Len(t, FilterAttendance(attendance, 0, ""), 3)

	counts := CountStatuses(FilterAttendance(attendance, 0, "2025"))
	assert.Equal(t, 1, counts.Present)
	assert.Equal(t, 1, counts.Half)
	assert.Equal(t, 2, counts.Total)
}

func TestOptionLists(t *testing.T) {
	history := wageHistoryFixture()
	assert.Equal(t, []int{2025, 2024}, WageYears(history))
	assert.Equal(t, []string{"2024-06", "2024-12", "2025-01", "2025-03"}, WageMonths(history))

	attendance := []records.AttendanceRecord{
		{Date: "2024-12-31"}, {Date: "2025-01-02"}, {Date: "2025-01-01"}, {Date: "x"},
	}
	assert.Equal(t, []int{2025, 2024}, AttendanceYears(attendance))
	assert.Equal(t, []string{"2024-12", "2025-01"}, AttendanceMonths(attendance))

	assert.Empty(t, WageYears(nil))
	assert.Empty(t, AttendanceMonths(nil))
}

func TestCompareMonthsKeepsArchiveOrder(t *testing.T) {
	selected := CompareMonths(wageHistoryFixture(), []string{"2024-06", "2025-03", "1999-01"})
	require.Len(t, selected, 2)
	assert.Equal(t, "w1", selected[0].ID)
	assert.Equal(t, "w4", selected[1].ID)
}

func TestSalaryTrend(t *testing.T) {
	trend := SalaryTrend(wageHistoryFixture(), 2025)
	require.Len(t, trend.Points, 3)
	assert.Equal(t, []string{"2024-12", "2025-01", "2025-03"},
		[]string{trend.Points[0].Month, trend.Points[1].Month, trend.Points[2].Month})
	assert.True(t, trend.Max.Equal(decimal.NewFromInt(4500)))
	assert.InDelta(t, 100.0, trend.Points[0].Percent, 1e-9)
	assert.InDelta(t, 2000.0/4500.0*100, trend.Points[1].Percent, 1e-6)

	empty := SalaryTrend(wageHistoryFixture(), 2030)
	assert.Empty(t, empty.Points)
	assert.True(t, empty.Max.IsZero())
}

func TestSalaryTrendZeroTotals(t *testing.T) {
	history := []records.WageHistoryRecord{{Month: "2025-01", TotalWage: decimal.Zero, CreatedAt: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)}}
	trend := SalaryTrend(history, 2025)
	require.Len(t, trend.Points, 1)
	assert.Zero(t, trend.Points[0].Percent)
}

func TestFormatCurrency(t *testing.T) {
	tests := map[string]string{
		"3800":         "¥3,800.00",
		"1234.5":       "¥1,234.50",
		"0":            "¥0.00",
		"999":          "¥999.00",
		"-1234567.891": "-¥1,234,567.89",
	}
	for raw, want := range tests {
		assert.Equal(t, want, FormatCurrency(decimal.RequireFromString(raw)), raw)
	}
}
