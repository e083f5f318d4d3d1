package worklog

import (
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attendanceRun(month string, status records.AttendanceStatus, fromDay, count int) []records.AttendanceRecord {
	year, m, _ := records.ParseMonthLabel(month)
	result := make([]records.AttendanceRecord, 0, count)
	for day := fromDay; day < fromDay+count; day++ {
		date := time.Date(year, m, day, 0, 0, 0, 0, time.UTC)
		result = append(result, records.AttendanceRecord{
			ID:     records.FormatDate(date),
			Date:   records.FormatDate(date),
			Status: status,
		})
	}
	return result
}

func TestAggregateAttendanceCountsHalfDays(t *testing.T) {
	attendance := attendanceRun("2026-02", records.StatusPresent, 1, 18)
	attendance = append(attendance, attendanceRun("2026-02", records.StatusHalf, 19, 2)...)
	attendance = append(attendance, attendanceRun("2026-02", records.StatusAbsent, 21, 1)...)
	attendance = append(attendance, attendanceRun("2026-02", records.StatusOvertime, 22, 1)...)
	attendance = append(attendance, attendanceRun("2026-02", records.StatusHoliday, 23, 1)...)

	summary := AggregateAttendance(attendance, 28)
	assert.Equal(t, 19.0, summary.WorkDays)
	assert.Equal(t, 18, summary.Present)
	assert.Equal(t, 2, summary.Half)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 1, summary.Overtime)
	assert.Equal(t, 1, summary.Holiday)
	assert.Equal(t, 23, summary.Total)
	assert.Equal(t, 5, summary.Unmarked)
}

func TestAggregateAttendanceWorkDaysLaw(t *testing.T) {
	for present := 0; present <= 5; present++ {
		for half := 0; half <= 5; half++ {
			attendance := attendanceRun("2026-03", records.StatusPresent, 1, present)
			attendance = append(attendance, attendanceRun("2026-03", records.StatusHalf, 10, half)...)
			summary := AggregateAttendance(attendance, 31)
			assert.Equal(t, float64(present)+0.5*float64(half), summary.WorkDays)
		}
	}
}

func TestAggregateAttendanceEmpty(t *testing.T) {
	summary := AggregateAttendance(nil, 30)
	assert.Zero(t, summary.WorkDays)
	assert.Zero(t, summary.Total)
	assert.Equal(t, 30, summary.Unmarked)
}

func TestAggregateMonthIgnoresOtherMonths(t *testing.T) {
	attendance := attendanceRun("2026-01", records.StatusPresent, 1, 10)
	attendance = append(attendance, attendanceRun("2026-02", records.StatusPresent, 1, 3)...)
	attendance = append(attendance, attendanceRun("2025-02", records.StatusPresent, 1, 4)...)

	summary := AggregateMonth(attendance, 2026, time.February)
	assert.Equal(t, 3.0, summary.WorkDays)
	assert.Equal(t, 28, summary.DaysInMonth)
	assert.Len(t, AttendanceForMonth(attendance, 2026, time.January), 10)
}

func TestComputeWage(t *testing.T) {
	t.Run("monthly salary is flat", func(t *testing.T) {
		info := &records.PersonalInfo{DailyWage: decimal.NewFromInt(300), MonthlyWage: decimal.NewFromInt(5000)}
		wage := ComputeWage(info, 3)
		assert.True(t, wage.Monthly)
		assert.True(t, wage.TotalWage.Equal(decimal.NewFromInt(5000)))
		assert.True(t, wage.ActualWage.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("daily wage multiplies work days", func(t *testing.T) {
		attendance := attendanceRun("2026-02", records.StatusPresent, 1, 18)
		attendance = append(attendance, attendanceRun("2026-02", records.StatusHalf, 19, 2)...)
		summary := AggregateAttendance(attendance, 28)

		info := &records.PersonalInfo{DailyWage: decimal.NewFromInt(200)}
		wage := ComputeWage(info, summary.WorkDays)
		assert.Equal(t, 19.0, wage.WorkDays)
		assert.False(t, wage.Monthly)
		assert.True(t, wage.TotalWage.Equal(decimal.NewFromInt(3800)), wage.TotalWage.String())
		assert.True(t, wage.ActualWage.Equal(wage.TotalWage))
	})

	t.Run("overtime rate is not applied", func(t *testing.T) {
		info := &records.PersonalInfo{DailyWage: decimal.NewFromInt(100), OvertimeRate: decimal.NewFromInt(3)}
		wage := ComputeWage(info, 1)
		assert.True(t, wage.TotalWage.Equal(decimal.NewFromInt(100)))
	})

	t.Run("missing profile yields zero", func(t *testing.T) {
		wage := ComputeWage(nil, 12)
		assert.True(t, wage.TotalWage.IsZero())
		assert.True(t, wage.ActualWage.IsZero())
		assert.True(t, wage.DailyWage.IsZero())
	})
}

func TestNextHolidayCountdown(t *testing.T) {
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	t.Run("reports ceiling days", func(t *testing.T) {
		countdown := NextHolidayCountdown(now, []records.Holiday{{ID: "h1", Name: "元宵节", Date: "2026-02-03"}})
		require.True(t, countdown.Upcoming)
		assert.Equal(t, UnitDays, countdown.Unit)
		assert.Equal(t, 2, countdown.Value)
		assert.Equal(t, "元宵节", countdown.Holiday.Name)
		assert.Equal(t, "还有 2 天", countdown.Label())
	})

	t.Run("earliest upcoming wins regardless of order", func(t *testing.T) {
		holidays := []records.Holiday{
			{ID: "late", Name: "清明节", Date: "2026-04-05"},
			{ID: "past", Name: "元旦", Date: "2026-01-01"},
			{ID: "soon", Name: "春节", Date: "2026-02-17"},
		}
		countdown := NextHolidayCountdown(now, holidays)
		require.True(t, countdown.Upcoming)
		assert.Equal(t, "soon", countdown.Holiday.ID)
		assert.Equal(t, 16, countdown.Value)
	})

	t.Run("partial day rounds up", func(t *testing.T) {
		evening := time.Date(2026, time.February, 2, 20, 30, 0, 0, time.UTC)
		countdown := NextHolidayCountdown(evening, []records.Holiday{{ID: "h1", Date: "2026-02-03"}})
		assert.Equal(t, UnitDays, countdown.Unit)
		assert.Equal(t, 1, countdown.Value)
	})

	t.Run("holiday on today is not upcoming", func(t *testing.T) {
		countdown := NextHolidayCountdown(now, []records.Holiday{{ID: "h1", Date: "2026-02-01"}, {ID: "bad", Date: "soon"}})
		assert.False(t, countdown.Upcoming)
		assert.Equal(t, NoUpcoming, countdown)
	})

	t.Run("dates follow the location of now", func(t *testing.T) {
		shanghai := time.FixedZone("CST", 8*3600)
		local := time.Date(2026, time.February, 3, 1, 0, 0, 0, shanghai)
		countdown := NextHolidayCountdown(local, []records.Holiday{{ID: "h1", Date: "2026-02-03"}})
		assert.False(t, countdown.Upcoming)

		utc := NextHolidayCountdown(local.UTC(), []records.Holiday{{ID: "h1", Date: "2026-02-03"}})
		assert.True(t, utc.Upcoming)
	})
}

func TestBuildMonthGridLengthLaw(t *testing.T) {
	for year := 1583; year <= 2400; year += 37 {
		for month := time.January; month <= time.December; month++ {
			grid := BuildMonthGrid(year, month, GridInput{})
			first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			require.Equal(t, int(first.Weekday()), grid.LeadingBlanks, "%d-%02d", year, month)
			require.Len(t, grid.Cells, grid.LeadingBlanks+DaysInMonth(year, month), "%d-%02d", year, month)
		}
	}
}

func TestBuildMonthGridKnownMonths(t *testing.T) {
	tests := []struct {
		year   int
		month  time.Month
		blanks int
		days   int
	}{
		{year: 2026, month: time.February, blanks: 0, days: 28},
		{year: 2024, month: time.February, blanks: 4, days: 29},
		{year: 2025, month: time.January, blanks: 3, days: 31},
		{year: 1900, month: time.February, blanks: 4, days: 28},
		{year: 2000, month: time.February, blanks: 2, days: 29},
	}
	for _, test := range tests {
		grid := BuildMonthGrid(test.year, test.month, GridInput{})
		assert.Equal(t, test.blanks, grid.LeadingBlanks, "%d-%02d", test.year, test.month)
		assert.Equal(t, test.days, grid.DaysInMonth, "%d-%02d", test.year, test.month)
	}
}

func TestBuildMonthGridAnnotations(t *testing.T) {
	input := GridInput{
		Attendance: []records.AttendanceRecord{
			{ID: "a", Date: "2025-01-02", Status: records.StatusHalf},
			{ID: "b", Date: "2025-01-02", Status: records.StatusAbsent},
			{ID: "c", Date: "2025-02-02", Status: records.StatusPresent},
		},
		Holidays: []records.Holiday{{ID: "h", Name: "元旦", Date: "2025-01-01"}},
		Selected: "2025-01-15",
		Today:    "2025-01-20",
	}
	grid := BuildMonthGrid(2025, time.January, input)
	assert.Equal(t, "2025年1月", grid.Title)

	for i := 0; i < grid.LeadingBlanks; i++ {
		assert.True(t, grid.Cells[i].Blank)
	}
	day := func(n int) Cell { return grid.Cells[grid.LeadingBlanks+n-1] }

	assert.True(t, day(1).Holiday)
	assert.Equal(t, "元旦", day(1).HolidayName)
	assert.Equal(t, time.Wednesday, day(1).Weekday)
	assert.Equal(t, records.StatusHalf, day(2).Status)
	assert.Equal(t, "半天", day(2).StatusLabel)
	assert.True(t, day(15).Selected)
	assert.True(t, day(20).Today)
	assert.False(t, day(16).Selected)

	for _, cell := range grid.Cells {
		assert.NotEqual(t, "2025-02-02", cell.Date)
	}
}

func TestBuildMonthGridDoesNotMutateInput(t *testing.T) {
	attendance := []records.AttendanceRecord{{ID: "a", Date: "2026-02-03", Status: records.StatusPresent}}
	snapshot := append([]records.AttendanceRecord(nil), attendance...)
	BuildMonthGrid(2026, time.February, GridInput{Attendance: attendance})
	assert.Equal(t, snapshot, attendance)
}
