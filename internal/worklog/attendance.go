package worklog

import (
	"strings"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
)

// StatusCounts tallies attendance records by status. Total includes records with unknown statuses.
type StatusCounts struct {
	Present  int `json:"present"`
	Half     int `json:"half"`
	Absent   int `json:"absent"`
	Holiday  int `json:"holiday"`
	Overtime int `json:"overtime"`
	Total    int `json:"total"`
}

// WorkDays is present + 0.5 * half. Holiday and overtime days are recorded but not counted.
// TODO: fold overtime into work days once the overtime-rate formula is decided.
func (c StatusCounts) WorkDays() float64 {
	return float64(c.Present) + 0.5*float64(c.Half)
}

// Summary is the aggregate for one month of attendance.
type Summary struct {
	StatusCounts
	WorkDays    float64 `json:"workDays"`
	DaysInMonth int     `json:"daysInMonth"`
	Unmarked    int     `json:"unmarked"`
}

// CountStatuses tallies statuses over records.
func CountStatuses(attendance []records.AttendanceRecord) StatusCounts {
	var counts StatusCounts
	for _, record := range attendance {
		counts.Total++
		switch record.Status {
		case records.StatusPresent:
			counts.Present++
		case records.StatusHalf:
			counts.Half++
		case records.StatusAbsent:
			counts.Absent++
		case records.StatusHoliday:
			counts.Holiday++
		case records.StatusOvertime:
			counts.Overtime++
		}
	}
	return counts
}

// AggregateAttendance computes work days over records already selected for a month. dayCount is
// the number of days in that month and only feeds the unmarked figure.
func AggregateAttendance(attendance []records.AttendanceRecord, dayCount int) Summary {
	counts := CountStatuses(attendance)
	unmarked := dayCount - counts.Total
	if unmarked < 0 {
		unmarked = 0
	}
	return Summary{
		StatusCounts: counts,
		WorkDays:     counts.WorkDays(),
		DaysInMonth:  dayCount,
		Unmarked:     unmarked,
	}
}

// AttendanceForMonth selects the records dated within year/month.
func AttendanceForMonth(attendance []records.AttendanceRecord, year int, month time.Month) []records.AttendanceRecord {
	prefix := records.MonthLabel(year, month) + "-"
	var selected []records.AttendanceRecord
	for _, record := range attendance {
		if strings.HasPrefix(record.Date, prefix) {
			selected = append(selected, record)
		}
	}
	return selected
}

// AggregateMonth filters attendance to year/month and aggregates it.
func AggregateMonth(attendance []records.AttendanceRecord, year int, month time.Month) Summary {
	return AggregateAttendance(AttendanceForMonth(attendance, year, month), DaysInMonth(year, month))
}
