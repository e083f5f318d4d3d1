package worklog

import (
	"fmt"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
)

// GridInput annotates a month grid. Selected and Today are YYYY-MM-DD dates; empty means none.
type GridInput struct {
	Attendance []records.AttendanceRecord
	Holidays   []records.Holiday
	Selected   string
	Today      string
}

// Cell is one slot of a month grid. Leading blank cells carry only Blank.
type Cell struct {
	Blank       bool                     `json:"blank,omitempty"`
	Day         int                      `json:"day,omitempty"`
	Date        string                   `json:"date,omitempty"`
	Weekday     time.Weekday             `json:"weekday"`
	Status      records.AttendanceStatus `json:"status,omitempty"`
	StatusLabel string                   `json:"statusLabel,omitempty"`
	Holiday     bool                     `json:"holiday,omitempty"`
	HolidayName string                   `json:"holidayName,omitempty"`
	Selected    bool                     `json:"selected,omitempty"`
	Today       bool                     `json:"today,omitempty"`
}

// MonthGrid is a Sunday-first calendar page.
type MonthGrid struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	Title         string     `json:"title"`
	LeadingBlanks int        `json:"leadingBlanks"`
	DaysInMonth   int        `json:"daysInMonth"`
	Cells         []Cell     `json:"cells"`
}

// DaysInMonth returns the length of month in the proleptic Gregorian calendar.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthGrid lays out year/month as leading blanks (one per weekday before day 1, Sunday = 0)
// followed by one cell per day. When several attendance records share a date the first wins.
func BuildMonthGrid(year int, month time.Month, input GridInput) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), first.Month()
	blanks := int(first.Weekday())
	days := DaysInMonth(year, month)

	statuses := make(map[string]records.AttendanceStatus, len(input.Attendance))
	for _, record := range input.Attendance {
		if _, seen := statuses[record.Date]; !seen {
			statuses[record.Date] = record.Status
		}
	}
	holidays := make(map[string]string, len(input.Holidays))
	for _, holiday := range input.Holidays {
		if _, seen := holidays[holiday.Date]; !seen {
			holidays[holiday.Date] = holiday.Name
		}
	}

	cells := make([]Cell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{Blank: true, Weekday: time.Weekday(i)})
	}
	for day := 1; day <= days; day++ {
		date := records.FormatDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
		cell := Cell{
			Day:      day,
			Date:     date,
			Weekday:  time.Weekday((blanks + day - 1) % 7),
			Selected: input.Selected != "" && input.Selected == date,
			Today:    input.Today != "" && input.Today == date,
		}
		if status, ok := statuses[date]; ok {
			cell.Status = status
			cell.StatusLabel = status.Label()
		}
		if name, ok := holidays[date]; ok {
			cell.Holiday = true
			cell.HolidayName = name
		}
		cells = append(cells, cell)
	}

	return MonthGrid{
		Year:          year,
		Month:         month,
		Title:         fmt.Sprintf("%d年%d月", year, int(month)),
		LeadingBlanks: blanks,
		DaysInMonth:   days,
		Cells:         cells,
	}
}
