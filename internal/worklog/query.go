package worklog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/shopspring/decimal"
)

// MinCompareMonths is the fewest months a comparison accepts.
const MinCompareMonths = 2

// TrendPoint is one archived month on a salary trend chart.
type TrendPoint struct {
	Month     string          `json:"month"`
	WorkDays  float64         `json:"workDays"`
	TotalWage decimal.Decimal `json:"totalWage"`
	Percent   float64         `json:"percent"`
}

// Trend is a year's archived wages ordered by month.
type Trend struct {
	Year   int             `json:"year"`
	Max    decimal.Decimal `json:"max"`
	Points []TrendPoint    `json:"points"`
}

// FilterWageHistory keeps records archived in year (by creation time) and labelled month.
// Zero year and empty month match everything.
func FilterWageHistory(history []records.WageHistoryRecord, year int, month string) []records.WageHistoryRecord {
	month = strings.TrimSpace(month)
	var filtered []records.WageHistoryRecord
	for _, record := range history {
		if year != 0 && record.CreatedAt.Year() != year {
			continue
		}
		if month != "" && record.Month != month {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

// FilterAttendance keeps records dated in year whose date starts with monthPrefix.
// Zero year and empty prefix match everything.
func FilterAttendance(attendance []records.AttendanceRecord, year int, monthPrefix string) []records.AttendanceRecord {
	monthPrefix = strings.TrimSpace(monthPrefix)
	var filtered []records.AttendanceRecord
	for _, record := range attendance {
		if year != 0 && dateYear(record.Date) != year {
			continue
		}
		if monthPrefix != "" && !strings.HasPrefix(record.Date, monthPrefix) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

// WageYears lists distinct archive years, newest first.
func WageYears(history []records.WageHistoryRecord) []int {
	seen := make(map[int]struct{})
	for _, record := range history {
		seen[record.CreatedAt.Year()] = struct{}{}
	}
	return descendingYears(seen)
}

// WageMonths lists distinct archived month labels in ascending order.
func WageMonths(history []records.WageHistoryRecord) []string {
	seen := make(map[string]struct{})
	for _, record := range history {
		if record.Month != "" {
			seen[record.Month] = struct{}{}
		}
	}
	return ascendingLabels(seen)
}

// AttendanceYears lists distinct attendance years, newest first.
func AttendanceYears(attendance []records.AttendanceRecord) []int {
	seen := make(map[int]struct{})
	for _, record := range attendance {
		if year := dateYear(record.Date); year != 0 {
			seen[year] = struct{}{}
		}
	}
	return descendingYears(seen)
}

// AttendanceMonths lists distinct YYYY-MM prefixes of attendance dates in ascending order.
func AttendanceMonths(attendance []records.AttendanceRecord) []string {
	seen := make(map[string]struct{})
	for _, record := range attendance {
		if len(record.Date) >= len(records.MonthLayout) {
			seen[record.Date[:len(records.MonthLayout)]] = struct{}{}
		}
	}
	return ascendingLabels(seen)
}

// CompareMonths returns the archived records whose month is listed, in archive order. Callers
// enforce MinCompareMonths.
func CompareMonths(history []records.WageHistoryRecord, months []string) []records.WageHistoryRecord {
	wanted := make(map[string]struct{}, len(months))
	for _, month := range months {
		wanted[strings.TrimSpace(month)] = struct{}{}
	}
	var selected []records.WageHistoryRecord
	for _, record := range history {
		if _, ok := wanted[record.Month]; ok {
			selected = append(selected, record)
		}
	}
	return selected
}

// SalaryTrend orders a year's archived wages by month label. Percent is each total relative to
// the year's largest total, capped at 100.
func SalaryTrend(history []records.WageHistoryRecord, year int) Trend {
	selected := FilterWageHistory(history, year, "")
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Month < selected[j].Month
	})

	trend := Trend{Year: year, Max: decimal.Zero, Points: make([]TrendPoint, 0, len(selected))}
	for _, record := range selected {
		if record.TotalWage.GreaterThan(trend.Max) {
			trend.Max = record.TotalWage
		}
	}
	for _, record := range selected {
		percent := 0.0
		if trend.Max.IsPositive() {
			percent = record.TotalWage.Div(trend.Max).Mul(decimal.NewFromInt(100)).InexactFloat64()
			if percent > 100 {
				percent = 100
			}
			if percent < 0 {
				percent = 0
			}
		}
		trend.Points = append(trend.Points, TrendPoint{
			Month:     record.Month,
			WorkDays:  record.WorkDays,
			TotalWage: record.TotalWage,
			Percent:   percent,
		})
	}
	return trend
}

func dateYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func descendingYears(seen map[int]struct{}) []int {
	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func ascendingLabels(seen map[string]struct{}) []string {
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
