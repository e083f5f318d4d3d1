package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/MarcoPoloResearchLab/jigong/internal/worklog"
)

// QueryOptions feeds the query page selectors.
type QueryOptions struct {
	WageYears        []int    `json:"wageYears"`
	WageMonths       []string `json:"wageMonths"`
	AttendanceYears  []int    `json:"attendanceYears"`
	AttendanceMonths []string `json:"attendanceMonths"`
}

// AttendanceStats is the attendance tally for a query window.
type AttendanceStats struct {
	worklog.StatusCounts
	WorkDays float64 `json:"workDays"`
}

func (s *Service) QueryOptions(ctx context.Context) (QueryOptions, error) {
	history, err := s.wageHistory.GetAll(ctx)
	if err != nil {
		return QueryOptions{}, storeFailure(opQueryOptions, err)
	}
	attendance, err := s.attendance.GetAll(ctx)
	if err != nil {
		return QueryOptions{}, storeFailure(opQueryOptions, err)
	}
	return QueryOptions{
		WageYears:        worklog.WageYears(history),
		WageMonths:       worklog.WageMonths(history),
		AttendanceYears:  worklog.AttendanceYears(attendance),
		AttendanceMonths: worklog.AttendanceMonths(attendance),
	}, nil
}

// QueryWages filters wage history by archive year and month label. Zero year or empty month
// matches all.
func (s *Service) QueryWages(ctx context.Context, year int, month string) ([]records.WageHistoryRecord, error) {
	if month = strings.TrimSpace(month); month != "" {
		if _, _, err := records.ParseMonthLabel(month); err != nil {
			return nil, invalidInput(opQueryWages, err)
		}
	}
	history, err := s.wageHistory.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(opQueryWages, err)
	}
	return worklog.FilterWageHistory(history, year, month), nil
}

// CompareMonths returns the archived records of the listed months. At least two distinct months
// are required.
func (s *Service) CompareMonths(ctx context.Context, months []string) ([]records.WageHistoryRecord, error) {
	distinct := make(map[string]struct{}, len(months))
	for _, month := range months {
		month = strings.TrimSpace(month)
		if _, _, err := records.ParseMonthLabel(month); err != nil {
			return nil, invalidInput(opCompareMonths, err)
		}
		distinct[month] = struct{}{}
	}
	if len(distinct) < worklog.MinCompareMonths {
		return nil, invalidInput(opCompareMonths,
			fmt.Errorf("at least %d months are required, got %d", worklog.MinCompareMonths, len(distinct)))
	}
	history, err := s.wageHistory.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(opCompareMonths, err)
	}
	return worklog.CompareMonths(history, months), nil
}

func (s *Service) SalaryTrend(ctx context.Context, year int) (worklog.Trend, error) {
	if year < 1 {
		return worklog.Trend{}, invalidInput(opSalaryTrend, fmt.Errorf("year %d", year))
	}
	history, err := s.wageHistory.GetAll(ctx)
	if err != nil {
		return worklog.Trend{}, storeFailure(opSalaryTrend, err)
	}
	return worklog.SalaryTrend(history, year), nil
}

// AttendanceStats tallies attendance dated in year and starting with monthPrefix. Zero year or
// empty prefix matches all.
func (s *Service) AttendanceStats(ctx context.Context, year int, monthPrefix string) (AttendanceStats, error) {
	attendance, err := s.attendance.GetAll(ctx)
	if err != nil {
		return AttendanceStats{}, storeFailure(opAttendanceStats, err)
	}
	counts := worklog.CountStatuses(worklog.FilterAttendance(attendance, year, monthPrefix))
	return AttendanceStats{StatusCounts: counts, WorkDays: counts.WorkDays()}, nil
}
