package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/MarcoPoloResearchLab/jigong/internal/worklog"
)

// HomeOverview is everything the home page shows for one month.
type HomeOverview struct {
	Today        string                `json:"today"`
	PersonalInfo *records.PersonalInfo `json:"personalInfo"`
	Projects     []records.Project     `json:"projects"`
	Grid         worklog.MonthGrid     `json:"grid"`
	Summary      worklog.Summary       `json:"summary"`
	Wage         worklog.Wage          `json:"wage"`
	Countdown    worklog.Countdown     `json:"countdown"`
}

// HomeOverview assembles the home page for year/month. Zero year and month together select the
// current month; only one of them set is invalid. selected, when set, must be a YYYY-MM-DD date
// and is highlighted on the grid.
func (s *Service) HomeOverview(ctx context.Context, year int, month time.Month, selected string) (HomeOverview, error) {
	now := s.now()
	switch {
	case year == 0 && month == 0:
		year, month = now.Year(), now.Month()
	case year == 0 || month == 0:
		return HomeOverview{}, invalidInput(opHomeOverview,
			fmt.Errorf("%w: year %d month %d must be given together", records.ErrInvalidMonth, year, month))
	}
	if month < time.January || month > time.December {
		return HomeOverview{}, invalidInput(opHomeOverview, fmt.Errorf("%w: month %d", records.ErrInvalidMonth, month))
	}
	if strings.TrimSpace(selected) != "" {
		normalized, err := records.NormalizeDate(selected)
		if err != nil {
			return HomeOverview{}, invalidInput(opHomeOverview, err)
		}
		selected = normalized
	}

	info, err := s.loadPersonalInfo(ctx, opHomeOverview)
	if err != nil {
		return HomeOverview{}, err
	}
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return HomeOverview{}, err
	}
	attendance, err := s.attendance.GetAll(ctx)
	if err != nil {
		return HomeOverview{}, storeFailure(opHomeOverview, err)
	}
	holidays, err := s.holidays.GetAll(ctx)
	if err != nil {
		return HomeOverview{}, storeFailure(opHomeOverview, err)
	}

	today := records.FormatDate(now)
	summary := worklog.AggregateMonth(attendance, year, month)
	overview := HomeOverview{
		Today:        today,
		PersonalInfo: info,
		Projects:     projects,
		Grid: worklog.BuildMonthGrid(year, month, worklog.GridInput{
			Attendance: attendance,
			Holidays:   holidays,
			Selected:   selected,
			Today:      today,
		}),
		Summary:   summary,
		Wage:      worklog.ComputeWage(info, summary.WorkDays),
		Countdown: worklog.NextHolidayCountdown(now, holidays),
	}
	return overview, nil
}
