package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/MarcoPoloResearchLab/jigong/internal/worklog"
	"go.uber.org/zap"
)

// ArchiveMonth snapshots the computed wage of year/month into wage history. Each month can be
// archived once; later attendance edits do not change the snapshot.
func (s *Service) ArchiveMonth(ctx context.Context, year int, month time.Month) (records.WageHistoryRecord, error) {
	if year < 1 || month < time.January || month > time.December {
		return records.WageHistoryRecord{}, invalidInput(opArchiveMonth,
			fmt.Errorf("%w: %d-%d", records.ErrInvalidMonth, year, month))
	}
	label := records.MonthLabel(year, month)

	history, err := s.wageHistory.GetAll(ctx)
	if err != nil {
		return records.WageHistoryRecord{}, storeFailure(opArchiveMonth, err)
	}
	for _, record := range history {
		if record.Month == label {
			return records.WageHistoryRecord{}, newServiceError(opArchiveMonth, reasonArchived,
				fmt.Errorf("%w: %s", ErrAlreadyArchived, label))
		}
	}

	info, err := s.loadPersonalInfo(ctx, opArchiveMonth)
	if err != nil {
		return records.WageHistoryRecord{}, err
	}
	attendance, err := s.attendance.GetAll(ctx)
	if err != nil {
		return records.WageHistoryRecord{}, storeFailure(opArchiveMonth, err)
	}
	summary := worklog.AggregateMonth(attendance, year, month)
	wage := worklog.ComputeWage(info, summary.WorkDays)

	id, err := s.newID(opArchiveMonth)
	if err != nil {
		return records.WageHistoryRecord{}, err
	}
	record := records.WageHistoryRecord{
		ID:        id,
		Month:     label,
		WorkDays:  summary.WorkDays,
		TotalWage: wage.TotalWage,
		CreatedAt: s.clock().UTC(),
	}
	if _, err := s.wageHistory.Put(ctx, record); err != nil {
		return records.WageHistoryRecord{}, storeFailure(opArchiveMonth, err)
	}
	s.loggerOrDefault().Info("wage month archived",
		zap.String("month", label),
		zap.Float64("work_days", record.WorkDays),
		zap.String("total_wage", record.TotalWage.StringFixed(2)))
	s.publishChange(records.CollectionWageHistory, record.ID)
	return record, nil
}

// WageHistory returns every archived month in archive order.
func (s *Service) WageHistory(ctx context.Context) ([]records.WageHistoryRecord, error) {
	history, err := s.wageHistory.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(opWageHistory, err)
	}
	return history, nil
}
