package tracker

import (
	"context"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/shopspring/decimal"
)

// PersonalInfoInput is the editable part of the worker profile. A nil or zero OvertimeRate takes
// the default.
type PersonalInfoInput struct {
	Name         string           `json:"name"`
	Job          string           `json:"job"`
	DailyWage    decimal.Decimal  `json:"dailyWage"`
	MonthlyWage  decimal.Decimal  `json:"monthlyWage"`
	OvertimeRate *decimal.Decimal `json:"overtimeRate,omitempty"`
}

// PersonalInfo returns the saved profile, or nil when none has been saved.
func (s *Service) PersonalInfo(ctx context.Context) (*records.PersonalInfo, error) {
	return s.loadPersonalInfo(ctx, opPersonalInfo)
}

func (s *Service) SavePersonalInfo(ctx context.Context, input PersonalInfoInput) (records.PersonalInfo, error) {
	info := records.PersonalInfo{
		ID:           records.PersonalInfoID,
		Name:         records.NormalizeText(input.Name),
		Job:          records.NormalizeText(input.Job),
		DailyWage:    input.DailyWage,
		MonthlyWage:  input.MonthlyWage,
		OvertimeRate: records.DefaultOvertimeRate,
	}
	if input.OvertimeRate != nil && !input.OvertimeRate.IsZero() {
		info.OvertimeRate = *input.OvertimeRate
	}

	switch {
	case info.Name == "":
		return records.PersonalInfo{}, invalidInput(opSavePersonalInfo, records.ErrMissingName)
	case info.Job == "":
		return records.PersonalInfo{}, invalidInput(opSavePersonalInfo, records.ErrMissingJob)
	}
	for _, amount := range []decimal.Decimal{info.DailyWage, info.MonthlyWage} {
		if err := records.ValidateWage(amount); err != nil {
			return records.PersonalInfo{}, invalidInput(opSavePersonalInfo, err)
		}
	}
	if err := records.ValidateOvertimeRate(info.OvertimeRate); err != nil {
		return records.PersonalInfo{}, invalidInput(opSavePersonalInfo, err)
	}

	if _, err := s.personalInfo.Put(ctx, info); err != nil {
		return records.PersonalInfo{}, storeFailure(opSavePersonalInfo, err)
	}
	s.publishChange(records.CollectionPersonalInfo, info.ID)
	return info, nil
}

func (s *Service) loadPersonalInfo(ctx context.Context, operation string) (*records.PersonalInfo, error) {
	info, found, err := s.personalInfo.Get(ctx, records.PersonalInfoID)
	if err != nil {
		return nil, storeFailure(operation, err)
	}
	if !found {
		return nil, nil
	}
	return &info, nil
}
