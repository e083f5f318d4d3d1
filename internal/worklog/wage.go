package worklog

import (
	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/shopspring/decimal"
)

// Wage is the derived pay for a set of work days.
type Wage struct {
	WorkDays   float64         `json:"workDays"`
	DailyWage  decimal.Decimal `json:"dailyWage"`
	Monthly    bool            `json:"monthly"`
	TotalWage  decimal.Decimal `json:"totalWage"`
	ActualWage decimal.Decimal `json:"actualWage"`
}

// ComputeWage applies the flat monthly salary when one is configured, otherwise work days times
// the daily wage. A nil profile yields zero pay. The overtime rate is not applied.
func ComputeWage(info *records.PersonalInfo, workDays float64) Wage {
	wage := Wage{
		WorkDays:   workDays,
		DailyWage:  decimal.Zero,
		TotalWage:  decimal.Zero,
		ActualWage: decimal.Zero,
	}
	if info == nil {
		return wage
	}
	wage.DailyWage = info.DailyWage
	if info.MonthlyWage.IsPositive() {
		wage.Monthly = true
		wage.TotalWage = info.MonthlyWage
		wage.ActualWage = info.MonthlyWage
		return wage
	}
	total := decimal.NewFromFloat(workDays).Mul(info.DailyWage)
	wage.TotalWage = total
	wage.ActualWage = total
	return wage
}
