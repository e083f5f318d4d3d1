package worklog

import (
	"fmt"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
)

// CountdownUnit is the granularity a countdown is reported in.
type CountdownUnit string

const (
	UnitDays    CountdownUnit = "days"
	UnitHours   CountdownUnit = "hours"
	UnitMinutes CountdownUnit = "minutes"
	// UnitArrived is reported when the holiday is upcoming by less than a rounding step.
	UnitArrived CountdownUnit = "arrived"
)

var unitLabels = map[CountdownUnit]string{
	UnitDays:    "天",
	UnitHours:   "小时",
	UnitMinutes: "分钟",
}

// Countdown describes the time remaining until the next holiday.
type Countdown struct {
	Upcoming bool            `json:"upcoming"`
	Holiday  records.Holiday `json:"holiday"`
	Unit     CountdownUnit   `json:"unit,omitempty"`
	Value    int             `json:"value"`
}

// NoUpcoming is the countdown reported when no holiday lies after now.
var NoUpcoming = Countdown{}

// Label renders the countdown for display.
func (c Countdown) Label() string {
	if !c.Upcoming {
		return "暂无即将到来的节日"
	}
	if c.Unit == UnitArrived {
		return "节日已到"
	}
	return fmt.Sprintf("还有 %d %s", c.Value, unitLabels[c.Unit])
}

// NextHolidayCountdown selects the earliest holiday dated after now and reports the largest
// non-zero unit among days, hours and minutes until it, each rounded up. Holiday dates are read
// as midnight in now's location; unparseable dates are ignored.
func NextHolidayCountdown(now time.Time, holidays []records.Holiday) Countdown {
	var (
		next   records.Holiday
		nextAt time.Time
		found  bool
	)
	for _, holiday := range holidays {
		at, err := records.ParseDate(holiday.Date, now.Location())
		if err != nil || !at.After(now) {
			continue
		}
		if !found || at.Before(nextAt) {
			next, nextAt, found = holiday, at, true
		}
	}
	if !found {
		return NoUpcoming
	}

	remaining := nextAt.Sub(now)
	steps := []struct {
		unit  CountdownUnit
		value int
	}{
		{unit: UnitDays, value: ceilDiv(remaining, 24*time.Hour)},
		{unit: UnitHours, value: ceilDiv(remaining%(24*time.Hour), time.Hour)},
		{unit: UnitMinutes, value: ceilDiv(remaining%time.Hour, time.Minute)},
	}
	for _, step := range steps {
		if step.value > 0 {
			return Countdown{Upcoming: true, Holiday: next, Unit: step.unit, Value: step.value}
		}
	}
	return Countdown{Upcoming: true, Holiday: next, Unit: UnitArrived}
}

func ceilDiv(d, unit time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + unit - 1) / unit)
}
