package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// PersonalInfoID addresses the singleton PersonalInfo record.
const PersonalInfoID = "current"

const maxIdentifierLength = 190

var (
	// ErrInvalidID indicates an empty or oversized record identifier.
	ErrInvalidID = errors.New("records: invalid id")
	// ErrInvalidStatus indicates an attendance status outside the known set.
	ErrInvalidStatus = errors.New("records: invalid attendance status")
	// ErrMissingName indicates a required name field was blank.
	ErrMissingName = errors.New("records: name is required")
	// ErrMissingJob indicates a profile without a trade.
	ErrMissingJob = errors.New("records: job is required")
	// ErrMissingPhone indicates a contact without a phone number.
	ErrMissingPhone = errors.New("records: phone is required")
	// ErrInvalidWage indicates a negative wage value.
	ErrInvalidWage = errors.New("records: wage must not be negative")
	// ErrInvalidOvertimeRate indicates an overtime multiplier outside [1, 3].
	ErrInvalidOvertimeRate = errors.New("records: overtime rate must be between 1 and 3")
)

var (
	// DefaultOvertimeRate applies when PersonalInfo carries no rate.
	DefaultOvertimeRate = decimal.RequireFromString("1.5")
	minOvertimeRate     = decimal.NewFromInt(1)
	maxOvertimeRate     = decimal.NewFromInt(3)
)

// AttendanceStatus is the state recorded for one calendar day.
type AttendanceStatus string

const (
	StatusPresent  AttendanceStatus = "present"
	StatusHalf     AttendanceStatus = "half"
	StatusAbsent   AttendanceStatus = "absent"
	StatusHoliday  AttendanceStatus = "holiday"
	StatusOvertime AttendanceStatus = "overtime"
)

// AttendanceStatuses lists every known status in display order.
var AttendanceStatuses = []AttendanceStatus{StatusPresent, StatusHalf, StatusAbsent, StatusHoliday, StatusOvertime}

var statusLabels = map[AttendanceStatus]string{
	StatusPresent:  "满勤",
	StatusHalf:     "半天",
	StatusAbsent:   "缺勤",
	StatusHoliday:  "节假日",
	StatusOvertime: "加班",
}

// ParseAttendanceStatus validates raw input.
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	status := AttendanceStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// Valid reports whether the status is one of the known values.
func (s AttendanceStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label, or the raw value for unknown statuses.
func (s AttendanceStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Project is a job site the worker is attached to.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Contact is a phonebook entry.
type Contact struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Company   string     `json:"company,omitempty"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// PersonalInfo is the singleton worker profile stored under PersonalInfoID.
type PersonalInfo struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Job          string          `json:"job"`
	DailyWage    decimal.Decimal `json:"dailyWage"`
	MonthlyWage  decimal.Decimal `json:"monthlyWage"`
	OvertimeRate decimal.Decimal `json:"overtimeRate"`
}

// UnmarshalJSON also accepts the legacy "wage" field for the daily wage. A missing or null
// overtime rate reads as DefaultOvertimeRate; any stored value, zero included, reads back as is.
func (p *PersonalInfo) UnmarshalJSON(data []byte) error {
	type plain PersonalInfo
	var payload struct {
		plain
		LegacyWage   *decimal.Decimal `json:"wage"`
		DailyWage    *decimal.Decimal `json:"dailyWage"`
		OvertimeRate *decimal.Decimal `json:"overtimeRate"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	*p = PersonalInfo(payload.plain)
	switch {
	case payload.DailyWage != nil:
		p.DailyWage = *payload.DailyWage
	case payload.LegacyWage != nil:
		p.DailyWage = *payload.LegacyWage
	}
	p.OvertimeRate = DefaultOvertimeRate
	if payload.OvertimeRate != nil {
		p.OvertimeRate = *payload.OvertimeRate
	}
	return nil
}

// AttendanceRecord is the status of one calendar day. At most one record exists per date.
type AttendanceRecord struct {
	ID        string           `json:"id"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// WageHistoryRecord is an archived monthly wage snapshot. It is never modified after creation.
type WageHistoryRecord struct {
	ID        string          `json:"id"`
	Month     string          `json:"month"`
	WorkDays  float64         `json:"workDays"`
	TotalWage decimal.Decimal `json:"totalWage"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Holiday marks a named date used for the countdown and calendar.
type Holiday struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Date      string     `json:"date"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ValidateID checks an identifier against storage bounds.
func ValidateID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidID, maxIdentifierLength)
	}
	return trimmed, nil
}

// NormalizeText trims and NFC-normalizes free text so equal names compare and sort equally.
func NormalizeText(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// ValidateWage rejects negative amounts.
func ValidateWage(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidWage, amount.String())
	}
	return nil
}

// ValidateOvertimeRate accepts multipliers between 1 and 3 inclusive.
func ValidateOvertimeRate(rate decimal.Decimal) error {
	if rate.LessThan(minOvertimeRate) || rate.GreaterThan(maxOvertimeRate) {
		return fmt.Errorf("%w: %s", ErrInvalidOvertimeRate, rate.String())
	}
	return nil
}
