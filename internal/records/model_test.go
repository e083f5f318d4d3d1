package records

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAttendanceStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    AttendanceStatus
		wantErr bool
	}{
		{raw: "present", want: StatusPresent},
		{raw: " Half ", want: StatusHalf},
		{raw: "overtime", want: StatusOvertime},
		{raw: "late", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, test := range tests {
		status, err := ParseAttendanceStatus(test.raw)
		if test.wantErr {
			if !errors.Is(err, ErrInvalidStatus) {
				t.Fatalf("expected invalid status for %q, got %v", test.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", test.raw, err)
		}
		if status != test.want {
			t.Fatalf("expected %s for %q, got %s", test.want, test.raw, status)
		}
	}
}

func TestAttendanceStatusLabel(t *testing.T) {
	if StatusPresent.Label() != "满勤" {
		t.Fatalf("unexpected label %s", StatusPresent.Label())
	}
	if AttendanceStatus("late").Label() != "late" {
		t.Fatalf("unknown statuses should render their raw value")
	}
}

func TestPersonalInfoAcceptsLegacyWageField(t *testing.T) {
	var info PersonalInfo
	payload := `{"id":"current","name":"张三","job":"木工","wage":280,"monthlyWage":0}`
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !info.DailyWage.Equal(decimal.NewFromInt(280)) {
		t.Fatalf("expected legacy wage to populate daily wage, got %s", info.DailyWage)
	}
	if !info.OvertimeRate.Equal(DefaultOvertimeRate) {
		t.Fatalf("expected default overtime rate, got %s", info.OvertimeRate)
	}
	if info.Name != "张三" || info.Job != "木工" {
		t.Fatalf("unexpected profile fields %#v", info)
	}
}

func TestPersonalInfoRoundTrip(t *testing.T) {
	original := PersonalInfo{
		ID:           PersonalInfoID,
		Name:         "李四",
		Job:          "电工",
		DailyWage:    decimal.RequireFromString("350.50"),
		MonthlyWage:  decimal.Zero,
		OvertimeRate: decimal.RequireFromString("2"),
	}
	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	var decoded PersonalInfo
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !decoded.DailyWage.Equal(original.DailyWage) || !decoded.OvertimeRate.Equal(original.OvertimeRate) {
		t.Fatalf("round trip mismatch: %#v", decoded)
	}
	if !decoded.MonthlyWage.IsZero() {
		t.Fatalf("expected zero monthly wage, got %s", decoded.MonthlyWage)
	}
}

func TestPersonalInfoKeepsStoredZeroOvertimeRate(t *testing.T) {
	encoded, err := json.Marshal(PersonalInfo{ID: PersonalInfoID, Name: "赵六", Job: "瓦工", OvertimeRate: decimal.Zero})
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	var decoded PersonalInfo
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !decoded.OvertimeRate.IsZero() {
		t.Fatalf("expected a stored zero rate to read back as zero, got %s", decoded.OvertimeRate)
	}

	var nullRate PersonalInfo
	if err := json.Unmarshal([]byte(`{"id":"current","name":"赵六","job":"瓦工","overtimeRate":null}`), &nullRate); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !nullRate.OvertimeRate.Equal(DefaultOvertimeRate) {
		t.Fatalf("expected null rate to default, got %s", nullRate.OvertimeRate)
	}
}

func TestValidateOvertimeRate(t *testing.T) {
	for _, raw := range []string{"1", "1.5", "3"} {
		if err := ValidateOvertimeRate(decimal.RequireFromString(raw)); err != nil {
			t.Fatalf("expected %s to be valid: %v", raw, err)
		}
	}
	for _, raw := range []string{"0.5", "3.5"} {
		if err := ValidateOvertimeRate(decimal.RequireFromString(raw)); !errors.Is(err, ErrInvalidOvertimeRate) {
			t.Fatalf("expected %s to be rejected, got %v", raw, err)
		}
	}
}

func TestDateHelpers(t *testing.T) {
	normalized, err := NormalizeDate(" 2026-02-03 ")
	if err != nil || normalized != "2026-02-03" {
		t.Fatalf("unexpected normalized date %q (err=%v)", normalized, err)
	}
	if _, err := NormalizeDate("2026-02-30"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}

	shanghai := time.FixedZone("CST", 8*3600)
	parsed, err := ParseDate("2026-02-03", shanghai)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if parsed.Location() != shanghai || parsed.Hour() != 0 {
		t.Fatalf("expected midnight in the given location, got %v", parsed)
	}

	if label := MonthLabel(2026, time.February); label != "2026-02" {
		t.Fatalf("unexpected month label %s", label)
	}
	year, month, err := ParseMonthLabel("2025-12")
	if err != nil || year != 2025 || month != time.December {
		t.Fatalf("unexpected month label parse %d-%d (err=%v)", year, month, err)
	}
	if _, _, err := ParseMonthLabel("2025-13"); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected invalid month, got %v", err)
	}
}

func TestNormalizeTextComposesUnicode(t *testing.T) {
	decomposed := "Jose\u0301 "
	if NormalizeText(decomposed) != "Jos\u00e9" {
		t.Fatalf("expected NFC composed name, got %q", NormalizeText(decomposed))
	}
}

func TestSchemaVersions(t *testing.T) {
	if Schema().Latest() != SchemaVersion {
		t.Fatalf("expected latest schema version %d, got %d", SchemaVersion, Schema().Latest())
	}
	added := Schema().Added(1, 2)
	if len(added) != 2 || added[0].Name != CollectionWageHistory || added[1].Name != CollectionHolidays {
		t.Fatalf("unexpected version 2 collections %v", added)
	}
	if len(Schema().CollectionsAt(1)) != 4 {
		t.Fatalf("expected four collections at version 1")
	}
}
