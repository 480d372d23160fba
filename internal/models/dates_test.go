package models

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tc := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"same year", date(2024, time.January, 15), 6, date(2024, time.July, 15)},
		{"year rollover", date(2024, time.September, 10), 6, date(2025, time.March, 10)},
		{"clamp to february", date(2023, time.August, 31), 6, date(2024, time.February, 29)},
		{"clamp to short february", date(2024, time.August, 31), 6, date(2025, time.February, 28)},
		{"clamp to 30 day month", date(2024, time.March, 31), 6, date(2024, time.September, 30)},
		{"december start", date(2024, time.December, 31), 6, date(2025, time.June, 30)},
		{"negative", date(2024, time.January, 31), -2, date(2023, time.November, 30)},
		{"zero", date(2024, time.May, 5), 0, date(2024, time.May, 5)},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddMonths(tt.start, tt.months); !got.Equal(tt.want) {
				t.Errorf("AddMonths(%s, %d) = %s, want %s", tt.start.Format(DateLayout), tt.months, got.Format(DateLayout), tt.want.Format(DateLayout))
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-01-01")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if !got.Equal(date(2024, time.January, 1)) {
		t.Errorf("ParseDate() = %v", got)
	}

	if _, err := ParseDate("01/01/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestDateOf(t *testing.T) {
	in := time.Date(2024, time.March, 3, 23, 59, 59, 0, time.FixedZone("X", 5*3600))
	if got := DateOf(in); !got.Equal(date(2024, time.March, 3)) {
		t.Errorf("DateOf() = %v, want 2024-03-03", got)
	}
}
