package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droneops/internal/domain"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{" 05/03/2024 ", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"12/31/2024", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"next tuesday", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestTokenSetMixedSeparators(t *testing.T) {
	a := TokenSet("DGCA;Night Ops")
	b := TokenSet("dgca, night ops")
	assert.Equal(t, a, b)
	assert.Empty(t, TokenSet(""))
	assert.Empty(t, TokenSet(" ; , "))
}

func TestSatisfied(t *testing.T) {
	ok, missing := Satisfied("DGCA;Night Ops", "dgca, night ops, thermal")
	assert.True(t, ok)
	assert.Empty(t, missing)

	ok, missing = Satisfied("Mapping; Thermal", "mapping")
	assert.False(t, ok)
	assert.Equal(t, []string{"thermal"}, missing)

	ok, _ = Satisfied("", "")
	assert.True(t, ok)
}

func TestDatesOverlap(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"disjoint", "2024-01-01", "2024-01-03", "2024-01-04", "2024-01-06", false},
		{"touching end day", "2024-01-01", "2024-01-03", "2024-01-03", "2024-01-06", true},
		{"contained", "2024-01-01", "2024-01-10", "2024-01-03", "2024-01-04", true},
		{"mixed formats", "01/01/2024", "03/01/2024", "2024-01-02", "2024-01-02", true},
		{"empty date", "", "2024-01-03", "2024-01-01", "2024-01-06", false},
		{"garbage", "2024-01-01", "soon", "2024-01-01", "2024-01-06", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DatesOverlap(tc.s1, tc.e1, tc.s2, tc.e2))
			assert.Equal(t, tc.want, DatesOverlap(tc.s2, tc.e2, tc.s1, tc.e1), "overlap must be symmetric")
		})
	}
}

func TestDurationDays(t *testing.T) {
	assert.Equal(t, 1, DurationDays("2024-01-01", "2024-01-01"))
	assert.Equal(t, 3, DurationDays("2024-01-01", "2024-01-03"))
	assert.Equal(t, 1, DurationDays("2024-01-05", "2024-01-01"))
	assert.Equal(t, 1, DurationDays("", "2024-01-01"))
	// Spans beyond the range of time.Duration.
	assert.Equal(t, 146098, DurationDays("1700-01-01", "2100-01-01"))
}

func TestDaysBetween(t *testing.T) {
	day := time.Date(2024, 1, 25, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(day, time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysBetween(day, time.Date(2024, 1, 26, 0, 1, 0, 0, time.UTC)))
	assert.Equal(t, -5, DaysBetween(day, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -146097, DaysBetween(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWeatherOK(t *testing.T) {
	assert.False(t, WeatherOK("None (Clear Sky Only)", "Rainy", nil))
	assert.True(t, WeatherOK("IP43 (Rain)", "Rainy", nil))
	assert.True(t, WeatherOK("IP55", " rainy ", nil))
	assert.True(t, WeatherOK("anything", "Sunny", nil))
	assert.True(t, WeatherOK("None (Clear Sky Only)", "Cloudy", nil))
	assert.True(t, WeatherOK("None (Clear Sky Only)", "Fog", nil))
	assert.True(t, WeatherOK("IPX7 marine", "Rainy", []string{"ipx7"}))
}

func TestPilotCost(t *testing.T) {
	p := domain.Pilot{ID: "P001", DailyRate: 5000}
	m := domain.Mission{ID: "PRJ001", StartDate: "2024-01-01", EndDate: "2024-01-03", Budget: 10000}
	c := PilotCost(p, m)
	assert.Equal(t, 3, c.DurationDays)
	assert.Equal(t, 15000.0, c.Total)
	assert.False(t, c.WithinBudget())
	assert.Equal(t, -5000.0, c.Surplus())
	msg := c.Overrun("INR")
	require.NotNil(t, msg)
	assert.Contains(t, *msg, "by INR 5000")

	m.Budget = 15000
	assert.True(t, PilotCost(p, m).WithinBudget())
	assert.Nil(t, PilotCost(p, m).Overrun("INR"))
}

func TestAvailableAfterStart(t *testing.T) {
	later := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	m := domain.Mission{StartDate: "2024-01-15"}
	assert.True(t, AvailableAfterStart(domain.Pilot{AvailableFrom: &later}, m))
	assert.False(t, AvailableAfterStart(domain.Pilot{}, m))
	same := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.False(t, AvailableAfterStart(domain.Pilot{AvailableFrom: &same}, m))
	assert.False(t, AvailableAfterStart(domain.Pilot{AvailableFrom: &later}, domain.Mission{StartDate: "tbd"}))
}

func TestPilotStatusBlock(t *testing.T) {
	_, blocked := PilotStatusBlock(domain.Pilot{Status: domain.PilotOnLeave})
	assert.True(t, blocked)
	_, blocked = PilotStatusBlock(domain.Pilot{Status: domain.PilotAssigned})
	assert.False(t, blocked)
}
