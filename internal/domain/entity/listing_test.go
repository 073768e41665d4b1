package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchesSearch(t *testing.T) {
	l := &Listing{Brand: "Maruti Suzuki", Model: "Swift Dzire"}

	assert.True(t, l.MatchesSearch("suzuki"))
	assert.True(t, l.MatchesSearch("DZIRE"))
	assert.True(t, l.MatchesSearch("  swift "))
	assert.False(t, l.MatchesSearch("honda"))
}

func TestPostedAt(t *testing.T) {
	tests := map[string]time.Time{
		"2024-03-05T10:20:30Z":     time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC),
		"2024-03-05T10:20:30.123Z": time.Date(2024, 3, 5, 10, 20, 30, 123000000, time.UTC),
		"2024-03-05":               time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		"not a date":               {},
	}

	for input, want := range tests {
		l := &Listing{PostedDate: input}
		assert.True(t, want.Equal(l.PostedAt()), input)
	}
}

func TestFieldValue(t *testing.T) {
	l := &Listing{ModelYear: 2019, Km: 42000, FuelType: FuelDiesel}

	v, ok := l.FieldValue(FieldModelYear)
	assert.True(t, ok)
	assert.Equal(t, float64(2019), v)

	v, ok = l.FieldValue(FieldFuelType)
	assert.True(t, ok)
	assert.Equal(t, "Diesel", v)

	_, ok = l.FieldValue("images")
	assert.False(t, ok)
}
