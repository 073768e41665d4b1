package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbazaar/internal/domain/entity"
	"carbazaar/pkg/errors"
)

func TestNormalizeRejectsIncompletePredicates(t *testing.T) {
	cases := []entity.Predicate{
		{Condition: "==", Value: "Petrol"},
		{Field: "fuelType", Value: "Petrol"},
		{Field: "fuelType", Condition: "=="},
		{Field: "fuelType", Condition: "!=", Value: "Petrol"},
		{Field: "colour", Condition: "==", Value: "red"},
		{Field: "km", Condition: ">=", Value: "lots"},
		{Field: "fuelType", Condition: "in", Value: "Petrol"},
		{Field: "fuelType", Condition: "in", Value: []interface{}{}},
		{Field: "fuelType", Condition: "==", Value: []string{"Petrol"}},
	}

	for _, c := range cases {
		_, err := Normalize([]entity.Predicate{c})
		require.Error(t, err, "%+v", c)
		assert.True(t, errors.Is(err, errors.CodeBadRequest))
	}
}

func TestNormalizeCoercesNumericFields(t *testing.T) {
	got, err := Normalize([]entity.Predicate{
		{Field: "modelYear", Condition: ">=", Value: "2018"},
		{Field: "exceptedPrice", Condition: "<=", Value: float64(500000)},
		{Field: "km", Condition: "in", Value: []interface{}{json.Number("100"), "200"}},
		{Field: "fuelType", Condition: "in", Value: []string{"Petrol"}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2018), got[0].Value)
	assert.Equal(t, int64(500000), got[1].Value)
	assert.Equal(t, []interface{}{int64(100), int64(200)}, got[2].Value)
	assert.Equal(t, []interface{}{"Petrol"}, got[3].Value)
}

func TestNormalizeFromJSON(t *testing.T) {
	var body struct {
		Filters []entity.Predicate `json:"filters"`
	}
	raw := `{"filters":[{"field":"exceptedPrice","condition":">=","value":100000},{"field":"fuelType","condition":"in","value":["Petrol","Diesel"]}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &body))

	got, err := Normalize(body.Filters)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), got[0].Value)
	assert.Equal(t, []interface{}{"Petrol", "Diesel"}, got[1].Value)
}

func TestMatch(t *testing.T) {
	car := &entity.Listing{
		Brand:         "Hyundai",
		ModelYear:     2020,
		ExceptedPrice: 450000,
		FuelType:      entity.FuelDiesel,
		Transmission:  entity.TransmissionManual,
		Km:            60000,
		Status:        entity.StatusApproved,
	}

	tests := []struct {
		name  string
		preds []entity.Predicate
		want  bool
	}{
		{"no predicates", nil, true},
		{"equality", []entity.Predicate{pred("status", "==", "approved")}, true},
		{"equality miss", []entity.Predicate{pred("status", "==", "sold")}, false},
		{"range inside", []entity.Predicate{pred("exceptedPrice", ">=", int64(300000)), pred("exceptedPrice", "<=", int64(600000))}, true},
		{"range boundary", []entity.Predicate{pred("km", "<=", int64(60000))}, true},
		{"range outside", []entity.Predicate{pred("km", "<=", int64(50000))}, false},
		{"membership", []entity.Predicate{pred("fuelType", "in", []interface{}{"Petrol", "Diesel"})}, true},
		{"membership miss", []entity.Predicate{pred("fuelType", "in", []interface{}{"EV"})}, false},
		{"numeric membership", []entity.Predicate{pred("modelYear", "in", []interface{}{int64(2019), int64(2020)})}, true},
		{"all must hold", []entity.Predicate{pred("status", "==", "approved"), pred("transmission", "==", "Automatic")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(car, tt.preds))
		})
	}
}

func TestToNumber(t *testing.T) {
	for _, v := range []interface{}{2020, int64(2020), float64(2020), "2020", " 2020 ", json.Number("2020")} {
		n, ok := ToNumber(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, float64(2020), n)
	}

	_, ok := ToNumber(true)
	assert.False(t, ok)
	assert.Equal(t, int64(0), ToInt64("n/a"))
}
