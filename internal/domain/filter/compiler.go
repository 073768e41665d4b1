// Package filter turns UI facet selections into listing predicates and
// evaluates predicates against listings held in memory.
package filter

import (
	"math"
	"slices"

	"carbazaar/internal/domain/entity"
)

// PriceBand is one of the price toggles.
type PriceBand int

const (
	PriceOneToThreeLakh PriceBand = iota + 1
	PriceThreeToSixLakh
	PriceAboveSixLakh
)

type priceRange struct {
	min int64
	max int64 // math.MaxInt64 means unbounded
}

var priceRanges = map[PriceBand]priceRange{
	PriceOneToThreeLakh: {100000, 300000},
	PriceThreeToSixLakh: {300000, 600000},
	PriceAboveSixLakh:   {600000, math.MaxInt64},
}

// MileageBand is one of the odometer toggles.
type MileageBand int

const (
	MileageUpTo50k MileageBand = iota + 1
	MileageUpTo100k
	MileageAbove100k
)

type mileageBound struct {
	condition entity.Condition
	value     int64
}

var mileageBounds = map[MileageBand]mileageBound{
	MileageUpTo50k:   {entity.ConditionLTE, 50000},
	MileageUpTo100k:  {entity.ConditionLTE, 100000},
	MileageAbove100k: {entity.ConditionGTE, 100000},
}

// Selection holds the selected toggles of every facet. Duplicate entries are
// ignored; categorical values are emitted in facet order, not selection order.
type Selection struct {
	Price        []PriceBand
	Fuel         []entity.FuelType
	Mileage      []MileageBand
	Transmission []entity.Transmission
}

// Compile returns the predicates for s in facet order: price, fuel, mileage,
// transmission. Facets with nothing selected emit nothing.
func Compile(s Selection) []entity.Predicate {
	predicates := []entity.Predicate{}
	predicates = append(predicates, compilePrice(s.Price)...)
	predicates = append(predicates, compileCategorical(entity.FieldFuelType, entity.FuelTypes, s.Fuel)...)
	predicates = append(predicates, compileMileage(s.Mileage)...)
	predicates = append(predicates, compileCategorical(entity.FieldTransmission, entity.Transmissions, s.Transmission)...)
	return predicates
}

// compilePrice collapses the selected bands into one broad range: the lowest
// lower bound and the highest upper bound, even when the bands are disjoint.
func compilePrice(bands []PriceBand) []entity.Predicate {
	lo, hi := int64(math.MaxInt64), int64(0)
	selected := false
	for _, b := range bands {
		r, ok := priceRanges[b]
		if !ok {
			continue
		}
		selected = true
		lo = min(lo, r.min)
		hi = max(hi, r.max)
	}
	if !selected {
		return nil
	}

	predicates := []entity.Predicate{
		{Field: entity.FieldExceptedPrice, Condition: entity.ConditionGTE, Value: lo},
	}
	if hi != math.MaxInt64 {
		predicates = append(predicates, entity.Predicate{Field: entity.FieldExceptedPrice, Condition: entity.ConditionLTE, Value: hi})
	}
	return predicates
}

func compileMileage(bands []MileageBand) []entity.Predicate {
	var chosen []mileageBound
	for _, b := range uniq(bands) {
		if bound, ok := mileageBounds[b]; ok {
			chosen = append(chosen, bound)
		}
	}

	switch len(chosen) {
	case 0:
		return nil
	case 1:
		return []entity.Predicate{{Field: entity.FieldKm, Condition: chosen[0].condition, Value: chosen[0].value}}
	}

	lower := int64(0)
	upper := int64(-1)
	for _, bound := range chosen {
		if bound.condition == entity.ConditionGTE {
			lower = bound.value
		} else {
			upper = max(upper, bound.value)
		}
	}

	predicates := []entity.Predicate{{Field: entity.FieldKm, Condition: entity.ConditionGTE, Value: lower}}
	if upper >= 0 {
		predicates = append(predicates, entity.Predicate{Field: entity.FieldKm, Condition: entity.ConditionLTE, Value: upper})
	}
	return predicates
}

func compileCategorical[T ~string](field string, order []T, selected []T) []entity.Predicate {
	var values []string
	for _, v := range order {
		if slices.Contains(selected, v) {
			values = append(values, string(v))
		}
	}

	switch len(values) {
	case 0:
		return nil
	case 1:
		return []entity.Predicate{{Field: field, Condition: entity.ConditionEqual, Value: values[0]}}
	}
	return []entity.Predicate{{Field: field, Condition: entity.ConditionIn, Value: values}}
}

func uniq[T comparable](in []T) []T {
	var out []T
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
