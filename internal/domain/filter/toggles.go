package filter

import (
	"sort"

	"carbazaar/internal/domain/entity"
	"carbazaar/pkg/errors"
)

// Toggle names used by the mobile and admin clients.
var (
	priceToggles = map[string]PriceBand{
		"pr1": PriceOneToThreeLakh,
		"pr2": PriceThreeToSixLakh,
		"pr3": PriceAboveSixLakh,
	}
	fuelToggles = map[string]entity.FuelType{
		"ft1": entity.FuelPetrol,
		"ft2": entity.FuelDiesel,
		"ft3": entity.FuelCNG,
		"ft4": entity.FuelEV,
		"ft5": entity.FuelHybrid,
	}
	mileageToggles = map[string]MileageBand{
		"km1": MileageUpTo50k,
		"km2": MileageUpTo100k,
		"km3": MileageAbove100k,
	}
	transmissionToggles = map[string]entity.Transmission{
		"tm1": entity.TransmissionManual,
		"tm2": entity.TransmissionAutomatic,
	}
)

// SelectionFromToggles builds a Selection from named boolean toggles such as
// {"pr1": true, "ft2": true}. False toggles are ignored; unknown names are a
// client error.
func SelectionFromToggles(toggles map[string]bool) (Selection, error) {
	names := make([]string, 0, len(toggles))
	for name := range toggles {
		names = append(names, name)
	}
	sort.Strings(names)

	var s Selection
	for _, name := range names {
		if !toggles[name] {
			continue
		}
		if v, ok := priceToggles[name]; ok {
			s.Price = append(s.Price, v)
		} else if v, ok := fuelToggles[name]; ok {
			s.Fuel = append(s.Fuel, v)
		} else if v, ok := mileageToggles[name]; ok {
			s.Mileage = append(s.Mileage, v)
		} else if v, ok := transmissionToggles[name]; ok {
			s.Transmission = append(s.Transmission, v)
		} else {
			return Selection{}, errors.BadRequest("Unknown filter toggle: "+name, nil)
		}
	}
	return s, nil
}
