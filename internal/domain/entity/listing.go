package entity

import (
	"slices"
	"sort"
	"strings"
	"time"
)

type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusRejected ListingStatus = "rejected"
	StatusSold     ListingStatus = "sold"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSold:
		return true
	}
	return false
}

type FuelType string

const (
	FuelPetrol FuelType = "Petrol"
	FuelDiesel FuelType = "Diesel"
	FuelCNG    FuelType = "CNG"
	FuelEV     FuelType = "EV"
	FuelHybrid FuelType = "Hybrid"
)

// FuelTypes lists fuel types in facet order.
var FuelTypes = []FuelType{FuelPetrol, FuelDiesel, FuelCNG, FuelEV, FuelHybrid}

func ValidFuelType(f FuelType) bool {
	return slices.Contains(FuelTypes, f)
}

type Transmission string

const (
	TransmissionManual    Transmission = "Manual"
	TransmissionAutomatic Transmission = "Automatic"
)

// Transmissions lists transmission types in facet order.
var Transmissions = []Transmission{TransmissionManual, TransmissionAutomatic}

func ValidTransmission(t Transmission) bool {
	return slices.Contains(Transmissions, t)
}

// Listing is a car advert stored in the CARS collection. ModelYear is kept as
// an integer; string-typed legacy documents are coerced on read.
type Listing struct {
	ID            string        `json:"id" firestore:"id"`
	Brand         string        `json:"brand" firestore:"brand"`
	Model         string        `json:"model" firestore:"model"`
	ModelYear     int64         `json:"modelYear" firestore:"modelYear"`
	Status        ListingStatus `json:"status" firestore:"status"`
	ExceptedPrice int64         `json:"exceptedPrice" firestore:"exceptedPrice"`
	FuelType      FuelType      `json:"fuelType" firestore:"fuelType"`
	Transmission  Transmission  `json:"transmission" firestore:"transmission"`
	Km            int64         `json:"km" firestore:"km"`
	Location      string        `json:"location" firestore:"location"`
	Images        []string      `json:"images" firestore:"images"`
	Description   string        `json:"description" firestore:"description"`
	PostedBy      string        `json:"postedBy" firestore:"postedBy"`
	PostedDate    string        `json:"postedDate" firestore:"postedDate"`
}

// Listing document field names, shared by predicates and store queries.
const (
	FieldBrand         = "brand"
	FieldModel         = "model"
	FieldModelYear     = "modelYear"
	FieldStatus        = "status"
	FieldExceptedPrice = "exceptedPrice"
	FieldFuelType      = "fuelType"
	FieldTransmission  = "transmission"
	FieldKm            = "km"
	FieldLocation      = "location"
	FieldPostedBy      = "postedBy"
	FieldPostedDate    = "postedDate"
)

// NumericFields are compared as numbers regardless of how they were stored.
var NumericFields = map[string]bool{
	FieldModelYear:     true,
	FieldExceptedPrice: true,
	FieldKm:            true,
}

// FieldValue returns the value of a filterable field: float64 for numeric
// fields, string otherwise. ok is false for unknown fields.
func (l *Listing) FieldValue(field string) (value interface{}, ok bool) {
	switch field {
	case FieldBrand:
		return l.Brand, true
	case FieldModel:
		return l.Model, true
	case FieldModelYear:
		return float64(l.ModelYear), true
	case FieldStatus:
		return string(l.Status), true
	case FieldExceptedPrice:
		return float64(l.ExceptedPrice), true
	case FieldFuelType:
		return string(l.FuelType), true
	case FieldTransmission:
		return string(l.Transmission), true
	case FieldKm:
		return float64(l.Km), true
	case FieldLocation:
		return l.Location, true
	case FieldPostedBy:
		return l.PostedBy, true
	}
	return nil, false
}

// MatchesSearch reports a case-insensitive substring match of term against
// brand or model.
func (l *Listing) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Brand), term) ||
		strings.Contains(strings.ToLower(l.Model), term)
}

var postedDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// PostedAt parses PostedDate. Unparseable dates yield the zero time.
func (l *Listing) PostedAt() time.Time {
	for _, layout := range postedDateLayouts {
		if t, err := time.Parse(layout, l.PostedDate); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SortByPostedDate orders listings newest first. Ties keep id order so
// pagination is stable.
func SortByPostedDate(listings []*Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		ti, tj := listings[i].PostedAt(), listings[j].PostedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return listings[i].ID < listings[j].ID
	})
}
