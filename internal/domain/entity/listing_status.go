package entity

import "slices"

// ReferenceLists is the part of a User that listing status changes touch.
type ReferenceLists struct {
	OnSaleCars []string
	SoldCars   []string
}

// CanTransition reports whether a listing may move from one status to another.
func CanTransition(from, to ListingStatus) bool {
	switch {
	case from == StatusPending && to == StatusApproved:
		return true
	case (from == StatusPending || from == StatusApproved) && to == StatusRejected:
		return true
	case from == StatusApproved && to == StatusSold:
		return true
	}
	return false
}

// NextReferences returns the owner's reference lists after carID moves from
// one status to another. The input lists are not modified. ok is false when
// the transition is not allowed.
func NextReferences(carID string, from, to ListingStatus, refs ReferenceLists) (next ReferenceLists, ok bool) {
	if !CanTransition(from, to) {
		return refs, false
	}

	next = ReferenceLists{
		OnSaleCars: slices.Clone(refs.OnSaleCars),
		SoldCars:   slices.Clone(refs.SoldCars),
	}

	switch to {
	case StatusApproved:
		next.OnSaleCars = AddUnique(next.OnSaleCars, carID)
	case StatusRejected:
		next.OnSaleCars = Remove(next.OnSaleCars, carID)
	case StatusSold:
		next.OnSaleCars = Remove(next.OnSaleCars, carID)
		next.SoldCars = AddUnique(next.SoldCars, carID)
	}

	return next, true
}

// AddUnique appends id unless it is already present.
func AddUnique(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

// Remove drops every occurrence of id.
func Remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
