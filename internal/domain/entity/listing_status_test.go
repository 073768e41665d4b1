package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]ListingStatus]bool{
		{StatusPending, StatusApproved}:  true,
		{StatusPending, StatusRejected}:  true,
		{StatusApproved, StatusRejected}: true,
		{StatusApproved, StatusSold}:     true,
	}
	all := []ListingStatus{StatusPending, StatusApproved, StatusRejected, StatusSold}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]ListingStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestNextReferences(t *testing.T) {
	t.Run("approve adds once", func(t *testing.T) {
		refs := ReferenceLists{OnSaleCars: []string{"a"}}

		next, ok := NextReferences("car1", StatusPending, StatusApproved, refs)
		assert.True(t, ok)
		assert.Equal(t, []string{"a", "car1"}, next.OnSaleCars)

		again, ok := NextReferences("car1", StatusPending, StatusApproved, next)
		assert.True(t, ok)
		assert.Equal(t, []string{"a", "car1"}, again.OnSaleCars)
	})

	t.Run("reject removes from on sale", func(t *testing.T) {
		refs := ReferenceLists{OnSaleCars: []string{"car1", "b"}}

		next, ok := NextReferences("car1", StatusApproved, StatusRejected, refs)
		assert.True(t, ok)
		assert.Equal(t, []string{"b"}, next.OnSaleCars)
		assert.Equal(t, []string{"car1", "b"}, refs.OnSaleCars, "input must not be modified")
	})

	t.Run("sold moves between lists", func(t *testing.T) {
		refs := ReferenceLists{OnSaleCars: []string{"car1"}, SoldCars: []string{"x"}}

		next, ok := NextReferences("car1", StatusApproved, StatusSold, refs)
		assert.True(t, ok)
		assert.Empty(t, next.OnSaleCars)
		assert.Equal(t, []string{"x", "car1"}, next.SoldCars)
	})

	t.Run("invalid leaves lists untouched", func(t *testing.T) {
		refs := ReferenceLists{OnSaleCars: []string{"car1"}}

		next, ok := NextReferences("car1", StatusSold, StatusApproved, refs)
		assert.False(t, ok)
		assert.Equal(t, refs, next)
	})
}
