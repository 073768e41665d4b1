package entity

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User owns its four listing reference lists; listings are referenced by id,
// never embedded. Phone is the login identity.
type User struct {
	ID      string `json:"id" firestore:"id"`
	Name    string `json:"name" firestore:"name"`
	Phone   string `json:"phone" firestore:"phone"`
	Address string `json:"address" firestore:"address"`
	City    string `json:"city" firestore:"city"`
	State   string `json:"state" firestore:"state"`
	Role    string `json:"role,omitempty" firestore:"role,omitempty"`

	OnSaleCars []string `json:"onSaleCars" firestore:"onSaleCars"`
	BoughtCars []string `json:"boughtCars" firestore:"boughtCars"`
	SoldCars   []string `json:"soldCars" firestore:"soldCars"`
	LikedCars  []string `json:"likedCars" firestore:"likedCars"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Reference list names accepted by the my-cars lookup.
const (
	ListOnSale = "onSale"
	ListSold   = "sold"
	ListBought = "bought"
	ListLiked  = "liked"
)

// ReferenceList returns one of the user's listing id lists by name.
func (u *User) ReferenceList(name string) ([]string, bool) {
	switch name {
	case ListOnSale:
		return u.OnSaleCars, true
	case ListSold:
		return u.SoldCars, true
	case ListBought:
		return u.BoughtCars, true
	case ListLiked:
		return u.LikedCars, true
	}
	return nil, false
}

// EnsureLists replaces nil reference lists with empty ones so they are
// stored and rendered as [] rather than null.
func (u *User) EnsureLists() {
	if u.OnSaleCars == nil {
		u.OnSaleCars = []string{}
	}
	if u.BoughtCars == nil {
		u.BoughtCars = []string{}
	}
	if u.SoldCars == nil {
		u.SoldCars = []string{}
	}
	if u.LikedCars == nil {
		u.LikedCars = []string{}
	}
}
