package domain

import "sort"

// FavoriteSet is the set of property IDs the signed-in user has liked.
// The zero value is an empty set ready to use via Clone.
type FavoriteSet map[string]struct{}

// NewFavoriteSet builds a set from property IDs.
func NewFavoriteSet(ids ...string) FavoriteSet {
	s := make(FavoriteSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether the property is liked.
func (s FavoriteSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy.
func (s FavoriteSet) Clone() FavoriteSet {
	out := make(FavoriteSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Toggled returns a copy with the membership of id flipped, and the new membership.
func (s FavoriteSet) Toggled(id string) (FavoriteSet, bool) {
	out := s.Clone()
	if out.Contains(id) {
		delete(out, id)
		return out, false
	}
	out[id] = struct{}{}
	return out, true
}

// IDs returns the members in sorted order.
func (s FavoriteSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Favorite is an entry of the remote favourites list.
type Favorite struct {
	PropertyID   string `json:"unique_property_id"`
	PropertyName string `json:"property_name"`
}

// Session identifies the signed-in user.
type Session struct {
	UserID string
	Token  string
}

// IsSignedIn returns true if a user is signed in.
func (s Session) IsSignedIn() bool {
	return s.UserID != ""
}
