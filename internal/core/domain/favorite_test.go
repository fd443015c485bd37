package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFavoriteSet_Toggled(t *testing.T) {
	s := NewFavoriteSet("p1")

	added, liked := s.Toggled("p2")
	assert.True(t, liked)
	assert.True(t, added.Contains("p2"))
	assert.False(t, s.Contains("p2"), "original set must not change")

	removed, liked := added.Toggled("p2")
	assert.False(t, liked)
	assert.Equal(t, s, removed)
}

func TestFavoriteSet_IDsSorted(t *testing.T) {
	s := NewFavoriteSet("c", "a", "b")

	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
}

func TestFavoriteSet_NilIsEmpty(t *testing.T) {
	var s FavoriteSet

	assert.False(t, s.Contains("x"))
	assert.Empty(t, s.IDs())
	assert.NotNil(t, s.Clone())
}

func TestSession_IsSignedIn(t *testing.T) {
	assert.False(t, Session{}.IsSignedIn())
	assert.True(t, Session{UserID: "u1"}.IsSignedIn())
}
