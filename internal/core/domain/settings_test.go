package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultAPIBaseURL, s.API.BaseURL)
	assert.Equal(t, 15*time.Second, s.API.Timeout())
	assert.Equal(t, 5, s.API.RequestsPerSecond)
	assert.Equal(t, 300*time.Millisecond, s.Suggest.Debounce())
	assert.Equal(t, 3, s.Suggest.MinQueryLength)
	assert.True(t, s.Favorites.RollbackOnFailure)
	assert.Empty(t, s.Data.Dir)
}
