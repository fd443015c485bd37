package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil ports returns error", func(t *testing.T) {
		server, err := NewServer(nil)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingDiscoveryService)
	})

	t.Run("nil discovery service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Suggestions: &mockSuggestionService{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingDiscoveryService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(testPorts())
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil discovery service returns error", func(t *testing.T) {
		ports := &Ports{Suggestions: &mockSuggestionService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingDiscoveryService)
	})

	t.Run("nil suggestion service returns error", func(t *testing.T) {
		ports := &Ports{Discovery: newDiscovery()}
		assert.ErrorIs(t, ports.Validate(), ErrMissingSuggestionService)
	})

	t.Run("required ports only is valid", func(t *testing.T) {
		assert.NoError(t, testPorts().Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := testPorts()
		ports.Favorites = &mockFavoriteService{}
		ports.Cities = &mockCityService{}
		assert.NoError(t, ports.Validate())
	})
}
