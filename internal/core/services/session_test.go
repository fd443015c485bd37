package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

func TestSessionService_Login(t *testing.T) {
	provider := &mockSession{}
	svc := NewSessionService(provider)

	require.NoError(t, svc.Login(" u1 ", " tok "))

	assert.Equal(t, domain.Session{UserID: "u1", Token: "tok"}, svc.Current())
	assert.True(t, svc.Current().IsSignedIn())
}

func TestSessionService_LoginRequiresUserID(t *testing.T) {
	svc := NewSessionService(&mockSession{})

	err := svc.Login("   ", "tok")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, svc.Current().IsSignedIn())
}

func TestSessionService_Logout(t *testing.T) {
	svc := NewSessionService(signedIn("u1"))

	require.NoError(t, svc.Logout())

	assert.False(t, svc.Current().IsSignedIn())
}
