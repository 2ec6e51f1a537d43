package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/numerouno-life/ecommerce-auth"
)

func resolvedPrincipal(t *testing.T) auth.Principal {
	t.Helper()

	store := new(MockUsers)
	store.On("FindByID", mock.Anything, int64(1)).Return(&auth.User{
		ID:       1,
		Username: "alice",
		Role:     auth.RoleUser,
	}, nil)

	principal, err := auth.NewUserProvider(store).LoadByID(context.Background(), 1)
	require.NoError(t, err)
	return principal
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	principal := resolvedPrincipal(t)

	ctx := auth.WithPrincipal(context.Background(), principal)

	got, ok := auth.PrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(1), got.ID())
}

func TestPrincipalFromEmptyContext(t *testing.T) {
	_, ok := auth.PrincipalFromContext(context.Background())
	assert.False(t, ok)
}

func TestClaimsContextRoundTrip(t *testing.T) {
	claims := &auth.TokenClaims{Username: "alice"}

	ctx := auth.WithClaimsContext(context.Background(), claims)

	got, ok := auth.GetClaims(ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice", got.Username)

	_, ok = auth.GetClaims(context.Background())
	assert.False(t, ok)
}
