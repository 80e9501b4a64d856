package user_test

import (
	"context"
	"testing"

	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, store *mocks.MockUserStore, u user.User) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &u))
}

// ============================================
// Sync
// ============================================

func TestSync_CreatesNewUser(t *testing.T) {
	store := mocks.NewMockUserStore()
	svc := user.NewService(store)

	u, err := svc.Sync(context.Background(), "clerk_1", "Jane@Example.com", "Jane Doe")

	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "clerk_1", u.ClerkID)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, "Jane Doe", u.Name)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.False(t, u.CreatedAt.IsZero())

	stored, err := store.GetByClerkID(context.Background(), "clerk_1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
}

func TestSync_ReturnsExistingUser(t *testing.T) {
	store := mocks.NewMockUserStore()
	svc := user.NewService(store)
	seedUser(t, store, user.User{ID: "u1", ClerkID: "clerk_1", Email: "jane@example.com", Role: user.RoleAdmin})

	u, err := svc.Sync(context.Background(), "clerk_1", "different@example.com", "Other Name")

	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	// Existing record wins; sync does not overwrite it.
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, user.RoleAdmin, u.Role)
}

func TestSync_RequiresClerkID(t *testing.T) {
	svc := user.NewService(mocks.NewMockUserStore())

	_, err := svc.Sync(context.Background(), "", "jane@example.com", "Jane")

	assert.ErrorIs(t, err, user.ErrMissingClerkID)
}

// ============================================
// Promote / Delete
// ============================================

func TestPromote_GrantsAdminRole(t *testing.T) {
	store := mocks.NewMockUserStore()
	svc := user.NewService(store)
	seedUser(t, store, user.User{ID: "u1", ClerkID: "clerk_1", Role: user.RoleUser})

	u, err := svc.Promote(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, u.Role)

	stored, err := store.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, stored.Role)
}

func TestPromote_UnknownUser(t *testing.T) {
	svc := user.NewService(mocks.NewMockUserStore())

	_, err := svc.Promote(context.Background(), "missing")

	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	store := mocks.NewMockUserStore()
	svc := user.NewService(store)
	seedUser(t, store, user.User{ID: "u1", ClerkID: "clerk_1"})

	require.NoError(t, svc.Delete(context.Background(), "u1"))

	_, err := store.GetByID(context.Background(), "u1")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestDelete_UnknownUser(t *testing.T) {
	svc := user.NewService(mocks.NewMockUserStore())

	err := svc.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
