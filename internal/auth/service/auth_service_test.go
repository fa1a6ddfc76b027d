package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
)

type fakeStore struct {
	users      map[int64]*domain.User
	logins     []int64
	updates    int
	profileFor string
}

func newFakeStore(users ...*domain.User) *fakeStore {
	s := &fakeStore{users: map[int64]*domain.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (f *fakeStore) EnsureUser(_ context.Context, id domain.Identity) (*domain.User, error) {
	for _, u := range f.users {
		if u.FirebaseUID == id.FirebaseUID {
			return u, nil
		}
	}
	u := &domain.User{ID: int64(len(f.users) + 1), FirebaseUID: id.FirebaseUID, Username: "new", Role: domain.RoleUser}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStore) Update(_ context.Context, u *domain.User) error {
	f.updates++
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateLastLogin(_ context.Context, id int64) error {
	f.logins = append(f.logins, id)
	return nil
}

func (f *fakeStore) GetPublicProfile(_ context.Context, username string) (*domain.PublicProfile, error) {
	f.profileFor = username
	return &domain.PublicProfile{UserSummary: domain.UserSummary{Username: username}}, nil
}

func strPtr(s string) *string { return &s }

func TestAuthService_Resolve(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(store)

	u, err := svc.Resolve(context.Background(), domain.Identity{FirebaseUID: "fb"})
	require.NoError(t, err)
	again, err := svc.Resolve(context.Background(), domain.Identity{FirebaseUID: "fb"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestAuthService_SyncUser(t *testing.T) {
	store := newFakeStore(&domain.User{ID: 1, Username: "ada", DisplayName: strPtr("Ada")})
	svc := NewAuthService(store)

	u, err := svc.SyncUser(context.Background(), 1, &domain.SyncUserRequest{
		DisplayName: strPtr("Someone Else"),
		Bio:         strPtr("  hello  "),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", *u.DisplayName, "existing fields are kept")
	assert.Equal(t, "hello", *u.Bio, "empty fields are filled")
	assert.Equal(t, 1, store.updates)
	assert.Equal(t, []int64{1}, store.logins)

	_, err = svc.SyncUser(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, store.updates, "nothing to fill, no write")
}

func TestAuthService_UpdateUser(t *testing.T) {
	store := newFakeStore(
		&domain.User{ID: 1, Username: "ada", Bio: strPtr("old")},
		&domain.User{ID: 2, Username: "grace"},
	)
	svc := NewAuthService(store)
	ctx := context.Background()

	t.Run("rejects taken username", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, 1, &domain.UpdateUserRequest{Username: strPtr("grace")})
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("rejects malformed username", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, 1, &domain.UpdateUserRequest{Username: strPtr("no spaces")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("applies and clears fields", func(t *testing.T) {
		u, err := svc.UpdateUser(ctx, 1, &domain.UpdateUserRequest{
			Username:    strPtr("ada_l"),
			DisplayName: strPtr("Ada L"),
			Bio:         strPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "ada_l", u.Username)
		assert.Equal(t, "Ada L", *u.DisplayName)
		assert.Nil(t, u.Bio)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, 99, &domain.UpdateUserRequest{})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestAuthService_PublicProfileTrims(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(store)

	_, err := svc.PublicProfile(context.Background(), "  maker ")
	require.NoError(t, err)
	assert.Equal(t, "maker", store.profileFor)
}
