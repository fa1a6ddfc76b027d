package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	EnsureUser(ctx context.Context, id domain.Identity) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	UpdateLastLogin(ctx context.Context, id int64) error
	GetPublicProfile(ctx context.Context, username string) (*domain.PublicProfile, error)
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Resolve maps a verified identity to a local user, creating it if needed.
func (s *AuthService) Resolve(ctx context.Context, id domain.Identity) (*domain.User, error) {
	return s.users.EnsureUser(ctx, id)
}

// SyncUser is called by the client right after sign-in. It fills profile
// fields the user has not set yet and records the login.
func (s *AuthService) SyncUser(ctx context.Context, userID int64, req *domain.SyncUserRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	fill := func(dst **string, src *string) {
		if *dst == nil && src != nil && strings.TrimSpace(*src) != "" {
			v := strings.TrimSpace(*src)
			*dst = &v
			changed = true
		}
	}
	if req != nil {
		fill(&user.DisplayName, req.DisplayName)
		fill(&user.AvatarURL, req.AvatarURL)
		fill(&user.Bio, req.Bio)
		fill(&user.WebsiteURL, req.WebsiteURL)
	}

	if changed {
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateUser updates user information
func (s *AuthService) UpdateUser(ctx context.Context, userID int64, req *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if !validation.IsUsername(name) {
			return nil, domain.ErrInvalidInput
		}
		if !strings.EqualFold(name, user.Username) {
			existing, err := s.users.GetByUsername(ctx, name)
			if err == nil && existing.ID != user.ID {
				return nil, domain.ErrUsernameTaken
			}
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
		}
		user.Username = name
	}

	// Empty strings clear optional fields.
	set := func(dst **string, src *string) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if v == "" {
			*dst = nil
			return
		}
		*dst = &v
	}
	set(&user.DisplayName, req.DisplayName)
	set(&user.Bio, req.Bio)
	set(&user.AvatarURL, req.AvatarURL)
	set(&user.WebsiteURL, req.WebsiteURL)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) PublicProfile(ctx context.Context, username string) (*domain.PublicProfile, error) {
	return s.users.GetPublicProfile(ctx, strings.TrimSpace(username))
}

// UserIDByUsername resolves a username for routes that filter by author.
func (s *AuthService) UserIDByUsername(ctx context.Context, username string) (int64, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}
