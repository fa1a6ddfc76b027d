package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/lib/pq"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
)

const userColumns = `id, firebase_uid, username, email, display_name, bio, avatar_url,
       website_url, role, created_at, updated_at, last_login_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	var email, displayName, bio, avatarURL, websiteURL sql.NullString
	var lastLoginAt sql.NullTime

	err := row.Scan(
		&u.ID,
		&u.FirebaseUID,
		&u.Username,
		&email,
		&displayName,
		&bio,
		&avatarURL,
		&websiteURL,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	u.Email = nullString(email)
	u.DisplayName = nullString(displayName)
	u.Bio = nullString(bio)
	u.AvatarURL = nullString(avatarURL)
	u.WebsiteURL = nullString(websiteURL)
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	return &u, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// EnsureUser returns the user for the identity, creating it on first sight.
// Existing rows only get their email refreshed; profile fields belong to the user.
func (r *UserRepository) EnsureUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	if id.FirebaseUID == "" {
		return nil, fmt.Errorf("firebase_uid required")
	}

	const q = `
INSERT INTO users (firebase_uid, username, email, display_name, avatar_url)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
ON CONFLICT (firebase_uid) DO UPDATE
SET email = COALESCE(EXCLUDED.email, users.email),
    updated_at = NOW()
RETURNING ` + userColumns

	base := UsernameBase(id.DisplayName, id.Email)
	for i := 0; i < 5; i++ {
		username, err := candidateUsername(base, i)
		if err != nil {
			return nil, err
		}

		u, err := scanUser(r.db.QueryRowContext(ctx, q, id.FirebaseUID, username, id.Email, id.DisplayName, id.AvatarURL))
		if err == nil {
			return u, nil
		}

		// unique violation on username → retry with another suffix
		if isUniqueViolation(err, "users_username_key") {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique username")
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// GetByFirebaseUID retrieves a user by their Firebase UID
func (r *UserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE firebase_uid = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, uid))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`
	return scanUser(r.db.QueryRowContext(ctx, q, username))
}

// Update writes every editable profile field.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	const q = `
UPDATE users
SET username = $2, display_name = $3, bio = $4, avatar_url = $5, website_url = $6, updated_at = NOW()
WHERE id = $1
RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, q, u.ID, u.Username, u.DisplayName, u.Bio, u.AvatarURL, u.WebsiteURL).
		Scan(&u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	if isUniqueViolation(err, "users_username_key") {
		return domain.ErrUsernameTaken
	}
	return err
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetPublicProfile(ctx context.Context, username string) (*domain.PublicProfile, error) {
	const q = `
SELECT u.id, u.username, u.display_name, u.avatar_url, u.bio, u.website_url, u.created_at,
       (SELECT COUNT(*) FROM projects p WHERE p.user_id = u.id),
       (SELECT COUNT(*) FROM project_likes l JOIN projects p ON p.id = l.project_id WHERE p.user_id = u.id),
       (SELECT COUNT(*) FROM comments c WHERE c.user_id = u.id)
FROM users u
WHERE LOWER(u.username) = LOWER($1)`

	var p domain.PublicProfile
	var displayName, avatarURL, bio, websiteURL sql.NullString
	err := r.db.QueryRowContext(ctx, q, username).Scan(
		&p.ID, &p.Username, &displayName, &avatarURL, &bio, &websiteURL, &p.JoinedAt,
		&p.ProjectsCount, &p.LikesReceived, &p.CommentsCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	p.DisplayName = nullString(displayName)
	p.AvatarURL = nullString(avatarURL)
	p.Bio = nullString(bio)
	p.WebsiteURL = nullString(websiteURL)
	return &p, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pq.Error
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.Constraint == constraint
}

// UsernameBase derives a username stem from a display name or email local part.
func UsernameBase(displayName, email string) string {
	src := displayName
	if strings.TrimSpace(src) == "" {
		src, _, _ = strings.Cut(email, "@")
	}

	var b strings.Builder
	for _, r := range strings.ToLower(src) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.':
			b.WriteRune('_')
		}
		if b.Len() >= 20 {
			break
		}
	}
	base := strings.Trim(b.String(), "_")
	if len(base) < 3 {
		base = "viber"
	}
	return base
}

// candidateUsername returns the bare base on the first attempt and a random
// numeric suffix afterwards.
func candidateUsername(base string, attempt int) (string, error) {
	if attempt == 0 {
		return base, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%04d", base, 1000+n.Int64()), nil
}
