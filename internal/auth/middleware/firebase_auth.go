package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
)

// TokenVerifier is satisfied by *firebase auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// UserResolver maps a verified identity to a local user.
type UserResolver interface {
	Resolve(ctx context.Context, id domain.Identity) (*domain.User, error)
}

type Authenticator struct {
	verifier  TokenVerifier
	resolver  UserResolver
	devBypass bool
}

// NewAuthenticator builds the middleware set. With devBypass the X-User-Id
// header is trusted as the Firebase UID; verifier may then be nil.
func NewAuthenticator(verifier TokenVerifier, resolver UserResolver, devBypass bool) *Authenticator {
	return &Authenticator{verifier: verifier, resolver: resolver, devBypass: devBypass}
}

// RequireAuth validates Firebase ID tokens and rejects anonymous requests.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.CurrentUser(c) != nil {
			c.Next()
			return
		}
		status, msg := a.authenticate(c)
		if status != 0 {
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the caller when credentials are present and never rejects.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.CurrentUser(c) == nil {
			_, _ = a.authenticate(c)
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// authenticate returns a non-zero status on failure.
func (a *Authenticator) authenticate(c *gin.Context) (int, string) {
	ctx := c.Request.Context()

	var id domain.Identity
	if a.devBypass && strings.TrimSpace(c.GetHeader("X-User-Id")) != "" {
		id = domain.Identity{
			FirebaseUID: strings.TrimSpace(c.GetHeader("X-User-Id")),
			Email:       c.GetHeader("X-User-Email"),
			DisplayName: c.GetHeader("X-User-Name"),
		}
	} else {
		token := extractToken(c)
		if token == "" {
			return http.StatusUnauthorized, "missing authorization token"
		}
		if a.verifier == nil {
			return http.StatusUnauthorized, "authentication is not configured"
		}

		decoded, err := a.verifier.VerifyIDToken(ctx, token)
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Msg("id token rejected")
			return http.StatusUnauthorized, "invalid token"
		}
		id = identityFromToken(decoded)
	}

	user, err := a.resolver.Resolve(ctx, id)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("firebase_uid", id.FirebaseUID).Msg("resolve user")
		return http.StatusInternalServerError, "failed to resolve user"
	}

	auth.SetUser(c, user)
	return 0, ""
}

func identityFromToken(t *fbauth.Token) domain.Identity {
	id := domain.Identity{FirebaseUID: t.UID}
	if email, ok := t.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := t.Claims["name"].(string); ok {
		id.DisplayName = name
	}
	if pic, ok := t.Claims["picture"].(string); ok {
		id.AvatarURL = pic
	}
	return id
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
