package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxUser        = "user"
)

// UserFirebaseUID extracts the Firebase UID from the Gin context
// This is set by the auth middleware
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// CurrentUser returns the resolved local user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// UserID returns the caller's database id, or 0 when anonymous.
func UserID(c *gin.Context) int64 {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

func IsAdmin(c *gin.Context) bool {
	return CurrentUser(c).IsAdmin()
}

// SetUser stores the resolved user; used by middleware and tests.
func SetUser(c *gin.Context, u *domain.User) {
	c.Set(CtxUser, u)
	if u != nil {
		c.Set(CtxFirebaseUID, u.FirebaseUID)
	}
}
