package middleware

import (
	"procflow/internal/access"
	"procflow/internal/apperr"
	"procflow/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// ключи cookie-сессии
const (
	SessionUserID = "user_id"
	SessionName   = "name"
	SessionRole   = "role"
)

const identityKey = "identity"

// StartSession writes the identity into the session cookie.
func StartSession(c *gin.Context, id access.Identity) error {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Set(SessionUserID, id.UserID)
	sess.Set(SessionName, id.Name)
	sess.Set(SessionRole, string(id.Role))
	return sess.Save()
}

func EndSession(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	return sess.Save()
}

// CurrentIdentity returns the identity InjectUser loaded for this request.
func CurrentIdentity(c *gin.Context) (access.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return access.Identity{}, false
	}
	id, ok := v.(access.Identity)
	return id, ok && id.Valid()
}

func abortError(c *gin.Context, err error) {
	status, body := apperr.Render(err)
	c.AbortWithStatusJSON(status, body)
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); !ok {
			abortError(c, apperr.Unauthorized("authentication required"))
			return
		}
		c.Next()
	}
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			abortError(c, apperr.Unauthorized("authentication required"))
			return
		}
		if _, ok := roleSet[id.Role]; !ok {
			abortError(c, apperr.Forbidden("access denied"))
			return
		}
		c.Next()
	}
}
