package middleware

import (
	"context"

	"procflow/internal/access"
	"procflow/internal/apperr"
	"procflow/internal/logger"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type IdentityLoader interface {
	LoadIdentity(ctx context.Context, userID uint) (access.Identity, error)
}

// InjectUser reloads the session user from the store on every request, so a
// changed role or a deleted account takes effect immediately.
func InjectUser(users IdentityLoader, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		uid, ok := sess.Get(SessionUserID).(uint)
		if !ok || uid == 0 {
			c.Next()
			return
		}

		id, err := users.LoadIdentity(c.Request.Context(), uid)
		switch {
		case err == nil:
			c.Set(identityKey, id)
		case apperr.Is(err, apperr.KindNotFound):
			// пользователя удалили, сессия больше не действительна
			if err := EndSession(c); err != nil {
				log.Warn("clear stale session failed", "user_id", uid, "error", err)
			}
		default:
			log.Error("load session user failed", "user_id", uid, "error", err)
			abortError(c, err)
			return
		}

		c.Next()
	}
}
