package server

import (
	"net/http"

	"procflow/internal/config"
	"procflow/internal/handlers"
	"procflow/internal/logger"
	"procflow/internal/middleware"
	"procflow/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	sessionName = "procflow_session"
	serviceName = "procflow"
)

type Deps struct {
	Handler *handlers.Handler
	Users   middleware.IdentityLoader
	Log     *logger.Logger
}

func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	// ClientIP ключ ограничения входа: X-Forwarded-For берём только от своих прокси
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		deps.Log.Error("invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(middleware.RequestLogger(deps.Log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSOrigins))
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.InjectUser(deps.Users, deps.Log))

	h := deps.Handler

	// HEALTHCHECK
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)

	// AUTH
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/session", h.Session)

	// ПОЛЬЗОВАТЕЛИ
	auth.POST("/users", middleware.RequireRole(models.RoleAdmin), h.CreateUser)
	auth.PUT("/users/:id/role", middleware.RequireRole(models.RoleAdmin), h.SetUserRole)
	auth.PUT("/users/:id/password", h.SetUserPassword)

	// ОТДЕЛЫ
	auth.GET("/departments", h.ListDepartments)
	auth.POST("/departments", h.CreateDepartment)
	auth.DELETE("/departments/:id", h.DeleteDepartment)
	auth.POST("/departments/:id/unlock", h.UnlockDepartment)

	// ЧАТЫ
	auth.GET("/chats", h.ListChats)
	auth.POST("/chats", h.CreateChat)
	auth.GET("/chats/:id", h.GetChat)
	auth.DELETE("/chats/:id", h.DeleteChat)
	auth.POST("/chats/:id/unlock", h.UnlockChat)

	// статус, версии, комментарии: владелец отдела или админ
	auth.GET("/chats/:id/status", h.GetStatus)
	auth.PUT("/chats/:id/status", h.UpdateStatus)
	auth.GET("/chats/:id/versions", h.ListVersions)
	auth.POST("/chats/:id/versions", h.CreateVersion)
	auth.GET("/chats/:id/comments", h.ListComments)
	auth.POST("/chats/:id/comments", h.CreateComment)

	// АУДИТ
	auth.GET("/chats/:id/history", h.ChatHistory)

	return r
}
