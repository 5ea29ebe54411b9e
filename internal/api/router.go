package api

import (
	"net/http"

	"benefitsportal/internal/config"
	"benefitsportal/internal/middleware"
	"benefitsportal/internal/observability"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Auth          *AuthHandlers
	Companies     *CompanyHandlers
	Settings      *SettingsHandlers
	Users         *UserHandlers
	Documents     *DocumentHandlers
	Surveys       *SurveyHandlers
	Events        *EventHandlers
	Chat          *ChatHandlers
	Notifications *NotificationHandlers
	Website       *WebsiteHandlers
	Images        *ImageHandlers
}

// NewRouter builds the gin engine with the full route surface
func NewRouter(cfg *config.Config, logger *observability.Logger, authMW *middleware.AuthMiddleware, scopeMW *middleware.ScopeMiddleware, rateLimiter *middleware.RateLimiter, h *Handlers) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(logger))
	r.Use(middleware.SecurityHeaders())

	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}))
	}
	if cfg.RateLimit.Enabled && rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")

	// identity
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.POST("/logout", h.Auth.Logout)
	api.GET("/user", authMW.Authenticate(), h.Auth.CurrentUser)

	authed := api.Group("", authMW.Authenticate(), scopeMW.ResolveCompanyScope())
	admin := api.Group("", authMW.Authenticate(), authMW.RequireAdmin(), scopeMW.ResolveCompanyScope())
	superadmin := api.Group("", authMW.Authenticate(), authMW.RequireSuperAdmin())

	// tenant management
	superadmin.GET("/companies", h.Companies.List)
	superadmin.POST("/companies", h.Companies.Create)
	superadmin.GET("/companies/:id", h.Companies.Get)
	superadmin.PATCH("/companies/:id", h.Companies.Update)
	superadmin.DELETE("/companies/:id", h.Companies.Delete)

	// branding
	authed.GET("/company-settings", h.Settings.Get)
	admin.PATCH("/company-settings", h.Settings.Update)

	// user management
	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.Create)
	admin.GET("/users/:id", h.Users.Get)
	admin.PATCH("/users/:id", h.Users.Update)
	admin.DELETE("/users/:id", h.Users.Delete)

	// documents
	authed.GET("/documents", h.Documents.List)
	authed.GET("/documents/:id", h.Documents.Get)
	authed.GET("/documents/:id/download", h.Documents.Download)
	admin.POST("/documents", h.Documents.Upload)
	admin.PATCH("/documents/:id", h.Documents.Update)
	admin.DELETE("/documents/:id", h.Documents.Delete)

	// surveys
	authed.POST("/survey", h.Surveys.SubmitResponse)
	admin.GET("/survey", h.Surveys.ListResponses)
	admin.GET("/survey/tally", h.Surveys.TallyResponses)
	authed.GET("/survey/templates", h.Surveys.ListTemplates)
	admin.POST("/survey/templates", h.Surveys.CreateTemplate)
	admin.POST("/survey/templates/generate", h.Surveys.GenerateQuestions)
	authed.GET("/survey/templates/:id", h.Surveys.GetTemplate)
	admin.PATCH("/survey/templates/:id", h.Surveys.UpdateTemplate)
	admin.DELETE("/survey/templates/:id", h.Surveys.DeleteTemplate)
	admin.POST("/survey/templates/:id/publish", h.Surveys.PublishTemplate)
	authed.GET("/survey/templates/:id/questions", h.Surveys.TemplateQuestions)
	admin.POST("/survey/templates/:id/questions", h.Surveys.AssignQuestion)
	admin.DELETE("/survey/templates/:id/questions/:questionId", h.Surveys.UnassignQuestion)
	admin.GET("/survey/questions", h.Surveys.ListQuestions)
	admin.POST("/survey/questions", h.Surveys.CreateQuestion)
	admin.PATCH("/survey/questions/:id", h.Surveys.UpdateQuestion)
	admin.DELETE("/survey/questions/:id", h.Surveys.DeleteQuestion)

	// calendar
	authed.GET("/events", h.Events.List)
	admin.POST("/events", h.Events.Create)
	admin.PATCH("/events/:id", h.Events.Update)
	admin.DELETE("/events/:id", h.Events.Delete)

	// chat
	authed.GET("/chat", h.Chat.History)
	authed.POST("/chat", h.Chat.Send)

	// notifications
	authed.GET("/notifications", h.Notifications.List)
	admin.POST("/notifications", h.Notifications.Create)
	authed.PATCH("/notifications/:id", h.Notifications.MarkRead)
	admin.DELETE("/notifications/:id", h.Notifications.Delete)

	// utilities
	authed.POST("/resize-image", h.Images.Resize)
	authed.GET("/website-content", h.Website.Content)
	authed.GET("/benefit-details/:id", h.Website.BenefitDetails)

	return r
}
