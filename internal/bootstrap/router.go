package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/ctrl-alt-vibe/vibe-backend/config"
	httpapi "github.com/ctrl-alt-vibe/vibe-backend/internal/api/http"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/api/http/middleware"
	authhttp "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/http"
	authmw "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/middleware"
	authrepo "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/repository"
	authsvc "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/service"
	bloghttp "github.com/ctrl-alt-vibe/vibe-backend/internal/blog/http"
	blogrepo "github.com/ctrl-alt-vibe/vibe-backend/internal/blog/repository"
	blogsvc "github.com/ctrl-alt-vibe/vibe-backend/internal/blog/service"
	commenthttp "github.com/ctrl-alt-vibe/vibe-backend/internal/comments/http"
	commentrepo "github.com/ctrl-alt-vibe/vibe-backend/internal/comments/repository"
	commentsvc "github.com/ctrl-alt-vibe/vibe-backend/internal/comments/service"
	cronjob "github.com/ctrl-alt-vibe/vibe-backend/internal/cron"
	notifhttp "github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/http"
	notifrepo "github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/repository"
	notifsvc "github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/service"
	projecthttp "github.com/ctrl-alt-vibe/vibe-backend/internal/projects/http"
	projectrepo "github.com/ctrl-alt-vibe/vibe-backend/internal/projects/repository"
	projectsvc "github.com/ctrl-alt-vibe/vibe-backend/internal/projects/service"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/evaluator"
	vibehttp "github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/http"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/report"
	viberepo "github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/repository"
	vibesvc "github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/service"
)

const ServiceName = "ctrl-alt-vibe-api"

type RouterDeps struct {
	Config *config.Config
	DB     *sql.DB
	Gorm   *gorm.DB
	Redis  *redis.Client
	// Verifier checks Firebase ID tokens; nil is allowed with AUTH_DEV_BYPASS.
	Verifier authmw.TokenVerifier
	// Registry receives HTTP metrics; a fresh one is created when nil.
	Registry *prometheus.Registry
}

// App is the wired HTTP router plus the background jobs its services need.
type App struct {
	Router *gin.Engine
	Jobs   []cronjob.Job

	onShutdown []func()
}

// Close releases long-lived handlers such as notification streams.
func (a *App) Close() {
	for _, fn := range a.onShutdown {
		fn()
	}
}

func BuildRouter(dep RouterDeps) *App {
	cfg := dep.Config
	reg := dep.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.NewMetrics(reg).Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID, "X-User-Id"},
		ExposeHeaders:    []string{middleware.HeaderRequestID, "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	httpapi.NewHealthHandler(ServiceName, cfg.App.Version, dep.DB, dep.Redis).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// notifications first: projects and comments publish through it
	notifications := notifsvc.NewNotificationService(
		notifrepo.NewNotificationRepository(dep.DB),
		notifrepo.NewPublisher(dep.Redis),
	)

	users := authsvc.NewAuthService(authrepo.NewUserRepository(dep.DB))
	projects := projectsvc.NewProjectService(
		projectrepo.NewProjectRepository(dep.DB),
		projectrepo.NewViewTracker(dep.Redis),
		notifications,
		cfg.Server.PublicBaseURL,
	)
	comments := commentsvc.NewCommentService(commentrepo.NewCommentRepository(dep.DB), notifications)
	blog := blogsvc.NewBlogService(blogrepo.NewBlogRepository(dep.Gorm))

	var eval vibesvc.Evaluator
	if cfg.OpenAI.APIKey != "" {
		eval = evaluator.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}
	vibeChecks := vibesvc.NewVibeCheckService(
		viberepo.NewVibeCheckRepository(dep.DB),
		viberepo.NewEvaluationCache(dep.Redis),
		eval,
	)

	globalLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	vibeLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.VibeCheckPerMinute/60), cfg.RateLimit.VibeCheckBurst)
	authn := authmw.NewAuthenticator(dep.Verifier, users, cfg.Firebase.DevBypass)

	api := r.Group("/api", authn.OptionalAuth(), globalLimiter.Middleware("api:"))
	authed := api.Group("", authn.RequireAuth())
	admin := api.Group("/admin", authn.RequireAuth(), authmw.RequireAdmin())

	authHandler := authhttp.New(users)
	authHandler.Register(authed.Group("/auth"))
	authHandler.RegisterPublic(api.Group("/users"))

	projectHandler := projecthttp.New(projects, users)
	projectHandler.RegisterPublic(api)
	projectHandler.Register(authed)
	projectHandler.RegisterAdmin(admin)

	commentHandler := commenthttp.New(comments)
	commentHandler.RegisterPublic(api)
	commentHandler.Register(authed)

	notifHandler := notifhttp.New(notifications)
	notifHandler.Register(authed.Group("/notifications"))

	blogHandler := bloghttp.New(blog)
	blogHandler.RegisterPublic(api.Group("/blog"))
	blogHandler.RegisterAdmin(admin.Group("/blog"))

	vibeHandler := vibehttp.New(vibeChecks, report.Render)
	vibeHandler.RegisterPublic(api, vibeLimiter.Middleware("vibe:"))
	vibeHandler.Register(authed)

	jobs := []cronjob.Job{
		cronjob.SweepJob("api", globalLimiter),
		cronjob.SweepJob("vibe-check", vibeLimiter),
	}
	jobs = append(jobs, cronjob.RetentionJobs(cfg.Scheduler, notifications, vibeChecks)...)

	return &App{Router: r, Jobs: jobs, onShutdown: []func(){notifHandler.Close}}
}
