package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pmrs/internal/config"
	"pmrs/internal/middleware"
	"pmrs/internal/service"
	"pmrs/pkg/auth"
	"pmrs/pkg/metrics"
)

type Services struct {
	Patients *service.PatientService
	Auth     *service.AuthService
	Export   *service.ExportService
	Report   *service.ReportService
}

// NewRouter assembles the gin engine: middleware chain, health and metrics
// endpoints, and the versioned API.
func NewRouter(cfg *config.Config, svcs Services, jwtManager *auth.JWTManager, m *metrics.Collector, log *zap.Logger) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.RateLimit(cfg.RateLimit))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	patientH := NewPatientHandler(svcs.Patients)
	authH := NewAuthHandler(svcs.Auth)
	exportH := NewExportHandler(svcs.Export)
	reportH := NewReportHandler(svcs.Report)
	calendarH := NewCalendarHandler()

	api := r.Group("/api/v1")

	// The day-values endpoint is public: the form needs it before login.
	api.GET("/calendar/:year/:month/days", calendarH.DayValues)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimit(cfg.RateLimit))
	{
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/refresh", authH.Refresh)
	}
	api.POST("/auth/password", middleware.Auth(jwtManager), authH.ChangePassword)

	authed := api.Group("")
	authed.Use(middleware.Auth(jwtManager))
	{
		authed.GET("/patients", patientH.List)
		authed.GET("/patients/:id", patientH.Get)
		authed.GET("/patients/export", exportH.Export)
		authed.GET("/reports/patients", reportH.PatientReport)

		mutating := authed.Group("")
		mutating.Use(middleware.RequireWriteRole())
		{
			mutating.POST("/patients", patientH.Create)
			mutating.PATCH("/patients/:id", patientH.Update)
			mutating.DELETE("/patients/:id", patientH.Delete)
			mutating.POST("/patients/import", exportH.Import)
		}
	}

	return r
}
