package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/baladia/fieldops-api/internal/middleware"
	"github.com/baladia/fieldops-api/internal/models"
	"github.com/baladia/fieldops-api/internal/service"
)

// Handlers groups the HTTP surface for route registration.
type Handlers struct {
	Attendance *AttendanceHandler
	Tasks      *TaskHandler
	Appeals    *AppealHandler
	Zones      *ZoneHandler
	Reports    *ReportHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts all API routes under the configured prefix.
// Observability endpoints stay outside the prefix and the JWT guard.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService, metrics *service.MetricsService, logger *zap.Logger) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.Metrics(metrics))
	api.Use(middleware.JWT(auth))

	supervisors := middleware.RequireRoles(models.RoleSupervisor, models.RoleAdmin)
	admins := middleware.RequireRoles(models.RoleAdmin)

	attendance := api.Group("/attendance")
	{
		attendance.POST("/check-in", h.Attendance.CheckIn)
		attendance.POST("/manual", h.Attendance.ManualCheckIn)
		attendance.POST("/check-out", h.Attendance.CheckOut)
		attendance.GET("/today", h.Attendance.Today)
		attendance.GET("/history", h.Attendance.History)

		attendance.GET("/manual/pending", supervisors, h.Attendance.PendingManual)
		attendance.POST("/manual/:id/resolve", supervisors,
			middleware.Audit(logger, "resolve", "attendance_manual"), h.Attendance.ResolveManual)
	}

	tasks := api.Group("/tasks")
	{
		tasks.POST("/:id/complete", h.Tasks.Complete)
		tasks.PATCH("/:id/progress", h.Tasks.Progress)

		tasks.POST("/:id/extend", supervisors,
			middleware.Audit(logger, "extend", "task"), h.Tasks.Extend)
		tasks.POST("/:id/reset", supervisors,
			middleware.Audit(logger, "reset", "task"), h.Tasks.Reset)
		tasks.GET("/location-warnings", supervisors, h.Tasks.LocationWarnings)
	}

	appeals := api.Group("/appeals")
	{
		appeals.POST("", h.Appeals.Submit)
		appeals.GET("/pending", supervisors, h.Appeals.Pending)
		appeals.POST("/:id/review", supervisors,
			middleware.Audit(logger, "review", "appeal"), h.Appeals.Review)
	}

	zones := api.Group("/zones")
	{
		zones.POST("/import", admins,
			middleware.Audit(logger, "import", "zone"), h.Zones.Import)
		zones.POST("/validate-location", h.Zones.ValidateLocation)
	}

	api.GET("/reports/attendance", supervisors, h.Reports.AttendancePDF)
}
