package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	"github.com/BruksfildServices01/petcare-scheduler/internal/config"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/handlers"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/middleware"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/usecase/materialize"
	ucReminder "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/reminder"
	ucSchedule "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/schedule"
	ucSession "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/session"
)

// Deps are the singletons shared by every route.
type Deps struct {
	Config       *config.Config
	Log          *zap.Logger
	Store        store.Store
	Cache        *cache.Availability
	Audit        *audit.Dispatcher
	Materializer *materialize.Materializer
	Clock        timezone.Clock
	// DB backs the audit log listing; nil with the memory store.
	DB *gorm.DB
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	clock := d.Clock
	if clock == nil {
		clock = timezone.SystemClock
	}

	// ======================================================
	// USE CASES: SCHEDULES
	// ======================================================
	activateScheduleUC := ucSchedule.NewActivateSchedule(d.Store, d.Audit, d.Cache, clock, d.Materializer)

	scheduleHandler := handlers.NewScheduleHandler(
		ucSchedule.NewCreateSchedule(d.Store, d.Audit, clock, activateScheduleUC),
		ucSchedule.NewUpdateSchedule(d.Store, d.Audit, clock),
		activateScheduleUC,
		ucSchedule.NewCancelSchedule(d.Store, d.Audit, d.Cache, clock),
		ucSchedule.NewDeleteSchedule(d.Store, d.Audit, clock),
		ucSchedule.NewGetSchedule(d.Store),
		ucSchedule.NewListSchedules(d.Store),
	)

	// ======================================================
	// USE CASES: SESSIONS
	// ======================================================
	sessionHandler := handlers.NewSessionHandler(
		ucSession.NewCreateSession(d.Store, d.Audit, d.Cache, clock),
		ucSession.NewGetSession(d.Store),
		ucSession.NewSearchSessions(d.Store, d.Cache),
		ucSession.NewStartSession(d.Store, d.Audit, d.Cache, clock),
		ucSession.NewCompleteSession(d.Store, d.Audit, d.Cache, clock),
		ucSession.NewCancelSession(d.Store, d.Audit, d.Cache, clock),
		ucAppointment.NewListSessionAppointments(d.Store),
	)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewBookAppointment(d.Store, d.Audit, d.Cache, clock),
		ucAppointment.NewAttendAppointment(d.Store, d.Audit, clock),
		ucAppointment.NewCompleteAppointment(d.Store, d.Audit, clock),
		ucAppointment.NewCancelAppointment(d.Store, d.Audit, d.Cache, clock),
		ucAppointment.NewListMyAppointments(d.Store),
	)

	// ======================================================
	// USE CASES: REMINDERS
	// ======================================================
	reminderHandler := handlers.NewReminderHandler(
		ucReminder.NewCreateReminder(d.Store, d.Audit, clock),
		ucReminder.NewListReminders(d.Store),
	)

	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	bookingLimiter := middleware.NewRateLimiter(d.Config.BookingRatePerMinute)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(d.Config))
	{
		schedules := api.Group("/schedules")
		{
			schedules.POST("", scheduleHandler.Create)
			schedules.GET("", scheduleHandler.List)
			schedules.GET("/:id", scheduleHandler.Get)
			schedules.PUT("/:id", scheduleHandler.Update)
			schedules.PATCH("/:id/activate", scheduleHandler.Activate)
			schedules.PATCH("/:id/cancel", scheduleHandler.Cancel)
			schedules.DELETE("/:id", scheduleHandler.Delete)
		}

		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandler.Create)
			sessions.GET("", sessionHandler.Search)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.GET("/:id/appointments", sessionHandler.Appointments)
			sessions.PATCH("/:id/start", sessionHandler.Start)
			sessions.PATCH("/:id/complete", sessionHandler.Complete)
			sessions.PATCH("/:id/cancel", sessionHandler.Cancel)
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("", bookingLimiter.Middleware(log), appointmentHandler.Book)
			appointments.GET("/mine", appointmentHandler.Mine)
			appointments.PATCH("/:id/attend", appointmentHandler.Attend)
			appointments.PATCH("/:id/complete", appointmentHandler.Complete)
			appointments.PATCH("/:id/cancel", appointmentHandler.Cancel)
			appointments.GET("/:id/reminders", reminderHandler.ForAppointment)
		}

		api.POST("/reminders", reminderHandler.Create)

		if d.DB != nil {
			api.GET("/audit-logs", handlers.NewAuditLogsHandler(d.DB).List)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		httperr.NotFoundResponse(c, "route_not_found", "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})
}
