package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/acadrec/acadrec-backend/internal/config"
	"github.com/acadrec/acadrec-backend/internal/handler"
	"github.com/acadrec/acadrec-backend/internal/middleware"
	"github.com/acadrec/acadrec-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student     *handler.StudentHandler
	Subject     *handler.SubjectHandler
	Semester    *handler.SemesterHandler
	Enrollment  *handler.EnrollmentHandler
	Grade       *handler.GradeHandler
	Performance *handler.PerformanceHandler
	WS          *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the expensive endpoints (sheet import, cohort batch).
	heavyLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := router.Group("/api/v1")
	{
		// ─── Students ──────────────────────────────────────────────────
		students := api.Group("/students")
		{
			students.POST("", handlers.Student.Register)
			students.GET("", handlers.Student.GetAll)
			students.GET("/:roll_no", handlers.Student.Get)
			students.PUT("/:roll_no", handlers.Student.Update)
			students.DELETE("/:roll_no", handlers.Student.Delete)

			// Per-student read surfaces
			students.GET("/:roll_no/enrollments", handlers.Enrollment.ListForStudent)
			students.DELETE("/:roll_no/enrollments/:code", handlers.Enrollment.Remove)
			students.GET("/:roll_no/grades", handlers.Grade.GetStudentGrades)
			students.GET("/:roll_no/grades/history", handlers.Grade.GetHistory)
			students.GET("/:roll_no/indices", handlers.Performance.GetIndices)
			students.GET("/:roll_no/report", handlers.Performance.GetReport)
			students.GET("/:roll_no/report/pdf", handlers.Performance.GetReportPDF)
		}

		// ─── Subjects ──────────────────────────────────────────────────
		subjects := api.Group("/subjects")
		{
			subjects.POST("", handlers.Subject.Create)
			subjects.GET("", handlers.Subject.GetAll)
			subjects.GET("/:code", handlers.Subject.Get)
			subjects.PUT("/:code", handlers.Subject.Update)
			subjects.DELETE("/:code", handlers.Subject.Delete)
		}

		// ─── Semesters ─────────────────────────────────────────────────
		semesters := api.Group("/semesters")
		{
			semesters.POST("", handlers.Semester.Create)
			semesters.GET("", handlers.Semester.GetAll)
			semesters.POST("/start", handlers.Semester.StartNew)
			semesters.GET("/:sem_no/:year", handlers.Semester.Get)
			semesters.PUT("/:sem_no/:year", handlers.Semester.Update)
		}

		// ─── Enrollments ───────────────────────────────────────────────
		api.POST("/enrollments", handlers.Enrollment.Enroll)

		// ─── Grades ────────────────────────────────────────────────────
		grades := api.Group("/grades")
		{
			grades.POST("", handlers.Grade.Record)
			grades.POST("/upload", heavyLimiter.Middleware(), handlers.Grade.Upload)
			grades.GET("/:roll_no/:code", handlers.Grade.GetCurrent)
			grades.GET("/:roll_no/:code/history", handlers.Grade.GetKeyHistory)
		}

		// ─── Performance ───────────────────────────────────────────────
		performance := api.Group("/performance")
		{
			performance.POST("/spi", handlers.Performance.ComputeSPI)
			performance.POST("/cpi", handlers.Performance.ComputeCPI)
			performance.POST("/batch", heavyLimiter.Middleware(), handlers.Performance.BatchCompute)
		}
	}

	// ─── WebSocket ─────────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/batches/:job_id/progress", handlers.WS.BatchProgressStream)
	}

	return router
}
