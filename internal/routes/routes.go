package routes

import (
	"net/http"

	"school-attendance-api/internal/auth"
	"school-attendance-api/internal/handlers"
	"school-attendance-api/internal/kiosk"
	"school-attendance-api/internal/middleware"
	"school-attendance-api/internal/models"
	"school-attendance-api/internal/realtime"
	"school-attendance-api/internal/remote"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Tokens *auth.TokenManager
	Hub    *realtime.Hub
	Clock  handlers.Clock

	// Kiosk enables the kiosk API.
	Kiosk *kiosk.Service

	// Central mode only. A nil DB serves the kiosk API alone, with login
	// delegated to the central server.
	DB      *gorm.DB
	Central *remote.GormStore
	Caches  *handlers.Caches
}

func SetupRoutes(deps Deps) *gin.Engine {
	if deps.Hub == nil {
		deps.Hub = realtime.NewHub()
	}
	if deps.DB != nil {
		if deps.Central == nil {
			deps.Central = remote.NewGormStore(deps.DB)
		}
		if deps.Caches == nil {
			deps.Caches = handlers.NewCaches(nil)
		}
	}

	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	mode := "kiosk"
	if deps.DB != nil {
		mode = "central"
	}
	ginRouter.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"mode":    mode,
			"message": "School Attendance API is running",
		}
		if deps.Kiosk != nil {
			body["sync"] = deps.Kiosk.Status()
		}
		c.JSON(http.StatusOK, body)
	})

	api := ginRouter.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(deps.Tokens))

	if deps.Kiosk != nil {
		kh := handlers.NewKioskHandler(deps.Kiosk, deps.Hub)
		k := protected.Group("/kiosk")
		k.Use(middleware.RequireRole(models.RoleKiosk, models.RoleAdmin, models.RoleSupervisor))
		{
			k.POST("/checkin", kh.CheckIn)
			k.GET("/status", kh.Status)
			k.POST("/preload", kh.Preload)
			k.POST("/sync", kh.Sync)
			k.GET("/queue", kh.Queue)
			k.GET("/ws", handlers.WebSocketHandler(deps.Hub, realtime.TopicKioskStatus, kh.SendStatus))
		}
	}

	if deps.DB != nil {
		setupCentral(api, protected, deps)
	}

	return ginRouter
}

func setupCentral(api, protected *gin.RouterGroup, deps Deps) {
	deps.Central.OnInsert = handlers.AttendanceFeed(deps.Hub, deps.Caches)

	authH := &handlers.AuthHandler{DB: deps.DB, Tokens: deps.Tokens}
	users := &handlers.UserHandler{DB: deps.DB}
	students := &handlers.StudentHandler{DB: deps.DB, Caches: deps.Caches}
	attendance := &handlers.AttendanceHandler{DB: deps.DB, Clock: deps.Clock}
	stats := &handlers.StatsHandler{DB: deps.DB, Caches: deps.Caches, Clock: deps.Clock}
	settings := &handlers.SettingsHandler{DB: deps.DB, Caches: deps.Caches}
	syncH := &handlers.SyncHandler{Store: deps.Central, Clock: deps.Clock}

	// Public routes (no authentication required)
	api.POST("/login", authH.Login)

	staff := protected.Group("")
	staff.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor))
	{
		staff.GET("/students", students.GetStudents)
		staff.GET("/students/:id", students.GetStudentByID)
		staff.GET("/students/:id/attendance", attendance.GetStudentAttendance)
		staff.GET("/attendance", attendance.GetAttendanceByDate)
		staff.GET("/attendance/ws", handlers.WebSocketHandler(deps.Hub, realtime.TopicAttendance, nil))
		staff.GET("/stats/dashboard", stats.GetDashboardStats)
		staff.GET("/settings", settings.GetSettings)
	}

	admin := protected.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/students", students.CreateStudent)
		admin.PUT("/students/:id", students.UpdateStudent)
		admin.DELETE("/students/:id", students.DeleteStudent)
		admin.PUT("/settings", settings.UpdateSettings)
		admin.GET("/users", users.GetAllUsers)
		admin.POST("/users", users.CreateUser)
		admin.GET("/cache/stats", handlers.CacheStatsHandler(deps.Caches))
	}

	syncAPI := protected.Group("/sync")
	syncAPI.Use(middleware.RequireRole(models.RoleKiosk, models.RoleAdmin))
	{
		syncAPI.GET("/roster", syncH.Roster)
		syncAPI.GET("/attendance/today", syncH.TodayAttendance)
		syncAPI.GET("/config", syncH.Config)
		syncAPI.POST("/attendance", syncH.InsertAttendance)
	}
}
