package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JDanielFV/erp/config"
	"github.com/JDanielFV/erp/controllers"
	"github.com/JDanielFV/erp/middleware"
	"github.com/JDanielFV/erp/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, push *utils.PushEngine) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	attendanceController := controllers.NewAttendanceController(db)
	notificationController := controllers.NewNotificationController(db, push)
	pushController := controllers.NewPushController(db, push)

	api := r.Group("/api/v1")

	// Badge scans arrive unauthenticated from kiosk devices; the IP rate
	// limiter is the abuse control on that surface.
	attendance := api.Group("/attendance")
	attendance.Use(middleware.RateLimitMiddleware())
	attendance.POST("", attendanceController.RecordEvent)
	attendance.GET("/:userId", attendanceController.GetDay)

	pushGroup := api.Group("/push")
	pushGroup.Use(middleware.RateLimitMiddleware())
	pushGroup.POST("/subscriptions", pushController.Subscribe)
	pushGroup.POST("/send", pushController.Send)

	notifications := api.Group("/notifications")
	notifications.POST("", notificationController.Create)
	notifications.GET("", notificationController.List)
	notifications.PATCH("/:id/read", notificationController.MarkRead)
	notifications.POST("/read-all", notificationController.MarkAllRead)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
