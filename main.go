package main

import (
	"github.com/JDanielFV/erp/config"
	"github.com/JDanielFV/erp/models"
	"github.com/JDanielFV/erp/routes"
	"github.com/JDanielFV/erp/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.AttendanceRecord{}, &models.Notification{}, &models.PushSubscription{})

	push := utils.NewPushEngine(db, cfg)
	r := routes.SetupRouter(db, push)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
