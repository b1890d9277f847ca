package app

import (
	"fmt"
	"log"

	"github.com/examstack/examstack-api/api"
	"github.com/examstack/examstack-api/config"
	"github.com/examstack/examstack-api/database"
	"github.com/examstack/examstack-api/router"
	"github.com/examstack/examstack-api/services/cron"
	"github.com/examstack/examstack-api/utils/middleware"
)

func SetupAndRunServer() error {
	if err := config.LoadENV(); err != nil {
		return err
	}

	cfg, err := config.Get()
	if err != nil {
		return err
	}

	store, err := database.StartGORM(cfg)
	if err != nil {
		log.Println("Check whether Postgres is running and DB_* variables are set")
		return err
	}

	if err := store.Init(); err != nil {
		log.Println("Failed to initialize database tables")
		return err
	}

	var cronManager *cron.CronManager
	if cfg.CronEnabled {
		cronManager = cron.NewCronManager(store.GetDB())
		if err := cronManager.Start(); err != nil {
			// Maintenance jobs are not worth failing startup over.
			log.Printf("Warning: failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	server := api.NewAPIServer(fmt.Sprintf(":%d", cfg.Port))
	app := server.GetEngine()

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins: cfg.AllowedOrigins,
	})

	router.SetupRoutes(app, store, cfg)

	return server.Run()
}
