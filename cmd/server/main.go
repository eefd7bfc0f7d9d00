package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/trainingcenter/task-service/internal/config"
	"github.com/trainingcenter/task-service/internal/constants"
	"github.com/trainingcenter/task-service/internal/database"
	"github.com/trainingcenter/task-service/internal/handlers"
	"github.com/trainingcenter/task-service/internal/logger"
	"github.com/trainingcenter/task-service/internal/middleware"
	"github.com/trainingcenter/task-service/internal/repository"
	"github.com/trainingcenter/task-service/internal/services"
)

const (
	maintenanceTimeout = 30 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := newLogger(cfg)
	if closer, ok := appLog.(interface{ Close() }); ok {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	taskRepo, projectRepo, closeStore := openStore(ctx, cfg)
	defer closeStore()

	taskService := services.NewTaskService(taskRepo, projectRepo, appLog, cfg.Location)
	projectService := services.NewProjectService(projectRepo)

	// Daily maintenance job
	scheduler := services.NewSchedulerService(cfg.Location, appLog, maintenanceTimeout)
	if cfg.MaintenanceEnabled {
		id, err := scheduler.ScheduleDaily("daily-maintenance", cfg.MaintenanceTime, func(ctx context.Context) error {
			_, err := taskService.RunDailyMaintenance(ctx)
			return err
		})
		if err != nil {
			log.Fatalf("Failed to schedule maintenance: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		appLog.Info("maintenance scheduled", cfg.MaintenanceTime, scheduler.Next(id).String())
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)
	r := gin.Default()
	r.Use(sessions.Sessions(constants.SessionName, newSessionStore(cfg)))

	taskHandler := handlers.NewTaskHandler(taskService, cfg.Location)
	projectHandler := handlers.NewProjectHandler(projectService)
	maintenanceHandler := handlers.NewMaintenanceHandler(taskService)

	// Health check endpoint
	r.GET("/health", handlers.Health)

	// API routes
	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireTaskAccess(taskService), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireTaskAccess(taskService), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(taskService), taskHandler.DeleteTask)
			tasks.POST("/:id/assign", middleware.RequireTaskAccess(taskService), taskHandler.AssignTask)
			tasks.POST("/:id/unassign", middleware.RequireTaskAccess(taskService), taskHandler.UnassignTask)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", middleware.RequireAdmin(), projectHandler.CreateProject)
			projects.GET("/:id", middleware.RequireProject(projectService), projectHandler.GetProject)
			projects.PUT("/:id", middleware.RequireAdmin(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireAdmin(), projectHandler.DeleteProject)
		}

		api.POST("/maintenance/run", middleware.RequireAdmin(), maintenanceHandler.RunMaintenance)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown failed", err)
	}
}

// newLogger reports to Rollbar when a token is configured
func newLogger(cfg *config.Config) logger.Logger {
	std := log.New(os.Stdout, "", log.LstdFlags)
	if cfg.RollbarToken == "" {
		return logger.NewStdLogger(std)
	}

	host, _ := os.Hostname()
	rl := logger.NewRollbarLogger(std, logger.RollbarConfig{
		Token:       cfg.RollbarToken,
		Environment: cfg.AppEnv,
		ServerHost:  host,
	})
	rl.Enable(true)
	return rl
}

// openStore connects the configured backend and returns its repositories
func openStore(ctx context.Context, cfg *config.Config) (repository.TaskRepository, repository.ProjectRepository, func()) {
	if cfg.DBDriver == "mongo" {
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			log.Fatalf("Failed to create MongoDB indexes: %v", err)
		}

		tasks := db.Collection(database.TasksCollection)
		projects := db.Collection(database.ProjectsCollection)
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Printf("Failed to disconnect MongoDB: %v", err)
			}
		}
		return repository.NewMongoTaskRepository(tasks), repository.NewMongoProjectRepository(projects, tasks), closeFn
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return repository.NewTaskRepository(db), repository.NewProjectRepository(db), closeFn
}

// newSessionStore opens the session store shared with the authentication service
func newSessionStore(cfg *config.Config) sessions.Store {
	var store sessions.Store
	if cfg.SessionStore == "redis" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,                        // Redis pool size
			"tcp",                     // network type
			redisAddr,                 // Redis address from config
			"",                        // password (empty = no password)
			[]byte(cfg.SessionSecret), // authentication key
		)
		if err != nil {
			log.Fatalf("Failed to create Redis store: %v", err)
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	// Configure session options based on environment
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
