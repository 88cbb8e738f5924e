package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planboard/internal/config"
	"planboard/internal/handler"
	"planboard/internal/middleware"
	"planboard/internal/model"
	"planboard/internal/notify"
	"planboard/internal/repository"
	"planboard/internal/service"
	"planboard/internal/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine  *gin.Engine
	DB      *gorm.DB
	Config  *config.Config
	Log     *logrus.Logger
	sweeper *notify.Sweeper
}

func Init(cfg *config.Config) (*Server, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	log.Info("connected to database")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return nil, fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Team{},
		&model.Project{},
		&model.Task{},
		&model.TaskAssignee{},
		&model.TaskDependency{},
		&model.Comment{},
		&model.FinancialTransaction{},
		&model.Notification{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Setup Gin
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	financialRepo := repository.NewFinancialRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// View assembly and notification fanout
	assembler := view.NewAssembler(userRepo, teamRepo, projectRepo, taskRepo, commentRepo, financialRepo)
	hub := notify.NewHub(log)
	fanout := notify.NewFanout(notificationRepo, userRepo, teamRepo, projectRepo, hub, log)
	sweeper := notify.NewSweeper(taskRepo, notificationRepo, fanout,
		time.Duration(cfg.SweepIntervalMinutes)*time.Minute, log)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret,
		time.Duration(cfg.JWTExpiryHours)*time.Hour)
	taskService := service.NewTaskService(taskRepo, projectRepo, commentRepo, assembler, fanout)
	teamService := service.NewTeamService(teamRepo, userRepo)
	userService := service.NewUserService(userRepo, projectRepo, log)
	projectService := service.NewProjectService(projectRepo, teamRepo)
	financialService := service.NewFinancialService(financialRepo, projectRepo)
	searchService := service.NewSearchService(projectRepo, taskRepo, commentRepo, assembler)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	bootstrapHandler := handler.NewBootstrapHandler(assembler, sweeper)
	taskHandler := handler.NewTaskHandler(taskService)
	teamHandler := handler.NewTeamHandler(teamService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	financialHandler := handler.NewFinancialHandler(financialService)
	searchHandler := handler.NewSearchHandler(searchService)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	wsHandler := handler.NewWSHandler(hub, cfg.CORSAllowedOrigins, log)

	// Public routes
	r.POST("/login", authHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/bootstrap", bootstrapHandler.Bootstrap)
		authorized.GET("/search", searchHandler.Search)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.POST("/tasks/bulk-update", taskHandler.BulkUpdate)
		authorized.POST("/tasks/:id/comments", taskHandler.AddComment)

		// Team routes
		authorized.POST("/teams", teamHandler.Create)
		authorized.PUT("/teams/:id", teamHandler.Update)
		authorized.DELETE("/teams/:id", teamHandler.Delete)
		authorized.GET("/teams/:id/members", teamHandler.Members)
		authorized.POST("/teams/:id/members", teamHandler.AddMembers)
		authorized.DELETE("/teams/:id/members/:user_id", teamHandler.RemoveMember)

		// User routes
		authorized.POST("/users", userHandler.Create)
		authorized.PUT("/users/:id", userHandler.Update)
		authorized.DELETE("/users/:id", userHandler.Delete)

		// Guest routes
		authorized.POST("/guests", userHandler.InviteGuest)
		authorized.DELETE("/guests/:id", userHandler.RevokeGuest)

		// Project routes
		authorized.POST("/projects", projectHandler.Create)
		authorized.DELETE("/projects/:id", projectHandler.Delete)

		// Financial routes
		authorized.POST("/financials", financialHandler.Create)

		// Notification routes
		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.GET("/ws", wsHandler.Connect)
	}

	return &Server{
		Engine:  r,
		DB:      db,
		Config:  cfg,
		Log:     log,
		sweeper: sweeper,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	s.sweeper.Start()

	go func() {
		s.Log.Infof("server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Log.Fatalf("failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info("shutting down server...")

	s.sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Fatalf("server forced to shutdown: %s", err)
	}

	s.Log.Info("server exited properly")
}
