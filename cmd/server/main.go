package main

import (
	"log"

	_ "planboard/docs"
	"planboard/internal/config"
	"planboard/internal/server"
)

// @title           Planboard API
// @version         1.0
// @description     Role-scoped project management API with Kanban and Gantt views.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("server initialization failed: %v", err)
	}

	s.Run()
}
