package docs

import "github.com/swaggo/swag"

// @title           Planboard API
// @version         1.0
// @description     Role-scoped project management API serving Kanban and Gantt clients
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@planboard.dev

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Auth
// @tag.description Authentication operations

// @tag.name Bootstrap
// @tag.description Initial role-scoped data load

// @tag.name Tasks
// @tag.description Task management operations

// @tag.name Teams
// @tag.description Team management operations

// @tag.name Users
// @tag.description User management operations

// @tag.name Guests
// @tag.description Guest invitation operations

// @tag.name Projects
// @tag.description Project management operations

// @tag.name Financials
// @tag.description Financial tracking operations

// @tag.name Notifications
// @tag.description Notification operations

// @tag.name Search
// @tag.description Cross-entity search

// Register swagger info
func SwaggerInfo() *swag.Spec {
	return swag.Instance
}
