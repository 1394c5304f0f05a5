package main

import "github.com/SscSPs/site_workflow_app/internal/cli"

// @title Site Workflow Backend API
// @version 1.0
// @description Task lifecycle, settlement and access control for construction projects.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cli.Execute()
}
