package routes

import (
	"github.com/gin-gonic/gin"

	issuehandlers "sentra/internal/interfaces/http/handlers/issue"
	"sentra/internal/interfaces/http/middleware"
)

type IssueRouteConfig struct {
	IssueHandler   *issuehandlers.IssueHandler
	HubHandler     *issuehandlers.HubHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupIssueRoutes(engine *gin.Engine, config *IssueRouteConfig) {
	issues := engine.Group("/issues")
	issues.Use(config.AuthMiddleware.RequireAuth())
	{
		// Collection operations (no ID parameter)
		issues.POST("", config.IssueHandler.CreateIssue)
		issues.GET("", config.IssueHandler.ListIssues)

		// Specific action endpoints (must come BEFORE /:id to avoid conflicts)
		issues.GET("/:id/comments", config.IssueHandler.ListComments)
		issues.POST("/:id/comments", config.IssueHandler.AddComment)
		issues.PUT("/:id/update", config.IssueHandler.UpdateIssue)

		// Generic parameterized routes (must come LAST)
		issues.GET("/:id", config.IssueHandler.GetIssue)
	}

	// The websocket endpoint authenticates via the same middleware; browser
	// and mobile clients pass the token as ?token= since they cannot set
	// headers on the upgrade request.
	ws := engine.Group("/ws")
	ws.Use(config.AuthMiddleware.RequireAuth())
	{
		ws.GET("/threads", config.HubHandler.ThreadWS)
	}
}
