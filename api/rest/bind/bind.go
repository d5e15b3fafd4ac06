package bind

import (
	"github.com/labstack/echo/v4"
	authctl "github.com/maintdesk/maintdesk/api/rest/controller/auth"
	reportctl "github.com/maintdesk/maintdesk/api/rest/controller/report"
	taskctl "github.com/maintdesk/maintdesk/api/rest/controller/task"
	userctl "github.com/maintdesk/maintdesk/api/rest/controller/user"
	"github.com/maintdesk/maintdesk/api/rest/middleware"
	"github.com/maintdesk/maintdesk/internal/models"
)

// All binds every REST endpoint to the versioned group.
func All(g *echo.Group) {
	g.POST("/auth/login", authctl.Login)

	authed := g.Group("", middleware.Authenticate)

	// session
	{
		authed.GET("/auth/me", authctl.Me)
		authed.PUT("/auth/me", authctl.UpdateMe)
	}

	// tasks
	{
		authed.GET("/tasks", taskctl.List)
		authed.GET("/tasks/stats", taskctl.Stats, middleware.Require(models.RoleSupervisor))
		authed.GET("/tasks/:id", taskctl.Get)
		authed.POST("/tasks", taskctl.Post, middleware.Require(models.RoleSupervisor))
		authed.PUT("/tasks/:id", taskctl.Put, middleware.Require(models.RoleSupervisor))
		authed.PATCH("/tasks/:id/status", taskctl.Status)
		authed.PATCH("/tasks/:id/assign", taskctl.Assign, middleware.Require(models.RoleSupervisor))
		authed.DELETE("/tasks/:id", taskctl.Delete, middleware.Require(models.RoleAdmin))
		authed.GET("/tasks/:id/notes", taskctl.Notes)
		authed.POST("/tasks/:id/notes", taskctl.PostNote)
		authed.GET("/tasks/:id/attachments", taskctl.Attachments)
		authed.POST("/tasks/:id/attachments", taskctl.PostAttachment)
	}

	// users
	{
		users := authed.Group("/users", middleware.Require(models.RoleAdmin))
		users.GET("", userctl.List)
		users.GET("/:id", userctl.Get)
		users.POST("", userctl.Post)
		users.PUT("/:id", userctl.Put)
		users.DELETE("/:id", userctl.Delete)
		users.PATCH("/:id/activate", userctl.Activate)
		users.PATCH("/:id/deactivate", userctl.Deactivate)
	}

	// reports
	{
		authed.GET("/reports/dashboard", reportctl.Dashboard, middleware.Require(models.RoleSupervisor))
		authed.GET("/reports/performance", reportctl.Performance)
		authed.GET("/reports/export", reportctl.Export, middleware.Require(models.RoleSupervisor))
	}
}
