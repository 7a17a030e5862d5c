package web

import "github.com/labstack/echo/v4"

func RegisterRoutes(g *echo.Group, h *Handler) {

	// Authentication
	g.GET("/login", h.LoginPage)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)

	// Dashboard page
	g.GET("/", h.Dashboard)

	// Data endpoints the dashboard scripts call (session-gated)
	g.GET("/export", h.Export)
	g.GET("/metrics", h.Metrics)
	g.GET("/metrics/monthly", h.MonthlyMetrics)
	g.GET("/leads", h.Leads)
}
