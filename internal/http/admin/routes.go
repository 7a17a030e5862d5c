package admin

import "github.com/labstack/echo/v4"

func RegisterRoutes(g *echo.Group, h *Handler) {

	// Customers
	g.GET("/customers", h.GetCustomers)
	g.GET("/customers/export", h.ExportCustomers)

	// Metrics
	g.GET("/metrics", h.GetMetrics)
	g.GET("/metrics/monthly", h.GetMonthlyMetrics)

	// External lead feed
	g.GET("/leads", h.GetLeads)

	// Backup
	g.POST("/backup", h.BackupDatabase)
}
