package intake

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires the public intake endpoints under the given Echo
// group. No authentication applies here; the intake path is open by design.
func RegisterRoutes(g *echo.Group, h *Handler) {

	// JSON API used by integrations
	g.POST("/customers", h.CreateCustomer)

	// Form submission from the embedded capture page
	g.POST("/intake", h.IntakeForm)
}
