// Package web serves the gated dashboard: login/logout backed by the
// session store, the dashboard page itself, and the JSON/CSV endpoints its
// scripts call. Data endpoints delegate to the admin handlers; only the
// authentication wrapper differs (session cookie instead of API key).
package web

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/leadserver/internal/http/admin"
	"winsbygroup.com/leadserver/internal/middleware"
	"winsbygroup.com/leadserver/static"
)

// Handler handles dashboard requests
type Handler struct {
	adminHandler *admin.Handler
}

// NewHandler creates a new web handler
func NewHandler(adminHandler *admin.Handler) *Handler {
	return &Handler{adminHandler: adminHandler}
}

// --------------------------
// Authentication
// --------------------------

// LoginPage renders the login form
func (h *Handler) LoginPage(c echo.Context) error {
	return servePage(c, "web/login.html")
}

// Login handles login form submission
func (h *Handler) Login(c echo.Context) error {
	apiKey := c.FormValue("api_key")

	if !middleware.ValidateAdminKey(apiKey) {
		// The login page shows an error banner when ?error=1 is present
		return c.Redirect(http.StatusFound, "/web/login?error=1")
	}

	// Create a new session (does NOT store the admin key in the cookie)
	sessionID := middleware.CreateSession()

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,                    // always true behind a TLS proxy
		SameSite: http.SameSiteStrictMode, // admin-only
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
	}
	c.SetCookie(cookie)

	return c.Redirect(http.StatusFound, "/web/")
}

// Logout clears the session cookie and deletes the server-side session
func (h *Handler) Logout(c echo.Context) error {
	// Delete server-side session
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if sessionID := cookie.Value; sessionID != "" {
			middleware.DeleteSession(sessionID)
		}
	}

	// Overwrite cookie with expired one
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	}
	c.SetCookie(cookie)

	return c.Redirect(http.StatusFound, "/web/login")
}

// --------------------------
// Dashboard
// --------------------------

// Dashboard renders the dashboard page
func (h *Handler) Dashboard(c echo.Context) error {
	return servePage(c, "web/dashboard.html")
}

// Export streams the filtered record set as CSV for the dashboard table
func (h *Handler) Export(c echo.Context) error {
	return h.adminHandler.ExportCustomers(c)
}

// Metrics returns the summary metrics block
func (h *Handler) Metrics(c echo.Context) error {
	return h.adminHandler.GetMetrics(c)
}

// MonthlyMetrics returns the customers-per-month series
func (h *Handler) MonthlyMetrics(c echo.Context) error {
	return h.adminHandler.GetMonthlyMetrics(c)
}

// Leads returns the external lead feed snapshot
func (h *Handler) Leads(c echo.Context) error {
	return h.adminHandler.GetLeads(c)
}

func servePage(c echo.Context, name string) error {
	page, err := static.Files.ReadFile(name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "page not available")
	}
	return c.HTMLBlob(http.StatusOK, page)
}
