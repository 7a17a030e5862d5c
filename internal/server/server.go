package server

import (
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	mwecho "github.com/labstack/echo/v4/middleware"
	mwsvc "winsbygroup.com/leadserver/internal/middleware"

	"winsbygroup.com/leadserver/internal/backup"
	"winsbygroup.com/leadserver/internal/bling"
	"winsbygroup.com/leadserver/internal/config"
	"winsbygroup.com/leadserver/internal/customer"
	"winsbygroup.com/leadserver/internal/demodata"
	"winsbygroup.com/leadserver/internal/metrics"
	"winsbygroup.com/leadserver/internal/sqlite"
	"winsbygroup.com/leadserver/static"

	adminhttp "winsbygroup.com/leadserver/internal/http/admin"
	intakehttp "winsbygroup.com/leadserver/internal/http/intake"
	webhttp "winsbygroup.com/leadserver/internal/http/web"
)

type Server struct {
	Echo *echo.Echo
	HTTP *http.Server
	DB   *sqlx.DB
}

func Build(cfg *config.Config) (*Server, error) {
	//
	// Validate required environment variables
	//
	if os.Getenv("ADMIN_API_KEY") == "" {
		return nil, errors.New("ADMIN_API_KEY environment variable is required")
	}

	identityMode, err := customer.ParseIdentityMode(cfg.IdentityMode)
	if err != nil {
		return nil, err
	}

	//
	// Database
	//
	isNewDB := false
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		isNewDB = true
		log.Printf("Creating database '%s' (from %s setting)", cfg.DBPath, cfg.DBPathSource)
	} else {
		log.Printf("Opening database '%s' (from %s setting)", cfg.DBPath, cfg.DBPathSource)
	}

	// The busy timeout rides in the DSN because pragmas only apply to the
	// connection that issued them and sqlx pools connections.
	db, err := sqlx.Connect("sqlite3", cfg.DBPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// WAL mode is only required once after creating the database, but
	// doesn't hurt to set it each time
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return nil, err
	}

	if err := sqlite.RunMigrations(db.DB); err != nil {
		return nil, err
	}

	// Load demo data if requested and database is new
	if cfg.DemoMode && isNewDB {
		if err := demodata.Load(db.DB); err != nil {
			return nil, errors.New("failed to load demo data: " + err.Error())
		}
		log.Print("Demo data loaded")
	}

	//
	// Domain services
	//
	customerSvc := customer.NewService(db, identityMode)
	metricsSvc := metrics.NewService(customerSvc)
	backupSvc := backup.NewService(db, cfg.DBPath)
	feed := bling.NewClient(cfg.FeedURL, cfg.FeedAPIKey)

	//
	// Handlers
	//
	intakeHandler := intakehttp.NewHandler(customerSvc)
	adminHandler := adminhttp.NewHandler(customerSvc, metricsSvc, backupSvc, feed)
	webHandler := webhttp.NewHandler(adminHandler)

	//
	// Echo
	//
	e := echo.New()
	e.HideBanner = true

	// Health endpoints
	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/readyz", func(c echo.Context) error {
		if err := db.Ping(); err != nil {
			return c.String(http.StatusServiceUnavailable, "DB not ready")
		}
		return c.String(http.StatusOK, "Ready")
	})

	// Middleware
	e.Use(mwecho.Logger())
	e.Use(mwecho.Recover())

	// Public intake API (capture form + integrations)
	intakeGroup := e.Group("/api/v1")
	intakehttp.RegisterRoutes(intakeGroup, intakeHandler)

	// Admin API
	adminGroup := e.Group("/api/admin")
	adminGroup.Use(mwsvc.AdminAPIKeyAuth())
	adminhttp.RegisterRoutes(adminGroup, adminHandler)

	// Web UI
	webGroup := e.Group("/web")
	webGroup.Use(mwsvc.WebAuth())
	webGroup.Use(mwecho.CSRFWithConfig(mwecho.CSRFConfig{
		TokenLookup:  "header:X-CSRF-Token,form:_csrf",
		CookieName:   "_csrf",
		CookiePath:   "/",
		CookieSecure: true,
		// Dashboard scripts read the token cookie to set the header on
		// fetch requests, so it cannot be HttpOnly.
		CookieHTTPOnly: false,
		CookieSameSite: http.SameSiteStrictMode,
		Skipper: func(c echo.Context) bool {
			// Skip CSRF for login page (user not authenticated yet)
			return strings.HasPrefix(c.Path(), "/web/login")
		},
	}))
	webhttp.RegisterRoutes(webGroup, webHandler)

	// Static files (embedded)
	siteFS, _ := fs.Sub(static.Files, "site")
	e.GET("/site/*", echo.WrapHandler(http.StripPrefix("/site/", http.FileServer(http.FS(siteFS)))))
	webFS, _ := fs.Sub(static.Files, "web")
	e.GET("/web/static/*", echo.WrapHandler(http.StripPrefix("/web/static/", http.FileServer(http.FS(webFS)))))

	// The capture page is the public landing page
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/site/")
	})

	//
	// HTTP server
	//
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		Echo: e,
		HTTP: srv,
		DB:   db,
	}, nil
}
