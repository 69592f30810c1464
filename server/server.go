package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/config"
	"github.com/taskforge/taskforge/internal/logger"
	"github.com/taskforge/taskforge/internal/mail"
	"github.com/taskforge/taskforge/internal/store"
)

// Server is the project-management API server
type Server struct {
	cfg    *config.Config
	store  *store.Store
	tokens *auth.TokenService
	engine *auth.Engine
	echo   *echo.Echo
}

// New creates a new server
func New(cfg *config.Config) (*Server, error) {
	st, err := store.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	mailer, err := mail.NewClient(cfg.SMTPHost, cfg.SMTPUser, cfg.SMTPPass,
		cfg.MailSender, cfg.FrontendURL, false)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL(), cfg.ResetTTL())
	sessions := auth.NewMemorySessionStore(cfg.SessionLifetime())

	s := &Server{
		cfg:    cfg,
		store:  st,
		tokens: tokens,
		engine: auth.NewEngine(st.Users, mailer, tokens, sessions),
	}

	s.setupEcho()

	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Request/response logging
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("http request",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// Auth endpoints (public)
	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.POST("/request-password-reset", s.handleRequestPasswordReset)
	authGroup.POST("/reset-password", s.handleResetPassword)

	// Auth endpoints (protected)
	authGroup.GET("/me", s.handleMe, s.authMiddleware)
	authGroup.POST("/logout", s.handleLogout, s.authMiddleware)
	authGroup.POST("/refresh", s.handleRefresh, s.authMiddleware)

	// Projects
	projects := e.Group("/api/projects", s.authMiddleware)
	projects.POST("", s.handleCreateProject)
	projects.GET("", s.handleListProjects)
	projects.GET("/my-projects", s.handleMyProjects)
	projects.GET("/:id", s.handleGetProject)
	projects.PUT("/:id", s.handleUpdateProject)
	projects.DELETE("/:id", s.handleDeleteProject)

	// Tasks
	tasks := e.Group("/api/tasks", s.authMiddleware)
	tasks.POST("", s.handleCreateTask)
	tasks.GET("/my-tasks", s.handleMyTasks)
	tasks.GET("/created", s.handleCreatedTasks)
	tasks.GET("/project/:projectID", s.handleTasksByProject)
	tasks.GET("/:id", s.handleGetTask)
	tasks.PUT("/:id", s.handleUpdateTask)
	tasks.DELETE("/:id", s.handleDeleteTask)

	// Comments
	comments := e.Group("/api/comments", s.authMiddleware)
	comments.POST("", s.handleCreateComment)
	comments.GET("/my", s.handleMyComments)
	comments.GET("/task/:taskID", s.handleCommentsByTask)
	comments.GET("/:id", s.handleGetComment)
	comments.PUT("/:id", s.handleUpdateComment)
	comments.DELETE("/:id", s.handleDeleteComment)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.store.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
