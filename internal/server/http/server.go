// Package http exposes the user and task services as a JSON API on gin.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// LoginLimit bounds login attempts per client IP.
type LoginLimit struct {
	Rate  rate.Limit
	Burst int
}

type HTTPServer struct {
	address    string
	logger     logging.Logger
	users      *services.UserService
	tasks      *services.TaskService
	issuer     *auth.Issuer
	loginLimit LoginLimit

	tracerProvider trace.TracerProvider
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ts *services.TaskService, issuer *auth.Issuer, limit LoginLimit) *HTTPServer {
	return &HTTPServer{
		address:    a,
		logger:     l.With("module", "http_server"),
		users:      us,
		tasks:      ts,
		issuer:     issuer,
		loginLimit: limit,

		tracerProvider: otel.GetTracerProvider(),
	}
}

// Router builds the gin engine with all routes and middleware.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(s.tracing(), s.requestLogger(), s.recovery())

	users := r.Group("/users")
	users.POST("", s.register)
	users.POST("/login", s.loginRateLimiter(), s.login)

	authed := users.Group("", s.authenticate())
	authed.GET("/profile", s.profile)
	authed.GET("", s.listUsers)
	authed.GET("/:id", s.getUser)
	authed.PUT("/:id", s.updateUser)
	authed.DELETE("/:id", s.deleteUser)

	tasks := r.Group("/tasks", s.authenticate())
	tasks.POST("", s.createTask)
	tasks.GET("", s.listTasks)
	tasks.GET("/:id", s.getTask)
	tasks.PUT("/:id", s.updateTask)
	tasks.DELETE("/:id", s.deleteTask)
	tasks.PUT("/status/:id", s.setTaskStatus)

	return r
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then shuts down
// gracefully.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
