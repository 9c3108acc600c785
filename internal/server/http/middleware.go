package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	userIDKey       = "userID"
	requestIDHeader = "X-Request-ID"

	// login limiters kept at once
	maxTrackedClients = 4096

	tracerName = "github.com/dmitrijs2005/taskkeeper/internal/server/http"
)

// tracing starts a server span per request, continuing any trace carried
// in the request headers.
func (s *HTTPServer) tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := s.tracerProvider.Tracer(tracerName).Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
	})
}

// authenticate accepts "Authorization: Bearer <access token>" and stores the
// caller's id in the gin context.
func (s *HTTPServer) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
			return
		}

		claims, err := s.issuer.VerifyAccessToken(token)
		if err != nil {
			s.logger.Info(c.Request.Context(), "rejected access token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// loginRateLimiter keeps a token bucket per client IP.
func (s *HTTPServer) loginRateLimiter() gin.HandlerFunc {
	clients := newClientLimiters(s.loginLimit, maxTrackedClients)

	return func(c *gin.Context) {
		if !clients.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many login attempts"})
			return
		}
		c.Next()
	}
}

type trackedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters tracks at most max clients. When a new client arrives at
// the limit, clients with a full bucket are dropped first, then the least
// recently seen.
type clientLimiters struct {
	mu      sync.Mutex
	limit   LoginLimit
	max     int
	clients map[string]*trackedClient
}

func newClientLimiters(limit LoginLimit, max int) *clientLimiters {
	return &clientLimiters{
		limit:   limit,
		max:     max,
		clients: make(map[string]*trackedClient),
	}
}

func (l *clientLimiters) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		l.makeRoom(now)
		c = &trackedClient{limiter: rate.NewLimiter(l.limit.Rate, l.limit.Burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *clientLimiters) makeRoom(now time.Time) {
	if len(l.clients) < l.max {
		return
	}

	for ip, c := range l.clients {
		if c.limiter.TokensAt(now) >= float64(l.limit.Burst) {
			delete(l.clients, ip)
		}
	}

	for len(l.clients) > 0 && len(l.clients) >= l.max {
		var (
			oldestIP string
			oldest   time.Time
		)
		for ip, c := range l.clients {
			if oldestIP == "" || c.lastSeen.Before(oldest) {
				oldestIP, oldest = ip, c.lastSeen
			}
		}
		delete(l.clients, oldestIP)
	}
}

func (l *clientLimiters) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
