// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/azharlabs/locas"
	"github.com/azharlabs/locas/pkg/store"
)

// Server wires the assistant and persistence into a gin engine.
type Server struct {
	engine    *gin.Engine
	assistant *locas.Assistant
	store     store.Store

	mu       sync.Mutex
	sessions map[string]*locas.Session

	http *http.Server
}

func New(assistant *locas.Assistant, st store.Store, production bool) *Server {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:    gin.New(),
		assistant: assistant,
		store:     st,
		sessions:  make(map[string]*locas.Session),
	}

	s.engine.Use(gin.Recovery(), requestID(), cors())

	api := s.engine.Group("/api")
	api.POST("/process-query", s.processQuery)
	api.POST("/process-query/stream", s.processQueryStream)
	api.POST("/user", s.upsertUser)

	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// sessionFor returns the sticky session for a user, creating it on first
// use. The empty user id shares one anonymous session.
func (s *Server) sessionFor(userID string) *locas.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		session = s.assistant.NewSession()
		s.sessions[userID] = session
	}
	return session
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
