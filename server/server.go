// Package server exposes gridpath over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pdrpinto/gridpath"
	"github.com/pdrpinto/gridpath/gridtext"
)

// Config holds the settings for a new Server.
type Config struct {
	BaseURL    string          // prefix for every route, e.g. "/api"
	Defaults   gridpath.Config // used when a request carries no config
	Workers    int             // concurrent searches per batch request
	MaxCells   int             // 0 for no limit
	MaxJobs    int             // jobs per batch request, 0 for no limit
	SessionTTL time.Duration   // 0 keeps sessions until deleted
	Logger     *slog.Logger
}

// Server handles path requests and stepping sessions.
type Server struct {
	baseURL  string
	defaults gridpath.Config
	workers  int
	maxCells int
	maxJobs  int
	logger   *slog.Logger
	sessions *sessionStore
}

// New creates a Server. A nil logger discards output.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	return &Server{
		baseURL:  config.BaseURL,
		defaults: config.Defaults,
		workers:  workers,
		maxCells: config.MaxCells,
		maxJobs:  config.MaxJobs,
		logger:   logger,
		sessions: newSessionStore(config.SessionTTL),
	}
}

// Handler builds the gin engine with all routes registered.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	api := router.Group(s.baseURL)
	v1 := api.Group("/v1")
	{
		v1.POST("/path", s.findPath)
		v1.POST("/batch", s.findPaths)

		sessions := v1.Group("/sessions")
		sessions.POST("", s.createSession)
		sessions.POST("/:id/step", s.stepSession)
		sessions.DELETE("/:id", s.deleteSession)
	}
	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := uuid.NewString()
		ctx.Header("X-Request-ID", requestID)
		started := time.Now()

		ctx.Next()

		s.logger.LogAttrs(ctx.Request.Context(), slog.LevelInfo, "request",
			slog.String("id", requestID),
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.FullPath()),
			slog.Int("status", ctx.Writer.Status()),
			slog.Duration("latency", time.Since(started)))
	}
}

// findPath handles a single search.
func (s *Server) findPath(ctx *gin.Context) {
	var request GridRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	grid, cfg, err := request.build(s.defaults, s.maxCells)
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	result, err := gridpath.FindPath(ctx.Request.Context(), grid, cfg, gridpath.WithLogger(s.logger))
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, newPathResponse(result))
}

// findPaths handles a batch of searches.
func (s *Server) findPaths(ctx *gin.Context) {
	var request BatchRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.maxJobs > 0 && len(request.Jobs) > s.maxJobs {
		err := fmt.Errorf("%w: more than %d jobs", errTooLarge, s.maxJobs)
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	outcomes := make([]BatchOutcome, len(request.Jobs))
	jobs := make([]gridpath.Job, 0, len(request.Jobs))
	slots := make([]int, 0, len(request.Jobs))
	for i, job := range request.Jobs {
		outcomes[i].ID = job.ID
		grid, cfg, err := job.build(s.defaults, s.maxCells)
		if err != nil {
			outcomes[i].Error = err.Error()
			continue
		}
		jobs = append(jobs, gridpath.Job{ID: job.ID, Grid: grid, Config: cfg})
		slots = append(slots, i)
	}

	results, err := gridpath.FindPaths(ctx.Request.Context(), jobs,
		gridpath.WithWorkers(s.workers), gridpath.WithLogger(s.logger))
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	for i, result := range results {
		slot := slots[i]
		if result.Err != nil {
			outcomes[slot].Error = result.Err.Error()
			continue
		}
		outcomes[slot].Path = newPathResponse(result.Result)
	}
	ctx.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

// createSession starts a stepping search and returns its id.
func (s *Server) createSession(ctx *gin.Context) {
	var request GridRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	grid, cfg, err := request.build(s.defaults, s.maxCells)
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	stepper, err := gridpath.NewStepper(grid, cfg)
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, SessionResponse{ID: s.sessions.add(stepper)})
}

// stepSession advances a session by one expansion.
func (s *Server) stepSession(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	sess, ok := s.sessions.get(id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	sess.mu.Lock()
	snapshot, err := sess.stepper.Step(ctx.Request.Context())
	sess.mu.Unlock()
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

func (s *Server) deleteSession(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	if !s.sessions.remove(id) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func statusFor(err error) int {
	var syntaxErr *gridtext.SyntaxError
	switch {
	case errors.Is(err, gridpath.ErrConfiguration), errors.Is(err, errBadRequest), errors.As(err, &syntaxErr):
		return http.StatusBadRequest
	case errors.Is(err, errTooLarge), errors.Is(err, gridtext.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, gridpath.ErrPathNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
