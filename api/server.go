// Package api serves run status and run triggers over HTTP and schedules
// runs with cron.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"storyreel/state"
	"storyreel/types"
)

// Runner executes one pipeline run
type Runner interface {
	Run(ctx context.Context, req types.RunRequest) (types.RunSummary, error)
}

// Server is the storyreel HTTP server
type Server struct {
	runner Runner
	state  *state.Manager
	log    *slog.Logger

	// runs derive from base so shutdown cancels them
	base   context.Context
	cancel context.CancelFunc
	runs   sync.WaitGroup

	httpServer *http.Server
	cron       *cron.Cron
	mu         sync.Mutex
}

// NewServer creates a server listening on addr
func NewServer(ctx context.Context, runner Runner, st *state.Manager, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	base, cancel := context.WithCancel(ctx)
	s := &Server{
		runner: runner,
		state:  st,
		log:    logger,
		base:   base,
		cancel: cancel,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router constructs a Gin engine with registered routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	g := r.Group("/api")
	g.GET("/health", s.handleHealth)
	g.GET("/status", s.handleStatus)
	g.POST("/runs", s.handleStartRun)
	return r
}

// Start starts the HTTP server in the background
func (s *Server) Start() {
	s.log.Info("starting server", "addr", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server stopped", "error", err)
		}
	}()
}

// StartCron triggers a run on schedule. Ticks that find a run active are skipped.
func (s *Server) StartCron(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		runID, err := s.Trigger(types.RunRequest{})
		if errors.Is(err, types.ErrRunInProgress) {
			s.log.Info("cron skipped: run in progress")
			return
		}
		s.log.Info("cron triggered run", "run", runID)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	s.cron = c
	s.cron.Start()
	s.log.Info("cron started", "schedule", schedule)
	return nil
}

// Trigger starts a run in the background and returns its ID. It fails with
// ErrRunInProgress while another run is active.
func (s *Server) Trigger(req types.RunRequest) (string, error) {
	if req.ID == "" {
		req.ID = newRunID()
	}
	if err := s.state.TryStart(req.ID); err != nil {
		return "", err
	}

	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		sum, err := s.runner.Run(s.base, req)
		if err != nil {
			s.log.Error("run failed", "run", req.ID, "error", err)
		}
		s.state.Finish(sum, err)
	}()
	return req.ID, nil
}

// Wait blocks until every triggered run has returned
func (s *Server) Wait() { s.runs.Wait() }

// Shutdown stops cron and the HTTP server, cancels active runs and waits for them
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server")

	s.mu.Lock()
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.mu.Unlock()

	err := s.httpServer.Shutdown(ctx)
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.runs.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}
	return err
}
