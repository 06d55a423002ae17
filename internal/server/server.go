// Package server exposes the planning engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/engine"
	"github.com/hammamikhairi/stockpile/internal/input"
	"github.com/hammamikhairi/stockpile/internal/logger"
)

// Server serves the planning API.
type Server struct {
	engine *engine.Engine
	parser *input.Parser
	log    *logger.Logger
}

// New creates a server around an engine.
func New(eng *engine.Engine, log *logger.Logger) *Server {
	return &Server{
		engine: eng,
		parser: input.NewParser(log),
		log:    log,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/categories", s.listCategories())
	r.GET("/groups", s.listGroups())
	r.POST("/plans", s.createPlan())

	defaults := r.Group("/defaults")
	defaults.GET("/:item", s.getDefaults())
	defaults.PUT("/:item/:field", s.setDefault())
	defaults.DELETE("/:item/:field", s.clearDefault())
	defaults.DELETE("", s.resetDefaults())

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// fail writes err as {"error": msg} with a status picked from its kind.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrUnknownCategory):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ── Catalog ──────────────────────────────────────────────────────

func (s *Server) listCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := s.engine.Categories(c.Request.Context())
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": cats})
	}
}

func (s *Server) listGroups() gin.HandlerFunc {
	return func(c *gin.Context) {
		groups, err := s.engine.Groups(c.Request.Context())
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"groups": groups})
	}
}

// ── Plans ────────────────────────────────────────────────────────

type planRequest struct {
	Adults       int      `json:"adults"`
	Children     int      `json:"children"`
	Dogs         int      `json:"dogs"`
	Cats         int      `json:"cats"`
	Duration     int      `json:"duration"`
	DurationText string   `json:"durationText"`
	Household    string   `json:"household"`
	Categories   []string `json:"categories"`
	Strict       bool     `json:"strict"`
}

// household resolves the request into counts. Free text replaces the
// numeric fields; durationText replaces duration.
func (s *Server) household(req planRequest) (domain.Household, error) {
	h := domain.Household{
		Adults:   req.Adults,
		Children: req.Children,
		Dogs:     req.Dogs,
		Cats:     req.Cats,
		Duration: req.Duration,
	}
	if strings.TrimSpace(req.Household) != "" {
		parsed, err := s.parser.Parse(req.Household)
		if err != nil {
			return domain.Household{}, fmt.Errorf("household: %w", err)
		}
		if req.Duration > 0 {
			parsed.Duration = req.Duration
		}
		h = parsed
	}
	if req.DurationText != "" {
		d, err := input.ParseDuration(req.DurationText)
		if err != nil {
			return domain.Household{}, err
		}
		h.Duration = d.Days
	}
	return h, nil
}

func (s *Server) createPlan() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req planRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		h, err := s.household(req)
		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			s.fail(c, err)
			return
		}

		ctx := c.Request.Context()
		if req.Strict {
			unknown, err := s.engine.UnknownCategories(ctx, req.Categories)
			if err != nil {
				s.fail(c, err)
				return
			}
			if len(unknown) > 0 {
				s.fail(c, fmt.Errorf("%s: %w", strings.Join(unknown, ", "), domain.ErrUnknownCategory))
				return
			}
		}

		plan, err := s.engine.Plan(ctx, h, req.Categories)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, plan)
	}
}

// ── Defaults ─────────────────────────────────────────────────────

func (s *Server) getDefaults() gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := s.engine.EffectiveDefaults(c.Request.Context(), c.Param("item"))
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func parseField(c *gin.Context) (domain.RateField, error) {
	name := c.Param("field")
	f := domain.RateFieldFromString(name)
	if f == domain.FieldUnknown {
		return f, fmt.Errorf("%q: %w", name, domain.ErrUnknownField)
	}
	return f, nil
}

func (s *Server) setDefault() gin.HandlerFunc {
	return func(c *gin.Context) {
		field, err := parseField(c)
		if err != nil {
			s.fail(c, err)
			return
		}

		var body struct {
			Value *float64 `json:"value"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Value == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"value\": number}"})
			return
		}

		item := c.Param("item")
		if err := s.engine.SetDefault(c.Request.Context(), item, field, *body.Value); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": item, "field": field.String(), "value": *body.Value})
	}
}

func (s *Server) clearDefault() gin.HandlerFunc {
	return func(c *gin.Context) {
		field, err := parseField(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		if err := s.engine.ClearDefault(c.Request.Context(), c.Param("item"), field); err != nil {
			s.fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) resetDefaults() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.engine.ResetDefaults(c.Request.Context()); err != nil {
			s.fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
