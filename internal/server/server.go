package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hn_reader/internal/domain"
	"hn_reader/internal/feed"
	"hn_reader/internal/metrics"
	"hn_reader/internal/render"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
	shutdownTimeout     = 5 * time.Second
)

// Feed is the part of the feed the API reads and triggers.
type Feed interface {
	Refresh(category domain.Category, offset int) uint64
	Snapshot() feed.View
}

// RefreshHistory serves past refreshes. Optional.
type RefreshHistory interface {
	Recent(ctx context.Context, categories []string, limit int) ([]domain.RefreshLogEntry, error)
}

type Config struct {
	Addr        string
	CORSOrigins []string
}

// Server is the HTTP status API over a running feed.
type Server struct {
	feed    Feed
	history RefreshHistory
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
	engine  *gin.Engine
}

// New builds the router. history may be nil when no database is configured.
func New(f Feed, history RefreshHistory, cfg Config, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		feed:    f,
		history: history,
		cfg:     cfg,
		logger:  logger.With("component", "server"),
		now:     time.Now,
	}

	router := gin.New()
	router.Use(gin.Recovery(), loggerMiddleware(s.logger), prometheusMiddleware())

	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		router.Use(cors.New(corsConfig))
	}

	router.GET("/health", s.health)
	router.GET("/stories", s.stories)
	router.GET("/stories.atom", s.atom)
	router.POST("/refresh", s.refresh)
	if history != nil {
		router.GET("/refreshes", s.refreshes)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine = router
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

type storyCard struct {
	feed.CardView
	Age      string `json:"age,omitempty"`
	Link     string `json:"link,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Comments *int   `json:"comments,omitempty"`
}

type storiesResponse struct {
	Generation uint64          `json:"generation"`
	Category   domain.Category `json:"category"`
	Offset     int             `json:"offset"`
	State      feed.ListState  `json:"state"`
	Error      string          `json:"error,omitempty"`
	Listed     int             `json:"listed"`
	Settled    bool            `json:"settled"`
	Cards      []storyCard     `json:"cards"`
}

func (s *Server) stories(c *gin.Context) {
	view := s.feed.Snapshot()
	now := s.now()

	resp := storiesResponse{
		Generation: view.Generation,
		Category:   view.Category,
		Offset:     view.Offset,
		State:      view.State,
		Listed:     view.Listed,
		Settled:    view.Settled(),
		Cards:      make([]storyCard, 0, len(view.Cards)),
	}
	if view.State == feed.ListFailed {
		resp.Error = view.ErrorMessage()
	}

	for _, card := range view.Cards {
		sc := storyCard{CardView: card}
		if card.Story != nil {
			comments := card.Story.CommentCount()
			sc.Age = render.RelativeAge(card.Story.Time, now)
			sc.Link = card.Story.Link(card.ID)
			sc.Domain = card.Story.Domain(card.ID)
			sc.Comments = &comments
		}
		resp.Cards = append(resp.Cards, sc)
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) atom(c *gin.Context) {
	out, err := render.Atom(s.feed.Snapshot(), s.now())
	if err != nil {
		s.logger.Error("failed to render atom feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render feed"})
		return
	}
	c.Data(http.StatusOK, "application/atom+xml; charset=utf-8", []byte(out))
}

func (s *Server) refresh(c *gin.Context) {
	category := s.feed.Snapshot().Category
	if raw := c.Query("category"); raw != "" {
		parsed, err := domain.ParseCategory(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		category = parsed
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
		return
	}

	gen := s.feed.Refresh(category, offset)
	metrics.RefreshesTotal.WithLabelValues(category.Slug(), "api").Inc()
	s.logger.Info("refresh triggered", "category", category, "offset", offset, "generation", gen)

	c.JSON(http.StatusAccepted, gin.H{
		"generation": gen,
		"category":   category,
		"offset":     offset,
	})
}

func (s *Server) refreshes(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	limit = min(limit, maxHistoryLimit)

	var categories []string
	for _, raw := range c.QueryArray("category") {
		parsed, err := domain.ParseCategory(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		categories = append(categories, parsed.Slug())
	}

	entries, err := s.history.Recent(c.Request.Context(), categories, limit)
	if err != nil {
		s.logger.Error("failed to load refresh history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load refresh history"})
		return
	}
	if entries == nil {
		entries = []domain.RefreshLogEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"refreshes": entries})
}
