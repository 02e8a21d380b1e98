package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/segmentio/ksuid"

	"librarian/pkg/analysis"
	"librarian/pkg/books"
	"librarian/pkg/ranking"
	"librarian/pkg/writing"
)

// Server wires the pipeline stages behind the web API. Stage instances are
// created once at startup and reused across requests.
type Server struct {
	Echo     *echo.Echo
	Books    *books.Client
	Analyzer *analysis.Analyzer
	Finder   *ranking.CandidatesFinder
	Ranker   *ranking.BookRanker
	Writer   *writing.RecommendationsWriter
	Ctx      context.Context
}

func NewServer(ctx context.Context, booksClient *books.Client, analyzer *analysis.Analyzer, finder *ranking.CandidatesFinder, ranker *ranking.BookRanker, writer *writing.RecommendationsWriter) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return ksuid.New().String() },
	}))

	s := &Server{
		Echo:     e,
		Books:    booksClient,
		Analyzer: analyzer,
		Finder:   finder,
		Ranker:   ranker,
		Writer:   writer,
		Ctx:      ctx,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.GET("/books/search", s.handleSearchBooks)
	api.GET("/books/:id", s.handleGetBook)
	api.GET("/books/:id/analyze", s.handleAnalyzeBook)
	api.POST("/books/:id/find-candidates", s.handleFindCandidates)
	api.POST("/books/:id/rank-candidates", s.handleRankCandidates)
	api.POST("/books/:id/write-recommendations", s.handleWriteRecommendations)
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

// Shutdown releases the outbound book-metadata connections before stopping
// the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.Books != nil {
		s.Books.Close()
	}
	return s.Echo.Shutdown(ctx)
}
