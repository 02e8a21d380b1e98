package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// GET /api/books/search?q=
func (s *Server) handleSearchBooks(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter 'q' is required")
	}
	log.Info("endpoint hit", "path", "/api/books/search", "q", query)

	results, err := s.Books.Search(c.Request().Context(), query, 0)
	if err != nil {
		log.Error("book search failed", "query", query, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "book search failed")
	}
	return c.JSON(http.StatusOK, results)
}

// GET /api/books/:id
func (s *Server) handleGetBook(c echo.Context) error {
	bookID := c.Param("id")
	log.Info("endpoint hit", "path", "/api/books/:id", "id", bookID)

	book, err := s.Books.GetBook(c.Request().Context(), bookID)
	if err != nil {
		log.Error("book lookup failed", "id", bookID, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "book lookup failed")
	}
	if book == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no book found")
	}
	return c.JSON(http.StatusOK, book)
}

// GET /api/books/:id/analyze
func (s *Server) handleAnalyzeBook(c echo.Context) error {
	bookID := c.Param("id")
	log.Info("endpoint hit", "path", "/api/books/:id/analyze", "id", bookID)

	ctx := c.Request().Context()
	book, err := s.Books.GetBook(ctx, bookID)
	if err != nil {
		log.Error("book lookup failed", "id", bookID, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "book lookup failed")
	}
	if book == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no book found")
	}

	dna, err := s.Analyzer.Analyze(ctx, book.Title, book.Author, bookID)
	if err != nil {
		log.Error("analysis failed", "title", book.Title, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "analysis failed")
	}
	return c.JSON(http.StatusOK, dna)
}
