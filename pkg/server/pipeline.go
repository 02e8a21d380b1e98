package server

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"librarian/pkg/schema"
)

type findCandidatesReq struct {
	SelectedPillars []string        `json:"selected_pillars"`
	Dealbreakers    []string        `json:"dealbreakers"`
	DNA             *schema.BookDNA `json:"dna"`
}

type rankCandidatesReq struct {
	SeedDNA         *schema.BookDNA       `json:"seed_dna"`
	Candidates      *schema.CandidateList `json:"candidates"`
	SelectedPillars []string              `json:"selected_pillars"`
	Dealbreakers    []string              `json:"dealbreakers"`
}

type writeRecommendationsReq struct {
	SeedDNA         *schema.BookDNA       `json:"seed_dna"`
	Ranking         *schema.RankingResult `json:"ranking"`
	SelectedPillars []string              `json:"selected_pillars"`
	Dealbreakers    []string              `json:"dealbreakers"`
}

func validatePillars(selected []string) error {
	if len(selected) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one pillar must be selected")
	}
	if len(selected) > 3 {
		return echo.NewHTTPError(http.StatusBadRequest, "maximum 3 pillars can be selected")
	}
	if bad := schema.InvalidPillars(selected); len(bad) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid pillars: %v", bad))
	}
	return nil
}

// POST /api/books/:id/find-candidates
func (s *Server) handleFindCandidates(c echo.Context) error {
	log.Info("endpoint hit", "path", "/api/books/:id/find-candidates", "id", c.Param("id"))

	var req findCandidatesReq
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid JSON in find-candidates", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request data format")
	}
	if err := validatePillars(req.SelectedPillars); err != nil {
		return err
	}
	if req.DNA == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dna data is required")
	}

	candidates, err := s.Finder.FindCandidates(c.Request().Context(), req.DNA, req.SelectedPillars, req.Dealbreakers)
	if err != nil {
		log.Error("candidate search failed", "seed", req.DNA.Title, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "candidate search failed")
	}
	if len(candidates.Candidates) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no candidates found, try different pillar selections or fewer dealbreakers")
	}
	return c.JSON(http.StatusOK, candidates)
}

// POST /api/books/:id/rank-candidates
func (s *Server) handleRankCandidates(c echo.Context) error {
	log.Info("endpoint hit", "path", "/api/books/:id/rank-candidates", "id", c.Param("id"))

	var req rankCandidatesReq
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid JSON in rank-candidates", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request data format")
	}
	if req.Candidates == nil || len(req.Candidates.Candidates) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "candidates data is required")
	}
	if len(req.SelectedPillars) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one pillar must be selected")
	}
	if req.SeedDNA == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "seed dna data is required")
	}

	ranking := s.Ranker.RankCandidates(c.Request().Context(), req.SeedDNA, req.Candidates, req.SelectedPillars, req.Dealbreakers)
	if len(ranking.Candidates) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no candidates could be ranked, all analyses may have failed")
	}
	return c.JSON(http.StatusOK, ranking)
}

// POST /api/books/:id/write-recommendations
func (s *Server) handleWriteRecommendations(c echo.Context) error {
	log.Info("endpoint hit", "path", "/api/books/:id/write-recommendations", "id", c.Param("id"))

	var req writeRecommendationsReq
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid JSON in write-recommendations", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request data format")
	}
	if req.Ranking == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ranking data is required")
	}
	if len(req.SelectedPillars) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one pillar must be selected")
	}
	if req.SeedDNA == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "seed dna data is required")
	}

	result := s.Writer.WriteRecommendations(c.Request().Context(), req.SeedDNA, *req.Ranking, req.SelectedPillars, req.Dealbreakers)
	if len(result.Recommendations) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no recommendations could be written")
	}
	return c.JSON(http.StatusOK, result)
}
