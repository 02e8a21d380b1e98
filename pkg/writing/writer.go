package writing

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"librarian/pkg/inference"
	"librarian/pkg/schema"
)

// RecommendationsWriter turns ranked candidates into empathetic
// recommendation copy with one model call.
type RecommendationsWriter struct {
	inferencer inference.Inferencer
}

func NewRecommendationsWriter(inf inference.Inferencer) *RecommendationsWriter {
	return &RecommendationsWriter{inferencer: inf}
}

// WriteRecommendations never fails: an empty ranking or any model failure
// yields empty recommendations with the ranking's counters passed through
// unchanged.
func (w *RecommendationsWriter) WriteRecommendations(ctx context.Context, seedDNA *schema.BookDNA, ranking schema.RankingResult, selectedPillars, dealbreakers []string) schema.RecommendationResult {
	log.Info("RECOMMENDATIONS WRITER", "candidates", len(ranking.Candidates))

	empty := schema.RecommendationResult{
		Recommendations: []schema.RecommendationCard{},
		TotalAnalyzed:   ranking.TotalAnalyzed,
		FailedAnalyses:  ranking.FailedAnalyses,
	}
	if len(ranking.Candidates) == 0 {
		log.Warn("no candidates to write recommendations for")
		return empty
	}

	prompt := fmt.Sprintf(writerTaskPrompt,
		seedDNA.Title,
		schema.PillarText(seedDNA, selectedPillars),
		schema.DealbreakerText(dealbreakers),
		buildCandidateSummaries(ranking),
	)

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(8192),
		Temperature:         openai.Float(0.4),
		ResponseFormat:      schema.RecommendationOutputResponseFormat(),
	}

	out, err := w.inferencer.Infer(ctx, params, writerSystemPrompt, prompt)
	if err != nil {
		log.Error("recommendations writing failed", "error", err)
		return empty
	}
	written, err := schema.Decode[schema.RecommendationOutput](out)
	if err != nil {
		log.Error("structured output failed for recommendations", "error", err)
		return empty
	}

	cards := make([]schema.RecommendationCard, 0, len(written.Recommendations))
	for _, rec := range written.Recommendations {
		cards = append(cards, schema.RecommendationCard{
			Title:           rec.Title,
			Author:          rec.Author,
			Rank:            rec.Rank,
			ConfidenceScore: rec.ConfidenceScore,
			WhyItMatches:    rec.WhyItMatches,
			WhatIsFresh:     rec.WhatIsFresh,
			DNA:             nil, // not needed by the consumer
		})
		log.Info("recommendation written", "rank", rec.Rank, "title", rec.Title)
	}

	return schema.RecommendationResult{
		Recommendations: cards,
		TotalAnalyzed:   ranking.TotalAnalyzed,
		FailedAnalyses:  ranking.FailedAnalyses,
	}
}

func buildCandidateSummaries(ranking schema.RankingResult) string {
	summaries := make([]string, 0, len(ranking.Candidates))
	for _, candidate := range ranking.Candidates {
		var summary string
		if candidate.DNA != nil {
			summary = fmt.Sprintf(candidateSummaryTemplate,
				candidate.Rank, candidate.Title, candidate.Author, candidate.ConfidenceScore,
				candidate.Reasoning,
				candidate.DNA.Genre,
				candidate.DNA.Setting.FullText,
				candidate.DNA.NarrativeEngine.FullText,
				candidate.DNA.ProseTexture.FullText,
				candidate.DNA.EmotionalProfile.FullText,
				candidate.DNA.StructuralQuirks.FullText,
				candidate.DNA.Theme.FullText,
				strings.Join(candidate.DNA.Dealbreakers, ", "),
			)
		} else {
			summary = fmt.Sprintf(candidateSummaryFailedTemplate,
				candidate.Rank, candidate.Title, candidate.Author, candidate.ConfidenceScore,
				candidate.Reasoning,
			)
		}
		summaries = append(summaries, strings.TrimSpace(summary))
	}
	return strings.Join(summaries, "\n\n")
}
