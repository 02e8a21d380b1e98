package ranking

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"librarian/pkg/inference"
	"librarian/pkg/schema"
	"librarian/pkg/utils"
)

// Analyzer extracts a single book's DNA. Satisfied by analysis.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, title, author, bookID string) (*schema.BookDNA, error)
}

// BookRanker re-analyzes each candidate's DNA and ranks the survivors against
// the seed book's selected pillars in one model call.
type BookRanker struct {
	inferencer inference.Inferencer
	analyzer   Analyzer
}

func NewBookRanker(inf inference.Inferencer, analyzer Analyzer) *BookRanker {
	return &BookRanker{inferencer: inf, analyzer: analyzer}
}

type analyzedCandidate struct {
	candidate schema.CandidateBook
	dna       *schema.BookDNA
}

// RankCandidates never fails: per-candidate analysis failures are counted and
// skipped, and a failure of the aggregate ranking call yields an empty result
// with every candidate counted as failed.
func (r *BookRanker) RankCandidates(ctx context.Context, seedDNA *schema.BookDNA, candidates *schema.CandidateList, selectedPillars, dealbreakers []string) schema.RankingResult {
	total := len(candidates.Candidates)
	log.Info("BOOK RANKER", "candidates", total)

	// Step 1: analyze each candidate sequentially. Failures are dropped, not
	// retried; each one still costs its own research calls, so candidates are
	// taken one at a time by design.
	var analyzed []analyzedCandidate
	var failed int
	for i, candidate := range candidates.Candidates {
		log.Info("analyzing candidate", "n", i+1, "of", total, "title", candidate.Title, "author", candidate.Author)

		dna, err := r.analyzer.Analyze(ctx, candidate.Title, candidate.Author, "")
		if err != nil {
			failed++
			log.Warn("candidate analysis failed, skipping", "n", i+1, "title", candidate.Title, "error", err)
			continue
		}
		analyzed = append(analyzed, analyzedCandidate{candidate: candidate, dna: dna})
		log.Info("candidate analysis complete", "n", i+1, "title", candidate.Title)
	}

	if len(analyzed) == 0 {
		log.Error("all candidate analyses failed")
		return schema.RankingResult{Candidates: []schema.RankedCandidate{}, TotalAnalyzed: 0, FailedAnalyses: failed}
	}

	// Step 2: one ranking call over the analyzed candidates.
	ranked, err := r.rank(ctx, seedDNA, analyzed, selectedPillars, dealbreakers)
	if err != nil {
		// A ranking failure invalidates the whole attempt, sunk analysis
		// cost included.
		log.Error("ranking call failed", "candidates", len(analyzed), "error", err)
		return schema.RankingResult{Candidates: []schema.RankedCandidate{}, TotalAnalyzed: 0, FailedAnalyses: total}
	}

	result := schema.RankingResult{
		Candidates:     ranked,
		TotalAnalyzed:  len(analyzed),
		FailedAnalyses: failed,
	}
	for _, candidate := range result.Candidates {
		log.Info("ranked", "rank", candidate.Rank, "title", candidate.Title, "score", candidate.ConfidenceScore)
	}
	return result
}

func (r *BookRanker) rank(ctx context.Context, seedDNA *schema.BookDNA, analyzed []analyzedCandidate, selectedPillars, dealbreakers []string) ([]schema.RankedCandidate, error) {
	summaries := make([]string, 0, len(analyzed))
	for i, item := range analyzed {
		summaries = append(summaries, candidateSummary(i+1, item))
	}

	prompt := fmt.Sprintf(rankerTaskPrompt,
		seedDNA.Title,
		schema.PillarText(seedDNA, selectedPillars),
		schema.DealbreakerText(dealbreakers),
		len(analyzed),
		strings.Join(summaries, "\n\n"),
	)
	if tokens, err := utils.NumTokensFromMessages(rankerSystemPrompt + prompt); err == nil {
		log.Debug("ranking prompt prepared", "tokens", tokens, "candidates", len(analyzed))
	}

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(16384),
		Temperature:         openai.Float(0.3),
		ResponseFormat:      schema.RankingOutputResponseFormat(),
	}

	out, err := r.inferencer.Infer(ctx, params, rankerSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	ranking, err := schema.Decode[schema.RankingOutput](out)
	if err != nil {
		return nil, fmt.Errorf("structured output failed for ranking: %w", err)
	}
	log.Info("ranking output received", "candidates", len(ranking.Candidates))

	// Step 3: reattach DNA by exact (title, author) match. A miss leaves DNA
	// nil rather than failing the ranking.
	ranked := make([]schema.RankedCandidate, 0, len(ranking.Candidates))
	for _, entry := range ranking.Candidates {
		ranked = append(ranked, schema.RankedCandidate{
			Title:           entry.Title,
			Author:          entry.Author,
			Rank:            entry.Rank,
			ConfidenceScore: entry.ConfidenceScore,
			Reasoning:       entry.Reasoning,
			DNA:             matchDNA(analyzed, entry.Title, entry.Author),
		})
	}
	return ranked, nil
}

func matchDNA(analyzed []analyzedCandidate, title, author string) *schema.BookDNA {
	for _, item := range analyzed {
		if item.candidate.Title == title && item.candidate.Author == author {
			return item.dna
		}
	}
	for _, item := range analyzed {
		if utils.Similarity(item.candidate.Title, title) >= 0.9 && utils.Similarity(item.candidate.Author, author) >= 0.9 {
			log.Warn("ranked entry only near-matches an analyzed candidate, dropping DNA",
				"ranked_title", title, "analyzed_title", item.candidate.Title)
			break
		}
	}
	return nil
}

func candidateSummary(n int, item analyzedCandidate) string {
	dna := item.dna
	return strings.TrimSpace(fmt.Sprintf(`Candidate %d: %q by %s
- Genre: %s
- Setting: %s
- Narrative Engine: %s
- Prose Texture: %s
- Emotional Profile: %s
- Structural Quirks: %s
- Theme: %s
- Dealbreakers: %s`,
		n, item.candidate.Title, item.candidate.Author,
		dna.Genre,
		dna.Setting.FullText,
		dna.NarrativeEngine.FullText,
		dna.ProseTexture.FullText,
		dna.EmotionalProfile.FullText,
		dna.StructuralQuirks.FullText,
		dna.Theme.FullText,
		strings.Join(dna.Dealbreakers, ", "),
	))
}
