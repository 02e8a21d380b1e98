package ranking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"librarian/pkg/inference"
	"librarian/pkg/schema"
	"librarian/pkg/search"
)

// PillarPriority orders pillars for tie-breaking (higher = higher priority).
// Defined for future ranking refinement; no stage currently sorts by it.
var PillarPriority = map[string]int{
	"prose_texture":     6,
	"emotional_profile": 5,
	"theme":             4,
	"setting":           3,
	"narrative_engine":  2,
	"structural_quirks": 1,
}

// maxCandidates caps the shortlist passed on for per-candidate DNA analysis.
const maxCandidates = 3

// CandidatesFinder finds candidate books matching the seed's selected pillars
// with one web search and one filtering call.
type CandidatesFinder struct {
	inferencer inference.Inferencer
	tools      []inference.Tool
}

func NewCandidatesFinder(inf inference.Inferencer, tavily *search.TavilyClient) *CandidatesFinder {
	return &CandidatesFinder{
		inferencer: inf,
		tools:      candidateTools(tavily),
	}
}

type candidateSearchArgs struct {
	Query string `json:"query"`
}

func candidateTools(tavily *search.TavilyClient) []inference.Tool {
	return []inference.Tool{
		{
			Name:        "search_book_candidates",
			Description: "Search the web for book recommendations. Returns an AI summary plus individual result snippets.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query for book recommendations",
					},
				},
				"required": []string{"query"},
			},
			Call: func(ctx context.Context, raw json.RawMessage) (string, error) {
				var args candidateSearchArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return "", err
				}
				return tavily.Search(ctx, args.Query)
			},
		},
	}
}

// FindCandidates searches for books matching the selected pillars and returns
// the top three, best first. Any model or extraction failure is returned as
// an error; the caller reports it as a failed candidate search.
func (f *CandidatesFinder) FindCandidates(ctx context.Context, seedDNA *schema.BookDNA, selectedPillars, dealbreakers []string) (*schema.CandidateList, error) {
	log.Info("BOOK CANDIDATES FINDER", "seed", seedDNA.Title, "pillars", selectedPillars, "dealbreakers", dealbreakers)

	query := fmt.Sprintf(`books similar to %q recommendations`, seedDNA.Title)
	prompt := fmt.Sprintf(finderTaskPrompt,
		query,
		seedDNA.Title,
		schema.PillarText(seedDNA, selectedPillars),
		schema.DealbreakerText(dealbreakers),
	)

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(8192),
		Temperature:         openai.Float(0.4),
		ResponseFormat:      schema.CandidateListResponseFormat(),
	}

	out, err := f.inferencer.InferWithTools(ctx, params, finderSystemPrompt, prompt, f.tools)
	if err != nil {
		return nil, fmt.Errorf("candidate search failed: %w", err)
	}

	found, err := schema.Decode[schema.CandidateList](out)
	if err != nil {
		return nil, fmt.Errorf("structured output failed for candidates: %w", err)
	}
	for i, candidate := range found.Candidates {
		log.Info("candidate found", "rank", i+1, "title", candidate.Title, "author", candidate.Author)
	}

	if len(found.Candidates) > maxCandidates {
		found.Candidates = found.Candidates[:maxCandidates]
	}
	log.Info("candidates selected for analysis", "count", len(found.Candidates))
	return &found, nil
}
