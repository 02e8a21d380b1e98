package analysis

import (
	"context"
	"encoding/json"

	"librarian/pkg/inference"
	"librarian/pkg/search"
)

type searchArgs struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
}

type parallelSearchArgs struct {
	Queries    []string `json:"queries"`
	NumResults int      `json:"num_results"`
}

// researchTools exposes the Exa adapter to the model as the single-query and
// parallel multi-query research tools.
func researchTools(exa *search.ExaClient) []inference.Tool {
	return []inference.Tool{
		{
			Name:        "search_book_analysis",
			Description: "Search for book analysis, reviews, and thematic discussions. Returns combined text content from the sources found.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query for book analysis (e.g. \"Project Hail Mary thematic analysis\")",
					},
					"num_results": map[string]any{
						"type":        "integer",
						"description": "Number of results to return (default 3)",
					},
				},
				"required": []string{"query"},
			},
			Call: func(ctx context.Context, raw json.RawMessage) (string, error) {
				var args searchArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return "", err
				}
				return exa.Search(ctx, args.Query, args.NumResults)
			},
		},
		{
			Name:        "search_book_analysis_parallel",
			Description: "Search for book analysis using multiple queries at once. Returns combined text content from all searches, in query order.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"queries": map[string]any{
						"type":        "array",
						"description": "Search queries to run in parallel",
						"items":       map[string]any{"type": "string"},
					},
					"num_results": map[string]any{
						"type":        "integer",
						"description": "Number of results to return per query (default 3)",
					},
				},
				"required": []string{"queries"},
			},
			Call: func(ctx context.Context, raw json.RawMessage) (string, error) {
				var args parallelSearchArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return "", err
				}
				return exa.SearchParallel(ctx, args.Queries, args.NumResults)
			},
		},
	}
}
