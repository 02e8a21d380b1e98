package writing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/pkg/inference"
	"librarian/pkg/schema"
)

type stubInferencer struct {
	out      string
	err      error
	calls    int
	lastUser string
}

func (s *stubInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	s.calls++
	s.lastUser = user
	return s.out, s.err
}

func (s *stubInferencer) InferWithTools(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string, tools []inference.Tool) (string, error) {
	return s.Infer(ctx, params, system, user)
}

func seedDNA() *schema.BookDNA {
	return &schema.BookDNA{
		BookID: "vol-dune",
		Title:  "Dune",
		Genre:  "Science Fiction",
		Theme:  schema.DNAPillar{FullText: "The peril of charismatic leaders.", Summary: "dangerous messiahs"},
	}
}

func rankedCandidate(title string, rank int, dna *schema.BookDNA) schema.RankedCandidate {
	return schema.RankedCandidate{
		Title:           title,
		Author:          "Author of " + title,
		Rank:            rank,
		ConfidenceScore: 85,
		Reasoning:       "strong pillar overlap",
		DNA:             dna,
	}
}

func recommendationJSON(t *testing.T, titles ...string) string {
	t.Helper()
	out := schema.RecommendationOutput{}
	for i, title := range titles {
		out.Recommendations = append(out.Recommendations, schema.Recommendation{
			Title:           title,
			Author:          "Author of " + title,
			Rank:            i + 1,
			ConfidenceScore: 85,
			WhyItMatches:    "You loved how the seed handled power; this one does too.",
			WhatIsFresh:     "It swaps the desert for a generation ship.",
		})
	}
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	return string(raw)
}

func TestWriteRecommendationsEmptyRankingSkipsModel(t *testing.T) {
	inf := &stubInferencer{}
	writer := NewRecommendationsWriter(inf)

	ranking := schema.RankingResult{Candidates: []schema.RankedCandidate{}, TotalAnalyzed: 0, FailedAnalyses: 3}
	result := writer.WriteRecommendations(context.Background(), seedDNA(), ranking, []string{"theme"}, nil)

	assert.Empty(t, result.Recommendations)
	assert.Equal(t, 0, result.TotalAnalyzed)
	assert.Equal(t, 3, result.FailedAnalyses)
	assert.Zero(t, inf.calls)
}

func TestWriteRecommendationsMapsCards(t *testing.T) {
	inf := &stubInferencer{out: recommendationJSON(t, "Hyperion", "The Fifth Season")}
	writer := NewRecommendationsWriter(inf)

	dna := seedDNA()
	ranking := schema.RankingResult{
		Candidates: []schema.RankedCandidate{
			rankedCandidate("Hyperion", 1, dna),
			rankedCandidate("The Fifth Season", 2, dna),
		},
		TotalAnalyzed:  2,
		FailedAnalyses: 1,
	}
	result := writer.WriteRecommendations(context.Background(), seedDNA(), ranking, []string{"theme"}, []string{"love triangle"})

	require.Len(t, result.Recommendations, 2)
	first := result.Recommendations[0]
	assert.Equal(t, "Hyperion", first.Title)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "You loved how the seed handled power; this one does too.", first.WhyItMatches)
	assert.Equal(t, "It swaps the desert for a generation ship.", first.WhatIsFresh)
	assert.Nil(t, first.DNA)
	assert.Equal(t, 2, result.TotalAnalyzed)
	assert.Equal(t, 1, result.FailedAnalyses)

	assert.Contains(t, inf.lastUser, "love triangle")
	assert.Contains(t, inf.lastUser, "The peril of charismatic leaders.")
}

func TestWriteRecommendationsNilDNAUsesFailedSummary(t *testing.T) {
	inf := &stubInferencer{out: recommendationJSON(t, "Hyperion", "Foundation")}
	writer := NewRecommendationsWriter(inf)

	ranking := schema.RankingResult{
		Candidates: []schema.RankedCandidate{
			rankedCandidate("Hyperion", 1, seedDNA()),
			rankedCandidate("Foundation", 2, nil),
		},
		TotalAnalyzed:  2,
		FailedAnalyses: 0,
	}
	_ = writer.WriteRecommendations(context.Background(), seedDNA(), ranking, []string{"theme"}, nil)

	assert.Contains(t, inf.lastUser, "Hyperion")
	assert.Contains(t, inf.lastUser, "Foundation")
	assert.Contains(t, inf.lastUser, "DNA analysis failed for this book")
}

func TestWriteRecommendationsModelFailurePassesCountersThrough(t *testing.T) {
	inf := &stubInferencer{err: errors.New("model overloaded")}
	writer := NewRecommendationsWriter(inf)

	ranking := schema.RankingResult{
		Candidates:     []schema.RankedCandidate{rankedCandidate("Hyperion", 1, seedDNA())},
		TotalAnalyzed:  1,
		FailedAnalyses: 2,
	}
	result := writer.WriteRecommendations(context.Background(), seedDNA(), ranking, []string{"theme"}, nil)

	assert.Empty(t, result.Recommendations)
	assert.Equal(t, 1, result.TotalAnalyzed)
	assert.Equal(t, 2, result.FailedAnalyses)
}

func TestWriteRecommendationsMalformedOutput(t *testing.T) {
	inf := &stubInferencer{out: "Here are some great books you might enjoy!"}
	writer := NewRecommendationsWriter(inf)

	ranking := schema.RankingResult{
		Candidates:     []schema.RankedCandidate{rankedCandidate("Hyperion", 1, seedDNA())},
		TotalAnalyzed:  1,
		FailedAnalyses: 0,
	}
	result := writer.WriteRecommendations(context.Background(), seedDNA(), ranking, []string{"theme"}, nil)

	assert.Empty(t, result.Recommendations)
	assert.Equal(t, 1, result.TotalAnalyzed)
	assert.Equal(t, 0, result.FailedAnalyses)
}
