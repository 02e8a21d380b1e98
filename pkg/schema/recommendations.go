package schema

// Recommendation is the model's shape for a single written recommendation.
type Recommendation struct {
	Title           string  `json:"title" jsonschema_description:"Book title"`
	Author          string  `json:"author" jsonschema_description:"Book author"`
	Rank            int     `json:"rank" jsonschema_description:"Rank position (1 = best match)"`
	ConfidenceScore float64 `json:"confidence_score" jsonschema_description:"0-100 confidence in the match"`
	WhyItMatches    string  `json:"why_it_matches" jsonschema_description:"Empathetic explanation of how it matches user preferences"`
	WhatIsFresh     string  `json:"what_is_fresh" jsonschema_description:"What makes this a 'pivot' rather than a 'clone'"`
}

// RecommendationOutput is the model's shape for the writing call.
type RecommendationOutput struct {
	Recommendations []Recommendation `json:"recommendations" jsonschema_description:"Enhanced recommendations with empathetic copy"`
}

// RecommendationCard is a recommendation as served to clients. DNA is always
// cleared; the consumer of this stage does not need the payload.
type RecommendationCard struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Rank            int      `json:"rank"`
	ConfidenceScore float64  `json:"confidence_score"`
	WhyItMatches    string   `json:"why_it_matches"`
	WhatIsFresh     string   `json:"what_is_fresh"`
	DNA             *BookDNA `json:"dna"`
}

// RecommendationResult is the writer's response. The counters pass through
// unchanged from the ranking that produced them.
type RecommendationResult struct {
	Recommendations []RecommendationCard `json:"recommendations"`
	TotalAnalyzed   int                  `json:"total_analyzed"`
	FailedAnalyses  int                  `json:"failed_analyses"`
}
