package schema

// CandidateBook is a found match plus the evidence it was found on.
type CandidateBook struct {
	Title         string `json:"title" jsonschema_description:"Book title"`
	Author        string `json:"author" jsonschema_description:"Book author"`
	SourceSnippet string `json:"source_snippet" jsonschema_description:"Evidence snippet explaining why this is a match"`
}

// CandidateList is an ordered shortlist of candidates, best first. Ranking is
// implicit in list order, not a score.
type CandidateList struct {
	Candidates []CandidateBook `json:"candidates" jsonschema_description:"List of candidate books"`
}

// RankedCandidateOutput is the model's shape for a single ranked candidate.
type RankedCandidateOutput struct {
	Title           string  `json:"title" jsonschema_description:"Book title"`
	Author          string  `json:"author" jsonschema_description:"Book author"`
	Rank            int     `json:"rank" jsonschema_description:"Rank position (1 = best match)"`
	ConfidenceScore float64 `json:"confidence_score" jsonschema_description:"0-100 confidence in the match"`
	Reasoning       string  `json:"reasoning" jsonschema_description:"Why this book matches the user's preferences"`
}

// RankingOutput is the model's shape for the ranking call.
type RankingOutput struct {
	Candidates []RankedCandidateOutput `json:"candidates" jsonschema_description:"Ranked candidate books"`
}

// RankedCandidate is a ranked candidate with its DNA reattached. DNA is nil
// when the candidate's own analysis failed or no analyzed candidate matched.
type RankedCandidate struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Rank            int      `json:"rank"`
	ConfidenceScore float64  `json:"confidence_score"`
	Reasoning       string   `json:"reasoning"`
	DNA             *BookDNA `json:"dna"`
}

// RankingResult is the ranker's response. TotalAnalyzed plus FailedAnalyses
// always equals the number of candidates submitted.
type RankingResult struct {
	Candidates     []RankedCandidate `json:"candidates"`
	TotalAnalyzed  int               `json:"total_analyzed"`
	FailedAnalyses int               `json:"failed_analyses"`
}
