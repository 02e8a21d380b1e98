package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"librarian/pkg/inference"
	"librarian/pkg/schema"
	"librarian/pkg/search"
	"librarian/pkg/utils"
)

// Analyzer extracts a book's six-pillar DNA profile by researching it with
// the Exa tools and running one structured extraction.
type Analyzer struct {
	inferencer inference.Inferencer
	tools      []inference.Tool
}

func NewAnalyzer(inf inference.Inferencer, exa *search.ExaClient) *Analyzer {
	return &Analyzer{
		inferencer: inf,
		tools:      researchTools(exa),
	}
}

// CandidateID derives the deterministic placeholder id used when a candidate
// is analyzed inline without a provider book id.
func CandidateID(title string) string {
	return "candidate_" + strings.ToLower(strings.ReplaceAll(title, " ", "_"))
}

// Analyze researches a book and extracts its DNA. bookID may be empty, in
// which case a candidate placeholder id is synthesized from the title. Any
// failure is returned as an error; callers treat it as "analysis failed for
// this book" and skip or count it.
func (a *Analyzer) Analyze(ctx context.Context, title, author, bookID string) (*schema.BookDNA, error) {
	analysisID := bookID
	if analysisID == "" {
		analysisID = CandidateID(title)
	}
	log.Info("BOOK DNA ANALYSIS", "title", title, "author", author, "id", analysisID)

	prompt := fmt.Sprintf(analyzerTaskPrompt, title, author)
	if tokens, err := utils.NumTokensFromMessages(analyzerSystemPrompt + prompt); err == nil {
		log.Debug("analysis prompt prepared", "tokens", tokens)
	}

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(4096),
		Temperature:         openai.Float(0.3),
		ResponseFormat:      schema.BookDNAResponseFormat(),
	}

	out, err := a.inferencer.InferWithTools(ctx, params, analyzerSystemPrompt, prompt, a.tools)
	if err != nil {
		return nil, fmt.Errorf("book analysis failed for %q: %w", title, err)
	}

	dna, err := schema.Decode[schema.BookDNA](out)
	if err != nil {
		return nil, fmt.Errorf("structured output failed for %q: %w", title, err)
	}

	// The model's echo of the identity fields is not trusted.
	dna.BookID = analysisID
	dna.Title = title

	log.Info("DNA analysis complete", "title", title, "genre", dna.Genre,
		"setting", dna.Setting.Summary, "engine", dna.NarrativeEngine.Summary, "theme", dna.Theme.Summary)
	return &dna, nil
}
