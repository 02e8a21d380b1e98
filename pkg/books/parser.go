package books

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"librarian/pkg/inference"
	"librarian/pkg/schema"
)

// QueryParser splits ambiguous free-text book searches into structured
// title/author fields with a single model call.
type QueryParser struct {
	inferencer inference.Inferencer
}

func NewQueryParser(inf inference.Inferencer) *QueryParser {
	return &QueryParser{inferencer: inf}
}

// Parse runs one best-effort extraction call. A malformed model response is
// recovered by treating the whole phrase as a title; only transport-level
// inference errors are returned.
func (p *QueryParser) Parse(ctx context.Context, query string) (schema.ParsedQuery, error) {
	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(1024),
		Temperature:         openai.Float(0.1),
		ResponseFormat:      schema.ParsedQueryResponseFormat(),
	}

	out, err := p.inferencer.Infer(ctx, params, queryParserPrompt, "Parse this book search query: "+query)
	if err != nil {
		return schema.ParsedQuery{}, err
	}

	parsed, err := schema.Decode[schema.ParsedQuery](out)
	if err != nil {
		log.Warn("query parse extraction failed, falling back to raw query", "error", err)
		return schema.ParsedQuery{Title: query}, nil
	}

	log.Info("query parsed", "title", parsed.Title, "author", parsed.Author)
	return parsed, nil
}
