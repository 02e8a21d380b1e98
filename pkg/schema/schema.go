package schema

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var (
	ParsedQuerySchema          = generateSchema[ParsedQuery]()
	BookDNASchema              = generateSchema[BookDNA]()
	CandidateListSchema        = generateSchema[CandidateList]()
	RankingOutputSchema        = generateSchema[RankingOutput]()
	RecommendationOutputSchema = generateSchema[RecommendationOutput]()
)

func responseFormat(name, description string, schema any) openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}

func ParsedQueryResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("parsed_book_query", "Title and author separated out of a free-text book search phrase", ParsedQuerySchema)
}

func BookDNAResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("book_dna", "Six-pillar DNA profile extracted for a single book", BookDNASchema)
}

func CandidateListResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("candidate_list", "Candidate book recommendations with justification snippets", CandidateListSchema)
}

func RankingOutputResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("candidate_ranking", "Candidates ranked against the seed book's selected pillars", RankingOutputSchema)
}

func RecommendationOutputResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return responseFormat("recommendations", "Empathetic recommendation copy for ranked candidates", RecommendationOutputSchema)
}

var ErrNoJSON = errors.New("no JSON object in model output")

// Decode parses a model completion into T. Models occasionally wrap the JSON
// in markdown fences, reasoning tags, or stray prose, so the payload is
// trimmed to its outermost object before unmarshalling.
func Decode[T any](out string) (T, error) {
	var v T
	out = strings.TrimSpace(out)
	if idx := strings.LastIndex(out, "</think>"); idx != -1 {
		out = strings.TrimSpace(out[idx+len("</think>"):])
	}
	if strings.HasPrefix(out, "```") {
		lines := strings.Split(out, "\n")
		if strings.HasPrefix(lines[0], "```") {
			lines = lines[1:]
		}
		if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
			lines = lines[:len(lines)-1]
		}
		out = strings.Join(lines, "\n")
	}
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start == -1 || end == -1 || end < start {
		return v, ErrNoJSON
	}

	if err := json.Unmarshal([]byte(out[start:end+1]), &v); err != nil {
		return v, err
	}
	return v, nil
}
