package inference

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

type GeminiInferencer struct {
	client *genai.Client
	apiKey string
	model  string
}

// NewGeminiInferencer creates a new inferencer instance backed by the Gemini API.
func NewGeminiInferencer(apiKey string, model string) (*GeminiInferencer, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &GeminiInferencer{
		client: client,
		apiKey: apiKey,
		model:  model,
	}, nil
}

func (g *GeminiInferencer) ChangeConfig(config *genai.ClientConfig) {
	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return
	}
	g.client = client
}

// Infer sends text to Gemini and returns the output as JSON text.
func (g *GeminiInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleModel),
		ResponseMIMEType:  "application/json",
		MaxOutputTokens:   int32(cmp.Or(params.MaxCompletionTokens.Value, 4096)),
	}

	result, err := g.client.Models.GenerateContent(
		ctx,
		cmp.Or(params.Model, g.model),
		genai.Text(user),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return result.Text(), nil
}

// InferWithTools mirrors the OpenAI tool loop using Gemini function calling.
// The JSON response MIME type cannot be combined with function declarations,
// so the model is steered to JSON by the system prompt instead.
func (g *GeminiInferencer) InferWithTools(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string, tools []Tool) (string, error) {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	}

	byName := make(map[string]Tool, len(tools))
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  toGenaiSchema(tool.Parameters),
		})
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleModel),
		MaxOutputTokens:   int32(cmp.Or(params.MaxCompletionTokens.Value, 4096)),
		Tools:             []*genai.Tool{{FunctionDeclarations: declarations}},
	}

	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}
	model := cmp.Or(params.Model, g.model)

	for round := 0; round < maxToolRounds; round++ {
		result, err := g.client.Models.GenerateContent(ctx, model, contents, config)
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}

		calls := result.FunctionCalls()
		if len(calls) == 0 {
			text := result.Text()
			if text == "" {
				return "", errors.New("empty completion content")
			}
			return text, nil
		}

		if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			contents = append(contents, result.Candidates[0].Content)
		}
		for _, call := range calls {
			var out string
			if tool, ok := byName[call.Name]; ok {
				log.Debug("tool call", "tool", call.Name, "round", round+1)
				args, _ := json.Marshal(call.Args)
				result, err := tool.Call(ctx, args)
				if err != nil {
					out = "tool error: " + err.Error()
				} else {
					out = result
				}
			} else {
				out = "unknown tool: " + call.Name
			}
			part := genai.NewPartFromFunctionResponse(call.Name, map[string]any{"output": out})
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))
		}
	}

	// Out of rounds: retire the tools and ask for the final answer.
	config.Tools = nil
	config.ResponseMIMEType = "application/json"
	result, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if result.Text() == "" {
		return "", errors.New("no final answer after tool rounds")
	}
	return result.Text(), nil
}

// toGenaiSchema converts the tool parameter JSON schema into genai's schema
// struct. Only the shapes our tools use (object, string, integer, number,
// array-of) are handled.
func toGenaiSchema(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}
	s := &genai.Schema{}
	if desc, ok := m["description"].(string); ok {
		s.Description = desc
	}
	switch m["type"] {
	case "object":
		s.Type = genai.TypeObject
		if props, ok := m["properties"].(map[string]any); ok {
			s.Properties = make(map[string]*genai.Schema, len(props))
			for name, raw := range props {
				if sub, ok := raw.(map[string]any); ok {
					s.Properties[name] = toGenaiSchema(sub)
				}
			}
		}
		if required, ok := m["required"].([]string); ok {
			s.Required = required
		} else if raw, ok := m["required"].([]any); ok {
			for _, r := range raw {
				if name, ok := r.(string); ok {
					s.Required = append(s.Required, name)
				}
			}
		}
	case "array":
		s.Type = genai.TypeArray
		if items, ok := m["items"].(map[string]any); ok {
			s.Items = toGenaiSchema(items)
		}
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	default:
		s.Type = genai.TypeString
	}
	return s
}
