package inference

import (
	"context"
	"encoding/json"

	"github.com/openai/openai-go/v3"
)

// Tool is a function the model may call while researching. Parameters is a
// JSON-schema object describing the arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Call        func(ctx context.Context, args json.RawMessage) (string, error)
}

// Inferencer defines an interface for running model inference, with or
// without tool access.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	InferWithTools(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string, tools []Tool) (string, error)
}

// maxToolRounds bounds the research loop; a model that keeps requesting
// searches past this is cut off and asked for its final answer.
const maxToolRounds = 6
