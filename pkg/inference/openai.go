package inference

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIInferencer implements Inferencer using OpenAI's official Go SDK.
type OpenAIInferencer struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIInferencer creates a new inferencer instance using OpenAI client.
func NewOpenAIInferencer(apiKey string, model string) *OpenAIInferencer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIInferencer{
		client: &client,
		apiKey: apiKey,
		model:  model,
	}
}

func (o *OpenAIInferencer) ChangeBaseURL(baseURL string) {
	client := openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(baseURL),
	)
	o.client = &client
}

func (o *OpenAIInferencer) SetModel(model string) {
	o.model = model
}

func (o *OpenAIInferencer) prepare(params *openai.ChatCompletionNewParams, system, user string) *openai.ChatCompletionNewParams {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	} else {
		params = &(*params)
	}
	params.Model = cmp.Or(params.Model, o.model)
	params.Messages = []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Role: "system",
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: param.Opt[string]{Value: system},
				},
			}},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Role: "user",
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: param.Opt[string]{Value: user},
				},
			},
		},
	}

	params.MaxCompletionTokens = openai.Int(cmp.Or(params.MaxCompletionTokens.Value, 4096))
	params.Temperature = openai.Float(cmp.Or(params.Temperature.Value, 0.3))
	params.TopP = openai.Float(cmp.Or(params.TopP.Value, 1.0))
	return params
}

// Infer sends text to the OpenAI chat completion endpoint and returns the output.
func (o *OpenAIInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	params = o.prepare(params, system, user)

	resp, err := o.client.Chat.Completions.New(ctx, *params)
	if err != nil {
		return "", fmt.Errorf("openai inference error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion content")
	}

	return resp.Choices[0].Message.Content, nil
}

// InferWithTools runs a bounded tool loop: tool calls requested by the model
// are executed and fed back until the model produces a final text answer.
func (o *OpenAIInferencer) InferWithTools(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string, tools []Tool) (string, error) {
	params = o.prepare(params, system, user)

	byName := make(map[string]Tool, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
		params.Tools = append(params.Tools, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        tool.Name,
			Description: openai.String(tool.Description),
			Parameters:  shared.FunctionParameters(tool.Parameters),
		}))
	}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := o.client.Chat.Completions.New(ctx, *params)
		if err != nil {
			return "", fmt.Errorf("openai inference error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("no choices returned")
		}

		message := resp.Choices[0].Message
		if len(message.ToolCalls) == 0 {
			if message.Content == "" {
				return "", errors.New("empty completion content")
			}
			return message.Content, nil
		}

		params.Messages = append(params.Messages, message.ToParam())
		for _, call := range message.ToolCalls {
			tool, ok := byName[call.Function.Name]
			if !ok {
				params.Messages = append(params.Messages, openai.ToolMessage("unknown tool: "+call.Function.Name, call.ID))
				continue
			}
			log.Debug("tool call", "tool", call.Function.Name, "round", round+1)
			out, err := tool.Call(ctx, json.RawMessage(call.Function.Arguments))
			if err != nil {
				out = "tool error: " + err.Error()
			}
			params.Messages = append(params.Messages, openai.ToolMessage(out, call.ID))
		}
	}

	// Out of rounds: drop the tools and force a final answer.
	params.Tools = nil
	resp, err := o.client.Chat.Completions.New(ctx, *params)
	if err != nil {
		return "", fmt.Errorf("openai inference error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("no final answer after tool rounds")
	}
	return resp.Choices[0].Message.Content, nil
}
