package genai

import (
	"context"
	"log/slog"
	"os"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/docmender/docmender/internal/q/health"
)

const defaultOpenAIModel = "gpt-4o"

type openAIGenerator struct {
	model  string
	system string
	client openai.Client
	health.Ctx
}

func newOpenAI(cfg Config, logger *slog.Logger) (Generator, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return nil, ErrNoAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIGenerator{
		model:  model,
		system: cfg.System,
		client: openai.NewClient(opts...),
		Ctx:    health.NewCtx(logger),
	}, nil
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.Log("genai.openai.request", "model", g.model, "promptBytes", len(prompt), "promptToks", EstimateTokens(prompt))

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(g.system),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", g.LogWrappedErr("genai.openai.send", err, "model", g.model)
	}
	if len(resp.Choices) != 1 {
		return "", g.LogNewErr("genai.openai: unexpected choices length", "len", len(resp.Choices))
	}

	text := stripFence(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	g.Log("genai.openai.response", "model", resp.Model, "bytes", len(text), "inToks", resp.Usage.PromptTokens, "outToks", resp.Usage.CompletionTokens)
	return text, nil
}
