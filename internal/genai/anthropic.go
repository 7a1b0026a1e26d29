package genai

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/docmender/docmender/internal/q/health"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// anthropicMaxTokens is the response budget. Haiku-class models cap out at 8192, which is plenty for a windowed edit and acceptable for whole-document rewrites
// of the documents this tool handles.
const anthropicMaxTokens = 8192

type anthropicGenerator struct {
	model  string
	system string
	client anthropic.Client
	health.Ctx
}

func newAnthropic(cfg Config, logger *slog.Logger) (Generator, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("ANTHROPIC_API_KEY")
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
		model = defaultAnthropicModel
	}
	return &anthropicGenerator{
		model:  model,
		system: cfg.System,
		client: anthropic.NewClient(opts...),
		Ctx:    health.NewCtx(logger),
	}, nil
}

func (g *anthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.Log("genai.anthropic.request", "model", g.model, "promptBytes", len(prompt), "promptToks", EstimateTokens(prompt))

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: anthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: g.system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", g.LogWrappedErr("genai.anthropic.send", err, "model", g.model)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := stripFence(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	g.Log("genai.anthropic.response", "model", msg.Model, "bytes", len(text), "inToks", msg.Usage.InputTokens, "outToks", msg.Usage.OutputTokens, "stop", msg.StopReason)
	return text, nil
}
