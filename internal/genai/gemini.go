package genai

import (
	"context"
	"log/slog"
	"os"
	"strings"

	gemini "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/docmender/docmender/internal/q/health"
)

const defaultGeminiModel = "gemini-1.5-flash"

type geminiGenerator struct {
	model  string
	system string
	client *gemini.Client
	health.Ctx
}

func newGemini(cfg Config, logger *slog.Logger) (Generator, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		return nil, ErrNoAPIKey
	}

	// The SDK client is long-lived and safe for concurrent use; the construction context only covers credential setup.
	client, err := gemini.NewClient(context.Background(), option.WithAPIKey(key))
	if err != nil {
		return nil, health.LogWrappedErr(logger, "genai.gemini.client", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiGenerator{
		model:  model,
		system: cfg.System,
		client: client,
		Ctx:    health.NewCtx(logger),
	}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.Log("genai.gemini.request", "model", g.model, "promptBytes", len(prompt), "promptToks", EstimateTokens(prompt))

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &gemini.Content{Parts: []gemini.Part{gemini.Text(g.system)}}

	resp, err := model.GenerateContent(ctx, gemini.Text(prompt))
	if err != nil {
		return "", g.LogWrappedErr("genai.gemini.send", err, "model", g.model)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(gemini.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	text := stripFence(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	g.Log("genai.gemini.response", "model", g.model, "bytes", len(text))
	return text, nil
}
