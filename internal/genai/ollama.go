package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/docmender/docmender/internal/q/health"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama2"
)

// ollamaGenerator talks to a self-hosted Ollama server over its /api/generate endpoint. There is no SDK for this; the wire format is a two-field JSON request
// and a one-field JSON response.
type ollamaGenerator struct {
	baseURL string
	model   string
	system  string
	apiKey  string // optional bearer token for proxied deployments
	http    *http.Client
	health.Ctx
}

func newOllama(cfg Config, logger *slog.Logger) (Generator, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOllamaURL
	}
	if !strings.HasPrefix(base, "http") {
		base = "http://" + base
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	return &ollamaGenerator{
		baseURL: strings.TrimRight(base, "/"),
		model:   model,
		system:  cfg.System,
		apiKey:  cfg.APIKey,
		// Local models chew on large documents for a while.
		http: &http.Client{Timeout: 5 * time.Minute},
		Ctx:  health.NewCtx(logger),
	}, nil
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (g *ollamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.Log("genai.ollama.request", "url", g.baseURL, "model", g.model, "promptBytes", len(prompt))

	body, err := json.Marshal(ollamaRequest{
		Model:  g.model,
		System: g.system,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0.3,
			NumPredict:  -1,
		},
	})
	if err != nil {
		return "", g.LogWrappedErr("genai.ollama.marshal", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", g.LogWrappedErr("genai.ollama.request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return "", g.LogWrappedErr("genai.ollama.send", err, "model", g.model)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", g.LogNewErr("genai.ollama: non-200 response", "status", resp.StatusCode, "body", string(snippet))
	}

	var parsed ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", g.LogWrappedErr("genai.ollama.decode", err)
	}

	text := stripFence(parsed.Response)
	if text == "" {
		return "", fmt.Errorf("%w (model %s)", ErrEmptyResponse, g.model)
	}
	g.Log("genai.ollama.response", "model", g.model, "bytes", len(text))
	return text, nil
}
