// Package genai abstracts text generation behind a single interface so the change resolver is written exactly once.
//
// The historical tool duplicated its whole edit pipeline per AI provider (four near-identical copies). Here a provider is only a Generator: prompt text in,
// response text out. Providers know nothing about diffs, windows, or documents — all of that prompting lives with the resolver.
//
// Generators make a single attempt per call. Retry and backoff policy belongs to outer layers; a timeout or cancellation on ctx surfaces as an ordinary error
// and the caller advances its strategy cascade.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Generator is the text-generation capability. Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Capability-level failures. All of them are recoverable by the caller in the sense that the strategy cascade simply advances.
var (
	ErrNoAPIKey      = errors.New("genai: no API key configured")
	ErrEmptyResponse = errors.New("genai: provider returned an empty response")
)

// Config selects and parameterizes a provider.
type Config struct {
	Provider string // "openai", "anthropic", "gemini", or "ollama"
	Model    string
	APIKey   string
	BaseURL  string // optional endpoint override (OpenAI-compatible gateways, Ollama host)
	System   string // system message; defaults to DefaultSystem
}

// DefaultSystem is the system message used when Config.System is blank.
const DefaultSystem = "You are a precise document editor. Return only the requested text - no explanatory prose, no dialog, no code fences."

// New builds a Generator for cfg.Provider.
func New(cfg Config, logger *slog.Logger) (Generator, error) {
	if cfg.System == "" {
		cfg.System = DefaultSystem
	}
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAI(cfg, logger)
	case "anthropic":
		return newAnthropic(cfg, logger)
	case "gemini":
		return newGemini(cfg, logger)
	case "ollama":
		return newOllama(cfg, logger)
	default:
		return nil, fmt.Errorf("genai: unknown provider %q", cfg.Provider)
	}
}

// stripFence unwraps a response the model insisted on fencing with ``` despite instructions. Applied by providers so callers always see raw text.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
