package genai

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Mock is a Generator for tests. It replies with the value whose key (case-insensitive) occurs in the prompt, records every prompt it sees, and can be forced to
// fail. Safe for concurrent use.
type Mock struct {
	mu        sync.Mutex
	responses map[string]string
	prompts   []string

	// Err, when set, is returned by every Generate call.
	Err error
}

var _ Generator = (*Mock)(nil)

// NewMock returns a Mock that matches prompt substrings against the keys of responses.
func NewMock(responses map[string]string) *Mock {
	return &Mock{responses: responses}
}

func (m *Mock) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	lower := strings.ToLower(prompt)
	for k, resp := range m.responses {
		if strings.Contains(lower, strings.ToLower(k)) {
			return resp, nil
		}
	}
	return "", fmt.Errorf("no mock response matches prompt (%d bytes)", len(prompt))
}

// Prompts returns a copy of every prompt passed to Generate, in order.
func (m *Mock) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
