package resolver

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

var (
	//go:embed prompts/window.md
	windowPromptFragment string

	//go:embed prompts/diffpatch.md
	diffPromptFragment string

	//go:embed prompts/wholedoc.md
	wholeDocPromptFragment string
)

// promptData is the union of fields the prompt fragments reference. Line numbers are 1-based because that is what generators expect to read.
type promptData struct {
	FileID             string
	Reference          string
	Suggestion         string
	DocumentText       string
	WindowText         string
	WindowStart        int
	WindowEnd          int
	WindowLines        int
	CustomInstructions string
	InstructionOnly    bool
}

func renderPrompt(fragment string, data promptData) string {
	tmpl, err := template.New("prompt").Option("missingkey=zero").Parse(fragment)
	if err != nil {
		return fragment
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fragment
	}
	return strings.TrimSpace(buf.String()) + "\n"
}
