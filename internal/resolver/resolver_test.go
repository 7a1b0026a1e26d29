package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmender/docmender/internal/genai"
)

// Prompt substrings unique to each strategy's fragment, used as mock response keys.
const (
	windowPromptKey   = "section to modify"
	diffPromptKey     = "unified diff"
	wholeDocPromptKey = "complete updated file content"
)

func resolve(t *testing.T, gen genai.Generator, req ChangeRequest) Outcome {
	t.Helper()
	r := New(gen, DefaultOptions(), nil)
	return r.Resolve(context.Background(), req)
}

func TestResolveExactReplacement(t *testing.T) {
	// The generator always errors: exact replacement must win without ever consulting it.
	gen := genai.NewMock(nil)
	gen.Err = assert.AnError

	out := resolve(t, gen, ChangeRequest{
		DocumentText:   "A\nB\nC\n",
		ReferenceText:  "B",
		SuggestionText: "B2",
	})

	require.True(t, out.Applied())
	assert.Equal(t, StrategyExact, out.Strategy)
	assert.Equal(t, "A\nB2\nC\n", out.Text)
	assert.Equal(t, 2, out.ChangedLines)
	assert.Empty(t, gen.Prompts())
}

func TestResolveExactReplacesFirstOccurrenceOnly(t *testing.T) {
	out := resolve(t, genai.NewMock(nil), ChangeRequest{
		DocumentText:   "x\ntarget\ny\ntarget\n",
		ReferenceText:  "target",
		SuggestionText: "done",
	})

	require.Equal(t, StrategyExact, out.Strategy)
	assert.Equal(t, "x\ndone\ny\ntarget\n", out.Text)
}

func TestResolveExactPreservesCRLF(t *testing.T) {
	out := resolve(t, genai.NewMock(nil), ChangeRequest{
		DocumentText:   "A\r\nB\r\nC\r\n",
		ReferenceText:  "B",
		SuggestionText: "B2",
	})

	require.Equal(t, StrategyExact, out.Strategy)
	assert.Equal(t, "A\r\nB2\r\nC\r\n", out.Text)
}

func TestResolveWindowedKeepsCRLF(t *testing.T) {
	doc := "# Title\r\n\r\nalpha\r\nbeta\r\ngamma\r\ndelta\r\n"
	// Three of four reference lines match contiguously, so the locator clears the 0.70 threshold, but "epsilon" keeps the reference from being an exact substring.
	ref := "beta\ngamma\ndelta\nepsilon"

	gen := genai.NewMock(map[string]string{
		windowPromptKey: "# Title\n\nalpha\nbeta\ngamma!\ndelta",
	})

	out := resolve(t, gen, ChangeRequest{
		DocumentText:   doc,
		ReferenceText:  ref,
		SuggestionText: "gamma!",
	})

	require.True(t, out.Applied())
	assert.Equal(t, StrategyWindowed, out.Strategy)
	assert.Equal(t, "# Title\r\n\r\nalpha\r\nbeta\r\ngamma!\r\ndelta\r\n", out.Text)
	assert.NotContains(t, strings.ReplaceAll(out.Text, "\r\n", ""), "\n")
	assert.Equal(t, 2, out.ChangedLines)
}

func TestResolveWindowedNoOpFallsThroughToPatch(t *testing.T) {
	doc := "one\ntwo\nthree\nfour\n"

	gen := genai.NewMock(map[string]string{
		windowPromptKey: "one\ntwo\nthree\nfour",
		diffPromptKey:   "@@ -2 +2 @@\n-two\n+deux\n",
	})

	out := resolve(t, gen, ChangeRequest{
		DocumentText:   doc,
		ReferenceText:  "two\nthree\nfour\nfive",
		SuggestionText: "deux",
	})

	require.True(t, out.Applied())
	assert.Equal(t, StrategyPatch, out.Strategy)
	assert.Equal(t, "one\ndeux\nthree\nfour\n", out.Text)
}

func TestResolveExcessiveDiffFallsBackToWholeDocument(t *testing.T) {
	var doc strings.Builder
	for i := 0; i < 20; i++ {
		doc.WriteString("line\n")
	}

	var diff strings.Builder
	diff.WriteString("@@ -1,15 +1 @@\n")
	for i := 0; i < 15; i++ {
		diff.WriteString("-line\n")
	}
	diff.WriteString("+rewritten\n")

	updated := "rewritten with the troubleshooting section\n" + doc.String()

	gen := genai.NewMock(map[string]string{
		diffPromptKey:     diff.String(),
		wholeDocPromptKey: updated,
	})

	out := resolve(t, gen, ChangeRequest{
		DocumentText:   doc.String(),
		ReferenceText:  "please document the troubleshooting steps",
		SuggestionText: "the troubleshooting section",
	})

	require.True(t, out.Applied())
	assert.Equal(t, StrategyWholeDocument, out.Strategy)
	assert.Contains(t, out.Text, "the troubleshooting section")
}

func TestResolveWholeDocumentRejectsDroppedSuggestion(t *testing.T) {
	gen := genai.NewMock(map[string]string{
		wholeDocPromptKey: "something else entirely\n",
	})

	out := resolve(t, gen, ChangeRequest{
		DocumentText:   "alpha\nbeta\n",
		ReferenceText:  "a passage that is not there",
		SuggestionText: "mandatory replacement",
	})

	require.False(t, out.Applied())
	assert.Equal(t, StrategyFailed, out.Strategy)
	assert.Equal(t, ReasonGenerationRejected, out.Reason)
	assert.Empty(t, out.Text)
}

func TestResolveInstructionOnlySkipsContainsCheck(t *testing.T) {
	gen := genai.NewMock(map[string]string{
		diffPromptKey:     "not a diff at all",
		wholeDocPromptKey: "alpha\nbeta\n\n## New Section\n\nFresh content.\n",
	})

	out := resolve(t, gen, ChangeRequest{
		DocumentText:   "alpha\nbeta\n",
		ReferenceText:  "add a new section describing fresh content",
		SuggestionText: "<blank - see instructions>",
	})

	require.True(t, out.Applied())
	assert.Equal(t, StrategyWholeDocument, out.Strategy)
	assert.Contains(t, out.Text, "## New Section")
}

func TestResolveGeneratorDownFailsCleanly(t *testing.T) {
	gen := genai.NewMock(nil)
	gen.Err = assert.AnError

	out := resolve(t, gen, ChangeRequest{
		DocumentText:   "alpha\nbeta\n",
		ReferenceText:  "nothing here matches",
		SuggestionText: "irrelevant",
	})

	require.False(t, out.Applied())
	assert.Equal(t, ReasonGenerationRejected, out.Reason)
}

func TestResolveForwardsCustomInstructions(t *testing.T) {
	gen := genai.NewMock(map[string]string{
		wholeDocPromptKey: "alpha\nbeta updated\n",
	})

	out := resolve(t, gen, ChangeRequest{
		DocumentText:       "alpha\nbeta\n",
		ReferenceText:      "improve the beta line",
		SuggestionText:     "<blank>",
		CustomInstructions: "Keep the Microsoft style guide in mind.",
	})

	require.True(t, out.Applied())
	prompts := gen.Prompts()
	require.NotEmpty(t, prompts)
	last := prompts[len(prompts)-1]
	assert.Contains(t, last, "Additional Custom Instructions")
	assert.Contains(t, last, "Keep the Microsoft style guide in mind.")
	assert.Contains(t, last, "Task Instructions:")
}

func TestChangedLines(t *testing.T) {
	tests := []struct {
		name     string
		oldText  string
		newText  string
		expected int
	}{
		{name: "identical", oldText: "a\nb\n", newText: "a\nb\n", expected: 0},
		{name: "one line replaced", oldText: "a\nb\nc\n", newText: "a\nx\nc\n", expected: 2},
		{name: "line added", oldText: "a\nb\n", newText: "a\nb\nc\n", expected: 1},
		{name: "line removed", oldText: "a\nb\nc\n", newText: "a\nc\n", expected: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, changedLines(tt.oldText, tt.newText))
		})
	}
}

func TestRenderPromptMissingFieldsLeavesFragmentUsable(t *testing.T) {
	got := renderPrompt(windowPromptFragment, promptData{WindowStart: 1, WindowEnd: 3, WindowLines: 3})
	assert.Contains(t, got, "lines 1 to 3")
	assert.True(t, strings.HasSuffix(got, "\n"))
}
