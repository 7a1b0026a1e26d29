// Package resolver turns a fuzzy change request into a concrete, minimal edit of a document.
//
// A change request carries a reference passage (what the request is talking about, possibly inexact), a suggestion (what it should become, possibly just an
// instruction), and the document itself. Resolution runs a strictly linear cascade of strategies ordered by cost and blast radius:
//
//  1. exact replace: free and unambiguous when the reference is a verbatim substring
//  2. windowed edit: a generator rewrites a bounded slice around the located reference; the rest of the document is untouchable
//  3. diff patch: a generator proposes a unified diff against the whole document, which is validated before it is trusted and applied
//  4. whole-document regenerate: the last resort, verified before acceptance
//
// The first strategy that produces a change wins; there is no backtracking. Every internal comparison runs on LF-normalized text and the original line-ending
// style is restored exactly once, on the final output. Resolve never fails with an error: malformed generator output, rejected diffs, and patch failures all
// advance the cascade, and the only terminal failure is an Outcome with StrategyFailed.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/docmender/docmender/internal/genai"
	"github.com/docmender/docmender/internal/lineending"
	"github.com/docmender/docmender/internal/locate"
	"github.com/docmender/docmender/internal/q/health"
	"github.com/docmender/docmender/internal/unidiff"
)

// ChangeRequest is one unit of work: edit DocumentText as ReferenceText/SuggestionText describe.
//
// ReferenceText may be inexact (whitespace drift, rewordings, stale copies). SuggestionText may be a concrete replacement, a prose instruction, or blank;
// blank and "<blank...>" placeholders mark an instruction-only request where ReferenceText itself is the instruction.
type ChangeRequest struct {
	DocumentText       string
	ReferenceText      string
	SuggestionText     string
	FileID             string // identifier shown to the generator for context, typically a path
	CustomInstructions string // optional extra guidance forwarded verbatim to whole-document prompts
}

// Strategy identifies which cascade strategy produced an Outcome.
type Strategy int

const (
	StrategyFailed Strategy = iota
	StrategyExact
	StrategyWindowed
	StrategyPatch
	StrategyWholeDocument
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyWindowed:
		return "windowed"
	case StrategyPatch:
		return "patch"
	case StrategyWholeDocument:
		return "whole-document"
	default:
		return "failed"
	}
}

// Failure reasons carried by a StrategyFailed Outcome.
const (
	ReasonGenerationRejected = "generation rejected"
)

// Outcome is the result of a resolution. On success Text holds the updated document in the original line-ending style and ChangedLines the number of added
// plus removed lines relative to the input. On failure Text is empty and Reason says why.
type Outcome struct {
	Strategy     Strategy
	Text         string
	ChangedLines int
	Reason       string
}

// Applied reports whether the cascade produced an updated document.
func (o Outcome) Applied() bool {
	return o.Strategy != StrategyFailed
}

// DefaultMinMatchRatio is the historical similar-enough threshold: a located reference must cover at least this fraction of the reference's lines before a
// windowed edit is aimed at it.
const DefaultMinMatchRatio = 0.70

// Options are the resolution thresholds. All of them are product-level heuristics with no principled derivation, so they stay configurable.
type Options struct {
	MarginBefore  int     // window margin above the located reference, in lines
	MarginAfter   int     // window margin below it
	MinMatchRatio float64 // minimum locate confidence for the windowed strategy
	Rules         unidiff.Rules
}

func DefaultOptions() Options {
	return Options{
		MarginBefore:  locate.DefaultMarginBefore,
		MarginAfter:   locate.DefaultMarginAfter,
		MinMatchRatio: DefaultMinMatchRatio,
		Rules:         unidiff.DefaultRules(),
	}
}

// Resolver runs the strategy cascade against a single Generator. It is stateless across calls and safe for concurrent use if the Generator is.
type Resolver struct {
	health.Ctx
	gen  genai.Generator
	opts Options
}

func New(gen genai.Generator, opts Options, logger *slog.Logger) *Resolver {
	return &Resolver{Ctx: health.NewCtx(logger), gen: gen, opts: opts}
}

// session is the per-call working set: the request plus its LF-normalized projections. Everything downstream of Resolve operates on these; the detected
// line-ending style is consulted once, when the final output is restored.
type session struct {
	req      ChangeRequest
	style    lineending.Style
	doc      string
	ref      string
	sug      string
	docLines []string
}

// instructionOnly reports whether the request carries no concrete replacement text, only guidance.
func (s *session) instructionOnly() bool {
	trimmed := strings.TrimSpace(s.sug)
	return trimmed == "" || strings.HasPrefix(strings.ToLower(trimmed), "<blank")
}

func (s *session) success(strategy Strategy, newDoc string) Outcome {
	return Outcome{Strategy: strategy, Text: newDoc, ChangedLines: changedLines(s.doc, newDoc)}
}

type state int

const (
	stateTryExact state = iota
	stateTryWindowed
	stateTryDiffPatch
	stateTryWholeDocument
	stateDone
)

// Resolve runs the cascade for req. It always returns an Outcome; see the package comment for the failure model.
func (r *Resolver) Resolve(ctx context.Context, req ChangeRequest) Outcome {
	s := &session{
		req:   req,
		style: lineending.Detect(req.DocumentText),
		doc:   lineending.Normalize(req.DocumentText),
		ref:   lineending.Normalize(req.ReferenceText),
		sug:   lineending.Normalize(req.SuggestionText),
	}
	s.docLines = lineending.Split(s.doc)

	var out Outcome
	done := false
	for st := stateTryExact; !done; {
		st, out, done = r.step(ctx, s, st)
	}

	if out.Applied() {
		out.Text = lineending.Restore(out.Text, s.style)
		r.Log("change resolved", "strategy", out.Strategy.String(), "changedLines", out.ChangedLines, "file", req.FileID)
	} else {
		r.Log("change not resolved", "reason", out.Reason, "file", req.FileID)
	}
	return out
}

// step is the cascade's transition function: given the current state it either terminates with an Outcome or advances exactly one state.
func (r *Resolver) step(ctx context.Context, s *session, st state) (state, Outcome, bool) {
	switch st {
	case stateTryExact:
		if out, ok := r.tryExact(s); ok {
			return stateDone, out, true
		}
		return stateTryWindowed, Outcome{}, false
	case stateTryWindowed:
		if out, ok := r.tryWindowed(ctx, s); ok {
			return stateDone, out, true
		}
		return stateTryDiffPatch, Outcome{}, false
	case stateTryDiffPatch:
		if out, ok := r.tryDiffPatch(ctx, s); ok {
			return stateDone, out, true
		}
		return stateTryWholeDocument, Outcome{}, false
	default:
		return stateDone, r.tryWholeDocument(ctx, s), true
	}
}

// tryExact replaces the first verbatim occurrence of the trimmed reference with the trimmed suggestion. Skipped for instruction-only requests, which have no
// concrete replacement text to substitute.
func (r *Resolver) tryExact(s *session) (Outcome, bool) {
	if s.instructionOnly() {
		return Outcome{}, false
	}
	ref := strings.TrimSpace(s.ref)
	if ref == "" || !strings.Contains(s.doc, ref) {
		return Outcome{}, false
	}

	updated := strings.Replace(s.doc, ref, strings.TrimSpace(s.sug), 1)
	if updated == s.doc {
		return Outcome{}, false
	}
	r.Log("reference found verbatim, direct replacement")
	return s.success(StrategyExact, updated), true
}

// tryWindowed locates the reference, carves a bounded window around it, and asks the generator to rewrite only that window. The generator's output is spliced
// back at the window's bounds, so the rest of the document cannot change.
func (r *Resolver) tryWindowed(ctx context.Context, s *session) (Outcome, bool) {
	refLines := lineending.Split(s.ref)
	m, found := locate.Locate(s.docLines, refLines)
	if !found {
		r.Log("no location signal for reference, skipping windowed edit")
		return Outcome{}, false
	}
	if !locate.SimilarEnough(m, r.opts.MinMatchRatio) {
		r.Log("located reference below match threshold", "confidence", m.Confidence, "min", r.opts.MinMatchRatio)
		return Outcome{}, false
	}

	w := locate.ExtractWindow(s.docLines, m.StartLine, len(refLines), r.opts.MarginBefore, r.opts.MarginAfter)
	r.Log("context window extracted", "startLine", w.StartLine+1, "endLine", w.EndLine, "lines", len(w.Lines))

	prompt := renderPrompt(windowPromptFragment, promptData{
		FileID:      s.req.FileID,
		Reference:   s.ref,
		Suggestion:  s.sug,
		WindowText:  lineending.Join(w.Lines),
		WindowStart: w.StartLine + 1,
		WindowEnd:   w.EndLine,
		WindowLines: len(w.Lines),
	})
	resp, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		r.Log("windowed generation failed", "err", err)
		return Outcome{}, false
	}

	resp = strings.TrimSpace(lineending.Normalize(resp))
	if resp == "" {
		r.Log("windowed generation returned nothing, advancing")
		return Outcome{}, false
	}

	replacement := lineending.Split(resp)
	// Trimming the response eats the document's trailing blank line when the window reaches EOF; put it back.
	if n := len(w.Lines); n > 0 && w.Lines[n-1] == "" && replacement[len(replacement)-1] != "" {
		replacement = append(replacement, "")
	}

	newDoc := lineending.Join(w.Splice(s.docLines, replacement))
	if newDoc == s.doc {
		r.Log("windowed edit was a no-op, advancing")
		return Outcome{}, false
	}
	return s.success(StrategyWindowed, newDoc), true
}

// tryDiffPatch asks the generator for a unified diff against the whole document, gates it through the validator, and applies it. Any rejection or patch error
// advances the cascade.
func (r *Resolver) tryDiffPatch(ctx context.Context, s *session) (Outcome, bool) {
	prompt := renderPrompt(diffPromptFragment, promptData{
		FileID:       s.req.FileID,
		Reference:    s.ref,
		Suggestion:   s.sug,
		DocumentText: s.doc,
	})
	resp, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		r.Log("diff generation failed", "err", err)
		return Outcome{}, false
	}

	diffText := lineending.Normalize(resp)
	if v := unidiff.Validate(diffText, r.opts.Rules); !v.OK {
		r.Log("diff rejected", "reason", v.Reason.String())
		return Outcome{}, false
	}

	updated, err := unidiff.Apply(s.doc, diffText)
	if err != nil {
		r.Log("patch application failed", "err", err)
		return Outcome{}, false
	}
	return s.success(StrategyPatch, updated), true
}

// tryWholeDocument regenerates the entire document and verifies the result: it must be non-empty, differ from the input, and, when the request carries a
// concrete suggestion, contain that suggestion verbatim. There is no further fallback.
func (r *Resolver) tryWholeDocument(ctx context.Context, s *session) Outcome {
	prompt := renderPrompt(wholeDocPromptFragment, promptData{
		FileID:             s.req.FileID,
		Reference:          s.ref,
		Suggestion:         s.sug,
		DocumentText:       s.doc,
		CustomInstructions: strings.TrimSpace(s.req.CustomInstructions),
		InstructionOnly:    s.instructionOnly(),
	})
	resp, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		r.Log("whole-document generation failed", "err", err)
		return Outcome{Strategy: StrategyFailed, Reason: ReasonGenerationRejected}
	}

	updated := strings.TrimSpace(lineending.Normalize(resp))
	if updated != "" && strings.HasSuffix(s.doc, "\n") && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}

	if updated == "" || updated == s.doc {
		r.Log("whole-document response empty or unchanged")
		return Outcome{Strategy: StrategyFailed, Reason: ReasonGenerationRejected}
	}
	if sug := strings.TrimSpace(s.sug); !s.instructionOnly() && !strings.Contains(updated, sug) {
		r.Log("whole-document response dropped the suggested text")
		return Outcome{Strategy: StrategyFailed, Reason: ReasonGenerationRejected}
	}
	return s.success(StrategyWholeDocument, updated)
}

// changedLines counts added plus removed lines between two documents, diffed line-wise.
func changedLines(oldText, newText string) int {
	if oldText == newText {
		return 0
	}
	dmp := diffmatchpatch.New()
	rOld, rNew, _ := dmp.DiffLinesToRunes(oldText, newText)
	n := 0
	for _, d := range dmp.DiffMainRunes(rOld, rNew, false) {
		if d.Type != diffmatchpatch.DiffEqual {
			n += len([]rune(d.Text))
		}
	}
	return n
}
