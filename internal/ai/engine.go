// Package ai turns uploaded study material and doubts into structured study
// aids through the model host. Prompt templates and output schemas live in
// the database so they can be revised without a redeploy.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iitconnect/iitconnect/internal/config"
	"github.com/iitconnect/iitconnect/pkg/llm"
	"github.com/iitconnect/iitconnect/pkg/repository"
)

// ErrMalformedOutput marks a response the model produced but we could not
// use: no JSON found, JSON that fails the schema, an empty summary. Callers
// report it as a soft failure, never as a server fault.
var ErrMalformedOutput = errors.New("malformed model output")

// MCQ is one generated multiple choice question.
type MCQ struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	Hint     string   `json:"hint,omitempty"`
}

// SubjectiveQ is one generated short answer question.
type SubjectiveQ struct {
	Question    string `json:"question"`
	ModelAnswer string `json:"model_answer"`
	Hint        string `json:"hint,omitempty"`
}

// Flashcard is one generated term/definition pair.
type Flashcard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// ConceptEdge is one labelled edge of a generated concept map.
type ConceptEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// Engine wraps the LLM client and provides the study helpers.
type Engine struct {
	client    *llm.Client
	cfg       config.EngineConfig
	loader    *Loader
	templates repository.TemplateRepo
	logger    *slog.Logger
}

// NewEngine creates the study engine. Schema and template repos are required;
// templates are looked up per call so edits take effect immediately.
func NewEngine(ctx context.Context, client *llm.Client, cfg config.EngineConfig, sr repository.SchemaRepo, tr repository.TemplateRepo, logger *slog.Logger) (*Engine, error) {
	if cfg.TemplateVersion == "" {
		cfg.TemplateVersion = "v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if sr == nil {
		return nil, fmt.Errorf("schema repo is required")
	}
	if tr == nil {
		return nil, fmt.Errorf("template repo is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	loader, err := NewLoader(ctx, sr)
	if err != nil {
		return nil, fmt.Errorf("create loader: %w", err)
	}

	return &Engine{client: client, cfg: cfg, loader: loader, templates: tr, logger: logger}, nil
}

func (e *Engine) ReloadSchemas(ctx context.Context) error {
	return e.loader.Reload(ctx)
}

// generate renders the named template and runs it through the model.
func (e *Engine) generate(ctx context.Context, name string, data any) (string, error) {
	tpl, err := e.templates.GetTemplate(ctx, name, e.cfg.TemplateVersion)
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}
	if tpl == nil || tpl.TemplateTxt == "" {
		return "", fmt.Errorf("template %s:%s not found", name, e.cfg.TemplateVersion)
	}

	prompt, err := llm.RenderTemplate(tpl.TemplateTxt, data)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}

	ctxReq, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	out, err := e.client.Generate(ctxReq, e.cfg.Model, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out.Text, nil
}

// generateValidated runs a template whose output must be a JSON array
// matching the schema registered under the template's name.
func (e *Engine) generateValidated(ctx context.Context, name string, data any) ([]byte, error) {
	out, err := e.generate(ctx, name, data)
	if err != nil {
		return nil, err
	}

	j := extractJSONArray(out)
	if j == "" {
		e.logger.Warn("no JSON array in model output", "task", name, "raw_len", len(out))
		return nil, fmt.Errorf("%w: no JSON array found", ErrMalformedOutput)
	}

	schema, ok := e.loader.GetSchema(name)
	if !ok || schema == nil {
		return nil, fmt.Errorf("no schema found for %s", name)
	}

	verrs, err := schema.ValidateBytes(ctx, []byte(j))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}
		e.logger.Warn("model output failed schema", "task", name, "violations", sb.String())
		return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, sb.String())
	}
	return []byte(j), nil
}

// GenerateMCQs builds multiple choice questions from study material.
func (e *Engine) GenerateMCQs(ctx context.Context, material string) ([]MCQ, error) {
	b, err := e.generateValidated(ctx, "mcq", map[string]any{"Text": material})
	if err != nil {
		return nil, err
	}
	var out []MCQ
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return out, nil
}

// GenerateSubjective builds short answer questions from study material.
func (e *Engine) GenerateSubjective(ctx context.Context, material string) ([]SubjectiveQ, error) {
	b, err := e.generateValidated(ctx, "subjective", map[string]any{"Text": material})
	if err != nil {
		return nil, err
	}
	var out []SubjectiveQ
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return out, nil
}

// GenerateFlashcards builds term/definition cards from study material.
func (e *Engine) GenerateFlashcards(ctx context.Context, material string) ([]Flashcard, error) {
	b, err := e.generateValidated(ctx, "flashcard", map[string]any{"Text": material})
	if err != nil {
		return nil, err
	}
	var out []Flashcard
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return out, nil
}

// GenerateConceptMap extracts labelled concept edges from study material.
func (e *Engine) GenerateConceptMap(ctx context.Context, material string) ([]ConceptEdge, error) {
	b, err := e.generateValidated(ctx, "conceptmap", map[string]any{"Text": material})
	if err != nil {
		return nil, err
	}
	var out []ConceptEdge
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return out, nil
}

// Summarize produces a plain text summary of study material.
func (e *Engine) Summarize(ctx context.Context, material string) (string, error) {
	out, err := e.generate(ctx, "summary", map[string]any{"Text": material})
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(out)
	if s == "" {
		return "", fmt.Errorf("%w: empty summary", ErrMalformedOutput)
	}
	return s, nil
}

// AnswerDoubt produces a tutor style answer for a posted doubt.
func (e *Engine) AnswerDoubt(ctx context.Context, subject, title, text string) (string, error) {
	out, err := e.generate(ctx, "doubt", map[string]any{"Subject": subject, "Title": title, "Text": text})
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(out)
	if s == "" {
		return "", fmt.Errorf("%w: empty answer", ErrMalformedOutput)
	}
	return s, nil
}

// VerifyUpload asks the model whether an uploaded document is legitimate
// study material. A verdict it cannot parse counts as accepted: verification
// is a badge, never a gate on the upload.
func (e *Engine) VerifyUpload(ctx context.Context, subject, excerpt string) (bool, error) {
	out, err := e.generate(ctx, "verify", map[string]any{"Subject": subject, "Text": excerpt})
	if err != nil {
		return false, err
	}

	upper := strings.ToUpper(out)
	switch {
	case strings.Contains(upper, "VERDICT: REJECT"):
		return false, nil
	case strings.Contains(upper, "VERDICT: ACCEPT"):
		return true, nil
	}
	e.logger.Warn("unparsable verification verdict", "raw_len", len(out))
	return true, nil
}

// extractJSONArray returns the substring from the first '[' to the last ']'
// in the input. Models wrap JSON in prose and markdown fences; this strips
// both without caring which.
func extractJSONArray(s string) string {
	first := strings.Index(s, "[")
	last := strings.LastIndex(s, "]")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}
