package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/medbook-assistant/internal/llm"
)

var errNoSpecialty = errors.New("triage: response had no specialty line")

// LLMStrategy asks a language model to pick a specialty.
type LLMStrategy struct {
	client llm.Client
	model  string
}

func NewLLMStrategy(client llm.Client, model string) *LLMStrategy {
	if client == nil {
		panic("triage: llm client required")
	}
	return &LLMStrategy{client: client, model: model}
}

func (s *LLMStrategy) Name() string { return "llm" }

func (s *LLMStrategy) Classify(ctx context.Context, symptoms string) (Result, error) {
	prompt := fmt.Sprintf(`You are a medical triage assistant. Analyze the following symptom description and recommend the most appropriate medical specialty.

Available specialties: %s

Symptom description: %q

Respond in this exact format:
Specialty: [specialty name from the list above]
Confidence: [High/Medium/Low]
Reasoning: [brief explanation in one sentence]

If the symptoms are unclear or too vague, recommend "%s".`, strings.Join(Specialties, ", "), symptoms, DefaultSpecialty)

	req := llm.Prompt("", prompt)
	req.Model = s.model
	req.MaxTokens = 200
	req.Temperature = 0.1
	resp, err := s.client.Complete(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("triage: classify: %w", err)
	}
	return parseClassification(resp.Text)
}

// parseClassification reads the "Specialty:/Confidence:/Reasoning:" lines.
func parseClassification(text string) (Result, error) {
	res := Result{Confidence: ConfidenceMedium, Source: "llm"}
	found := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-* "))
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.Trim(key, "* ")) {
		case "specialty":
			res.Specialty = Canonical(value)
			found = true
		case "confidence":
			res.Confidence = parseConfidence(value)
		case "reasoning":
			res.Reasoning = value
		}
	}
	if !found {
		return Result{}, errNoSpecialty
	}
	return res, nil
}
