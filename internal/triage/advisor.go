package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/medbook-assistant/internal/llm"
)

// Disclaimer is appended to every medical information answer.
const Disclaimer = "This is general information, not a diagnosis. Please consult a doctor for medical advice."

// Advisor answers general questions about a condition.
type Advisor struct {
	client llm.Client
	model  string
}

func NewAdvisor(client llm.Client, model string) *Advisor {
	if client == nil {
		panic("triage: llm client required")
	}
	return &Advisor{client: client, model: model}
}

func (a *Advisor) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("triage: empty question")
	}
	system := `You are a patient-education assistant at a medical clinic. Give a short, plain-language overview (at most 5 sentences) of the condition the patient asks about: what it is, common symptoms and which specialist usually treats it. Never prescribe medication or dosages. If the question describes an emergency, tell the patient to seek emergency care immediately.`
	req := llm.Prompt(system, question)
	req.Model = a.model
	req.MaxTokens = 400
	req.Temperature = 0.3
	resp, err := a.client.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("triage: medical info: %w", err)
	}
	answer := strings.TrimSpace(resp.Text)
	if answer == "" {
		return "", errors.New("triage: empty medical info answer")
	}
	return answer, nil
}
