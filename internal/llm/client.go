// Package llm holds the language-model clients used for free-form parsing,
// specialty triage and medical information answers.
package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a provider-neutral chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type Request struct {
	Model       string
	System      []string
	Messages    []Message
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type Response struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// Client is implemented by every provider and by the wrappers in this package.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Prompt builds a single-turn request with one system block.
func Prompt(system, user string) Request {
	req := Request{
		Messages:    []Message{{Role: RoleUser, Content: user}},
		MaxTokens:   512,
		Temperature: 0,
	}
	if system != "" {
		req.System = []string{system}
	}
	return req
}
