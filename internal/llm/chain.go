package llm

import (
	"context"
	"errors"

	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// ErrNoProviders is returned by an empty Chain.
var ErrNoProviders = errors.New("llm: no providers configured")

// Provider is a named Client inside a Chain.
type Provider struct {
	Name   string
	Client Client
}

// Chain tries providers in order and returns the first successful completion.
type Chain struct {
	providers []Provider
	logger    *logging.Logger
}

// NewChain builds a chain, skipping providers with a nil client.
func NewChain(logger *logging.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = logging.Default()
	}
	kept := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.Client != nil {
			kept = append(kept, p)
		}
	}
	return &Chain{providers: kept, logger: logger}
}

// Len reports how many providers the chain will try.
func (c *Chain) Len() int {
	return len(c.providers)
}

func (c *Chain) Complete(ctx context.Context, req Request) (Response, error) {
	if len(c.providers) == 0 {
		return Response{}, ErrNoProviders
	}
	var errs []error
	for i, p := range c.providers {
		resp, err := p.Client.Complete(ctx, req)
		if err == nil {
			if i > 0 {
				c.logger.Info("llm fallback succeeded", "provider", p.Name, "attempt", i+1)
			}
			return resp, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
		if i < len(c.providers)-1 {
			c.logger.Warn("llm provider failed, attempting fallback",
				"provider", p.Name,
				"error", err.Error(),
			)
		}
	}
	err := errors.Join(errs...)
	c.logger.Error("all llm providers failed", "error", err.Error())
	return Response{}, err
}
