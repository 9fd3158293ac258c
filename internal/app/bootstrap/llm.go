package bootstrap

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/medbook-assistant/internal/config"
	"github.com/wolfman30/medbook-assistant/internal/llm"
	"github.com/wolfman30/medbook-assistant/internal/observability/metrics"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// BuildLLMClient chains Gemini (primary) and Bedrock (secondary). It returns a
// nil client when neither is configured; the dialogue then runs on its
// deterministic parsers alone.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, m *metrics.LLMMetrics, logger *logging.Logger) (llm.Client, func()) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}
	if cfg == nil {
		return nil, noop
	}

	var providers []llm.Provider
	closeFn := noop
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Warn("gemini unavailable", "error", err)
		} else {
			providers = append(providers, llm.Provider{Name: "gemini", Client: llm.NewInstrumented("gemini", gemini, m)})
			closeFn = func() { _ = gemini.Close() }
		}
	}
	if model := strings.TrimSpace(cfg.BedrockModelID); model != "" {
		bedrock := llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), model)
		providers = append(providers, llm.Provider{Name: "bedrock", Client: llm.NewInstrumented("bedrock", bedrock, m)})
	}

	chain := llm.NewChain(logger, providers...)
	if chain.Len() == 0 {
		logger.Warn("no LLM provider configured; free-form input and AI triage disabled")
		return nil, closeFn
	}
	logger.Info("llm chain ready", "providers", chain.Len())
	return chain, closeFn
}
