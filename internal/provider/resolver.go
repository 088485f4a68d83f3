package provider

import (
	"snooper/internal/config"
	"snooper/internal/logging"
)

// Resolve constructs the configured primary backend; on construction failure
// it tries the single alternate once, then gives up with a *ResolveError
// naming both attempts. Each backend is attempted exactly once per call.
//
// The explicit key is passed to the primary only, unless the config enables
// propagate_api_key_on_fallback: an explicit key is normally scoped to the
// backend the operator selected.
func Resolve(cfg *config.Config, explicitKey string) (AnalysisClient, Kind, error) {
	primary := Kind(cfg.Provider)

	client, primaryErr := construct(cfg, primary, explicitKey)
	if primaryErr == nil {
		logging.Provider("resolved primary backend: %s (model=%s)", primary, client.GetModel())
		return client, primary, nil
	}

	fallback := primary.Other()
	logging.ProviderWarn("primary backend %s failed (%v), trying %s", primary, primaryErr, fallback)

	fallbackKey := ""
	if cfg.PropagateAPIKeyOnFallback {
		fallbackKey = explicitKey
	}

	client, fallbackErr := construct(cfg, fallback, fallbackKey)
	if fallbackErr == nil {
		logging.Provider("resolved fallback backend: %s (model=%s)", fallback, client.GetModel())
		return client, fallback, nil
	}

	return nil, "", &ResolveError{
		Primary:     primary,
		PrimaryErr:  primaryErr,
		Fallback:    fallback,
		FallbackErr: fallbackErr,
	}
}

// construct builds one backend with its configured model.
func construct(cfg *config.Config, kind Kind, apiKey string) (AnalysisClient, error) {
	switch kind {
	case KindClaude:
		return NewAnthropicClient(apiKey, cfg.ClaudeModel())
	case KindOpenAI:
		return NewOpenAIClient(apiKey, cfg.OpenAIModel())
	default:
		// Unreachable for validated configs; config.Load rejects anything
		// outside the two known kinds.
		return nil, config.ErrUnknownProvider
	}
}
