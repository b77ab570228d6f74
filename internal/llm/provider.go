package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewClient elige la implementacion segun el proveedor configurado.
// La funcion de cierre devuelta nunca es nil.
func NewClient(ctx context.Context, provider, baseURL, apiKey, model string, logger *zap.Logger) (LLMClient, func(), error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderGemini:
		g, err := NewGeminiClient(ctx, apiKey, model, logger)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	case ProviderOpenAI:
		return NewOpenAIClient(baseURL, apiKey, model, logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
