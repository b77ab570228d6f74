package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"
)

// LLMClient define la interfaz para generar respuestas estructuradas con un LLM.
type LLMClient interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrMissingAPIKey se devuelve sin tocar la red cuando falta la credencial.
var ErrMissingAPIKey = errors.New("llm api key not configured")

// ErrEmptyResponse indica que el proveedor respondio sin contenido.
var ErrEmptyResponse = errors.New("llm empty response")

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient implementa LLMClient contra cualquier API compatible con OpenAI.
type OpenAIClient struct {
	client *openai.Client
	apiKey string
	model  string
	logger *zap.Logger
}

// NewOpenAIClient construye el cliente apuntando a baseURL (vacio usa el default de OpenAI).
func NewOpenAIClient(baseURL, apiKey, model string, logger *zap.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		apiKey: apiKey,
		model:  model,
		logger: logger,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if req.Schema != nil {
		def := toJSONSchema(req.Schema)
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "growth_audit",
				Schema: &def,
				Strict: true,
			},
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Warn("llm api error", zap.Int("status", apiErr.HTTPStatusCode), zap.String("message", apiErr.Message))
		}
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// toJSONSchema traduce el schema neutral al formato strict de OpenAI,
// que exige additionalProperties=false en cada objeto.
func toJSONSchema(s *Schema) jsonschema.Definition {
	def := jsonschema.Definition{
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
	}
	switch s.Type {
	case TypeObject:
		def.Type = jsonschema.Object
		def.AdditionalProperties = false
		def.Properties = make(map[string]jsonschema.Definition, len(s.Properties))
		for name, prop := range s.Properties {
			def.Properties[name] = toJSONSchema(prop)
		}
	case TypeArray:
		def.Type = jsonschema.Array
		if s.Items != nil {
			items := toJSONSchema(s.Items)
			def.Items = &items
		}
	case TypeInteger:
		def.Type = jsonschema.Integer
	case TypeNumber:
		def.Type = jsonschema.Number
	case TypeBoolean:
		def.Type = jsonschema.Boolean
	default:
		def.Type = jsonschema.String
	}
	return def
}
