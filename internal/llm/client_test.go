package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"
)

func sampleSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"score": {Type: TypeInteger},
			"tags":  {Type: TypeArray, Items: &Schema{Type: TypeString}},
			"level": {Type: TypeString, Enum: []string{"High", "Low"}},
			"ratio": {Type: TypeNumber},
		},
		Required: []string{"score", "tags", "level", "ratio"},
	}
}

func TestOpenAIClient_SendsStrictSchema(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"score\":1}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL+"/", "test-key", "", zap.NewNop())
	out, err := client.Generate(context.Background(), Request{Prompt: "audit me", Schema: sampleSchema()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != `{"score":1}` {
		t.Fatalf("unexpected content %q", out)
	}

	if captured["model"] != defaultOpenAIModel {
		t.Fatalf("expected default model, got %v", captured["model"])
	}
	format, _ := captured["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", format)
	}
	js, _ := format["json_schema"].(map[string]any)
	if js["strict"] != true || js["name"] != "growth_audit" {
		t.Fatalf("expected strict growth_audit schema, got %v", js)
	}
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "test-key", "custom-model", nil)
	if _, err := client.Generate(context.Background(), Request{Prompt: "x"}); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestOpenAIClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "test-key", "", zap.NewNop())
	if _, err := client.Generate(context.Background(), Request{Prompt: "x"}); err == nil {
		t.Fatalf("expected error on 429")
	}
}

func TestMissingAPIKey(t *testing.T) {
	openaiClient := NewOpenAIClient("", "", "", nil)
	if _, err := openaiClient.Generate(context.Background(), Request{Prompt: "x"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("openai: expected ErrMissingAPIKey, got %v", err)
	}

	gemini, err := NewGeminiClient(context.Background(), "", "", nil)
	if err != nil {
		t.Fatalf("gemini without key should not fail to build, got %v", err)
	}
	defer gemini.Close()
	if _, err := gemini.Generate(context.Background(), Request{Prompt: "x"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("gemini: expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNewClient_Providers(t *testing.T) {
	ctx := context.Background()

	c, closeFn, err := NewClient(ctx, "", "", "", "", nil)
	if err != nil {
		t.Fatalf("default provider: %v", err)
	}
	closeFn()
	if _, ok := c.(*GeminiClient); !ok {
		t.Fatalf("expected gemini by default, got %T", c)
	}

	c, closeFn, err = NewClient(ctx, "OpenAI", "", "", "", nil)
	if err != nil {
		t.Fatalf("openai provider: %v", err)
	}
	closeFn()
	if _, ok := c.(*OpenAIClient); !ok {
		t.Fatalf("expected openai client, got %T", c)
	}

	if _, _, err := NewClient(ctx, "llama", "", "", "", nil); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestSchemaTranslation(t *testing.T) {
	def := toJSONSchema(sampleSchema())
	if def.Type != jsonschema.Object || def.AdditionalProperties != false {
		t.Fatalf("strict objects must forbid additional properties: %+v", def)
	}
	if def.Properties["score"].Type != jsonschema.Integer || def.Properties["ratio"].Type != jsonschema.Number {
		t.Fatalf("numeric types lost in translation")
	}
	if def.Properties["tags"].Items == nil || def.Properties["tags"].Items.Type != jsonschema.String {
		t.Fatalf("array items lost in translation")
	}

	gs := toGenaiSchema(sampleSchema())
	if gs.Type != genai.TypeObject || len(gs.Required) != 4 {
		t.Fatalf("unexpected genai schema: %+v", gs)
	}
	if gs.Properties["level"].Type != genai.TypeString || len(gs.Properties["level"].Enum) != 2 {
		t.Fatalf("enum lost in genai translation")
	}
	if gs.Properties["level"].Format != "enum" {
		t.Fatalf("string enums need the enum format, got %q", gs.Properties["level"].Format)
	}
	if gs.Properties["tags"].Items.Format != "" {
		t.Fatalf("plain strings must not carry a format")
	}
	if gs.Properties["tags"].Items.Type != genai.TypeString {
		t.Fatalf("array items lost in genai translation")
	}
}
