package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error

	Calls       int
	LastRequest Request
}

func (m *MockClient) Generate(ctx context.Context, req Request) (string, error) {
	m.Calls++
	m.LastRequest = req
	return m.Response, m.Err
}
