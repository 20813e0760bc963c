package provider

import "context"

// Mock is a scripted Client for tests.
type Mock struct {
	// Replies are returned in call order; the last one repeats.
	Replies []string
	// Errs maps a zero-based call index to a forced failure.
	Errs map[int]error
	// ModelID is reported by Model; defaults to "mock-model".
	ModelID string
	// Prompts records every prompt received, in order.
	Prompts []string

	calls int
}

func (m *Mock) Complete(_ context.Context, prompt string) (string, error) {
	i := m.calls
	m.calls++
	m.Prompts = append(m.Prompts, prompt)

	if err, ok := m.Errs[i]; ok {
		return "", err
	}
	if len(m.Replies) == 0 {
		return "", nil
	}
	if i >= len(m.Replies) {
		return m.Replies[len(m.Replies)-1], nil
	}
	return m.Replies[i], nil
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Model() string {
	if m.ModelID == "" {
		return "mock-model"
	}
	return m.ModelID
}
