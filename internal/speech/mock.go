package speech

import "context"

// Mock is a scripted Synthesizer for tests.
type Mock struct {
	// Audio is returned from every call; defaults to a tiny WAV-ish blob.
	Audio []byte
	// Err, when set, fails every call.
	Err error
	// Texts records the text passed to each call.
	Texts []string
}

func (m *Mock) Synthesize(_ context.Context, text string) ([]byte, error) {
	m.Texts = append(m.Texts, text)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Audio != nil {
		return m.Audio, nil
	}
	return []byte("RIFF0000WAVE"), nil
}
