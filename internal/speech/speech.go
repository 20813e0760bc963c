// Package speech renders simplified text as spoken audio.
package speech

import "context"

// Synthesizer converts plain text into audio bytes. Implementations
// decide the container format; the bundled engine produces WAV.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
