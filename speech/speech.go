// Package speech synthesizes spoken audio from answer text.
package speech

import "context"

// Synthesizer converts text to encoded audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
