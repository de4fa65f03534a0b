// Package llm abstracts the upstream language service as a small capability
// set: classify, extract, and transcribe. The upstream is slow, stateless per
// call, and gives no output-schema guarantees; callers must treat every
// response as untrusted text.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable wraps transport failures and timeouts from the language
// service. Callers treat it as extraction failure and take their fallback
// path rather than failing the request.
var ErrUnavailable = errors.New("language service unavailable")

// Attachment is a binary payload (receipt image, statement PDF) sent
// alongside an extraction prompt.
type Attachment struct {
	MIME string
	Data []byte
}

// Client is the language-service capability interface
type Client interface {
	// Classify maps a prompt to free text used for coarse intent routing.
	// The response is matched by substring, not parsed.
	Classify(ctx context.Context, prompt string) (string, error)

	// Extract issues a strict-JSON prompt, optionally with attachments, and
	// returns the raw model text. The text must still go through the
	// extraction parser; the model does not reliably honor the JSON
	// instruction.
	Extract(ctx context.Context, prompt string, attachments ...Attachment) (string, error)

	// Transcribe converts a voice attachment to English text. The transcript
	// is plain prose and goes through the same routing as typed messages.
	Transcribe(ctx context.Context, audio Attachment) (string, error)
}
