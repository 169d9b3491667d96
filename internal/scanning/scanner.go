package scanning

import "context"

// Default generation settings for inference requests.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.1

	// LabelMaxTokens bounds short label/yes-no answers.
	LabelMaxTokens = 10
)

// Request is a single prompt plus image sent to a vision model. MaxTokens caps
// the reply where the provider's budget covers only visible output; Gemini
// ignores it.
type Request struct {
	Prompt      string
	Image       []byte // JPEG bytes, see PrepareImage
	MaxTokens   int
	Temperature float32
}

// Scanner defines a remote vision model that turns an image and a prompt into text
type Scanner interface {
	// Name identifies the model, e.g. "gemini-2.5-pro"
	Name() string
	// Scan performs exactly one round trip to the inference service
	Scan(ctx context.Context, req Request) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}

func withDefaults(req Request) Request {
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}
	if req.Temperature <= 0 {
		req.Temperature = DefaultTemperature
	}
	return req
}
