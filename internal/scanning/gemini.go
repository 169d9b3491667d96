package scanning

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Gemini implements the Scanner interface using Google Gemini
type Gemini struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

// NewGemini creates a new Gemini Scanner instance
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client:    client,
		modelName: modelName,
		timeout:   60 * time.Second,
	}, nil
}

// Name returns the Gemini model name
func (g *Gemini) Name() string {
	return g.modelName
}

// Scan sends the image and prompt to Gemini and returns the concatenated text parts
func (g *Gemini) Scan(ctx context.Context, req Request) (string, error) {
	req = withDefaults(req)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// Per-call model so generation settings never leak between requests. No
	// output cap: on thinking models it also bounds the thinking tokens.
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(req.Temperature)

	// genai.ImageData expects just the format suffix (e.g., "jpeg")
	parts := []genai.Part{
		genai.ImageData("jpeg", req.Image),
		genai.Text(req.Prompt),
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	return responseText(resp)
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrEmptyResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini candidate has no content (finish reason %s)", ErrEmptyResponse, candidate.FinishReason)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// classifyGeminiError tags quota errors from either the REST or gRPC transport
func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: generating content: %w", ErrThrottled, err)
	}
	if status.Code(err) == codes.ResourceExhausted {
		return fmt.Errorf("%w: generating content: %w", ErrThrottled, err)
	}
	return fmt.Errorf("generating content: %w", err)
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
