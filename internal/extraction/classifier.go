package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zombor/docverify/internal/document"
	"github.com/zombor/docverify/internal/scanning"
)

// ErrInvalidDocument is returned when an image is not a document the system
// can read. Callers report it as a rejection rather than a failure.
var ErrInvalidDocument = errors.New("invalid document")

// Classifier labels images with a document kind using a vision model
type Classifier struct {
	scanner scanning.Scanner
	invoker *scanning.Invoker
	logger  *slog.Logger
}

// NewClassifier creates a Classifier that sends every call through invoker
func NewClassifier(scanner scanning.Scanner, invoker *scanning.Invoker, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{scanner: scanner, invoker: invoker, logger: logger}
}

// Classify asks the model which kind of document image shows
func (c *Classifier) Classify(ctx context.Context, image []byte) (document.Kind, error) {
	resp, err := c.ask(ctx, scanning.ClassifyPrompt, image)
	if err != nil {
		return document.KindUnknown, fmt.Errorf("classifying document: %w", err)
	}
	kind := ParseKind(resp)
	c.logger.Debug("Document classified", "model", c.scanner.Name(), "kind", kind, "response", resp)
	return kind, nil
}

// Confirm asks the model a yes/no question about whether image really is a
// document of kind
func (c *Classifier) Confirm(ctx context.Context, kind document.Kind, image []byte) (bool, error) {
	var prompt string
	switch kind {
	case document.KindCheque:
		prompt = scanning.ConfirmChequePrompt
	case document.KindBill:
		prompt = scanning.ConfirmBillPrompt
	default:
		return false, nil
	}

	resp, err := c.ask(ctx, prompt, image)
	if err != nil {
		return false, fmt.Errorf("confirming %s: %w", kind, err)
	}
	return strings.Contains(strings.ToLower(resp), "yes"), nil
}

func (c *Classifier) ask(ctx context.Context, prompt string, image []byte) (string, error) {
	return c.invoker.Invoke(ctx, func(ctx context.Context) (string, error) {
		return c.scanner.Scan(ctx, scanning.Request{
			Prompt:    prompt,
			Image:     image,
			MaxTokens: scanning.LabelMaxTokens,
		})
	})
}

// ParseKind maps a label response to a kind. "cheque" wins over "bill" when
// both appear.
func ParseKind(resp string) document.Kind {
	lower := strings.ToLower(resp)
	switch {
	case strings.Contains(lower, "cheque"):
		return document.KindCheque
	case strings.Contains(lower, "bill"):
		return document.KindBill
	}
	return document.KindUnknown
}
