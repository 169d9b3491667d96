package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zombor/docverify/internal/document"
	"github.com/zombor/docverify/internal/scanning"
)

// PipelineConfig wires the collaborators of a Pipeline
type PipelineConfig struct {
	// Primary classifies and extracts every document
	Primary   scanning.Scanner
	// Secondary provides the cross-check reading; nil runs single-model
	Secondary scanning.Scanner
	// Invoker paces and retries every model call
	Invoker   *scanning.Invoker
	// Archiver stores artifacts; nil skips archiving
	Archiver  *Archiver
	// Confirm enables the yes/no check after classification
	Confirm   bool
	// Scorer weighs each result's confidence; zero weights use the defaults
	Scorer    document.Scorer

	IDGenerator IDGenerator
	TimeSource  TimeSource
	Logger      *slog.Logger
}

// Pipeline classifies, extracts, validates and archives one document at a
// time. All model calls run in sequence through the shared Invoker.
type Pipeline struct {
	primary     scanning.Scanner
	secondary   scanning.Scanner
	invoker     *scanning.Invoker
	classifier  *Classifier
	archiver    *Archiver
	confirm     bool
	scorer      document.Scorer
	idGenerator IDGenerator
	timeSource  TimeSource
	logger      *slog.Logger
}

// NewPipeline creates a Pipeline from cfg
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Invoker == nil {
		cfg.Invoker = scanning.NewInvoker(nil, scanning.RetryPolicy{MaxAttempts: 1}, nil, cfg.Logger)
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = uuidGenerator{}
	}
	if cfg.TimeSource == nil {
		cfg.TimeSource = systemTime{}
	}

	return &Pipeline{
		primary:     cfg.Primary,
		secondary:   cfg.Secondary,
		invoker:     cfg.Invoker,
		classifier:  NewClassifier(cfg.Primary, cfg.Invoker, cfg.Logger),
		archiver:    cfg.Archiver,
		confirm:     cfg.Confirm,
		scorer:      cfg.Scorer,
		idGenerator: cfg.IDGenerator,
		timeSource:  cfg.TimeSource,
		logger:      cfg.Logger,
	}
}

// Process runs one document through the pipeline. Unknown or unconfirmed
// documents return ErrInvalidDocument.
func (p *Pipeline) Process(ctx context.Context, doc Document) (*Result, error) {
	start := p.timeSource.Now()
	logger := p.logger.With("document", doc.Name)

	image, err := scanning.PrepareImage(doc.Data, doc.ContentType)
	if err != nil {
		return nil, fmt.Errorf("preparing image: %w", err)
	}

	kind, err := p.classifier.Classify(ctx, image)
	if err != nil {
		return nil, err
	}
	if kind == document.KindUnknown {
		return nil, fmt.Errorf("%w: could not identify %s as a cheque or bill", ErrInvalidDocument, doc.Name)
	}

	if p.confirm {
		ok, err := p.classifier.Confirm(ctx, kind, image)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: not a valid %s image", ErrInvalidDocument, kind)
		}
	}

	primary, err := p.extract(ctx, p.primary, primaryPrompt(kind), kind, image)
	if err != nil {
		return nil, fmt.Errorf("primary extraction: %w", err)
	}

	var secondary *document.Record
	if p.secondary != nil {
		secondary, err = p.extract(ctx, p.secondary, secondaryPrompt(kind), kind, image)
		if err != nil {
			logger.Error("Secondary extraction failed, continuing with one reading",
				"model", p.secondary.Name(),
				"error", err,
			)
			secondary = nil
		}
	}

	result := &Result{
		ID:          p.idGenerator.Generate(),
		Name:        doc.Name,
		Kind:        kind,
		Primary:     primary,
		Secondary:   secondary,
		Verdicts:    document.Validate(primary),
		ProcessedAt: p.timeSource.Now(),
		Scorer:      p.scorer,
	}

	if p.archiver != nil {
		result.Locations = p.archiver.ArchiveDocument(ctx, result.ID, kind, image)
	}

	logger.Info("Document processed",
		"id", result.ID,
		"kind", kind,
		"cross_validated", result.CrossValidated(),
		"confidence", result.Confidence(),
		"elapsed_ms", p.timeSource.Now().Sub(start).Milliseconds(),
	)
	return result, nil
}

func (p *Pipeline) extract(ctx context.Context, scanner scanning.Scanner, prompt string, kind document.Kind, image []byte) (*document.Record, error) {
	resp, err := p.invoker.Invoke(ctx, func(ctx context.Context) (string, error) {
		return scanner.Scan(ctx, scanning.Request{Prompt: prompt, Image: image})
	})
	if err != nil {
		return nil, err
	}
	raw, err := scanning.ExtractJSON(resp)
	if err != nil {
		return nil, err
	}
	return document.Normalize(kind, scanner.Name(), raw)
}

func primaryPrompt(kind document.Kind) string {
	if kind == document.KindCheque {
		return scanning.ChequePrimaryPrompt
	}
	return scanning.BillPrompt
}

func secondaryPrompt(kind document.Kind) string {
	if kind == document.KindCheque {
		return scanning.ChequeSecondaryPrompt
	}
	return scanning.BillPrompt
}

