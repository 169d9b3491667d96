package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/zombor/docverify/internal/scanning"
)

// ErrDuplicate is returned when a document's key was already handled
var ErrDuplicate = errors.New("document already processed")

// Default pacing between documents in a batch
const (
	DefaultDocumentDelay  = 5 * time.Second
	DefaultDelayJitterMin = 2 * time.Second
	DefaultDelayJitterMax = 4 * time.Second
)

// KeyFunc derives the dedup key for a document
type KeyFunc func(Document) string

// KeyByName keys documents by file name
func KeyByName(doc Document) string {
	return doc.Name
}

// KeyByContent keys documents by the SHA-256 of their bytes
func KeyByContent(doc Document) string {
	sum := sha256.Sum256(doc.Data)
	return hex.EncodeToString(sum[:])
}

// Processor turns one document into a result
type Processor interface {
	Process(ctx context.Context, doc Document) (*Result, error)
}

// BatchConfig wires a Batch
type BatchConfig struct {
	Processor Processor
	Clock     scanning.Clock
	Key       KeyFunc
	// Delay plus a uniform jitter in [JitterMin, JitterMax) separates documents
	Delay     time.Duration
	JitterMin time.Duration
	JitterMax time.Duration
	Random    func() float64
	Logger    *slog.Logger
}

// Batch processes documents one after another against a Session
type Batch struct {
	processor Processor
	clock     scanning.Clock
	key       KeyFunc
	delay     time.Duration
	jitterMin time.Duration
	jitterMax time.Duration
	random    func() float64
	logger    *slog.Logger
}

// NewBatch creates a Batch from cfg, filling unset fields with defaults
func NewBatch(cfg BatchConfig) *Batch {
	if cfg.Clock == nil {
		cfg.Clock = scanning.SystemClock{}
	}
	if cfg.Key == nil {
		cfg.Key = KeyByName
	}
	if cfg.Delay == 0 && cfg.JitterMin == 0 && cfg.JitterMax == 0 {
		cfg.Delay = DefaultDocumentDelay
		cfg.JitterMin = DefaultDelayJitterMin
		cfg.JitterMax = DefaultDelayJitterMax
	}
	if cfg.Random == nil {
		cfg.Random = rand.Float64
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Batch{
		processor: cfg.Processor,
		clock:     cfg.Clock,
		key:       cfg.Key,
		delay:     cfg.Delay,
		jitterMin: cfg.JitterMin,
		jitterMax: cfg.JitterMax,
		random:    cfg.Random,
		logger:    cfg.Logger,
	}
}

// Run processes every document not already handled in session, pausing
// between documents. A failing document never stops the batch. Run returns
// session so calls can be chained.
func (b *Batch) Run(ctx context.Context, session *Session, docs []Document) *Session {
	handled := 0
	for _, doc := range docs {
		key := b.key(doc)
		if session.Seen(key) {
			b.logger.Info("Skipping already processed document", "document", doc.Name)
			continue
		}

		if handled > 0 {
			delay := b.documentDelay()
			b.logger.Info("Waiting between documents", "delay", delay)
			if err := b.clock.Sleep(ctx, delay); err != nil {
				b.logger.Warn("Batch stopped", "error", err)
				return session
			}
		}
		handled++

		// Errors are already recorded on the session
		_, _ = b.handle(ctx, session, key, doc)
	}
	return session
}

// ProcessOne handles one document against session without pacing. It
// returns ErrDuplicate when the document was handled before.
func (b *Batch) ProcessOne(ctx context.Context, session *Session, doc Document) (*Result, error) {
	key := b.key(doc)
	if session.Seen(key) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, doc.Name)
	}
	return b.handle(ctx, session, key, doc)
}

func (b *Batch) handle(ctx context.Context, session *Session, key string, doc Document) (*Result, error) {
	// Marked before processing so a failure is never retried
	if !session.MarkProcessed(key) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, doc.Name)
	}

	result, err := b.processor.Process(ctx, doc)
	if err != nil {
		outcome := OutcomeFailed
		if errors.Is(err, ErrInvalidDocument) {
			outcome = OutcomeRejected
			b.logger.Warn("Document rejected", "document", doc.Name, "error", err)
		} else {
			b.logger.Error("Document failed", "document", doc.Name, "error", err)
		}
		session.Fail(key, Failure{
			Name:      doc.Name,
			Outcome:   outcome,
			Error:     err.Error(),
			HandledAt: b.clock.Now(),
		})
		return nil, err
	}

	session.Complete(key, result)
	return result, nil
}

func (b *Batch) documentDelay() time.Duration {
	jitter := b.jitterMin + time.Duration(b.random()*float64(b.jitterMax-b.jitterMin))
	return b.delay + jitter
}
