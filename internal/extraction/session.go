package extraction

import (
	"log/slog"
	"sync"
	"time"
)

// Failure records a document that did not produce a result
type Failure struct {
	Name      string    `json:"name"`
	Outcome   Outcome   `json:"outcome"`
	Error     string    `json:"error"`
	HandledAt time.Time `json:"handled_at"`
}

// Session is the caller-owned state shared across documents: which keys were
// handled, and the results and failures so far. Collections only grow.
type Session struct {
	mu        sync.Mutex
	processed map[string]struct{}
	results   []*Result
	failures  []Failure
	ledger    Ledger
	logger    *slog.Logger
}

// NewSession returns an empty session
func NewSession() *Session {
	return NewSessionWithLedger(nil, nil)
}

// NewSessionWithLedger returns an empty session that also consults and
// updates ledger, so keys handled in earlier runs are skipped
func NewSessionWithLedger(ledger Ledger, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		processed: make(map[string]struct{}),
		ledger:    ledger,
		logger:    logger,
	}
}

// Reset returns a fresh empty session. A ledger, if any, is carried over and
// keeps its history.
func (s *Session) Reset() *Session {
	return NewSessionWithLedger(s.ledger, s.logger)
}

// Seen reports whether key was already handled
func (s *Session) Seen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seenLocked(key)
}

// MarkProcessed records key as handled. It returns false when key had
// already been handled, in which case the document must not be processed.
func (s *Session) MarkProcessed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seenLocked(key) {
		return false
	}
	s.processed[key] = struct{}{}
	return true
}

func (s *Session) seenLocked(key string) bool {
	if _, ok := s.processed[key]; ok {
		return true
	}
	if s.ledger == nil {
		return false
	}
	seen, err := s.ledger.Seen(key)
	if err != nil {
		s.logger.Error("Failed to read ledger", "key", key, "error", err)
		return false
	}
	return seen
}

// Complete appends result and writes a ledger entry for key
func (s *Session) Complete(key string, result *Result) {
	s.mu.Lock()
	s.results = append(s.results, result)
	s.mu.Unlock()

	s.record(LedgerEntry{
		Key:        key,
		Name:       result.Name,
		Outcome:    OutcomeProcessed,
		Kind:       result.Kind,
		ResultID:   result.ID,
		Confidence: result.Confidence(),
		HandledAt:  result.ProcessedAt,
	})
}

// Fail appends failure and writes a ledger entry for key
func (s *Session) Fail(key string, failure Failure) {
	s.mu.Lock()
	s.failures = append(s.failures, failure)
	s.mu.Unlock()

	s.record(LedgerEntry{
		Key:       key,
		Name:      failure.Name,
		Outcome:   failure.Outcome,
		Error:     failure.Error,
		HandledAt: failure.HandledAt,
	})
}

func (s *Session) record(entry LedgerEntry) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(entry); err != nil {
		s.logger.Error("Failed to write ledger", "key", entry.Key, "error", err)
	}
}

// Results returns the results so far in processing order
func (s *Session) Results() []*Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Result(nil), s.results...)
}

// Failures returns the failures so far in processing order
func (s *Session) Failures() []Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Failure(nil), s.failures...)
}

// Result returns the result with the given ID
func (s *Session) Result(id string) (*Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}
