package extraction

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/zombor/docverify/internal/document"
)

const ledgerBucket = "processed"

// Outcome is how processing a document ended
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// LedgerEntry summarises one handled document
type LedgerEntry struct {
	Key        string        `json:"key"`
	Name       string        `json:"name"`
	Outcome    Outcome       `json:"outcome"`
	Kind       document.Kind `json:"kind,omitempty"`
	ResultID   string        `json:"result_id,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
	Error      string        `json:"error,omitempty"`
	HandledAt  time.Time     `json:"handled_at"`
}

// Ledger remembers which documents were handled across runs
type Ledger interface {
	// Seen reports whether key was recorded before
	Seen(key string) (bool, error)

	// Record stores or replaces the entry for entry.Key
	Record(entry LedgerEntry) error

	// Entries returns every recorded entry
	Entries() ([]LedgerEntry, error)

	// Close closes the ledger
	Close() error
}

// BoltLedger implements the Ledger interface using BoltDB
type BoltLedger struct {
	db *bbolt.DB
}

// NewBoltLedger opens or creates the ledger file at path
func NewBoltLedger(path string) (*BoltLedger, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(ledgerBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltLedger{db: db}, nil
}

// Seen reports whether key has an entry
func (b *BoltLedger) Seen(key string) (bool, error) {
	var seen bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		seen = tx.Bucket([]byte(ledgerBucket)).Get([]byte(key)) != nil
		return nil
	})
	return seen, err
}

// Record saves entry under its key
func (b *BoltLedger) Record(entry LedgerEntry) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshaling ledger entry: %w", err)
		}
		return tx.Bucket([]byte(ledgerBucket)).Put([]byte(entry.Key), data)
	})
}

// Entries returns all entries in key order
func (b *BoltLedger) Entries() ([]LedgerEntry, error) {
	entries := make([]LedgerEntry, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(ledgerBucket)).ForEach(func(k, v []byte) error {
			var entry LedgerEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("unmarshaling ledger entry: %w", err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Close closes the database connection
func (b *BoltLedger) Close() error {
	return b.db.Close()
}
