package store

import (
	"sync"

	"github.com/silverfox-lab/silverfox/pkg/errors"
)

const keySelections = "selections"

// SelectionLedger records which symbols the buy selector has already seen
// today. A symbol enters the ledger the first time it passes the buy
// predicate, bought or not, and is never treated as new again that day.
// The ledger is durable so a restart cannot cause a double selection.
type SelectionLedger struct {
	mu   sync.Mutex
	kv   KV
	date string
	seen map[string]struct{}
}

// persistedLedger is the stored form: the date scopes the symbol set.
type persistedLedger struct {
	Date    string   `json:"date"`
	Symbols []string `json:"symbols"`
}

// NewSelectionLedger loads today's ledger from the KV store.
func NewSelectionLedger(kv KV) (*SelectionLedger, error) {
	l := &SelectionLedger{
		kv:   kv,
		seen: make(map[string]struct{}),
	}

	var persisted persistedLedger

	ok, err := kv.Get(keySelections, &persisted)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to load selection ledger", err)
	}

	if ok {
		l.date = persisted.Date
		for _, symbol := range persisted.Symbols {
			l.seen[symbol] = struct{}{}
		}
	}

	return l, nil
}

// IsSelected reports whether the symbol was already selected on date.
func (l *SelectionLedger) IsSelected(date, symbol string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.date != date {
		return false
	}

	_, ok := l.seen[symbol]

	return ok
}

// MarkSelected records symbols as selected on date. Moving to a new date
// drops the previous day's entries.
func (l *SelectionLedger) MarkSelected(date string, symbols []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.date != date {
		l.date = date
		l.seen = make(map[string]struct{})
	}

	changed := false

	for _, symbol := range symbols {
		if _, ok := l.seen[symbol]; !ok {
			l.seen[symbol] = struct{}{}
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return l.persistLocked()
}

// Count returns the number of symbols selected on date.
func (l *SelectionLedger) Count(date string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.date != date {
		return 0
	}

	return len(l.seen)
}

func (l *SelectionLedger) persistLocked() error {
	persisted := persistedLedger{
		Date:    l.date,
		Symbols: make([]string, 0, len(l.seen)),
	}

	for symbol := range l.seen {
		persisted.Symbols = append(persisted.Symbols, symbol)
	}

	if err := l.kv.Put(keySelections, persisted); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to persist selection ledger", err)
	}

	return nil
}
