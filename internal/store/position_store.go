package store

import (
	"sync"

	"github.com/moznion/go-optional"

	"github.com/silverfox-lab/silverfox/pkg/errors"
)

const (
	keyPositions = "positions"
	keyBumpDate  = "held_bump_date"
)

// positionMeta is the persisted per-symbol record. MaxPrice is a pointer
// because a freshly bought position has no observed maximum yet.
type positionMeta struct {
	HeldDays int      `json:"held_days"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// PositionStore tracks the metadata the engine keeps alongside broker
// positions: the held-day counter and the maximum price since entry. A
// symbol has a record if and only if it is currently held (or was held
// earlier today pending cleanup). One mutex guards the map because the
// asynchronous fill callback and the cycle-driven sell scan both mutate it.
type PositionStore struct {
	mu       sync.Mutex
	kv       KV
	meta     map[string]positionMeta
	bumpDate string
}

// NewPositionStore loads existing metadata from the KV store.
func NewPositionStore(kv KV) (*PositionStore, error) {
	s := &PositionStore{
		kv:   kv,
		meta: make(map[string]positionMeta),
	}

	if _, err := kv.Get(keyPositions, &s.meta); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to load position metadata", err)
	}

	if s.meta == nil {
		s.meta = make(map[string]positionMeta)
	}

	if _, err := kv.Get(keyBumpDate, &s.bumpDate); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to load bump marker", err)
	}

	return s, nil
}

// HeldDays returns the held-day counter for a symbol, reporting presence.
func (s *PositionStore) HeldDays(symbol string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.meta[symbol]

	return meta.HeldDays, ok
}

// MaxPrice returns the maximum price observed since entry, if any.
func (s *PositionStore) MaxPrice(symbol string) optional.Option[float64] {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.meta[symbol]
	if !ok || meta.MaxPrice == nil {
		return optional.None[float64]()
	}

	return optional.Some(*meta.MaxPrice)
}

// RecordBuyFill creates metadata for a newly filled buy. A repeated fill for
// an already tracked symbol leaves the existing counter untouched.
func (s *PositionStore) RecordBuyFill(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meta[symbol]; !ok {
		s.meta[symbol] = positionMeta{HeldDays: 0, MaxPrice: nil}
	}

	return s.persistLocked()
}

// RecordSellFill removes metadata once a position is fully closed.
func (s *PositionStore) RecordSellFill(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.meta, symbol)

	return s.persistLocked()
}

// BumpAllHeldDays increments every tracked symbol's counter by one. It is
// idempotent per calendar date so a restart mid-morning cannot double-bump.
func (s *PositionStore) BumpAllHeldDays(date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bumpDate == date {
		return nil
	}

	for symbol, meta := range s.meta {
		meta.HeldDays++
		s.meta[symbol] = meta
	}

	s.bumpDate = date

	if err := s.kv.Put(keyBumpDate, s.bumpDate); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to persist bump marker", err)
	}

	return s.persistLocked()
}

// UpdateMaxPrice raises the recorded maximum to observed if higher. The
// read-modify-write is atomic under the store lock. Symbols without
// metadata are ignored: the fill has not arrived yet, so there is no
// position to track against.
func (s *PositionStore) UpdateMaxPrice(symbol string, observed float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.meta[symbol]
	if !ok {
		return nil
	}

	if meta.MaxPrice == nil || observed > *meta.MaxPrice {
		meta.MaxPrice = &observed
		s.meta[symbol] = meta

		return s.persistLocked()
	}

	return nil
}

// TrackedSymbols returns every symbol with metadata.
func (s *PositionStore) TrackedSymbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbols := make([]string, 0, len(s.meta))
	for symbol := range s.meta {
		symbols = append(symbols, symbol)
	}

	return symbols
}

func (s *PositionStore) persistLocked() error {
	if err := s.kv.Put(keyPositions, s.meta); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to persist position metadata", err)
	}

	return nil
}
