package ledger

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/goatledger/internal/domain/models"
	"github.com/mamadbah2/goatledger/internal/repository/kv"
)

const (
	// DefaultKey is the storage key of the ledger document.
	DefaultKey = "GOAT_FARM_DATA_v2"
	// LegacyKey is where the inventory-only app kept its bare goat list.
	LegacyKey = "GOAT_FARM_GOATS_v1"
)

// Service is the ledger surface used by the HTTP, WhatsApp and reporting layers.
type Service interface {
	Document() models.Document
	Summary() models.Summary
	AddGoat(ctx context.Context, in models.GoatInput) (models.Goat, models.Document, error)
	DeleteGoat(ctx context.Context, id string) (models.Document, error)
	AddRecord(ctx context.Context, goatID string, in models.RecordInput) (models.Document, error)
	AddFeedEntry(ctx context.Context, in models.FeedInput) (models.Document, error)
	AddExpense(ctx context.Context, in models.EntryInput) (models.Document, error)
	AddIncome(ctx context.Context, in models.EntryInput) (models.Document, error)
}

// Store owns the current ledger document and persists every mutation through a
// kv.Backend before making it current. Mutations are serialized.
type Store struct {
	backend   kv.Backend
	key       string
	legacyKey string
	ops       Ops
	logger    *zap.Logger

	mu  sync.Mutex
	doc models.Document
}

// Option customizes a Store.
type Option func(*Store)

// WithOps replaces the clock and id generator.
func WithOps(ops Ops) Option {
	return func(s *Store) { s.ops = ops }
}

// WithLegacyKey sets the key probed when the primary key holds nothing.
// An empty key disables the fallback.
func WithLegacyKey(key string) Option {
	return func(s *Store) { s.legacyKey = key }
}

// NewStore builds a Store holding an empty document. Call Load to read the
// persisted one.
func NewStore(backend kv.Backend, key string, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = DefaultKey
	}

	s := &Store{
		backend:   backend,
		key:       key,
		legacyKey: LegacyKey,
		ops:       NewOps(),
		logger:    logger,
		doc:       EmptyDocument(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted document and makes it current. An absent blob
// yields an empty document; an unreadable one is reported, never discarded.
func (s *Store) Load(ctx context.Context) (models.Document, error) {
	const op = "load"

	s.mu.Lock()
	defer s.mu.Unlock()

	blob, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return s.doc, &PersistenceError{Op: op, Err: err}
	}

	if !found && s.legacyKey != "" && s.legacyKey != s.key {
		blob, found, err = s.backend.Get(ctx, s.legacyKey)
		if err != nil {
			return s.doc, &PersistenceError{Op: op, Err: err}
		}
		if found {
			s.logger.Info("loading legacy goat inventory", zap.String("key", s.legacyKey))
		}
	}

	if !found {
		s.doc = EmptyDocument()
		s.logger.Info("no stored ledger, starting empty", zap.String("key", s.key))
		return s.doc, nil
	}

	doc, err := Decode(blob)
	if err != nil {
		return s.doc, &PersistenceError{Op: op, Err: err}
	}

	s.doc = doc
	s.logger.Info("ledger loaded",
		zap.Int("goats", len(doc.Goats)),
		zap.Int("feed_entries", len(doc.FeedEntries)),
		zap.Int("expenses", len(doc.Expenses)),
		zap.Int("income", len(doc.Income)))
	return doc, nil
}

// Document returns the current document.
func (s *Store) Document() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Summary computes the report of the current document.
func (s *Store) Summary() models.Summary {
	return ComputeSummary(s.Document())
}

func (s *Store) AddGoat(ctx context.Context, in models.GoatInput) (models.Goat, models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goat, next, err := s.ops.AddGoat(s.doc, in)
	if err != nil {
		return models.Goat{}, s.doc, err
	}
	if err := s.commit(ctx, "add goat", next); err != nil {
		return models.Goat{}, s.doc, err
	}
	return goat, next, nil
}

func (s *Store) DeleteGoat(ctx context.Context, id string) (models.Document, error) {
	return s.mutate(ctx, "delete goat", func(doc models.Document) (models.Document, error) {
		return s.ops.DeleteGoat(doc, id), nil
	})
}

func (s *Store) AddRecord(ctx context.Context, goatID string, in models.RecordInput) (models.Document, error) {
	return s.mutate(ctx, "add record", func(doc models.Document) (models.Document, error) {
		return s.ops.AddRecord(doc, goatID, in)
	})
}

func (s *Store) AddFeedEntry(ctx context.Context, in models.FeedInput) (models.Document, error) {
	return s.mutate(ctx, "add feed entry", func(doc models.Document) (models.Document, error) {
		return s.ops.AddFeedEntry(doc, in)
	})
}

func (s *Store) AddExpense(ctx context.Context, in models.EntryInput) (models.Document, error) {
	return s.mutate(ctx, "add expense", func(doc models.Document) (models.Document, error) {
		return s.ops.AddExpense(doc, in)
	})
}

func (s *Store) AddIncome(ctx context.Context, in models.EntryInput) (models.Document, error) {
	return s.mutate(ctx, "add income", func(doc models.Document) (models.Document, error) {
		return s.ops.AddIncome(doc, in)
	})
}

func (s *Store) mutate(ctx context.Context, op string, fn func(models.Document) (models.Document, error)) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.doc)
	if err != nil {
		return s.doc, err
	}
	if err := s.commit(ctx, op, next); err != nil {
		return s.doc, err
	}
	return next, nil
}

// commit writes next in full and only then makes it current. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, op string, next models.Document) error {
	blob, err := Encode(next)
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}

	if err := s.backend.Set(ctx, s.key, blob); err != nil {
		s.logger.Error("ledger write failed", zap.String("op", op), zap.Error(err))
		return &PersistenceError{Op: op, Err: err}
	}

	s.doc = next
	s.logger.Debug("ledger persisted", zap.String("op", op), zap.Int("bytes", len(blob)))
	return nil
}

// IsClientError reports whether err was caused by caller input rather than storage.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound)
}

var _ Service = (*Store)(nil)
