package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	settings "github.com/goliatone/go-jsonapi-settings"
	"github.com/google/uuid"
)

// Source serves one stored Document as a settings.Source and publishes the
// keys that change on Mutate and Reload.
type Source struct {
	store Store
	ref   Ref
	now   func() time.Time

	writeMu sync.Mutex

	mu   sync.RWMutex
	doc  Document
	meta Meta

	bus settings.Broadcaster
}

// NewSource loads the document for ref. A missing document starts empty.
func NewSource(ctx context.Context, store Store, ref Ref) (*Source, error) {
	if store == nil {
		return nil, fmt.Errorf("state: store is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return nil, err
	}
	s := &Source{store: store, ref: ref, now: time.Now, doc: Document{}}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Read implements settings.Source.
func (s *Source) Read(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.doc[key]
	return value, ok
}

// Subscribe implements settings.Notifier.
func (s *Source) Subscribe(fn settings.ChangeFunc) func() {
	return s.bus.Subscribe(fn)
}

// Meta returns the metadata of the last loaded or saved document.
func (s *Source) Meta() Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMeta(s.meta)
}

// Document returns a copy of the served document.
func (s *Source) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Reload re-reads the stored document and publishes whatever changed.
func (s *Source) Reload(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, meta, ok, err := s.store.Load(ctx, s.ref)
	if err != nil {
		return fmt.Errorf("state: load %q: %w", s.ref.Namespace, err)
	}
	if !ok {
		doc, meta = Document{}, Meta{}
	}
	s.replace(doc, meta)
	return nil
}

// Mutate loads the stored document, verifies expected.ETag when both sides
// carry one, applies fn and saves the result under a fresh snapshot id and
// ETag. Subscribers receive one change per key that differs from the
// previously served document.
func (s *Source) Mutate(ctx context.Context, expected Meta, fn Mutator) (Meta, error) {
	if fn == nil {
		return Meta{}, fmt.Errorf("state: mutator is required")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, loaded, ok, err := s.store.Load(ctx, s.ref)
	if err != nil {
		return Meta{}, fmt.Errorf("state: load %q: %w", s.ref.Namespace, err)
	}
	if !ok {
		doc, loaded = Document{}, Meta{}
	}
	if expected.ETag != "" && loaded.ETag != "" && expected.ETag != loaded.ETag {
		return loaded, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, expected.ETag, loaded.ETag)
	}

	next := doc.Clone()
	if err := fn(next); err != nil {
		return loaded, err
	}
	for key, value := range next {
		if value == nil {
			delete(next, key)
		}
	}

	meta := cloneMeta(loaded)
	meta.SnapshotID = uuid.NewString()
	meta.ETag = uuid.NewString()
	meta.UpdatedAt = s.now().UTC()
	if expected.Extra != nil {
		meta.Extra = cloneMeta(expected).Extra
	}

	saved, err := s.store.Save(ctx, s.ref, next, meta)
	if err != nil {
		return loaded, fmt.Errorf("state: save %q: %w", s.ref.Namespace, err)
	}
	s.replace(next, saved)
	return saved, nil
}

// Set stores value under key. A nil value removes the key.
func (s *Source) Set(ctx context.Context, key string, value any) (Meta, error) {
	return s.Mutate(ctx, Meta{}, func(doc Document) error {
		doc[key] = value
		return nil
	})
}

// Delete removes key.
func (s *Source) Delete(ctx context.Context, key string) (Meta, error) {
	return s.Mutate(ctx, Meta{}, func(doc Document) error {
		delete(doc, key)
		return nil
	})
}

func (s *Source) replace(doc Document, meta Meta) {
	s.mu.Lock()
	previous := s.doc
	s.doc = doc.Clone()
	s.meta = cloneMeta(meta)
	s.mu.Unlock()

	s.bus.Publish(settings.Diff(previous, doc)...)
}
