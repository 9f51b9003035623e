package state

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrETagMismatch indicates the stored document changed since the caller
	// read it.
	ErrETagMismatch = errors.New("state: etag mismatch")
	// ErrNamespaceRequired indicates a Ref without a namespace.
	ErrNamespaceRequired = errors.New("state: namespace is required")
)

// Document is one persisted set of prefixed overrides, for example
// {"JSON_API_FORMAT_TYPES": "dasherize"}.
type Document map[string]any

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	out := make(Document, len(d))
	for key, value := range d {
		out[key] = value
	}
	return out
}

// Ref identifies one document.
type Ref struct {
	Namespace string
	Scope     string
	ID        string
}

// Identifier returns the canonical storage key for r.
func (r Ref) Identifier() (string, error) {
	if r.Namespace == "" {
		return "", ErrNamespaceRequired
	}
	switch r.Scope {
	case "", "system":
		return fmt.Sprintf("system/%s", r.Namespace), nil
	case "tenant", "org", "user":
		if r.ID == "" {
			return "", fmt.Errorf("state: scope %q requires an id", r.Scope)
		}
		return fmt.Sprintf("%s/%s/%s", r.Scope, r.ID, r.Namespace), nil
	default:
		return "", fmt.Errorf("state: unsupported scope %q", r.Scope)
	}
}

// Meta is storage-owned metadata used for auditing and optimistic
// concurrency.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one document per Ref.
type Store interface {
	Load(ctx context.Context, ref Ref) (doc Document, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, doc Document, meta Meta) (Meta, error)
}

// Mutator edits a document in place. Keys set to nil are removed before the
// document is saved.
type Mutator func(Document) error

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
