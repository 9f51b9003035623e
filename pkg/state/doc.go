// Package state persists JSON:API override documents and exposes them as a
// live settings source.
//
// A Store only loads and saves one Document for one Ref. Source wraps a
// Store for a single Ref, serves reads from the last loaded document and
// publishes a settings.Change for every key that differs after Mutate or
// Reload, so a settings.Settings subscribed to it keeps its cache current.
//
// Data flow:
//
//	Store -> Source -> settings.Settings (Read on miss, Subscribe for changes)
//
// Concurrency:
//
//	Mutate reloads the stored document before applying the mutator and
//	rejects the write with ErrETagMismatch when the caller's expected ETag
//	no longer matches. Every successful save gets a fresh snapshot id and
//	ETag.
package state
