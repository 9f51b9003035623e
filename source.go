package settings

import (
	"sort"
	"sync"
)

// Source is the live key-value provider consulted before falling back to
// defaults. Keys are passed fully prefixed.
type Source interface {
	Read(key string) (any, bool)
}

// Change describes a single override update. A nil Value means the override
// was removed.
type Change struct {
	Key   string
	Value any
}

// ChangeFunc receives override updates.
type ChangeFunc func(Change)

// Notifier is implemented by sources that can push override updates.
// Subscribe returns a function that cancels the subscription.
type Notifier interface {
	Subscribe(fn ChangeFunc) (cancel func())
}

// Broadcaster fans changes out to subscribers. The zero value is ready to use.
type Broadcaster struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]ChangeFunc
}

// Subscribe registers fn. Calling the returned cancel func more than once is
// safe.
func (b *Broadcaster) Subscribe(fn ChangeFunc) func() {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	if b.subs == nil {
		b.subs = make(map[uint64]ChangeFunc)
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers changes in order to every subscriber. Subscribers are
// invoked without holding the broadcaster lock.
func (b *Broadcaster) Publish(changes ...Change) {
	if len(changes) == 0 {
		return
	}
	b.mu.RLock()
	ids := make([]uint64, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]ChangeFunc, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, change := range changes {
		for _, fn := range fns {
			fn(change)
		}
	}
}

// Len reports the number of active subscribers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// MemorySource is an in-process override source intended for tests, examples
// and runtime toggles.
type MemorySource struct {
	mu     sync.RWMutex
	values map[string]any
	reads  map[string]int
	bus    Broadcaster
}

// NewMemorySource copies initial into a new source.
func NewMemorySource(initial map[string]any) *MemorySource {
	values := make(map[string]any, len(initial))
	for key, value := range initial {
		values[key] = value
	}
	return &MemorySource{values: values, reads: map[string]int{}}
}

// Read implements Source.
func (m *MemorySource) Read(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[key]++
	value, ok := m.values[key]
	return value, ok
}

// Reads returns how many times key was read.
func (m *MemorySource) Reads(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads[key]
}

// Set stores value under key and notifies subscribers. A nil value behaves
// like Delete.
func (m *MemorySource) Set(key string, value any) {
	if value == nil {
		m.Delete(key)
		return
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	m.bus.Publish(Change{Key: key, Value: value})
}

// Delete removes key and notifies subscribers with a nil value.
func (m *MemorySource) Delete(key string) {
	m.mu.Lock()
	_, existed := m.values[key]
	delete(m.values, key)
	m.mu.Unlock()
	if existed {
		m.bus.Publish(Change{Key: key})
	}
}

// SetSilently stores value without notifying subscribers, mimicking a backing
// store that changed out of band.
func (m *MemorySource) SetSilently(key string, value any) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

// Subscribe implements Notifier.
func (m *MemorySource) Subscribe(fn ChangeFunc) func() {
	return m.bus.Subscribe(fn)
}
