package settings

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Recommended layer priorities. Higher numbers win.
const (
	PriorityFile    = 100
	PriorityEnv     = 200
	PriorityStore   = 300
	PriorityRuntime = 400
)

var (
	// ErrLayerNameRequired indicates a layer without a name.
	ErrLayerNameRequired = errors.New("stack: layer name must be provided")
	// ErrLayerSourceRequired indicates a layer without a source.
	ErrLayerSourceRequired = errors.New("stack: layer source must be provided")
	// ErrDuplicateLayerName indicates two layers share a name.
	ErrDuplicateLayerName = errors.New("stack: layer names must be unique")
	// ErrPriorityOrder indicates two layers share a priority.
	ErrPriorityOrder = errors.New("stack: priorities must be strictly ordered")
)

// Layer pairs an override source with its precedence.
type Layer struct {
	Name     string
	Priority int
	Source   Source
}

// Stack composes several sources into one. Reads go to the strongest layer
// holding a non-nil value.
type Stack struct {
	layers []Layer

	mu      sync.Mutex
	bus     Broadcaster
	cancels []func()

	// serializes the effective read with its publication
	forwardMu sync.Mutex
}

// NewStack validates layers and orders them strongest first.
func NewStack(layers ...Layer) (*Stack, error) {
	seen := make(map[string]struct{}, len(layers))
	copied := make([]Layer, len(layers))
	for i, layer := range layers {
		if layer.Name == "" {
			return nil, ErrLayerNameRequired
		}
		if layer.Source == nil {
			return nil, fmt.Errorf("%w: %s", ErrLayerSourceRequired, layer.Name)
		}
		if _, ok := seen[layer.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLayerName, layer.Name)
		}
		seen[layer.Name] = struct{}{}
		copied[i] = layer
	}

	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Priority > copied[j].Priority
	})
	for i := 1; i < len(copied); i++ {
		if copied[i-1].Priority == copied[i].Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Priority)
		}
	}
	return &Stack{layers: copied}, nil
}

// Layers returns the layers strongest first.
func (s *Stack) Layers() []Layer {
	if s == nil {
		return nil
	}
	return append([]Layer(nil), s.layers...)
}

// Read implements Source.
func (s *Stack) Read(key string) (any, bool) {
	value, _, ok := s.ReadLayer(key)
	return value, ok
}

// ReadLayer is Read that also names the winning layer.
func (s *Stack) ReadLayer(key string) (any, string, bool) {
	if s == nil {
		return nil, "", false
	}
	for _, layer := range s.layers {
		if value, ok := layer.Source.Read(key); ok && value != nil {
			return value, layer.Name, true
		}
	}
	return nil, "", false
}

// Subscribe implements Notifier. Layer changes are re-resolved across the
// whole stack, so subscribers always receive the effective value: a change
// shadowed by a stronger layer forwards the stronger value, and a removal
// falls back to weaker layers before reporting nil. Forwarded changes are
// delivered one at a time; subscribers must not write to a layer from the
// callback.
func (s *Stack) Subscribe(fn ChangeFunc) func() {
	s.mu.Lock()
	if s.cancels == nil {
		for _, layer := range s.layers {
			notifier, ok := layer.Source.(Notifier)
			if !ok {
				continue
			}
			s.cancels = append(s.cancels, notifier.Subscribe(s.forward))
		}
		if s.cancels == nil {
			s.cancels = []func(){}
		}
	}
	s.mu.Unlock()
	return s.bus.Subscribe(fn)
}

// Close detaches the stack from its layers.
func (s *Stack) Close() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (s *Stack) forward(change Change) {
	s.forwardMu.Lock()
	defer s.forwardMu.Unlock()
	value, _ := s.Read(change.Key)
	s.bus.Publish(Change{Key: change.Key, Value: value})
}
