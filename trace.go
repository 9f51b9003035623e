package settings

import (
	"encoding/json"
)

// Trace captures how an option's effective value was determined.
type Trace struct {
	Option string       `json:"option"`
	Key    string       `json:"key"`
	Origin Origin       `json:"origin"`
	Layers []Provenance `json:"layers"`
}

// Provenance records what one candidate contributed to a traced option.
type Provenance struct {
	Origin Origin `json:"origin"`
	Value  any    `json:"value,omitempty"`
	Found  bool   `json:"found"`
}

// ResolveWithTrace reports the effective value of name together with the
// cache, override and default candidates in precedence order. Unlike Get it
// never populates the cache.
func (s *Settings) ResolveWithTrace(name string) (any, Trace, error) {
	defaultValue, err := s.Default(name)
	if err != nil {
		return nil, Trace{}, err
	}
	trace := Trace{Option: name, Key: s.Key(name)}

	s.mu.RLock()
	cached, cachedOK := s.cache[name]
	s.mu.RUnlock()
	trace.Layers = append(trace.Layers, Provenance{Origin: OriginCache, Value: cached, Found: cachedOK})

	var override any
	overrideOK := false
	if s.source != nil {
		override, overrideOK = s.source.Read(trace.Key)
		overrideOK = overrideOK && override != nil
	}
	trace.Layers = append(trace.Layers,
		Provenance{Origin: OriginOverride, Value: override, Found: overrideOK},
		Provenance{Origin: OriginDefault, Value: defaultValue, Found: true},
	)

	switch {
	case cachedOK:
		trace.Origin = OriginCache
		return cached, trace, nil
	case overrideOK:
		trace.Origin = OriginOverride
		return override, trace, nil
	default:
		trace.Origin = OriginDefault
		return defaultValue, trace, nil
	}
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON decodes a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
