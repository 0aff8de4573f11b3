package metalava

import (
	"encoding/json"
)

// DefaultSource names the terminal default entry in a Trace.
const DefaultSource = "default"

// Trace captures how a setting was resolved across a scope chain.
type Trace struct {
	Key    Key          `json:"key"`
	Value  any          `json:"value,omitempty"`
	Source string       `json:"source,omitempty"`
	Layers []Provenance `json:"layers"`
}

// Provenance details what one scope, or the default, held for a traced key.
type Provenance struct {
	Scope   string `json:"scope"`
	Label   string `json:"label,omitempty"`
	Depth   int    `json:"depth"`
	Value   any    `json:"value,omitempty"`
	Found   bool   `json:"found"`
	Default bool   `json:"default,omitempty"`
}

// ResolveWithTrace resolves key and reports every scope of the chain,
// strongest first, followed by the default entry. Source names the entry
// that supplied the value.
func (s *Scope) ResolveWithTrace(key Key) (any, Trace, error) {
	d, ok := descriptorIndex[key]
	if !ok {
		return nil, Trace{}, unknownSetting(key)
	}

	chain := s.chain()
	ordered := chain.Ordered()
	trace := Trace{Key: key, Layers: make([]Provenance, 0, len(ordered)+1)}
	for i, scope := range ordered {
		value, found := scope.locals[key]
		trace.Layers = append(trace.Layers, Provenance{
			Scope: scope.Name,
			Label: scope.Label,
			Depth: len(ordered) - 1 - i,
			Value: renderValue(value),
			Found: found,
		})
	}
	defaultValue, hasDefault := d.def(chain.Weakest())
	trace.Layers = append(trace.Layers, Provenance{
		Scope:   DefaultSource,
		Depth:   -1,
		Value:   renderValue(defaultValue),
		Found:   hasDefault,
		Default: true,
	})

	value, present, holder := s.resolve(d)
	if present {
		trace.Value = renderValue(value)
		trace.Source = DefaultSource
		if holder >= 0 {
			trace.Source = ordered[holder].Name
		}
	}
	return exportValue(value), trace, nil
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
