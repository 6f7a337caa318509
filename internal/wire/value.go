package wire

import (
	"encoding/json"
	"fmt"
)

// Value is the opaque, shape-agnostic payload carried inside a command or
// telemetry envelope. The transport never interprets it; only the
// domain callbacks (internal/callbacks) do. It is either an ordered list
// of numbers or a mapping from string to number — the mapping shape used
// by the numeric and vehicle bodies and the list shape used by vector.
type Value struct {
	List []float64
	Map  map[string]float64
}

// ListValue builds a list-shaped Value.
func ListValue(v []float64) Value {
	return Value{List: v}
}

// MapValue builds a mapping-shaped Value.
func MapValue(v map[string]float64) Value {
	return Value{Map: v}
}

// IsList reports whether the value is list-shaped.
func (v Value) IsList() bool {
	return v.List != nil
}

// Zero derives a neutral value of the same shape: a list of zeros of the
// same length, or a mapping with the same keys set to zero. This is the
// scheduler's sole shape-aware behavior, used when a step times out and
// the plant updater must still be called with something of the expected
// shape.
func (v Value) Zero() Value {
	if v.IsList() {
		z := make([]float64, len(v.List))
		return ListValue(z)
	}

	z := make(map[string]float64, len(v.Map))
	for k := range v.Map {
		z[k] = 0
	}
	return MapValue(z)
}

// MarshalJSON emits the list as a JSON array and the mapping as a JSON
// object, matching the original protocol's untagged representation.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsList() {
		return json.Marshal(v.List)
	}
	if v.Map != nil {
		return json.Marshal(v.Map)
	}
	return json.Marshal(map[string]float64{})
}

// UnmarshalJSON accepts either a JSON array or a JSON object and sets the
// matching shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	var asList []float64
	if err := json.Unmarshal(data, &asList); err == nil {
		v.List = asList
		v.Map = nil
		return nil
	}

	var asMap map[string]float64
	if err := json.Unmarshal(data, &asMap); err == nil {
		v.Map = asMap
		v.List = nil
		return nil
	}

	return fmt.Errorf("value is neither a list nor a mapping of numbers")
}
