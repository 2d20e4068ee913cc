package measurement

import (
	"math"
	"strconv"
	"strings"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

const currencyKey = "currency"

// OrderedMap is a map that remembers insertion order. Setting an existing key
// replaces its value and keeps its original position.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrderedMap creates an empty ordered map
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: make(map[string]V)}
}

// Set stores value under key
func (m *OrderedMap[V]) Set(key string, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key if present
func (m *OrderedMap[V]) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys; a nil map is empty
func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order
func (m *OrderedMap[V]) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Each calls fn for every entry in insertion order
func (m *OrderedMap[V]) Each(fn func(key string, value V)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Scope selects which properties a classification applies to
type Scope int

const (
	// ScopeEvent diverts the currency property to the currency field
	ScopeEvent Scope = iota
	// ScopeUser classifies every property
	ScopeUser
)

// Classification is the result of splitting a property bag
type Classification struct {
	Strings  *OrderedMap[string]
	Numbers  *OrderedMap[float64]
	Currency string
}

// Classify splits properties into string and numeric maps. Keys have spaces
// replaced with underscores; a value is numeric iff it parses as a float64.
func Classify(props domain.Properties, scope Scope) Classification {
	c := Classification{
		Strings: NewOrderedMap[string](),
		Numbers: NewOrderedMap[float64](),
	}
	c.merge(props, scope)
	return c
}

// merge classifies props into an existing classification, last write wins.
// Pairs with an empty key or value are dropped.
func (c *Classification) merge(props domain.Properties, scope Scope) {
	for _, p := range props {
		key := normalizeKey(p.Key)
		if key == "" || p.Value == "" {
			continue
		}

		if scope == ScopeEvent && key == currencyKey {
			c.Currency = p.Value
			continue
		}

		if n, ok := parseFinite(p.Value); ok {
			c.Strings.Delete(key)
			c.Numbers.Set(key, n)
			continue
		}
		c.Numbers.Delete(key)
		c.Strings.Set(key, p.Value)
	}
}

// parseFinite rejects NaN and infinities, which the wire encoding cannot
// carry as numbers; such values stay strings.
func parseFinite(value string) (float64, bool) {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(key, " ", "_")
}
