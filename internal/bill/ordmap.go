package bill

// OrderedMap is a string-keyed map that iterates in first-seen key order.
// The "first matching line" netting rules depend on this determinism.
type OrderedMap[V any] struct {
	keys []string
	vals map[string]V
}

// NewOrderedMap creates an empty ordered map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{vals: make(map[string]V)}
}

// Get returns the value stored under key, if any.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Set stores value under key, registering the key on first insertion.
func (m *OrderedMap[V]) Set(key string, value V) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

// Len returns the number of keys.
func (m *OrderedMap[V]) Len() int {
	return len(m.vals)
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (m *OrderedMap[V]) Keys() []string {
	return m.keys
}
