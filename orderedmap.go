package hanzilookup

import (
	"sync"
)

// OrderedMap is a map that remembers insertion order. It is safe for
// concurrent use.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
	mu     sync.RWMutex
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		keys:   make([]K, 0),
		values: make(map[K]V),
	}
}

// SetIfAbsent stores value under key unless the key is already present.
// It returns the value held after the call and whether it was stored.
func (om *OrderedMap[K, V]) SetIfAbsent(key K, value V) (V, bool) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if existing, exists := om.values[key]; exists {
		return existing, false
	}
	om.keys = append(om.keys, key)
	om.values[key] = value
	return value, true
}

// Get retrieves a value from the map by key
func (om *OrderedMap[K, V]) Get(key K) (V, bool) {
	om.mu.RLock()
	defer om.mu.RUnlock()

	val, exists := om.values[key]
	return val, exists
}

// Delete removes a key-value pair from the map
func (om *OrderedMap[K, V]) Delete(key K) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if _, exists := om.values[key]; exists {
		delete(om.values, key)
		for i, k := range om.keys {
			if k == key {
				om.keys = append(om.keys[:i], om.keys[i+1:]...)
				break
			}
		}
	}
}

// Keys returns a slice of keys in the order they were inserted
func (om *OrderedMap[K, V]) Keys() []K {
	om.mu.RLock()
	defer om.mu.RUnlock()

	return append([]K{}, om.keys...)
}
