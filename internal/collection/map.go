package collection

import "sync"

type SyncMap[K comparable, V any] struct {
	m   map[K]V
	mux sync.RWMutex
}

func (m *SyncMap[K, V]) Get(k K) (V, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	v, ok := m.m[k]
	return v, ok
}

func (m *SyncMap[K, V]) Put(k K, v V) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.m[k] = v
}

// PutIfAbsent stores v unless k is present; it reports whether v was stored.
func (m *SyncMap[K, V]) PutIfAbsent(k K, v V) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.m[k]; ok {
		return false
	}
	m.m[k] = v
	return true
}

// Take removes k and returns its value.
func (m *SyncMap[K, V]) Take(k K) (V, bool) {
	m.mux.Lock()
	defer m.mux.Unlock()
	v, ok := m.m[k]
	if ok {
		delete(m.m, k)
	}
	return v, ok
}

func (m *SyncMap[K, V]) Delete(k K) {
	m.mux.Lock()
	defer m.mux.Unlock()
	delete(m.m, k)
}

// DeleteFunc removes every entry for which f returns true.
func (m *SyncMap[K, V]) DeleteFunc(f func(key K, value V) bool) {
	m.mux.Lock()
	defer m.mux.Unlock()
	for k, v := range m.m {
		if f(k, v) {
			delete(m.m, k)
		}
	}
}

// Range calls f for each entry under a read lock; f must not modify the map.
func (m *SyncMap[K, V]) Range(f func(key K, value V) bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	for k, v := range m.m {
		if !f(k, v) {
			return // stop iteration if f returns false
		}
	}
}

func (m *SyncMap[K, V]) Len() int {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return len(m.m)
}

func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{m: make(map[K]V)}
}
