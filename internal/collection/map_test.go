package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncMap(t *testing.T) {
	m := NewSyncMap[string, int]()
	assert.True(t, m.PutIfAbsent("a", 1))
	assert.False(t, m.PutIfAbsent("a", 2))
	m.Put("b", 2)
	m.Put("c", 3)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = m.Take("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = m.Get("b")
	assert.False(t, ok)

	m.DeleteFunc(func(key string, value int) bool { return value > 2 })
	assert.Equal(t, 1, m.Len())

	sum := 0
	m.Range(func(key string, value int) bool {
		sum += value
		return true
	})
	assert.Equal(t, 1, sum)
}
