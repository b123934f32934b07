package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSet(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		assert.Empty(t, NewSet[int]())
	})

	t.Run("duplicate elements collapse", func(t *testing.T) {
		set := NewSet(1, 2, 2, 3, 3, 3)
		assert.Len(t, set, 3)
		for i := 1; i <= 3; i++ {
			assert.True(t, set.Has(i))
		}
	})
}

func TestSet_Add(t *testing.T) {
	set := NewSet("a")
	set.Add("b", "a", "c")

	assert.Len(t, set, 3)
	assert.True(t, set.Has("c"))
	assert.False(t, set.Has("d"))
}

func TestSet_TryAdd(t *testing.T) {
	type key struct {
		author string
		at     int64
	}

	set := NewSet[key]()

	assert.True(t, set.TryAdd(key{"0xa", 100}), "first insert should be accepted")
	assert.False(t, set.TryAdd(key{"0xa", 100}), "same key should be rejected")
	assert.True(t, set.TryAdd(key{"0xa", 101}), "different key should be accepted")
	assert.Len(t, set, 2)
}
