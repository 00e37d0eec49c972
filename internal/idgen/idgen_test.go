package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	t.Run("generates canonical uuid", func(t *testing.T) {
		gen := NewUUIDGenerator()
		id, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, id, UUIDLength)
		assert.True(t, IsValid(id), "id %q should be a valid uuid v4", id)
	})

	t.Run("generates unique ids", func(t *testing.T) {
		gen := NewUUIDGenerator()
		seen := make(map[string]bool)

		for i := 0; i < 10000; i++ {
			id, err := gen.Generate()
			require.NoError(t, err)
			assert.False(t, seen[id], "duplicate id generated: %s", id)
			seen[id] = true
		}
	})

	t.Run("concurrent generation is safe", func(t *testing.T) {
		gen := NewUUIDGenerator()
		numGoroutines := 50
		idsPerGoroutine := 100

		var wg sync.WaitGroup
		var mu sync.Mutex
		seen := make(map[string]bool)

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < idsPerGoroutine; j++ {
					id, err := gen.Generate()
					assert.NoError(t, err)
					mu.Lock()
					seen[id] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Len(t, seen, numGoroutines*idsPerGoroutine)
	})
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"v4 lowercase", "f47ac10b-58cc-4372-a567-0e02b2c3d479", true},
		{"v4 uppercase", strings.ToUpper("f47ac10b-58cc-4372-a567-0e02b2c3d479"), false},
		{"v1 uuid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"braced form", "{f47ac10b-58cc-4372-a567-0e02b2c3d479}", false},
		{"urn form", "urn:uuid:f47ac10b-58cc-4372-a567-0e02b2c3d479", false},
		{"no dashes", "f47ac10b58cc4372a5670e02b2c3d479", false},
		{"garbage", "not-a-uuid", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.input))
		})
	}
}

func TestGeneratorInterface(t *testing.T) {
	var _ Generator = (*UUIDGenerator)(nil)
}

func BenchmarkUUIDGenerator_Generate(b *testing.B) {
	gen := NewUUIDGenerator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = gen.Generate()
	}
}
