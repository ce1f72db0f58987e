package id_test

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/photostore/pkg/id"
)

func TestNewStorageID(t *testing.T) {
	t.Parallel()

	t.Run("generates valid length", func(t *testing.T) {
		t.Parallel()

		assert.Len(t, id.NewStorageID(), id.StorageIDLength)
	})

	t.Run("uses only lowercase alphanumerics", func(t *testing.T) {
		t.Parallel()

		valid := regexp.MustCompile(`^[0-9a-z]+$`)
		for range 100 {
			v := id.NewStorageID()
			require.True(t, valid.MatchString(v), "invalid characters: %s", v)
		}
	})

	t.Run("generates unique IDs concurrently", func(t *testing.T) {
		t.Parallel()

		const workers, perWorker = 8, 500
		var (
			mu   sync.Mutex
			wg   sync.WaitGroup
			seen = make(map[string]struct{}, workers*perWorker)
		)

		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range perWorker {
					v := id.NewStorageID()
					mu.Lock()
					_, dup := seen[v]
					seen[v] = struct{}{}
					mu.Unlock()
					assert.False(t, dup, "duplicate id: %s", v)
				}
			}()
		}
		wg.Wait()

		require.Len(t, seen, workers*perWorker)
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"one", 1, 1},
		{"long", 64, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, id.New(tt.n), tt.want)
		})
	}
}
