package transcript

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/teacherbot/internal/config"
	"github.com/nadzzz/teacherbot/internal/language"
	"github.com/nadzzz/teacherbot/internal/message"
)

func turn(q string, lang language.Language, at time.Time) message.Turn {
	return message.Turn{
		Question: q,
		Response: message.Response{
			Language:   lang,
			Backend:    "transformers:google/flan-t5-base",
			Prompt:     "prompt for " + q,
			Answer:     "answer to " + q,
			LatencySec: 0.25,
		},
		CreatedAt: at,
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "turns.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStoreMostRecentFirst(t *testing.T) {
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Append(ctx, "a", turn("first", language.English, base)))
			require.NoError(t, s.Append(ctx, "a", turn("second", language.Hindi, base.Add(time.Minute))))
			require.NoError(t, s.Append(ctx, "b", turn("other session", language.Telugu, base)))

			got, err := s.List(ctx, "a")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "second", got[0].Question)
			assert.Equal(t, language.Hindi, got[0].Response.Language)
			assert.Equal(t, "first", got[1].Question)
			assert.Equal(t, "answer to first", got[1].Response.Answer)
			assert.Equal(t, 0.25, got[1].Response.LatencySec)
			assert.True(t, base.Equal(got[1].CreatedAt))

			other, err := s.List(ctx, "b")
			require.NoError(t, err)
			require.Len(t, other, 1)
			assert.Equal(t, language.Telugu, other[0].Response.Language)
		})
	}
}

func TestStoreEmptySession(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.List(context.Background(), "missing")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestMemoryStoreListIsACopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "a", turn("q1", language.English, time.Now())))
	require.NoError(t, s.Append(ctx, "a", turn("q2", language.English, time.Now())))

	got, err := s.List(ctx, "a")
	require.NoError(t, err)
	got[0].Question = "mutated"

	again, err := s.List(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "q2", again[0].Question)
}

func TestStoreConcurrentAppend(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, s.Append(ctx, "shared", turn(fmt.Sprintf("q%d", i), language.English, time.Now())))
				}(i)
			}
			wg.Wait()

			got, err := s.List(ctx, "shared")
			require.NoError(t, err)
			assert.Len(t, got, 20)
		})
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(config.StorageConfig{Driver: config.StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(config.StorageConfig{Driver: config.StorageSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(config.StorageConfig{Driver: "redis"})
	assert.Error(t, err)
}
