package datastore

import (
	"sync"
	"testing"
	"time"

	"fileview/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func files(ids ...string) []model.FileRecord {
	out := make([]model.FileRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.FileRecord{Attributes: map[string]any{"_id": id}})
	}
	return out
}

func TestStore_EmptyUntilPublished(t *testing.T) {
	s := New()

	_, ok := s.Snapshot()
	assert.False(t, ok)
	assert.Equal(t, uint64(0), s.Generation())

	_, ok = s.Files(0)
	assert.False(t, ok)
	assert.False(t, s.Update(0, 0, func(*model.FileRecord) { t.Fatal("must not be called") }))
}

func TestStore_Publish(t *testing.T) {
	s := New()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	in := files("a", "b")
	gen := s.Publish(in)
	assert.Equal(t, uint64(1), gen)

	// The store keeps its own copy.
	in[0].Attributes["_id"] = "mutated"

	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, gen, snap.Generation)
	assert.Equal(t, fixed, snap.LoadedAt)
	require.Len(t, snap.Files, 2)
	assert.Equal(t, "a", snap.Files[0].ID())
	assert.Equal(t, "b", snap.Files[1].ID())
}

func TestStore_PublishEmpty(t *testing.T) {
	s := New()
	gen := s.Publish(nil)

	got, ok := s.Files(gen)
	require.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_UpdateAndStaleGeneration(t *testing.T) {
	s := New()
	first := s.Publish(files("a"))

	ok := s.Update(first, 0, func(f *model.FileRecord) {
		f.DataSourceRecords = []model.Record{map[string]any{"source_description": "x"}}
	})
	assert.True(t, ok)

	got, _ := s.Find("a")
	assert.Len(t, got.DataSourceRecords, 1)

	second := s.Publish(files("a", "b"))
	assert.False(t, s.Update(first, 0, func(*model.FileRecord) { t.Fatal("stale update applied") }))
	assert.False(t, s.Update(second, 5, func(*model.FileRecord) { t.Fatal("out of range update applied") }))

	_, ok = s.Files(first)
	assert.False(t, ok)

	cur, ok := s.Files(second)
	require.True(t, ok)
	assert.Nil(t, cur[0].DataSourceRecords)
}

func TestStore_Find(t *testing.T) {
	s := New()
	s.Publish(files("a", "b"))

	f, ok := s.Find("b")
	assert.True(t, ok)
	assert.Equal(t, "b", f.ID())

	_, ok = s.Find("zzz")
	assert.False(t, ok)
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := New()
	gen := s.Publish(files("a", "b", "c", "d"))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		for _, loc := range []bool{true, false} {
			wg.Add(1)
			go func(i int, loc bool) {
				defer wg.Done()
				s.Update(gen, i, func(f *model.FileRecord) {
					if loc {
						f.FileStorageLocations = []model.Record{}
					} else {
						f.DataSourceRecords = []model.Record{}
					}
				})
				_, _ = s.Snapshot()
			}(i, loc)
		}
	}
	wg.Wait()

	snap, _ := s.Snapshot()
	for _, f := range snap.Files {
		assert.NotNil(t, f.DataSourceRecords, f.ID())
		assert.NotNil(t, f.FileStorageLocations, f.ID())
	}
}
