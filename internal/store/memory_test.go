package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	s := NewMemoryStore(0, 0)

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Insert(Reading{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			PM25:      float64(i),
		}))
	}

	got, err := s.Range(base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		require.True(t, got[i-1].Timestamp.Before(got[i].Timestamp))
	}
}

func TestMemoryOutOfOrderInsert(t *testing.T) {
	s := NewMemoryStore(0, 0)

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Insert(Reading{Timestamp: base.Add(2 * time.Minute), PM25: 2}))
	require.NoError(t, s.Insert(Reading{Timestamp: base, PM25: 0}))
	require.NoError(t, s.Insert(Reading{Timestamp: base.Add(time.Minute), PM25: 1}))

	got, err := s.Range(base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, r := range got {
		require.Equal(t, float64(i), r.PM25)
	}
}

func TestMemoryRetentionByCount(t *testing.T) {
	s := NewMemoryStore(3, 0)

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Insert(Reading{Timestamp: base.Add(time.Duration(i) * time.Minute), PM25: float64(i)}))
	}

	got, err := s.Range(base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 2.0, got[0].PM25)
}

// Appends from the poller must interleave with range reads from the assistant
// without blocking either side.
func TestMemoryConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(0, 0)
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = s.Insert(Reading{Timestamp: base.Add(time.Duration(i) * time.Second), PM25: float64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_, _ = s.Range(base, base.Add(time.Hour))
			_, _ = s.Latest()
		}
	}()
	wg.Wait()

	got, err := s.Range(base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 500)
}
