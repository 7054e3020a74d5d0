package store

import (
	"sync"
	"time"
)

// MemoryStore is a concurrency-safe in-memory ReadingStore. It backs tests and
// runs when no database path is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	readings []Reading
	settings Settings

	// retention configuration
	maxHistory int           // max number of readings (0 = unlimited)
	maxAge     time.Duration // max age of readings (0 = unlimited)
}

// NewMemoryStore creates a new MemoryStore with optional retention limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		settings:   DefaultSettings(),
	}
}

// Insert appends a new reading and enforces retention. Readings normally
// arrive in timestamp order; out-of-order inserts are placed by a scan from
// the tail so Range output stays sorted.
func (s *MemoryStore) Insert(r Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := len(s.readings)
	for i > 0 && s.readings[i-1].Timestamp.After(r.Timestamp) {
		i--
	}
	s.readings = append(s.readings, Reading{})
	copy(s.readings[i+1:], s.readings[i:])
	s.readings[i] = r

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.readings) > s.maxHistory {
		over := len(s.readings) - s.maxHistory
		s.readings = s.readings[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		j := 0
		for ; j < len(s.readings); j++ {
			if !s.readings[j].Timestamp.Before(cutoff) {
				break
			}
		}
		if j > 0 && j < len(s.readings) {
			s.readings = s.readings[j:]
		}
	}
	return nil
}

// Latest returns the most recent reading.
func (s *MemoryStore) Latest() (Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.readings) == 0 {
		return Reading{}, ErrNoData
	}
	return s.readings[len(s.readings)-1], nil
}

// Range returns all readings between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Reading
	for _, r := range s.readings {
		if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
			result = append(result, r)
		}
	}
	if len(result) == 0 {
		return nil, ErrNoData
	}
	return result, nil
}

func (s *MemoryStore) GetSettings() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *MemoryStore) SaveSettings(st Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = st
	return nil
}
