package assistant

import (
	"fmt"
	"strconv"
	"time"
)

// ScopeKind enumerates the supported time-window shapes.
type ScopeKind int

const (
	// ScopeInstant means the most recent single reading.
	ScopeInstant ScopeKind = iota
	ScopeToday
	ScopeLastHours
	ScopeLastDays
)

// TimeScope is the window a query aggregates over. Derived per query from the
// input tokens; never persisted.
type TimeScope struct {
	Kind ScopeKind
	N    int // hour/day count for ScopeLastHours / ScopeLastDays
}

// ResolveScope scans tokens for scope keywords. A bare number followed by an
// hour/day unit selects a relative window. When nothing parses (including
// malformed counts like "zero days") the default ScopeInstant is returned;
// silently falling back beats erroring in a voice interface.
func ResolveScope(tokens []string) TimeScope {
	for i, tok := range tokens {
		switch tok {
		case "now", "current", "instant":
			return TimeScope{Kind: ScopeInstant}
		case "today":
			return TimeScope{Kind: ScopeToday}
		case "week":
			return TimeScope{Kind: ScopeLastDays, N: 7}
		case "hour", "hours", "hrs":
			if n, ok := precedingCount(tokens, i); ok {
				return TimeScope{Kind: ScopeLastHours, N: n}
			}
		case "day", "days":
			if n, ok := precedingCount(tokens, i); ok {
				return TimeScope{Kind: ScopeLastDays, N: n}
			}
		}
	}
	return TimeScope{Kind: ScopeInstant}
}

func precedingCount(tokens []string, i int) (int, bool) {
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(tokens[i-1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Window converts the scope to a concrete [from, to] pair ending at now.
// Meaningless for ScopeInstant, which reads the latest reading directly.
func (s TimeScope) Window(now time.Time) (time.Time, time.Time) {
	switch s.Kind {
	case ScopeToday:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return midnight, now
	case ScopeLastHours:
		return now.Add(-time.Duration(s.N) * time.Hour), now
	case ScopeLastDays:
		return now.AddDate(0, 0, -s.N), now
	default:
		return now, now
	}
}

// Phrase renders the scope for use inside a composed sentence.
func (s TimeScope) Phrase() string {
	switch s.Kind {
	case ScopeToday:
		return "today"
	case ScopeLastHours:
		if s.N == 1 {
			return "over the last hour"
		}
		return fmt.Sprintf("over the last %d hours", s.N)
	case ScopeLastDays:
		if s.N == 1 {
			return "over the last day"
		}
		return fmt.Sprintf("over the last %d days", s.N)
	default:
		return "right now"
	}
}
