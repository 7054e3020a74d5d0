package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want TimeScope
	}{
		{"now", "what's the air quality now", TimeScope{Kind: ScopeInstant}},
		{"current", "current air quality", TimeScope{Kind: ScopeInstant}},
		{"today", "how's the air today", TimeScope{Kind: ScopeToday}},
		{"week", "air quality this week", TimeScope{Kind: ScopeLastDays, N: 7}},
		{"n hours", "pm2.5 last 3 hours", TimeScope{Kind: ScopeLastHours, N: 3}},
		{"n days", "pollution last 2 days", TimeScope{Kind: ScopeLastDays, N: 2}},
		{"no scope defaults to instant", "what's the air quality", TimeScope{Kind: ScopeInstant}},
		{"word count falls back", "air quality last zero days", TimeScope{Kind: ScopeInstant}},
		{"bare unit falls back", "air quality in hours", TimeScope{Kind: ScopeInstant}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveScope(Normalize(tt.in)))
		})
	}
}

// Non-positive counts never come out of Normalize (the sign is stripped as
// punctuation), but the resolver must still reject them.
func TestResolveScopeRejectsNonPositiveCounts(t *testing.T) {
	assert.Equal(t, TimeScope{Kind: ScopeInstant}, ResolveScope([]string{"aq", "last", "-3", "days"}))
	assert.Equal(t, TimeScope{Kind: ScopeInstant}, ResolveScope([]string{"aq", "last", "0", "hours"}))
}

func TestScopeWindow(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)

	from, to := TimeScope{Kind: ScopeToday}.Window(now)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, now, to)

	from, to = TimeScope{Kind: ScopeLastHours, N: 3}.Window(now)
	assert.Equal(t, now.Add(-3*time.Hour), from)
	assert.Equal(t, now, to)

	from, to = TimeScope{Kind: ScopeLastDays, N: 7}.Window(now)
	assert.Equal(t, now.AddDate(0, 0, -7), from)
	assert.Equal(t, now, to)
}

func TestScopePhrase(t *testing.T) {
	assert.Equal(t, "today", TimeScope{Kind: ScopeToday}.Phrase())
	assert.Equal(t, "over the last hour", TimeScope{Kind: ScopeLastHours, N: 1}.Phrase())
	assert.Equal(t, "over the last 3 hours", TimeScope{Kind: ScopeLastHours, N: 3}.Phrase())
	assert.Equal(t, "over the last 7 days", TimeScope{Kind: ScopeLastDays, N: 7}.Phrase())
}
