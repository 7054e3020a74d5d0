package assistant

// IntentID identifies a supported user request.
type IntentID string

const (
	IntentCurrent IntentID = "current"
	IntentHighest IntentID = "highest"
	IntentSpike   IntentID = "spike"
)

// Intent couples an intent with the canonical trigger tokens that select it.
// The catalog is plain ordered data: adding an intent is a data edit, and
// declaration order is the final tie-break in matching.
type Intent struct {
	ID IntentID
	// Triggers are canonical tokens as produced by Normalize.
	Triggers []string
	// RequiresScope marks intents whose answer depends on a time window.
	RequiresScope bool
}

// Catalog returns the static intent table. Intent IDs are unique and no two
// intents share an identical trigger set; partial overlaps (e.g. "aq") are
// resolved by the matcher's scoring rule.
func Catalog() []Intent {
	return []Intent{
		{ID: IntentCurrent, Triggers: []string{"aq"}, RequiresScope: true},
		{ID: IntentHighest, Triggers: []string{"aq", "highest"}, RequiresScope: true},
		{ID: IntentSpike, Triggers: []string{"spike"}, RequiresScope: false},
	}
}

// Band is a named severity classification over a PM2.5 range. Upper is the
// inclusive upper bound; the last band is open-ended.
type Band struct {
	Label string  `json:"label"`
	Upper float64 `json:"upper"`
}

// Bands returns the static quality-band table. The bands partition [0, +inf)
// with no gaps and no overlaps.
func Bands() []Band {
	return []Band{
		{Label: "good", Upper: 12.0},
		{Label: "moderate", Upper: 35.0},
		{Label: "unhealthy", Upper: 150.0},
		{Label: "hazardous", Upper: 0}, // open-ended
	}
}

// BandFor classifies a PM2.5 value. The table covers the whole value range,
// so a band is always found.
func BandFor(v float64, bands []Band) Band {
	for i, b := range bands {
		if i == len(bands)-1 || v <= b.Upper {
			return b
		}
	}
	return bands[len(bands)-1]
}
