package assistant

import (
	"fmt"
	"time"

	"github.com/puffmon/puff/internal/store"
)

// Fixed responses. Every input, however nonsensical, must produce a sentence.
const (
	noDataResponse       = "I don't have any sensor data yet."
	unrecognizedResponse = "I didn't understand that. Try asking about current air quality, the highest reading, or recent spikes."
	noSpikeResponse      = "I haven't detected any significant spikes in the last 24 hours."
)

// Spike detection parameters: a reading spikes when the 5-sample moving
// average exceeds the previous window's average by this factor.
const (
	spikeWindow = 5
	spikeFactor = 1.5
)

// Answer is the composed response handed to the presentation layer. Band is
// empty when the response carries no quality classification.
type Answer struct {
	Text string `json:"text"`
	Band string `json:"band,omitempty"`
}

const timestampPhrase = "15:04 on 2 January"

// Compose formats a deterministic natural-language response for the matched
// intent over the fetched readings. An empty readings slice always yields the
// fixed no-data sentence; there is no path that divides by zero.
func Compose(intent *Intent, scope TimeScope, readings []store.Reading, bands []Band) Answer {
	if intent == nil {
		return Answer{Text: unrecognizedResponse}
	}
	if len(readings) == 0 {
		return Answer{Text: noDataResponse}
	}

	switch intent.ID {
	case IntentHighest:
		return composeHighest(scope, readings, bands)
	case IntentSpike:
		return composeSpike(readings, bands)
	default:
		return composeCurrent(scope, readings, bands)
	}
}

func composeCurrent(scope TimeScope, readings []store.Reading, bands []Band) Answer {
	if scope.Kind == ScopeInstant {
		r := readings[len(readings)-1]
		band := BandFor(r.PM25, bands)
		return Answer{
			Text: fmt.Sprintf("Current air quality is %s at %.1f µg/m³ (PM10 %.1f).",
				band.Label, r.PM25, r.PM10),
			Band: band.Label,
		}
	}

	var sum float64
	for _, r := range readings {
		sum += r.PM25
	}
	mean := sum / float64(len(readings))
	band := BandFor(mean, bands)
	return Answer{
		Text: fmt.Sprintf("Average air quality %s was %s at %.1f µg/m³.",
			scope.Phrase(), band.Label, mean),
		Band: band.Label,
	}
}

func composeHighest(scope TimeScope, readings []store.Reading, bands []Band) Answer {
	maxPM25 := readings[0]
	maxPM10 := readings[0]
	for _, r := range readings[1:] {
		if r.PM25 > maxPM25.PM25 {
			maxPM25 = r
		}
		if r.PM10 > maxPM10.PM10 {
			maxPM10 = r
		}
	}

	band := BandFor(maxPM25.PM25, bands)
	return Answer{
		Text: fmt.Sprintf("The highest PM2.5 reading %s was %.1f µg/m³ at %s, and the highest PM10 was %.1f µg/m³ at %s.",
			scope.Phrase(),
			maxPM25.PM25, maxPM25.Timestamp.Format(timestampPhrase),
			maxPM10.PM10, maxPM10.Timestamp.Format(timestampPhrase)),
		Band: band.Label,
	}
}

func composeSpike(readings []store.Reading, bands []Band) Answer {
	ts, value, baseline, found := findLastSpike(readings)
	if !found {
		return Answer{Text: noSpikeResponse}
	}
	band := BandFor(value, bands)
	return Answer{
		Text: fmt.Sprintf("PM2.5 spiked to %.1f µg/m³ at %s, up from a baseline of %.1f.",
			value, ts.Format(timestampPhrase), baseline),
		Band: band.Label,
	}
}

// findLastSpike walks the moving averages backwards and reports the most
// recent point where one window's average exceeds the previous by
// spikeFactor. Requires at least spikeWindow+1 readings.
func findLastSpike(readings []store.Reading) (ts time.Time, value, baseline float64, found bool) {
	if len(readings) < spikeWindow+1 {
		return time.Time{}, 0, 0, false
	}

	avgs := make([]float64, 0, len(readings)-spikeWindow+1)
	for i := 0; i+spikeWindow <= len(readings); i++ {
		var sum float64
		for _, r := range readings[i : i+spikeWindow] {
			sum += r.PM25
		}
		avgs = append(avgs, sum/spikeWindow)
	}

	for i := len(avgs) - 1; i > 0; i-- {
		if avgs[i] > avgs[i-1]*spikeFactor {
			r := readings[i+spikeWindow-1]
			return r.Timestamp, r.PM25, avgs[i-1], true
		}
	}
	return time.Time{}, 0, 0, false
}
