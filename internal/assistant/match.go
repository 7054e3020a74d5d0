package assistant

// MatchThreshold is the minimum overlap score an intent must reach to be
// selected; roughly one third of an intent's trigger tokens must be present.
const MatchThreshold = 0.34

// MatchResult is the outcome of scoring normalized input against the catalog.
// Intent is nil when no intent clears MatchThreshold.
type MatchResult struct {
	Intent     *Intent
	Confidence float64
	// Matched lists the trigger tokens found in the input, in input order.
	Matched []string
}

// Match scores each catalog intent by trigger overlap: the count of trigger
// tokens present in the input divided by the trigger-set size. The strictly
// highest score wins; ties go to the intent with the larger trigger set (more
// specific), then to catalog declaration order. The result is deterministic
// for identical input.
func Match(tokens []string, catalog []Intent) MatchResult {
	present := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		present[t] = true
	}

	best := MatchResult{}
	bestIdx := -1
	for i := range catalog {
		intent := &catalog[i]
		hits := 0
		for _, trig := range intent.Triggers {
			if present[trig] {
				hits++
			}
		}
		score := float64(hits) / float64(len(intent.Triggers))

		better := score > best.Confidence ||
			(score == best.Confidence && bestIdx >= 0 &&
				len(intent.Triggers) > len(catalog[bestIdx].Triggers))
		if better {
			best.Confidence = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || best.Confidence < MatchThreshold {
		return MatchResult{Confidence: best.Confidence}
	}

	winner := &catalog[bestIdx]
	best.Intent = winner

	trigSet := make(map[string]bool, len(winner.Triggers))
	for _, trig := range winner.Triggers {
		trigSet[trig] = true
	}
	for _, t := range tokens {
		if trigSet[t] {
			best.Matched = append(best.Matched, t)
			delete(trigSet, t)
		}
	}
	return best
}
