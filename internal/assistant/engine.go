package assistant

import (
	"errors"
	"fmt"
	"time"

	"github.com/puffmon/puff/internal/store"
)

// aggregateDefaultHours is the window used by aggregate-only intents
// (highest, spike) when the user gives no scope; a single latest reading
// cannot answer them.
const aggregateDefaultHours = 24

// Engine is the intent-matching and query-resolution core. It holds only the
// immutable catalog and band table plus the store handle, so concurrent
// Answer calls need no locking.
type Engine struct {
	store   store.ReadingStore
	catalog []Intent
	bands   []Band

	now func() time.Time // test hook
}

// NewEngine creates an Engine over the given reading store. The intent
// catalog and quality-band table are built once here and never mutated.
func NewEngine(st store.ReadingStore) *Engine {
	return &Engine{
		store:   st,
		catalog: Catalog(),
		bands:   Bands(),
		now:     time.Now,
	}
}

// Answer is the sole entry point for the presentation layer: it takes
// freeform user text and returns a composed response. Unrecognized input, an
// empty store and malformed scopes all degrade to fixed sentences; only a
// store failure surfaces as an error.
func (e *Engine) Answer(text string) (Answer, error) {
	tokens := Normalize(text)
	res := Match(tokens, e.catalog)
	if res.Intent == nil {
		return Answer{Text: unrecognizedResponse}, nil
	}

	scope := ResolveScope(tokens)
	if res.Intent.ID != IntentCurrent && scope.Kind == ScopeInstant {
		scope = TimeScope{Kind: ScopeLastHours, N: aggregateDefaultHours}
	}

	readings, err := e.fetch(scope)
	if err != nil {
		if errors.Is(err, store.ErrNoData) {
			return Compose(res.Intent, scope, nil, e.bands), nil
		}
		return Answer{}, fmt.Errorf("query readings: %w", err)
	}

	return Compose(res.Intent, scope, readings, e.bands), nil
}

func (e *Engine) fetch(scope TimeScope) ([]store.Reading, error) {
	if scope.Kind == ScopeInstant {
		latest, err := e.store.Latest()
		if err != nil {
			return nil, err
		}
		return []store.Reading{latest}, nil
	}

	from, to := scope.Window(e.now())
	return e.store.Range(from, to)
}
