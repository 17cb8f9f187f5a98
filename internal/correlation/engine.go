package correlation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rewired-gh/tagreport/internal/logger"
	"github.com/rewired-gh/tagreport/internal/models"
)

// EventSource supplies the events an analysis runs over. Implementations must
// return events whose timestamp falls within [interval.Start, interval.End);
// when subjectID is non-empty, events belonging to other subjects (or to no
// subject) are excluded.
type EventSource interface {
	EventsByKind(kind models.EventKind, interval models.DateInterval, subjectID string) ([]models.TaggedEvent, error)
}

// Engine orchestrates correlation analysis: it fetches an event snapshot from
// its source, runs the matcher per hashtag, and returns ranked results.
type Engine struct {
	source EventSource
}

// New creates a new Engine backed by the given event source.
func New(source EventSource) *Engine {
	return &Engine{source: source}
}

// FetchError records a per-kind event fetch failure. Fetch failures are
// non-fatal: analysis proceeds with the events that were available, and the
// caller decides whether a partial result is acceptable.
type FetchError struct {
	Kind models.EventKind
	Err  error
}

func (e FetchError) Error() string {
	return fmt.Sprintf("fetch error for %s events: %v", e.Kind, e.Err)
}

// Analyze tests each requested hashtag for association with the target
// within the given interval. window is the lookahead applied after each
// source event and must be positive. subjectID optionally restricts the
// analysis to one tracked individual.
//
// Results are ranked descending by percentage for binary targets and by
// average value for the feed amount target; ties break by hashtag ascending.
// An empty hashtag list returns an empty result without fetching any events.
// Cancellation is honored between hashtags; on cancellation the results
// accumulated so far are returned together with the context's error.
func (e *Engine) Analyze(ctx context.Context, hashtags []string, target models.CorrelationTarget, window time.Duration, interval models.DateInterval, subjectID string) ([]models.CorrelationResult, []FetchError, error) {
	if window <= 0 {
		return nil, nil, fmt.Errorf("invalid window %v: must be positive", window)
	}
	if err := interval.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid interval: %w", err)
	}
	if err := target.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid target: %w", err)
	}
	if len(hashtags) == 0 {
		return []models.CorrelationResult{}, nil, nil
	}

	// Fetch with a lookahead margin so outcomes just past the interval end
	// are still visible to the matcher.
	fetchInterval := models.DateInterval{Start: interval.Start, End: interval.End.Add(window)}
	events, fetchErrors := e.fetchAll(fetchInterval, subjectID)

	results := make([]models.CorrelationResult, 0, len(hashtags))
	seen := make(map[string]struct{}, len(hashtags))
	for _, tag := range hashtags {
		if err := ctx.Err(); err != nil {
			return results, fetchErrors, err
		}
		tag = strings.ToLower(tag)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		results = append(results, MatchHashtag(tag, events, target, window, interval))
	}

	rankResults(results, target)
	return results, fetchErrors, nil
}

// FetchAllHashtags returns the sorted union of hashtags carried by any event
// in the interval, optionally restricted to one subject. It is typically used
// to populate the candidate list before running Analyze.
func (e *Engine) FetchAllHashtags(ctx context.Context, interval models.DateInterval, subjectID string) ([]string, []FetchError, error) {
	if err := interval.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid interval: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	events, fetchErrors := e.fetchAll(interval, subjectID)

	seen := make(map[string]struct{})
	var tags []string
	for i := range events {
		for _, tag := range events[i].Hashtags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}

	sort.Strings(tags)
	return tags, fetchErrors, nil
}

// fetchAll gathers events of every kind, soft-failing per kind: a failed
// fetch contributes no events and one FetchError instead of aborting the run.
func (e *Engine) fetchAll(interval models.DateInterval, subjectID string) ([]models.TaggedEvent, []FetchError) {
	var events []models.TaggedEvent
	var fetchErrors []FetchError

	for _, kind := range models.Kinds {
		fetched, err := e.source.EventsByKind(kind, interval, subjectID)
		if err != nil {
			logger.Warn("Failed to fetch %s events, proceeding without them: %v", kind, err)
			fetchErrors = append(fetchErrors, FetchError{Kind: kind, Err: err})
			continue
		}
		events = append(events, fetched...)
	}

	return events, fetchErrors
}

// rankResults sorts results by strength of evidence: descending percentage
// for binary targets, descending average value (absent treated as 0) for the
// measured target. Ties break by hashtag ascending for determinism.
func rankResults(results []models.CorrelationResult, target models.CorrelationTarget) {
	key := func(r *models.CorrelationResult) float64 {
		if target.Kind == models.TargetFeedAmount {
			if r.AverageValue == nil {
				return 0
			}
			return *r.AverageValue
		}
		return r.Percentage
	}

	sort.Slice(results, func(i, j int) bool {
		ki, kj := key(&results[i]), key(&results[j])
		if ki != kj {
			return ki > kj
		}
		return results[i].Hashtag < results[j].Hashtag
	})
}
