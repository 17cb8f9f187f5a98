// Package correlation joins tagged events to outcomes within a time window
// and tests, per hashtag, whether events bearing that tag are statistically
// associated with the outcome occurring shortly afterward.
//
// Binary targets (a custom event type, optionally restricted to a hashtag)
// are analyzed through a 2×2 contingency table: phi coefficient plus a
// Yates-corrected chi-square p-value. The measured target (feed amount)
// builds two numeric samples instead: point-biserial coefficient plus a
// Welch t-test p-value.
//
// The matcher and engine are pure computations over an immutable event
// snapshot; they hold no shared mutable state and are safe to run
// concurrently over independent snapshots.
package correlation

import (
	"strings"
	"time"

	"github.com/rewired-gh/tagreport/internal/models"
	"github.com/rewired-gh/tagreport/internal/stats"
)

// contingency holds the four cells of the {tag, no-tag} × {outcome,
// no-outcome} table. It is accumulated as a value type so the per-hashtag
// fold mutates nothing shared.
type contingency struct {
	a int // tag & outcome
	b int // tag & no outcome
	c int // no tag & outcome
	d int // no tag & no outcome
}

func (t contingency) add(tagged, outcome bool) contingency {
	switch {
	case tagged && outcome:
		t.a++
	case tagged && !outcome:
		t.b++
	case !tagged && outcome:
		t.c++
	default:
		t.d++
	}
	return t
}

// MatchHashtag analyzes one hashtag against the given target. events must
// span [interval.Start, interval.End + window) so outcomes just past the
// interval boundary are still visible; only events inside the interval itself
// act as sources or contingency rows. window must be positive.
//
// A hashtag with no source events yields a result with zero counts,
// coefficient 0, and p-value 1.0 ("no evidence").
func MatchHashtag(tag string, events []models.TaggedEvent, target models.CorrelationTarget, window time.Duration, interval models.DateInterval) models.CorrelationResult {
	tag = strings.ToLower(tag)

	totalCount := 0
	for i := range events {
		if interval.Contains(events[i].Timestamp) && events[i].HasHashtag(tag) {
			totalCount++
		}
	}

	result := models.CorrelationResult{
		Hashtag:    tag,
		TotalCount: totalCount,
		PValue:     1.0,
	}
	if totalCount == 0 {
		return result
	}

	switch target.Kind {
	case models.TargetCustomEvent, models.TargetCustomEventWithHashtag:
		matchBinary(&result, tag, events, target, window, interval)
	case models.TargetFeedAmount:
		matchFeedAmount(&result, tag, events, window, interval)
	}
	return result
}

// matchBinary partitions every in-interval event by tag membership and by
// whether a qualifying outcome follows it within (timestamp, timestamp +
// window], then runs the contingency-table tests.
func matchBinary(result *models.CorrelationResult, tag string, events []models.TaggedEvent, target models.CorrelationTarget, window time.Duration, interval models.DateInterval) {
	var table contingency
	for i := range events {
		ev := &events[i]
		if !interval.Contains(ev.Timestamp) {
			continue
		}
		table = table.add(ev.HasHashtag(tag), outcomeFollows(ev, events, target, window))
	}

	result.CorrelatedCount = table.a
	result.Percentage = float64(table.a) / float64(result.TotalCount)
	result.CorrelationCoefficient = stats.PhiCoefficient(table.a, table.b, table.c, table.d)
	result.PValue = stats.ChiSquarePValue(table.a, table.b, table.c, table.d)
}

// outcomeFollows reports whether a qualifying outcome event exists strictly
// after the source and no later than source.Timestamp + window. The right
// boundary is inclusive: an outcome landing exactly at the window edge counts.
func outcomeFollows(source *models.TaggedEvent, events []models.TaggedEvent, target models.CorrelationTarget, window time.Duration) bool {
	deadline := source.Timestamp.Add(window)
	for i := range events {
		candidate := &events[i]
		if candidate.Kind != models.KindCustom || candidate.CustomTypeID != target.CustomTypeID {
			continue
		}
		if !candidate.Timestamp.After(source.Timestamp) || candidate.Timestamp.After(deadline) {
			continue
		}
		if target.Kind == models.TargetCustomEventWithHashtag && !candidate.HasHashtag(target.Hashtag) {
			continue
		}
		return true
	}
	return false
}

// matchFeedAmount matches every in-interval event to the earliest feed
// starting within [timestamp, timestamp + window] and splits the matched
// amounts into tagged and untagged samples. The lower bound is inclusive so a
// tagged feed may serve as its own matched measurement.
func matchFeedAmount(result *models.CorrelationResult, tag string, events []models.TaggedEvent, window time.Duration, interval models.DateInterval) {
	var group1, group0 []float64
	for i := range events {
		ev := &events[i]
		if !interval.Contains(ev.Timestamp) {
			continue
		}
		amount, ok := matchedFeedAmount(ev, events, window)
		if !ok {
			continue
		}
		if ev.HasHashtag(tag) {
			group1 = append(group1, amount)
		} else {
			group0 = append(group0, amount)
		}
	}

	result.CorrelatedCount = len(group1)
	result.Percentage = float64(len(group1)) / float64(result.TotalCount)
	if len(group1) > 0 {
		avg := 0.0
		for _, v := range group1 {
			avg += v
		}
		avg /= float64(len(group1))
		result.AverageValue = &avg
	}
	result.CorrelationCoefficient = stats.PointBiserialCorrelation(group1, group0)
	result.PValue = stats.WelchTTestPValue(group1, group0)
}

// matchedFeedAmount finds the feed session with the earliest start time in
// [source.Timestamp, source.Timestamp + window]; ties keep the first in input
// order. It returns the feed's amount in milliliters, or false when no feed
// matches or the matched feed has no numeric amount.
func matchedFeedAmount(source *models.TaggedEvent, events []models.TaggedEvent, window time.Duration) (float64, bool) {
	deadline := source.Timestamp.Add(window)
	var matched *models.TaggedEvent
	for i := range events {
		candidate := &events[i]
		if candidate.Kind != models.KindFeed {
			continue
		}
		if candidate.Timestamp.Before(source.Timestamp) || candidate.Timestamp.After(deadline) {
			continue
		}
		if matched == nil || candidate.Timestamp.Before(matched.Timestamp) {
			matched = candidate
		}
	}
	if matched == nil {
		return 0, false
	}

	amount := matched.AmountMilliliters()
	if amount == nil {
		return 0, false
	}
	return *amount, true
}
