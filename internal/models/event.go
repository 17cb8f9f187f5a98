// Package models defines the core domain entities for the tagreport engine.
// These models represent tagged life events, correlation targets, and
// per-hashtag correlation results. All models include built-in validation to
// ensure data integrity throughout the application.
//
// Terminology:
//   - Tagged event: one observed occurrence (a feed, a diaper, or a custom
//     event) annotated with hashtags extracted from its free-text memo.
//   - Source event: an event bearing the hashtag under analysis.
//   - Outcome: the event or measurement whose association with the source
//     events is being tested.
package models

import (
	"errors"
	"fmt"
	"time"
)

// EventKind identifies the category of a tagged event.
type EventKind string

const (
	// KindFeed is a feeding session, optionally carrying a measured amount.
	KindFeed EventKind = "feed"
	// KindDiaper is a diaper change.
	KindDiaper EventKind = "diaper"
	// KindCustom is a user-defined event identified by a custom type ID.
	KindCustom EventKind = "custom_event"
)

// Kinds lists every event kind in fetch order.
var Kinds = []EventKind{KindFeed, KindDiaper, KindCustom}

// AmountUnit is the volume unit a feed amount was recorded in.
type AmountUnit string

const (
	// UnitMilliliters is the canonical unit; all amounts are normalized to it
	// before any aggregation.
	UnitMilliliters AmountUnit = "ml"
	// UnitFluidOuncesUS is a US fluid ounce.
	UnitFluidOuncesUS AmountUnit = "fl_oz_us"
)

const millilitersPerFluidOunceUS = 29.5735295625

// TaggedEvent represents one observed occurrence anchored to a single moment
// in time. Hashtags are derived from the memo exactly once, at construction,
// and are always lowercase and free of duplicates.
type TaggedEvent struct {
	ID           string     `json:"id"`
	Kind         EventKind  `json:"kind"`
	SubjectID    string     `json:"subject_id,omitempty"` // tracked individual; empty means unassigned
	Timestamp    time.Time  `json:"timestamp"`
	Memo         string     `json:"memo,omitempty"`
	Hashtags     []string   `json:"hashtags,omitempty"`
	CustomTypeID string     `json:"custom_type_id,omitempty"` // set only when Kind == KindCustom
	Amount       *float64   `json:"amount,omitempty"`         // set only when Kind == KindFeed
	AmountUnit   AmountUnit `json:"amount_unit,omitempty"`
}

// NewTaggedEvent builds an event with the hashtags extracted from memo.
// CustomTypeID and Amount are set by the caller afterwards where they apply.
func NewTaggedEvent(id string, kind EventKind, subjectID string, timestamp time.Time, memo string) TaggedEvent {
	return TaggedEvent{
		ID:        id,
		Kind:      kind,
		SubjectID: subjectID,
		Timestamp: timestamp,
		Memo:      memo,
		Hashtags:  ExtractHashtags(memo),
	}
}

// HasHashtag reports whether the event carries the given hashtag.
// The tag is compared in lowercase, matching how hashtags are stored.
func (e *TaggedEvent) HasHashtag(tag string) bool {
	for _, h := range e.Hashtags {
		if h == tag {
			return true
		}
	}
	return false
}

// AmountMilliliters returns the feed amount normalized to milliliters, or nil
// when the event has no numeric amount. Unknown units are treated as already
// canonical.
func (e *TaggedEvent) AmountMilliliters() *float64 {
	if e.Amount == nil {
		return nil
	}
	v := *e.Amount
	if e.AmountUnit == UnitFluidOuncesUS {
		v *= millilitersPerFluidOunceUS
	}
	return &v
}

// Validate checks that all event fields are valid.
func (e *TaggedEvent) Validate() error {
	if e.ID == "" {
		return errors.New("event ID must not be empty")
	}
	switch e.Kind {
	case KindFeed, KindDiaper, KindCustom:
	default:
		return fmt.Errorf("unknown event kind: %q", e.Kind)
	}
	if e.Timestamp.IsZero() {
		return errors.New("event timestamp must not be zero")
	}
	if e.Kind == KindCustom && e.CustomTypeID == "" {
		return errors.New("custom events must carry a custom type ID")
	}
	if e.Kind != KindCustom && e.CustomTypeID != "" {
		return errors.New("only custom events may carry a custom type ID")
	}
	if e.Amount != nil {
		if e.Kind != KindFeed {
			return errors.New("only feed events may carry an amount")
		}
		if *e.Amount < 0 {
			return errors.New("amount must not be negative")
		}
		if e.AmountUnit != UnitMilliliters && e.AmountUnit != UnitFluidOuncesUS {
			return fmt.Errorf("unknown amount unit: %q", e.AmountUnit)
		}
	}
	return nil
}

// DateInterval is a half-open time range [Start, End).
type DateInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether ts falls within the interval.
func (i DateInterval) Contains(ts time.Time) bool {
	return !ts.Before(i.Start) && ts.Before(i.End)
}

// Validate checks that the interval is well-formed.
func (i DateInterval) Validate() error {
	if i.Start.IsZero() || i.End.IsZero() {
		return errors.New("interval bounds must not be zero")
	}
	if i.Start.After(i.End) {
		return fmt.Errorf("interval start %v must not be after end %v", i.Start, i.End)
	}
	return nil
}
