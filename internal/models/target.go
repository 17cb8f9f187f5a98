package models

import (
	"errors"
	"fmt"
	"strings"
)

// TargetKind discriminates the closed set of correlation target variants.
// The matcher branches exhaustively on this kind; adding a variant requires
// touching every switch over it.
type TargetKind string

const (
	// TargetCustomEvent means the outcome is "a custom event of the given
	// type occurred shortly after the source event".
	TargetCustomEvent TargetKind = "custom_event"
	// TargetCustomEventWithHashtag additionally requires the outcome event
	// to carry a specific hashtag.
	TargetCustomEventWithHashtag TargetKind = "custom_event_with_hashtag"
	// TargetFeedAmount means the outcome is a measured quantity: the amount
	// of the first feed session starting within the window.
	TargetFeedAmount TargetKind = "feed_amount"
)

// CorrelationTarget describes the outcome whose association with each
// hashtag is being tested. Exactly one of the three variants applies;
// CustomTypeID and Hashtag are meaningful only for the kinds that name them.
type CorrelationTarget struct {
	Kind         TargetKind `json:"kind"`
	CustomTypeID string     `json:"custom_type_id,omitempty"`
	Hashtag      string     `json:"hashtag,omitempty"`
}

// CustomEventTarget builds a target matching any custom event of the given type.
func CustomEventTarget(customTypeID string) CorrelationTarget {
	return CorrelationTarget{Kind: TargetCustomEvent, CustomTypeID: customTypeID}
}

// CustomEventHashtagTarget builds a target matching custom events of the
// given type that also carry the given hashtag.
func CustomEventHashtagTarget(customTypeID, hashtag string) CorrelationTarget {
	return CorrelationTarget{
		Kind:         TargetCustomEventWithHashtag,
		CustomTypeID: customTypeID,
		Hashtag:      strings.ToLower(hashtag),
	}
}

// FeedAmountTarget builds a target measuring the matched feed's amount.
func FeedAmountTarget() CorrelationTarget {
	return CorrelationTarget{Kind: TargetFeedAmount}
}

// Binary reports whether the target is a yes/no outcome (contingency-table
// analysis) as opposed to a measured quantity (two-sample analysis).
func (t CorrelationTarget) Binary() bool {
	return t.Kind == TargetCustomEvent || t.Kind == TargetCustomEventWithHashtag
}

// Validate checks that the target variant is complete.
func (t CorrelationTarget) Validate() error {
	switch t.Kind {
	case TargetCustomEvent:
		if t.CustomTypeID == "" {
			return errors.New("custom event target requires a custom type ID")
		}
	case TargetCustomEventWithHashtag:
		if t.CustomTypeID == "" {
			return errors.New("custom event target requires a custom type ID")
		}
		if t.Hashtag == "" {
			return errors.New("hashtag target requires a hashtag")
		}
	case TargetFeedAmount:
		if t.CustomTypeID != "" || t.Hashtag != "" {
			return errors.New("feed amount target must not carry a type ID or hashtag")
		}
	default:
		return fmt.Errorf("unknown target kind: %q", t.Kind)
	}
	return nil
}
