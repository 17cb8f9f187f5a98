package models

import (
	"errors"
	"fmt"
)

// CorrelationResult is the per-hashtag outcome of one analysis run.
// Instances are transient: computed fresh from the repository's current data
// and consumed immediately by the caller.
type CorrelationResult struct {
	Hashtag string `json:"hashtag"`
	// TotalCount is the number of source events bearing the hashtag within
	// the analysis interval.
	TotalCount int `json:"total_count"`
	// CorrelatedCount is the number of those source events for which a
	// qualifying outcome was found. For measured targets it counts sources
	// where a measurement was obtainable.
	CorrelatedCount int `json:"correlated_count"`
	// Percentage is CorrelatedCount / TotalCount, or 0 when TotalCount is 0.
	Percentage float64 `json:"percentage"`
	// AverageValue is the mean of matched measurements in milliliters.
	// Nil for binary targets and when no measurement was obtainable.
	AverageValue *float64 `json:"average_value,omitempty"`
	// CorrelationCoefficient is the phi coefficient for binary targets or the
	// point-biserial coefficient for measured targets. Always in [-1, 1] and
	// never NaN; zero means "no evidence".
	CorrelationCoefficient float64 `json:"correlation_coefficient"`
	// PValue is the two-sided significance of the coefficient, in [0, 1].
	// 1.0 means "no significant signal".
	PValue float64 `json:"p_value"`
}

// Significant reports whether the result clears the conventional 0.05
// significance level.
func (r *CorrelationResult) Significant() bool {
	return r.PValue < 0.05
}

// Validate checks that all result fields are internally consistent.
func (r *CorrelationResult) Validate() error {
	if r.Hashtag == "" {
		return errors.New("result hashtag must not be empty")
	}
	if r.TotalCount < 0 {
		return errors.New("total count must not be negative")
	}
	if r.CorrelatedCount < 0 || r.CorrelatedCount > r.TotalCount {
		return fmt.Errorf("correlated count %d must be between 0 and total count %d",
			r.CorrelatedCount, r.TotalCount)
	}
	if r.Percentage < 0.0 || r.Percentage > 1.0 {
		return errors.New("percentage must be between 0.0 and 1.0")
	}
	if r.CorrelationCoefficient < -1.0 || r.CorrelationCoefficient > 1.0 {
		return errors.New("correlation coefficient must be between -1.0 and 1.0")
	}
	if r.PValue < 0.0 || r.PValue > 1.0 {
		return errors.New("p-value must be between 0.0 and 1.0")
	}
	return nil
}
