package reconcile

import (
	"strings"

	"grading-backend/internal/analyzer"
)

// Matcher pairs a rubric criterion name with a review from the raw
// assessment.
type Matcher interface {
	Match(criterionName string, reviews []analyzer.RawReview) (analyzer.RawReview, bool)
}

// BidirectionalSubstring matches when either name contains the other,
// case-sensitively. The first review in assessment order wins.
type BidirectionalSubstring struct{}

// Match scans the reviews in order and returns the first bidirectional
// substring hit.
func (BidirectionalSubstring) Match(criterionName string, reviews []analyzer.RawReview) (analyzer.RawReview, bool) {
	for _, rv := range reviews {
		if strings.Contains(rv.Name, criterionName) || strings.Contains(criterionName, rv.Name) {
			return rv, true
		}
	}
	return analyzer.RawReview{}, false
}

var _ Matcher = BidirectionalSubstring{}
