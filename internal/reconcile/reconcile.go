package reconcile

import (
	"grading-backend/internal/analyzer"
	"grading-backend/internal/reports"
	"grading-backend/internal/rubric"
)

// Feedback fallbacks used when the assessment left a field empty.
const (
	NoAnalysisFeedback = "no analysis available"
	noOverallFeedback  = "no feedback available"
	videoSummaryHeader = "[Video Summary]"
)

// Build folds a raw assessment onto the rubric and produces the scored part
// of a report. The rubric's criterion order is authoritative: every
// criterion yields exactly one score line, in rubric order, whether or not
// a review matched it. Build never fails; missing data degrades to zero
// scores and fallback feedback.
//
// Identity fields (user, topic, team) are left for the caller to fill in.
func Build(m Matcher, criteria []rubric.Criterion, assessment *analyzer.RawAssessment) reports.Report {
	if m == nil {
		m = BidirectionalSubstring{}
	}
	if assessment == nil {
		assessment = &analyzer.RawAssessment{}
	}

	scores := make([]reports.ScoredCriterion, 0, len(criteria))
	total := 0
	for _, cr := range criteria {
		line := reports.ScoredCriterion{
			StandardName:  cr.Name,
			StandardScore: cr.MaxScore,
			Feedback:      NoAnalysisFeedback,
		}
		if rv, ok := m.Match(cr.Name, assessment.Reviews); ok {
			line.ScoreValue = rv.Score
			if line.ScoreValue < 0 {
				line.ScoreValue = 0
			}
			// The match's feedback is taken verbatim, even when empty;
			// the sentinel marks only criteria no review matched.
			line.Feedback = rv.Feedback
		}
		total += line.ScoreValue
		scores = append(scores, line)
	}

	return reports.Report{
		OverallFeedback: overallFeedback(assessment),
		Scores:          scores,
		TotalScore:      total,
		Status:          reports.StatusCompleted,
	}
}

// overallFeedback assembles the report-level feedback. The overall summary
// is the base; when no per-criterion reviews came back, a non-empty
// aiFeedback replaces it. The video summary, when present, is appended as
// its own section.
func overallFeedback(assessment *analyzer.RawAssessment) string {
	feedback := assessment.OverallSummary
	if len(assessment.Reviews) == 0 && assessment.AIFeedback != "" {
		feedback = assessment.AIFeedback
	}
	if feedback == "" {
		feedback = noOverallFeedback
	}
	if assessment.VideoSummary != "" {
		feedback += "\n\n" + videoSummaryHeader + "\n" + assessment.VideoSummary
	}
	return feedback
}
