package reconcile

import (
	"strings"
	"testing"

	"grading-backend/internal/analyzer"
	"grading-backend/internal/rubric"
)

func criteria(t *testing.T) []rubric.Criterion {
	t.Helper()
	return []rubric.Criterion{
		{Name: "정확성", MaxScore: 40, Description: "내용의 정확성"},
		{Name: "전달력", MaxScore: 30, Description: "청중 전달력"},
		{Name: "태도", MaxScore: 30, Description: "발표 태도"},
	}
}

func TestBuildMatchesReviewsToRubric(t *testing.T) {
	assessment := &analyzer.RawAssessment{
		OverallSummary: "전반적으로 훌륭한 발표입니다.",
		Reviews: []analyzer.RawReview{
			{Name: "발표 태도", Score: 25, Feedback: "자신감 있는 태도"},
			{Name: "정확성 평가", Score: 35, Feedback: "근거가 탄탄함"},
		},
	}

	rp := Build(BidirectionalSubstring{}, criteria(t), assessment)

	if len(rp.Scores) != 3 {
		t.Fatalf("scores = %d, want 3", len(rp.Scores))
	}
	// Rubric order is preserved regardless of review order.
	if rp.Scores[0].StandardName != "정확성" || rp.Scores[0].ScoreValue != 35 {
		t.Errorf("scores[0] = %+v", rp.Scores[0])
	}
	if rp.Scores[1].StandardName != "전달력" || rp.Scores[1].ScoreValue != 0 {
		t.Errorf("scores[1] = %+v", rp.Scores[1])
	}
	if rp.Scores[1].Feedback != NoAnalysisFeedback {
		t.Errorf("unmatched feedback = %q", rp.Scores[1].Feedback)
	}
	if rp.Scores[2].StandardName != "태도" || rp.Scores[2].ScoreValue != 25 {
		t.Errorf("scores[2] = %+v", rp.Scores[2])
	}
	if rp.TotalScore != 60 {
		t.Errorf("total = %d, want 60", rp.TotalScore)
	}
	if rp.OverallFeedback != "전반적으로 훌륭한 발표입니다." {
		t.Errorf("overall = %q", rp.OverallFeedback)
	}
}

func TestBuildFirstMatchWins(t *testing.T) {
	assessment := &analyzer.RawAssessment{
		Reviews: []analyzer.RawReview{
			{Name: "태도", Score: 10, Feedback: "first"},
			{Name: "발표 태도", Score: 28, Feedback: "second"},
		},
	}

	rp := Build(nil, []rubric.Criterion{{Name: "태도", MaxScore: 30}}, assessment)
	if rp.Scores[0].ScoreValue != 10 || rp.Scores[0].Feedback != "first" {
		t.Errorf("scores[0] = %+v, want first review in order", rp.Scores[0])
	}
}

func TestBuildCaseSensitive(t *testing.T) {
	assessment := &analyzer.RawAssessment{
		Reviews: []analyzer.RawReview{{Name: "clarity", Score: 20, Feedback: "lower"}},
	}

	rp := Build(nil, []rubric.Criterion{{Name: "Clarity", MaxScore: 40}}, assessment)
	if rp.Scores[0].ScoreValue != 0 {
		t.Errorf("matching must be case-sensitive, got %+v", rp.Scores[0])
	}
}

func TestBuildNoUpperClamp(t *testing.T) {
	assessment := &analyzer.RawAssessment{
		Reviews: []analyzer.RawReview{{Name: "태도", Score: 95, Feedback: "generous"}},
	}

	rp := Build(nil, []rubric.Criterion{{Name: "태도", MaxScore: 30}}, assessment)
	if rp.Scores[0].ScoreValue != 95 {
		t.Errorf("awarded score must pass through unclamped, got %d", rp.Scores[0].ScoreValue)
	}
	if rp.TotalScore != 95 {
		t.Errorf("total = %d", rp.TotalScore)
	}
}

func TestBuildNegativeScoreFloored(t *testing.T) {
	assessment := &analyzer.RawAssessment{
		Reviews: []analyzer.RawReview{{Name: "태도", Score: -5, Feedback: "odd"}},
	}

	rp := Build(nil, []rubric.Criterion{{Name: "태도", MaxScore: 30}}, assessment)
	if rp.Scores[0].ScoreValue != 0 {
		t.Errorf("negative score must floor at 0, got %d", rp.Scores[0].ScoreValue)
	}
}

func TestBuildEmptyAssessment(t *testing.T) {
	rp := Build(nil, criteria(t), nil)

	if rp.TotalScore != 0 {
		t.Errorf("total = %d, want 0", rp.TotalScore)
	}
	for i, sc := range rp.Scores {
		if sc.ScoreValue != 0 || sc.Feedback != NoAnalysisFeedback {
			t.Errorf("scores[%d] = %+v", i, sc)
		}
	}
	if rp.OverallFeedback != noOverallFeedback {
		t.Errorf("overall = %q", rp.OverallFeedback)
	}
}

func TestBuildAIFeedbackReplacesSummaryWhenNoReviews(t *testing.T) {
	assessment := &analyzer.RawAssessment{
		OverallSummary: "summary",
		AIFeedback:     "ai feedback",
	}

	rp := Build(nil, criteria(t), assessment)
	if rp.OverallFeedback != "ai feedback" {
		t.Errorf("overall = %q, want aiFeedback fallback", rp.OverallFeedback)
	}
}

func TestBuildAIFeedbackIgnoredWhenReviewsPresent(t *testing.T) {
	assessment := &analyzer.RawAssessment{
		OverallSummary: "summary",
		AIFeedback:     "ai feedback",
		Reviews:        []analyzer.RawReview{{Name: "태도", Score: 1}},
	}

	rp := Build(nil, criteria(t), assessment)
	if rp.OverallFeedback != "summary" {
		t.Errorf("overall = %q, want summary", rp.OverallFeedback)
	}
}

func TestBuildVideoSummaryAppended(t *testing.T) {
	assessment := &analyzer.RawAssessment{
		OverallSummary: "summary",
		VideoSummary:   "the speaker paced well",
	}

	rp := Build(nil, criteria(t), assessment)
	if !strings.HasPrefix(rp.OverallFeedback, "summary\n\n"+videoSummaryHeader) {
		t.Errorf("overall = %q", rp.OverallFeedback)
	}
	if !strings.HasSuffix(rp.OverallFeedback, "the speaker paced well") {
		t.Errorf("overall = %q", rp.OverallFeedback)
	}
}

func TestBuildMatchedFeedbackTakenVerbatim(t *testing.T) {
	assessment := &analyzer.RawAssessment{
		Reviews: []analyzer.RawReview{{Name: "태도", Score: 12, Feedback: ""}},
	}

	rp := Build(nil, []rubric.Criterion{{Name: "태도", MaxScore: 30}}, assessment)
	if rp.Scores[0].ScoreValue != 12 || rp.Scores[0].Feedback != "" {
		t.Errorf("scores[0] = %+v, want the match's empty feedback kept", rp.Scores[0])
	}
}
