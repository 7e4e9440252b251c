package reports

import "time"

// StatusCompleted is the only status a persisted report carries today.
const StatusCompleted = "completed"

// ScoredCriterion is one rubric line of a finished report: the rubric's
// name and ceiling, plus the awarded score and feedback.
type ScoredCriterion struct {
	StandardName  string `json:"standardName"`
	StandardScore int    `json:"standardScore"`
	ScoreValue    int    `json:"scoreValue"`
	Feedback      string `json:"feedback"`
}

// Report is a persisted grading report.
type Report struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	TopicID         string            `json:"topicId"`
	TeamInfo        string            `json:"teamInfo"`
	TopicName       string            `json:"topicName"`
	OverallFeedback string            `json:"overallFeedback"`
	Scores          []ScoredCriterion `json:"scores"`
	TotalScore      int               `json:"totalScore"`
	Status          string            `json:"status"`
	GradeAt         time.Time         `json:"gradeAt"`
}
