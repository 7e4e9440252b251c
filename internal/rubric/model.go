package rubric

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// totalMaxScore is the required sum of criterion max scores, so a fully
// matched report lands on a 0-100 scale.
const totalMaxScore = 100

// Criterion is a single rubric line item authored before submission.
type Criterion struct {
	Name        string `json:"name"`
	MaxScore    int    `json:"maxScore"`
	Description string `json:"description"`
}

// NewCriterion validates and builds a criterion.
func NewCriterion(name string, maxScore int, description string) (Criterion, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Criterion{}, errors.New("criterion name is required")
	}
	if maxScore < 0 {
		return Criterion{}, fmt.Errorf("criterion %q: max score must be >= 0", name)
	}
	return Criterion{Name: name, MaxScore: maxScore, Description: description}, nil
}

// Rubric is the ordered list of scoring criteria for a topic. The order is
// authoritative: reports preserve it.
type Rubric struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	TopicID   string      `json:"topicId"`
	TeamInfo  string      `json:"teamInfo"`
	TopicName string      `json:"topicName"`
	Criteria  []Criterion `json:"criteria"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ValidateCriteria checks every criterion and the 100-point total.
func ValidateCriteria(criteria []Criterion) error {
	if len(criteria) == 0 {
		return errors.New("at least one criterion is required")
	}
	sum := 0
	for i, c := range criteria {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("criterion %d: name is required", i)
		}
		if c.MaxScore < 0 {
			return fmt.Errorf("criterion %q: max score must be >= 0", c.Name)
		}
		sum += c.MaxScore
	}
	if sum != totalMaxScore {
		return fmt.Errorf("criterion max scores must sum to %d, got %d", totalMaxScore, sum)
	}
	return nil
}
