package rubric

import (
	"context"
	"errors"
	"testing"
)

func TestServiceCreateAndFetch(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	criteria := []Criterion{
		{Name: "Clarity", MaxScore: 60, Description: "clear delivery"},
		{Name: "Pacing", MaxScore: 40, Description: "steady pace"},
	}
	rb, err := svc.Create(ctx, "u-1", "t-1", "Team A", "Pitch", criteria)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rb.ID == "" || rb.TopicID != "t-1" {
		t.Errorf("rubric = %+v", rb)
	}

	got, err := svc.GetByTopic(ctx, "u-1", "t-1")
	if err != nil {
		t.Fatalf("GetByTopic: %v", err)
	}
	if got.ID != rb.ID || len(got.Criteria) != 2 {
		t.Errorf("fetched = %+v", got)
	}
}

func TestServiceCreateRejectsDuplicateTopic(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()
	criteria := []Criterion{{Name: "Clarity", MaxScore: 100}}

	if _, err := svc.Create(ctx, "u-1", "t-1", "", "", criteria); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "u-1", "t-1", "", "", criteria); !errors.Is(err, ErrExists) {
		t.Fatalf("err = %v, want ErrExists", err)
	}
}

func TestServiceCreateValidatesTotal(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	criteria := []Criterion{{Name: "Clarity", MaxScore: 90}}

	if _, err := svc.Create(context.Background(), "u-1", "t-1", "", "", criteria); err == nil {
		t.Fatal("expected validation error for 90-point rubric")
	}
}

func TestServiceUpdateCriteria(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u-1", "t-1", "", "", []Criterion{{Name: "Clarity", MaxScore: 100}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated := []Criterion{
		{Name: "Clarity", MaxScore: 50},
		{Name: "Pacing", MaxScore: 50},
	}
	if err := svc.UpdateCriteria(ctx, "u-1", "t-1", updated); err != nil {
		t.Fatalf("UpdateCriteria: %v", err)
	}

	got, err := svc.GetByTopic(ctx, "u-1", "t-1")
	if err != nil {
		t.Fatalf("GetByTopic: %v", err)
	}
	if len(got.Criteria) != 2 || got.Criteria[1].Name != "Pacing" {
		t.Errorf("criteria = %+v", got.Criteria)
	}

	if err := svc.UpdateCriteria(ctx, "u-1", "t-other", updated); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
