package review

import (
	"testing"

	"edulearn-cli/internal/domain"
)

func multiQuestion() domain.Question {
	return domain.Question{
		ID:     1,
		Type:   domain.MultiChoice,
		Points: 10,
		Options: []domain.Option{
			{ID: 10, IsCorrect: true},
			{ID: 11, IsCorrect: true},
			{ID: 12, IsCorrect: false},
		},
	}
}

func TestIsCorrectRequiresExactSetEquality(t *testing.T) {
	q := multiQuestion()

	cases := []struct {
		name     string
		selected []int64
		want     bool
	}{
		{"exact match", []int64{10, 11}, true},
		{"order independent", []int64{11, 10}, true},
		{"partial subset", []int64{10}, false},
		{"superset", []int64{10, 11, 12}, false},
		{"wrong option", []int64{12}, false},
		{"nothing selected", nil, false},
	}
	for _, tc := range cases {
		if got := IsCorrect(q, tc.selected); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestPercentageRounding(t *testing.T) {
	if got := Percentage(7.5, 10); got != 75 {
		t.Fatalf("expected 75%%, got %d", got)
	}
	if got := Percentage(2, 3); got != 67 {
		t.Fatalf("expected 67%%, got %d", got)
	}
	if got := Percentage(5, 0); got != 0 {
		t.Fatalf("zero denominator must yield 0%%, got %d", got)
	}
}

func TestBuildReadsAwardedPointsFromAnswers(t *testing.T) {
	sub := domain.Submission{
		TotalScore: 7.5,
		Snapshot: domain.QuizSnapshot{
			Title: "Basics",
			Questions: []domain.Question{
				multiQuestion(),
				{
					ID:     2,
					Type:   domain.SingleChoice,
					Points: 5,
					Options: []domain.Option{
						{ID: 20, IsCorrect: false},
						{ID: 21, IsCorrect: true},
					},
				},
			},
		},
		Answers: []domain.Answer{
			{QuestionID: 1, SelectedOptionIDs: []int64{10, 11}, PointsAwarded: 5},
			{QuestionID: 2, SelectedOptionIDs: []int64{20}, PointsAwarded: 2.5},
		},
	}

	result := Build(sub)
	if result.MaxScore != 15 {
		t.Fatalf("expected max score 15, got %v", result.MaxScore)
	}
	if result.Percentage != 50 {
		t.Fatalf("expected 50%%, got %d", result.Percentage)
	}
	if !result.Questions[0].Correct {
		t.Fatalf("question 1 should be correct")
	}
	if result.Questions[1].Correct {
		t.Fatalf("question 2 should be incorrect")
	}
	// Awarded points come straight from the stored answer, even when the
	// client-side correctness disagrees with a nonzero award.
	if result.Questions[1].PointsAwarded != 2.5 {
		t.Fatalf("expected server-awarded 2.5, got %v", result.Questions[1].PointsAwarded)
	}
}
