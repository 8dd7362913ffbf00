package api

import (
	"encoding/json"
	"testing"
)

func TestNormalizeAnswerAcceptsSingleID(t *testing.T) {
	var w wireAnswer
	if err := json.Unmarshal([]byte(`{"question":7,"selected_option":11,"points_awarded":2}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	answer := normalizeAnswer(w)
	if answer.QuestionID != 7 {
		t.Fatalf("expected question 7, got %d", answer.QuestionID)
	}
	if len(answer.SelectedOptionIDs) != 1 || answer.SelectedOptionIDs[0] != 11 {
		t.Fatalf("expected [11], got %v", answer.SelectedOptionIDs)
	}
	if answer.PointsAwarded != 2 {
		t.Fatalf("expected 2 points, got %v", answer.PointsAwarded)
	}
}

func TestNormalizeAnswerAcceptsIDList(t *testing.T) {
	var w wireAnswer
	if err := json.Unmarshal([]byte(`{"question_id":3,"selected_option_ids":[4,5]}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	answer := normalizeAnswer(w)
	if answer.QuestionID != 3 {
		t.Fatalf("expected question 3, got %d", answer.QuestionID)
	}
	if len(answer.SelectedOptionIDs) != 2 || answer.SelectedOptionIDs[0] != 4 || answer.SelectedOptionIDs[1] != 5 {
		t.Fatalf("expected [4 5], got %v", answer.SelectedOptionIDs)
	}
}

func TestNormalizeAnswerAcceptsListUnderLegacyKey(t *testing.T) {
	var w wireAnswer
	if err := json.Unmarshal([]byte(`{"question":9,"selected_option":[1,2,3]}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	answer := normalizeAnswer(w)
	if len(answer.SelectedOptionIDs) != 3 {
		t.Fatalf("expected 3 selections, got %v", answer.SelectedOptionIDs)
	}
}

func TestNormalizeSubmissionKeepsSnapshotAndScore(t *testing.T) {
	raw := `{
		"id": 12,
		"quiz_id": 5,
		"status": "submitted",
		"total_score": 7.5,
		"quiz_snapshot": {
			"title": "Basics",
			"time_limit_seconds": 600,
			"questions": [{"question_id":1,"content":"?","question_type":1,"points":10,"options":[]}]
		},
		"answers": [{"question":1,"selected_option":2,"points_awarded":7.5}]
	}`
	var w wireSubmission
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	sub := normalizeSubmission(w)
	if sub.ID != 12 || sub.QuizID != 5 || sub.TotalScore != 7.5 {
		t.Fatalf("unexpected submission: %+v", sub)
	}
	if sub.Snapshot.TimeLimitSeconds != 600 || len(sub.Snapshot.Questions) != 1 {
		t.Fatalf("snapshot lost: %+v", sub.Snapshot)
	}
	if len(sub.Answers) != 1 || sub.Answers[0].SelectedOptionIDs[0] != 2 {
		t.Fatalf("answers not normalized: %+v", sub.Answers)
	}
}
