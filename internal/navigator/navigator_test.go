package navigator

import (
	"testing"

	"edulearn-cli/internal/domain"
)

func sampleCourse() domain.Course {
	return domain.Course{
		ID: 1,
		Lessons: []domain.Lesson{
			{ID: 10, Title: "Intro", Resources: []domain.Resource{{ID: 100}}},
			{ID: 11, Title: "Deep dive", Quizzes: []domain.LessonQuizRef{{ID: 200}}},
		},
	}
}

func TestLessonsExpandIndependently(t *testing.T) {
	nav := New(sampleCourse())

	nav.ToggleLesson(10)
	nav.ToggleLesson(11)
	if !nav.IsExpanded(10) || !nav.IsExpanded(11) {
		t.Fatalf("both lessons should be expanded simultaneously")
	}

	nav.ToggleLesson(10)
	if nav.IsExpanded(10) {
		t.Fatalf("lesson 10 should collapse")
	}
	if !nav.IsExpanded(11) {
		t.Fatalf("lesson 11 must be unaffected by lesson 10's toggle")
	}
}

func TestPaneShowsExactlyOneItem(t *testing.T) {
	nav := New(sampleCourse())

	nav.SelectResource(100)
	if nav.Mode() != ModeResource {
		t.Fatalf("expected resource mode")
	}
	if _, ok := nav.ActiveQuiz(); ok {
		t.Fatalf("selecting a resource must clear any quiz")
	}

	nav.StartQuiz(200)
	if nav.Mode() != ModeQuizTaking {
		t.Fatalf("expected quiz-taking mode")
	}
	if _, ok := nav.ActiveResource(); ok {
		t.Fatalf("starting a quiz must clear the selected resource")
	}
	if id, ok := nav.ActiveQuiz(); !ok || id != 200 {
		t.Fatalf("expected active quiz 200, got %d ok=%v", id, ok)
	}

	nav.ShowQuizResult(200)
	if nav.Mode() != ModeQuizResult {
		t.Fatalf("expected quiz-result mode")
	}
	if _, ok := nav.ActiveQuiz(); !ok {
		t.Fatalf("result mode still refers to the quiz")
	}

	nav.ClearPane()
	if nav.Mode() != ModeNone {
		t.Fatalf("expected cleared pane")
	}
}
