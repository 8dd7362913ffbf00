package adminforms

import (
	"bytes"
	"testing"

	"edulearn-cli/internal/domain"
)

func TestSlugRegeneratesInCreateMode(t *testing.T) {
	form := NewCourseForm()

	form.SetTitle("Álgebra Linear: Introdução")
	if form.Slug != "algebra-linear-introducao" {
		t.Fatalf("expected diacritic-stripped slug, got %q", form.Slug)
	}

	// A manual slug edit is overwritten by the next title change while in
	// create mode; observed behavior, preserved on purpose.
	form.SetSlug("my-custom-slug")
	form.SetTitle("Linear Algebra")
	if form.Slug != "linear-algebra" {
		t.Fatalf("create-mode title change must regenerate slug, got %q", form.Slug)
	}
}

func TestSlugUntouchedInEditMode(t *testing.T) {
	form := EditCourseForm(3, "Old Title", "old-title", "")
	form.SetTitle("Brand New Title")
	if form.Slug != "old-title" {
		t.Fatalf("edit mode must not regenerate slug, got %q", form.Slug)
	}
}

func TestCourseFormValidation(t *testing.T) {
	form := NewCourseForm()
	errs := form.Validate()
	if errs["title"] == "" || errs["slug"] == "" {
		t.Fatalf("expected required errors for title and slug, got %v", errs)
	}

	form.SetTitle("Go Basics")
	if errs := form.Validate(); errs != nil {
		t.Fatalf("expected valid form, got %v", errs)
	}
}

func TestBannerGate(t *testing.T) {
	if _, err := CheckBanner("notes.pdf", "application/pdf", []byte{1}); err == nil {
		t.Fatalf("non-image MIME must be rejected")
	}

	huge := bytes.Repeat([]byte{0xFF}, MaxBannerBytes+1)
	if _, err := CheckBanner("big.png", "image/png", huge); err == nil {
		t.Fatalf("oversized banner must be rejected")
	}

	banner, err := CheckBanner("ok.png", "image/png", []byte{0xFF, 0xD8})
	if err != nil || banner.Name != "ok.png" {
		t.Fatalf("valid banner rejected: %v", err)
	}
}

func TestQuizFormValidation(t *testing.T) {
	form := NewQuizForm()
	form.Title = "Quiz"
	form.TimeLimitSeconds = -1
	form.Questions = []domain.Question{
		{
			ID:      1,
			Content: "",
			Type:    domain.SingleChoice,
			Points:  -2,
			Options: []domain.Option{{ID: 1, IsCorrect: false}},
		},
	}

	errs := form.Validate()
	if errs["timelimitseconds"] == "" {
		t.Fatalf("expected non-negative time limit error, got %v", errs)
	}
	if errs["questions[0].content"] == "" || errs["questions[0].points"] == "" {
		t.Fatalf("expected question structure errors, got %v", errs)
	}
	if errs["questions[0].options"] == "" {
		t.Fatalf("expected option errors, got %v", errs)
	}

	form.TimeLimitSeconds = 600
	form.Questions = []domain.Question{
		{
			ID:      1,
			Content: "Pick one",
			Type:    domain.SingleChoice,
			Points:  5,
			Options: []domain.Option{
				{ID: 1, IsCorrect: true},
				{ID: 2, IsCorrect: false},
			},
		},
	}
	if errs := form.Validate(); errs != nil {
		t.Fatalf("expected valid quiz form, got %v", errs)
	}
}

func TestQuizFormRejectsMultipleCorrectOnSingleChoice(t *testing.T) {
	form := NewQuizForm()
	form.Title = "Quiz"
	form.Questions = []domain.Question{
		{
			ID:      1,
			Content: "Pick one",
			Type:    domain.SingleChoice,
			Points:  1,
			Options: []domain.Option{
				{ID: 1, IsCorrect: true},
				{ID: 2, IsCorrect: true},
			},
		},
	}
	errs := form.Validate()
	if errs["questions[0].options"] == "" {
		t.Fatalf("expected single-choice correctness error, got %v", errs)
	}
}
