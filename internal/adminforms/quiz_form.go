package adminforms

import (
	"strconv"

	"edulearn-cli/internal/domain"
)

// QuizForm is the admin quiz editor's state. Question structure rules go
// beyond tag validation, so they are checked explicitly.
type QuizForm struct {
	mode Mode

	ID               int64
	Title            string `validate:"required"`
	Description      string
	TimeLimitSeconds int `validate:"gte=0"`
	Questions        []domain.Question
}

func NewQuizForm() *QuizForm {
	return &QuizForm{mode: ModeCreate}
}

func EditQuizForm(quiz domain.Quiz) *QuizForm {
	return &QuizForm{
		mode:             ModeEdit,
		ID:               quiz.ID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		TimeLimitSeconds: quiz.TimeLimitSeconds,
		Questions:        quiz.Questions,
	}
}

// Validate returns field errors; empty means the form may submit.
func (f *QuizForm) Validate() map[string]string {
	errs := fieldErrors(validate.Struct(f))
	if errs == nil {
		errs = map[string]string{}
	}

	for i, q := range f.Questions {
		prefix := "questions[" + strconv.Itoa(i) + "]"
		if q.Content == "" {
			errs[prefix+".content"] = "this field is required"
		}
		if q.Points < 0 {
			errs[prefix+".points"] = "must not be negative"
		}
		if len(q.Options) < 2 {
			errs[prefix+".options"] = "at least two options required"
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct == 0 {
			errs[prefix+".options"] = "at least one option must be correct"
		}
		if q.Type == domain.SingleChoice && correct > 1 {
			errs[prefix+".options"] = "single-choice questions allow one correct option"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Quiz assembles the submission payload.
func (f *QuizForm) Quiz() domain.Quiz {
	return domain.Quiz{
		ID:               f.ID,
		Title:            f.Title,
		Description:      f.Description,
		TimeLimitSeconds: f.TimeLimitSeconds,
		Questions:        f.Questions,
	}
}
