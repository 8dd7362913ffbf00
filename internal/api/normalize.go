package api

import (
	"encoding/json"

	"edulearn-cli/internal/domain"
)

// wireAnswer accepts the legacy/alternate server shapes for a stored
// answer: the question id under `question` or `question_id`, and the
// selection as either a single `selected_option` id or a
// `selected_option_ids` list. normalizeAnswer is the only place this
// ambiguity is allowed to exist; everything past it sees domain.Answer.
type wireAnswer struct {
	Question          *int64          `json:"question"`
	QuestionID        *int64          `json:"question_id"`
	SelectedOption    json.RawMessage `json:"selected_option"`
	SelectedOptionIDs []int64         `json:"selected_option_ids"`
	PointsAwarded     float64         `json:"points_awarded"`
}

func normalizeAnswer(w wireAnswer) domain.Answer {
	answer := domain.Answer{PointsAwarded: w.PointsAwarded}

	switch {
	case w.QuestionID != nil:
		answer.QuestionID = *w.QuestionID
	case w.Question != nil:
		answer.QuestionID = *w.Question
	}

	if len(w.SelectedOptionIDs) > 0 {
		answer.SelectedOptionIDs = append(answer.SelectedOptionIDs, w.SelectedOptionIDs...)
		return answer
	}
	if len(w.SelectedOption) > 0 {
		// selected_option may itself be a single id or a list of ids.
		var single int64
		if err := json.Unmarshal(w.SelectedOption, &single); err == nil {
			answer.SelectedOptionIDs = []int64{single}
			return answer
		}
		var many []int64
		if err := json.Unmarshal(w.SelectedOption, &many); err == nil {
			answer.SelectedOptionIDs = many
		}
	}
	return answer
}

// wireSubmission mirrors domain.Submission but with tolerant answers.
type wireSubmission struct {
	ID         int64                   `json:"id"`
	QuizID     int64                   `json:"quiz_id"`
	Snapshot   domain.QuizSnapshot     `json:"quiz_snapshot"`
	Status     domain.SubmissionStatus `json:"status"`
	Answers    []wireAnswer            `json:"answers"`
	TotalScore float64                 `json:"total_score"`
}

func normalizeSubmission(w wireSubmission) domain.Submission {
	sub := domain.Submission{
		ID:         w.ID,
		QuizID:     w.QuizID,
		Snapshot:   w.Snapshot,
		Status:     w.Status,
		TotalScore: w.TotalScore,
	}
	sub.Answers = make([]domain.Answer, 0, len(w.Answers))
	for _, a := range w.Answers {
		sub.Answers = append(sub.Answers, normalizeAnswer(a))
	}
	return sub
}
