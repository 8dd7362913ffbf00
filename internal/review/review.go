// Package review computes the display model for a completed submission.
// Scores are server-authoritative: awarded points are read from the stored
// answers, never recomputed. The only client-side computation is the
// boolean correctness used for display coloring and the aggregate
// percentage.
package review

import (
	"math"

	"edulearn-cli/internal/domain"
)

// QuestionResult is one graded question as shown in the review view.
type QuestionResult struct {
	Question      domain.Question
	SelectedIDs   []int64
	Correct       bool
	PointsAwarded float64
}

// Result is the full review model for a submission.
type Result struct {
	Title      string
	Questions  []QuestionResult
	TotalScore float64
	MaxScore   float64
	Percentage int
}

// Build grades a submission against its embedded snapshot.
func Build(sub domain.Submission) Result {
	answers := make(map[int64]domain.Answer, len(sub.Answers))
	for _, a := range sub.Answers {
		answers[a.QuestionID] = a
	}

	result := Result{
		Title:      sub.Snapshot.Title,
		TotalScore: sub.TotalScore,
		MaxScore:   sub.Snapshot.TotalPoints(),
	}
	for _, q := range sub.Snapshot.Questions {
		answer := answers[q.ID]
		result.Questions = append(result.Questions, QuestionResult{
			Question:      q,
			SelectedIDs:   answer.SelectedOptionIDs,
			Correct:       IsCorrect(q, answer.SelectedOptionIDs),
			PointsAwarded: answer.PointsAwarded,
		})
	}
	result.Percentage = Percentage(sub.TotalScore, result.MaxScore)
	return result
}

// IsCorrect reports whether the selected set exactly equals the set of
// options flagged correct in the snapshot. Order-independent and
// size-sensitive: a partial subset is incorrect.
func IsCorrect(q domain.Question, selected []int64) bool {
	correct := make(map[int64]struct{})
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct[opt.ID] = struct{}{}
		}
	}
	if len(selected) != len(correct) {
		return false
	}
	for _, id := range selected {
		if _, ok := correct[id]; !ok {
			return false
		}
	}
	return len(correct) > 0
}

// Percentage is round(100 * total / possible), 0 when possible is zero.
func Percentage(total, possible float64) int {
	if possible <= 0 {
		return 0
	}
	return int(math.Round(100 * total / possible))
}
