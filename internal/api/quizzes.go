package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"edulearn-cli/internal/domain"
)

func (c *Client) ListQuizzes(ctx context.Context, page, pageSize int) ([]domain.Quiz, int, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/quizzes/"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var payload paged[domain.Quiz]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, 0, err
	}
	return payload.Results, payload.Count, nil
}

func (c *Client) GetQuiz(ctx context.Context, id int64) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := c.doJSON(ctx, http.MethodGet, quizPath(id), nil, &quiz)
	if isNotFound(err) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, quizPath(id), nil, nil)
}

// QuizUpload is a create/update payload prepared by the admin quiz form.
type QuizUpload struct {
	Quiz domain.Quiz
}

func (c *Client) CreateQuiz(ctx context.Context, upload QuizUpload) (domain.Quiz, error) {
	var created domain.Quiz
	if err := c.doJSON(ctx, http.MethodPost, "/api/quizzes/", upload.Quiz, &created); err != nil {
		return domain.Quiz{}, err
	}
	return created, nil
}

func (c *Client) UpdateQuiz(ctx context.Context, upload QuizUpload) (domain.Quiz, error) {
	var updated domain.Quiz
	if err := c.doJSON(ctx, http.MethodPut, quizPath(upload.Quiz.ID), upload.Quiz, &updated); err != nil {
		return domain.Quiz{}, err
	}
	return updated, nil
}

// StartSubmission asks the server for a new in-progress submission. The
// server enforces at most one in-progress submission per (quiz, user); if
// one already exists it is returned instead of a fresh one.
func (c *Client) StartSubmission(ctx context.Context, quizID int64, lessonID int64) (domain.Submission, error) {
	body := map[string]int64{"quiz_id": quizID}
	if lessonID > 0 {
		body["lesson_id"] = lessonID
	}
	var w wireSubmission
	if err := c.doJSON(ctx, http.MethodPost, "/api/quizzes/submissions/start/", body, &w); err != nil {
		return domain.Submission{}, err
	}
	return normalizeSubmission(w), nil
}

// SaveAnswer persists the current selection for one question. The server's
// stored answer is returned so the caller can reconcile.
func (c *Client) SaveAnswer(ctx context.Context, submissionID, questionID int64, selectedOptionIDs []int64) (domain.Answer, error) {
	body := map[string]any{
		"question_id":         questionID,
		"selected_option_ids": selectedOptionIDs,
	}
	path := fmt.Sprintf("/api/quizzes/submissions/%d/answer/", submissionID)
	var w wireAnswer
	if err := c.doJSON(ctx, http.MethodPost, path, body, &w); err != nil {
		return domain.Answer{}, err
	}
	return normalizeAnswer(w), nil
}

// SubmitSubmission finalizes a submission. The response carries the graded
// submission with its snapshot, per-answer awarded points, and total score.
func (c *Client) SubmitSubmission(ctx context.Context, submissionID int64) (domain.Submission, error) {
	path := fmt.Sprintf("/api/quizzes/submissions/%d/submit/", submissionID)
	var w wireSubmission
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &w); err != nil {
		return domain.Submission{}, err
	}
	return normalizeSubmission(w), nil
}

func (c *Client) GetSubmission(ctx context.Context, submissionID int64) (domain.Submission, error) {
	path := fmt.Sprintf("/api/quizzes/submissions/%d/", submissionID)
	var w wireSubmission
	err := c.doJSON(ctx, http.MethodGet, path, nil, &w)
	if isNotFound(err) {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return domain.Submission{}, err
	}
	return normalizeSubmission(w), nil
}

// ListSubmissions filters the caller's submissions. Zero values leave a
// filter unset.
func (c *Client) ListSubmissions(ctx context.Context, quizID int64, status domain.SubmissionStatus, page, pageSize int) ([]domain.Submission, int, error) {
	query := url.Values{}
	if quizID > 0 {
		query.Set("quiz_id", strconv.FormatInt(quizID, 10))
	}
	if status != "" {
		query.Set("status", string(status))
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/quizzes/submissions/"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var payload paged[wireSubmission]
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, 0, err
	}
	subs := make([]domain.Submission, 0, len(payload.Results))
	for _, w := range payload.Results {
		subs = append(subs, normalizeSubmission(w))
	}
	return subs, payload.Count, nil
}

func quizPath(id int64) string {
	return fmt.Sprintf("/api/quizzes/%d/", id)
}

func isNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
