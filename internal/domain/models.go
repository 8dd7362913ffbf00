package domain

import "time"

// Role is a named bundle of capabilities a user may hold.
// Roles are compared by Name only.
type Role struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// User is the current actor's profile as returned by the backend.
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email,omitempty"`
	Roles       []Role   `json:"roles"`
	Permissions []string `json:"permissions"`
}

// QuestionType distinguishes how answers to a question are collected.
type QuestionType int

const (
	// SingleChoice questions hold exactly one selected option.
	SingleChoice QuestionType = 1
	// MultiChoice questions hold a set of selected options.
	MultiChoice QuestionType = 2
)

// Option is a possible answer for a question. IsCorrect is only populated
// in result payloads, never while a submission is in progress.
type Option struct {
	ID        int64  `json:"option_id"`
	Text      string `json:"option_text"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

// Question models one quiz question. The same shape serves both the live
// authoring view and the frozen snapshot embedded in a submission.
type Question struct {
	ID      int64        `json:"question_id"`
	Content string       `json:"content"`
	Type    QuestionType `json:"question_type"`
	Points  float64      `json:"points"`
	Options []Option     `json:"options"`
}

// Quiz is the live, editable quiz definition.
type Quiz struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	Questions        []Question `json:"questions"`
}

// QuizSnapshot is a frozen copy of quiz content captured when a submission
// starts. It never changes afterwards, even if the live quiz is edited, so
// grading always happens against what the user actually saw.
type QuizSnapshot struct {
	Title            string     `json:"title"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	Questions        []Question `json:"questions"`
}

// TotalPoints sums the points over all snapshot questions.
func (s QuizSnapshot) TotalPoints() float64 {
	var total float64
	for _, q := range s.Questions {
		total += q.Points
	}
	return total
}

// Question looks up a snapshot question by id.
func (s QuizSnapshot) Question(id int64) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// SubmissionStatus enumerates submission states.
type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionSubmitted  SubmissionStatus = "submitted"
)

// Answer is one user's stored answer to one question. SelectedOptionIDs is
// the canonical form; legacy single-id payloads are normalized into it at
// the service boundary.
type Answer struct {
	QuestionID        int64   `json:"question_id"`
	SelectedOptionIDs []int64 `json:"selected_option_ids"`
	PointsAwarded     float64 `json:"points_awarded"`
}

// Submission is one attempt instance at a quiz.
type Submission struct {
	ID         int64            `json:"id"`
	QuizID     int64            `json:"quiz_id"`
	Snapshot   QuizSnapshot     `json:"quiz_snapshot"`
	Status     SubmissionStatus `json:"status"`
	Answers    []Answer         `json:"answers"`
	TotalScore float64          `json:"total_score"`
	StartedAt  time.Time        `json:"started_at,omitempty"`
}

// Resource is a non-quiz lesson item (document, video, link).
type Resource struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind,omitempty"`
	URL   string `json:"url,omitempty"`
}

// LessonQuizRef is a lightweight pointer to a quiz attached to a lesson.
type LessonQuizRef struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	TimeLimitSeconds int    `json:"time_limit_seconds"`
}

// Lesson is one node of a course's content tree.
type Lesson struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Position  int             `json:"position"`
	Resources []Resource      `json:"resources"`
	Quizzes   []LessonQuizRef `json:"quizzes"`
}

// Course groups lessons under a title/slug.
type Course struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	BannerURL   string   `json:"banner_url,omitempty"`
	Lessons     []Lesson `json:"lessons"`
}

// Contest is a scored competition over one or more quizzes.
type Contest struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// LeaderboardEntry is one row of a contest scoreboard.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      int64   `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

// Leaderboard is the ordered scoreboard for a contest.
type Leaderboard struct {
	ContestID int64              `json:"contest_id"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Language and Tag are read-mostly catalog entities used for filtering.
type Language struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Credentials is a username/password pair for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthTokens is the access/refresh token pair issued on login.
type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
