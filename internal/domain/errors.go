package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates an answered question ID is not part of the snapshot.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSubmissionNotFound indicates no submission exists for the given id.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrAlreadySubmitted is returned when acting on a finalized submission.
	ErrAlreadySubmitted = errors.New("submission already submitted")
	// ErrSubmitInFlight rejects re-entrant submit calls while one is pending.
	ErrSubmitInFlight = errors.New("submit already in flight")
	// ErrSessionClosed is returned when acting on a torn-down quiz session.
	ErrSessionClosed = errors.New("quiz session closed")
	// ErrNotAuthenticated indicates no user is present in the session store.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrLeaderboardTimeout indicates the leaderboard fetch exceeded its wait ceiling.
	ErrLeaderboardTimeout = errors.New("leaderboard request timed out")
)
