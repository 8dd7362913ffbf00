// Package quiztake drives one user's attempt at a quiz: acquiring or
// resuming the server-side submission, tracking per-question answers with
// optimistic saves, counting down a persisted timer, and finalizing the
// submission manually or on expiry.
package quiztake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"edulearn-cli/internal/domain"
	"edulearn-cli/internal/notify"
)

// State enumerates the controller's lifecycle.
type State int

const (
	StateLoading State = iota
	StateStarting
	StateResuming
	StateActive
	StateSubmitting
	StateCompleted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateStarting:
		return "starting"
	case StateResuming:
		return "resuming"
	case StateActive:
		return "active"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Warning thresholds, in remaining seconds. Each fires exactly once, on
// threshold equality, so a resume below the threshold stays silent.
const (
	warnFiveMinutes = 300
	warnOneMinute   = 60
)

// SubmissionAPI is the slice of the backend API the controller needs.
type SubmissionAPI interface {
	ListSubmissions(ctx context.Context, quizID int64, status domain.SubmissionStatus, page, pageSize int) ([]domain.Submission, int, error)
	GetSubmission(ctx context.Context, submissionID int64) (domain.Submission, error)
	StartSubmission(ctx context.Context, quizID, lessonID int64) (domain.Submission, error)
	SaveAnswer(ctx context.Context, submissionID, questionID int64, selectedOptionIDs []int64) (domain.Answer, error)
	SubmitSubmission(ctx context.Context, submissionID int64) (domain.Submission, error)
}

// Snapshot is one observable frame of the session, published to
// subscribers on every transition and tick.
type Snapshot struct {
	State            State
	SubmissionID     int64
	RemainingSeconds int
	Timed            bool
	AnsweredCount    int
	TotalQuestions   int
}

// Controller is the quiz session state machine. All methods are safe for
// use from the UI goroutine plus the tick loop.
type Controller struct {
	api      SubmissionAPI
	timers   *TimerStore
	notifier notify.Notifier

	mu             sync.Mutex
	state          State
	quiz           domain.Quiz
	lessonID       int64
	submission     domain.Submission
	answers        map[int64][]int64
	remaining      int
	timed          bool
	warnedFiveMin  bool
	warnedOneMin   bool
	autoSubmit     bool
	submitInFlight bool
	result         *domain.Submission
	subscribers    map[chan Snapshot]struct{}
}

func New(api SubmissionAPI, timers *TimerStore, notifier notify.Notifier) *Controller {
	return &Controller{
		api:         api,
		timers:      timers,
		notifier:    notifier,
		state:       StateLoading,
		answers:     make(map[int64][]int64),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// Begin acquires or resumes the submission for quiz. Network failure here
// is fatal for the attempt: the error is returned and the session stays
// unusable. After Begin, State is Active, or Submitting when a resumed
// timer had already expired (the caller should invoke Submit).
func (c *Controller) Begin(ctx context.Context, quiz domain.Quiz, lessonID int64) error {
	c.mu.Lock()
	if c.state != StateLoading {
		c.mu.Unlock()
		return fmt.Errorf("session already started (state %s)", c.state)
	}
	c.quiz = quiz
	c.lessonID = lessonID
	c.mu.Unlock()

	inProgress, _, err := c.api.ListSubmissions(ctx, quiz.ID, domain.SubmissionInProgress, 1, 1)
	if err != nil {
		return fmt.Errorf("look up in-progress submission: %w", err)
	}

	var sub domain.Submission
	resumed := len(inProgress) > 0
	if resumed {
		c.setState(StateResuming)
		sub, err = c.api.GetSubmission(ctx, inProgress[0].ID)
		if err != nil {
			return fmt.Errorf("resume submission: %w", err)
		}
	} else {
		c.setState(StateStarting)
		sub, err = c.api.StartSubmission(ctx, quiz.ID, lessonID)
		if err != nil {
			return fmt.Errorf("start submission: %w", err)
		}
	}

	c.mu.Lock()
	c.submission = sub
	c.answers = make(map[int64][]int64)
	for _, answer := range sub.Answers {
		if len(answer.SelectedOptionIDs) > 0 {
			c.answers[answer.QuestionID] = append([]int64(nil), answer.SelectedOptionIDs...)
		}
	}

	limit := sub.Snapshot.TimeLimitSeconds
	if limit == 0 {
		limit = quiz.TimeLimitSeconds
	}
	c.timed = limit > 0

	expired := false
	if c.timed {
		if stored, ok, _ := c.timers.Remaining(ctx, sub.ID); resumed && ok {
			c.remaining = stored
			if stored <= 0 {
				expired = true
			}
		} else {
			c.remaining = limit
			if err := c.timers.Save(ctx, sub.ID, limit); err != nil {
				c.mu.Unlock()
				return fmt.Errorf("persist timer: %w", err)
			}
		}
	}

	if expired {
		c.state = StateSubmitting
		c.autoSubmit = true
	} else {
		c.state = StateActive
	}
	c.broadcastLocked()
	c.mu.Unlock()
	return nil
}

// Run ticks the countdown once per second until the session stops being
// tickable: submission begins, time expires, or the session closes. It
// performs the auto-submit when the timer runs out.
func (c *Controller) Run(ctx context.Context) {
	c.mu.Lock()
	pendingAuto := c.state == StateSubmitting && c.autoSubmit
	timed := c.timed
	c.mu.Unlock()

	if pendingAuto {
		if _, err := c.Submit(ctx); err != nil {
			c.notifier.Error("automatic submission failed: " + err.Error())
		}
		return
	}
	if !timed {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, cont := c.Tick(ctx)
			if expired {
				if _, err := c.Submit(ctx); err != nil {
					c.notifier.Error("automatic submission failed: " + err.Error())
				}
			}
			if !cont {
				return
			}
		}
	}
}

// Tick advances the countdown by one second, persists the new value, and
// fires threshold warnings. It reports whether the timer just expired and
// whether ticking should continue. Ticks are skipped while a submit is in
// flight and stop entirely once a submit begins or the session ends.
func (c *Controller) Tick(ctx context.Context) (expired, cont bool) {
	c.mu.Lock()

	if c.state != StateActive || !c.timed {
		c.mu.Unlock()
		return false, false
	}
	if c.submitInFlight {
		c.mu.Unlock()
		return false, true
	}

	c.remaining--
	if c.remaining < 0 {
		c.remaining = 0
	}
	remaining := c.remaining
	submissionID := c.submission.ID

	if remaining == warnFiveMinutes && !c.warnedFiveMin {
		c.warnedFiveMin = true
		c.mu.Unlock()
		c.notifier.Warning("5 minutes left")
		c.mu.Lock()
	}
	if remaining == warnOneMinute && !c.warnedOneMin {
		c.warnedOneMin = true
		c.mu.Unlock()
		c.notifier.Warning("1 minute left")
		c.mu.Lock()
	}

	if remaining <= 0 {
		c.state = StateSubmitting
		c.autoSubmit = true
		c.broadcastLocked()
		c.mu.Unlock()
		_ = c.timers.Save(ctx, submissionID, 0)
		return true, false
	}

	c.broadcastLocked()
	c.mu.Unlock()

	if err := c.timers.Save(ctx, submissionID, remaining); err != nil {
		// A failed persist only costs reload fidelity; the in-memory
		// countdown keeps going.
		c.notifier.Warning("could not persist timer: " + err.Error())
	}
	return false, true
}

// SelectOption records a selection for a question: single-choice replaces
// the prior selection, multi-choice toggles membership. The local answer
// map updates optimistically, then the save goes to the server; on failure
// the map rolls back to the last known-good state and the user re-selects.
func (c *Controller) SelectOption(ctx context.Context, questionID, optionID int64) error {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	question, ok := c.submission.Snapshot.Question(questionID)
	if !ok {
		c.mu.Unlock()
		return domain.ErrQuestionNotFound
	}

	previous := append([]int64(nil), c.answers[questionID]...)

	var next []int64
	if question.Type == domain.MultiChoice {
		next = toggle(previous, optionID)
	} else {
		next = []int64{optionID}
	}
	c.answers[questionID] = next
	submissionID := c.submission.ID
	c.broadcastLocked()
	c.mu.Unlock()

	if _, err := c.api.SaveAnswer(ctx, submissionID, questionID, next); err != nil {
		c.mu.Lock()
		// Roll back only if the session is still live; a late failure
		// against a torn-down session must not resurrect state.
		if c.state == StateActive {
			if len(previous) == 0 {
				delete(c.answers, questionID)
			} else {
				c.answers[questionID] = previous
			}
			c.broadcastLocked()
		}
		c.mu.Unlock()
		c.notifier.Error("saving answer failed; please re-select")
		return err
	}
	return nil
}

// Answer returns the current local selection for a question.
func (c *Controller) Answer(questionID int64) []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.answers[questionID]...)
}

// UnansweredCount counts snapshot questions with no (or empty) selection.
func (c *Controller) UnansweredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unansweredLocked()
}

func (c *Controller) unansweredLocked() int {
	count := 0
	for _, q := range c.submission.Snapshot.Questions {
		if len(c.answers[q.ID]) == 0 {
			count++
		}
	}
	return count
}

// Submit finalizes the submission. Manual submits with unanswered
// questions ask for confirmation first; declining returns to Active with
// no server call. Auto-submits (timer expiry, expired resume) never
// confirm. Only one submit may be in flight; re-entrant calls are
// rejected. On failure the session stays Active and may retry; every
// answer is already durable server-side, so nothing is corrupted.
func (c *Controller) Submit(ctx context.Context) (domain.Submission, error) {
	c.mu.Lock()
	if c.submitInFlight {
		c.mu.Unlock()
		return domain.Submission{}, domain.ErrSubmitInFlight
	}
	switch c.state {
	case StateActive:
	case StateSubmitting:
		if !c.autoSubmit {
			c.mu.Unlock()
			return domain.Submission{}, domain.ErrSubmitInFlight
		}
	case StateCompleted:
		c.mu.Unlock()
		return domain.Submission{}, domain.ErrAlreadySubmitted
	default:
		c.mu.Unlock()
		return domain.Submission{}, domain.ErrSessionClosed
	}

	auto := c.autoSubmit
	if !auto {
		unanswered := c.unansweredLocked()
		if unanswered > 0 {
			c.mu.Unlock()
			message := fmt.Sprintf("%d question(s) unanswered. Submit anyway?", unanswered)
			if !c.notifier.Confirm(message) {
				return domain.Submission{}, nil
			}
			c.mu.Lock()
			if c.state != StateActive || c.submitInFlight {
				c.mu.Unlock()
				return domain.Submission{}, domain.ErrSubmitInFlight
			}
		}
	}

	c.submitInFlight = true
	c.state = StateSubmitting
	submissionID := c.submission.ID
	c.broadcastLocked()
	c.mu.Unlock()

	result, err := c.api.SubmitSubmission(ctx, submissionID)
	c.mu.Lock()
	c.submitInFlight = false
	if err != nil {
		if c.state == StateSubmitting && !c.autoSubmit {
			c.state = StateActive
		} else if c.state == StateSubmitting && c.autoSubmit {
			// Keep the auto flag so a retry still skips confirmation.
			c.state = StateActive
		}
		c.broadcastLocked()
		c.mu.Unlock()
		c.notifier.Error("submission failed; you can retry")
		return domain.Submission{}, err
	}

	c.state = StateCompleted
	c.result = &result
	c.broadcastLocked()
	c.mu.Unlock()

	if err := c.timers.Clear(ctx, submissionID); err != nil {
		c.notifier.Warning("could not clear timer entry: " + err.Error())
	}
	return result, nil
}

// Result returns the finalized submission once completed.
func (c *Controller) Result() (domain.Submission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return domain.Submission{}, false
	}
	return *c.result, true
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Remaining returns the countdown value and whether the quiz is timed.
func (c *Controller) Remaining() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining, c.timed
}

// Submission returns the underlying submission as last seen.
func (c *Controller) Submission() domain.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submission
}

// Close tears the session down (back-navigation). There is no server-side
// cancellation; the submission stays in progress for a later resume.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateCompleted || c.state == StateClosed {
		c.state = StateClosed
		return
	}
	c.state = StateClosed
	c.broadcastLocked()
}

// Subscribe returns a channel of session snapshots. The caller must invoke
// the cancel function to avoid leaks. Slow consumers lose intermediate
// frames rather than blocking the session.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	ch <- c.snapshotLocked()
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.broadcastLocked()
	c.mu.Unlock()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:            c.state,
		SubmissionID:     c.submission.ID,
		RemainingSeconds: c.remaining,
		Timed:            c.timed,
		AnsweredCount:    len(c.submission.Snapshot.Questions) - c.unansweredLocked(),
		TotalQuestions:   len(c.submission.Snapshot.Questions),
	}
}

func (c *Controller) broadcastLocked() {
	snap := c.snapshotLocked()
	for ch := range c.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// toggle flips membership of id in set, preserving order of the rest.
func toggle(set []int64, id int64) []int64 {
	for i, existing := range set {
		if existing == id {
			return append(append([]int64(nil), set[:i]...), set[i+1:]...)
		}
	}
	return append(append([]int64(nil), set...), id)
}
