// Package navigator holds the selection state for a course's content
// tree: which lessons are expanded and which single item the display pane
// is showing.
package navigator

import "edulearn-cli/internal/domain"

// Mode says what the display pane is showing. Exactly one of resource,
// quiz-taking, or quiz-result is active at a time.
type Mode int

const (
	ModeNone Mode = iota
	ModeResource
	ModeQuizTaking
	ModeQuizResult
)

// Navigator tracks expand/collapse and the active display item for one
// course. It is plain state, driven by the UI event loop; no locking.
type Navigator struct {
	course   domain.Course
	expanded map[int64]bool

	mode       Mode
	resourceID int64
	quizID     int64
}

func New(course domain.Course) *Navigator {
	return &Navigator{
		course:   course,
		expanded: make(map[int64]bool),
	}
}

func (n *Navigator) Course() domain.Course { return n.course }

// ToggleLesson flips one lesson's expansion independently of the others;
// any number may be expanded at once.
func (n *Navigator) ToggleLesson(lessonID int64) {
	n.expanded[lessonID] = !n.expanded[lessonID]
}

func (n *Navigator) IsExpanded(lessonID int64) bool {
	return n.expanded[lessonID]
}

// SelectResource shows a resource, clearing any active quiz view.
func (n *Navigator) SelectResource(resourceID int64) {
	n.mode = ModeResource
	n.resourceID = resourceID
	n.quizID = 0
}

// StartQuiz switches to quiz-taking, clearing any selected resource.
func (n *Navigator) StartQuiz(quizID int64) {
	n.mode = ModeQuizTaking
	n.quizID = quizID
	n.resourceID = 0
}

// ShowQuizResult switches the pane from taking to the result view.
func (n *Navigator) ShowQuizResult(quizID int64) {
	n.mode = ModeQuizResult
	n.quizID = quizID
	n.resourceID = 0
}

// ClearPane resets the display pane without touching expansion state.
func (n *Navigator) ClearPane() {
	n.mode = ModeNone
	n.resourceID = 0
	n.quizID = 0
}

func (n *Navigator) Mode() Mode { return n.mode }

// ActiveResource returns the selected resource id when in resource mode.
func (n *Navigator) ActiveResource() (int64, bool) {
	if n.mode != ModeResource {
		return 0, false
	}
	return n.resourceID, true
}

// ActiveQuiz returns the quiz id when taking a quiz or viewing a result.
func (n *Navigator) ActiveQuiz() (int64, bool) {
	if n.mode != ModeQuizTaking && n.mode != ModeQuizResult {
		return 0, false
	}
	return n.quizID, true
}

// Lesson returns a lesson from the course tree by id.
func (n *Navigator) Lesson(lessonID int64) (domain.Lesson, bool) {
	for _, lesson := range n.course.Lessons {
		if lesson.ID == lessonID {
			return lesson, true
		}
	}
	return domain.Lesson{}, false
}
