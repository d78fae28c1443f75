package domain

import "time"

// AccessStatus extends LessonStatus with the visibility gate failure.
type AccessStatus string

const (
	AccessReleased       AccessStatus = "released"
	AccessLocked         AccessStatus = "locked"
	AccessExpired        AccessStatus = "expired"
	AccessBlockedPrivate AccessStatus = "blocked_private"
)

// Message returns the fixed learner-facing text for the status.
func (s AccessStatus) Message() string {
	switch s {
	case AccessReleased:
		return "Lesson is available"
	case AccessLocked:
		return "Lesson is not released yet"
	case AccessExpired:
		return "Lesson access has expired"
	case AccessBlockedPrivate:
		return "Private event access is required"
	default:
		return ""
	}
}

// AccessDecision is the unified outcome of a learner access check.
type AccessDecision struct {
	Authorized bool         `json:"authorized"`
	Status     AccessStatus `json:"status"`
	Message    string       `json:"message"`
	Event      Event        `json:"-"`
	Lesson     Lesson       `json:"-"`
}

func accessStatusOf(s LessonStatus) AccessStatus {
	switch s {
	case LessonReleased:
		return AccessReleased
	case LessonExpired:
		return AccessExpired
	case LessonLocked:
		return AccessLocked
	default:
		return AccessLocked
	}
}

// DecideAccess applies the visibility gate and then the release window.
// The gate runs first so a closed private event never reveals lesson timing.
func DecideAccess(event Event, lesson Lesson, key string, now time.Time) AccessDecision {
	status := AccessBlockedPrivate
	if IsVisibilityGateOpen(event, key) {
		status = accessStatusOf(ResolveStatus(lesson, now))
	}
	return AccessDecision{
		Authorized: status == AccessReleased,
		Status:     status,
		Message:    status.Message(),
		Event:      event,
		Lesson:     lesson,
	}
}
