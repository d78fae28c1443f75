package domain

import (
	"errors"
	"fmt"
)

// Fault enumerates every failure the engine can report.
type Fault int

const (
	FaultEventNotFound Fault = iota + 1
	FaultLessonNotFound
	FaultQuizNotFound
	FaultQuizInvalidPayload
	FaultQuizMissingCorrectOption
	FaultQuizLessonConflict
	FaultQuizInvalidAttempt
)

// Code returns the stable wire code of the fault.
func (f Fault) Code() string {
	switch f {
	case FaultEventNotFound:
		return "EVENT_NOT_FOUND"
	case FaultLessonNotFound:
		return "LESSON_NOT_FOUND"
	case FaultQuizNotFound:
		return "QUIZ_NOT_FOUND"
	case FaultQuizInvalidPayload:
		return "QUIZ_INVALID_PAYLOAD"
	case FaultQuizMissingCorrectOption:
		return "QUIZ_MISSING_CORRECT_OPTION"
	case FaultQuizLessonConflict:
		return "QUIZ_LESSON_CONFLICT"
	case FaultQuizInvalidAttempt:
		return "QUIZ_INVALID_ATTEMPT"
	default:
		return "INTERNAL"
	}
}

// Error carries a fault with a human readable message.
// QuestionIndex is the zero-based position of the offending question in an
// authoring payload, or nil when the fault is not tied to one.
type Error struct {
	Fault         Fault
	Message       string
	QuestionIndex *int
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same fault, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Fault == e.Fault
}

// Errorf builds a fault error with a formatted message.
func Errorf(fault Fault, format string, args ...any) *Error {
	return &Error{Fault: fault, Message: fmt.Sprintf(format, args...)}
}

// QuestionErrorf builds a fault error tied to a question index.
func QuestionErrorf(fault Fault, index int, format string, args ...any) *Error {
	err := Errorf(fault, format, args...)
	err.QuestionIndex = &index
	return err
}

var (
	// ErrEventNotFound is returned when no event matches the slug.
	ErrEventNotFound = &Error{Fault: FaultEventNotFound, Message: "event not found"}
	// ErrLessonNotFound is returned when the event has no lesson with the slug.
	ErrLessonNotFound = &Error{Fault: FaultLessonNotFound, Message: "lesson not found"}
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = &Error{Fault: FaultQuizNotFound, Message: "quiz not found"}
	// ErrQuizInvalidPayload flags a structurally invalid authoring payload.
	ErrQuizInvalidPayload = &Error{Fault: FaultQuizInvalidPayload, Message: "invalid quiz payload"}
	// ErrQuizMissingCorrectOption flags a question with no correct option.
	ErrQuizMissingCorrectOption = &Error{Fault: FaultQuizMissingCorrectOption, Message: "question has no correct option"}
	// ErrQuizLessonConflict is returned when a lesson already has a quiz.
	ErrQuizLessonConflict = &Error{Fault: FaultQuizLessonConflict, Message: "lesson already has a quiz"}
	// ErrQuizInvalidAttempt flags duplicate or mismatched answers.
	ErrQuizInvalidAttempt = &Error{Fault: FaultQuizInvalidAttempt, Message: "invalid quiz attempt"}

	// ErrInvalidLesson is returned by stores when a lesson violates its write-time invariants.
	ErrInvalidLesson = errors.New("invalid lesson")
)
