package domain

import "time"

// Visibility controls who may reach the lessons of an event.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Event is a scheduled container of lessons.
type Event struct {
	ID         string     `json:"id"`
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	Visibility Visibility `json:"visibility"`
	AccessKey  string     `json:"-"` // empty means no key configured
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Material is a downloadable resource attached to a lesson.
type Material struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Lesson is a single piece of content released within [ReleaseAt, ExpiresAt).
type Lesson struct {
	ID          string     `json:"id"`
	EventID     string     `json:"eventId"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	PlaybackURL string     `json:"playbackUrl,omitempty"`
	Materials   []Material `json:"materials,omitempty"`
	ReleaseAt   time.Time  `json:"releaseAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Option represents a possible answer for a question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question models a multiple choice question with at least one correct option.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Order   int      `json:"order"`
	Options []Option `json:"options"`
}

// DefaultPassPercentage applies when an author does not pick a threshold.
const DefaultPassPercentage = 70

// Quiz is the aggregate of a lesson quiz with its questions and options.
type Quiz struct {
	ID             string     `json:"id"`
	LessonID       string     `json:"lessonId"`
	Title          string     `json:"title"`
	PassPercentage int        `json:"passPercentage"`
	Questions      []Question `json:"questions"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Answer is one (question, option) pair of a learner attempt.
type Answer struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

// QuizStatus is the pass/fail outcome of a graded attempt.
type QuizStatus string

const (
	QuizPassed QuizStatus = "passed"
	QuizFailed QuizStatus = "failed"
)

// AnswerBreakdown is the per-question grading detail.
type AnswerBreakdown struct {
	QuestionID        string  `json:"questionId"`
	SubmittedOptionID *string `json:"submittedOptionId"`
	CorrectOptionID   string  `json:"correctOptionId"`
	IsCorrect         bool    `json:"isCorrect"`
}

// QuizResult summarizes a graded attempt.
type QuizResult struct {
	QuizID            string            `json:"quizId"`
	TotalQuestions    int               `json:"totalQuestions"`
	AnsweredQuestions int               `json:"answeredQuestions"`
	CorrectAnswers    int               `json:"correctAnswers"`
	ScorePercentage   int               `json:"scorePercentage"`
	PassPercentage    int               `json:"passPercentage"`
	Status            QuizStatus        `json:"status"`
	Passed            bool              `json:"passed"`
	Answers           []AnswerBreakdown `json:"answers"`
	SubmittedAt       time.Time         `json:"submittedAt"`
}
