package domain

import (
	"slices"

	"github.com/samber/lo"
)

// OrderedQuestions returns a copy of the questions sorted by ascending Order.
// Questions sharing an Order keep their authored sequence.
func (q Quiz) OrderedQuestions() []Question {
	out := slices.Clone(q.Questions)
	slices.SortStableFunc(out, func(a, b Question) int {
		return a.Order - b.Order
	})
	return out
}

// CorrectOption returns the first option flagged correct.
func (q Question) CorrectOption() (Option, bool) {
	return lo.Find(q.Options, func(o Option) bool { return o.IsCorrect })
}

// HasOption reports whether optionID belongs to the question.
func (q Question) HasOption(optionID string) bool {
	return lo.ContainsBy(q.Options, func(o Option) bool { return o.ID == optionID })
}

// LearnerOption is an option as shown to learners, without the answer key.
type LearnerOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// LearnerQuestion is a question as shown to learners.
type LearnerQuestion struct {
	ID      string          `json:"id"`
	Prompt  string          `json:"prompt"`
	Order   int             `json:"order"`
	Options []LearnerOption `json:"options"`
}

// LearnerQuiz is the quiz view served before an attempt.
type LearnerQuiz struct {
	ID             string            `json:"id"`
	LessonID       string            `json:"lessonId"`
	Title          string            `json:"title"`
	PassPercentage int               `json:"passPercentage"`
	Questions      []LearnerQuestion `json:"questions"`
}

// LearnerView strips correctness flags and orders questions for display.
func (q Quiz) LearnerView() LearnerQuiz {
	return LearnerQuiz{
		ID:             q.ID,
		LessonID:       q.LessonID,
		Title:          q.Title,
		PassPercentage: q.PassPercentage,
		Questions: lo.Map(q.OrderedQuestions(), func(question Question, _ int) LearnerQuestion {
			return LearnerQuestion{
				ID:     question.ID,
				Prompt: question.Prompt,
				Order:  question.Order,
				Options: lo.Map(question.Options, func(o Option, _ int) LearnerOption {
					return LearnerOption{ID: o.ID, Text: o.Text}
				}),
			}
		}),
	}
}
