package app

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"content-release-service/internal/domain"
)

// OptionInput is an authored option; an empty ID gets a fresh identity.
type OptionInput struct {
	ID        string
	Text      string
	IsCorrect bool
}

// QuestionInput is an authored question; a zero Order defaults to its 1-based position.
type QuestionInput struct {
	ID      string
	Prompt  string
	Order   int
	Options []OptionInput
}

// QuizInput is the authoring payload for a quiz. A nil PassPercentage defaults to 70.
type QuizInput struct {
	ID             string
	LessonID       string
	Title          string
	PassPercentage *int
	Questions      []QuestionInput
}

// QuizBuilder normalizes authoring input into a fully identified quiz aggregate.
type QuizBuilder struct {
	newID func() string
}

func NewQuizBuilder() *QuizBuilder {
	return &QuizBuilder{newID: uuid.NewString}
}

// WithIDGenerator allows tests to make generated identities deterministic.
func (b *QuizBuilder) WithIDGenerator(fn func() string) {
	if fn != nil {
		b.newID = fn
	}
}

// Build normalizes input and validates the authoring invariants.
func (b *QuizBuilder) Build(input QuizInput) (domain.Quiz, error) {
	quiz := b.normalize(input)
	if err := ValidateQuiz(quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// ValidateQuizPayload checks input against the authoring invariants without assigning identities.
func ValidateQuizPayload(input QuizInput) error {
	b := &QuizBuilder{newID: func() string { return "" }}
	return ValidateQuiz(b.normalize(input))
}

func (b *QuizBuilder) normalize(input QuizInput) domain.Quiz {
	return domain.Quiz{
		ID:             b.idOr(input.ID),
		LessonID:       input.LessonID,
		Title:          input.Title,
		PassPercentage: lo.FromPtrOr(input.PassPercentage, domain.DefaultPassPercentage),
		Questions: lo.Map(input.Questions, func(q QuestionInput, i int) domain.Question {
			return domain.Question{
				ID:     b.idOr(q.ID),
				Prompt: q.Prompt,
				Order:  lo.Ternary(q.Order > 0, q.Order, i+1),
				Options: lo.Map(q.Options, func(o OptionInput, _ int) domain.Option {
					return domain.Option{ID: b.idOr(o.ID), Text: o.Text, IsCorrect: o.IsCorrect}
				}),
			}
		}),
	}
}

func (b *QuizBuilder) idOr(id string) string {
	if id != "" {
		return id
	}
	return b.newID()
}

// ValidateQuiz enforces the authoring invariants on a normalized quiz.
// Once it passes, every question has at least two options and a correct one.
func ValidateQuiz(quiz domain.Quiz) error {
	if quiz.PassPercentage < 0 || quiz.PassPercentage > 100 {
		return domain.Errorf(domain.FaultQuizInvalidPayload, "pass percentage must be between 0 and 100")
	}
	if len(quiz.Questions) == 0 {
		return domain.Errorf(domain.FaultQuizInvalidPayload, "quiz must contain at least one question")
	}

	questionIDs := make(map[string]struct{}, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if q.ID != "" {
			if _, dup := questionIDs[q.ID]; dup {
				return domain.QuestionErrorf(domain.FaultQuizInvalidPayload, i, "question %d reuses id %s", i, q.ID)
			}
			questionIDs[q.ID] = struct{}{}
		}
		if len(q.Options) < 2 {
			return domain.QuestionErrorf(domain.FaultQuizInvalidPayload, i, "question %d must have at least two options", i)
		}
		optionIDs := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				continue
			}
			if _, dup := optionIDs[o.ID]; dup {
				return domain.QuestionErrorf(domain.FaultQuizInvalidPayload, i, "question %d reuses option id %s", i, o.ID)
			}
			optionIDs[o.ID] = struct{}{}
		}
		if _, ok := q.CorrectOption(); !ok {
			return domain.QuestionErrorf(domain.FaultQuizMissingCorrectOption, i, "question %d must have at least one correct option", i)
		}
	}
	return nil
}
