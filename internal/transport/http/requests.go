package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"content-release-service/internal/app"
	"content-release-service/internal/domain"
)

const maxBodyBytes = 1 << 20

type optionRequest struct {
	ID        string `json:"id" validate:"max=64"`
	Text      string `json:"text" validate:"max=1000"`
	IsCorrect bool   `json:"isCorrect"`
}

type questionRequest struct {
	ID      string          `json:"id" validate:"max=64"`
	Prompt  string          `json:"prompt" validate:"max=2000"`
	Order   int             `json:"order" validate:"gte=0"`
	Options []optionRequest `json:"options" validate:"dive"`
}

type quizRequest struct {
	Title          string            `json:"title" validate:"max=200"`
	PassPercentage *int              `json:"passPercentage" validate:"omitempty,min=0,max=100"`
	Questions      []questionRequest `json:"questions" validate:"dive"`
}

func (r quizRequest) toInput() app.QuizInput {
	input := app.QuizInput{
		Title:          r.Title,
		PassPercentage: r.PassPercentage,
		Questions:      make([]app.QuestionInput, 0, len(r.Questions)),
	}
	for _, q := range r.Questions {
		question := app.QuestionInput{ID: q.ID, Prompt: q.Prompt, Order: q.Order}
		for _, o := range q.Options {
			question.Options = append(question.Options, app.OptionInput{ID: o.ID, Text: o.Text, IsCorrect: o.IsCorrect})
		}
		input.Questions = append(input.Questions, question)
	}
	return input
}

type answerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	OptionID   string `json:"optionId" validate:"required"`
}

type submissionRequest struct {
	Answers []answerRequest `json:"answers" validate:"dive"`
}

func (r submissionRequest) toAnswers() []domain.Answer {
	answers := make([]domain.Answer, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, domain.Answer{QuestionID: a.QuestionID, OptionID: a.OptionID})
	}
	return answers
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &badRequestError{err: err}
	}
	return v.Struct(dst)
}
