package app

import (
	"time"

	"content-release-service/internal/domain"
)

// GradeAttempt scores answers against the quiz answer key.
// It is pure: identical inputs yield identical results.
func GradeAttempt(quiz domain.Quiz, answers []domain.Answer, submittedAt time.Time) (domain.QuizResult, error) {
	questions := quiz.OrderedQuestions()

	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	submitted := make(map[string]string, len(answers))
	for _, a := range answers {
		if a.QuestionID == "" || a.OptionID == "" {
			return domain.QuizResult{}, domain.Errorf(domain.FaultQuizInvalidAttempt, "answers require a question id and an option id")
		}
		if _, dup := submitted[a.QuestionID]; dup {
			return domain.QuizResult{}, domain.Errorf(domain.FaultQuizInvalidAttempt, "each question can be answered only once")
		}
		if _, ok := known[a.QuestionID]; !ok {
			return domain.QuizResult{}, domain.Errorf(domain.FaultQuizInvalidAttempt, "question %s does not belong to quiz", a.QuestionID)
		}
		submitted[a.QuestionID] = a.OptionID
	}

	result := domain.QuizResult{
		QuizID:         quiz.ID,
		TotalQuestions: len(questions),
		PassPercentage: quiz.PassPercentage,
		Answers:        make([]domain.AnswerBreakdown, 0, len(questions)),
		SubmittedAt:    submittedAt.UTC(),
	}

	for _, q := range questions {
		breakdown := domain.AnswerBreakdown{QuestionID: q.ID}
		if correct, ok := q.CorrectOption(); ok {
			breakdown.CorrectOptionID = correct.ID
		}

		if optionID, ok := submitted[q.ID]; ok {
			if !q.HasOption(optionID) {
				return domain.QuizResult{}, domain.Errorf(domain.FaultQuizInvalidAttempt, "submitted option does not belong to question %s", q.ID)
			}
			selected := optionID
			breakdown.SubmittedOptionID = &selected
			breakdown.IsCorrect = optionID == breakdown.CorrectOptionID
			result.AnsweredQuestions++
		}
		if breakdown.IsCorrect {
			result.CorrectAnswers++
		}
		result.Answers = append(result.Answers, breakdown)
	}

	result.ScorePercentage = scorePercentage(result.CorrectAnswers, result.TotalQuestions)
	result.Passed = result.ScorePercentage >= quiz.PassPercentage
	result.Status = domain.QuizFailed
	if result.Passed {
		result.Status = domain.QuizPassed
	}
	return result, nil
}

// scorePercentage rounds correct/total*100 half up using integer arithmetic.
func scorePercentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return (correct*200 + total) / (2 * total)
}
