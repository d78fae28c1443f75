package app

import (
	"context"
	"errors"
	"testing"

	"content-release-service/internal/domain"
)

func TestCreateQuiz(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	quiz, err := f.quizzes.CreateQuiz(ctx, f.open.ID, twoQuestionInput(nil))
	if err != nil {
		t.Fatalf("CreateQuiz() error = %v", err)
	}
	if quiz.ID == "" || quiz.LessonID != f.open.ID || quiz.PassPercentage != 70 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
	if !quiz.CreatedAt.Equal(fixedNow) || !quiz.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected timestamps from clock, got %s / %s", quiz.CreatedAt, quiz.UpdatedAt)
	}

	stored, err := f.quizzes.GetQuiz(ctx, quiz.ID)
	if err != nil || len(stored.Questions) != 2 {
		t.Fatalf("expected stored quiz, got %+v (%v)", stored, err)
	}
}

func TestCreateQuizRejectsSecondQuizForLesson(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.quizzes.CreateQuiz(ctx, f.open.ID, twoQuestionInput(nil)); err != nil {
		t.Fatalf("first CreateQuiz() error = %v", err)
	}
	if _, err := f.quizzes.CreateQuiz(ctx, f.open.ID, twoQuestionInput(nil)); !errors.Is(err, domain.ErrQuizLessonConflict) {
		t.Fatalf("expected lesson conflict, got %v", err)
	}
}

func TestCreateQuizMissingCorrectOptionIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	input := twoQuestionInput(nil)
	input.Questions[0].Options[1].IsCorrect = false

	_, err := f.quizzes.CreateQuiz(ctx, f.open.ID, input)
	var fe *domain.Error
	if !errors.As(err, &fe) || fe.Fault != domain.FaultQuizMissingCorrectOption || fe.QuestionIndex == nil || *fe.QuestionIndex != 0 {
		t.Fatalf("expected missing correct option at index 0, got %v", err)
	}
	if _, err := f.store.FindQuizByLessonID(ctx, f.open.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected no quiz persisted, got %v", err)
	}
}

func TestCreateQuizUnknownLesson(t *testing.T) {
	f := newFixture(t)
	if _, err := f.quizzes.CreateQuiz(context.Background(), "nope", twoQuestionInput(nil)); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("expected lesson not found, got %v", err)
	}
}

func TestUpdateQuizReplacesTree(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.quizzes.CreateQuiz(ctx, f.open.ID, twoQuestionInput(nil))
	if err != nil {
		t.Fatalf("CreateQuiz() error = %v", err)
	}

	updated, err := f.quizzes.UpdateQuiz(ctx, created.ID, QuizInput{
		Title:          "Rewritten",
		PassPercentage: intPtr(100),
		Questions: []QuestionInput{
			{Prompt: "only one now", Options: []OptionInput{{Text: "yes", IsCorrect: true}, {Text: "no"}}},
		},
	})
	if err != nil {
		t.Fatalf("UpdateQuiz() error = %v", err)
	}
	if updated.ID != created.ID || updated.LessonID != f.open.ID || len(updated.Questions) != 1 || updated.PassPercentage != 100 {
		t.Fatalf("unexpected replaced quiz: %+v", updated)
	}

	stored, _ := f.quizzes.GetQuiz(ctx, created.ID)
	if len(stored.Questions) != 1 || stored.Questions[0].Prompt != "only one now" {
		t.Fatalf("expected question tree replaced, got %+v", stored.Questions)
	}
}

func TestUpdateQuizNotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.quizzes.UpdateQuiz(context.Background(), "nope", twoQuestionInput(nil)); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestSubmitLessonQuiz(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.quizzes.CreateQuiz(ctx, f.secret.ID, twoQuestionInput(intPtr(50))); err != nil {
		t.Fatalf("CreateQuiz() error = %v", err)
	}
	answers := []domain.Answer{{QuestionID: "q1", OptionID: "o2"}, {QuestionID: "q2", OptionID: "o3"}}

	decision, result, err := f.quizzes.SubmitLessonQuiz(ctx, "growth-summit", "keynote", "wrong", answers)
	if err != nil {
		t.Fatalf("SubmitLessonQuiz() error = %v", err)
	}
	if decision.Authorized || decision.Status != domain.AccessBlockedPrivate || result.QuizID != "" {
		t.Fatalf("expected blocked submission without result, got %+v %+v", decision, result)
	}

	decision, result, err = f.quizzes.SubmitLessonQuiz(ctx, "growth-summit", "keynote", "growth2026", answers)
	if err != nil {
		t.Fatalf("SubmitLessonQuiz() error = %v", err)
	}
	if !decision.Authorized || result.ScorePercentage != 50 || result.Status != domain.QuizPassed {
		t.Fatalf("unexpected outcome: %+v %+v", decision, result)
	}
}

func TestLessonQuizWithoutQuiz(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.quizzes.LessonQuiz(context.Background(), "open-day", "welcome", "")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestLessonQuizLockedLesson(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.quizzes.CreateQuiz(ctx, f.locked.ID, twoQuestionInput(nil)); err != nil {
		t.Fatalf("CreateQuiz() error = %v", err)
	}
	decision, quiz, err := f.quizzes.LessonQuiz(ctx, "open-day", "finale", "")
	if err != nil {
		t.Fatalf("LessonQuiz() error = %v", err)
	}
	if decision.Status != domain.AccessLocked || quiz.ID != "" {
		t.Fatalf("expected locked without quiz, got %+v %+v", decision, quiz)
	}
}
