package app

import (
	"context"
	"errors"
	"time"

	"content-release-service/internal/domain"
	"content-release-service/internal/logger"
)

// QuizRepository persists quiz aggregates. Finders return domain.ErrQuizNotFound
// for unknown quizzes; CreateQuiz returns domain.ErrQuizLessonConflict when the
// lesson already owns a quiz.
type QuizRepository interface {
	FindQuizByID(ctx context.Context, quizID string) (domain.Quiz, error)
	FindQuizByLessonID(ctx context.Context, lessonID string) (domain.Quiz, error)
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error
}

// QuizService contains the quiz authoring and assessment use cases.
type QuizService struct {
	quizzes QuizRepository
	catalog CatalogRepository
	access  *AccessEvaluator
	builder *QuizBuilder
	log     *logger.Logger
	now     func() time.Time
}

func NewQuizService(quizzes QuizRepository, catalog CatalogRepository, access *AccessEvaluator, log *logger.Logger) *QuizService {
	return &QuizService{
		quizzes: quizzes,
		catalog: catalog,
		access:  access,
		builder: NewQuizBuilder(),
		log:     log.With("component", "QuizService"),
		now:     time.Now,
	}
}

// WithClock allows tests to override the clock used for timestamps.
func (s *QuizService) WithClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Builder exposes the quiz builder so callers can customise identity generation.
func (s *QuizService) Builder() *QuizBuilder {
	return s.builder
}

// CreateQuiz builds and stores the single quiz of a lesson.
func (s *QuizService) CreateQuiz(ctx context.Context, lessonID string, input QuizInput) (domain.Quiz, error) {
	if _, err := s.catalog.FindLessonByID(ctx, lessonID); err != nil {
		return domain.Quiz{}, err
	}

	input.LessonID = lessonID
	quiz, err := s.builder.Build(input)
	if err != nil {
		return domain.Quiz{}, err
	}

	if _, err := s.quizzes.FindQuizByLessonID(ctx, lessonID); err == nil {
		return domain.Quiz{}, domain.ErrQuizLessonConflict
	} else if !errors.Is(err, domain.ErrQuizNotFound) {
		return domain.Quiz{}, err
	}

	now := s.now().UTC()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	s.log.Info("quiz created", "quiz", quiz.ID, "lesson", lessonID, "questions", len(quiz.Questions))
	return quiz, nil
}

// UpdateQuiz replaces the whole question and option tree of an existing quiz.
func (s *QuizService) UpdateQuiz(ctx context.Context, quizID string, input QuizInput) (domain.Quiz, error) {
	existing, err := s.quizzes.FindQuizByID(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}

	input.ID = existing.ID
	input.LessonID = existing.LessonID
	quiz, err := s.builder.Build(input)
	if err != nil {
		return domain.Quiz{}, err
	}

	quiz.CreatedAt = existing.CreatedAt
	quiz.UpdatedAt = s.now().UTC()
	if err := s.quizzes.ReplaceQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	s.log.Info("quiz replaced", "quiz", quiz.ID, "questions", len(quiz.Questions))
	return quiz, nil
}

// GetQuiz returns the authored quiz including its answer key.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.FindQuizByID(ctx, quizID)
}

// LessonQuiz gates on the access decision and then loads the lesson quiz.
// An unauthorized decision is returned with a zero quiz and no error.
func (s *QuizService) LessonQuiz(ctx context.Context, eventSlug, lessonSlug, key string) (domain.AccessDecision, domain.Quiz, error) {
	decision, err := s.access.EvaluateAccess(ctx, eventSlug, lessonSlug, key)
	if err != nil || !decision.Authorized {
		return decision, domain.Quiz{}, err
	}
	quiz, err := s.quizzes.FindQuizByLessonID(ctx, decision.Lesson.ID)
	if err != nil {
		return decision, domain.Quiz{}, err
	}
	return decision, quiz, nil
}

// SubmitLessonQuiz gates on the access decision and grades the attempt.
// Attempts are not persisted.
func (s *QuizService) SubmitLessonQuiz(ctx context.Context, eventSlug, lessonSlug, key string, answers []domain.Answer) (domain.AccessDecision, domain.QuizResult, error) {
	decision, quiz, err := s.LessonQuiz(ctx, eventSlug, lessonSlug, key)
	if err != nil || !decision.Authorized {
		return decision, domain.QuizResult{}, err
	}

	result, err := GradeAttempt(quiz, answers, s.now())
	if err != nil {
		return decision, domain.QuizResult{}, err
	}
	s.log.Debug("quiz graded",
		"quiz", quiz.ID,
		"score", result.ScorePercentage,
		"status", string(result.Status),
	)
	return decision, result, nil
}
