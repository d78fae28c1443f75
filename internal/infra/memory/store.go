package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"content-release-service/internal/domain"
)

// Store is an in-memory catalog and quiz repository, used for demos and tests.
type Store struct {
	mu           sync.RWMutex
	events       map[string]domain.Event // by id
	eventSlugs   map[string]string       // slug -> event id
	lessons      map[string]domain.Lesson
	lessonSlugs  map[lessonKey]string
	quizzes      map[string]domain.Quiz
	quizByLesson map[string]string
}

type lessonKey struct {
	eventID string
	slug    string
}

func NewStore() *Store {
	return &Store{
		events:       make(map[string]domain.Event),
		eventSlugs:   make(map[string]string),
		lessons:      make(map[string]domain.Lesson),
		lessonSlugs:  make(map[lessonKey]string),
		quizzes:      make(map[string]domain.Quiz),
		quizByLesson: make(map[string]string),
	}
}

// PutEvent inserts or replaces an event, normalizing its slug.
func (s *Store) PutEvent(event domain.Event) (domain.Event, error) {
	event.Slug = domain.NormalizeSlug(event.Slug)
	if event.Slug == "" {
		return domain.Event{}, fmt.Errorf("event slug required")
	}
	if event.Visibility != domain.VisibilityPublic && event.Visibility != domain.VisibilityPrivate {
		return domain.Event{}, fmt.Errorf("unknown visibility %q", event.Visibility)
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.eventSlugs[event.Slug]; ok && id != event.ID {
		return domain.Event{}, fmt.Errorf("event slug %q already taken", event.Slug)
	}
	if prev, ok := s.events[event.ID]; ok {
		delete(s.eventSlugs, prev.Slug)
	}
	s.events[event.ID] = event
	s.eventSlugs[event.Slug] = event.ID
	return event, nil
}

// PutLesson inserts or replaces a lesson of an existing event.
func (s *Store) PutLesson(lesson domain.Lesson) (domain.Lesson, error) {
	lesson.Slug = domain.NormalizeSlug(lesson.Slug)
	if lesson.Slug == "" {
		return domain.Lesson{}, fmt.Errorf("%w: slug required", domain.ErrInvalidLesson)
	}
	if err := domain.ValidateLessonWindow(lesson.ReleaseAt, lesson.ExpiresAt); err != nil {
		return domain.Lesson{}, err
	}
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[lesson.EventID]; !ok {
		return domain.Lesson{}, domain.ErrEventNotFound
	}
	key := lessonKey{eventID: lesson.EventID, slug: lesson.Slug}
	if id, ok := s.lessonSlugs[key]; ok && id != lesson.ID {
		return domain.Lesson{}, fmt.Errorf("%w: slug %q already used in event", domain.ErrInvalidLesson, lesson.Slug)
	}
	if prev, ok := s.lessons[lesson.ID]; ok {
		delete(s.lessonSlugs, lessonKey{eventID: prev.EventID, slug: prev.Slug})
	}
	lesson.Materials = slices.Clone(lesson.Materials)
	s.lessons[lesson.ID] = lesson
	s.lessonSlugs[key] = lesson.ID
	return lesson, nil
}

func (s *Store) FindEventBySlug(_ context.Context, slug string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.eventSlugs[slug]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return s.events[id], nil
}

func (s *Store) FindLessonByEventAndSlug(_ context.Context, eventID, slug string) (domain.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.lessonSlugs[lessonKey{eventID: eventID, slug: slug}]
	if !ok {
		return domain.Lesson{}, domain.ErrLessonNotFound
	}
	return s.lessons[id], nil
}

func (s *Store) FindLessonByID(_ context.Context, lessonID string) (domain.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lesson, ok := s.lessons[lessonID]
	if !ok {
		return domain.Lesson{}, domain.ErrLessonNotFound
	}
	return lesson, nil
}

func (s *Store) FindQuizByID(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(quiz), nil
}

func (s *Store) FindQuizByLessonID(_ context.Context, lessonID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.quizByLesson[lessonID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(s.quizzes[id]), nil
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizByLesson[quiz.LessonID]; ok {
		return domain.ErrQuizLessonConflict
	}
	if _, ok := s.quizzes[quiz.ID]; ok {
		return fmt.Errorf("quiz %s already exists", quiz.ID)
	}
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	s.quizByLesson[quiz.LessonID] = quiz.ID
	return nil
}

func (s *Store) ReplaceQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.quizzes[quiz.ID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	if prev.LessonID != quiz.LessonID {
		return fmt.Errorf("quiz %s cannot move between lessons", quiz.ID)
	}
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

// cloneQuiz copies the question and option slices so callers never share them with the store.
func cloneQuiz(q domain.Quiz) domain.Quiz {
	questions := make([]domain.Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = slices.Clone(question.Options)
		questions[i] = question
	}
	q.Questions = questions
	return q
}
