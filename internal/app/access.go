package app

import (
	"context"
	"time"

	"content-release-service/internal/domain"
	"content-release-service/internal/logger"
)

// CatalogRepository resolves events and lessons. Implementations return
// domain.ErrEventNotFound / domain.ErrLessonNotFound for unknown identities.
type CatalogRepository interface {
	FindEventBySlug(ctx context.Context, slug string) (domain.Event, error)
	FindLessonByEventAndSlug(ctx context.Context, eventID, slug string) (domain.Lesson, error)
	FindLessonByID(ctx context.Context, lessonID string) (domain.Lesson, error)
}

// AccessEvaluator decides whether a learner may view a lesson right now.
type AccessEvaluator struct {
	catalog CatalogRepository
	log     *logger.Logger
	now     func() time.Time
}

func NewAccessEvaluator(catalog CatalogRepository, log *logger.Logger) *AccessEvaluator {
	return &AccessEvaluator{
		catalog: catalog,
		log:     log.With("component", "AccessEvaluator"),
		now:     time.Now,
	}
}

// WithClock allows tests to override the clock used by the evaluator.
func (e *AccessEvaluator) WithClock(fn func() time.Time) {
	if fn != nil {
		e.now = fn
	}
}

// Now returns the evaluator's reference time.
func (e *AccessEvaluator) Now() time.Time {
	return e.now()
}

// EvaluateAccess looks up the event and lesson and returns the access decision.
// Unknown slugs are errors; blocked, locked and expired lessons are decisions.
func (e *AccessEvaluator) EvaluateAccess(ctx context.Context, eventSlug, lessonSlug, key string) (domain.AccessDecision, error) {
	event, err := e.catalog.FindEventBySlug(ctx, domain.NormalizeSlug(eventSlug))
	if err != nil {
		return domain.AccessDecision{}, err
	}
	lesson, err := e.catalog.FindLessonByEventAndSlug(ctx, event.ID, domain.NormalizeSlug(lessonSlug))
	if err != nil {
		return domain.AccessDecision{}, err
	}

	decision := domain.DecideAccess(event, lesson, key, e.now())
	e.log.Debug("access evaluated",
		"event", event.Slug,
		"lesson", lesson.Slug,
		"status", string(decision.Status),
		"authorized", decision.Authorized,
	)
	return decision, nil
}
