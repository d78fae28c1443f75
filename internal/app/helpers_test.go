package app

import (
	"testing"
	"time"

	"content-release-service/internal/domain"
	"content-release-service/internal/infra/memory"
	"content-release-service/internal/logger"
)

var fixedNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	access  *AccessEvaluator
	quizzes *QuizService
	public  domain.Event
	private domain.Event
	open    domain.Lesson // released lesson of the public event
	locked  domain.Lesson // locked lesson of the public event
	secret  domain.Lesson // released lesson of the private event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()

	public := mustEvent(t, store, domain.Event{ID: "ev-public", Slug: "open-day", Visibility: domain.VisibilityPublic})
	private := mustEvent(t, store, domain.Event{ID: "ev-private", Slug: "growth-summit", Visibility: domain.VisibilityPrivate, AccessKey: "growth2026"})

	expires := fixedNow.Add(24 * time.Hour)
	f := &fixture{
		store:   store,
		public:  public,
		private: private,
		open:    mustLesson(t, store, domain.Lesson{ID: "ls-open", EventID: public.ID, Slug: "welcome", ReleaseAt: fixedNow.Add(-time.Hour), ExpiresAt: &expires}),
		locked:  mustLesson(t, store, domain.Lesson{ID: "ls-locked", EventID: public.ID, Slug: "finale", ReleaseAt: fixedNow.Add(time.Hour)}),
		secret:  mustLesson(t, store, domain.Lesson{ID: "ls-secret", EventID: private.ID, Slug: "keynote", ReleaseAt: fixedNow.Add(-time.Hour)}),
	}

	f.access = NewAccessEvaluator(store, logger.Nop())
	f.access.WithClock(func() time.Time { return fixedNow })
	f.quizzes = NewQuizService(store, store, f.access, logger.Nop())
	f.quizzes.WithClock(func() time.Time { return fixedNow })
	return f
}

func mustEvent(t *testing.T, store *memory.Store, event domain.Event) domain.Event {
	t.Helper()
	out, err := store.PutEvent(event)
	if err != nil {
		t.Fatalf("put event: %v", err)
	}
	return out
}

func mustLesson(t *testing.T, store *memory.Store, lesson domain.Lesson) domain.Lesson {
	t.Helper()
	out, err := store.PutLesson(lesson)
	if err != nil {
		t.Fatalf("put lesson: %v", err)
	}
	return out
}

func intPtr(v int) *int { return &v }

// twoQuestionInput has q1 (correct o2) and q2 (correct o4).
func twoQuestionInput(pass *int) QuizInput {
	return QuizInput{
		Title:          "Checkpoint",
		PassPercentage: pass,
		Questions: []QuestionInput{
			{ID: "q1", Prompt: "2 + 2?", Options: []OptionInput{
				{ID: "o1", Text: "3"},
				{ID: "o2", Text: "4", IsCorrect: true},
			}},
			{ID: "q2", Prompt: "3 + 3?", Options: []OptionInput{
				{ID: "o3", Text: "5"},
				{ID: "o4", Text: "6", IsCorrect: true},
			}},
		},
	}
}
