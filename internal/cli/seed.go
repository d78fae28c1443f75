package cli

import (
	"context"
	"time"

	"content-release-service/internal/app"
	"content-release-service/internal/domain"
	"content-release-service/internal/infra/memory"
)

// seedCatalog loads a small demo catalog relative to now: one public event with
// a released, a locked and an expired lesson, plus a private event.
func seedCatalog(store *memory.Store, now time.Time) error {
	now = now.UTC().Truncate(time.Second)

	public, err := store.PutEvent(domain.Event{
		ID: "evt-open-day", Slug: "open-day", Title: "Open Day", Visibility: domain.VisibilityPublic,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		return err
	}
	private, err := store.PutEvent(domain.Event{
		ID: "evt-growth-summit", Slug: "growth-summit", Title: "Growth Summit", Visibility: domain.VisibilityPrivate,
		AccessKey: "growth2026", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	expired := now.Add(-time.Hour)
	lessons := []domain.Lesson{
		{
			ID: "lsn-welcome", EventID: public.ID, Slug: "welcome", Title: "Welcome",
			PlaybackURL: "https://cdn.example.com/open-day/welcome.m3u8",
			Materials:   []domain.Material{{Title: "Slides", URL: "https://cdn.example.com/open-day/welcome.pdf"}},
			ReleaseAt:   now.Add(-time.Hour),
		},
		{
			ID: "lsn-finale", EventID: public.ID, Slug: "finale", Title: "Finale",
			PlaybackURL: "https://cdn.example.com/open-day/finale.m3u8",
			ReleaseAt:   now.Add(2 * time.Minute),
		},
		{
			ID: "lsn-recap", EventID: public.ID, Slug: "recap", Title: "Recap",
			ReleaseAt: now.Add(-48 * time.Hour), ExpiresAt: &expired,
		},
		{
			ID: "lsn-keynote", EventID: private.ID, Slug: "keynote", Title: "Keynote",
			PlaybackURL: "https://cdn.example.com/growth-summit/keynote.m3u8",
			ReleaseAt:   now.Add(-time.Hour),
		},
	}
	for _, lesson := range lessons {
		lesson.CreatedAt, lesson.UpdatedAt = now, now
		if _, err := store.PutLesson(lesson); err != nil {
			return err
		}
	}

	quiz, err := app.NewQuizBuilder().Build(app.QuizInput{
		ID:       "quiz-welcome",
		LessonID: "lsn-welcome",
		Title:    "Welcome check",
		Questions: []app.QuestionInput{
			{ID: "q1", Prompt: "What is 2 + 2?", Options: []app.OptionInput{
				{ID: "o1", Text: "3"},
				{ID: "o2", Text: "4", IsCorrect: true},
				{ID: "o3", Text: "5"},
			}},
			{ID: "q2", Prompt: "Which planet is known as the red planet?", Options: []app.OptionInput{
				{ID: "o4", Text: "Mars", IsCorrect: true},
				{ID: "o5", Text: "Venus"},
			}},
		},
	})
	if err != nil {
		return err
	}
	quiz.CreatedAt, quiz.UpdatedAt = now, now
	return store.CreateQuiz(context.Background(), quiz)
}
