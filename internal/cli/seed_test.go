package cli

import (
	"context"
	"testing"
	"time"

	"content-release-service/internal/domain"
	"content-release-service/internal/infra/memory"
)

func TestSeedCatalogCoversEveryAccessStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	if err := seedCatalog(store, now); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		event, lesson, key string
		want               domain.AccessStatus
	}{
		{"open-day", "welcome", "", domain.AccessReleased},
		{"open-day", "finale", "", domain.AccessLocked},
		{"open-day", "recap", "", domain.AccessExpired},
		{"growth-summit", "keynote", "", domain.AccessBlockedPrivate},
		{"growth-summit", "keynote", "growth2026", domain.AccessReleased},
	}
	for _, tc := range cases {
		event, err := store.FindEventBySlug(ctx, tc.event)
		if err != nil {
			t.Fatalf("event %s: %v", tc.event, err)
		}
		lesson, err := store.FindLessonByEventAndSlug(ctx, event.ID, tc.lesson)
		if err != nil {
			t.Fatalf("lesson %s: %v", tc.lesson, err)
		}
		if got := domain.DecideAccess(event, lesson, tc.key, now).Status; got != tc.want {
			t.Fatalf("%s/%s: expected %s, got %s", tc.event, tc.lesson, tc.want, got)
		}
	}

	quiz, err := store.FindQuizByLessonID(ctx, "lsn-welcome")
	if err != nil {
		t.Fatalf("seeded quiz: %v", err)
	}
	if quiz.PassPercentage != domain.DefaultPassPercentage || len(quiz.Questions) != 2 {
		t.Fatalf("unexpected seeded quiz %+v", quiz)
	}
}
