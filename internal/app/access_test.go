package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"content-release-service/internal/domain"
)

func TestEvaluateAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name       string
		event      string
		lesson     string
		key        string
		status     domain.AccessStatus
		authorized bool
	}{
		{"public released", "open-day", "welcome", "", domain.AccessReleased, true},
		{"public locked", "open-day", "finale", "", domain.AccessLocked, false},
		{"private wrong key", "growth-summit", "keynote", "wrong", domain.AccessBlockedPrivate, false},
		{"private no key", "growth-summit", "keynote", "", domain.AccessBlockedPrivate, false},
		{"private right key", "growth-summit", "keynote", "growth2026", domain.AccessReleased, true},
		{"slugs are normalized", "Growth Summit", "KEYNOTE", "growth2026", domain.AccessReleased, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := f.access.EvaluateAccess(ctx, tt.event, tt.lesson, tt.key)
			if err != nil {
				t.Fatalf("EvaluateAccess() error = %v", err)
			}
			if d.Status != tt.status || d.Authorized != tt.authorized {
				t.Fatalf("expected %s/%v, got %s/%v", tt.status, tt.authorized, d.Status, d.Authorized)
			}
			if d.Message != tt.status.Message() {
				t.Fatalf("unexpected message %q", d.Message)
			}
		})
	}
}

func TestEvaluateAccessHidesTimingOfPrivateLessons(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mustLesson(t, f.store, domain.Lesson{EventID: f.private.ID, Slug: "later", ReleaseAt: fixedNow.AddDate(0, 1, 0)})

	d, err := f.access.EvaluateAccess(ctx, "growth-summit", "later", "wrong")
	if err != nil {
		t.Fatalf("EvaluateAccess() error = %v", err)
	}
	if d.Status != domain.AccessBlockedPrivate {
		t.Fatalf("expected blocked_private before lifecycle, got %s", d.Status)
	}

	d, _ = f.access.EvaluateAccess(ctx, "growth-summit", "later", "growth2026")
	if d.Status != domain.AccessLocked {
		t.Fatalf("expected locked with the right key, got %s", d.Status)
	}
}

func TestEvaluateAccessPrivateEventWithoutKeyNeverOpens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	event := mustEvent(t, f.store, domain.Event{Slug: "unkeyed", Visibility: domain.VisibilityPrivate})
	mustLesson(t, f.store, domain.Lesson{EventID: event.ID, Slug: "intro", ReleaseAt: fixedNow.Add(-time.Hour)})

	for _, key := range []string{"", "anything"} {
		d, err := f.access.EvaluateAccess(ctx, "unkeyed", "intro", key)
		if err != nil {
			t.Fatalf("EvaluateAccess() error = %v", err)
		}
		if d.Authorized || d.Status != domain.AccessBlockedPrivate {
			t.Fatalf("key %q: expected blocked_private, got %+v", key, d)
		}
	}
}

func TestEvaluateAccessNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.access.EvaluateAccess(ctx, "missing", "welcome", ""); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected event not found, got %v", err)
	}
	if _, err := f.access.EvaluateAccess(ctx, "open-day", "missing", ""); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("expected lesson not found, got %v", err)
	}
	// Lessons are scoped to their event.
	if _, err := f.access.EvaluateAccess(ctx, "open-day", "keynote", ""); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("expected lesson not found across events, got %v", err)
	}
}
