package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsVisibilityGateOpen(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		key   string
		want  bool
	}{
		{"public without key", Event{Visibility: VisibilityPublic}, "", true},
		{"public ignores key", Event{Visibility: VisibilityPublic, AccessKey: "k"}, "wrong", true},
		{"private matching key", Event{Visibility: VisibilityPrivate, AccessKey: "growth2026"}, "growth2026", true},
		{"private wrong key", Event{Visibility: VisibilityPrivate, AccessKey: "growth2026"}, "wrong", false},
		{"private case differs", Event{Visibility: VisibilityPrivate, AccessKey: "growth2026"}, "Growth2026", false},
		{"private trailing space", Event{Visibility: VisibilityPrivate, AccessKey: "growth2026"}, "growth2026 ", false},
		{"private unset key empty input", Event{Visibility: VisibilityPrivate}, "", false},
		{"private unset key any input", Event{Visibility: VisibilityPrivate}, "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisibilityGateOpen(tt.event, tt.key); got != tt.want {
				t.Fatalf("IsVisibilityGateOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecideAccessGateBeforeLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	event := Event{Visibility: VisibilityPrivate, AccessKey: "growth2026"}

	lessons := map[string]Lesson{
		"released": {ReleaseAt: now.Add(-24 * time.Hour)},
		"locked":   {ReleaseAt: now.Add(24 * time.Hour)},
		"expired":  {ReleaseAt: now.Add(-48 * time.Hour), ExpiresAt: &past},
	}
	for name, lesson := range lessons {
		d := DecideAccess(event, lesson, "wrong", now)
		if d.Authorized || d.Status != AccessBlockedPrivate {
			t.Fatalf("%s lesson: expected blocked_private, got %+v", name, d)
		}
		if d.Message != "Private event access is required" {
			t.Fatalf("%s lesson: unexpected message %q", name, d.Message)
		}
	}
}

func TestDecideAccessStatuses(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	event := Event{Visibility: VisibilityPrivate, AccessKey: "growth2026"}

	tests := []struct {
		lesson     Lesson
		status     AccessStatus
		authorized bool
		message    string
	}{
		{Lesson{ReleaseAt: now.Add(-time.Hour)}, AccessReleased, true, "Lesson is available"},
		{Lesson{ReleaseAt: now.Add(time.Hour)}, AccessLocked, false, "Lesson is not released yet"},
		{Lesson{ReleaseAt: now.Add(-2 * time.Hour), ExpiresAt: &past}, AccessExpired, false, "Lesson access has expired"},
	}
	for _, tt := range tests {
		d := DecideAccess(event, tt.lesson, "growth2026", now)
		if d.Status != tt.status || d.Authorized != tt.authorized || d.Message != tt.message {
			t.Fatalf("expected %s/%v/%q, got %+v", tt.status, tt.authorized, tt.message, d)
		}
	}
}

func TestErrorMatchesSentinelByFault(t *testing.T) {
	err := fmt.Errorf("grade: %w", Errorf(FaultQuizInvalidAttempt, "each question can be answered only once"))
	if !errors.Is(err, ErrQuizInvalidAttempt) {
		t.Fatalf("expected wrapped fault to match sentinel")
	}
	if errors.Is(err, ErrQuizInvalidPayload) {
		t.Fatalf("different faults must not match")
	}

	var fe *Error
	if !errors.As(err, &fe) || fe.Fault.Code() != "QUIZ_INVALID_ATTEMPT" {
		t.Fatalf("unexpected fault details: %+v", fe)
	}
	if ErrQuizLessonConflict.Fault.Code() != "QUIZ_LESSON_CONFLICT" || ErrLessonNotFound.Fault.Code() != "LESSON_NOT_FOUND" {
		t.Fatalf("unexpected wire codes")
	}
}

func TestNormalizeSlug(t *testing.T) {
	tests := map[string]string{
		"Growth Summit":      "growth-summit",
		"  intro--to  GO  ":  "intro-to-go",
		"already-normal":     "already-normal",
		"Lesson #1: Basics!": "lesson-1-basics",
		"---":                "",
		"Ünïcode Title 2026": "n-code-title-2026",
	}
	for in, want := range tests {
		if got := NormalizeSlug(in); got != want {
			t.Fatalf("NormalizeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}
