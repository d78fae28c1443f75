package domain

import (
	"fmt"
	"time"
)

// LessonStatus is derived from the release window and a reference time.
type LessonStatus string

const (
	LessonLocked   LessonStatus = "locked"
	LessonReleased LessonStatus = "released"
	LessonExpired  LessonStatus = "expired"
)

// ResolveStatus places now relative to the lesson's release window.
// The release instant itself counts as released and the expiry instant as expired.
func ResolveStatus(lesson Lesson, now time.Time) LessonStatus {
	if lesson.ReleaseAt.After(now) {
		return LessonLocked
	}
	if lesson.ExpiresAt != nil && !lesson.ExpiresAt.After(now) {
		return LessonExpired
	}
	return LessonReleased
}

// Countdown is the display-only view of a lesson's window.
type Countdown struct {
	ReleaseAt        time.Time  `json:"releaseAt"`
	ExpiresAt        *time.Time `json:"expiresAt"`
	UnlocksInSeconds int64      `json:"unlocksInSeconds"`
}

// CountdownFor returns the whole seconds left until release, rounded up, never negative.
func CountdownFor(lesson Lesson, now time.Time) Countdown {
	remaining := lesson.ReleaseAt.Sub(now)
	var secs int64
	if remaining > 0 {
		secs = int64((remaining + time.Second - 1) / time.Second)
	}
	return Countdown{
		ReleaseAt:        lesson.ReleaseAt,
		ExpiresAt:        lesson.ExpiresAt,
		UnlocksInSeconds: secs,
	}
}

// ValidateLessonWindow enforces that an expiry, when set, falls strictly after the release.
func ValidateLessonWindow(releaseAt time.Time, expiresAt *time.Time) error {
	if releaseAt.IsZero() {
		return fmt.Errorf("%w: release time required", ErrInvalidLesson)
	}
	if expiresAt != nil && !expiresAt.After(releaseAt) {
		return fmt.Errorf("%w: expiry must be later than release", ErrInvalidLesson)
	}
	return nil
}
