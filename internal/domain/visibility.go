package domain

// IsVisibilityGateOpen reports whether key unlocks the event.
// Public events are always open. A private event without a configured key stays closed.
func IsVisibilityGateOpen(event Event, key string) bool {
	if event.Visibility == VisibilityPublic {
		return true
	}
	if event.AccessKey == "" {
		return false
	}
	return key == event.AccessKey
}
