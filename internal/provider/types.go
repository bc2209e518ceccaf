// Package provider declares the collaborators the incident engine talks to.
// Implementations live in sub-packages.
package provider

import "context"

// SpeechRenderer reads text aloud.
type SpeechRenderer interface {
	Speak(ctx context.Context, text string) error
}

// ImagePresenceDetector reports whether an image appears to show a visible
// injury. The answer is advisory; it is displayed but never used to decide
// severity.
type ImagePresenceDetector interface {
	HasVisibleInjury(ctx context.Context, image []byte) (bool, error)
}

// Notifier sends a message to an operator channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
