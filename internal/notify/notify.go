// Package notify delivers transient, non-blocking messages that report the
// outcome of an action in the console.
package notify

import "context"

// Kind classifies toast presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Toast is one user-visible notification.
type Toast struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

func Success(title, message string) Toast {
	return Toast{Title: title, Message: message, Kind: KindSuccess}
}

func Error(title, message string) Toast {
	return Toast{Title: title, Message: message, Kind: KindError}
}

// Notifier dispatches toasts. Implementations must not block on the caller's
// UI flow for longer than a single store round trip.
type Notifier interface {
	Notify(ctx context.Context, t Toast) error
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(ctx context.Context, t Toast) error

func (f NotifierFunc) Notify(ctx context.Context, t Toast) error {
	return f(ctx, t)
}

// Discard drops every toast.
var Discard Notifier = NotifierFunc(func(context.Context, Toast) error { return nil })
