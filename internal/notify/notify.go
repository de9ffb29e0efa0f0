// Package notify delivers reminder notifications to the user.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/notexe/reminders/internal/reminder"
)

// ErrNotification wraps every delivery failure.
var ErrNotification = errors.New("notification failed")

// Defaults used when a push payload carries no title or body.
const (
	DefaultPushTitle = "Reminder"
	DefaultPushBody  = "You have a reminder!"
)

// Notification is a system notification.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier shows a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// ForReminder builds the notification shown when r comes due.
func ForReminder(r reminder.Reminder) Notification {
	return Notification{
		Title: r.Title,
		Body:  fmt.Sprintf("%s at %s", r.Title, reminder.FormatTo12Hour(r.Time)),
	}
}

// ParsePush decodes a push payload. Missing fields and malformed payloads
// fall back to the default title and body.
func ParsePush(data []byte) Notification {
	var n Notification
	if len(strings.TrimSpace(string(data))) > 0 {
		_ = json.Unmarshal(data, &n)
	}
	if n.Title == "" {
		n.Title = DefaultPushTitle
	}
	if n.Body == "" {
		n.Body = DefaultPushBody
	}
	return n
}

// Permission is the user's answer to the notification permission request.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Gate forwards notifications only once permission has been granted.
// Anything else drops them silently.
type Gate struct {
	next Notifier

	mu   sync.RWMutex
	perm Permission
}

// NewGate wraps next with permission state "default".
func NewGate(next Notifier) *Gate {
	return &Gate{next: next, perm: PermissionDefault}
}

// RequestPermission asks once; later calls return the recorded answer. A nil
// ask grants. An ask error counts as denied.
func (g *Gate) RequestPermission(ctx context.Context, ask func(context.Context) (bool, error)) Permission {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.perm != PermissionDefault {
		return g.perm
	}
	if ask == nil {
		g.perm = PermissionGranted
		return g.perm
	}
	ok, err := ask(ctx)
	if err != nil || !ok {
		g.perm = PermissionDenied
	} else {
		g.perm = PermissionGranted
	}
	return g.perm
}

// Set records a permission without asking.
func (g *Gate) Set(p Permission) {
	g.mu.Lock()
	g.perm = p
	g.mu.Unlock()
}

// Permission returns the current state.
func (g *Gate) Permission() Permission {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.perm
}

func (g *Gate) Notify(ctx context.Context, n Notification) error {
	if perm := g.Permission(); perm != PermissionGranted {
		log.Printf("[notify] Dropped %q: permission %s", n.Title, perm)
		return nil
	}
	return g.next.Notify(ctx, n)
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, next := range m {
		if err := next.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
